package config

const (
	defaultDataDir   = "~/.local/share/gymforge/data"
	defaultOutputDir = "~/.local/share/gymforge/output"
	defaultLogDir    = "~/.local/share/gymforge/logs"

	defaultClickThresholdPx  = 5.0
	defaultClickThresholdMs  = 500
	defaultDragControlPoints = 8
	defaultMaxConcurrentRuns = 4

	defaultFFmpegBinary    = "ffmpeg"
	defaultFFprobeBinary   = "ffprobe"
	defaultFrameIntervalMs = 1000

	defaultMaxCaptionSamples    = 3
	defaultMaxTransitionSamples = 3
	defaultMaxStructuredSamples = 3

	defaultVLMBaseURL        = "https://api.openai.com/v1/chat/completions"
	defaultVLMModel          = "gpt-4o"
	defaultVLMMaxTokens      = 500
	defaultVLMTimeoutSeconds = 0 // no timeout; a hung call stalls the session

	defaultTesseractBinary = "tesseract"
	defaultOCRLanguage     = "eng"

	defaultTokenizerModel        = "gpt-4"
	defaultMaxConversationTokens = 65536

	defaultStrokeControlPoints = 32
	defaultSplineDegree        = 3

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Pipeline: Pipeline{
			ClickThresholdPx:  defaultClickThresholdPx,
			ClickThresholdMs:  defaultClickThresholdMs,
			DragControlPoints: defaultDragControlPoints,
			MaxConcurrentRuns: defaultMaxConcurrentRuns,
			WriteDebugHTML:    true,
		},
		Video: Video{
			FFmpegBinary:    defaultFFmpegBinary,
			FFprobeBinary:   defaultFFprobeBinary,
			FrameIntervalMs: defaultFrameIntervalMs,
		},
		Augment: Augment{
			Enabled:              true,
			MaxCaptionSamples:    defaultMaxCaptionSamples,
			MaxTransitionSamples: defaultMaxTransitionSamples,
			MaxStructuredSamples: defaultMaxStructuredSamples,
		},
		VLM: VLM{
			BaseURL:        defaultVLMBaseURL,
			Model:          defaultVLMModel,
			MaxTokens:      defaultVLMMaxTokens,
			TimeoutSeconds: defaultVLMTimeoutSeconds,
		},
		OCR: OCR{
			TesseractBinary: defaultTesseractBinary,
			Language:        defaultOCRLanguage,
		},
		Finetune: Finetune{
			TokenizerModel:        defaultTokenizerModel,
			MaxConversationTokens: defaultMaxConversationTokens,
		},
		Paint: Paint{
			StrokeControlPoints: defaultStrokeControlPoints,
			SplineDegree:        defaultSplineDegree,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
