package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// DataDir holds session artifacts: <id>.guac protocol logs,
	// <id>.guac.m4v recordings, <id>.events.json application logs, and
	// the sessions database.
	DataDir string `toml:"data_dir"`
	// OutputDir receives datasets and debug visualizations.
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Pipeline contains event-extraction tuning. The click thresholds and
// control-point count have no protocol-defined derivation; they are the
// values the training consumers were built against.
type Pipeline struct {
	ClickThresholdPx  float64 `toml:"click_threshold_px"`
	ClickThresholdMs  int64   `toml:"click_threshold_ms"`
	DragControlPoints int     `toml:"drag_control_points"`
	MaxConcurrentRuns int     `toml:"max_concurrent_runs"`
	WriteDebugHTML    bool    `toml:"write_debug_html"`
}

// Video contains frame-extraction settings.
type Video struct {
	FFmpegBinary    string `toml:"ffmpeg_binary"`
	FFprobeBinary   string `toml:"ffprobe_binary"`
	FrameIntervalMs int64  `toml:"frame_interval_ms"`
}

// Augment contains sample caps for the ML augmentation stages. Caps
// bound external model invocation volume per session.
type Augment struct {
	Enabled              bool `toml:"enabled"`
	MaxCaptionSamples    int  `toml:"max_caption_samples"`
	MaxTransitionSamples int  `toml:"max_transition_samples"`
	MaxStructuredSamples int  `toml:"max_structured_samples"`
}

// VLM contains connection settings for the vision-capable chat
// completion API used by the augmentation stages.
type VLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	MaxTokens      int    `toml:"max_tokens"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// OCR contains tesseract invocation settings.
type OCR struct {
	TesseractBinary string `toml:"tesseract_binary"`
	Language        string `toml:"language"`
}

// Finetune contains dataset assembly settings.
type Finetune struct {
	TokenizerModel        string `toml:"tokenizer_model"`
	MaxConversationTokens int    `toml:"max_conversation_tokens"`
}

// Paint contains synthetic-session generation settings.
type Paint struct {
	MetadataPath        string `toml:"metadata_path"`
	DoodleDir           string `toml:"doodle_dir"`
	StrokeControlPoints int    `toml:"stroke_control_points"`
	SmoothStrokes       bool   `toml:"smooth_strokes"`
	SplineDegree        int    `toml:"spline_degree"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for gymforge.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Pipeline Pipeline `toml:"pipeline"`
	Video    Video    `toml:"video"`
	Augment  Augment  `toml:"augment"`
	VLM      VLM      `toml:"vlm"`
	OCR      OCR      `toml:"ocr"`
	Finetune Finetune `toml:"finetune"`
	Paint    Paint    `toml:"paint"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/gymforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to path.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates the configured data, output, and log
// directories if they do not already exist.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
