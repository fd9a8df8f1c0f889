package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePipeline()
	c.normalizeVideo()
	c.normalizeVLM()
	c.normalizeOCR()
	c.normalizeFinetune()
	if err := c.normalizePaint(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePipeline() {
	if c.Pipeline.ClickThresholdPx <= 0 {
		c.Pipeline.ClickThresholdPx = defaultClickThresholdPx
	}
	if c.Pipeline.ClickThresholdMs <= 0 {
		c.Pipeline.ClickThresholdMs = defaultClickThresholdMs
	}
	if c.Pipeline.DragControlPoints <= 0 {
		c.Pipeline.DragControlPoints = defaultDragControlPoints
	}
	if c.Pipeline.MaxConcurrentRuns <= 0 {
		c.Pipeline.MaxConcurrentRuns = defaultMaxConcurrentRuns
	}
}

func (c *Config) normalizeVideo() {
	if strings.TrimSpace(c.Video.FFmpegBinary) == "" {
		c.Video.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Video.FFprobeBinary) == "" {
		c.Video.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Video.FrameIntervalMs <= 0 {
		c.Video.FrameIntervalMs = defaultFrameIntervalMs
	}
}

func (c *Config) normalizeVLM() {
	if c.VLM.APIKey == "" {
		if value, ok := os.LookupEnv("GYMFORGE_API_KEY"); ok {
			c.VLM.APIKey = value
		}
	}
	c.VLM.BaseURL = strings.TrimSpace(c.VLM.BaseURL)
	if c.VLM.BaseURL == "" {
		c.VLM.BaseURL = defaultVLMBaseURL
	}
	c.VLM.Model = strings.TrimSpace(c.VLM.Model)
	if c.VLM.Model == "" {
		c.VLM.Model = defaultVLMModel
	}
	if c.VLM.MaxTokens <= 0 {
		c.VLM.MaxTokens = defaultVLMMaxTokens
	}
}

func (c *Config) normalizeOCR() {
	if strings.TrimSpace(c.OCR.TesseractBinary) == "" {
		c.OCR.TesseractBinary = defaultTesseractBinary
	}
	if strings.TrimSpace(c.OCR.Language) == "" {
		c.OCR.Language = defaultOCRLanguage
	}
}

func (c *Config) normalizeFinetune() {
	if strings.TrimSpace(c.Finetune.TokenizerModel) == "" {
		c.Finetune.TokenizerModel = defaultTokenizerModel
	}
	if c.Finetune.MaxConversationTokens <= 0 {
		c.Finetune.MaxConversationTokens = defaultMaxConversationTokens
	}
}

func (c *Config) normalizePaint() error {
	var err error
	if c.Paint.MetadataPath != "" {
		if c.Paint.MetadataPath, err = expandPath(c.Paint.MetadataPath); err != nil {
			return fmt.Errorf("paint.metadata_path: %w", err)
		}
	}
	if c.Paint.DoodleDir != "" {
		if c.Paint.DoodleDir, err = expandPath(c.Paint.DoodleDir); err != nil {
			return fmt.Errorf("paint.doodle_dir: %w", err)
		}
	}
	if c.Paint.StrokeControlPoints <= 0 {
		c.Paint.StrokeControlPoints = defaultStrokeControlPoints
	}
	if c.Paint.SplineDegree <= 0 {
		c.Paint.SplineDegree = defaultSplineDegree
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
