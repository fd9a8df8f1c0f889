package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateAugment(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.DragControlPoints < 2 {
		return errors.New("pipeline.drag_control_points must be at least 2")
	}
	return nil
}

func (c *Config) validateAugment() error {
	if !c.Augment.Enabled {
		return nil
	}
	if c.Augment.MaxCaptionSamples < 0 || c.Augment.MaxTransitionSamples < 0 || c.Augment.MaxStructuredSamples < 0 {
		return errors.New("augment sample caps must not be negative")
	}
	if c.VLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/gymforge/config.toml"
		}
		return fmt.Errorf("vlm.api_key is required when augmentation is enabled. Set GYMFORGE_API_KEY or edit %s (create with 'gymforge config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
