package main

import (
	"strings"
	"sync"

	"gymforge/internal/config"
	"gymforge/internal/logging"
	"gymforge/internal/pipeline"
	"gymforge/internal/sessions"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withRunner opens the registry and constructs a runner for the duration
// of one command invocation.
func (c *commandContext) withRunner(fn func(*config.Config, *sessions.Store, *pipeline.Runner) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	return c.withStore(func(store *sessions.Store) error {
		runner, err := pipeline.NewRunner(cfg, store, logger)
		if err != nil {
			return err
		}
		return fn(cfg, store, runner)
	})
}

func (c *commandContext) withStore(fn func(*sessions.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := sessions.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
