package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"slidedeck/internal/config"
	"slidedeck/internal/library"
	"slidedeck/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
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

// loggerValue builds the configured logger once. A logger that cannot be
// built falls back to a no-op so commands still run.
func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

// withLibrary opens the library for the duration of fn. The data directory
// lock is released when fn returns, whatever the outcome.
func (c *commandContext) withLibrary(fn func(*library.Library) error) (err error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lib, err := library.Open(cfg, c.loggerValue())
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer func() {
		if closeErr := lib.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(lib)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
