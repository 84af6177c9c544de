package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateThumbnails(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if filepath.Clean(c.Paths.CatalogPath) == filepath.Clean(c.Paths.DataDir) {
		return errors.New("paths.catalog_path must point to a file, not the data directory")
	}
	return nil
}

func (c *Config) validateThumbnails() error {
	if c.Thumbnails.Width > maxThumbnailEdge || c.Thumbnails.Height > maxThumbnailEdge {
		return fmt.Errorf("thumbnails.width and thumbnails.height must be at most %d", maxThumbnailEdge)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
