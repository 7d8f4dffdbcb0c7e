package config

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.Minccalc == "" {
		return errors.New("tools.minccalc must be set")
	}
	if c.Tools.ExtractWMHemispheres == "" {
		return errors.New("tools.extract_wm_hemispheres must be set")
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers < 0 {
		return errors.New("batch.workers must be >= 0 (0 selects one worker per CPU)")
	}
	return ValidatePattern(c.Batch.Pattern)
}

// ValidatePattern reports whether pattern is a usable segmentation glob.
func ValidatePattern(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("batch.pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "auto":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console, json, or auto)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
