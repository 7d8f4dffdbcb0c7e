package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"lgdhemis/internal/config"
	"lgdhemis/internal/logging"
)

// commandContext resolves configuration and the logger once per invocation
// and applies command-line overrides on top of the file.
type commandContext struct {
	configFlag string
	logLevel   string
	logFormat  string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := strings.TrimSpace(c.logLevel); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := strings.TrimSpace(c.logFormat); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		if err := cfg.Validate(); err != nil {
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

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// resolveDirs expands the positional input and output directories.
func resolveDirs(args []string) (string, string, error) {
	inputDir, err := config.ExpandPath(args[0])
	if err != nil {
		return "", "", fmt.Errorf("resolve input directory: %w", err)
	}
	outputDir, err := config.ExpandPath(args[1])
	if err != nil {
		return "", "", fmt.Errorf("resolve output directory: %w", err)
	}
	return inputDir, outputDir, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
