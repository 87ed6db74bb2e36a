package config

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/labelsugar/internal/cli/output"
	"github.com/leapstack-labs/labelsugar/internal/jsbuild"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Sugar.Validate(); err != nil {
		return fmt.Errorf("sugar: %w", err)
	}
	if _, err := jsbuild.ParseTarget(c.Build.Target); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if c.Build.Concurrency < 0 {
		return errors.New("build: concurrency must not be negative")
	}
	if c.Build.Debounce < 0 {
		return errors.New("build: debounce must not be negative")
	}
	if !output.IsValidMode(c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (want one of auto, text, markdown, json)", c.OutputFormat)
	}
	return nil
}
