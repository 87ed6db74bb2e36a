// Package config provides configuration management for the labelsugar CLI.
//
// The desugaring options come from pkg/sugar and the build settings from
// internal/config; this package layers them with the CLI-only fields and
// loads the result from defaults, a config file, the environment and flags.
package config

import (
	intconfig "github.com/leapstack-labs/labelsugar/internal/config"
	"github.com/leapstack-labs/labelsugar/pkg/sugar"
)

// BuildConfig is an alias for the shared build configuration.
type BuildConfig = intconfig.BuildConfig

// Config file names searched for, in order.
const (
	ConfigFileYAML = "labelsugar.yaml"
	ConfigFileYML  = "labelsugar.yml"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "LABELSUGAR_"

// DefaultOutput is the default output mode.
const DefaultOutput = "auto"

// Config holds all CLI configuration options.
type Config struct {
	Sugar        sugar.Options `koanf:"sugar" yaml:"sugar" json:"sugar"`
	Build        BuildConfig   `koanf:"build" yaml:"build" json:"build"`
	Verbose      bool          `koanf:"verbose" yaml:"verbose" json:"verbose"`
	OutputFormat string        `koanf:"output" yaml:"output" json:"output"`

	// ProjectRoot is the directory relative config paths resolve against:
	// the config file's directory, or the working directory without one.
	ProjectRoot string `koanf:"-" yaml:"-" json:"-"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	build := BuildConfig{}
	intconfig.ApplyBuildDefaults(&build)
	return &Config{
		Sugar:        sugar.DefaultOptions(),
		Build:        build,
		OutputFormat: DefaultOutput,
	}
}
