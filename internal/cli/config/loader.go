package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	intconfig "github.com/leapstack-labs/labelsugar/internal/config"
	"github.com/leapstack-labs/labelsugar/pkg/sugar"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config // Stores the loaded config for access by commands
)

// flagKeys maps CLI flags onto their nested config keys. Flags missing here
// map to their snake_case name at the top level.
var flagKeys = map[string]string{
	"state-label":        "sugar.state_label",
	"watch-label":        "sugar.watch_label",
	"state-factory":      "sugar.state_factory",
	"effect-factory":     "sugar.effect_factory",
	"memo-factory":       "sugar.memo_factory",
	"ignore-member-expr": "sugar.ignore_member_expr",
	"out-dir":            "build.out_dir",
	"cache":              "build.cache",
	"minify":             "build.minify",
	"target":             "build.target",
	"jsx-factory":        "build.jsx_factory",
	"jsx-fragment":       "build.jsx_fragment",
	"concurrency":        "build.concurrency",
	"extensions":         "build.extensions",
	"debounce":           "build.debounce",
}

// cliOnlyFlags never reach the config tree.
var cliOnlyFlags = map[string]bool{
	"config":  true,
	"help":    true,
	"version": true,
	"watch":   true,
	"format":  true,

	"stdin-filename": true,
	"jsx":            true,
}

// configExistsIn returns the config file in dir, if any.
func configExistsIn(dir string) string {
	for _, name := range []string{ConfigFileYAML, ConfigFileYML} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findConfigUpward searches upward from startDir for a config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if found := configExistsIn(dir); found != "" {
			return found
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

func defaults() map[string]interface{} {
	opts := sugar.DefaultOptions()
	return map[string]interface{}{
		"sugar.state_label":        opts.StateLabel,
		"sugar.watch_label":        opts.WatchLabel,
		"sugar.state_factory":      opts.StateFactory,
		"sugar.effect_factory":     opts.EffectFactory,
		"sugar.memo_factory":       opts.MemoFactory,
		"sugar.ignore_member_expr": opts.IgnoreMemberExpr,
		"build.target":             intconfig.DefaultTarget,
		"build.extensions":         slices.Clone(intconfig.DefaultExtensions),
		"build.debounce":           intconfig.DefaultDebounce.String(),
		"verbose":                  false,
		"output":                   DefaultOutput,
	}
}

// envKey maps LABELSUGAR_BUILD__OUT_DIR to build.out_dir.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// LoadConfig loads configuration from defaults, a config file, environment
// variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file: explicit path, else search upward from CWD
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	projectRoot := cwd
	if cfgFile == "" {
		cfgFile = findConfigUpward(cwd)
	}
	configFileUsed = cfgFile
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			projectRoot = filepath.Dir(abs)
		}
	}

	// 3. Load environment variables (LABELSUGAR_ prefix, __ separates levels)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	var flagOutDir, flagCache string
	if flags != nil {
		flagOutDir = absFlagPath(flags, "out-dir")
		flagCache = absFlagPath(flags, "cache")
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed || cliOnlyFlags[f.Name] {
				return "", nil
			}
			if key, ok := flagKeys[f.Name]; ok {
				return key, posflag.FlagVal(flags, f)
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct. Env vars arrive as strings, so lists
	// are comma separated and durations parsed.
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve paths: flags relative to CWD, everything else relative to
	// the project root
	cfg.ProjectRoot = projectRoot
	if flagOutDir != "" {
		cfg.Build.OutDir = flagOutDir
	} else {
		cfg.Build.OutDir = resolvePathRelativeTo(cfg.Build.OutDir, projectRoot)
	}
	if flagCache != "" {
		cfg.Build.Cache = flagCache
	} else {
		cfg.Build.Cache = resolvePathRelativeTo(cfg.Build.Cache, projectRoot)
	}
	intconfig.ApplyBuildDefaults(&cfg.Build)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// absFlagPath returns the value of a changed path flag made absolute against
// the working directory, or "" when the flag is unset.
func absFlagPath(flags *pflag.FlagSet, name string) string {
	if flags.Lookup(name) == nil || !flags.Changed(name) {
		return ""
	}
	v, _ := flags.GetString(name)
	if v == "" {
		return ""
	}
	abs, err := filepath.Abs(v)
	if err != nil {
		return v
	}
	return abs
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
