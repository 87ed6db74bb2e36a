package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/labelsugar/internal/cli/config"
	"github.com/leapstack-labs/labelsugar/internal/cli/output"
	"github.com/leapstack-labs/labelsugar/internal/compiler"
	"github.com/leapstack-labs/labelsugar/internal/state"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Compiler *compiler.Compiler
	Renderer *output.Renderer
	// Store is the build state database; nil unless a cache path is set.
	Store *state.SQLiteStore
}

// NewCommandContext creates a CommandContext with a compiler built from the
// loaded configuration. Callers must Close it.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger(cmd.Context())

	var store *state.SQLiteStore
	ccfg := compiler.Config{
		Sugar:  cfg.Sugar,
		Build:  cfg.Build,
		Logger: logger,
	}
	if cfg.Build.Cache != "" {
		store, err = state.Open(cfg.Build.Cache, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache %s: %w", cfg.Build.Cache, err)
		}
		ccfg.Cache = store
	}

	c, err := compiler.New(ccfg)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Compiler: c,
		Renderer: r,
		Store:    store,
	}, nil
}

// Close releases the build state database.
func (cc *CommandContext) Close() error {
	if cc.Store == nil {
		return nil
	}
	return cc.Store.Close()
}

// getConfig returns the configuration loaded by the root command, loading
// it from the command's flags when the command runs on its own.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	cfgFile, _ := cmd.Flags().GetString("config")
	return config.LoadConfig(cfgFile, cmd.Flags())
}

// addSugarFlags registers the desugaring flags shared by every command that
// compiles code.
func addSugarFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("state-label", "", "label that declares reactive state (default \"ref\")")
	f.String("watch-label", "", "label that declares effects and memos (default \"watch\")")
	f.String("state-factory", "", "call emitted for state declarations (default \"React.useState\")")
	f.String("effect-factory", "", "call emitted for effects (default \"React.useEffect\")")
	f.String("memo-factory", "", "call emitted for memos (default \"React.useMemo\")")
	f.Bool("ignore-member-expr", true, "leave property mutations such as obj.a = 1 untouched")
}

// addBuildFlags registers the lowering flags.
func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("target", "", "language level JSX and TypeScript are lowered to (default \"esnext\")")
	f.String("jsx-factory", "", "function JSX elements compile to (default \"React.createElement\")")
	f.String("jsx-fragment", "", "component JSX fragments compile to (default \"React.Fragment\")")
	f.Bool("minify", false, "minify the output")
}
