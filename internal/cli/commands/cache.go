package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/labelsugar/internal/cli/config"
	"github.com/leapstack-labs/labelsugar/internal/cli/output"
	"github.com/leapstack-labs/labelsugar/internal/state"
	"github.com/spf13/cobra"
)

var errNoCache = errors.New("no cache configured; set build.cache or pass --cache")

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the build state database",
		Long: `The build state database holds the compiled output of every file transformed
with --cache, keyed by the file content and the settings it was compiled
with, plus a history of transform runs.`,
	}
	cmd.PersistentFlags().String("cache", "", "build state database (default from build.cache)")

	cmd.AddCommand(newCacheRunsCommand())
	cmd.AddCommand(newCacheClearCommand())
	return cmd
}

func newCacheRunsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent transform runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, r, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.ListRuns(limit)
			if err != nil {
				return err
			}
			return renderRuns(r, runs)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show")
	return cmd
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, r, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			n, err := store.ClearEntries()
			if err != nil {
				return err
			}
			r.Success(fmt.Sprintf("Removed %d cached file(s) from %s", n, store.Path()))
			return nil
		},
	}
}

func openCache(cmd *cobra.Command) (*state.SQLiteStore, *output.Renderer, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Build.Cache == "" {
		return nil, nil, errNoCache
	}
	store, err := state.Open(cfg.Build.Cache, config.GetLogger(cmd.Context()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache %s: %w", cfg.Build.Cache, err)
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	return store, r, nil
}

func runInfo(run *state.Run) output.RunInfo {
	info := output.RunInfo{
		ID:        run.ID,
		Command:   run.Command,
		Status:    string(run.Status),
		Files:     run.Files,
		Cached:    run.Cached,
		StartedAt: run.StartedAt.Format(time.RFC3339),
		Error:     run.Error,
	}
	if run.CompletedAt != nil {
		info.DurationMs = float64(run.CompletedAt.Sub(run.StartedAt)) / float64(time.Millisecond)
	}
	return info
}

func renderRuns(r *output.Renderer, runs []*state.Run) error {
	infos := make([]output.RunInfo, 0, len(runs))
	for _, run := range runs {
		infos = append(infos, runInfo(run))
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(infos)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Runs"))
		r.Println()
		if len(infos) == 0 {
			r.Println("No runs recorded.")
			return nil
		}
		r.Println(runTable(infos).RenderMarkdown())
		return nil
	default:
		if len(infos) == 0 {
			r.Muted("No runs recorded.")
			return nil
		}
		r.Println(runTable(infos).Render())
		return nil
	}
}

func runTable(runs []output.RunInfo) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Started", "Status", "Files", "Cached", "Duration", "Error"})
	for _, run := range runs {
		duration := "-"
		if run.DurationMs > 0 {
			duration = output.FormatDuration(time.Duration(run.DurationMs * float64(time.Millisecond)))
		}
		t.AppendRow(table.Row{run.StartedAt, run.Status, run.Files, run.Cached, duration, run.Error})
	}
	return t
}
