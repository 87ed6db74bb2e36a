package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/leapstack-labs/labelsugar/internal/cli/output"
	"github.com/leapstack-labs/labelsugar/internal/compiler"
	"github.com/leapstack-labs/labelsugar/internal/state"
	"github.com/spf13/cobra"
)

// TransformOptions holds options for the transform command.
type TransformOptions struct {
	Watch         bool
	StdinFilename string
}

// NewTransformCommand creates the transform command.
func NewTransformCommand() *cobra.Command {
	opts := &TransformOptions{}

	cmd := &cobra.Command{
		Use:     "transform [paths...]",
		Aliases: []string{"build"},
		Short:   "Desugar ref and watch labels into hook calls",
		Long: `Transform rewrites labeled statements into React hook calls.

  ref: count = 0          becomes  const [count, _setCount] = React.useState(0);
  count += 1              becomes  _setCount(count => count + 1);
  watch: (count) => f()   becomes  React.useEffect(() => f(), [count]);
  watch: x = (a) => a * 2 becomes  const x = React.useMemo(() => a * 2, [a]);

Paths may be files or directories. Directories are searched recursively for
source files, skipping node_modules and hidden directories. JSX and
TypeScript are lowered first.

Without --out-dir a single input is printed to stdout. With no paths, or the
path "-", source is read from stdin.`,
		Example: `  # Print one file
  labelsugar transform src/Counter.jsx

  # Compile a tree into dist/
  labelsugar transform src --out-dir dist

  # Recompile on change
  labelsugar transform src --out-dir dist --watch

  # Skip files unchanged since the last run
  labelsugar transform src --out-dir dist --cache .labelsugar/state.db

  # Filter stdin with immer-style state
  cat App.js | labelsugar transform --state-factory useImmer --ignore-member-expr=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, args, opts)
		},
	}

	addSugarFlags(cmd)
	addBuildFlags(cmd)
	cmd.Flags().StringP("out-dir", "d", "", "directory compiled files are written to")
	cmd.Flags().String("cache", "", "build state database; unchanged files are served from it")
	cmd.Flags().Int("concurrency", 0, "files compiled at once (default: number of CPUs)")
	cmd.Flags().StringSlice("extensions", nil, "file extensions picked up from directories")
	cmd.Flags().Duration("debounce", 0, "quiet period before watch mode recompiles (default 100ms)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "recompile when files change")
	cmd.Flags().StringVar(&opts.StdinFilename, "stdin-filename", "stdin.js", "file name stdin is compiled as; its extension picks the loader")

	return cmd
}

func runTransform(cmd *cobra.Command, args []string, opts *TransformOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = cc.Close() }()

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		if opts.Watch {
			return errors.New("--watch needs file or directory paths")
		}
		return transformStdin(cmd.InOrStdin(), cc, opts.StdinFilename)
	}

	sources, err := cc.Compiler.Discover(args)
	if err != nil {
		return err
	}
	outDir := cc.Compiler.Build().OutDir
	if outDir == "" && (len(sources) != 1 || opts.Watch) {
		return fmt.Errorf("found %d source files; use --out-dir to write them", len(sources))
	}

	if opts.Watch {
		return watchTransform(cmd.Context(), cc, args)
	}

	run := startRun(cc, "transform")
	outputs, err := compileAndWrite(cmd.Context(), cc, sources)
	finishRun(cc, run, len(sources), outputs, err)
	if err != nil {
		return err
	}

	if outDir == "" {
		_, err := io.WriteString(cc.Renderer.Writer(), outputs[0].Code)
		return err
	}
	return renderTransform(cc, outputs)
}

func compileAndWrite(ctx context.Context, cc *CommandContext, sources []compiler.Source) ([]*compiler.Output, error) {
	outputs, err := cc.Compiler.CompileFiles(ctx, sources)
	if err != nil {
		return nil, err
	}
	if cc.Compiler.Build().OutDir == "" {
		return outputs, nil
	}
	for _, out := range outputs {
		if _, err := cc.Compiler.Write(out); err != nil {
			return nil, err
		}
	}
	return outputs, nil
}

// startRun records a run in the build state database, if there is one.
func startRun(cc *CommandContext, command string) *state.Run {
	if cc.Store == nil {
		return nil
	}
	run, err := cc.Store.CreateRun(command)
	if err != nil {
		cc.Logger.Warn("failed to record run", slog.Any("error", err))
		return nil
	}
	return run
}

func finishRun(cc *CommandContext, run *state.Run, files int, outputs []*compiler.Output, runErr error) {
	if run == nil {
		return
	}
	status := state.RunStatusCompleted
	var errMsg string
	if runErr != nil {
		status = state.RunStatusFailed
		errMsg = runErr.Error()
	}
	cached := 0
	for _, out := range outputs {
		if out.Cached {
			cached++
		}
	}
	if err := cc.Store.CompleteRun(run.ID, status, files, cached, errMsg); err != nil {
		cc.Logger.Warn("failed to complete run", slog.String("id", run.ID), slog.Any("error", err))
	}
}

func transformStdin(in io.Reader, cc *CommandContext, filename string) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	out, err := cc.Compiler.CompileSource(filename, string(src))
	if err != nil {
		return err
	}
	_, err = io.WriteString(cc.Renderer.Writer(), out.Code)
	return err
}

func watchTransform(ctx context.Context, cc *CommandContext, paths []string) error {
	r := cc.Renderer
	styles := r.Styles()
	r.Println(styles.Muted.Render(fmt.Sprintf("Watching %d path(s), writing to %s (Ctrl+C to stop)", len(paths), cc.Compiler.Build().OutDir)))

	return cc.Compiler.Watch(ctx, paths, func(out *compiler.Output, err error) {
		if err != nil {
			r.Error(err.Error())
			return
		}
		path, err := cc.Compiler.Write(out)
		if err != nil {
			r.Error(err.Error())
			return
		}
		cc.Logger.Debug("wrote output", slog.String("path", path))
		r.StatusLine(out.Source.Rel, "success", describeOutput(out))
	})
}

func describeOutput(out *compiler.Output) string {
	if out.Cached {
		return fmt.Sprintf("(%d rewrites, cached)", out.Stats.Rewrites())
	}
	return fmt.Sprintf("(%d rewrites, %s)", out.Stats.Rewrites(), output.FormatDuration(out.Duration))
}

func fileResult(out *compiler.Output, path string) output.FileResult {
	return output.FileResult{
		Path:       out.Source.Path,
		Output:     path,
		States:     out.Stats.States,
		Mutations:  out.Stats.Mutations,
		Wrapped:    out.Stats.Wrapped,
		Effects:    out.Stats.Effects,
		Memos:      out.Stats.Memos,
		Cached:     out.Cached,
		DurationMs: float64(out.Duration) / float64(time.Millisecond),
	}
}

func renderTransform(cc *CommandContext, outputs []*compiler.Output) error {
	r := cc.Renderer
	report := output.TransformOutput{
		Files:   make([]output.FileResult, 0, len(outputs)),
		Summary: output.TransformSummary{Files: len(outputs)},
	}
	for _, out := range outputs {
		report.Files = append(report.Files, fileResult(out, cc.Compiler.OutputPath(out.Source)))
		report.Summary.Rewrites += out.Stats.Rewrites()
		if out.Cached {
			report.Summary.Cached++
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(report)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Transform"))
		r.Println()
		for _, f := range report.Files {
			r.Println(output.FormatKeyValue(f.Path, f.Output))
		}
		r.Println()
		r.Println(output.FormatHeader(2, "Summary"))
		r.Println(output.FormatKeyValue("Files", fmt.Sprintf("%d", report.Summary.Files)))
		r.Println(output.FormatKeyValue("Rewrites", fmt.Sprintf("%d", report.Summary.Rewrites)))
		if report.Summary.Cached > 0 {
			r.Println(output.FormatKeyValue("Cached", fmt.Sprintf("%d", report.Summary.Cached)))
		}
		return nil
	default:
		for _, out := range outputs {
			r.StatusLine(out.Source.Rel, "success", describeOutput(out))
		}
		r.Success(fmt.Sprintf("Compiled %d file(s) with %d rewrites into %s",
			report.Summary.Files, report.Summary.Rewrites, cc.Compiler.Build().OutDir))
		return nil
	}
}
