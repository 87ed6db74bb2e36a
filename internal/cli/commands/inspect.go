package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/labelsugar/internal/cli/output"
	"github.com/leapstack-labs/labelsugar/internal/compiler"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	Format string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the reactive state a file declares",
		Long: `Inspect compiles a file in memory and reports every ref declaration with
the modifier allocated for it, plus how many mutations, property mutations,
effects and memos were rewritten. Nothing is written.`,
		Example: `  labelsugar inspect src/Counter.jsx
  labelsugar inspect src/Counter.jsx --format yaml
  labelsugar inspect - < App.js`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}

	addSugarFlags(cmd)
	addBuildFlags(cmd)
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "report format: table, markdown, json or yaml (default follows --output)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "markdown", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runInspect(cmd *cobra.Command, path string, opts *InspectOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = cc.Close() }()

	var out *compiler.Output
	if path == "-" {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		out, err = cc.Compiler.CompileSource("stdin.js", string(src))
		if err != nil {
			return err
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		out, err = cc.Compiler.CompileFile(compiler.Source{Path: path, Rel: path})
		if err != nil {
			return err
		}
	}

	report := inspectReport(out)
	format := opts.Format
	if format == "" {
		switch cc.Renderer.EffectiveMode() {
		case output.ModeJSON:
			format = "json"
		case output.ModeMarkdown:
			format = "markdown"
		default:
			format = "table"
		}
	}
	return renderInspect(cc.Renderer, report, format)
}

func inspectReport(out *compiler.Output) output.InspectOutput {
	report := output.InspectOutput{
		Path:      out.Source.Path,
		States:    make([]output.StateInfo, 0, len(out.Result.Bindings)),
		Mutations: out.Result.Mutations,
		Wrapped:   out.Result.Wrapped,
		Effects:   out.Result.Effects,
		Memos:     out.Result.Memos,
	}
	for _, b := range out.Result.Bindings {
		report.States = append(report.States, output.StateInfo{
			Name:     b.Name(),
			Modifier: b.Modifier.Name,
			Position: b.Identify.Span.Start.String(),
		})
	}
	return report
}

func renderInspect(r *output.Renderer, report output.InspectOutput, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return r.JSON(report)
	case "yaml", "yml":
		enc := yaml.NewEncoder(r.Writer())
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case "md", "markdown":
		r.Println(output.FormatHeader(1, report.Path))
		r.Println()
		if len(report.States) > 0 {
			r.Println(stateTable(report.States).RenderMarkdown())
			r.Println()
		}
		r.Println(output.FormatHeader(2, "Rewrites"))
		for _, kv := range rewriteCounts(report) {
			r.Println(output.FormatKeyValue(kv[0], kv[1]))
		}
		return nil
	case "table", "text":
		styles := r.Styles()
		r.Println(styles.FilePath.Render(report.Path))
		if len(report.States) == 0 {
			r.Println(styles.Muted.Render("(no state declared)"))
		} else {
			r.Println(stateTable(report.States).Render())
		}
		parts := make([]string, 0, 4)
		for _, kv := range rewriteCounts(report) {
			parts = append(parts, fmt.Sprintf("%s %s", kv[1], strings.ToLower(kv[0])))
		}
		r.Println(styles.Muted.Render(strings.Join(parts, ", ")))
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, markdown, json or yaml)", format)
	}
}

func stateTable(states []output.StateInfo) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"State", "Modifier", "Position"})
	for _, s := range states {
		t.AppendRow(table.Row{s.Name, s.Modifier, s.Position})
	}
	return t
}

func rewriteCounts(report output.InspectOutput) [][2]string {
	return [][2]string{
		{"Mutations", fmt.Sprintf("%d", report.Mutations)},
		{"Wrapped", fmt.Sprintf("%d", report.Wrapped)},
		{"Effects", fmt.Sprintf("%d", report.Effects)},
		{"Memos", fmt.Sprintf("%d", report.Memos)},
	}
}
