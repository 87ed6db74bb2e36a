package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

const (
	replPrompt     = "labelsugar> "
	replContinue   = "       ...> "
	replTerminator = ";;"
)

// REPLOptions holds options for the repl command.
type REPLOptions struct {
	JSX bool
}

// lineReader is the part of readline the loop needs, so piped input can
// skip the terminal.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// scanReader reads lines from a non-terminal input.
type scanReader struct {
	scanner *bufio.Scanner
}

func (s *scanReader) Readline() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

func (s *scanReader) SetPrompt(string) {}

func (s *scanReader) Close() error { return nil }

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	opts := &REPLOptions{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Desugar snippets interactively",
		Long: `Start an interactive session that desugars each snippet as it is entered.

A snippet ends with an empty line or a line ending in ;; and is compiled as
one program, so a ref declared in one snippet is not visible in the next.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, opts)
		},
	}

	addSugarFlags(cmd)
	addBuildFlags(cmd)
	cmd.Flags().BoolVar(&opts.JSX, "jsx", false, "lower JSX in snippets")

	return cmd
}

func runREPL(cmd *cobra.Command, opts *REPLOptions) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = cc.Close() }()

	rl, err := newLineReader(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	filename := "repl.js"
	if opts.JSX {
		filename = "repl.jsx"
	}
	session := &replSession{cc: cc, filename: filename, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
	if _, ok := rl.(*readline.Instance); ok {
		_, _ = fmt.Fprintln(session.out, "labelsugar REPL")
		_, _ = fmt.Fprintln(session.out, "End a snippet with an empty line or ;;. Type .help for commands, .quit to exit")
		_, _ = fmt.Fprintln(session.out)
	}
	session.run(rl)
	return nil
}

func newLineReader(cmd *cobra.Command) (lineReader, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: file descriptors fit in int
		historyFile := ""
		if dir, err := os.UserCacheDir(); err == nil {
			historyFile = filepath.Join(dir, "labelsugar", "repl_history")
			_ = os.MkdirAll(filepath.Dir(historyFile), 0o750)
		}
		return readline.NewEx(&readline.Config{
			Prompt:          replPrompt,
			HistoryFile:     historyFile,
			AutoComplete:    replCompleter(),
			InterruptPrompt: "^C",
			EOFPrompt:       ".quit",
			Stdout:          cmd.OutOrStdout(),
			Stderr:          cmd.ErrOrStderr(),
		})
	}
	return &scanReader{scanner: bufio.NewScanner(in)}, nil
}

func replCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".options"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

type replSession struct {
	cc       *CommandContext
	filename string
	out      io.Writer
	errOut   io.Writer
	buf      strings.Builder
}

func (s *replSession) run(rl lineReader) {
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			s.buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if err != nil {
			// EOF compiles whatever is pending
			s.flush()
			return
		}

		trimmed := strings.TrimSpace(line)
		if s.buf.Len() == 0 && strings.HasPrefix(trimmed, ".") {
			if quit := s.dotCommand(trimmed); quit {
				return
			}
			continue
		}

		if trimmed == "" {
			s.flush()
			rl.SetPrompt(replPrompt)
			continue
		}
		if strings.HasSuffix(trimmed, replTerminator) {
			s.buf.WriteString(strings.TrimSuffix(strings.TrimRight(line, " \t"), replTerminator))
			s.buf.WriteByte('\n')
			s.flush()
			rl.SetPrompt(replPrompt)
			continue
		}

		s.buf.WriteString(line)
		s.buf.WriteByte('\n')
		rl.SetPrompt(replContinue)
	}
}

// flush compiles the pending snippet, if any.
func (s *replSession) flush() {
	src := s.buf.String()
	s.buf.Reset()
	if strings.TrimSpace(src) == "" {
		return
	}

	out, err := s.cc.Compiler.CompileSource(s.filename, src)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}
	_, _ = fmt.Fprint(s.out, out.Code)
	_, _ = fmt.Fprintln(s.out)
}

// dotCommand runs a dot command and reports whether the session should end.
func (s *replSession) dotCommand(line string) bool {
	command := strings.ToLower(strings.Fields(line)[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".options":
		enc := yaml.NewEncoder(s.out)
		enc.SetIndent(2)
		_ = enc.Encode(map[string]any{
			"sugar": s.cc.Cfg.Sugar,
			"build": map[string]any{
				"target":       s.cc.Cfg.Build.Target,
				"jsx_factory":  s.cc.Cfg.Build.JSXFactory,
				"jsx_fragment": s.cc.Cfg.Build.JSXFragment,
				"minify":       s.cc.Cfg.Build.Minify,
			},
		})
		_ = enc.Close()

	case ".clear":
		_, _ = fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .options        Show the active desugaring options
  .clear          Clear the screen
  .quit / .exit   Exit the REPL

Tips:
  - End a snippet with an empty line or ;;
  - Each snippet is compiled on its own
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}
