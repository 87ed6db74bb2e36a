package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/labelsugar/internal/cli/config"
	"github.com/leapstack-labs/labelsugar/internal/cli/output"
	clitestutil "github.com/leapstack-labs/labelsugar/internal/cli/testutil"
	"github.com/leapstack-labs/labelsugar/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const counterJS = `function Counter() {
  ref: count = 0;
  return () => count++;
}
`

const counterOut = `function Counter() {
  const [count, _setCount] = React.useState(0);
  return () => _setCount(count => count + 1);
}
`

// execute runs cmd in a fresh project directory and returns stdout and
// stderr.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func project(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := testutil.WriteFiles(t, t.TempDir(), files)
	t.Chdir(dir)
	return dir
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewTransformCommand(), "transform [paths...]", []string{"out-dir", "watch", "minify", "state-label", "ignore-member-expr", "extensions", "stdin-filename"}},
		{NewInspectCommand(), "inspect <file>", []string{"format", "watch-label", "target"}},
		{NewREPLCommand(), "repl", []string{"jsx", "memo-factory"}},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
	assert.Equal(t, []string{"build"}, NewTransformCommand().Aliases)
}

func TestTransformCommand_SingleFileToStdout(t *testing.T) {
	project(t, map[string]string{"Counter.js": counterJS})

	out, _, err := execute(t, NewTransformCommand(), "", "Counter.js")
	require.NoError(t, err)
	assert.Equal(t, counterOut, out)
}

func TestTransformCommand_Stdin(t *testing.T) {
	project(t, nil)

	out, _, err := execute(t, NewTransformCommand(), "ref: n = 1;\nn = 2;\n")
	require.NoError(t, err)
	assert.Equal(t, "const [n, _setN] = React.useState(1);\n_setN(n => 2);\n", out)
}

func TestTransformCommand_StdinWithOptions(t *testing.T) {
	project(t, nil)

	src := "$: user = { name: 'a' };\nuser.name = 'b';\n"
	out, _, err := execute(t, NewTransformCommand(), src, "-",
		"--state-label", "$", "--state-factory", "useImmer", "--ignore-member-expr=false")
	require.NoError(t, err)
	assert.Contains(t, out, "const [user, _setUser] = useImmer({ name: 'a' });")
	assert.Contains(t, out, "_setUser(user => {")
	assert.Contains(t, out, "user.name = 'b';")
}

func TestTransformCommand_StdinJSX(t *testing.T) {
	project(t, nil)

	src := "export const App = () => {\n  ref: n = 0;\n  return <b onClick={() => n++}>{n}</b>;\n};\n"
	out, _, err := execute(t, NewTransformCommand(), src, "--stdin-filename", "App.jsx")
	require.NoError(t, err)
	assert.Contains(t, out, "React.useState(0)")
	assert.Contains(t, out, "_setN(n => n + 1)")
	assert.Contains(t, out, "React.createElement(\"b\"")
}

func TestTransformCommand_OutDir(t *testing.T) {
	dir := project(t, map[string]string{
		"src/Counter.js":    counterJS,
		"src/ui/Label.jsx":  "export const Label = () => <p>hi</p>;\n",
		"src/readme.md":     "# not source",
		"src/node_modules/x": "ignored",
	})

	t.Setenv("LABELSUGAR_OUTPUT", "json")
	out, _, err := execute(t, NewTransformCommand(), "", "src", "--out-dir", "dist")
	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)

	var report output.TransformOutput
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Files, 2)
	assert.Equal(t, 2, report.Summary.Files)
	assert.Equal(t, 2, report.Summary.Rewrites)
	assert.Equal(t, filepath.Join(wd, "dist", "Counter.js"), report.Files[0].Output)
	assert.Equal(t, 1, report.Files[0].States)
	assert.Equal(t, 1, report.Files[0].Mutations)

	got, err := os.ReadFile(filepath.Join(dir, "dist", "Counter.js"))
	require.NoError(t, err)
	assert.Equal(t, counterOut, string(got))

	label, err := os.ReadFile(filepath.Join(dir, "dist", "ui", "Label.js"))
	require.NoError(t, err)
	assert.Contains(t, string(label), "React.createElement")
}

func TestTransformCommand_MarkdownReport(t *testing.T) {
	project(t, map[string]string{"src/a.js": "ref: a = 1;\n", "src/b.js": "ref: b = 2;\nb++;\n"})

	out, _, err := execute(t, NewTransformCommand(), "", "src", "--out-dir", "dist")
	require.NoError(t, err)
	clitestutil.AssertNoANSI(t, out)
	assert.Contains(t, out, "# Transform")
	assert.Contains(t, out, "- **Files:** 2")
	assert.Contains(t, out, "- **Rewrites:** 3")
}

func TestTransformCommand_Errors(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		stdin     string
		args      []string
		errSubstr string
	}{
		{
			name:      "several files without out dir",
			files:     map[string]string{"src/a.js": "", "src/b.js": ""},
			args:      []string{"src"},
			errSubstr: "found 2 source files; use --out-dir",
		},
		{
			name:      "watch on stdin",
			args:      []string{"--watch"},
			errSubstr: "--watch needs file or directory paths",
		},
		{
			name:      "watch without out dir",
			files:     map[string]string{"a.js": ""},
			args:      []string{"a.js", "--watch"},
			errSubstr: "use --out-dir",
		},
		{
			name:      "missing path",
			args:      []string{"missing.js"},
			errSubstr: "failed to stat missing.js",
		},
		{
			name:      "rejected label",
			stdin:     "ref: [a] = [];\n",
			errSubstr: "stdin.js: 1:6: ref sugar assignment left must be an identifier",
		},
		{
			name:      "invalid label option",
			stdin:     "x;\n",
			args:      []string{"--watch-label", "ref"},
			errSubstr: "state label and watch label must differ",
		},
		{
			name:      "syntax error",
			files:     map[string]string{"bad.js": "let = ;\n"},
			args:      []string{"bad.js"},
			errSubstr: "bad.js: parse error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project(t, tt.files)
			_, _, err := execute(t, NewTransformCommand(), tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestTransformCommand_ConfigFile(t *testing.T) {
	project(t, map[string]string{
		"labelsugar.yaml": "sugar:\n  state_label: state\n  state_factory: useSignal\n",
	})

	out, _, err := execute(t, NewTransformCommand(), "state: s = 1;\n")
	require.NoError(t, err)
	assert.Equal(t, "const [s, _setS] = useSignal(1);\n", out)
}

const inspectJS = `function Profile() {
  ref: name = '';
  ref: age = 0;
  age += 1;
  watch: (name) => console.log(name);
  watch: label = (name, age) => name + age;
}
`

func TestInspectCommand_Formats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		project(t, map[string]string{"Profile.js": inspectJS})
		out, _, err := execute(t, NewInspectCommand(), "", "Profile.js", "--format", "json")
		require.NoError(t, err)

		var report output.InspectOutput
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, "Profile.js", report.Path)
		assert.Equal(t, []output.StateInfo{
			{Name: "name", Modifier: "_setName", Position: "2:8"},
			{Name: "age", Modifier: "_setAge", Position: "3:8"},
		}, report.States)
		assert.Equal(t, 1, report.Mutations)
		assert.Equal(t, 1, report.Effects)
		assert.Equal(t, 1, report.Memos)
	})

	t.Run("yaml", func(t *testing.T) {
		project(t, map[string]string{"Profile.js": inspectJS})
		out, _, err := execute(t, NewInspectCommand(), "", "Profile.js", "-f", "yaml")
		require.NoError(t, err)

		var report output.InspectOutput
		require.NoError(t, yaml.Unmarshal([]byte(out), &report))
		require.Len(t, report.States, 2)
		assert.Equal(t, "_setAge", report.States[1].Modifier)
		assert.Contains(t, out, "modifier: _setName")
	})

	t.Run("markdown follows output mode", func(t *testing.T) {
		project(t, map[string]string{"Profile.js": inspectJS})
		out, _, err := execute(t, NewInspectCommand(), "", "Profile.js")
		require.NoError(t, err)
		clitestutil.AssertNoANSI(t, out)
		clitestutil.AssertValidMarkdown(t, out)
		assert.Contains(t, out, "# Profile.js")
		assert.Contains(t, out, "| name | _setName | 2:8 |")
		assert.Contains(t, out, "- **Memos:** 1")
	})

	t.Run("table", func(t *testing.T) {
		project(t, map[string]string{"Profile.js": inspectJS})
		out, _, err := execute(t, NewInspectCommand(), "", "Profile.js", "--format", "table")
		require.NoError(t, err)
		assert.Contains(t, out, "STATE")
		assert.Contains(t, out, "_setAge")
		assert.Contains(t, out, "1 mutations, 0 wrapped, 1 effects, 1 memos")
	})

	t.Run("stdin without state", func(t *testing.T) {
		project(t, nil)
		out, _, err := execute(t, NewInspectCommand(), "let x = 1;\n", "-", "--format", "text")
		require.NoError(t, err)
		assert.Contains(t, out, "(no state declared)")
	})

	t.Run("unknown format", func(t *testing.T) {
		project(t, map[string]string{"Profile.js": inspectJS})
		_, _, err := execute(t, NewInspectCommand(), "", "Profile.js", "--format", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown format "xml"`)
	})
}

func TestREPLCommand(t *testing.T) {
	t.Run("snippets end with blank lines and terminators", func(t *testing.T) {
		project(t, nil)
		input := "ref: a = 1;\na++;\n\nref: b = 2;;\n"
		out, errOut, err := execute(t, NewREPLCommand(), input)
		require.NoError(t, err)
		assert.Empty(t, errOut)
		assert.Equal(t,
			"const [a, _setA] = React.useState(1);\n_setA(a => a + 1);\n\n"+
				"const [b, _setB] = React.useState(2);\n\n", out)
	})

	t.Run("pending snippet compiles at EOF", func(t *testing.T) {
		project(t, nil)
		out, _, err := execute(t, NewREPLCommand(), "watch: (x) => f(x);")
		require.NoError(t, err)
		assert.Equal(t, "React.useEffect(() => f(x), [x]);\n\n", out)
	})

	t.Run("errors do not end the session", func(t *testing.T) {
		project(t, nil)
		input := "ref: x;\n\nref: y = 0;\n"
		out, errOut, err := execute(t, NewREPLCommand(), input)
		require.NoError(t, err)
		assert.Contains(t, errOut, "Error: repl.js: 1:6: ref sugar expression must be an assignment")
		assert.Contains(t, out, "const [y, _setY] = React.useState(0);")
	})

	t.Run("dot commands", func(t *testing.T) {
		project(t, nil)
		input := ".help\n.options\n.bogus\n.quit\nref: never = 1;\n"
		out, errOut, err := execute(t, NewREPLCommand(), input, "--memo-factory", "hooks.memo")
		require.NoError(t, err)
		assert.Contains(t, out, ".options        Show the active desugaring options")
		assert.Contains(t, out, "memo_factory: hooks.memo")
		assert.Contains(t, out, "target: esnext")
		assert.Contains(t, errOut, "Unknown command: .bogus")
		assert.NotContains(t, out, "never")
	})
}

func TestGetConfig_UsesLoadedConfig(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	t.Chdir(t.TempDir())

	loaded, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	cmd := NewTransformCommand()
	got, err := getConfig(cmd)
	require.NoError(t, err)
	assert.Same(t, loaded, got)
}

func TestRenderInspect_Modes(t *testing.T) {
	report := output.InspectOutput{
		Path:    "App.js",
		States:  []output.StateInfo{{Name: "open", Modifier: "_setOpen", Position: "3:8"}},
		Effects: 2,
	}

	tests := []struct {
		name     string
		renderer *clitestutil.TestRenderer
		format   string
		want     []string
		notWant  []string
	}{
		{
			name:     "text",
			renderer: clitestutil.NewTestRendererText(),
			format:   "text",
			want:     []string{"App.js", "STATE", "open", "_setOpen", "2 effects"},
			notWant:  []string{"| --- |"},
		},
		{
			name:     "markdown",
			renderer: clitestutil.NewTestRendererMarkdown(),
			format:   "markdown",
			want:     []string{"# App.js", "| open | _setOpen | 3:8 |", "- **Effects:** 2"},
		},
		{
			name:     "json",
			renderer: clitestutil.NewTestRendererJSON(),
			format:   "json",
			want:     []string{`"modifier": "_setOpen"`, `"effects": 2`},
			notWant:  []string{"# App.js"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := tt.renderer
			require.NoError(t, renderInspect(tr.Renderer, report, tt.format))
			clitestutil.AssertOutputMode(t, tr, tr.EffectiveMode())
			for _, want := range tt.want {
				clitestutil.AssertContains(t, tr.Output(), want)
			}
			for _, notWant := range tt.notWant {
				clitestutil.AssertNotContains(t, tr.Output(), notWant)
			}
			assert.Empty(t, tr.ErrorOutput())
		})
	}
}

func TestRenderer_AutoIsMarkdownWhenPiped(t *testing.T) {
	tr := clitestutil.NewTestRendererAuto()
	assert.Equal(t, output.ModeMarkdown, tr.EffectiveMode())
	tr.Header(1, "Transform")
	assert.Equal(t, "# Transform\n", tr.Output())
	tr.Reset()
	assert.Empty(t, tr.Output())
}
