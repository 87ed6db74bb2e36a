package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := []struct {
		in   string
		want OutputMode
	}{
		{"", ModeAuto},
		{"auto", ModeAuto},
		{"text", ModeText},
		{"Markdown", ModeMarkdown},
		{" json ", ModeJSON},
		{"xml", ModeAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.in))
		})
	}

	assert.True(t, IsValidMode(""))
	assert.True(t, IsValidMode("JSON"))
	assert.False(t, IsValidMode("xml"))
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{"auto on terminal", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"empty piped", "", false, ModeMarkdown},
		{"explicit text piped", ModeText, false, ModeText},
		{"json on terminal", ModeJSON, true, ModeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.isTTY, r.IsTTY())
		})
	}
}

func TestRenderer_NonTTYHasNoANSI(t *testing.T) {
	r, out, errOut := newRenderer(ModeText, false)

	r.Header(1, "Files")
	r.Success("compiled 2 files")
	r.StatusLine("src/App.jsx", "success", "(3 rewrites)")
	r.StatusLine("src/bad.js", "failed", "")
	r.Muted("done")
	r.Warning("nothing to do")
	r.Error("boom")

	assert.False(t, ansi.MatchString(out.String()), "stdout: %q", out.String())
	assert.False(t, ansi.MatchString(errOut.String()), "stderr: %q", errOut.String())

	assert.Equal(t, "Files\n"+
		"✓ compiled 2 files\n"+
		"  ✓ src/App.jsx (3 rewrites)\n"+
		"  ✗ src/bad.js\n"+
		"done\n", out.String())
	assert.Equal(t, "warning: nothing to do\nerror: boom\n", errOut.String())
}

func TestRenderer_MarkdownHeader(t *testing.T) {
	r, out, _ := newRenderer(ModeAuto, false)
	r.Header(2, "Bindings")
	assert.Equal(t, "## Bindings\n", out.String())
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(InspectOutput{
		Path:   "app.js",
		States: []StateInfo{{Name: "count", Modifier: "_setCount", Position: "1:6"}},
		Memos:  1,
	}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "app.js", got["path"])
	assert.EqualValues(t, 1, got["memos"])
	states := got["states"].([]any)
	require.Len(t, states, 1)
	assert.Equal(t, "_setCount", states[0].(map[string]any)["modifier"])
	assert.Contains(t, out.String(), "\n  \"path\"")
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# Title", FormatHeader(1, "Title"))
	assert.Equal(t, "### Deep", FormatHeader(3, "Deep"))
	assert.Equal(t, "# Low", FormatHeader(0, "Low"))
	assert.Equal(t, "###### High", FormatHeader(9, "High"))

	assert.Equal(t, "- **Files:** 3", FormatKeyValue("Files", "3"))

	assert.Equal(t, "```js\nconst a = 1;\n```", FormatCodeBlock("js", "const a = 1;"))
	assert.Equal(t, "```\nx\n```", FormatCodeBlock("", "x\n"))

	assert.Equal(t, "250µs", FormatDuration(250*time.Microsecond))
	assert.Equal(t, "12ms", FormatDuration(12*time.Millisecond))
	assert.Equal(t, "1.50s", FormatDuration(1500*time.Millisecond))
}
