package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	index, err := os.ReadFile(filepath.Join(dir, "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "# CLI Reference")
	assert.Contains(t, string(index), "[`transform`](/cli/transform)")
	assert.Contains(t, string(index), "`LABELSUGAR_SUGAR__STATE_LABEL`")
	assert.Contains(t, string(index), "`--output`")

	transform, err := os.ReadFile(filepath.Join(dir, "transform.md"))
	require.NoError(t, err)
	assert.Contains(t, string(transform), "labelsugar transform [paths...]")
	assert.Contains(t, string(transform), "`--out-dir`")
	assert.Contains(t, string(transform), "## Examples")

	for _, name := range []string{"inspect.md", "repl.md", "version.md", "completion.md", "cache.md"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}

func TestGenerateOptionsDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateOptionsDocs(dir))

	doc, err := os.ReadFile(filepath.Join(dir, "configuration.md"))
	require.NoError(t, err)
	assert.Contains(t, string(doc), "| `sugar.state_label` | `ref` | Label that declares reactive state |")
	assert.Contains(t, string(doc), "| `build.debounce` | `100ms` |")
	assert.Contains(t, string(doc), "| `build.concurrency` | `number of CPUs` |")
	assert.Contains(t, string(doc), "`.js, .mjs, .cjs, .jsx, .ts, .tsx`")
}

func TestConfigKeys(t *testing.T) {
	keys := configKeys()
	assert.Contains(t, keys, "sugar.ignore_member_expr")
	assert.Contains(t, keys, "build.out_dir")
	assert.Contains(t, keys, "output")
	assert.NotContains(t, keys, "sugar.")
	for _, key := range keys {
		assert.NotEmpty(t, optionDocs[key], "key %q has no description", key)
	}
	assert.Equal(t, "LABELSUGAR_BUILD__JSX_FACTORY", envName("build.jsx_factory"))
}

func TestCleanExample(t *testing.T) {
	assert.Equal(t, "a\n  b", cleanExample("  a\n    b\n"))
	assert.Equal(t, "x", cleanExample("x"))
}

func TestMarkdownWriter(t *testing.T) {
	w := NewMarkdownWriter()
	w.Header(2, "Flags")
	w.BulletList([]string{InlineCode("a"), "b"})
	w.Table([]string{"Name", "Use"}, [][]string{{"x", "y"}})

	assert.Contains(t, w.String(), "## Flags\n\n- `a`\n- b\n\n")
	assert.Contains(t, w.String(), "| Name | Use |")
	assert.Contains(t, w.String(), "| x | y |")
}
