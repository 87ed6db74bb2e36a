package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/labelsugar/internal/config"
	"github.com/leapstack-labs/labelsugar/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type watchEvent struct {
	out *Output
	err error
}

func startWatch(t *testing.T, c *Compiler, paths []string) (<-chan watchEvent, context.CancelFunc) {
	t.Helper()
	events := make(chan watchEvent, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Watch(ctx, paths, func(out *Output, err error) {
			events <- watchEvent{out, err}
		})
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watch did not stop")
		}
	})
	return events, cancel
}

func next(t *testing.T, events <-chan watchEvent) watchEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for compilation")
		return watchEvent{}
	}
}

func TestWatch_RecompilesChangedFiles(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"app.js": "ref: a = 1;\n",
	})
	c := newCompiler(t, config.BuildConfig{Debounce: 20 * time.Millisecond})
	events, _ := startWatch(t, c, []string{dir})

	first := next(t, events)
	require.NoError(t, first.err)
	assert.Equal(t, "const [a, _setA] = React.useState(1);\n", first.out.Code)

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("ref: b = 2;\n"), 0o644))

	second := next(t, events)
	require.NoError(t, second.err)
	assert.Equal(t, "app.js", second.out.Source.Rel)
	assert.Equal(t, "const [b, _setB] = React.useState(2);\n", second.out.Code)
}

func TestWatch_ReportsErrorsAndKeepsRunning(t *testing.T) {
	dir := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"app.js":    "ref: a = 1;\n",
		"notes.txt": "ignored",
	})
	c := newCompiler(t, config.BuildConfig{Debounce: 20 * time.Millisecond})
	events, _ := startWatch(t, c, []string{dir})

	require.NoError(t, next(t, events).err)
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("still ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("ref: [a] = [];\n"), 0o644))
	failed := next(t, events)
	require.Error(t, failed.err)
	assert.Contains(t, failed.err.Error(), "ref sugar assignment left must be an identifier")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("ref: a = 3;\n"), 0o644))
	fixed := next(t, events)
	require.NoError(t, fixed.err)
	assert.Equal(t, "const [a, _setA] = React.useState(3);\n", fixed.out.Code)
}

func TestWatch_MissingPath(t *testing.T) {
	c := newCompiler(t, config.BuildConfig{})
	err := c.Watch(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, func(*Output, error) {})
	assert.Error(t, err)
}

func TestWatchState_Source(t *testing.T) {
	c := newCompiler(t, config.BuildConfig{})
	w := &watchState{
		compiler: c,
		roots:    []string{filepath.Join("project", "src")},
		files:    map[string]bool{filepath.Join("project", "tool.cfg"): true},
	}

	src, ok := w.source(filepath.Join("project", "src", "ui", "App.jsx"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join("ui", "App.jsx"), src.Rel)

	_, ok = w.source(filepath.Join("project", "other", "App.jsx"))
	assert.False(t, ok)

	_, ok = w.source(filepath.Join("project", "src", "style.css"))
	assert.False(t, ok)

	src, ok = w.source(filepath.Join("project", "tool.cfg"))
	require.True(t, ok)
	assert.Equal(t, "tool.cfg", src.Rel)

	assert.True(t, w.watchesTree(filepath.Join("project", "src", "new")))
	assert.False(t, w.watchesTree(filepath.Join("project", "src", "node_modules")))
}
