package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyBuildDefaults(t *testing.T) {
	c := &BuildConfig{Extensions: []string{"js", ".JSX"}}
	ApplyBuildDefaults(c)

	assert.Equal(t, DefaultTarget, c.Target)
	assert.Equal(t, DefaultDebounce, c.Debounce)
	assert.Positive(t, c.Concurrency)
	assert.Equal(t, []string{".js", ".jsx"}, c.Extensions)

	ApplyBuildDefaults(nil)
}

func TestApplyBuildDefaults_DoesNotShareExtensions(t *testing.T) {
	c := &BuildConfig{}
	ApplyBuildDefaults(c)
	c.Extensions[0] = ".changed"
	assert.Equal(t, ".js", DefaultExtensions[0])
}

func TestBuildConfig_IsSource(t *testing.T) {
	c := &BuildConfig{}
	ApplyBuildDefaults(c)

	tests := map[string]bool{
		"app.js":          true,
		"src/App.JSX":     true,
		"lib/index.mjs":   true,
		"types.ts":        true,
		"view.tsx":        true,
		"style.css":       false,
		"README":          false,
		"archive.js.map":  false,
		"dir.with.js/app": false,
	}
	for path, want := range tests {
		assert.Equal(t, want, c.IsSource(path), path)
	}
}
