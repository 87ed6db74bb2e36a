// Package config holds the build settings shared by the compiler and the CLI.
package config

import (
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"
)

// Default build values.
const (
	DefaultTarget   = "esnext"
	DefaultDebounce = 100 * time.Millisecond
	DefaultOutExt   = ".js"
)

// DefaultExtensions are the file extensions picked up from directories.
var DefaultExtensions = []string{".js", ".mjs", ".cjs", ".jsx", ".ts", ".tsx"}

// DefaultConcurrency returns the number of files compiled at once.
func DefaultConcurrency() int {
	return runtime.NumCPU()
}

// ApplyBuildDefaults fills unset build fields.
func ApplyBuildDefaults(c *BuildConfig) {
	if c == nil {
		return
	}
	if c.Target == "" {
		c.Target = DefaultTarget
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency()
	}
	if len(c.Extensions) == 0 {
		c.Extensions = slices.Clone(DefaultExtensions)
	}
	for i, ext := range c.Extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Extensions[i] = ext
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
}

// IsSource reports whether path has one of the configured extensions.
func (c *BuildConfig) IsSource(path string) bool {
	return slices.Contains(c.Extensions, strings.ToLower(filepath.Ext(path)))
}
