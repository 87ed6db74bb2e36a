// Package jsbuild wraps esbuild for the two jobs around desugaring: lowering
// JSX and TypeScript to plain JavaScript before parsing, and minifying the
// printed result.
package jsbuild

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Default JSX calls, matching the default state factory namespace.
const (
	DefaultJSXFactory  = "React.createElement"
	DefaultJSXFragment = "React.Fragment"
)

// Options configures lowering and minification.
type Options struct {
	// Target is the language level, e.g. "esnext" or "es2020". Anything
	// below esnext may also rewrite operators such as ??= before desugaring.
	Target      string
	JSXFactory  string
	JSXFragment string
}

var targets = map[string]api.Target{
	"esnext": api.ESNext,
	"es5":    api.ES5,
	"es6":    api.ES2015,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"es2023": api.ES2023,
	"es2024": api.ES2024,
}

// ParseTarget maps a target name to the esbuild target. Empty means esnext.
func ParseTarget(name string) (api.Target, error) {
	if name == "" {
		return api.ESNext, nil
	}
	t, ok := targets[strings.ToLower(name)]
	if !ok {
		return api.DefaultTarget, fmt.Errorf("unknown target %q", name)
	}
	return t, nil
}

var loaders = map[string]api.Loader{
	".jsx": api.LoaderJSX,
	".ts":  api.LoaderTS,
	".mts": api.LoaderTS,
	".cts": api.LoaderTS,
	".tsx": api.LoaderTSX,
}

// NeedsLowering reports whether files named like path must be lowered
// before they can be parsed.
func NeedsLowering(path string) bool {
	_, ok := loaders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Lowered is lowered source.
type Lowered struct {
	Code string
	// Renamed maps the byte offset in Code of every identifier esbuild
	// renamed to the name it had in the source.
	Renamed map[int]string
}

// Lower converts JSX or TypeScript source to JavaScript. Files that need no
// lowering are returned unchanged.
func Lower(src, filename string, opts Options) (*Lowered, error) {
	loader, ok := loaders[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return &Lowered{Code: src}, nil
	}
	target, err := ParseTarget(opts.Target)
	if err != nil {
		return nil, err
	}

	transformOpts := api.TransformOptions{
		Loader:      loader,
		Target:      target,
		Sourcefile:  filename,
		Sourcemap:   api.SourceMapExternal,
		JSX:         api.JSXTransform,
		JSXFactory:  orDefault(opts.JSXFactory, DefaultJSXFactory),
		JSXFragment: orDefault(opts.JSXFragment, DefaultJSXFragment),
		LogLevel:    api.LogLevelSilent,
	}

	result := api.Transform(src, transformOpts)
	if len(result.Errors) > 0 {
		return nil, buildError(filename, result.Errors)
	}

	code := string(result.Code)
	renamed, err := renamedIdents(result.Map, code)
	if err != nil {
		return nil, fmt.Errorf("failed to read source map for %s: %w", filename, err)
	}
	return &Lowered{Code: code, Renamed: renamed}, nil
}

// Minify compresses JavaScript source.
func Minify(src, filename string, opts Options) (string, error) {
	target, err := ParseTarget(opts.Target)
	if err != nil {
		return "", err
	}

	result := api.Transform(src, api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            target,
		Sourcefile:        filename,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		LogLevel:          api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return "", buildError(filename, result.Errors)
	}
	return string(result.Code), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// buildError joins esbuild messages into one error.
func buildError(filename string, msgs []api.Message) error {
	var errMsg strings.Builder
	for _, msg := range msgs {
		if loc := msg.Location; loc != nil {
			fmt.Fprintf(&errMsg, "%s:%d:%d: %s\n", loc.File, loc.Line, loc.Column+1, msg.Text)
		} else {
			fmt.Fprintf(&errMsg, "%s: %s\n", filename, msg.Text)
		}
	}
	return fmt.Errorf("esbuild errors:\n%s", strings.TrimRight(errMsg.String(), "\n"))
}
