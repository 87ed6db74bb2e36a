// Package compiler runs the full desugaring pipeline over source files:
// lowering, parsing, scope analysis, desugaring, printing and optional
// minification.
package compiler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leapstack-labs/labelsugar/internal/config"
	"github.com/leapstack-labs/labelsugar/internal/jsbuild"
	"github.com/leapstack-labs/labelsugar/internal/state"
	"github.com/leapstack-labs/labelsugar/pkg/format"
	"github.com/leapstack-labs/labelsugar/pkg/parser"
	"github.com/leapstack-labs/labelsugar/pkg/sugar"
	"golang.org/x/sync/errgroup"
)

// Cache stores compiled files between runs. A cached entry is reused only
// when its key matches the current source content and settings.
type Cache interface {
	GetEntry(path string) (*state.Entry, error)
	PutEntry(e *state.Entry) error
}

// Config holds compiler configuration.
type Config struct {
	Sugar  sugar.Options
	Build  config.BuildConfig
	Cache  Cache        // Optional
	Logger *slog.Logger // Optional, defaults to discard logger
}

// Compiler compiles source files. It is safe for concurrent use; every
// file gets its own pass.
type Compiler struct {
	sugar  sugar.Options
	build  config.BuildConfig
	cache  Cache
	logger *slog.Logger

	fingerprint string
}

// New creates a compiler.
func New(cfg Config) (*Compiler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := cfg.Sugar
	if opts.Logger == nil {
		opts.Logger = logger
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sugar options: %w", err)
	}

	build := cfg.Build
	build.Extensions = append([]string(nil), build.Extensions...)
	config.ApplyBuildDefaults(&build)
	_, err := jsbuild.ParseTarget(build.Target)
	if err != nil {
		return nil, err
	}

	c := &Compiler{sugar: opts, build: build, cache: cfg.Cache, logger: logger}
	c.fingerprint, err = c.settingsFingerprint()
	if err != nil {
		return nil, err
	}
	return c, nil
}

// cacheFormat changes whenever printed output changes for the same input.
const cacheFormat = 2

// settingsFingerprint encodes every setting that shapes the output.
func (c *Compiler) settingsFingerprint() (string, error) {
	data, err := json.Marshal(struct {
		Format      int           `json:"format"`
		Sugar       sugar.Options `json:"sugar"`
		Target      string        `json:"target"`
		JSXFactory  string        `json:"jsx_factory"`
		JSXFragment string        `json:"jsx_fragment"`
		Minify      bool          `json:"minify"`
	}{cacheFormat, c.sugar, c.build.Target, c.build.JSXFactory, c.build.JSXFragment, c.build.Minify})
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	return string(data), nil
}

// Build returns the effective build configuration.
func (c *Compiler) Build() config.BuildConfig {
	return c.build
}

// Source is one input file.
type Source struct {
	Path string // path as given or found
	Rel  string // path relative to the directory it was found in
}

// Stats counts the rewrites made in one file.
type Stats struct {
	States    int
	Mutations int
	Wrapped   int
	Effects   int
	Memos     int
}

// Rewrites returns the total number of rewritten sites.
func (s Stats) Rewrites() int {
	return s.States + s.Mutations + s.Wrapped + s.Effects + s.Memos
}

func statsOf(r *sugar.Result) Stats {
	return Stats{
		States:    len(r.Bindings),
		Mutations: r.Mutations,
		Wrapped:   r.Wrapped,
		Effects:   r.Effects,
		Memos:     r.Memos,
	}
}

// Output is one compiled file.
type Output struct {
	Source Source
	Code   string
	// Result is nil when the output came from the cache.
	Result   *sugar.Result
	Stats    Stats
	Cached   bool
	Duration time.Duration
}

func (c *Compiler) jsOptions() jsbuild.Options {
	return jsbuild.Options{
		Target:      c.build.Target,
		JSXFactory:  c.build.JSXFactory,
		JSXFragment: c.build.JSXFragment,
	}
}

// CompileSource compiles src. filename picks the lowering loader and
// prefixes errors.
func (c *Compiler) CompileSource(filename, src string) (*Output, error) {
	start := time.Now()

	lowered, err := jsbuild.Lower(src, filename, c.jsOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	prog, err := parser.Parse(lowered.Code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	restoreWatchParams(prog, c.sugar.WatchLabel, lowered.Renamed)

	opts := c.sugar
	opts.Logger = c.logger.With(slog.String("file", filename))
	result, err := sugar.Transform(prog, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	code := format.Format(prog)
	if c.build.Minify {
		code, err = jsbuild.Minify(code, filename, c.jsOptions())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}

	out := &Output{
		Source:   Source{Path: filename, Rel: filepath.Base(filename)},
		Code:     code,
		Result:   result,
		Stats:    statsOf(result),
		Duration: time.Since(start),
	}
	c.logger.Debug("compiled",
		slog.String("file", filename),
		slog.Int("rewrites", result.Rewrites()),
		slog.Duration("duration", out.Duration))
	return out, nil
}

// CompileFile reads and compiles one file, reusing the cached output when
// the file and settings are unchanged.
func (c *Compiler) CompileFile(src Source) (*Output, error) {
	start := time.Now()
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src.Path, err)
	}

	var cachePath, key string
	if c.cache != nil {
		cachePath = absPath(src.Path)
		key = state.Key(data, c.fingerprint)
		if out := c.lookup(src, cachePath, key, start); out != nil {
			return out, nil
		}
	}

	out, err := c.CompileSource(src.Path, string(data))
	if err != nil {
		return nil, err
	}
	out.Source = src

	if c.cache != nil {
		c.store(cachePath, key, out)
	}
	return out, nil
}

// lookup returns the cached output for src, or nil on a miss. Cache
// failures are logged and treated as misses.
func (c *Compiler) lookup(src Source, path, key string, start time.Time) *Output {
	e, err := c.cache.GetEntry(path)
	if err != nil {
		c.logger.Warn("cache lookup failed", slog.String("file", src.Path), slog.Any("error", err))
		return nil
	}
	if e == nil || e.Key != key {
		return nil
	}
	c.logger.Debug("cache hit", slog.String("file", src.Path))
	return &Output{
		Source: src,
		Code:   e.Code,
		Stats: Stats{
			States:    e.States,
			Mutations: e.Mutations,
			Wrapped:   e.Wrapped,
			Effects:   e.Effects,
			Memos:     e.Memos,
		},
		Cached:   true,
		Duration: time.Since(start),
	}
}

func (c *Compiler) store(path, key string, out *Output) {
	err := c.cache.PutEntry(&state.Entry{
		Path:      path,
		Key:       key,
		Code:      out.Code,
		States:    out.Stats.States,
		Mutations: out.Stats.Mutations,
		Wrapped:   out.Stats.Wrapped,
		Effects:   out.Stats.Effects,
		Memos:     out.Stats.Memos,
	})
	if err != nil {
		c.logger.Warn("cache store failed", slog.String("file", out.Source.Path), slog.Any("error", err))
	}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// CompileFiles compiles sources concurrently, bounded by the configured
// concurrency. Outputs keep the order of sources. The first error cancels
// the remaining work.
func (c *Compiler) CompileFiles(ctx context.Context, sources []Source) ([]*Output, error) {
	outputs := make([]*Output, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.build.Concurrency)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := c.CompileFile(src)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// Discover expands paths into source files. Directories are walked
// recursively, skipping node_modules and hidden directories; files are taken
// as given whatever their extension.
func (c *Compiler) Discover(paths []string) ([]Source, error) {
	var sources []Source
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			sources = append(sources, Source{Path: path, Rel: filepath.Base(path)})
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != path && skipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !c.build.IsSource(p) {
				return nil
			}
			rel, err := filepath.Rel(path, p)
			if err != nil {
				return err
			}
			sources = append(sources, Source{Path: p, Rel: rel})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
	}
	return sources, nil
}

func skipDir(name string) bool {
	return name == "node_modules" || strings.HasPrefix(name, ".")
}

// OutputPath returns where out is written under the configured out dir.
func (c *Compiler) OutputPath(src Source) string {
	rel := strings.TrimSuffix(src.Rel, filepath.Ext(src.Rel)) + config.DefaultOutExt
	return filepath.Join(c.build.OutDir, rel)
}

// Write writes out under the configured out dir and returns the path.
func (c *Compiler) Write(out *Output) (string, error) {
	if c.build.OutDir == "" {
		return "", errors.New("no output directory configured")
	}
	path := c.OutputPath(out.Source)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(out.Code), 0o644); err != nil { //nolint:gosec // G306: compiled sources are public
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
