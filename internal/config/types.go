package config

import "time"

// BuildConfig controls how source files are compiled and written.
type BuildConfig struct {
	// OutDir receives compiled files; empty writes to stdout.
	OutDir string `koanf:"out_dir" yaml:"out_dir" json:"out_dir"`
	// Cache is the path of the build state database; empty disables caching.
	Cache string `koanf:"cache" yaml:"cache" json:"cache"`
	// Minify runs the printed output through the minifier.
	Minify bool `koanf:"minify" yaml:"minify" json:"minify"`
	// Target is the language level JSX and TypeScript are lowered to.
	Target string `koanf:"target" yaml:"target" json:"target"`
	// JSXFactory and JSXFragment override the calls JSX compiles to.
	JSXFactory  string `koanf:"jsx_factory" yaml:"jsx_factory" json:"jsx_factory"`
	JSXFragment string `koanf:"jsx_fragment" yaml:"jsx_fragment" json:"jsx_fragment"`
	// Concurrency bounds the number of files compiled at once.
	Concurrency int `koanf:"concurrency" yaml:"concurrency" json:"concurrency"`
	// Extensions lists the file extensions picked up from directories.
	Extensions []string `koanf:"extensions" yaml:"extensions" json:"extensions"`
	// Debounce is the quiet period before watch mode recompiles.
	Debounce time.Duration `koanf:"debounce" yaml:"debounce" json:"debounce"`
}
