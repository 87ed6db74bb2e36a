package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/leapstack-labs/labelsugar/internal/cli/config"
)

// optionDocs describes each config key.
var optionDocs = map[string]string{
	"sugar.state_label":        "Label that declares reactive state",
	"sugar.watch_label":        "Label that declares an effect or a memo",
	"sugar.state_factory":      "Call emitted for state declarations",
	"sugar.effect_factory":     "Call emitted for effects",
	"sugar.memo_factory":       "Call emitted for memos",
	"sugar.ignore_member_expr": "Leave property mutations such as obj.a = 1 untouched",
	"build.out_dir":            "Directory compiled files are written to",
	"build.cache":              "Build state database; unchanged files are served from it",
	"build.minify":             "Minify the output",
	"build.target":             "Language level JSX and TypeScript are lowered to",
	"build.jsx_factory":        "Function JSX elements compile to",
	"build.jsx_fragment":       "Component JSX fragments compile to",
	"build.concurrency":        "Files compiled at once",
	"build.extensions":         "File extensions picked up from directories",
	"build.debounce":           "Quiet period before watch mode recompiles",
	"verbose":                  "Debug logs on stderr",
	"output":                   "Report format: auto, text, markdown or json",
}

// koanfTags returns the koanf tags of v's struct fields in declaration
// order, skipping ignored fields.
func koanfTags(v any) []string {
	t := reflect.TypeOf(v)
	var tags []string
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// defaultValue renders the default of a flattened key.
func defaultValue(cfg *config.Config, key string) string {
	section, field, nested := strings.Cut(key, ".")
	var v reflect.Value
	switch {
	case !nested && section == "verbose":
		return fmt.Sprint(cfg.Verbose)
	case !nested && section == "output":
		return cfg.OutputFormat
	case section == "sugar":
		v = reflect.ValueOf(cfg.Sugar)
	case section == "build":
		v = reflect.ValueOf(cfg.Build)
	default:
		return ""
	}
	for i := 0; i < v.NumField(); i++ {
		if v.Type().Field(i).Tag.Get("koanf") != field {
			continue
		}
		switch val := v.Field(i).Interface().(type) {
		case []string:
			return strings.Join(val, ", ")
		case int:
			if key == "build.concurrency" {
				return "number of CPUs"
			}
			return fmt.Sprint(val)
		default:
			return fmt.Sprint(val)
		}
	}
	return ""
}

// generateOptionsDocs generates the configuration reference page.
func generateOptionsDocs(outDir string) error {
	log.Printf("Generating configuration docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "Configuration reference for labelsugar")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph("labelsugar reads " + InlineCode(config.ConfigFileYAML) + " (or " + InlineCode(config.ConfigFileYML) +
		") from the working directory or the nearest parent, then " + InlineCode(config.EnvPrefix) +
		" environment variables, then command-line flags.")

	w.Header(2, "Example")
	w.CodeBlock("yaml", `sugar:
  state_label: $
  state_factory: useImmer
  ignore_member_expr: false
build:
  out_dir: dist
  extensions: [.js, .jsx]
output: text`)

	cfg := config.DefaultConfig()
	w.Header(2, "Keys")
	headers := []string{"Key", "Default", "Description"}
	var rows [][]string
	for _, key := range configKeys() {
		def := defaultValue(cfg, key)
		if def != "" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode(key), def, optionDocs[key]})
	}
	w.Table(headers, rows)

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0o600)
}
