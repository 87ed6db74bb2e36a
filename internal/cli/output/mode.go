// Package output renders command results for terminals, markdown consumers
// and machines.
package output

import "strings"

// OutputMode selects how command results are rendered.
//
//nolint:revive // output.OutputMode reads better at call sites than output.Mode alone
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Modes lists the values accepted by the --output flag.
var Modes = []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON)}

// Mode converts a flag or config value to an OutputMode. Unknown and empty
// values fall back to ModeAuto.
func Mode(s string) OutputMode {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeText:
		return ModeText
	case ModeMarkdown:
		return ModeMarkdown
	case ModeJSON:
		return ModeJSON
	}
	return ModeAuto
}

// IsValidMode reports whether s names an output mode. Empty means auto.
func IsValidMode(s string) bool {
	if s == "" {
		return true
	}
	for _, m := range Modes {
		if strings.EqualFold(s, m) {
			return true
		}
	}
	return false
}
