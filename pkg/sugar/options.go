package sugar

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/leapstack-labs/labelsugar/pkg/token"
)

// Default option values.
const (
	DefaultStateLabel    = "ref"
	DefaultWatchLabel    = "watch"
	DefaultStateFactory  = "React.useState"
	DefaultEffectFactory = "React.useEffect"
	DefaultMemoFactory   = "React.useMemo"
)

// Options configures a pass. Start from DefaultOptions; empty strings fall
// back to the defaults, but the zero IgnoreMemberExpr enables property
// mutation rewriting.
type Options struct {
	// StateLabel is the label text that declares reactive state.
	StateLabel string `koanf:"state_label" json:"state_label" yaml:"state_label"`
	// WatchLabel is the label text that declares an effect or a memo.
	WatchLabel string `koanf:"watch_label" json:"watch_label" yaml:"watch_label"`

	// StateFactory, EffectFactory and MemoFactory are the call targets
	// emitted for the rewrites, as dotted paths.
	StateFactory  string `koanf:"state_factory" json:"state_factory" yaml:"state_factory"`
	EffectFactory string `koanf:"effect_factory" json:"effect_factory" yaml:"effect_factory"`
	MemoFactory   string `koanf:"memo_factory" json:"memo_factory" yaml:"memo_factory"`

	// IgnoreMemberExpr leaves mutations of properties (obj.a = 1) untouched.
	IgnoreMemberExpr bool `koanf:"ignore_member_expr" json:"ignore_member_expr" yaml:"ignore_member_expr"`

	// Logger receives debug records for every rewrite (optional).
	Logger *slog.Logger `koanf:"-" json:"-" yaml:"-"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		StateLabel:       DefaultStateLabel,
		WatchLabel:       DefaultWatchLabel,
		StateFactory:     DefaultStateFactory,
		EffectFactory:    DefaultEffectFactory,
		MemoFactory:      DefaultMemoFactory,
		IgnoreMemberExpr: true,
	}
}

// withDefaults fills empty fields.
func (o Options) withDefaults() Options {
	if o.StateLabel == "" {
		o.StateLabel = DefaultStateLabel
	}
	if o.WatchLabel == "" {
		o.WatchLabel = DefaultWatchLabel
	}
	if o.StateFactory == "" {
		o.StateFactory = DefaultStateFactory
	}
	if o.EffectFactory == "" {
		o.EffectFactory = DefaultEffectFactory
	}
	if o.MemoFactory == "" {
		o.MemoFactory = DefaultMemoFactory
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

var (
	identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	pathPattern  = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)
)

// Validate checks that labels are distinct identifiers and factories are
// dotted identifier paths.
func (o Options) Validate() error {
	for _, label := range []struct{ field, value string }{
		{"state label", o.StateLabel},
		{"watch label", o.WatchLabel},
	} {
		if label.value == "" {
			return fmt.Errorf("%s is required", label.field)
		}
		if !identPattern.MatchString(label.value) || token.IsKeyword(token.LookupIdent(label.value)) {
			return fmt.Errorf("%s %q is not a valid label", label.field, label.value)
		}
	}
	if o.StateLabel == o.WatchLabel {
		return fmt.Errorf("state label and watch label must differ, both are %q", o.StateLabel)
	}

	for _, f := range []struct{ field, value string }{
		{"state factory", o.StateFactory},
		{"effect factory", o.EffectFactory},
		{"memo factory", o.MemoFactory},
	} {
		if !pathPattern.MatchString(f.value) {
			return fmt.Errorf("%s %q must be an identifier or a dotted path", f.field, f.value)
		}
	}
	return nil
}
