package staticmethod

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// DefaultJavaRelease is the language level assumed when none is configured.
const DefaultJavaRelease = "17"

// Inner classes may declare static members starting with this release.
var innerStaticMembers = mustConstraint(">= 16")

type analyzeOptions struct {
	log     *slog.Logger
	release *semver.Version
}

func defaultOptions() *analyzeOptions {
	v, _ := ParseJavaRelease(DefaultJavaRelease)
	return &analyzeOptions{
		log:     slog.New(slog.DiscardHandler),
		release: v,
	}
}

// Option configures [Analyze] and [NewRecipe].
type Option interface {
	apply(o *analyzeOptions)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

func (o Options) apply(r *analyzeOptions) {
	for _, opt := range o {
		if opt == nil {
			continue
		}
		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	as := make([]slog.Attr, 0, len(o))
	for _, opt := range o {
		if opt != nil {
			as = append(as, opt.LogAttr())
		}
	}
	return slog.Attr{Key: "options", Value: slog.GroupValue(as...)}
}

// WithLogger is an [Option] that traces passes and verdicts to log.
// A nil logger keeps the default, which discards everything.
func WithLogger(log *slog.Logger) Option { return loggerOption{log: log} }

type loggerOption struct{ log *slog.Logger }

func (o loggerOption) apply(r *analyzeOptions) {
	if o.log != nil {
		r.log = o.log
	}
}

func (o loggerOption) LogAttr() slog.Attr {
	return slog.Bool("logger", o.log != nil)
}

// WithJavaRelease is an [Option] setting the target language level.
func WithJavaRelease(v *semver.Version) Option { return releaseOption{release: v} }

type releaseOption struct{ release *semver.Version }

func (o releaseOption) apply(r *analyzeOptions) {
	if o.release != nil {
		r.release = o.release
	}
}

func (o releaseOption) LogAttr() slog.Attr {
	if o.release == nil {
		return slog.String("javaRelease", "")
	}
	return slog.String("javaRelease", o.release.String())
}

// ParseJavaRelease parses a Java release such as "17", "21.0.2" or the legacy
// "1.8" spelling, which means release 8.
func ParseJavaRelease(s string) (*semver.Version, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "1."); ok && rest != "" {
		s = rest
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return nil, fmt.Errorf("invalid java release %q: %w", s, err)
	}
	return v, nil
}

func mustConstraint(c string) *semver.Constraints {
	cs, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return cs
}
