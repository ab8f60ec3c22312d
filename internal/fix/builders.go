package fix

import (
	"fmt"

	"tagfix/internal/diag"
	"tagfix/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

// WithKind overrides fix classification.
func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) {
		f.Kind = kind
	}
}

// Preferred marks fix as preferred suggestion.
func Preferred() Option {
	return func(f *diag.Fix) {
		f.IsPreferred = true
	}
}

// WithID sets stable identifier for fix.
func WithID(id string) Option {
	return func(f *diag.Fix) {
		f.ID = id
	}
}

// New builds an always-safe rewrite fix around apply.
func New(title string, apply func(), opts ...Option) *diag.Fix {
	f := &diag.Fix{
		Title:         title,
		Kind:          diag.FixKindRewrite,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Apply:         apply,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// ID returns the deterministic identifier `<CODE>-<file>-<start>-<idx>`.
func ID(code diag.Code, primary source.Span, idx int) string {
	return fmt.Sprintf("%s-%d-%d-%d", code.ID(), primary.File, primary.Start, idx)
}
