package diag

import (
	"tagfix/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// FixKind classifies a fix for listings.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRewrite
	FixKindRefactor
)

func (k FixKind) String() string {
	switch k {
	case FixKindRewrite:
		return "rewrite"
	case FixKindRefactor:
		return "refactor"
	default:
		return "quickfix"
	}
}

// FixApplicability - насколько безопасно применять фикс без ревью.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	default:
		return "always-safe"
	}
}

// Fix is an AST rewrite offered together with a diagnostic. Apply mutates the tree the
// diagnostic was produced for; it must be idempotent and must leave the tree traversable.
type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	Apply         func()
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []*Fix
}
