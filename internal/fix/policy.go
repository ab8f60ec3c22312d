package fix

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"tagfix/internal/diag"
	"tagfix/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeNone ApplyMode = iota
	ApplyModeOnce
	ApplyModeAll
	ApplyModeID
)

func (m ApplyMode) String() string {
	switch m {
	case ApplyModeOnce:
		return "once"
	case ApplyModeAll:
		return "all"
	case ApplyModeID:
		return "id"
	default:
		return "none"
	}
}

// ParseApplyMode accepts the values used in tagfix.toml (`fix = "..."`).
func ParseApplyMode(s string) (ApplyMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ApplyModeAll, nil
	case "once":
		return ApplyModeOnce, nil
	case "none", "off":
		return ApplyModeNone, nil
	}
	return ApplyModeNone, fmt.Errorf("unknown fix mode %q (want all, once or none)", s)
}

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Message       string
	Applicability diag.FixApplicability
	Primary       source.Span
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

// Policy decides, at the moment a diagnostic is reported, whether its fix runs.
// One Policy may be shared by several files; ApplyModeOnce then means once per run.
type Policy struct {
	opts ApplyOptions

	mu      sync.Mutex
	applied []AppliedFix
	skipped []SkippedFix
}

func NewPolicy(opts ApplyOptions) *Policy {
	return &Policy{opts: opts}
}

func (p *Policy) Mode() ApplyMode {
	return p.opts.Mode
}

// Offer runs f.Apply when the policy selects it and reports whether it did.
// The choice is made under the lock; Apply runs after it is released, so trees of
// different files are rewritten in parallel.
func (p *Policy) Offer(d diag.Diagnostic, f *diag.Fix) bool {
	if p == nil || f == nil || f.Apply == nil {
		return false
	}
	if !p.choose(d, f) {
		return false
	}
	f.Apply()
	return true
}

// choose decides whether f runs and records it as applied if so.
func (p *Policy) choose(d diag.Diagnostic, f *diag.Fix) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.opts.Mode {
	case ApplyModeNone:
		return false
	case ApplyModeID:
		if f.ID != p.opts.TargetID {
			return false
		}
	case ApplyModeOnce:
		if len(p.applied) > 0 {
			p.skip(f, "another fix was already applied")
			return false
		}
		fallthrough
	case ApplyModeAll:
		if f.Applicability != diag.FixApplicabilityAlwaysSafe {
			p.skip(f, fmt.Sprintf("applicability is %s", f.Applicability.String()))
			return false
		}
	}

	p.applied = append(p.applied, appliedFrom(d, f))
	return true
}

func appliedFrom(d diag.Diagnostic, f *diag.Fix) AppliedFix {
	return AppliedFix{
		ID:            f.ID,
		Title:         f.Title,
		Code:          d.Code,
		Message:       d.Message,
		Applicability: f.Applicability,
		Primary:       d.Primary,
	}
}

// Record adds fixes applied outside Offer, e.g. restored from a cache, to the result.
func (p *Policy) Record(fixes ...AppliedFix) {
	if p == nil || len(fixes) == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applied = append(p.applied, fixes...)
}

func (p *Policy) skip(f *diag.Fix, reason string) {
	p.skipped = append(p.skipped, SkippedFix{ID: f.ID, Title: f.Title, Reason: reason})
}

// Result snapshots what the policy did so far.
func (p *Policy) Result() *ApplyResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	res := &ApplyResult{
		Applied: append([]AppliedFix(nil), p.applied...),
		Skipped: append([]SkippedFix(nil), p.skipped...),
	}
	if p.opts.Mode == ApplyModeID && len(p.applied) == 0 {
		res.Skipped = append(res.Skipped, SkippedFix{ID: p.opts.TargetID, Reason: "fix id not found"})
	}
	return res
}

// Reporter forwards diagnostics to Next and then offers each attached fix to Policy.
// Applied, when set, counts the fixes this reporter got applied; Log collects them.
type Reporter struct {
	Next    diag.Reporter
	Policy  *Policy
	Applied *int
	Log     *[]AppliedFix
}

func (r Reporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []*diag.Fix) {
	if r.Next != nil {
		r.Next.Report(code, sev, primary, msg, notes, fixes)
	}
	if r.Policy == nil || len(fixes) == 0 {
		return
	}
	d := diag.Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes, Fixes: fixes}
	for _, f := range fixes {
		if !r.Policy.Offer(d, f) {
			continue
		}
		if r.Applied != nil {
			*r.Applied++
		}
		if r.Log != nil {
			*r.Log = append(*r.Log, appliedFrom(d, f))
		}
	}
}
