package driver

import (
	"crypto/sha256"
	"fmt"

	"tagfix/internal/ast"
	"tagfix/internal/diag"
	"tagfix/internal/fix"
	"tagfix/internal/migrate"
	"tagfix/internal/observ"
	"tagfix/internal/progress"
	"tagfix/internal/project"
	"tagfix/internal/source"
	"tagfix/internal/taglib"
)

// Options configure MigrateFile and MigrateDir.
type Options struct {
	// Config defaults to project.Default() when nil.
	Config *project.Config
	// FixMode overrides Config.Migrate.Fix when non-empty (all, once, none).
	FixMode string
	// TargetID selects a single fix by its ID and wins over FixMode.
	TargetID string

	MaxDiagnostics int
	// Write stores the migrated output back to the template file.
	Write  bool
	DryRun bool
	// Timings appends an OBS6001 diagnostic with phase durations to each result.
	Timings  bool
	Cache    *DiskCache
	Progress progress.Sink
}

// Result describes one migrated template.
type Result struct {
	Path    string
	FileSet *source.FileSet
	FileID  source.FileID
	// Tree is nil for cached results and for files that failed to load.
	Tree   *ast.Tree
	Bag    *diag.Bag
	Output []byte
	// Changed - Output отличается от исходного текста.
	Changed bool
	Applied int
	// Fixes - применённые в этом файле фиксы (в том числе восстановленные из кеша).
	Fixes  []fix.AppliedFix
	Stats  migrate.Stats
	Change fix.FileChange
	Timing observ.Report
	Cached bool
}

// env is what every file of one run shares. Registry and taglibs are only read.
type env struct {
	opts     Options
	mode     fix.ApplyMode
	cfg      *project.Config
	registry *migrate.Registry
	taglibs  *taglib.Registry
	exempt   migrate.Exemptions
	policy   *fix.Policy
	cacheKey project.Digest
}

func newEnv(opts Options) (*env, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = project.Default()
	}
	mode, err := applyMode(cfg, opts)
	if err != nil {
		return nil, err
	}
	pipeline, err := migrate.DefaultPipeline().Select(cfg.Migrate.Rules)
	if err != nil {
		return nil, err
	}
	digest, err := cfg.Digest()
	if err != nil {
		return nil, err
	}
	e := &env{
		opts:     opts,
		mode:     mode,
		cfg:      cfg,
		registry: pipeline.Compose(),
		taglibs:  cfg.Registry(),
		exempt:   migrate.NewExemptions(cfg.Migrate.ExemptTaglibs),
		policy:   fix.NewPolicy(fix.ApplyOptions{Mode: mode, TargetID: opts.TargetID}),
	}
	modeDigest := project.Digest(sha256.Sum256(fmt.Appendf(nil, "schema=%d fix=%s", diskCacheSchemaVersion, mode)))
	e.cacheKey = project.Combine(digest, modeDigest)
	return e, nil
}

func applyMode(cfg *project.Config, opts Options) (fix.ApplyMode, error) {
	if opts.TargetID != "" {
		return fix.ApplyModeID, nil
	}
	if opts.FixMode != "" {
		return fix.ParseApplyMode(opts.FixMode)
	}
	return fix.ParseApplyMode(cfg.Migrate.Fix)
}

// cacheable reports whether results of this run may come from or go to the cache.
// Once/ID runs depend on which fix other files applied first.
func (e *env) cacheable() bool {
	if e.opts.Cache == nil {
		return false
	}
	switch e.mode {
	case fix.ApplyModeAll, fix.ApplyModeNone:
		return true
	}
	return false
}

// sequential reports whether files have to be migrated one by one.
func (e *env) sequential() bool {
	return e.mode == fix.ApplyModeOnce || e.mode == fix.ApplyModeID
}

// fixResult returns what the fix policy of the run did.
func (e *env) fixResult(results []*Result) *fix.ApplyResult {
	res := e.policy.Result()
	for _, r := range results {
		if r != nil && r.Change.Path != "" {
			res.FileChanges = append(res.FileChanges, r.Change)
		}
	}
	return res
}
