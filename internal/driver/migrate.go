package driver

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"tagfix/internal/diag"
	"tagfix/internal/fix"
	"tagfix/internal/format"
	"tagfix/internal/migrate"
	"tagfix/internal/observ"
	"tagfix/internal/parser"
	"tagfix/internal/progress"
	"tagfix/internal/project"
	"tagfix/internal/source"
	"tagfix/internal/taglib"
	"tagfix/internal/trace"
)

// MigrateFile loads one template from disk and migrates it.
func MigrateFile(ctx context.Context, path string, opts Options) (*Result, *fix.ApplyResult, error) {
	e, err := newEnv(opts)
	if err != nil {
		return nil, nil, err
	}
	sp, ctx := trace.Start(ctx, trace.ScopeDriver, "migrate-file")
	defer sp.End(path)

	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	res, err := e.migrate(ctx, fs, id)
	if err != nil {
		return nil, nil, err
	}
	return res, e.fixResult([]*Result{res}), nil
}

// MigrateSource migrates template text that does not live on disk; Write is ignored.
func MigrateSource(ctx context.Context, name string, content []byte, opts Options) (*Result, *fix.ApplyResult, error) {
	e, err := newEnv(opts)
	if err != nil {
		return nil, nil, err
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	res, err := e.migrate(ctx, fs, id)
	if err != nil {
		return nil, nil, err
	}
	return res, e.fixResult([]*Result{res}), nil
}

// migrate parses, migrates and prints one file; with Write it also stores the output.
// Only context cancellation is returned as an error, everything else ends up in the bag.
func (e *env) migrate(ctx context.Context, fs *source.FileSet, id source.FileID) (*Result, error) {
	f := fs.Get(id)
	res := &Result{
		Path:    f.FormatPath("relative", fs.BaseDir()),
		FileSet: fs,
		FileID:  id,
		Bag:     diag.NewBag(e.opts.MaxDiagnostics),
	}
	sp, ctx := trace.Start(ctx, trace.ScopeFile, "file")
	sp.WithExtra("path", res.Path)
	defer func() {
		sp.WithExtra("applied", strconv.Itoa(res.Applied))
		sp.End("")
	}()

	timer := observ.NewTimer()
	started := time.Now()
	e.emit(res.Path, progress.StageParse, progress.StatusWorking, nil, 0)

	key := project.Combine(project.Digest(f.Hash), e.cacheKey)
	if e.cacheable() {
		idx := timer.Begin("cache")
		var payload DiskPayload
		hit, err := e.opts.Cache.Get(key, &payload)
		timer.End(idx, "")
		if err == nil && hit && payload.ContentHash == project.Digest(f.Hash) {
			payload.restore(res)
			// фиксы из кеша тоже попадают в итог прогона
			e.policy.Record(res.Fixes...)
			res.Changed = !bytes.Equal(res.Output, f.Content)
			e.write(res, timer)
			e.finish(res, timer)
			e.emit(res.Path, progress.StageWrite, progress.StatusCached, nil, time.Since(started))
			return res, nil
		}
	}

	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	idx := timer.Begin("parse")
	tree := parser.ParseFile(fs, id, parser.Options{Reporter: reporter})
	timer.End(idx, "")
	res.Tree = tree
	if res.Bag.HasErrors() {
		// шаблон с синтаксическими ошибками не трогаем
		res.Output = f.Content
		e.finish(res, timer)
		e.emit(res.Path, progress.StageParse, progress.StatusError, nil, time.Since(started))
		return res, nil
	}

	e.emit(res.Path, progress.StageMigrate, progress.StatusWorking, nil, 0)
	idx = timer.Begin("migrate")
	edits := tree.Edits()
	stats, err := migrate.Run(ctx, tree, e.registry, migrate.Options{
		Resolver:   taglib.NewResolver(e.taglibs),
		Reporter:   fix.Reporter{Next: reporter, Policy: e.policy, Applied: &res.Applied, Log: &res.Fixes},
		Exemptions: &e.exempt,
	})
	timer.End(idx, strconv.Itoa(res.Applied)+" fixes")
	if err != nil {
		e.emit(res.Path, progress.StageMigrate, progress.StatusError, err, time.Since(started))
		return nil, err
	}
	res.Stats = stats

	e.emit(res.Path, progress.StagePrint, progress.StatusWorking, nil, 0)
	idx = timer.Begin("print")
	if res.Applied == 0 && tree.Edits() == edits {
		// нетронутый шаблон остаётся байт в байт
		res.Output = f.Content
	} else {
		out, err := format.FormatTree(tree)
		if err != nil {
			res.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{File: id}, "failed to print template: "+err.Error()))
			out = f.Content
		}
		res.Output = out
	}
	res.Changed = !bytes.Equal(res.Output, f.Content)
	timer.End(idx, "")

	e.write(res, timer)

	if e.cacheable() && !res.Bag.HasErrors() {
		if err := e.opts.Cache.Put(key, resultToPayload(res, project.Digest(f.Hash))); err != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache-put", err.Error(), sp.ID())
		}
	}

	e.finish(res, timer)
	status := progress.StatusDone
	if res.Bag.HasErrors() {
		status = progress.StatusError
	}
	e.emit(res.Path, progress.StageWrite, status, nil, time.Since(started))
	return res, nil
}

// write stores a changed output when the run writes files. Write failures become diagnostics.
func (e *env) write(res *Result, timer *observ.Timer) {
	if !e.opts.Write || !res.Changed {
		return
	}
	e.emit(res.Path, progress.StageWrite, progress.StatusWorking, nil, 0)
	idx := timer.Begin("write")
	change, err := fix.WriteFile(res.FileSet, res.FileID, res.Output, res.Applied, e.opts.DryRun)
	timer.End(idx, "")
	res.Change = change
	if err != nil {
		res.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{File: res.FileID}, err.Error()))
	}
}

func (e *env) finish(res *Result, timer *observ.Timer) {
	res.Timing = timer.Report()
	if e.opts.Timings {
		appendTimingDiagnostic(res.Bag, timingPayload{Kind: "file", Path: res.Path, TotalMS: res.Timing.TotalMS, Phases: res.Timing.Phases}, res.FileID)
	}
}

func (e *env) emit(file string, stage progress.Stage, status progress.Status, err error, elapsed time.Duration) {
	progress.Emit(e.opts.Progress, progress.Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
