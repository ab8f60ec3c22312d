package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"tagfix/internal/diag"
	"tagfix/internal/fix"
	"tagfix/internal/observ"
	"tagfix/internal/progress"
	"tagfix/internal/project"
	"tagfix/internal/source"
	"tagfix/internal/trace"
)

// DirResult is the outcome of MigrateDir. Results are sorted by path.
type DirResult struct {
	FileSet *source.FileSet
	Results []*Result
	Fixes   *fix.ApplyResult
	Timing  observ.Report
}

// ListTemplates returns the sorted templates under dir that cfg selects.
func ListTemplates(dir string, cfg *project.Config) ([]string, error) {
	if cfg == nil {
		cfg = project.Default()
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && cfg.Excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if cfg.Matches(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// MigrateDir migrates every template under dir using up to jobs goroutines
// (jobs <= 0 means GOMAXPROCS). Fix modes once and id always run sequentially.
func MigrateDir(ctx context.Context, dir string, opts Options, jobs int) (*DirResult, error) {
	e, err := newEnv(opts)
	if err != nil {
		return nil, err
	}
	sp, ctx := trace.Start(ctx, trace.ScopeDriver, "migrate-dir")
	defer sp.End(dir)

	files, err := ListTemplates(dir, e.cfg)
	if err != nil {
		return nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	out := &DirResult{FileSet: fileSet}
	if len(files) == 0 {
		out.Fixes = e.fixResult(nil)
		return out, nil
	}

	// Предзагружаем все файлы: FileSet не потокобезопасен на запись
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			// пустая запись, чтобы диагностике было куда указывать
			id = fileSet.Add(path, nil, source.FileVirtual)
			loadErrors[i] = err
		}
		fileIDs[i] = id
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if e.sequential() {
		jobs = 1
	}
	sp.WithExtra("files", strconv.Itoa(len(files))).WithExtra("jobs", strconv.Itoa(jobs))

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]*Result, len(files))
	totals := observ.NewTotals()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(e.opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: fileIDs[i]}, "failed to load file: "+loadErr.Error()))
				display := fileSet.Get(fileIDs[i]).FormatPath("relative", dir)
				results[i] = &Result{Path: display, FileSet: fileSet, FileID: fileIDs[i], Bag: bag}
				e.emit(display, progress.StageParse, progress.StatusError, loadErr, 0)
				return nil
			}
			res, err := e.migrate(gctx, fileSet, fileIDs[i])
			if err != nil {
				return err
			}
			totals.Add(res.Timing)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Path < results[b].Path })
	out.Results = results
	out.Fixes = e.fixResult(results)
	out.Timing = totals.Report()
	return out, nil
}
