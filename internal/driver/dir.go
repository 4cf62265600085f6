package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"baml/internal/diag"
	"baml/internal/source"
	"baml/internal/trace"
)

// SourceExt is the extension of Baml sources.
const SourceExt = ".baml"

// DirOptions configure RenderDir.
type DirOptions struct {
	Options
	Jobs  int        // 0 = GOMAXPROCS
	Cache *DiskCache // nil: без кеша
}

// FileResult is the outcome for one source file.
type FileResult struct {
	Path    string // путь как найден при обходе
	Rel     string // относительно корня обхода, через '/'
	FileID  source.FileID
	HTML    []byte
	Cached  bool
	Err     error
	Elapsed time.Duration
}

// DirResult collects per-file results in path order.
type DirResult struct {
	Root    string
	FileSet *source.FileSet
	Files   []FileResult
}

// Failed returns the number of files that did not render.
func (r *DirResult) Failed() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Err != nil {
			n++
		}
	}
	return n
}

// Diagnostics turns every per-file error into a diagnostic. Errors that do
// not carry one (I/O) become IOLoadFileError without a span.
func (r *DirResult) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for i := range r.Files {
		err := r.Files[i].Err
		if err == nil {
			continue
		}
		if d, ok := diag.AsDiagnostic(err); ok {
			out = append(out, d)
			continue
		}
		out = append(out, diag.NewError(diag.IOLoadFileError, source.Span{}, fmt.Sprintf("%s: %v", r.Files[i].Rel, err)))
	}
	return out
}

// ListSources возвращает отсортированный список всех *.baml в каталоге.
// Скрытые каталоги (.git, .baml-cache) пропускаются.
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, SourceExt) {
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

// RenderDir renders every source under dir in parallel. A failing file does
// not stop the others; its error is kept in its FileResult. The returned
// error is reserved for walk failures and cancellation.
func RenderDir(ctx context.Context, dir string, opts DirOptions) (*DirResult, error) {
	files, err := ListSources(dir)
	if err != nil {
		return nil, err
	}
	res := &DirResult{Root: dir, FileSet: source.NewFileSet(), Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		return res, nil
	}

	span, ctx := trace.Start(ctx, trace.ScopeDriver, "render-dir")
	defer func() { span.End(fmt.Sprintf("%d files, %d failed", len(files), res.Failed())) }()

	// FileSet не потокобезопасен: грузим всё заранее
	loaded := make([]*source.File, len(files))
	for i, path := range files {
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		res.Files[i] = FileResult{Path: path, Rel: filepath.ToSlash(rel)}
		id, loadErr := res.FileSet.Load(path)
		if loadErr != nil {
			res.Files[i].Err = fmt.Errorf("failed to load file: %w", loadErr)
			continue
		}
		res.Files[i].FileID = id
	}
	for i := range files {
		if res.Files[i].Err == nil {
			loaded[i] = res.FileSet.Get(res.Files[i].FileID)
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i := range files {
		if loaded[i] == nil {
			continue
		}
		g.Go(func() error {
			// результаты пишутся по уникальному индексу, мьютекс не нужен
			renderOne(gctx, res.FileSet, loaded[i], &res.Files[i], opts)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}
	return res, nil
}

func renderOne(ctx context.Context, fset *source.FileSet, file *source.File, out *FileResult, opts DirOptions) {
	span, ctx := trace.Start(ctx, trace.ScopeFile, "file:"+out.Rel)
	start := time.Now()
	defer func() {
		out.Elapsed = time.Since(start)
		detail := "ok"
		switch {
		case out.Err != nil:
			detail = out.Err.Error()
		case out.Cached:
			detail = "cached"
		}
		span.End(detail)
	}()

	key, keyErr := CacheKey(file, opts.Render)
	if opts.Cache != nil && keyErr == nil {
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok {
			out.HTML = payload.HTML
			out.Cached = true
			if opts.Observer != nil {
				opts.Observer(PhaseEvent{File: file.Path, Stage: StageRender, Status: PhaseEnd, Cached: true})
			}
			return
		}
	}

	r, err := Run(ctx, fset, file, StageRender, opts.Options)
	if err != nil {
		out.Err = err
		return
	}
	out.HTML = r.HTML

	if opts.Cache != nil && keyErr == nil {
		// ошибка записи в кеш не валит рендер, но видна в трассировке
		err := opts.Cache.Put(key, &DiskPayload{
			Path:   out.Rel,
			HTML:   r.HTML,
			Tokens: len(r.Tokens),
			Nodes:  len(r.Doc.Nodes),
			Stored: time.Now().UTC(),
		})
		if err != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache-put-failed", err.Error(), span.ID())
		}
	}
}
