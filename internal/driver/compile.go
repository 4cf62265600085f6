package driver

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"baml/internal/ast"
	"baml/internal/lexer"
	"baml/internal/observ"
	"baml/internal/parser"
	"baml/internal/render"
	"baml/internal/source"
	"baml/internal/token"
	"baml/internal/trace"
)

// Options configure a pipeline run.
type Options struct {
	Render   render.Options
	Timer    *observ.Timer // nil: не собирать тайминги
	Observer PhaseObserver
}

// Result holds whatever the pipeline produced before it stopped. FileSet and
// File are set whenever the input was loaded, so callers can print
// diagnostics for a failed run.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Doc     *ast.Document
	HTML    []byte
}

// Tokenize loads path and runs the tokenizer.
func Tokenize(ctx context.Context, path string, opts Options) (*Result, error) {
	return runPath(ctx, path, StageTokenize, opts)
}

// Parse loads path and runs tokenizer and parser.
func Parse(ctx context.Context, path string, opts Options) (*Result, error) {
	return runPath(ctx, path, StageParse, opts)
}

// Render loads path and runs the whole pipeline.
func Render(ctx context.Context, path string, opts Options) (*Result, error) {
	return runPath(ctx, path, StageRender, opts)
}

// RenderSource runs the whole pipeline over in-memory content.
func RenderSource(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, content)
	return Run(ctx, fs, fs.Get(id), StageRender, opts)
}

func runPath(ctx context.Context, path string, upTo Stage, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return Run(ctx, fs, fs.Get(id), upTo, opts)
}

// Run executes the pipeline over an already loaded file, stopping after upTo.
// The first error aborts the remaining stages.
func Run(ctx context.Context, fs *source.FileSet, file *source.File, upTo Stage, opts Options) (*Result, error) {
	res := &Result{FileSet: fs, File: file}
	r := runner{ctx: ctx, opts: opts, file: file.Path}

	err := r.phase(StageTokenize, func() (string, error) {
		toks, err := lexer.Tokenize(file)
		res.Tokens = toks
		return fmt.Sprintf("%d tokens", len(toks)), err
	})
	if err != nil || upTo == StageTokenize {
		return res, err
	}

	err = r.phase(StageParse, func() (string, error) {
		doc, err := parser.Parse(res.Tokens)
		res.Doc = doc
		if err != nil {
			return "", err
		}
		traceNodes(ctx, doc)
		return fmt.Sprintf("%d nodes", len(doc.Nodes)), nil
	})
	if err != nil || upTo == StageParse {
		return res, err
	}

	err = r.phase(StageRender, func() (string, error) {
		html, err := renderBytes(res.Doc, opts.Render)
		res.HTML = html
		return fmt.Sprintf("%d bytes", len(html)), err
	})
	return res, err
}

type runner struct {
	ctx  context.Context
	opts Options
	file string
}

func (r runner) phase(stage Stage, fn func() (string, error)) error {
	if err := r.ctx.Err(); err != nil {
		return err
	}
	span, _ := trace.Start(r.ctx, trace.ScopePhase, stage.String())
	r.notify(PhaseEvent{File: r.file, Stage: stage, Status: PhaseStart})

	start := time.Now()
	detail, err := fn()
	elapsed := time.Since(start)

	if err != nil {
		detail = err.Error()
	}
	span.End(detail)
	r.opts.Timer.Add(stage.String(), elapsed)
	r.notify(PhaseEvent{File: r.file, Stage: stage, Status: PhaseEnd, Elapsed: elapsed, Err: err})
	return err
}

func (r runner) notify(ev PhaseEvent) {
	if r.opts.Observer != nil {
		r.opts.Observer(ev)
	}
}

// traceNodes emits one point per tag; only visible at debug level.
func traceNodes(ctx context.Context, doc *ast.Document) {
	t := trace.FromContext(ctx)
	if !t.Level().ShouldEmit(trace.ScopeNode) {
		return
	}
	parent := trace.CurrentSpan(ctx).SpanID
	ast.WalkDocument(doc, func(n ast.Node, depth int) bool {
		if tag, ok := n.(*ast.Tag); ok {
			trace.Point(t, trace.ScopeNode, "tag:"+tag.Name, fmt.Sprintf("depth %d", depth), parent)
		}
		return true
	})
}

func renderBytes(doc *ast.Document, opts render.Options) ([]byte, error) {
	if opts.Mode == render.ModePretty {
		return render.Pretty(doc, opts)
	}
	var buf bytes.Buffer
	if err := render.Render(&buf, doc, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
