// Package fixture checks rendered pages against hand-written expectations.
//
// Every name.baml in a fixture directory is paired with name.html next to
// it. The page is rendered, both documents go through a Normalizer and the
// results are compared. Fixtures run in parallel; results come back in path
// order.
package fixture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"baml/internal/diag"
	"baml/internal/driver"
	"baml/internal/render"
	"baml/internal/source"
	"baml/internal/trace"
)

// Status is the outcome of one fixture.
type Status uint8

const (
	StatusPass Status = iota
	StatusFail        // rendered output differs
	StatusMissing     // no sibling .html
	StatusError       // the page did not render
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "ok"
	case StatusFail:
		return "failed"
	case StatusMissing:
		return "missing"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Options configure Run.
type Options struct {
	Normalizer Normalizer // nil: Identity
	Render     render.Options
	Jobs       int // 0 = GOMAXPROCS
}

// Result is the outcome for one fixture.
type Result struct {
	Name     string // relative to the fixture directory, '/'-separated
	Source   string
	Expected string
	Status   Status
	Err      error           // diag error for Fail/Missing/Error
	FileSet  *source.FileSet // resolves Err spans
	Got      []byte          // normalized render output
	Want     []byte          // normalized fixture
	Elapsed  time.Duration
}

// Diff returns a line diff of Want against Got, empty when they match.
func (r *Result) Diff() string {
	if r.Status != StatusFail {
		return ""
	}
	return cmp.Diff(strings.Split(string(r.Want), "\n"), strings.Split(string(r.Got), "\n"))
}

// Summary collects results in path order.
type Summary struct {
	Dir     string
	Results []Result
	Passed  int
	Failed  int
}

// OK reports whether every fixture passed. An empty run is OK.
func (s *Summary) OK() bool {
	return s.Failed == 0
}

// ExpectedPath maps name.baml to name.html.
func ExpectedPath(src string) string {
	return strings.TrimSuffix(src, driver.SourceExt) + ".html"
}

// Run checks every fixture under dir. The returned error is reserved for
// walk failures, cancellation and a normalizer that cannot be started;
// per-fixture failures live in the Summary.
func Run(ctx context.Context, dir string, opts Options) (*Summary, error) {
	files, err := driver.ListSources(dir)
	if err != nil {
		return nil, err
	}
	if opts.Normalizer == nil {
		opts.Normalizer = Identity
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	span, ctx := trace.Start(ctx, trace.ScopeDriver, "fixtures")
	sum := &Summary{Dir: dir, Results: make([]Result, len(files))}
	defer func() { span.End(fmt.Sprintf("%d passed, %d failed", sum.Passed, sum.Failed)) }()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, src := range files {
		g.Go(func() error {
			res := &sum.Results[i]
			res.Name = displayName(dir, src)
			res.Source = src
			res.Expected = ExpectedPath(src)
			return check(gctx, res, opts)
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}
	for i := range sum.Results {
		if sum.Results[i].Status == StatusPass {
			sum.Passed++
		} else {
			sum.Failed++
		}
	}
	return sum, nil
}

func check(ctx context.Context, res *Result, opts Options) error {
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	span, ctx := trace.Start(ctx, trace.ScopeFile, "fixture:"+res.Name)
	defer func() { span.End(res.Status.String()) }()

	rendered, err := driver.Render(ctx, res.Source, driver.Options{Render: opts.Render})
	if rendered != nil {
		res.FileSet = rendered.FileSet
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res.Status = StatusError
		res.Err = err
		return nil
	}
	srcSpan := source.Span{File: rendered.File.ID}

	// #nosec G304 -- path is derived from a fixture directory walk
	expected, err := os.ReadFile(res.Expected)
	if err != nil {
		res.Status = StatusMissing
		if errors.Is(err, os.ErrNotExist) {
			res.Err = diag.Errorf(diag.PrjFixtureMissing, srcSpan, "missing fixture %s", res.Expected)
		} else {
			res.Err = diag.Errorf(diag.PrjFixtureMissing, srcSpan, "cannot read fixture %s: %v", res.Expected, err)
		}
		return nil
	}

	got, err := opts.Normalizer.Normalize(ctx, rendered.HTML)
	if err != nil {
		return normalizerError(err)
	}
	want, err := opts.Normalizer.Normalize(ctx, expected)
	if err != nil {
		return normalizerError(err)
	}
	res.Got, res.Want = got, want

	if string(got) != string(want) {
		res.Status = StatusFail
		res.Err = diag.Errorf(diag.PrjFixtureDiff, srcSpan, "output differs from %s", res.Expected)
		return nil
	}
	res.Status = StatusPass
	return nil
}

// normalizerError stops the whole run: a broken normalizer fails every
// fixture the same way.
func normalizerError(err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("normalizer not available: %w", err)
	}
	return fmt.Errorf("normalize: %w", err)
}
