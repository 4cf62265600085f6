// Package buildpipeline orchestrates a site build: every source under a
// directory is rendered in parallel and written to an output tree, with
// progress reported through a ProgressSink.
package buildpipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"baml/internal/diag"
	"baml/internal/driver"
	"baml/internal/observ"
	"baml/internal/render"
	"baml/internal/source"
	"baml/internal/trace"
)

// BuildRequest configures a build.
type BuildRequest struct {
	SrcDir   string
	OutDir   string
	Render   render.Options
	Jobs     int
	Cache    *driver.DiskCache
	Timer    *observ.Timer
	Progress ProgressSink
}

// BuildResult captures per-file outcomes and timings.
type BuildResult struct {
	Dir     *driver.DirResult
	Written []string // pages under OutDir, in source order
	Timings Timings
}

// Failed returns the number of sources that did not render or write.
func (r BuildResult) Failed() int {
	if r.Dir == nil {
		return 0
	}
	return r.Dir.Failed()
}

// Build renders every source under req.SrcDir into req.OutDir. Per-file
// failures are recorded in the result and do not stop the build; the
// returned error covers bad requests, walk failures and cancellation.
func Build(ctx context.Context, req *BuildRequest) (BuildResult, error) {
	var result BuildResult
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	if req.SrcDir == "" {
		return result, fmt.Errorf("missing source directory")
	}
	if req.OutDir == "" {
		return result, fmt.Errorf("missing output directory")
	}
	if st, err := os.Stat(req.SrcDir); err != nil {
		return result, fmt.Errorf("source directory: %w", err)
	} else if !st.IsDir() {
		return result, fmt.Errorf("%q is not a directory", req.SrcDir)
	}

	span, ctx := trace.Start(ctx, trace.ScopeDriver, "build")
	defer func() { span.End(fmt.Sprintf("%d written", len(result.Written))) }()

	files, err := Plan(req.SrcDir)
	if err != nil {
		return result, err
	}
	emitQueued(req.Progress, files)

	renderStart := time.Now()
	emitStage(req.Progress, nil, StageRender, StatusWorking, nil, 0)
	dirRes, err := driver.RenderDir(ctx, req.SrcDir, driver.DirOptions{
		Options: driver.Options{
			Render:   req.Render,
			Timer:    req.Timer,
			Observer: phaseObserver(req.Progress, req.SrcDir),
		},
		Jobs:  req.Jobs,
		Cache: req.Cache,
	})
	result.Dir = dirRes
	result.Timings.Set(StageRender, time.Since(renderStart))
	if err != nil {
		emitStage(req.Progress, nil, StageRender, StatusError, err, result.Timings.Duration(StageRender))
		return result, err
	}
	emitStage(req.Progress, nil, StageRender, StatusDone, nil, result.Timings.Duration(StageRender))

	writeStart := time.Now()
	emitStage(req.Progress, nil, StageWrite, StatusWorking, nil, 0)
	for i := range dirRes.Files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		fr := &dirRes.Files[i]
		name := displayName(fr.Path, req.SrcDir)
		if fr.Err != nil {
			emitFile(req.Progress, Event{File: name, Stage: StageRender, Status: StatusError, Err: fr.Err, Elapsed: fr.Elapsed})
			continue
		}
		emitFile(req.Progress, Event{File: name, Stage: StageWrite, Status: StatusWorking})
		dst := outputPath(req.OutDir, name)
		if err := writePage(dst, fr.HTML); err != nil {
			fr.Err = diag.Errorf(diag.IOWriteError, source.Span{File: fr.FileID}, "failed to write %s: %v", dst, err)
			emitFile(req.Progress, Event{File: name, Stage: StageWrite, Status: StatusError, Err: fr.Err})
			continue
		}
		result.Written = append(result.Written, dst)
		emitFile(req.Progress, Event{File: name, Stage: StageWrite, Status: StatusDone, Elapsed: fr.Elapsed, Cached: fr.Cached})
	}
	result.Timings.Set(StageWrite, time.Since(writeStart))
	req.Timer.Add("write", result.Timings.Duration(StageWrite))
	emitStage(req.Progress, nil, StageWrite, StatusDone, nil, result.Timings.Duration(StageWrite))
	return result, nil
}

func writePage(dst string, html []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	return os.WriteFile(dst, html, 0o600)
}

// phaseObserver translates driver phase boundaries into progress events.
// Successful phase ends are not forwarded: a file is done only once written.
func phaseObserver(sink ProgressSink, srcDir string) driver.PhaseObserver {
	if sink == nil {
		return nil
	}
	return func(ev driver.PhaseEvent) {
		out := Event{File: displayName(ev.File, srcDir), Stage: stageOf(ev.Stage), Elapsed: ev.Elapsed, Cached: ev.Cached}
		switch {
		case ev.Status == driver.PhaseStart:
			out.Status = StatusWorking
		case ev.Err != nil:
			out.Status = StatusError
			out.Err = ev.Err
		default:
			return
		}
		sink.OnEvent(out)
	}
}

func stageOf(s driver.Stage) Stage {
	switch s {
	case driver.StageTokenize:
		return StageTokenize
	case driver.StageParse:
		return StageParse
	default:
		return StageRender
	}
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageTokenize, Status: StatusQueued})
	}
}

func emitStage(sink ProgressSink, files []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}

func emitFile(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
