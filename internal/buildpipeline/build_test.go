package buildpipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"baml/internal/diag"
	"baml/internal/driver"
	"baml/internal/render"
)

func writeSources(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestPlan(t *testing.T) {
	src := t.TempDir()
	writeSources(t, src, map[string]string{
		"index.baml":     "p \"home\"\n",
		"blog/post.baml": "p \"post\"\n",
		"notes.txt":      "skip me",
		".hidden/x.baml": "p \"x\"\n",
	})
	got, err := Plan(src)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if diff := cmp.Diff([]string{"blog/post.baml", "index.baml"}, got); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestOutputPath(t *testing.T) {
	got := outputPath("/out", "blog/post.baml")
	if want := filepath.Join("/out", "blog", "post.html"); got != want {
		t.Fatalf("outputPath = %q, want %q", got, want)
	}
}

func TestBuildWritesPages(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "public")
	writeSources(t, src, map[string]string{
		"index.baml":     "html { body { h1 \"Home\" } }\n",
		"blog/post.baml": "p.lead \"Post\"\n",
	})

	sink := &CollectSink{}
	res, err := Build(context.Background(), &BuildRequest{
		SrcDir:   src,
		OutDir:   out,
		Render:   render.Options{},
		Jobs:     2,
		Progress: sink,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Failed() != 0 {
		t.Fatalf("unexpected failures: %v", res.Dir.Diagnostics())
	}
	wantWritten := []string{
		filepath.Join(out, "blog", "post.html"),
		filepath.Join(out, "index.html"),
	}
	if diff := cmp.Diff(wantWritten, res.Written); diff != "" {
		t.Fatalf("written mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(filepath.Join(out, "blog", "post.html"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "<p class=\"lead\">Post</p>\n"; got != want {
		t.Fatalf("post.html = %q, want %q", got, want)
	}
	if !res.Timings.Has(StageRender) || !res.Timings.Has(StageWrite) {
		t.Fatalf("timings not recorded")
	}

	done := map[string]bool{}
	queued := 0
	for _, ev := range sink.Events() {
		if ev.File == "" {
			continue
		}
		switch {
		case ev.Status == StatusQueued:
			queued++
		case ev.Status == StatusDone && ev.Stage == StageWrite:
			done[ev.File] = true
		case ev.Status == StatusError:
			t.Fatalf("unexpected error event: %+v", ev)
		}
	}
	if queued != 2 {
		t.Fatalf("queued events = %d, want 2", queued)
	}
	if diff := cmp.Diff(map[string]bool{"index.baml": true, "blog/post.baml": true}, done); diff != "" {
		t.Fatalf("done events mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildKeepsGoingAfterFailure(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	writeSources(t, src, map[string]string{
		"bad.baml":  "div {\n",
		"good.baml": "br\n",
	})

	sink := &CollectSink{}
	res, err := Build(context.Background(), &BuildRequest{SrcDir: src, OutDir: out, Progress: sink})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Failed() != 1 {
		t.Fatalf("Failed() = %d, want 1", res.Failed())
	}
	if _, err := os.Stat(filepath.Join(out, "bad.html")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("bad.html must not be written, stat err = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "good.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<br />\n" {
		t.Fatalf("good.html = %q", data)
	}

	diags := res.Dir.Diagnostics()
	if len(diags) != 1 || diags[0].Code != diag.SynUnclosedBrace {
		t.Fatalf("diagnostics = %+v", diags)
	}

	sawError := false
	for _, ev := range sink.Events() {
		if ev.File == "bad.baml" && ev.Status == StatusError {
			sawError = true
		}
	}
	if !sawError {
		t.Fatalf("no error event for bad.baml")
	}
}

func TestBuildWriteFailure(t *testing.T) {
	src := t.TempDir()
	writeSources(t, src, map[string]string{"a.baml": "br\n"})
	// файл на месте каталога вывода: MkdirAll упадёт
	blocker := filepath.Join(t.TempDir(), "out")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := Build(context.Background(), &BuildRequest{SrcDir: src, OutDir: blocker})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Failed() != 1 {
		t.Fatalf("Failed() = %d, want 1", res.Failed())
	}
	d, ok := diag.AsDiagnostic(res.Dir.Files[0].Err)
	if !ok || d.Code != diag.IOWriteError {
		t.Fatalf("err = %v, want IOWriteError", res.Dir.Files[0].Err)
	}
}

func TestBuildUsesCache(t *testing.T) {
	src := t.TempDir()
	writeSources(t, src, map[string]string{"a.baml": "p \"cached\"\n"})
	cache, err := driver.NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	req := &BuildRequest{SrcDir: src, OutDir: t.TempDir(), Cache: cache}

	first, err := Build(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if first.Dir.Files[0].Cached {
		t.Fatalf("first build must not hit the cache")
	}
	second, err := Build(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Dir.Files[0].Cached {
		t.Fatalf("second build must hit the cache")
	}
	if string(second.Dir.Files[0].HTML) != "<p>cached</p>\n" {
		t.Fatalf("cached HTML = %q", second.Dir.Files[0].HTML)
	}
}

func TestBuildRequestValidation(t *testing.T) {
	ctx := context.Background()
	if _, err := Build(ctx, nil); err == nil {
		t.Fatal("nil request must fail")
	}
	if _, err := Build(ctx, &BuildRequest{OutDir: "x"}); err == nil {
		t.Fatal("missing SrcDir must fail")
	}
	if _, err := Build(ctx, &BuildRequest{SrcDir: filepath.Join(t.TempDir(), "nope"), OutDir: "x"}); err == nil {
		t.Fatal("missing source directory must fail")
	}
}

func TestBuildCancelled(t *testing.T) {
	src := t.TempDir()
	writeSources(t, src, map[string]string{"a.baml": "br\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, &BuildRequest{SrcDir: src, OutDir: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestTimingsSum(t *testing.T) {
	var tm Timings
	tm.Set(StageRender, 3)
	tm.Set(StageWrite, 4)
	if got := tm.Sum(StageRender, StageWrite, StageParse); got != 7 {
		t.Fatalf("Sum = %v", got)
	}
	if tm.Has(StageParse) {
		t.Fatal("parse timing must be absent")
	}
}
