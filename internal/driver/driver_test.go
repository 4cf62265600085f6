package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"baml/internal/diag"
	"baml/internal/observ"
	"baml/internal/render"
	"baml/internal/trace"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderSourceHelloWorld(t *testing.T) {
	res, err := RenderSource(context.Background(), "hello.baml",
		[]byte(`html { head { title "Hello World" } body { h1 "Hello World" } } `), Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "<html>\n  <head>\n    <title>Hello World</title>\n  </head>\n  <body>\n    <h1>Hello World</h1>\n  </body>\n</html>\n"
	if diff := cmp.Diff(want, string(res.HTML)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if len(res.Tokens) == 0 || res.Doc == nil {
		t.Fatal("expected tokens and document in result")
	}
}

func TestRenderSourceNormalizesInput(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"bom", "\xEF\xBB\xBFbr\r\n", "<br />\n"},
		{"crlf", "p \"a\"\r\nbr\r\n", "<p>a</p>\n<br />\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := RenderSource(context.Background(), "<stdin>", []byte(tt.in), Options{})
			if err != nil {
				t.Fatalf("RenderSource: %v", err)
			}
			if diff := cmp.Diff(tt.want, string(res.HTML)); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunStopsAtStage(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.baml", "div.x")

	res, err := Tokenize(context.Background(), path, Options{})
	if err != nil || res.Doc != nil || len(res.Tokens) != 4 {
		t.Fatalf("tokenize: doc=%v tokens=%d err=%v", res.Doc, len(res.Tokens), err)
	}
	res, err = Parse(context.Background(), path, Options{})
	if err != nil || res.Doc == nil || res.HTML != nil {
		t.Fatalf("parse: unexpected result %+v, %v", res, err)
	}
	res, err = Render(context.Background(), path, Options{Render: render.Options{Mode: render.ModeCompact}})
	if err != nil || string(res.HTML) != `<div class="x"></div>` {
		t.Fatalf("render: %q, %v", res.HTML, err)
	}
}

func TestRunFirstErrorWins(t *testing.T) {
	var events []PhaseEvent
	res, err := RenderSource(context.Background(), "bad.baml", []byte("div {"), Options{
		Observer: func(ev PhaseEvent) { events = append(events, ev) },
	})
	var de *diag.Error
	if !errors.As(err, &de) || de.Code() != diag.SynUnclosedBrace {
		t.Fatalf("expected SYN2005, got %v", err)
	}
	if res == nil || res.FileSet == nil || res.HTML != nil {
		t.Fatalf("result must keep the file set and no html: %+v", res)
	}
	// tokenize start/end + parse start/end, render never starts
	if len(events) != 4 || events[3].Stage != StageParse || events[3].Err == nil {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestRunMissingFile(t *testing.T) {
	_, err := Render(context.Background(), filepath.Join(t.TempDir(), "nope.baml"), Options{})
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RenderSource(ctx, "a.baml", []byte("br"), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunTimingsAndTrace(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewStreamTracer(&buf, trace.LevelDebug, trace.FormatText)
	ctx := trace.WithTracer(context.Background(), tr)
	timer := observ.NewTimer()

	if _, err := RenderSource(ctx, "a.baml", []byte("ul { li; }"), Options{Timer: timer}); err != nil {
		t.Fatal(err)
	}
	rep := timer.Report()
	var names []string
	for _, p := range rep.Phases {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"tokenize", "parse", "render"}, names); diff != "" {
		t.Fatalf("phases mismatch (-want +got):\n%s", diff)
	}
	out := buf.String()
	for _, want := range []string{"→ tokenize", "• tag:ul", "• tag:li (depth 1)", "← render"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in trace:\n%s", want, out)
		}
	}
}

func TestRenderDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.baml", `p "home"`)
	writeFile(t, dir, "sub/about.baml", "br")
	writeFile(t, dir, "sub/broken.baml", "div {")
	writeFile(t, dir, "notes.txt", "ignored")
	writeFile(t, dir, ".hidden/x.baml", "br")

	var mu sync.Mutex
	ends := 0
	res, err := RenderDir(context.Background(), dir, DirOptions{
		Jobs: 2,
		Options: Options{Observer: func(ev PhaseEvent) {
			if ev.Status == PhaseEnd {
				mu.Lock()
				ends++
				mu.Unlock()
			}
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	var rels []string
	for _, f := range res.Files {
		rels = append(rels, f.Rel)
	}
	if diff := cmp.Diff([]string{"index.baml", "sub/about.baml", "sub/broken.baml"}, rels); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	if string(res.Files[0].HTML) != "<p>home</p>\n" || string(res.Files[1].HTML) != "<br />\n" {
		t.Fatalf("unexpected html: %q %q", res.Files[0].HTML, res.Files[1].HTML)
	}
	if res.Failed() != 1 || res.Files[2].Err == nil {
		t.Fatalf("expected broken.baml to fail, got %d failures", res.Failed())
	}
	diags := res.Diagnostics()
	if len(diags) != 1 || diags[0].Code != diag.SynUnclosedBrace {
		t.Fatalf("unexpected diagnostics %+v", diags)
	}
	// 3 фазы для двух удачных файлов + 2 для сломанного
	if ends != 8 {
		t.Fatalf("expected 8 phase ends, got %d", ends)
	}
}

func TestRenderDirUsesCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.baml", "br")
	cache, err := NewDiskCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := DirOptions{Cache: cache}

	first, err := RenderDir(context.Background(), dir, opts)
	if err != nil || first.Files[0].Cached {
		t.Fatalf("first run must render: %+v %v", first.Files, err)
	}
	second, err := RenderDir(context.Background(), dir, opts)
	if err != nil || !second.Files[0].Cached || string(second.Files[0].HTML) != "<br />\n" {
		t.Fatalf("second run must hit cache: %+v %v", second.Files, err)
	}

	opts.Render.Mode = render.ModeCompact
	third, err := RenderDir(context.Background(), dir, opts)
	if err != nil || third.Files[0].Cached || string(third.Files[0].HTML) != "<br>" {
		t.Fatalf("format change must miss cache: %+v %v", third.Files, err)
	}
}

func TestRenderDirTracesCacheWriteFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.baml", "br")
	cacheDir := filepath.Join(t.TempDir(), "cache")
	cache, err := NewDiskCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	// обычный файл на месте каталога html: Put не сможет создать подкаталог
	writeFile(t, cacheDir, "html", "")

	var buf bytes.Buffer
	ctx := trace.WithTracer(context.Background(), trace.NewStreamTracer(&buf, trace.LevelFile, trace.FormatText))
	res, err := RenderDir(ctx, dir, DirOptions{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() != 0 || string(res.Files[0].HTML) != "<br />\n" {
		t.Fatalf("render must succeed without the cache: %+v", res.Files)
	}
	if !strings.Contains(buf.String(), "• cache-put-failed") {
		t.Fatalf("expected cache failure in trace:\n%s", buf.String())
	}
}

func TestRenderDirEmpty(t *testing.T) {
	res, err := RenderDir(context.Background(), t.TempDir(), DirOptions{})
	if err != nil || len(res.Files) != 0 {
		t.Fatalf("expected empty result, got %+v %v", res, err)
	}
}
