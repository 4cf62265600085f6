package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// execute runs the CLI in-process. Flags are reset afterwards because
// cobra keeps parsed values on the command tree.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--color", "off"}, args...))
	t.Cleanup(func() { resetFlags(rootCmd) })
	err := rootCmd.Execute()
	resetFlags(rootCmd)
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

const helloWorld = `html {
  head {
    title "Hello World"
  }
  body {
    h1 "Hello World"
  }
}
`

const helloWorldHTML = "<html>\n  <head>\n    <title>Hello World</title>\n  </head>\n  <body>\n    <h1>Hello World</h1>\n  </body>\n</html>\n"

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hello.baml")
	writeFile(t, path, helloWorld)

	out, _, err := execute(t, "", "render", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != helloWorldHTML {
		t.Fatalf("output mismatch:\n%s", out)
	}
}

func TestRenderDefaultEntry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "simple.baml"), "p \"default\"\n")
	t.Chdir(dir)

	out, _, err := execute(t, "", "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "<p>default</p>\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestRenderStdinCompact(t *testing.T) {
	out, _, err := execute(t, "div.box { br; p 'x' }", "render", "--format", "compact", "-")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != `<div class="box"><br><p>x</p></div>` {
		t.Fatalf("output = %q", out)
	}
}

func TestRenderStdinWithBOM(t *testing.T) {
	out, _, err := execute(t, "\xEF\xBB\xBFbr\r\n", "render", "-")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "<br />\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestRenderToFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.baml")
	dst := filepath.Join(dir, "a.html")
	writeFile(t, src, "br\n")

	out, _, err := execute(t, "", "render", "--quiet", "-o", dst, src)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Fatalf("stdout must stay empty, got %q", out)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<br />\n" {
		t.Fatalf("file = %q", data)
	}
}

func TestRenderErrorIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.baml")
	writeFile(t, path, "div {\n  p \"x\"\n")

	out, stderr, err := execute(t, "", "render", path)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if out != "" {
		t.Fatalf("no HTML expected on failure, got %q", out)
	}
	for _, want := range []string{"SYN2005", "missing `}`", "block opened here"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestRenderMissingFile(t *testing.T) {
	_, stderr, err := execute(t, "", "render", filepath.Join(t.TempDir(), "nope.baml"))
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(stderr, "failed to load") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestRenderBadFormatFlag(t *testing.T) {
	_, _, err := execute(t, "", "render", "--format", "fancy", "x.baml")
	if err == nil || errors.Is(err, errReported) {
		t.Fatalf("err = %v, want a flag error", err)
	}
}

func TestTokenizeJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.baml")
	writeFile(t, path, "p \"x\"")

	out, _, err := execute(t, "", "tokenize", "--format", "json", path)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	var decoded any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !strings.Contains(out, "DString") {
		t.Fatalf("expected a DString token:\n%s", out)
	}
}

func TestParseTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.baml")
	writeFile(t, path, "ul.menu { li \"a\" }")

	out, _, err := execute(t, "", "parse", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, want := range []string{"Tag ul", "Attr class = \"menu\"", "Tag li"} {
		if !strings.Contains(out, want) {
			t.Errorf("tree missing %q:\n%s", want, out)
		}
	}
}

func TestInitBuildTest(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	out, _, err := execute(t, "", "init", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "baml.toml") {
		t.Fatalf("init output = %q", out)
	}
	t.Chdir(dir)

	_, stderr, err := execute(t, "", "build", "--ui", "off", "--no-cache")
	if err != nil {
		t.Fatalf("build: %v\n%s", err, stderr)
	}
	page, err := os.ReadFile(filepath.Join(dir, "dist", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), "<h1>site</h1>") {
		t.Fatalf("index.html = %q", page)
	}
	if !strings.Contains(stderr, "built 1 pages") {
		t.Fatalf("stderr = %q", stderr)
	}

	writeFile(t, filepath.Join(dir, "test", "a.baml"), "br\n")
	writeFile(t, filepath.Join(dir, "test", "a.html"), "<br />\n")
	out, _, err = execute(t, "", "test", "--no-tidy")
	if err != nil {
		t.Fatalf("test: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1 passed, 0 failed") {
		t.Fatalf("test output = %q", out)
	}

	writeFile(t, filepath.Join(dir, "test", "b.baml"), "hr\n")
	out, _, err = execute(t, "", "test", "--no-tidy")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(out, "[failed] b.baml (missing)") {
		t.Fatalf("test output = %q", out)
	}

	out, _, err = execute(t, "", "config")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if !strings.Contains(out, `name = "site"`) {
		t.Fatalf("config output = %q", out)
	}
}

func TestBuildWithoutManifest(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := execute(t, "", "build", "--ui", "off")
	if err == nil || !strings.Contains(err.Error(), "no baml.toml") {
		t.Fatalf("err = %v", err)
	}
}

func TestBuildReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "ok.baml"), "br\n")
	writeFile(t, filepath.Join(dir, "src", "bad.baml"), "div x=\n")
	t.Chdir(dir)

	_, stderr, err := execute(t, "", "build", "--ui", "off", "--no-cache", "--out", filepath.Join(dir, "out"), "src")
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	for _, want := range []string{"SYN2002", "1 of 2 pages failed"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "ok.html")); err != nil {
		t.Fatalf("ok.html not written: %v", err)
	}
}

func TestBuildDiagnosticsFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "bad.baml"), "div x=\n")
	t.Chdir(dir)
	base := []string{"build", "--ui", "off", "--no-cache", "--out", filepath.Join(dir, "out")}

	_, stderr, err := execute(t, "", append(base, "--diagnostics", "short", "src")...)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	if !strings.Contains(stderr, "error SYN2002 ") || !strings.Contains(stderr, "bad.baml:1:") {
		t.Fatalf("short output = %q", stderr)
	}

	out, _, err := execute(t, "", append(base, "--diagnostics", "json", "src")...)
	if !errors.Is(err, errReported) {
		t.Fatalf("err = %v, want errReported", err)
	}
	var payload struct {
		Count       int `json:"count"`
		Diagnostics []struct {
			Code string `json:"code"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("bad JSON: %v\n%s", err, out)
	}
	if payload.Count != 1 || len(payload.Diagnostics) != 1 || payload.Diagnostics[0].Code != "SYN2002" {
		t.Fatalf("payload = %+v", payload)
	}

	_, _, err = execute(t, "", append(base, "--diagnostics", "xml", "src")...)
	if err == nil || errors.Is(err, errReported) {
		t.Fatalf("err = %v, want a flag error", err)
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := execute(t, "", "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if payload.Tool != "baml" || payload.Version == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestResolveColor(t *testing.T) {
	tests := []struct {
		in      string
		tty     bool
		want    bool
		wantErr bool
	}{
		{"auto", true, true, false},
		{"auto", false, false, false},
		{"on", false, true, false},
		{"always", false, true, false},
		{"off", true, false, false},
		{"never", true, false, false},
		{"rainbow", true, false, true},
	}
	for _, tt := range tests {
		got, err := resolveColor(tt.in, tt.tty)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("resolveColor(%q, %v) = %v, %v", tt.in, tt.tty, got, err)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("maybe"); err == nil {
		t.Error("expected error for invalid mode")
	}
	if shouldUseTUI(uiModeOff, false) || !shouldUseTUI(uiModeOn, true) {
		t.Error("explicit modes must win")
	}
}
