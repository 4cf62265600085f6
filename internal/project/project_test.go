package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[project]\nname = \"x\"\n")
	deep := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok, err := FindProjectRoot(deep)
	if err != nil || !ok {
		t.Fatalf("FindProjectRoot: ok=%v err=%v", ok, err)
	}
	if got != root {
		t.Fatalf("root = %q, want %q", got, root)
	}
}

func TestLoadFileDefaults(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ManifestName)
	writeFile(t, path, "[project]\nname = \"site\"\n")

	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := Config{
		Project: ProjectConfig{Name: "site"},
		Build:   BuildConfig{Src: "src", Out: "dist", Format: "pretty"},
		Test:    TestConfig{Dir: "test", Tidy: "tidy", TidyArgs: DefaultTidyArgs},
	}
	if diff := cmp.Diff(want, m.Config); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if m.Root != root {
		t.Fatalf("Root = %q, want %q", m.Root, root)
	}
	if got := m.SrcDir(); got != filepath.Join(root, "src") {
		t.Fatalf("SrcDir = %q", got)
	}
	if got := m.OutDir(); got != filepath.Join(root, "dist") {
		t.Fatalf("OutDir = %q", got)
	}
}

func TestLoadFileFull(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ManifestName)
	writeFile(t, path, `[project]
name = "site"

[build]
src = "pages"
out = "/srv/www"
format = "compact"
jobs = 4

[test]
dir = "fixtures"
tidy = "/usr/bin/tidy"
tidy_args = []
`)
	m, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	want := Config{
		Project: ProjectConfig{Name: "site"},
		Build:   BuildConfig{Src: "pages", Out: "/srv/www", Format: "compact", Jobs: 4},
		Test:    TestConfig{Dir: "fixtures", Tidy: "/usr/bin/tidy", TidyArgs: []string{}},
	}
	if diff := cmp.Diff(want, m.Config); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if got := m.OutDir(); got != "/srv/www" {
		t.Fatalf("OutDir = %q", got)
	}
	if got := m.TestDir(); got != filepath.Join(root, "fixtures") {
		t.Fatalf("TestDir = %q", got)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing name", "[build]\nsrc = \"x\"\n", "missing [project].name"},
		{"empty name", "[project]\nname = \"  \"\n", "missing [project].name"},
		{"bad format", "[project]\nname = \"a\"\n[build]\nformat = \"ugly\"\n", "[build].format"},
		{"negative jobs", "[project]\nname = \"a\"\n[build]\njobs = -1\n", "[build].jobs"},
		{"unknown key", "[project]\nname = \"a\"\nversion = 1\n", "unknown key project.version"},
		{"syntax", "[project\n", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadFile(path)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrManifest) {
				t.Fatalf("error %v does not wrap ErrManifest", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "mysite")
	res, err := Init(target)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if res.Name != "mysite" {
		t.Fatalf("Name = %q", res.Name)
	}
	if diff := cmp.Diff([]string{ManifestName, filepath.Join("src", "index.baml")}, res.Created); diff != "" {
		t.Fatalf("created mismatch (-want +got):\n%s", diff)
	}

	m, err := LoadFile(filepath.Join(target, ManifestName))
	if err != nil {
		t.Fatalf("generated manifest does not load: %v", err)
	}
	if diff := cmp.Diff(Default("mysite"), m.Config); diff != "" {
		t.Fatalf("generated manifest differs from Default (-want +got):\n%s", diff)
	}

	if _, err := Init(target); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Fatalf("second Init: %v", err)
	}
}

func TestInitKeepsExistingIndex(t *testing.T) {
	target := t.TempDir()
	index := filepath.Join(target, "src", "index.baml")
	writeFile(t, index, "p \"mine\"\n")

	res, err := Init(target)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if diff := cmp.Diff([]string{filepath.Join("src", "index.baml")}, res.Existed); diff != "" {
		t.Fatalf("existed mismatch (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(index)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "p \"mine\"\n" {
		t.Fatalf("index overwritten: %q", data)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	out, err := Encode(Default("x"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(out, "[project]") || !strings.Contains(out, `name = "x"`) {
		t.Fatalf("unexpected encoding:\n%s", out)
	}
}
