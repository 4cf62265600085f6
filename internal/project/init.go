package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fallback when the target directory has no usable basename
const defaultProjectName = "baml-site"

// InitResult lists what Init wrote, relative to Root.
type InitResult struct {
	Root    string
	Name    string
	Created []string
	Existed []string
}

// Init creates target (if needed), writes baml.toml and src/index.baml.
// An existing manifest is an error; an existing index page is kept.
func Init(target string) (*InitResult, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", target, err)
	}
	if st, err := os.Stat(abs); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err = os.MkdirAll(abs, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %q: %w", abs, err)
		}
	} else if !st.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", abs)
	}

	name := strings.TrimSpace(filepath.Base(abs))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = defaultProjectName
	}

	manifestPath := filepath.Join(abs, ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return nil, fmt.Errorf("project already initialized: %s exists", manifestPath)
	}

	res := &InitResult{Root: abs, Name: name}
	if err := os.WriteFile(manifestPath, []byte(defaultManifest(name)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	res.Created = append(res.Created, ManifestName)

	srcDir := filepath.Join(abs, DefaultSrc)
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %q: %w", srcDir, err)
	}
	indexRel := filepath.Join(DefaultSrc, "index.baml")
	indexPath := filepath.Join(abs, indexRel)
	if _, err := os.Stat(indexPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(indexPath, []byte(defaultIndex(name)), 0o600); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", indexRel, err)
		}
		res.Created = append(res.Created, indexRel)
	} else {
		res.Existed = append(res.Existed, indexRel)
	}
	return res, nil
}

func defaultManifest(name string) string {
	return fmt.Sprintf(`# Baml project manifest
[project]
name = %q

[build]
src = %q
out = %q
format = %q
jobs = 0

[test]
dir = %q
tidy = %q
`, name, DefaultSrc, DefaultOut, DefaultFormat, DefaultTest, DefaultTidy)
}

func defaultIndex(name string) string {
	return fmt.Sprintf(`html {
  head {
    title %q
  }
  body {
    h1 %q
  }
}
`, name, name)
}
