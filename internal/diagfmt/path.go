package diagfmt

import (
	"fmt"
	"path/filepath"
	"strings"

	"baml/internal/source"
)

func formatPath(path string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative, PathModeAuto:
		if base == "" || !filepath.IsAbs(path) {
			return path
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return path
		}
		// auto: не выходим за пределы base
		if mode == PathModeAuto && strings.HasPrefix(rel, "..") {
			return path
		}
		return filepath.ToSlash(rel)
	default:
		return path
	}
}

func filePath(fs *source.FileSet, id source.FileID, mode PathMode, base string) string {
	if fs == nil {
		return fmt.Sprintf("file#%d", id)
	}
	f := fs.Get(id)
	if f == nil {
		return fmt.Sprintf("file#%d", id)
	}
	return formatPath(f.Path, mode, base)
}

func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}
