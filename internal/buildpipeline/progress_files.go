package buildpipeline

import (
	"path/filepath"
	"strings"

	"baml/internal/driver"
)

// Plan lists the sources Build will render, as display names relative to
// srcDir. The UI seeds its file list from it before Build starts.
func Plan(srcDir string) ([]string, error) {
	files, err := driver.ListSources(srcDir)
	if err != nil {
		return nil, err
	}
	return normalizeProgressFiles(files, srcDir), nil
}

func normalizeProgressFiles(files []string, baseDir string) []string {
	if len(files) == 0 {
		return files
	}
	normalized := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for _, file := range files {
		if file == "" {
			continue
		}
		name := displayName(file, baseDir)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		normalized = append(normalized, name)
	}
	// ListSources уже отсортирован, порядок сохраняем
	return normalized
}

// displayName maps a path found under baseDir to the slash-separated name
// used in events. Paths outside baseDir are kept as they are.
func displayName(file, baseDir string) string {
	path := filepath.Clean(filepath.FromSlash(file))
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if rel, err := filepath.Rel(filepath.Clean(base), path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}

// outputPath maps a display name like "blog/post.baml" to outDir/blog/post.html.
func outputPath(outDir, name string) string {
	rel := strings.TrimSuffix(filepath.FromSlash(name), driver.SourceExt) + ".html"
	return filepath.Join(outDir, rel)
}
