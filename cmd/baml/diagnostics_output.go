package main

import (
	"fmt"
	"strings"

	"baml/internal/diag"
	"baml/internal/diagfmt"
	"baml/internal/source"
)

// printDiagnostics собирает ошибки страниц в Bag и печатает их в выбранном формате.
// pretty и short идут в stderr, json в stdout.
func printDiagnostics(s *session, format string, maxDiags int, diags []diag.Diagnostic, fs *source.FileSet) error {
	bag := diag.NewBag(maxDiags)
	for _, d := range diags {
		if !bag.Add(d) {
			break
		}
	}
	bag.Sort()

	switch strings.ToLower(format) {
	case "pretty":
		diagfmt.Pretty(s.stderr, bag, fs, s.prettyOpts())
	case "short":
		if out := diag.FormatShortDiagnostics(bag.Items(), fs, true); out != "" {
			fmt.Fprintln(s.stderr, out)
		}
	case "json":
		opts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			BaseDir:          s.prettyOpts().BaseDir,
			IncludeNotes:     true,
		}
		if err := diagfmt.JSON(s.stdout, bag.Items(), fs, opts); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown diagnostics format: %s", format)
	}
	if dropped := len(diags) - bag.Len(); dropped > 0 {
		s.infof("%d more diagnostics not shown\n", dropped)
	}
	return nil
}

func readDiagnosticsFormat(value string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "pretty", "short", "json":
		return v, nil
	default:
		return "", fmt.Errorf("invalid diagnostics format %q (expected pretty|short|json)", value)
	}
}
