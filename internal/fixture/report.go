package fixture

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"baml/internal/diagfmt"
)

// ReportOpts configure Report.
type ReportOpts struct {
	Color   bool
	Verbose bool // print diagnostics and diffs for failures
	Pretty  diagfmt.PrettyOpts
}

// Report prints one "[ok]"/"[failed]" line per fixture and a summary line.
func Report(w io.Writer, sum *Summary, opts ReportOpts) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed, color.Bold)
	dim := color.New(color.Faint)
	for _, c := range []*color.Color{ok, bad, dim} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for i := range sum.Results {
		r := &sum.Results[i]
		if r.Status == StatusPass {
			fmt.Fprintf(w, "%s %s\n", ok.Sprint("[ok]    "), r.Name)
			continue
		}
		fmt.Fprintf(w, "%s %s %s\n", bad.Sprint("[failed]"), r.Name, dim.Sprintf("(%s)", r.Status))
		if !opts.Verbose {
			continue
		}
		if r.Err != nil {
			var sb strings.Builder
			diagfmt.PrettyError(&sb, r.Err, r.FileSet, opts.Pretty)
			writeIndented(w, sb.String())
		}
		if d := r.Diff(); d != "" {
			writeIndented(w, d)
		}
	}

	line := fmt.Sprintf("%d passed, %d failed", sum.Passed, sum.Failed)
	if sum.OK() {
		fmt.Fprintln(w, ok.Sprint(line))
	} else {
		fmt.Fprintln(w, bad.Sprint(line))
	}
}

func writeIndented(w io.Writer, text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(w, "    %s\n", line)
	}
}

func displayName(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
