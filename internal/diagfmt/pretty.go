package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"baml/internal/diag"
	"baml/internal/source"
)

type palette struct {
	err  *color.Color
	warn *color.Color
	info *color.Color
	code *color.Color
	path *color.Color
	mark *color.Color
	note *color.Color
	gut  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan, color.Bold),
		code: color.New(color.Bold),
		path: color.New(color.FgWhite, color.Bold),
		mark: color.New(color.FgRed),
		note: color.New(color.FgBlue, color.Bold),
		gut:  color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.mark, p.note, p.gut} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	PrettyDiagnostics(w, bag.Items(), fs, opts)
}

// PrettyDiagnostics is Pretty over a plain slice.
func PrettyDiagnostics(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range diags {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
}

// PrettyError prints the diagnostic carried by err, or err's text when it
// carries none. Returns false if err is nil.
func PrettyError(w io.Writer, err error, fs *source.FileSet, opts PrettyOpts) bool {
	if err == nil {
		return false
	}
	if d, ok := diag.AsDiagnostic(err); ok {
		PrettyDiagnostics(w, []diag.Diagnostic{d}, fs, opts)
		return true
	}
	pal := newPalette(opts.Color)
	fmt.Fprintf(w, "%s %s\n", pal.err.Sprint("ERROR"), err.Error())
	return true
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	if d.Code.IsIO() {
		// путь уже в сообщении, исходного текста нет
		fmt.Fprintf(w, "%s %s: %s\n", pal.severity(d.Severity).Sprint(d.Severity.String()), pal.code.Sprint(d.Code.ID()), d.Message)
		return
	}
	start, _ := resolve(fs, d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", filePath(fs, d.Primary.File, opts.PathMode, opts.BaseDir), start.Line, start.Col),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message,
	)
	writeSnippet(w, fs, d.Primary, int(opts.Context), pal)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		ns, _ := resolve(fs, n.Span)
		fmt.Fprintf(w, "  %s %s: %s\n",
			pal.note.Sprint("note:"),
			pal.path.Sprintf("%s:%d:%d", filePath(fs, n.Span.File, opts.PathMode, opts.BaseDir), ns.Line, ns.Col),
			n.Msg,
		)
		writeSnippet(w, fs, n.Span, 0, pal)
	}
}

func resolve(fs *source.FileSet, sp source.Span) (source.LineCol, source.LineCol) {
	if fs == nil {
		return source.LineCol{Line: 1, Col: 1}, source.LineCol{Line: 1, Col: 1}
	}
	return fs.Resolve(sp)
}

// writeSnippet печатает строку источника и маркер ^~~~ под span.
// Ширина считается по runewidth, табы разворачиваются в один пробел.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, context int, pal palette) {
	if fs == nil {
		return
	}
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	gutterWidth := len(fmt.Sprint(start.Line))

	from := start.Line
	for context > 0 && from > 1 {
		from--
		context--
	}
	for ln := from; ln <= start.Line; ln++ {
		text := strings.ReplaceAll(f.GetLine(ln), "\t", " ")
		fmt.Fprintf(w, "%s %s\n", pal.gut.Sprintf("%*d |", gutterWidth, ln), text)
	}

	line := strings.ReplaceAll(f.GetLine(start.Line), "\t", " ")
	startCol := min(int(start.Col)-1, len(line))
	endCol := len(line)
	if end.Line == start.Line {
		endCol = min(int(end.Col)-1, len(line))
	}
	pad := runewidth.StringWidth(line[:startCol])
	width := 1
	if endCol > startCol {
		width = max(runewidth.StringWidth(line[startCol:endCol]), 1)
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", pal.gut.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), pal.mark.Sprint(marker))
}
