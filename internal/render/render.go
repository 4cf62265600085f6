package render

import (
	"errors"
	"fmt"
	"io"

	"baml/internal/ast"
)

type printer struct {
	w *Writer
}

// Render writes doc to out in the layout selected by opt.Mode.
func Render(out io.Writer, doc *ast.Document, opt Options) error {
	if doc == nil {
		return errors.New("render: nil document")
	}
	if opt.Mode == ModeCompact {
		return Lower(doc).Render(out)
	}
	buf, err := Pretty(doc, opt)
	if err != nil {
		return err
	}
	if _, err := out.Write(buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Pretty renders doc into a fresh buffer, one tag per line.
func Pretty(doc *ast.Document, opt Options) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("render: nil document")
	}
	pr := printer{w: NewWriter(opt, 64*len(doc.Nodes))}
	for _, n := range doc.Nodes {
		if err := pr.printNode(n); err != nil {
			return nil, err
		}
	}
	return pr.w.Bytes(), nil
}

// String is a convenience wrapper for tests and the CLI.
func String(doc *ast.Document, opt Options) (string, error) {
	buf, err := Pretty(doc, opt)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func (p *printer) printNode(n ast.Node) error {
	switch n := n.(type) {
	case *ast.Tag:
		return p.printTag(n)
	case *ast.Expr:
		p.w.WriteString(n.Text)
		p.w.Newline()
		return nil
	default:
		return fmt.Errorf("render: unexpected node %T", n)
	}
}

func (p *printer) printTag(t *ast.Tag) error {
	if t.Name == "" {
		return fmt.Errorf("render: tag without name at %s", t.Span)
	}
	p.w.WriteByte('<')
	p.w.WriteString(t.Name)
	p.printAttrs(t.Attrs.All())

	if t.SelfClosing {
		p.w.WriteString(" />")
		p.w.Newline()
		return nil
	}
	p.w.WriteByte('>')

	// inline body: `p "text"` печатается в одну строку
	if e, ok := t.InlineText(); ok {
		p.w.WriteString(e.Text)
		p.closeTag(t.Name)
		return nil
	}

	p.w.Newline()
	p.w.IndentPush()
	for _, child := range t.Children {
		if err := p.printNode(child); err != nil {
			return err
		}
	}
	p.w.IndentPop()
	p.closeTag(t.Name)
	return nil
}

func (p *printer) closeTag(name string) {
	p.w.WriteString("</")
	p.w.WriteString(name)
	p.w.WriteByte('>')
	p.w.Newline()
}

func (p *printer) printAttrs(attrs []ast.Attr) {
	for _, a := range attrs {
		p.w.WriteByte(' ')
		p.w.WriteString(a.Name)
		p.w.WriteString(`="`)
		p.w.WriteString(a.Joined())
		p.w.WriteByte('"')
	}
}
