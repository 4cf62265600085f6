package render

import (
	"io"

	g "maragu.dev/gomponents"

	"baml/internal/ast"
)

// rawAttr renders ` name="value"` without escaping. gomponents' own Attr
// escapes values, which the pretty printer never does.
type rawAttr struct {
	name  string
	value string
}

func (a rawAttr) Render(w io.Writer) error {
	_, err := io.WriteString(w, " "+a.name+`="`+a.value+`"`)
	return err
}

func (a rawAttr) Type() g.NodeType {
	return g.AttributeType
}

// Lower converts doc into a gomponents node tree. Text is emitted raw.
// Void elements (br, img, ...) print as `<br>`, other childless tags as
// `<div></div>`, following gomponents' HTML5 rules.
func Lower(doc *ast.Document) g.Node {
	nodes := make([]g.Node, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		nodes = append(nodes, lowerNode(n))
	}
	return g.Group(nodes)
}

func lowerNode(n ast.Node) g.Node {
	switch n := n.(type) {
	case *ast.Tag:
		return lowerTag(n)
	case *ast.Expr:
		return g.Raw(n.Text)
	default:
		return nil
	}
}

func lowerTag(t *ast.Tag) g.Node {
	children := make([]g.Node, 0, t.Attrs.Len()+len(t.Children))
	for _, a := range t.Attrs.All() {
		children = append(children, rawAttr{name: a.Name, value: a.Joined()})
	}
	for _, c := range t.Children {
		children = append(children, lowerNode(c))
	}
	return g.El(t.Name, children...)
}
