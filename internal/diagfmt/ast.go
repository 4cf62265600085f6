package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"baml/internal/ast"
	"baml/internal/source"
)

type ASTNodeOutput struct {
	Type        string          `json:"type"`
	Name        string          `json:"name,omitempty"`
	Text        string          `json:"text,omitempty"`
	Source      string          `json:"source,omitempty"`
	Span        source.Span     `json:"span"`
	Attrs       []ASTAttrOutput `json:"attrs,omitempty"`
	SelfClosing bool            `json:"self_closing,omitempty"`
	Children    []ASTNodeOutput `json:"children,omitempty"`
}

type ASTAttrOutput struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type treeNode struct {
	label    string
	children []*treeNode
}

// FormatASTPretty печатает дерево документа с псевдографикой ├─ └─.
func FormatASTPretty(w io.Writer, doc *ast.Document, fs *source.FileSet) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	header := "Document"
	if fs != nil && len(doc.Nodes) > 0 {
		if f := fs.Get(doc.Span.File); f != nil {
			header = f.Path
		}
	}
	root := &treeNode{label: fmt.Sprintf("%s (span: %s)", header, formatSpan(doc.Span, fs))}
	for _, n := range doc.Nodes {
		root.children = append(root.children, buildTreeNode(n, fs))
	}
	var sb strings.Builder
	sb.WriteString(root.label)
	sb.WriteByte('\n')
	writeTreeChildren(&sb, root.children, "")
	_, err := io.WriteString(w, sb.String())
	return err
}

func buildTreeNode(n ast.Node, fs *source.FileSet) *treeNode {
	switch n := n.(type) {
	case *ast.Tag:
		label := fmt.Sprintf("Tag %s (span: %s)", n.Name, formatSpan(n.Span, fs))
		if n.SelfClosing {
			label += " self-closing"
		}
		node := &treeNode{label: label}
		for _, a := range n.Attrs.All() {
			parts := make([]string, len(a.Values))
			for i, v := range a.Values {
				if v.IsExpr() {
					parts[i] = fmt.Sprintf("expr %q", v.String())
				} else {
					parts[i] = fmt.Sprintf("%q", v.String())
				}
			}
			node.children = append(node.children, &treeNode{label: fmt.Sprintf("Attr %s = %s", a.Name, strings.Join(parts, ", "))})
		}
		for _, c := range n.Children {
			node.children = append(node.children, buildTreeNode(c, fs))
		}
		return node
	case *ast.Expr:
		return &treeNode{label: fmt.Sprintf("Expr %s %q (span: %s)", n.Source, n.Text, formatSpan(n.Span, fs))}
	default:
		return &treeNode{label: fmt.Sprintf("<unknown %T>", n)}
	}
}

func writeTreeChildren(sb *strings.Builder, children []*treeNode, prefix string) {
	for i, child := range children {
		isLast := i == len(children)-1
		branch, next := "├─ ", "│  "
		if isLast {
			branch, next = "└─ ", "   "
		}
		sb.WriteString(prefix)
		sb.WriteString(branch)
		sb.WriteString(child.label)
		sb.WriteByte('\n')
		writeTreeChildren(sb, child.children, prefix+next)
	}
}

// FormatASTJSON пишет документ как JSON.
func FormatASTJSON(w io.Writer, doc *ast.Document) error {
	if doc == nil {
		return fmt.Errorf("nil document")
	}
	out := ASTNodeOutput{Type: "Document", Span: doc.Span}
	for _, n := range doc.Nodes {
		out.Children = append(out.Children, nodeJSON(n))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func nodeJSON(n ast.Node) ASTNodeOutput {
	switch n := n.(type) {
	case *ast.Tag:
		out := ASTNodeOutput{Type: "Tag", Name: n.Name, Span: n.Span, SelfClosing: n.SelfClosing}
		for _, a := range n.Attrs.All() {
			vals := make([]string, len(a.Values))
			for i, v := range a.Values {
				vals[i] = v.String()
			}
			out.Attrs = append(out.Attrs, ASTAttrOutput{Name: a.Name, Values: vals})
		}
		for _, c := range n.Children {
			out.Children = append(out.Children, nodeJSON(c))
		}
		return out
	case *ast.Expr:
		return ASTNodeOutput{Type: "Expr", Text: n.Text, Source: n.Source.String(), Span: n.Span}
	default:
		return ASTNodeOutput{Type: fmt.Sprintf("%T", n)}
	}
}
