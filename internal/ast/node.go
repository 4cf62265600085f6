package ast

import "baml/internal/source"

// NodeKind discriminates the closed set of document nodes.
type NodeKind uint8

const (
	NodeTag NodeKind = iota + 1
	NodeExpr
)

func (k NodeKind) String() string {
	switch k {
	case NodeTag:
		return "Tag"
	case NodeExpr:
		return "Expr"
	default:
		return "Unknown"
	}
}

// Node is either *Tag or *Expr. The unexported marker keeps the set closed,
// so consumers switch over the two concrete types exhaustively.
type Node interface {
	Kind() NodeKind
	Pos() source.Span
	node()
}

// Document is the parse result: top-level nodes in source order.
type Document struct {
	Nodes []Node
	Span  source.Span
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the current node.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	if tag, ok := n.(*Tag); ok {
		for _, child := range tag.Children {
			walk(child, depth+1, fn)
		}
	}
}

// WalkDocument walks every top-level node of doc.
func WalkDocument(doc *Document, fn func(n Node, depth int) bool) {
	if doc == nil {
		return
	}
	for _, n := range doc.Nodes {
		Walk(n, fn)
	}
}
