package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"baml/internal/ast"
	"baml/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed document:
// 1) every node span is non-empty, points at sf and lies within the content
// 2) a child span lies inside its parent tag span
// 3) sibling spans are ordered and do not overlap
// 4) doc.Span covers the union of top-level spans (if any nodes exist)
func CheckSpanInvariants(doc *ast.Document, sf *source.File) error {
	if doc == nil || sf == nil {
		return fmt.Errorf("nil document or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	if err := checkSiblings(doc.Nodes, source.Span{File: sf.ID, Start: 0, End: lenContent}, sf.ID); err != nil {
		return err
	}

	if len(doc.Nodes) == 0 {
		return nil
	}
	union := doc.Nodes[0].Pos()
	for _, n := range doc.Nodes[1:] {
		union = union.Cover(n.Pos())
	}
	if union.Start < doc.Span.Start || union.End > doc.Span.End {
		return fmt.Errorf("document span %v does not cover union of nodes %v", doc.Span, union)
	}
	return nil
}

func checkSiblings(nodes []ast.Node, parent source.Span, file source.FileID) error {
	var prevEnd uint32
	for i, n := range nodes {
		if n == nil {
			return fmt.Errorf("nil node at index %d", i)
		}
		sp := n.Pos()
		if sp.End <= sp.Start {
			return fmt.Errorf("empty %s span: %v", n.Kind(), sp)
		}
		if sp.File != file {
			return fmt.Errorf("%s span file mismatch: got=%d want=%d", n.Kind(), sp.File, file)
		}
		if sp.Start < parent.Start || sp.End > parent.End {
			return fmt.Errorf("%s span %v is outside parent span %v", n.Kind(), sp, parent)
		}
		if i > 0 && sp.Start < prevEnd {
			return fmt.Errorf("%s span %v overlaps previous sibling ending at %d", n.Kind(), sp, prevEnd)
		}
		prevEnd = sp.End

		if tag, ok := n.(*ast.Tag); ok {
			if tag.SelfClosing && len(tag.Children) > 0 {
				return fmt.Errorf("self-closing tag %q has %d children", tag.Name, len(tag.Children))
			}
			if err := checkSiblings(tag.Children, sp, file); err != nil {
				return fmt.Errorf("in <%s>: %w", tag.Name, err)
			}
		}
	}
	return nil
}
