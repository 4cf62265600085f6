package ast

import (
	"strings"

	"baml/internal/source"
)

// Tag is an element. SelfClosing distinguishes "no children list" from an
// empty one: `br` is self-closing, `div { }` has an empty child list.
type Tag struct {
	Name        string
	Attrs       Attrs
	Children    []Node
	SelfClosing bool
	Span        source.Span
}

// NewTag creates a self-closing tag; SetChildren gives it a body.
func NewTag(name string, sp source.Span) *Tag {
	return &Tag{Name: name, SelfClosing: true, Span: sp}
}

func (t *Tag) Kind() NodeKind   { return NodeTag }
func (t *Tag) Pos() source.Span { return t.Span }
func (t *Tag) node()            {}

// AddAttr appends value to attribute name, keeping first-seen key order.
func (t *Tag) AddAttr(name string, value AttrValue) {
	t.Attrs.Add(name, value)
}

// SetChildren attaches a (possibly empty) child list.
func (t *Tag) SetChildren(children []Node) {
	if children == nil {
		children = []Node{}
	}
	t.Children = children
	t.SelfClosing = false
}

// InlineText returns the single Expr child of an inline body (`p "text"`).
func (t *Tag) InlineText() (*Expr, bool) {
	if t.SelfClosing || len(t.Children) != 1 {
		return nil, false
	}
	e, ok := t.Children[0].(*Expr)
	return e, ok
}

// Attr is one attribute with every value recorded for it, in order.
type Attr struct {
	Name   string
	Values []AttrValue
}

// Joined returns the values space-joined, the way they are rendered.
func (a Attr) Joined() string {
	parts := make([]string, len(a.Values))
	for i, v := range a.Values {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}

// Attrs is an insertion-ordered multimap from attribute name to values.
// The zero value is ready to use.
type Attrs struct {
	list  []Attr
	index map[string]int
}

// Add appends value under name. A new name goes to the end; a repeated
// name appends to its existing value list without moving it.
func (a *Attrs) Add(name string, value AttrValue) {
	if a.index == nil {
		a.index = make(map[string]int)
	}
	if i, ok := a.index[name]; ok {
		a.list[i].Values = append(a.list[i].Values, value)
		return
	}
	a.index[name] = len(a.list)
	a.list = append(a.list, Attr{Name: name, Values: []AttrValue{value}})
}

// Get returns the values recorded for name.
func (a *Attrs) Get(name string) ([]AttrValue, bool) {
	i, ok := a.index[name]
	if !ok {
		return nil, false
	}
	return a.list[i].Values, true
}

// Len returns the number of distinct attribute names.
func (a *Attrs) Len() int {
	return len(a.list)
}

// All returns the attributes in insertion order.
// READONLY: the slice aliases internal storage.
func (a *Attrs) All() []Attr {
	return a.list
}
