package ast

import (
	"baml/internal/source"
	"baml/internal/token"
)

// Expr wraps the payload of a string, single-quoted string or ${...} token.
// The text is opaque: it is never parsed or escaped.
type Expr struct {
	Source token.Kind
	Text   string
	Span   source.Span
}

// NewExpr builds an Expr from an expression token.
func NewExpr(tok token.Token) *Expr {
	return &Expr{Source: tok.Kind, Text: tok.Text, Span: tok.Span}
}

func (e *Expr) Kind() NodeKind   { return NodeExpr }
func (e *Expr) Pos() source.Span { return e.Span }
func (e *Expr) String() string   { return e.Text }
func (e *Expr) node()            {}

// AttrValue is either a literal string (from .class / #id shorthands) or an Expr.
type AttrValue struct {
	lit  string
	expr *Expr
}

// LitValue builds a literal attribute value.
func LitValue(s string) AttrValue {
	return AttrValue{lit: s}
}

// ExprValue builds an expression attribute value.
func ExprValue(e *Expr) AttrValue {
	return AttrValue{expr: e}
}

// Expr returns the wrapped expression, or nil for literal values.
func (v AttrValue) Expr() *Expr {
	return v.expr
}

// IsExpr reports whether the value came from an expression.
func (v AttrValue) IsExpr() bool {
	return v.expr != nil
}

// String returns the rendered form: literals as-is, expressions as their text.
func (v AttrValue) String() string {
	if v.expr != nil {
		return v.expr.Text
	}
	return v.lit
}
