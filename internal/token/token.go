package token

import (
	"strconv"

	"baml/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsExpr reports whether the token can stand for an expression
// (attribute value or inline tag body).
func (t Token) IsExpr() bool {
	switch t.Kind {
	case DString, SString, Expansion:
		return true
	default:
		return false
	}
}

// IsLine reports whether the token is one of the line-oriented kinds
// that swallow the rest of the source line.
func (t Token) IsLine() bool {
	switch t.Kind {
	case HTML, Comment, Param, Code, CodeNested:
		return true
	default:
		return false
	}
}

// IsSeparator reports whether the token terminates a statement.
func (t Token) IsSeparator() bool {
	return t.Kind == Newline || t.Kind == Semicolon
}

// StartsTag reports whether the token can open a tag statement.
func (t Token) StartsTag() bool {
	switch t.Kind {
	case Ident, Dot, Hash:
		return true
	default:
		return false
	}
}

// String renders the token as Kind or Kind("payload").
func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return t.Kind.String() + "(" + strconv.Quote(t.Text) + ")"
}
