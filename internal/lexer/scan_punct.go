package lexer

import (
	"baml/internal/diag"
	"baml/internal/token"
)

func (lx *Lexer) scanPunct() (token.Token, error) {
	start := lx.cursor.Mark()
	var kind token.Kind
	switch lx.cursor.Peek() {
	case '\n':
		kind = token.Newline
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case ';':
		kind = token.Semicolon
	case '.':
		kind = token.Dot
	case '#':
		kind = token.Hash
	case '=':
		kind = token.Assign
	default:
		r, _ := lx.peekRune()
		lx.bumpRune()
		return token.Token{}, lx.errLex(diag.LexUnknownChar, lx.cursor.SpanFrom(start), "invalid character: %q", r)
	}
	lx.cursor.Bump()
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start)}, nil
}
