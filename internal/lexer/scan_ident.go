package lexer

import (
	"baml/internal/token"
)

// scanIdent сканирует [A-Za-z][A-Za-z0-9_-]*.
// Цифры, '_' и '-' допустимы только не в начале: это обеспечивает диспетчер в Next.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Ident, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
