package lexer

import (
	"baml/internal/token"
)

// scanLine забирает остаток строки в один токен (html, :param, \comment, %code, !code).
// Завершающий '\n' съедается и Newline-токен не выдаётся.
// keepSigil оставляет стартовый символ в Text (нужно для '<').
func (lx *Lexer) scanLine(kind token.Kind, keepSigil bool) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // sigil
	textStart := lx.cursor.Off
	if keepSigil {
		textStart = uint32(start)
	}
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[textStart:sp.End])
	lx.cursor.Eat('\n')
	return token.Token{Kind: kind, Span: sp, Text: text}
}
