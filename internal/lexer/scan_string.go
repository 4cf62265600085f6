package lexer

import (
	"strings"

	"baml/internal/diag"
	"baml/internal/token"
)

// scanString сканирует строку в кавычках quote.
// Единственный допустимый escape: \<quote>; перевод строки внутри запрещён.
// Text токена: содержимое без кавычек и с раскрытыми escape.
func (lx *Lexer) scanString(quote byte, kind token.Kind) (token.Token, error) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote

	var sb strings.Builder
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: sb.String()}, nil
		case '\\':
			esc := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				return token.Token{}, lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string literal")
			}
			if !lx.cursor.Eat(quote) {
				lx.cursor.Bump()
				return token.Token{}, lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(esc), "only escaping of %c allowed", quote)
			}
			sb.WriteByte(quote)
		case '\n':
			return token.Token{}, lx.errLex(diag.LexMultilineString, lx.cursor.SpanFrom(start), "multi-line string not allowed")
		default:
			lx.cursor.Bump()
			sb.WriteByte(b)
		}
	}
	return token.Token{}, lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string literal")
}

// scanExpansion сканирует ${...}. Вложенные скобки не поддерживаются:
// первая '}' закрывает выражение. Text: содержимое между "${" и "}".
func (lx *Lexer) scanExpansion() (token.Token, error) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '$'
	if !lx.cursor.Eat('{') {
		return token.Token{}, lx.errLex(diag.LexExpansionNoBrace, lx.cursor.SpanFrom(start), "missing `{` after `$`")
	}
	body := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '}' {
			text := string(lx.file.Content[body:lx.cursor.Off])
			lx.cursor.Bump()
			return token.Token{Kind: token.Expansion, Span: lx.cursor.SpanFrom(start), Text: text}, nil
		}
		lx.cursor.Bump()
	}
	return token.Token{}, lx.errLex(diag.LexUnterminatedExpand, lx.cursor.SpanFrom(start), "unterminated expansion")
}
