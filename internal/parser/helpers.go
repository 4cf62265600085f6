package parser

import (
	"fmt"
	"strconv"

	"baml/internal/diag"
	"baml/internal/source"
	"baml/internal/token"
)

// peek: текущий токен без потребления. За концом среза возвращает EOF.
func (p *Parser) peek() token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return token.Token{Kind: token.EOF, Span: p.lastSpan.At()}
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind == token.EOF {
		return tok
	}
	p.pos++
	p.lastSpan = tok.Span
	return tok
}

// expect: ожидаем конкретный токен, иначе ошибка с кодом code.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, *diag.Error) {
	if p.at(k) {
		return p.advance(), nil
	}
	return token.Token{Kind: token.Invalid}, p.errorf(code, "%s, got %s", msg, describe(p.peek()))
}

// getDiagnosticSpan: для EOF указываем на позицию сразу после последнего токена
func (p *Parser) getDiagnosticSpan() source.Span {
	tok := p.peek()
	if tok.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.At()
	}
	return tok.Span
}

func (p *Parser) errorf(code diag.Code, format string, args ...any) *diag.Error {
	return diag.Errorf(code, p.getDiagnosticSpan(), format, args...)
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.Ident:
		return "identifier " + strconv.Quote(tok.Text)
	case token.DString, token.SString, token.Expansion:
		return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
	default:
		if tok.IsLine() {
			// строки <..>, :, \, %, ! лексер понимает, но грамматика их не использует
			return fmt.Sprintf("reserved %s line", tok.Kind)
		}
		return tok.Kind.String()
	}
}
