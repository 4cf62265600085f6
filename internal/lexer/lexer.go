package lexer

import (
	"baml/internal/diag"
	"baml/internal/source"
	"baml/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
}

func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
	}
}

// Tokenize scans the whole file eagerly. The returned slice always ends with
// a single EOF token. The first lexical error aborts the scan and no tokens
// are returned.
func Tokenize(file *source.File) ([]token.Token, error) {
	lx := New(file)
	// грубая оценка: один токен на ~4 байта
	tokens := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens, nil
		}
	}
}

// Next возвращает следующий значимый токен.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() (token.Token, error) {
	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}, nil
	}

	ch := lx.cursor.Peek()
	switch {
	case isLetter(ch):
		return lx.scanIdent(), nil
	case ch == '"':
		return lx.scanString('"', token.DString)
	case ch == '\'':
		return lx.scanString('\'', token.SString)
	case ch == '$':
		return lx.scanExpansion()
	case ch == '<':
		return lx.scanLine(token.HTML, true), nil
	case ch == ':':
		return lx.scanLine(token.Param, false), nil
	case ch == '\\':
		return lx.scanLine(token.Comment, false), nil
	case ch == '%':
		return lx.scanLine(token.CodeNested, false), nil
	case ch == '!':
		return lx.scanLine(token.Code, false), nil
	default:
		return lx.scanPunct()
	}
}

// EmptySpan returns an empty span at the current cursor position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, format string, args ...any) error {
	return diag.Errorf(code, sp, format, args...)
}
