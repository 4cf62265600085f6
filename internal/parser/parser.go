package parser

import (
	"baml/internal/ast"
	"baml/internal/diag"
	"baml/internal/source"
	"baml/internal/token"
)

// Parser: состояние парсера на один документ.
// Токены не удаляются: pos индексирует неизменяемый срез.
type Parser struct {
	toks     []token.Token
	pos      int
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// Parse builds a Document from a token slice produced by lexer.Tokenize.
// The first grammar violation aborts the parse and no document is returned.
func Parse(toks []token.Token) (*ast.Document, error) {
	doc, err := New(toks).ParseDocument()
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// New creates a parser over toks. A missing trailing EOF is tolerated.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// ParseDocument parses every remaining statement. Tokens left over at top
// level (a stray `}` or a reserved line token) are reported, never dropped.
func (p *Parser) ParseDocument() (*ast.Document, *diag.Error) {
	start := p.peek().Span
	nodes, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if !p.at(token.EOF) {
		return nil, p.errorf(diag.SynUnexpectedToken, "unexpected token %s", describe(p.peek()))
	}
	return &ast.Document{Nodes: nodes, Span: start.Cover(p.lastSpan)}, nil
}

// parseStatements: newline/';' пропускаются, ident/'.'/'#' открывают тег,
// всё остальное завершает блок (без потребления).
func (p *Parser) parseStatements() ([]ast.Node, *diag.Error) {
	nodes := make([]ast.Node, 0, 4)
	for {
		tok := p.peek()
		switch {
		case tok.IsSeparator():
			p.advance()
		case tok.StartsTag():
			tag, err := p.parseTag()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, tag)
		default:
			return nodes, nil
		}
	}
}

func (p *Parser) parseTag() (*ast.Tag, *diag.Error) {
	lead := p.peek()
	var tag *ast.Tag

	switch lead.Kind {
	case token.Dot, token.Hash:
		tag = ast.NewTag("div", lead.Span)
	case token.Ident:
		p.advance()
		tag = ast.NewTag(lead.Text, lead.Span)
	default:
		return nil, p.errorf(diag.SynUnexpectedToken, "unexpected token %s at start of tag", describe(lead))
	}

	for {
		name, value, ok, err := p.tryParseAttr()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		tag.AddAttr(name, value)
	}

	next := p.peek()
	switch {
	case next.Kind == token.EOF, next.IsSeparator():
		// self-closing; разделитель остаётся вызывающему
	case next.Kind == token.LBrace:
		open := p.advance()
		children, err := p.parseStatements()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBrace, diag.SynUnclosedBrace, "missing `}`"); err != nil {
			return nil, err.WithNote(open.Span, "block opened here")
		}
		tag.SetChildren(children)
	case next.IsExpr():
		p.advance()
		tag.SetChildren([]ast.Node{ast.NewExpr(next)})
	case next.Kind == token.Assign && lead.Kind == token.Ident && tag.Attrs.Len() == 0:
		return nil, p.danglingAttr(lead)
	default:
		return nil, p.errorf(diag.SynInvalidBody, "invalid type: %s cannot follow tag %q", describe(next), tag.Name)
	}

	tag.Span = tag.Span.Cover(p.lastSpan)
	return tag, nil
}

// danglingAttr handles `name=value` in tag position. The value is still
// required, so a missing one reports "expr expected" first.
func (p *Parser) danglingAttr(name token.Token) *diag.Error {
	p.advance()
	if _, err := p.parseExpr(); err != nil {
		return err
	}
	return diag.Errorf(diag.SynUnexpectedToken, name.Span.Cover(p.lastSpan),
		"attribute %q is not attached to a tag", name.Text)
}
