package parser

import (
	"baml/internal/ast"
	"baml/internal/diag"
	"baml/internal/token"
)

// tryParseAttr: неблокирующая проба. ok=false, если следующий токен
// не начинает атрибут ('.', '#', ident '=').
func (p *Parser) tryParseAttr() (name string, value ast.AttrValue, ok bool, err *diag.Error) {
	switch p.peek().Kind {
	case token.Dot:
		class, err := p.parseCSSClass()
		if err != nil {
			return "", ast.AttrValue{}, false, err
		}
		return "class", ast.LitValue(class), true, nil
	case token.Hash:
		id, err := p.parseElemID()
		if err != nil {
			return "", ast.AttrValue{}, false, err
		}
		return "id", ast.LitValue(id), true, nil
	case token.Ident:
		ident := p.advance()
		if _, err := p.expect(token.Assign, diag.SynExpectAssign, "= expected after attribute name"); err != nil {
			return "", ast.AttrValue{}, false, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return "", ast.AttrValue{}, false, err
		}
		return ident.Text, ast.ExprValue(expr), true, nil
	default:
		return "", ast.AttrValue{}, false, nil
	}
}

func (p *Parser) parseCSSClass() (string, *diag.Error) {
	return p.parseShorthand(token.Dot, ".class")
}

func (p *Parser) parseElemID() (string, *diag.Error) {
	return p.parseShorthand(token.Hash, "#id")
}

func (p *Parser) parseShorthand(sigil token.Kind, what string) (string, *diag.Error) {
	if _, err := p.expect(sigil, diag.InternalInvariant, what+" shorthand expected"); err != nil {
		return "", err
	}
	ident, err := p.expect(token.Ident, diag.SynExpectIdent, "identifier expected after "+what[:1])
	if err != nil {
		return "", err
	}
	return ident.Text, nil
}

// parseExpr: "строка", 'строка' или ${...}; иначе "expr expected".
func (p *Parser) parseExpr() (*ast.Expr, *diag.Error) {
	tok := p.peek()
	if !tok.IsExpr() {
		return nil, p.errorf(diag.SynExpectExpr, "expr expected, got %s", describe(tok))
	}
	p.advance()
	return ast.NewExpr(tok), nil
}
