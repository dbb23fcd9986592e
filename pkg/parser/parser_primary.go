package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapql/pkg/core"
	"github.com/leapstack-labs/leapql/pkg/token"
)

// Primary expression parsing.
//
// Grammar:
//
//	primary     → literal | parameter | '(' expr ')' | '(' query_spec ')'
//	            | EXISTS '(' query_spec ')' | treat_expr | ident_expr
//	treat_expr  → TREAT '(' path AS qualified_name ')' ('.' name)*
//	ident_expr  → path [ '(' [DISTINCT] (STAR | expr_list) ')' ]
//	            | path '[' expr ']' ('.' name)*

func (p *Parser) parsePrimary() core.Expr {
	start := p.token.Pos

	switch p.token.Type {
	case token.NUMBER:
		return p.parseNumber()

	case token.STRING:
		lit := &core.Literal{Kind: core.LiteralString, Value: p.token.Literal}
		p.nextToken()
		lit.NodeInfo = p.span(start)
		return lit

	case token.TRUE, token.FALSE:
		lit := &core.Literal{Kind: core.LiteralBoolean, Value: strings.ToLower(p.token.Literal)}
		p.nextToken()
		lit.NodeInfo = p.span(start)
		return lit

	case token.NULL:
		p.nextToken()
		return &core.Literal{NodeInfo: p.span(start), Kind: core.LiteralNull, Value: "null"}

	case token.NAMED_PARAM:
		param := &core.NamedParameter{Name: p.token.Literal}
		p.nextToken()
		param.NodeInfo = p.span(start)
		return param

	case token.POSITIONAL_PARAM:
		n, err := strconv.Atoi(p.token.Literal)
		if err != nil {
			p.addError(fmt.Sprintf(ErrInvalidNumber, p.token.Literal))
			return nil
		}
		p.nextToken()
		return &core.PositionalParameter{NodeInfo: p.span(start), Position: n}

	case token.LPAREN:
		if p.checkPeek(token.SELECT) || p.checkPeek(token.FROM) {
			p.nextToken()
			query := p.parseQuerySpec()
			p.expect(token.RPAREN)
			return &core.SubqueryExpr{NodeInfo: p.span(start), Query: query}
		}
		p.nextToken()
		inner := p.parseExpression()
		p.expect(token.RPAREN)
		return &core.ParenExpr{NodeInfo: p.span(start), Inner: inner}

	case token.EXISTS:
		return p.parseExists()

	case token.TREAT:
		return p.parseTreatExpr()

	case token.IDENT:
		return p.parseIdentifierExpr()

	default:
		p.addError(fmt.Sprintf(ErrExpectedExpression, describe(p.token)))
		return nil
	}
}

// parseNumber classifies a numeric literal by its suffix and shape.
func (p *Parser) parseNumber() core.Expr {
	start := p.token.Pos
	text := p.token.Literal
	p.nextToken()

	lit := &core.Literal{Value: text}
	switch text[len(text)-1] {
	case 'l', 'L':
		lit.Kind = core.LiteralLong
		lit.Value = text[:len(text)-1]
	case 'f', 'F':
		lit.Kind = core.LiteralFloat
		lit.Value = text[:len(text)-1]
	case 'd', 'D':
		lit.Kind = core.LiteralDouble
		lit.Value = text[:len(text)-1]
	default:
		if strings.ContainsAny(text, ".eE") {
			lit.Kind = core.LiteralDouble
		} else {
			lit.Kind = core.LiteralInteger
		}
	}

	if lit.Kind == core.LiteralLong && strings.ContainsAny(lit.Value, ".eE") {
		p.addError(fmt.Sprintf(ErrInvalidNumber, text))
	}
	lit.NodeInfo = p.span(start)
	return lit
}

func (p *Parser) parseExists() *core.ExistsExpr {
	start := p.token.Pos
	p.expect(token.EXISTS)
	p.expect(token.LPAREN)
	query := p.parseQuerySpec()
	p.expect(token.RPAREN)
	return &core.ExistsExpr{NodeInfo: p.span(start), Query: query}
}

func (p *Parser) parseTreatExpr() core.Expr {
	start := p.token.Pos
	p.expect(token.TREAT)
	p.expect(token.LPAREN)

	e := &core.TreatExpr{Path: p.parsePath()}
	p.expect(token.AS)
	e.Subtype = p.parseQualifiedName()
	p.expect(token.RPAREN)
	e.Rest = p.parseRest()
	e.NodeInfo = p.span(start)
	return e
}

// parseRest parses ('.' name)* following a treat or index expression.
func (p *Parser) parseRest() []string {
	var rest []string
	for !p.failed() && p.match(token.DOT) {
		rest = append(rest, p.parseNamePart())
	}
	return rest
}

// parseIdentifierExpr parses a path, a function call or an indexed path.
func (p *Parser) parseIdentifierExpr() core.Expr {
	start := p.token.Pos
	path := p.parsePath()

	switch {
	case p.check(token.LPAREN) && len(path.Parts) == 1:
		return p.parseFuncCall(path.Parts[0], start)

	case p.check(token.LBRACKET):
		p.nextToken()
		e := &core.IndexedPath{Collection: path, Index: p.parseExpression()}
		p.expect(token.RBRACKET)
		e.Rest = p.parseRest()
		e.NodeInfo = p.span(start)
		return e
	}

	return path
}

func (p *Parser) parseFuncCall(name string, start token.Position) core.Expr {
	p.expect(token.LPAREN)
	fn := &core.FuncCall{Name: strings.ToLower(name)}

	switch {
	case p.match(token.STAR):
		fn.Star = true
	case p.check(token.RPAREN):
		// no arguments
	default:
		fn.Distinct = p.match(token.DISTINCT)
		fn.Args = p.parseExpressionList()
	}

	p.expect(token.RPAREN)
	fn.NodeInfo = p.span(start)
	return fn
}
