package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapql/pkg/core"
	"github.com/leapstack-labs/leapql/pkg/token"
)

// Expression precedence parsing using precedence climbing.
//
//	precedenceOr         = 1
//	precedenceAnd        = 2
//	precedenceNot        = 3
//	precedenceComparison = 4  (=, !=, <, >, <=, >=, IS, IN, BETWEEN, LIKE, MEMBER OF)
//	precedenceAddition   = 5  (+, -, ||)
//	precedenceMultiply   = 6  (*, /, %)
//	precedenceUnary      = 7  (-, +)
const (
	precedenceNone = iota
	precedenceOr
	precedenceAnd
	precedenceNot
	precedenceComparison
	precedenceAddition
	precedenceMultiply
	precedenceUnary
)

// parseExpression parses an expression or predicate.
func (p *Parser) parseExpression() core.Expr {
	return p.parseExpressionWithPrecedence(precedenceNone + 1)
}

func (p *Parser) parseExpressionWithPrecedence(minPrecedence int) core.Expr {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for !p.failed() {
		prec := p.infixPrecedence()
		if prec < minPrecedence {
			break
		}
		left = p.parseInfixExpr(left, prec)
		if left == nil {
			break
		}
	}

	return left
}

// parsePrefixExpr parses prefix expressions (NOT, signs and primaries).
func (p *Parser) parsePrefixExpr() core.Expr {
	start := p.token.Pos
	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		if p.check(token.EXISTS) {
			e := p.parseExists()
			e.Not = true
			e.NodeInfo = p.span(start)
			return e
		}
		operand := p.parseExpressionWithPrecedence(precedenceNot)
		return &core.NotExpr{NodeInfo: p.span(start), Operand: operand}

	case token.MINUS, token.PLUS:
		op := p.token.Type
		p.nextToken()
		operand := p.parseExpressionWithPrecedence(precedenceUnary)
		return &core.UnaryExpr{NodeInfo: p.span(start), Op: op, Operand: operand}

	default:
		return p.parsePrimary()
	}
}

// infixPrecedence returns the precedence of the current token as an infix
// operator, or precedenceNone.
func (p *Parser) infixPrecedence() int {
	switch p.token.Type {
	case token.OR:
		return precedenceOr
	case token.AND:
		return precedenceAnd
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE,
		token.IS, token.IN, token.BETWEEN, token.LIKE, token.MEMBER:
		return precedenceComparison
	case token.NOT:
		// NOT IN, NOT LIKE, NOT BETWEEN, NOT MEMBER
		switch p.peek.Type {
		case token.IN, token.LIKE, token.BETWEEN, token.MEMBER:
			return precedenceComparison
		}
		return precedenceNone
	case token.PLUS, token.MINUS, token.DPIPE:
		return precedenceAddition
	case token.STAR, token.SLASH, token.PERCENT:
		return precedenceMultiply
	default:
		return precedenceNone
	}
}

// parseInfixExpr parses an infix expression given the left operand.
func (p *Parser) parseInfixExpr(left core.Expr, prec int) core.Expr {
	start := left.Pos()

	switch p.token.Type {
	case token.NOT:
		p.nextToken()
		return p.parseNegatablePredicate(left, true, start)
	case token.IN, token.BETWEEN, token.LIKE, token.MEMBER:
		return p.parseNegatablePredicate(left, false, start)
	case token.IS:
		return p.parseIsExpr(left, start)
	}

	op := p.token.Type
	p.nextToken()
	right := p.parseExpressionWithPrecedence(prec + 1)
	info := p.span(start)

	switch op {
	case token.AND, token.OR:
		return &core.LogicalExpr{NodeInfo: info, Op: op, Left: left, Right: right}
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE:
		return &core.ComparisonExpr{NodeInfo: info, Left: left, Op: op, Right: right}
	default:
		return &core.BinaryExpr{NodeInfo: info, Left: left, Op: op, Right: right}
	}
}

// parseNegatablePredicate handles IN, BETWEEN, LIKE and MEMBER OF, with the
// optional NOT already consumed.
func (p *Parser) parseNegatablePredicate(left core.Expr, not bool, start token.Position) core.Expr {
	switch p.token.Type {
	case token.IN:
		p.nextToken()
		return p.parseInExpr(left, not, start)

	case token.BETWEEN:
		p.nextToken()
		low := p.parseExpressionWithPrecedence(precedenceAddition)
		p.expect(token.AND)
		high := p.parseExpressionWithPrecedence(precedenceAddition)
		return &core.BetweenExpr{NodeInfo: p.span(start), Operand: left, Low: low, High: high, Not: not}

	case token.LIKE:
		p.nextToken()
		e := &core.LikeExpr{Operand: left, Not: not}
		e.Pattern = p.parseExpressionWithPrecedence(precedenceAddition)
		if p.match(token.ESCAPE) {
			e.Escape = p.parseExpressionWithPrecedence(precedenceAddition)
		}
		e.NodeInfo = p.span(start)
		return e

	case token.MEMBER:
		p.nextToken()
		p.match(token.OF)
		path := p.parsePath()
		return &core.MemberOfExpr{NodeInfo: p.span(start), Operand: left, Collection: path, Not: not}

	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "IN, BETWEEN, LIKE or MEMBER"))
		return left
	}
}

// parseInExpr parses the right-hand side of IN: a value list, a subquery or
// a single parameter.
func (p *Parser) parseInExpr(left core.Expr, not bool, start token.Position) core.Expr {
	e := &core.InExpr{Operand: left, Not: not}

	switch {
	case p.check(token.NAMED_PARAM) || p.check(token.POSITIONAL_PARAM):
		e.Values = []core.Expr{p.parsePrimary()}
	case p.check(token.LPAREN) && (p.checkPeek(token.SELECT) || p.checkPeek(token.FROM)):
		p.nextToken()
		e.Query = p.parseQuerySpec()
		p.expect(token.RPAREN)
	default:
		p.expect(token.LPAREN)
		e.Values = p.parseExpressionList()
		p.expect(token.RPAREN)
	}

	e.NodeInfo = p.span(start)
	return e
}

// parseIsExpr parses IS [NOT] NULL and IS [NOT] EMPTY.
func (p *Parser) parseIsExpr(left core.Expr, start token.Position) core.Expr {
	p.expect(token.IS)
	not := p.match(token.NOT)

	switch {
	case p.match(token.NULL):
		return &core.IsNullExpr{NodeInfo: p.span(start), Operand: left, Not: not}
	case p.match(token.EMPTY):
		return &core.IsEmptyExpr{NodeInfo: p.span(start), Operand: left, Not: not}
	default:
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "NULL or EMPTY"))
		return left
	}
}
