package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapql/pkg/core"
	"github.com/leapstack-labs/leapql/pkg/token"
)

// Statement parsing.
//
// Grammar:
//
//	statement      → select_stmt | insert_stmt | update_stmt | delete_stmt
//	query_spec     → [select_clause] FROM from_clause [WHERE expr]
//	                 [GROUP BY expr_list] [HAVING expr]
//	select_clause  → SELECT [DISTINCT] selection (',' selection)*
//	selection      → (instantiation | expr) [[AS] alias]
//	instantiation  → NEW (MAP | LIST | qualified_name) '(' selection_list ')'
//	order_list     → order_item (',' order_item)*
//	order_item     → expr [ASC|DESC] [NULLS (FIRST|LAST)]
//	assignments    → path '=' expr (',' path '=' expr)*

// parseStatement parses a complete statement and requires end of input.
func (p *Parser) parseStatement() core.Stmt {
	var stmt core.Stmt
	switch p.token.Type {
	case token.SELECT, token.FROM:
		stmt = p.parseSelectStatement()
	case token.INSERT:
		stmt = p.parseInsertStatement()
	case token.UPDATE:
		stmt = p.parseUpdateStatement()
	case token.DELETE:
		stmt = p.parseDeleteStatement()
	default:
		p.addError(fmt.Sprintf(ErrExpectedStatement, describe(p.token)))
		return nil
	}
	if !p.failed() && !p.check(token.EOF) {
		p.addError(fmt.Sprintf(ErrTrailingInput, describe(p.token)))
	}
	return stmt
}

func (p *Parser) parseSelectStatement() *core.SelectStatement {
	start := p.token.Pos
	stmt := &core.SelectStatement{Query: p.parseQuerySpec()}

	if p.check(token.ORDER) {
		p.nextToken()
		p.expect(token.BY)
		stmt.OrderBy = p.parseOrderByList()
	}
	if p.match(token.LIMIT) {
		stmt.Limit = p.parseExpression()
	}
	if p.match(token.OFFSET) {
		stmt.Offset = p.parseExpression()
	}
	stmt.NodeInfo = p.span(start)
	return stmt
}

func (p *Parser) parseInsertStatement() *core.InsertStatement {
	start := p.token.Pos
	p.expect(token.INSERT)
	p.expect(token.INTO)

	stmt := &core.InsertStatement{Target: p.parseEntityName(false)}
	p.expect(token.LPAREN)
	for !p.failed() {
		stmt.Attributes = append(stmt.Attributes, p.parsePath())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	stmt.Query = p.parseQuerySpec()
	stmt.NodeInfo = p.span(start)
	return stmt
}

func (p *Parser) parseUpdateStatement() *core.UpdateStatement {
	start := p.token.Pos
	p.expect(token.UPDATE)

	stmt := &core.UpdateStatement{Versioned: p.match(token.VERSIONED)}
	stmt.Target = p.parseEntityName(true)
	p.expect(token.SET)
	for !p.failed() {
		aStart := p.token.Pos
		target := p.parsePath()
		p.expect(token.EQ)
		value := p.parseExpression()
		stmt.Assignments = append(stmt.Assignments, &core.Assignment{
			NodeInfo: p.span(aStart),
			Target:   target,
			Value:    value,
		})
		if !p.match(token.COMMA) {
			break
		}
	}
	if p.match(token.WHERE) {
		stmt.Where = p.parseExpression()
	}
	stmt.NodeInfo = p.span(start)
	return stmt
}

func (p *Parser) parseDeleteStatement() *core.DeleteStatement {
	start := p.token.Pos
	p.expect(token.DELETE)
	p.match(token.FROM)

	stmt := &core.DeleteStatement{Target: p.parseEntityName(true)}
	if p.match(token.WHERE) {
		stmt.Where = p.parseExpression()
	}
	stmt.NodeInfo = p.span(start)
	return stmt
}

// parseEntityName parses a DML target entity with an optional alias.
func (p *Parser) parseEntityName(allowAlias bool) *core.EntityName {
	start := p.token.Pos
	e := &core.EntityName{Name: p.parseQualifiedName()}
	if allowAlias {
		e.Alias = p.parseOptionalAlias()
	}
	e.NodeInfo = p.span(start)
	return e
}

// parseQuerySpec parses the select/from/where/group by/having unit.
func (p *Parser) parseQuerySpec() *core.QuerySpec {
	start := p.token.Pos
	spec := &core.QuerySpec{}

	if p.check(token.SELECT) {
		spec.Select = p.parseSelectClause()
	}
	if !p.expect(token.FROM) {
		return spec
	}
	spec.From = p.parseFromClause()

	if p.match(token.WHERE) {
		spec.Where = p.parseExpression()
	}
	if p.check(token.GROUP) {
		p.nextToken()
		p.expect(token.BY)
		spec.GroupBy = p.parseExpressionList()
	}
	if p.match(token.HAVING) {
		spec.Having = p.parseExpression()
	}
	spec.NodeInfo = p.span(start)
	return spec
}

func (p *Parser) parseSelectClause() *core.SelectClause {
	start := p.token.Pos
	p.expect(token.SELECT)

	clause := &core.SelectClause{Distinct: p.match(token.DISTINCT)}
	clause.Items = p.parseSelectionList()
	clause.NodeInfo = p.span(start)
	return clause
}

func (p *Parser) parseSelectionList() []*core.Selection {
	var items []*core.Selection
	for !p.failed() {
		items = append(items, p.parseSelection())
		if !p.match(token.COMMA) {
			break
		}
	}
	return items
}

func (p *Parser) parseSelection() *core.Selection {
	start := p.token.Pos
	sel := &core.Selection{}
	if p.check(token.NEW) {
		sel.Expr = p.parseInstantiation()
	} else {
		sel.Expr = p.parseExpression()
	}
	sel.Alias = p.parseOptionalAlias()
	sel.NodeInfo = p.span(start)
	return sel
}

func (p *Parser) parseInstantiation() *core.DynamicInstantiation {
	start := p.token.Pos
	p.expect(token.NEW)

	inst := &core.DynamicInstantiation{}
	name := p.parseQualifiedName()
	switch strings.ToLower(name) {
	case "map":
		inst.Kind = core.InstantiateMap
	case "list":
		inst.Kind = core.InstantiateList
	default:
		inst.Kind = core.InstantiateClass
		inst.ClassName = name
	}

	p.expect(token.LPAREN)
	inst.Args = p.parseSelectionList()
	p.expect(token.RPAREN)
	inst.NodeInfo = p.span(start)
	return inst
}

func (p *Parser) parseOrderByList() []*core.OrderByItem {
	var items []*core.OrderByItem
	for !p.failed() {
		start := p.token.Pos
		item := &core.OrderByItem{Expr: p.parseExpression()}
		if p.match(token.DESC) {
			item.Descending = true
		} else {
			p.match(token.ASC)
		}
		if p.match(token.NULLS) {
			switch {
			case p.match(token.FIRST):
				item.Nulls = core.NullsFirst
			case p.match(token.LAST):
				item.Nulls = core.NullsLast
			default:
				p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "FIRST or LAST"))
			}
		}
		item.NodeInfo = p.span(start)
		items = append(items, item)
		if !p.match(token.COMMA) {
			break
		}
	}
	return items
}

// parseExpressionList parses expr (',' expr)*.
func (p *Parser) parseExpressionList() []core.Expr {
	var exprs []core.Expr
	for !p.failed() {
		exprs = append(exprs, p.parseExpression())
		if !p.match(token.COMMA) {
			break
		}
	}
	return exprs
}
