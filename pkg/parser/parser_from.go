package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapql/pkg/core"
	"github.com/leapstack-labs/leapql/pkg/token"
)

// FROM clause parsing.
//
// Grammar:
//
//	from_clause → space (',' (space | collection_join))*
//	space       → qualified_name [[AS] alias] join*
//	join        → CROSS JOIN qualified_name [[AS] alias]
//	            | [LEFT [OUTER] | INNER] JOIN [FETCH] join_target [[AS] alias] [(ON | WITH) expr]
//	join_target → path | TREAT '(' path AS qualified_name ')'
//	collection_join → IN '(' path ')' [AS] alias

// parseFromClause parses the from-element spaces of a query spec.
func (p *Parser) parseFromClause() *core.FromClause {
	start := p.token.Pos
	from := &core.FromClause{}

	for !p.failed() {
		if p.check(token.IN) && p.checkPeek(token.LPAREN) && len(from.Spaces) > 0 {
			last := from.Spaces[len(from.Spaces)-1]
			last.Joins = append(last.Joins, p.parseCollectionJoin())
			last.NodeInfo = core.NodeInfo{Span: token.Span{Start: last.Pos(), End: p.prevEnd}}
		} else {
			from.Spaces = append(from.Spaces, p.parseSpace())
		}
		if !p.match(token.COMMA) {
			break
		}
	}

	from.NodeInfo = p.span(start)
	return from
}

func (p *Parser) parseSpace() *core.FromElementSpace {
	start := p.token.Pos
	space := &core.FromElementSpace{}

	root := &core.RootEntity{EntityName: p.parseQualifiedName()}
	root.Alias = p.parseOptionalAlias()
	root.NodeInfo = p.span(start)
	space.Root = root

	for !p.failed() && p.isJoinStart() {
		space.Joins = append(space.Joins, p.parseJoin())
	}

	space.NodeInfo = p.span(start)
	return space
}

// isJoinStart returns true if the current token starts a join.
func (p *Parser) isJoinStart() bool {
	switch p.token.Type {
	case token.JOIN, token.LEFT, token.INNER, token.CROSS:
		return true
	}
	return false
}

func (p *Parser) parseJoin() core.Join {
	start := p.token.Pos

	if p.match(token.CROSS) {
		p.expect(token.JOIN)
		j := &core.CrossJoin{EntityName: p.parseQualifiedName()}
		j.Alias = p.parseOptionalAlias()
		j.NodeInfo = p.span(start)
		return j
	}

	j := &core.QualifiedJoin{Kind: core.JoinInner}
	if p.match(token.LEFT) {
		p.match(token.OUTER)
		j.Kind = core.JoinLeftOuter
	} else {
		p.match(token.INNER)
	}
	p.expect(token.JOIN)
	j.Fetch = p.match(token.FETCH)

	if p.match(token.TREAT) {
		p.expect(token.LPAREN)
		j.Target = p.parsePath()
		p.expect(token.AS)
		j.TreatAs = p.parseQualifiedName()
		p.expect(token.RPAREN)
	} else {
		j.Target = p.parsePath()
	}
	j.Alias = p.parseOptionalAlias()

	if p.match(token.ON) || p.match(token.WITH) {
		j.On = p.parseExpression()
	}
	j.NodeInfo = p.span(start)
	return j
}

func (p *Parser) parseCollectionJoin() *core.CollectionJoin {
	start := p.token.Pos
	p.expect(token.IN)
	p.expect(token.LPAREN)
	j := &core.CollectionJoin{Path: p.parsePath()}
	p.expect(token.RPAREN)
	j.Alias = p.parseOptionalAlias()
	if j.Alias == "" && !p.failed() {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "alias"))
	}
	j.NodeInfo = p.span(start)
	return j
}

// parsePath parses ident ('.' name_part)* into a Path node.
func (p *Parser) parsePath() *core.Path {
	start := p.token.Pos
	path := &core.Path{Parts: []string{p.parseIdent()}}
	for !p.failed() && p.check(token.DOT) {
		p.nextToken()
		path.Parts = append(path.Parts, p.parseNamePart())
	}
	path.NodeInfo = p.span(start)
	return path
}
