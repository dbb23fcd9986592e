// Package parser provides a recursive descent parser for the object query
// language.
//
// # Usage
//
//	stmt, err := parser.Parse("select p.name from Person p where p.age > :min")
//	if err != nil {
//	    // handle error
//	}
//
// # Grammar Overview
//
//	statement   → select_stmt | insert_stmt | update_stmt | delete_stmt
//	select_stmt → query_spec [ORDER BY order_list] [LIMIT expr] [OFFSET expr]
//	query_spec  → [SELECT [DISTINCT] selection_list] FROM from_clause
//	              [WHERE expr] [GROUP BY expr_list] [HAVING expr]
//	insert_stmt → INSERT INTO entity_name '(' path_list ')' query_spec
//	update_stmt → UPDATE [VERSIONED] entity_name [[AS] alias] SET assignments [WHERE expr]
//	delete_stmt → DELETE [FROM] entity_name [[AS] alias] [WHERE expr]
//
// See each file for detailed grammar rules for that section.
//
// The parser produces a core syntax tree only; names are resolved later by
// pkg/semantic.
package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapql/pkg/core"
	"github.com/leapstack-labs/leapql/pkg/token"
)

// Parser parses query-language text into a core syntax tree.
type Parser struct {
	lexer   *Lexer
	token   token.Token // current token
	peek    token.Token // lookahead token
	peek2   token.Token // second lookahead token
	prevEnd token.Position
	errors  []error
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a single statement.
func Parse(input string) (core.Stmt, error) {
	p := NewParser(input)
	stmt := p.parseStatement()
	if err := p.err(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// err returns the first lexer error, or else the first parse error.
func (p *Parser) err() error {
	if len(p.lexer.Errors) > 0 {
		return p.lexer.Errors[0]
	}
	if len(p.errors) > 0 {
		return p.errors[0]
	}
	return nil
}

// ---------- Token Helpers ----------

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	if p.token.Pos.IsValid() {
		p.prevEnd = tokenEnd(p.token)
	}
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

func tokenEnd(tok token.Token) token.Position {
	n := len(tok.Literal)
	switch tok.Type {
	case token.STRING:
		n += 2
	case token.NAMED_PARAM, token.POSITIONAL_PARAM:
		n++
	}
	return token.Position{Line: tok.Pos.Line, Column: tok.Pos.Column + n, Offset: tok.Pos.Offset + n}
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.token.Type == t
}

// checkPeek returns true if the peek token is of the given type.
func (p *Parser) checkPeek(t token.TokenType) bool {
	return p.peek.Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *Parser) expect(t token.TokenType) bool {
	if p.check(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), t))
	return false
}

// addError adds a parse error. Only the first error is meaningful because
// the parser does not resynchronize.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.token.Pos,
		Message: msg,
	})
}

// failed reports whether an error has been recorded.
func (p *Parser) failed() bool {
	return len(p.errors) > 0 || len(p.lexer.Errors) > 0
}

// span returns the span from start to the end of the last consumed token.
func (p *Parser) span(start token.Position) core.NodeInfo {
	return core.NodeInfo{Span: token.Span{Start: start, End: p.prevEnd}}
}

// describe renders a token for error messages.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.NUMBER:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	case token.STRING:
		return fmt.Sprintf("string '%s'", tok.Literal)
	default:
		return tok.Type.String()
	}
}

// ---------- Identifier Helpers ----------

// parseIdent consumes an identifier.
func (p *Parser) parseIdent() string {
	if !p.check(token.IDENT) {
		p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "identifier"))
		return ""
	}
	name := p.token.Literal
	p.nextToken()
	return name
}

// parseQualifiedName parses ident ('.' ident)* and returns the dotted text.
// After a dot any keyword is accepted as a name part.
func (p *Parser) parseQualifiedName() string {
	name := p.parseIdent()
	for !p.failed() && p.check(token.DOT) {
		p.nextToken()
		name += "." + p.parseNamePart()
	}
	return name
}

// parseNamePart consumes an identifier or keyword following a dot.
func (p *Parser) parseNamePart() string {
	if p.check(token.IDENT) || p.token.Type.IsKeyword() {
		part := p.token.Literal
		p.nextToken()
		return part
	}
	p.addError(fmt.Sprintf(ErrUnexpectedToken, describe(p.token), "identifier"))
	return ""
}

// parseOptionalAlias parses `[AS] alias`.
func (p *Parser) parseOptionalAlias() string {
	if p.match(token.AS) {
		return p.parseIdent()
	}
	if p.check(token.IDENT) {
		alias := p.token.Literal
		p.nextToken()
		return alias
	}
	return ""
}
