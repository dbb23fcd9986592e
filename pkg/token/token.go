// Package token defines the token types for query-language parsing.
//
// Every keyword of the language is a builtin constant so the parser can switch
// on token types directly. Keywords are reserved only where the grammar needs
// them; after a DOT the parser accepts any keyword as an identifier so that
// attributes such as `order` or `set` stay addressable.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS names follow query-language token conventions
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Literals
	IDENT            // identifier
	NUMBER           // 123, 45.67, 1e10, 10L, 1.5F, 2.0D
	STRING           // 'hello'
	NAMED_PARAM      // :name
	POSITIONAL_PARAM // ?1

	// Operators
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %
	DPIPE    // ||
	EQ       // =
	NE       // != or <>
	LT       // <
	GT       // >
	LE       // <=
	GE       // >=
	DOT      // .
	COMMA    // ,
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]

	// Keywords (alphabetical)
	ALL
	AND
	AS
	ASC
	BETWEEN
	BY
	CROSS
	DELETE
	DESC
	DISTINCT
	EMPTY
	ESCAPE
	EXISTS
	FALSE
	FETCH
	FIRST
	FROM
	GROUP
	HAVING
	IN
	INNER
	INSERT
	INTO
	IS
	JOIN
	LAST
	LEFT
	LIKE
	LIMIT
	MEMBER
	NEW
	NOT
	NULL
	NULLS
	OF
	OFFSET
	ON
	OR
	ORDER
	OUTER
	SELECT
	SET
	TREAT
	TRUE
	UPDATE
	VERSIONED
	WHERE
	WITH

	keywordEnd
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// IsKeyword reports whether t is one of the language keywords.
func (t TokenType) IsKeyword() bool {
	return t >= ALL && t < keywordEnd
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	IDENT:            "IDENT",
	NUMBER:           "NUMBER",
	STRING:           "STRING",
	NAMED_PARAM:      "NAMED_PARAM",
	POSITIONAL_PARAM: "POSITIONAL_PARAM",

	PLUS:     "+",
	MINUS:    "-",
	STAR:     "*",
	SLASH:    "/",
	PERCENT:  "%",
	DPIPE:    "||",
	EQ:       "=",
	NE:       "!=",
	LT:       "<",
	GT:       ">",
	LE:       "<=",
	GE:       ">=",
	DOT:      ".",
	COMMA:    ",",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",

	ALL:       "ALL",
	AND:       "AND",
	AS:        "AS",
	ASC:       "ASC",
	BETWEEN:   "BETWEEN",
	BY:        "BY",
	CROSS:     "CROSS",
	DELETE:    "DELETE",
	DESC:      "DESC",
	DISTINCT:  "DISTINCT",
	EMPTY:     "EMPTY",
	ESCAPE:    "ESCAPE",
	EXISTS:    "EXISTS",
	FALSE:     "FALSE",
	FETCH:     "FETCH",
	FIRST:     "FIRST",
	FROM:      "FROM",
	GROUP:     "GROUP",
	HAVING:    "HAVING",
	IN:        "IN",
	INNER:     "INNER",
	INSERT:    "INSERT",
	INTO:      "INTO",
	IS:        "IS",
	JOIN:      "JOIN",
	LAST:      "LAST",
	LEFT:      "LEFT",
	LIKE:      "LIKE",
	LIMIT:     "LIMIT",
	MEMBER:    "MEMBER",
	NEW:       "NEW",
	NOT:       "NOT",
	NULL:      "NULL",
	NULLS:     "NULLS",
	OF:        "OF",
	OFFSET:    "OFFSET",
	ON:        "ON",
	OR:        "OR",
	ORDER:     "ORDER",
	OUTER:     "OUTER",
	SELECT:    "SELECT",
	SET:       "SET",
	TREAT:     "TREAT",
	TRUE:      "TRUE",
	UPDATE:    "UPDATE",
	VERSIONED: "VERSIONED",
	WHERE:     "WHERE",
	WITH:      "WITH",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"all":       ALL,
	"and":       AND,
	"as":        AS,
	"asc":       ASC,
	"between":   BETWEEN,
	"by":        BY,
	"cross":     CROSS,
	"delete":    DELETE,
	"desc":      DESC,
	"distinct":  DISTINCT,
	"empty":     EMPTY,
	"escape":    ESCAPE,
	"exists":    EXISTS,
	"false":     FALSE,
	"fetch":     FETCH,
	"first":     FIRST,
	"from":      FROM,
	"group":     GROUP,
	"having":    HAVING,
	"in":        IN,
	"inner":     INNER,
	"insert":    INSERT,
	"into":      INTO,
	"is":        IS,
	"join":      JOIN,
	"last":      LAST,
	"left":      LEFT,
	"like":      LIKE,
	"limit":     LIMIT,
	"member":    MEMBER,
	"new":       NEW,
	"not":       NOT,
	"null":      NULL,
	"nulls":     NULLS,
	"of":        OF,
	"offset":    OFFSET,
	"on":        ON,
	"or":        OR,
	"order":     ORDER,
	"outer":     OUTER,
	"select":    SELECT,
	"set":       SET,
	"treat":     TREAT,
	"true":      TRUE,
	"update":    UPDATE,
	"versioned": VERSIONED,
	"where":     WHERE,
	"with":      WITH,
}

// LookupIdent returns the token type for the given lowercase identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}
