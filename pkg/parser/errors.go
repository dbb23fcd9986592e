package parser

import (
	"fmt"

	"github.com/leapstack-labs/leapql/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Common error messages
const (
	ErrUnexpectedToken     = "unexpected token %s, expected %s"
	ErrUnterminatedString  = "unterminated string literal"
	ErrUnterminatedComment = "unterminated block comment"
	ErrInvalidNumber       = "invalid number literal %q"
	ErrIllegalCharacter    = "illegal character %q"
	ErrBareParameter       = "positional parameter requires a label, e.g. ?1"
	ErrInvalidParameter    = "parameter name expected after ':'"
	ErrExpectedStatement   = "expected select, insert, update or delete, got %s"
	ErrExpectedExpression  = "expected expression, got %s"
	ErrTrailingInput       = "unexpected %s after end of statement"
	ErrMemberOfTarget      = "member of requires a collection path"
)
