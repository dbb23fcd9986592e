package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapql/pkg/parser"
	"github.com/leapstack-labs/leapql/pkg/token"
)

func lexAll(input string) ([]token.Token, *parser.Lexer) {
	l := parser.NewLexer(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			return toks, l
		}
		toks = append(toks, tok)
	}
}

func TestLexer_Tokens(t *testing.T) {
	toks, l := lexAll("select p.name from Person p where p.age >= ?1 and p.nick <> :nick || 'x'")
	require.Empty(t, l.Errors)

	types := make([]token.TokenType, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}

	assert.Equal(t, []token.TokenType{
		token.SELECT, token.IDENT, token.DOT, token.IDENT,
		token.FROM, token.IDENT, token.IDENT,
		token.WHERE, token.IDENT, token.DOT, token.IDENT, token.GE, token.POSITIONAL_PARAM,
		token.AND, token.IDENT, token.DOT, token.IDENT, token.NE, token.NAMED_PARAM,
		token.DPIPE, token.STRING,
	}, types)
	assert.Equal(t, "1", toks[12].Literal)
	assert.Equal(t, "nick", toks[18].Literal)
}

func TestLexer_Literals(t *testing.T) {
	tests := []struct {
		input   string
		wantTyp token.TokenType
		wantLit string
	}{
		{"42", token.NUMBER, "42"},
		{"10L", token.NUMBER, "10L"},
		{"1.5F", token.NUMBER, "1.5F"},
		{"2.5e10", token.NUMBER, "2.5e10"},
		{"'it''s'", token.STRING, "it's"},
		{"SeLeCt", token.SELECT, "SeLeCt"},
		{"$tmp_1", token.IDENT, "$tmp_1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, l := lexAll(tt.input)
			require.Empty(t, l.Errors)
			require.Len(t, toks, 1)
			assert.Equal(t, tt.wantTyp, toks[0].Type)
			assert.Equal(t, tt.wantLit, toks[0].Literal)
		})
	}
}

func TestLexer_SkipsComments(t *testing.T) {
	toks, l := lexAll("from -- trailing\n /* block\n comment */ Person")
	require.Empty(t, l.Errors)
	require.Len(t, toks, 2)
	assert.Equal(t, token.IDENT, toks[1].Type)
	assert.Equal(t, 3, toks[1].Pos.Line)
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		input   string
		wantMsg string
	}{
		{"'open", parser.ErrUnterminatedString},
		{"p.x = ?", parser.ErrBareParameter},
		{"p.x = : n", parser.ErrInvalidParameter},
		{"p.x # 1", `illegal character "#"`},
		{"/* never closed", parser.ErrUnterminatedComment},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, l := lexAll(tt.input)
			require.NotEmpty(t, l.Errors)
			assert.Equal(t, tt.wantMsg, l.Errors[0].Message)
		})
	}
}
