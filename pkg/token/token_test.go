package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  TokenType
	}{
		{"select", SELECT},
		{"from", FROM},
		{"treat", TREAT},
		{"versioned", VERSIONED},
		{"member", MEMBER},
		{"person", IDENT},
		{"name", IDENT},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIdent(tt.ident))
		})
	}
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "SELECT", SELECT.String())
	assert.Equal(t, "||", DPIPE.String())
	assert.Equal(t, "TOKEN(9999)", TokenType(9999).String())
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, ALL.IsKeyword())
	assert.True(t, WITH.IsKeyword())
	assert.True(t, FETCH.IsKeyword())
	assert.False(t, IDENT.IsKeyword())
	assert.False(t, DOT.IsKeyword())
	assert.False(t, NAMED_PARAM.IsKeyword())
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())
	assert.Equal(t, "-", Position{}.String())
}
