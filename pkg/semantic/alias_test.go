package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImplicitAliasGenerator_Next(t *testing.T) {
	g := &ImplicitAliasGenerator{}
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		alias := g.Next()
		assert.False(t, seen[alias], "alias %s issued twice", alias)
		assert.True(t, IsImplicitAlias(alias), alias)
		seen[alias] = true
	}
	assert.True(t, seen["<gen:0>"])
	assert.True(t, seen["<gen:49>"])
}

func TestImplicitAliasGenerator_Independent(t *testing.T) {
	a, b := &ImplicitAliasGenerator{}, &ImplicitAliasGenerator{}
	a.Next()
	assert.Equal(t, "<gen:0>", b.Next())
	assert.Equal(t, "<gen:1>", a.Next())
}

func TestIsImplicitAlias(t *testing.T) {
	tests := []struct {
		alias string
		want  bool
	}{
		{"<gen:0>", true},
		{"<gen:12>", true},
		{"p", false},
		{"gen0", false},
		{"gen:0", false},
		{"<gen:0", false},
		{"gen_0>", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			assert.Equal(t, tt.want, IsImplicitAlias(tt.alias))
		})
	}
}
