package semantic

import (
	"testing"

	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/sqm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasRegistry_FromElements(t *testing.T) {
	t.Run("duplicate alias in one scope collides", func(t *testing.T) {
		f := newFixture(t, false)
		scope, space := f.scope(NoScope)
		f.root(scope, space, "Person", "p")

		other := scope.FromClause.MakeSpace()
		_, err := f.interp.Builder().MakeRootEntityFromElement(scope.ID, other, f.entity("Pet"), "p")
		require.Error(t, err)
		assert.True(t, IsAliasCollision(err))
		assert.Nil(t, other.Root)
	})

	t.Run("nested scope may shadow", func(t *testing.T) {
		f := newFixture(t, false)
		outer, outerSpace := f.scope(NoScope)
		p := f.root(outer, outerSpace, "Person", "p")

		inner, innerSpace := f.scope(outer.ID)
		shadow := f.root(inner, innerSpace, "Pet", "p")

		assert.Same(t, shadow, inner.Registry.FindFromElementByAlias("p"))
		assert.Same(t, p, outer.Registry.FindFromElementByAlias("p"))
	})

	t.Run("lookup falls back to enclosing scopes", func(t *testing.T) {
		f := newFixture(t, false)
		outer, outerSpace := f.scope(NoScope)
		p := f.root(outer, outerSpace, "Person", "p")
		inner, innerSpace := f.scope(outer.ID)
		f.root(inner, innerSpace, "Pet", "x")

		assert.Same(t, p, inner.Registry.FindFromElementByAlias("p"))
		assert.Nil(t, outer.Registry.FindFromElementByAlias("x"))
		assert.Nil(t, inner.Registry.FindFromElementByAlias("q"))
		assert.Same(t, outer.Registry, inner.Registry.Parent())
		assert.Nil(t, outer.Registry.Parent())
	})

	t.Run("aliases are case-sensitive", func(t *testing.T) {
		f := newFixture(t, false)
		scope, space := f.scope(NoScope)
		f.root(scope, space, "Person", "p")
		_, err := f.interp.Builder().MakeCrossJoinedFromElement(scope.ID, space, f.entity("Pet"), "P")
		require.NoError(t, err)
		assert.Equal(t, []string{"P", "p"}, scope.Registry.Aliases())
	})

	t.Run("empty alias is an invariant violation", func(t *testing.T) {
		f := newFixture(t, false)
		scope, space := f.scope(NoScope)
		err := scope.Registry.RegisterFromElement(sqm.NewRootEntity("x", "", space, f.entity("Person")))
		assert.True(t, IsBuilderInvariant(err))
	})

	t.Run("implicit aliases are not listed", func(t *testing.T) {
		f := newFixture(t, false)
		scope, space := f.scope(NoScope)
		f.root(scope, space, "Person", "")
		assert.Empty(t, scope.Registry.Aliases())
		assert.NotNil(t, scope.Registry.FindFromElementByAlias("<gen:0>"))
	})
}

func TestAliasRegistry_Selections(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	p := f.root(scope, space, "Person", "p")
	name := f.attribute("Person", "name")

	tests := []struct {
		name      string
		selection *sqm.Selection
		collides  bool
	}{
		{
			name:      "unaliased selections are ignored",
			selection: &sqm.Selection{Expr: &sqm.AttributeReference{Source: p, Attribute: name}},
		},
		{
			name:      "fresh alias",
			selection: &sqm.Selection{Alias: "n", Expr: &sqm.AttributeReference{Source: p, Attribute: name}},
		},
		{
			name:      "duplicate result alias",
			selection: &sqm.Selection{Alias: "n", Expr: &sqm.Literal{Kind: sqm.LiteralInteger, Value: "1"}},
			collides:  true,
		},
		{
			name:      "from element alias with another type",
			selection: &sqm.Selection{Alias: "p", Expr: &sqm.AttributeReference{Source: p, Attribute: name}},
			collides:  true,
		},
		{
			name:      "from element alias with the same type",
			selection: &sqm.Selection{Alias: "p", Expr: &sqm.FromElementReference{Element: p}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scope.Registry.RegisterSelection(tt.selection)
			if tt.collides {
				assert.True(t, IsAliasCollision(err), "got %v", err)
				return
			}
			require.NoError(t, err)
		})
	}

	assert.NotNil(t, scope.Registry.FindSelectionByAlias("n"))
	assert.Equal(t, metamodel.TypeDescriptor(metamodel.String), scope.Registry.FindSelectionByAlias("n").Expr.ExpressionType())
}

func TestAliasRegistry_SelectionsStayLocal(t *testing.T) {
	f := newFixture(t, false)
	outer, outerSpace := f.scope(NoScope)
	p := f.root(outer, outerSpace, "Person", "p")
	require.NoError(t, outer.Registry.RegisterSelection(&sqm.Selection{Alias: "total", Expr: &sqm.FromElementReference{Element: p}}))

	inner, _ := f.scope(outer.ID)
	assert.Nil(t, inner.Registry.FindSelectionByAlias("total"))
	assert.NotNil(t, outer.Registry.FindSelectionByAlias("total"))
}
