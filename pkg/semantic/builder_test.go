package semantic

import (
	"testing"

	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/sqm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromElementBuilder_UniqueIDs(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	p := f.root(scope, space, "Person", "p")
	x, err := f.interp.Builder().MakeCrossJoinedFromElement(scope.ID, space, f.entity("Pet"), "x")
	require.NoError(t, err)
	j, err := f.interp.implicitJoin(p, f.attribute("Person", "mate"))
	require.NoError(t, err)

	ids := map[string]bool{p.UniqueID(): true, x.UniqueID(): true, j.UniqueID(): true}
	assert.Len(t, ids, 3)
}

func TestFromElementBuilder_Invariants(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	p := f.root(scope, space, "Person", "p")
	b := f.interp.Builder()

	t.Run("second root in a space", func(t *testing.T) {
		_, err := b.MakeRootEntityFromElement(scope.ID, space, f.entity("Pet"), "x")
		assert.True(t, IsBuilderInvariant(err))
	})

	t.Run("root without a space", func(t *testing.T) {
		_, err := b.MakeRootEntityFromElement(scope.ID, nil, f.entity("Pet"), "x")
		assert.True(t, IsBuilderInvariant(err))
	})

	t.Run("join without an attribute", func(t *testing.T) {
		_, err := b.BuildAttributeJoin(scope.ID, space, p, nil, JoinOptions{})
		assert.True(t, IsBuilderInvariant(err))
	})

	t.Run("second statement target", func(t *testing.T) {
		dml := f.interp.Scopes().NewDmlScope()
		_, err := b.MakeDmlRoot(dml.ID, f.entity("Pet"), "")
		require.NoError(t, err)
		_, err = b.MakeDmlRoot(dml.ID, f.entity("Pet"), "")
		assert.True(t, IsBuilderInvariant(err))
	})

	t.Run("treat outside the hierarchy", func(t *testing.T) {
		_, err := b.MakeTreated(p, f.entity("Cat"))
		assert.True(t, IsUnresolvedReference(err))
	})
}

func TestFromElementBuilder_ReservedAliases(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	b := f.interp.Builder()

	_, err := b.MakeRootEntityFromElement(scope.ID, space, f.entity("Person"), "<gen:0>")
	require.Error(t, err)
	assert.True(t, IsAliasCollision(err))
	assert.Nil(t, space.Root)

	p := f.root(scope, space, "Person", "")
	assert.Equal(t, "<gen:0>", p.Alias())
	_, err = b.BuildEntityJoin(scope.ID, space, f.entity("Address"), "<gen:5>", sqm.JoinInner, false)
	assert.True(t, IsAliasCollision(err))
	assert.Empty(t, space.Joins)
}

func TestFromElementBuilder_TreatPolymorphic(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	named, err := f.model.ResolveEntityType("Named")
	require.NoError(t, err)
	n, err := f.interp.Builder().MakeRootEntityFromElement(scope.ID, space, named, "n")
	require.NoError(t, err)

	treated, err := f.interp.Builder().MakeTreated(n, f.entity("Dog"))
	require.NoError(t, err)
	assert.Equal(t, metamodel.TypeDescriptor(f.entity("Dog")), treated.BoundType())

	_, err = f.interp.Builder().MakeTreated(n, f.entity("Address"))
	assert.Error(t, err)
}

func TestFromElementBuilder_Sealed(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	p := f.root(scope, space, "Person", "p")

	stmt := &sqm.SelectStatement{QuerySpec: &sqm.QuerySpec{
		FromClause:   scope.FromClause,
		SelectClause: &sqm.SelectClause{Selections: []*sqm.Selection{{Expr: &sqm.FromElementReference{Element: p}}}},
	}}
	require.NoError(t, f.interp.WrapUp(stmt))

	b := f.interp.Builder()
	_, err := b.MakeRootEntityFromElement(scope.ID, scope.FromClause.MakeSpace(), f.entity("Pet"), "x")
	assert.True(t, IsBuilderInvariant(err))
	_, err = b.BuildAttributeJoin(scope.ID, space, p, f.attribute("Person", "mate"), JoinOptions{})
	assert.True(t, IsBuilderInvariant(err))
	_, err = b.MakeTreated(p, f.entity("Employee"))
	assert.True(t, IsBuilderInvariant(err))
	_, err = f.interp.implicitJoin(p, f.attribute("Person", "address"))
	assert.True(t, IsBuilderInvariant(err))

	assert.True(t, IsBuilderInvariant(f.interp.WrapUp(stmt)))
	assert.Empty(t, space.Joins)
}
