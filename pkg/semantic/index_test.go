package semantic

import (
	"testing"

	"github.com/leapstack-labs/leapql/pkg/sqm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromClauseIndex_FindFromElementWithAttribute(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	p := f.root(scope, space, "Person", "p")
	x, err := f.interp.Builder().MakeCrossJoinedFromElement(scope.ID, space, f.entity("Pet"), "x")
	require.NoError(t, err)
	index := f.interp.Index()

	t.Run("single match", func(t *testing.T) {
		e, err := index.FindFromElementWithAttribute(scope.ID, "age")
		require.NoError(t, err)
		assert.Same(t, p, e)

		e, err = index.FindFromElementWithAttribute(scope.ID, "owner")
		require.NoError(t, err)
		assert.Same(t, x, e)
	})

	t.Run("two matches are ambiguous", func(t *testing.T) {
		_, err := index.FindFromElementWithAttribute(scope.ID, "name")
		require.Error(t, err)
		assert.True(t, IsAmbiguousReference(err))
		var ambiguous *AmbiguousReferenceError
		require.ErrorAs(t, err, &ambiguous)
		assert.Equal(t, []string{"p", "x"}, ambiguous.Aliases)
	})

	t.Run("no match", func(t *testing.T) {
		e, err := index.FindFromElementWithAttribute(scope.ID, "wingspan")
		require.NoError(t, err)
		assert.Nil(t, e)
	})
}

func TestFromClauseIndex_NearestScopeWins(t *testing.T) {
	f := newFixture(t, false)
	outer, outerSpace := f.scope(NoScope)
	f.root(outer, outerSpace, "Person", "p")
	f.root(outer, outer.FromClause.MakeSpace(), "Pet", "x")

	inner, innerSpace := f.scope(outer.ID)
	d := f.root(inner, innerSpace, "Dog", "d")

	// the outer scope is ambiguous on name but is never consulted
	e, err := f.interp.Index().FindFromElementWithAttribute(inner.ID, "name")
	require.NoError(t, err)
	assert.Same(t, d, e)

	// age only exists in the outer scope
	e, err = f.interp.Index().FindFromElementWithAttribute(inner.ID, "age")
	require.NoError(t, err)
	assert.Equal(t, "p", e.Alias())
}

func TestFromClauseIndex_SkipsImplicitJoins(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	p := f.root(scope, space, "Person", "p")

	_, err := f.interp.implicitJoin(p, f.attribute("Person", "mate"))
	require.NoError(t, err)
	require.Len(t, space.Joins, 1)

	e, err := f.interp.Index().FindFromElementWithAttribute(scope.ID, "name")
	require.NoError(t, err)
	assert.Same(t, p, e)
}

func TestFromClauseIndex_TreatedJoinsResolveAsRegistered(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	p := f.root(scope, space, "Person", "p")

	m, err := f.interp.Builder().BuildAttributeJoin(scope.ID, space, p, f.attribute("Person", "mate"), JoinOptions{
		Alias:   "m",
		Type:    sqm.JoinLeft,
		TreatAs: f.entity("Employee"),
	})
	require.NoError(t, err)

	e, err := f.interp.Index().FindFromElementWithAttribute(scope.ID, "salary")
	require.NoError(t, err)
	assert.Same(t, m, e)
	assert.Same(t, m, f.interp.Index().FindFromElementByAlias(scope.ID, "m"))
}

func TestFromClauseIndex_DmlRoot(t *testing.T) {
	f := newFixture(t, false)
	dml := f.interp.Scopes().NewDmlScope()
	root, err := f.interp.Builder().MakeDmlRoot(dml.ID, f.entity("Person"), "")
	require.NoError(t, err)

	sub, space := f.scope(dml.ID)
	f.root(sub, space, "Pet", "x")

	e, err := f.interp.Index().FindFromElementWithAttribute(sub.ID, "age")
	require.NoError(t, err)
	assert.Same(t, root, e)

	owner, ok := f.interp.Scopes().OwnerOf(root)
	assert.True(t, ok)
	assert.Equal(t, dml.ID, owner)
}
