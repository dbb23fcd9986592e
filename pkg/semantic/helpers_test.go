package semantic

import (
	"testing"

	"github.com/leapstack-labs/leapql/internal/testutil"
	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/sqm"
	"github.com/stretchr/testify/require"
)

// fixture is an interpretation over the sample model with helpers to lay
// out scopes by hand.
type fixture struct {
	t      *testing.T
	model  *metamodel.Model
	interp *Interpretation
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	model := testutil.SampleModel(t)
	return &fixture{
		t:      t,
		model:  model,
		interp: NewInterpretation(ModelContext{Model: model, Strict: strict}, Options{Logger: testutil.NewTestLogger(t)}),
	}
}

func (f *fixture) entity(name string) *metamodel.EntityType {
	f.t.Helper()
	e, ok := f.model.Entity(name)
	require.True(f.t, ok, "entity %s", name)
	return e
}

func (f *fixture) attribute(entity, name string) *metamodel.Attribute {
	f.t.Helper()
	a, ok := f.entity(entity).AttributeByName(name)
	require.True(f.t, ok, "attribute %s.%s", entity, name)
	return a
}

// scope opens a query scope with one space.
func (f *fixture) scope(parent ScopeID) (*Scope, *sqm.FromElementSpace) {
	s := f.interp.Scopes().NewQueryScope(parent)
	return s, s.FromClause.MakeSpace()
}

func (f *fixture) root(scope *Scope, space *sqm.FromElementSpace, entity, alias string) *sqm.RootEntityFromElement {
	f.t.Helper()
	root, err := f.interp.Builder().MakeRootEntityFromElement(scope.ID, space, f.entity(entity), alias)
	require.NoError(f.t, err)
	return root
}
