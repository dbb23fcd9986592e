package semantic

import (
	"testing"

	"github.com/leapstack-labs/leapql/pkg/sqm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardPathResolver_QualifiedAndUnqualifiedAgree(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	p := f.root(scope, space, "Person", "p")
	r := NewStandardPathResolver(f.interp, scope.ID)

	qualified, err := r.ResolvePath([]string{"p", "name"})
	require.NoError(t, err)
	bare, err := r.ResolvePath([]string{"name"})
	require.NoError(t, err)

	assert.Same(t, p, qualified.Element)
	assert.Same(t, p, bare.Element)
	assert.Same(t, qualified.Attribute, bare.Attribute)
	assert.True(t, bare.IsAttribute())
}

func TestStandardPathResolver(t *testing.T) {
	tests := []struct {
		name    string
		parts   []string
		wantErr func(error) bool
		wantNil bool
		// want is "<alias>.<attribute>" or "<alias>" of the binding
		want string
	}{
		{name: "alias", parts: []string{"p"}, want: "p"},
		{name: "attribute", parts: []string{"p", "age"}, want: "p.age"},
		{name: "unqualified attribute", parts: []string{"owner"}, want: "x.owner"},
		{name: "unqualified multi-part", parts: []string{"address", "city"}, want: "<gen:0>.city"},
		{name: "navigation", parts: []string{"p", "mate", "name"}, want: "<gen:0>.name"},
		{name: "plural terminal", parts: []string{"p", "kids"}, want: "p.kids"},
		{name: "ambiguous", parts: []string{"name"}, wantErr: IsAmbiguousReference},
		{name: "unknown attribute", parts: []string{"p", "nmae"}, wantErr: IsUnresolvedReference},
		{name: "dereference basic", parts: []string{"p", "name", "length"}, wantErr: IsUnresolvedReference},
		{name: "dereference collection", parts: []string{"p", "kids", "name"}, wantErr: IsUnresolvedReference},
		{name: "nothing in reach", parts: []string{"Employee"}, wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, false)
			scope, space := f.scope(NoScope)
			f.root(scope, space, "Person", "p")
			_, err := f.interp.Builder().MakeCrossJoinedFromElement(scope.ID, space, f.entity("Pet"), "x")
			require.NoError(t, err)

			b, err := NewStandardPathResolver(f.interp, scope.ID).ResolvePath(tt.parts)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error %v", err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, b)
				return
			}
			require.NotNil(t, b)
			got := b.Element.Alias()
			if b.IsAttribute() {
				got += "." + b.Attribute.Name
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStandardPathResolver_SuggestsAttributes(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	f.root(scope, space, "Person", "p")

	_, err := NewStandardPathResolver(f.interp, scope.ID).ResolvePath([]string{"p", "nmae"})
	var unresolved *UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
	assert.Contains(t, unresolved.Suggestions, "name")
	assert.Contains(t, err.Error(), "did you mean")
}

func TestStandardPathResolver_ReusesImplicitJoins(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	f.root(scope, space, "Person", "p")
	r := NewStandardPathResolver(f.interp, scope.ID)

	name, err := r.ResolvePath([]string{"p", "mate", "name"})
	require.NoError(t, err)
	age, err := r.ResolvePath([]string{"p", "mate", "age"})
	require.NoError(t, err)
	city, err := r.ResolvePath([]string{"p", "mate", "address", "city"})
	require.NoError(t, err)

	assert.Same(t, name.Element, age.Element)
	require.Len(t, space.Joins, 2)
	mate := space.Joins[0].(*sqm.QualifiedAttributeJoinFromElement)
	assert.True(t, mate.Implicit)
	assert.Equal(t, sqm.JoinLeft, mate.JoinType)
	assert.False(t, mate.Fetched)
	assert.Same(t, mate, city.Element.(*sqm.QualifiedAttributeJoinFromElement).Lhs)
}

func TestStandardPathResolver_ImplicitJoinLandsInOwnerScope(t *testing.T) {
	f := newFixture(t, false)
	outer, outerSpace := f.scope(NoScope)
	f.root(outer, outerSpace, "Person", "p")
	inner, innerSpace := f.scope(outer.ID)
	f.root(inner, innerSpace, "Pet", "x")

	innerBinding, err := NewStandardPathResolver(f.interp, inner.ID).ResolvePath([]string{"p", "mate", "name"})
	require.NoError(t, err)
	outerBinding, err := NewStandardPathResolver(f.interp, outer.ID).ResolvePath([]string{"p", "mate", "age"})
	require.NoError(t, err)

	assert.Len(t, outerSpace.Joins, 1)
	assert.Empty(t, innerSpace.Joins)
	assert.Same(t, innerBinding.Element, outerBinding.Element)
	assert.NotNil(t, outer.Registry.FindFromElementByAlias(innerBinding.Element.Alias()))
}

func TestStandardPathResolver_Treat(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	p := f.root(scope, space, "Person", "p")
	r := NewStandardPathResolver(f.interp, scope.ID)
	employee := f.entity("Employee")

	b, err := r.ResolveTreatedPath([]string{"p"}, employee)
	require.NoError(t, err)
	treated, ok := b.Element.(*sqm.TreatedFromElement)
	require.True(t, ok)
	assert.Same(t, p, treated.Wrapped)
	assert.Contains(t, p.TreatedAs(), employee)

	salary, err := r.DereferenceFrom(treated, []string{"salary"})
	require.NoError(t, err)
	assert.Equal(t, "salary", salary.Attribute.Name)

	b, err = r.ResolveTreatedPath([]string{"p", "mate"}, employee)
	require.NoError(t, err)
	assert.Equal(t, employee, b.Element.BoundType())
	assert.Len(t, space.Joins, 1)

	_, err = r.ResolveTreatedPath([]string{"p"}, f.entity("Dog"))
	assert.True(t, IsUnresolvedReference(err))

	_, err = r.ResolveTreatedPath([]string{"p", "name"}, employee)
	assert.True(t, IsUnresolvedReference(err))
}

func TestTreatedWrapperForwardsTreats(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	x := f.root(scope, space, "Pet", "x")
	dog, cat := f.entity("Dog"), f.entity("Cat")

	wrapper, err := f.interp.Builder().MakeTreated(x, dog)
	require.NoError(t, err)
	wrapper.AddTreatedAs(cat)

	assert.Equal(t, []string{"Dog", "Cat"}, []string{x.TreatedAs()[0].Name(), x.TreatedAs()[1].Name()})
	assert.Equal(t, x.TreatedAs(), wrapper.TreatedAs())
}

func TestJoinTargetPathResolver(t *testing.T) {
	t.Run("explicit joins are never reused", func(t *testing.T) {
		f := newFixture(t, false)
		scope, space := f.scope(NoScope)
		p := f.root(scope, space, "Person", "p")

		first, err := NewJoinTargetPathResolver(f.interp, scope.ID, space, "m", sqm.JoinInner, false).ResolvePath([]string{"p", "mate"})
		require.NoError(t, err)
		second, err := NewJoinTargetPathResolver(f.interp, scope.ID, space, "n", sqm.JoinLeft, true).ResolvePath([]string{"p", "mate"})
		require.NoError(t, err)

		require.Len(t, space.Joins, 2)
		assert.NotSame(t, first.Element, second.Element)
		m := first.Element.(*sqm.QualifiedAttributeJoinFromElement)
		assert.Same(t, p, m.Lhs)
		assert.Equal(t, sqm.JoinInner, m.JoinType)
		assert.False(t, m.Implicit)
		n := second.Element.(*sqm.QualifiedAttributeJoinFromElement)
		assert.True(t, n.Fetched)
		assert.Equal(t, sqm.JoinLeft, n.JoinType)
	})

	t.Run("intermediates are implicit", func(t *testing.T) {
		f := newFixture(t, false)
		scope, space := f.scope(NoScope)
		f.root(scope, space, "Person", "p")

		b, err := NewJoinTargetPathResolver(f.interp, scope.ID, space, "k", sqm.JoinInner, false).ResolvePath([]string{"p", "mate", "kids"})
		require.NoError(t, err)
		require.Len(t, space.Joins, 2)
		assert.True(t, space.Joins[0].(*sqm.QualifiedAttributeJoinFromElement).Implicit)
		assert.Same(t, space.Joins[1], b.Element)
		assert.Equal(t, "k", b.Element.Alias())
	})

	t.Run("unaliased join gets an implicit alias", func(t *testing.T) {
		f := newFixture(t, false)
		scope, space := f.scope(NoScope)
		f.root(scope, space, "Person", "p")

		b, err := NewJoinTargetPathResolver(f.interp, scope.ID, space, "", sqm.JoinInner, true).ResolvePath([]string{"p", "kids"})
		require.NoError(t, err)
		assert.True(t, IsImplicitAlias(b.Element.Alias()))
	})

	t.Run("treated target", func(t *testing.T) {
		f := newFixture(t, false)
		scope, space := f.scope(NoScope)
		f.root(scope, space, "Person", "p")

		b, err := NewJoinTargetPathResolver(f.interp, scope.ID, space, "m", sqm.JoinLeft, false).
			ResolveTreatedPath([]string{"p", "mate"}, f.entity("Employee"))
		require.NoError(t, err)
		_, ok := b.Element.(*sqm.TreatedFromElement)
		assert.True(t, ok)
		assert.Same(t, b.Element, scope.Registry.FindFromElementByAlias("m"))
	})

	failures := []struct {
		name    string
		strict  bool
		alias   string
		fetched bool
		parts   []string
		wantErr func(error) bool
	}{
		{"alias target", false, "q", false, []string{"p"}, IsUnresolvedReference},
		{"basic target", false, "q", false, []string{"p", "name"}, IsUnresolvedReference},
		{"duplicate alias", false, "p", false, []string{"p", "mate"}, IsAliasCollision},
		{"aliased fetch under strict", true, "m", true, []string{"p", "mate"}, func(err error) bool {
			return IsStrictViolation(err, ReasonAliasedFetchJoin)
		}},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.strict)
			scope, space := f.scope(NoScope)
			f.root(scope, space, "Person", "p")

			_, err := NewJoinTargetPathResolver(f.interp, scope.ID, space, tt.alias, sqm.JoinInner, tt.fetched).ResolvePath(tt.parts)
			require.Error(t, err)
			assert.True(t, tt.wantErr(err), "unexpected error %v", err)
			assert.Empty(t, space.Joins)
		})
	}
}

func TestJoinPredicatePathResolver_PrefersJoin(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	p := f.root(scope, space, "Person", "p")
	m, err := f.interp.Builder().BuildAttributeJoin(scope.ID, space, p, f.attribute("Person", "mate"), JoinOptions{Alias: "m", Type: sqm.JoinInner})
	require.NoError(t, err)

	_, err = NewStandardPathResolver(f.interp, scope.ID).ResolvePath([]string{"name"})
	require.True(t, IsAmbiguousReference(err))

	r := NewJoinPredicatePathResolver(f.interp, scope.ID, m)
	b, err := r.ResolvePath([]string{"name"})
	require.NoError(t, err)
	assert.Same(t, m, b.Element)

	b, err = r.ResolvePath([]string{"p", "age"})
	require.NoError(t, err)
	assert.Same(t, p, b.Element)

	b, err = r.ResolvePath([]string{"m"})
	require.NoError(t, err)
	assert.Same(t, m, b.Element)
	assert.False(t, b.IsAttribute())
}

func TestDmlRootPathResolver(t *testing.T) {
	f := newFixture(t, false)
	dml := f.interp.Scopes().NewDmlScope()
	root, err := f.interp.Builder().MakeDmlRoot(dml.ID, f.entity("Person"), "p")
	require.NoError(t, err)
	r := NewDmlRootPathResolver(root)

	tests := []struct {
		name    string
		parts   []string
		want    string
		wantErr bool
		wantNil bool
	}{
		{name: "qualified", parts: []string{"p", "name"}, want: "name"},
		{name: "unqualified", parts: []string{"age"}, want: "age"},
		{name: "entity attribute", parts: []string{"p", "mate"}, want: "mate"},
		{name: "navigation is rejected", parts: []string{"p", "mate", "name"}, wantErr: true},
		{name: "unqualified navigation is rejected", parts: []string{"address", "city"}, wantErr: true},
		{name: "unknown", parts: []string{"q", "name"}, wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := r.ResolvePath(tt.parts)
			if tt.wantErr {
				assert.True(t, IsUnresolvedReference(err), "unexpected error %v", err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, b)
				return
			}
			assert.Same(t, root, b.Element)
			assert.Equal(t, tt.want, b.Attribute.Name)
		})
	}

	_, err = r.ResolveTreatedPath([]string{"p", "mate"}, f.entity("Employee"))
	assert.True(t, IsUnresolvedReference(err))
}

func TestIndexedElementPathResolver(t *testing.T) {
	f := newFixture(t, false)
	scope, space := f.scope(NoScope)
	p := f.root(scope, space, "Person", "p")
	kid, err := f.interp.indexedJoin(p, f.attribute("Person", "kids"), &sqm.Literal{Kind: sqm.LiteralInteger, Value: "0"})
	require.NoError(t, err)

	b, err := NewIndexedElementPathResolver(f.interp, scope.ID, kid).ResolvePath([]string{"mate", "name"})
	require.NoError(t, err)
	assert.Equal(t, "name", b.Attribute.Name)
	assert.Same(t, kid, b.Element.(*sqm.QualifiedAttributeJoinFromElement).Lhs)

	// a second indexed access is a new join
	again, err := f.interp.indexedJoin(p, f.attribute("Person", "kids"), &sqm.Literal{Kind: sqm.LiteralInteger, Value: "0"})
	require.NoError(t, err)
	assert.NotSame(t, kid, again)

	_, err = f.interp.indexedJoin(p, f.attribute("Person", "pets"), &sqm.Literal{Kind: sqm.LiteralInteger, Value: "0"})
	assert.True(t, IsUnresolvedReference(err))
}
