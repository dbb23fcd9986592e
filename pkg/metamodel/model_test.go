package metamodel_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapql/internal/testutil"
	"github.com/leapstack-labs/leapql/pkg/metamodel"
)

func TestModel_ResolveEntityType(t *testing.T) {
	m := testutil.SampleModel(t)

	tests := []struct {
		name       string
		query      string
		wantName   string
		wantPoly   bool
		wantErrMsg string
	}{
		{name: "simple name", query: "Person", wantName: "Person"},
		{name: "class name", query: "com.acme.Person", wantName: "Person"},
		{name: "unmapped supertype", query: "Named", wantName: "Named", wantPoly: true},
		{name: "unknown with suggestion", query: "Persn", wantErrMsg: `unknown entity "Persn" (did you mean Person?)`},
		{name: "unknown", query: "Spaceship", wantErrMsg: `unknown entity "Spaceship"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ResolveEntityType(tt.query)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrMsg, err.Error())
				var unknown *metamodel.UnknownEntityError
				assert.True(t, errors.As(err, &unknown))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name())
			assert.Equal(t, tt.wantPoly, got.IsPolymorphic())
		})
	}
}

func TestEntityType_InheritedAttributes(t *testing.T) {
	m := testutil.SampleModel(t)
	emp, ok := m.Entity("Employee")
	require.True(t, ok)

	name, ok := emp.AttributeByName("name")
	require.True(t, ok)
	assert.Equal(t, "Person", name.Declaring.Name())

	salary, ok := emp.AttributeByName("salary")
	require.True(t, ok)
	assert.Equal(t, metamodel.Double, salary.Type)

	person, _ := m.Entity("Person")
	_, ok = person.AttributeByName("salary")
	assert.False(t, ok)

	assert.True(t, emp.IsSubtypeOf(person))
	assert.False(t, person.IsSubtypeOf(emp))
	assert.Equal(t, []*metamodel.EntityType{emp}, m.Subtypes(person))
}

func TestAttribute_Kinds(t *testing.T) {
	m := testutil.SampleModel(t)
	person, _ := m.Entity("Person")

	tests := []struct {
		attr      string
		kind      metamodel.AttributeKind
		joinable  bool
		indexed   bool
		collKind  metamodel.CollectionKind
		wantValue string
	}{
		{"name", metamodel.Basic, false, false, metamodel.NotCollection, "String"},
		{"gender", metamodel.Basic, false, false, metamodel.NotCollection, "com.acme.Gender"},
		{"mate", metamodel.SingularEntity, true, false, metamodel.NotCollection, "Person"},
		{"kids", metamodel.Plural, true, true, metamodel.List, "Person"},
		{"pets", metamodel.Plural, true, false, metamodel.Set, "Pet"},
		{"nicknames", metamodel.Plural, true, false, metamodel.Set, "String"},
		{"phones", metamodel.Plural, true, true, metamodel.Map, "String"},
	}

	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			a, ok := person.AttributeByName(tt.attr)
			require.True(t, ok)
			assert.Equal(t, tt.kind, a.Kind)
			assert.Equal(t, tt.joinable, a.IsJoinable())
			assert.Equal(t, tt.indexed, a.IsIndexed())
			assert.Equal(t, tt.collKind, a.Collection)
			assert.Equal(t, tt.wantValue, a.Type.Name())
		})
	}
}

func TestPolymorphicEntityType_AttributeIntersection(t *testing.T) {
	m := testutil.SampleModel(t)

	animal, err := m.ResolveEntityType("Animal")
	require.NoError(t, err)
	require.True(t, animal.IsPolymorphic())

	// every implementor inherits name from Pet
	_, ok := animal.AttributeByName("name")
	assert.True(t, ok)

	// Dog has barks, Cat does not
	_, ok = animal.AttributeByName("barks")
	assert.False(t, ok)

	// Cat has lives, Dog does not
	_, ok = animal.AttributeByName("lives")
	assert.False(t, ok)
}

func TestPolymorphicEntityType_OneMissingImplementor(t *testing.T) {
	a := metamodel.NewEntityType("A", "", nil)
	b := metamodel.NewEntityType("B", "", nil)
	c := metamodel.NewEntityType("C", "", nil)
	a.AddAttribute(&metamodel.Attribute{Name: "x", Type: metamodel.String})
	b.AddAttribute(&metamodel.Attribute{Name: "x", Type: metamodel.String})

	poly := metamodel.NewPolymorphicEntityType("Any", a, b, c)
	_, ok := poly.AttributeByName("x")
	assert.False(t, ok, "C lacks x, so the intersection must not expose it")

	poly = metamodel.NewPolymorphicEntityType("AB", a, b)
	attr, ok := poly.AttributeByName("x")
	require.True(t, ok)
	assert.Same(t, a, attr.Declaring)
}

func TestEnum(t *testing.T) {
	m := testutil.SampleModel(t)
	gender, ok := m.ResolveEnum("com.acme.Gender")
	require.True(t, ok)
	assert.True(t, gender.HasConstant("FEMALE"))
	assert.False(t, gender.HasConstant("female"))

	_, ok = m.ResolveEnum("Gender")
	assert.False(t, ok, "enums are referenced by class name")
}

func TestSuggestSimilar(t *testing.T) {
	got := metamodel.SuggestSimilar("nmae", []string{"name", "age", "mate", "address"})
	assert.Equal(t, []string{"mate", "name"}, got)
	assert.Empty(t, metamodel.SuggestSimilar("zzzzzz", []string{"name"}))
}
