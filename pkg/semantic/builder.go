package semantic

import (
	"strconv"

	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// JoinOptions describes an attribute join to materialize.
type JoinOptions struct {
	// Alias is the user alias; empty synthesizes an implicit one.
	Alias    string
	Type     sqm.JoinType
	Fetched  bool
	Implicit bool
	// TreatAs registers the join under its alias narrowed to a subtype.
	TreatAs *metamodel.EntityType
}

// FromElementBuilder creates from elements, assigns their aliases and
// registers them in a scope. Every failure is fatal; nothing is added to a
// space or registry when a call returns an error.
type FromElementBuilder struct {
	scopes  *Scopes
	aliases *ImplicitAliasGenerator
	uids    int
	sealed  bool
}

// NewFromElementBuilder creates a builder over the given scope arena.
func NewFromElementBuilder(scopes *Scopes, aliases *ImplicitAliasGenerator) *FromElementBuilder {
	return &FromElementBuilder{scopes: scopes, aliases: aliases}
}

func (b *FromElementBuilder) check() error {
	if b.sealed {
		return newInvariant("interpretation is already wrapped up")
	}
	return nil
}

// alias returns the user alias, or a fresh implicit one when it is empty.
// User aliases may not take the implicit alias form.
func (b *FromElementBuilder) alias(alias string) (string, error) {
	if alias == "" {
		return b.aliases.Next(), nil
	}
	if IsImplicitAlias(alias) {
		return "", reservedAlias(alias)
	}
	return alias, nil
}

func (b *FromElementBuilder) uid() string {
	b.uids++
	return strconv.Itoa(b.uids)
}

func (b *FromElementBuilder) register(scope ScopeID, e sqm.FromElement) error {
	return b.scopes.Get(scope).Registry.RegisterFromElement(e)
}

// MakeRootEntityFromElement builds the root of space and registers it.
func (b *FromElementBuilder) MakeRootEntityFromElement(scope ScopeID, space *sqm.FromElementSpace, t metamodel.EntityTypeDescriptor, alias string) (*sqm.RootEntityFromElement, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if space == nil {
		return nil, newInvariant("root entity %s built outside a from element space", t.Name())
	}
	alias, err := b.alias(alias)
	if err != nil {
		return nil, err
	}
	root := sqm.NewRootEntity(b.uid(), alias, space, t)
	if space.Root != nil && space.Root != root {
		return nil, newInvariant("space already has root %s", space.Root.Alias())
	}
	if err := b.register(scope, root); err != nil {
		return nil, err
	}
	space.Root = root
	return root, nil
}

// MakeCrossJoinedFromElement appends a cross join to space.
func (b *FromElementBuilder) MakeCrossJoinedFromElement(scope ScopeID, space *sqm.FromElementSpace, t *metamodel.EntityType, alias string) (*sqm.CrossJoinedFromElement, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if space == nil {
		return nil, newInvariant("cross join %s built outside a from element space", t.Name())
	}
	alias, err := b.alias(alias)
	if err != nil {
		return nil, err
	}
	join := sqm.NewCrossJoin(b.uid(), alias, space, t)
	if err := b.register(scope, join); err != nil {
		return nil, err
	}
	space.AddJoin(join)
	return join, nil
}

// BuildAttributeJoin materializes a join of attr from lhs and appends it to
// space. Attribute lookup is the caller's job. The returned element is the
// one registered under the alias: the join itself, or its treated wrapper
// when opts.TreatAs is set. The ON predicate is attached by the caller.
func (b *FromElementBuilder) BuildAttributeJoin(scope ScopeID, space *sqm.FromElementSpace, lhs sqm.FromElement, attr *metamodel.Attribute, opts JoinOptions) (sqm.FromElement, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if attr == nil {
		return nil, newInvariant("attribute join from %s without an attribute", lhs.Alias())
	}
	if space == nil {
		return nil, newInvariant("join %s.%s built outside a from element space", lhs.Alias(), attr.Name)
	}
	alias, err := b.alias(opts.Alias)
	if err != nil {
		return nil, err
	}
	join := sqm.NewAttributeJoin(b.uid(), alias, space, lhs, attr, opts.Type, opts.Fetched)
	join.Implicit = opts.Implicit

	var bound sqm.FromElement = join
	if opts.TreatAs != nil {
		bound = sqm.NewTreated(join, opts.TreatAs)
	}
	if err := b.register(scope, bound); err != nil {
		return nil, err
	}
	space.AddJoin(join)
	return bound, nil
}

// BuildEntityJoin appends a join of an unrelated entity to space.
func (b *FromElementBuilder) BuildEntityJoin(scope ScopeID, space *sqm.FromElementSpace, t metamodel.EntityTypeDescriptor, alias string, joinType sqm.JoinType, fetched bool) (*sqm.QualifiedEntityJoinFromElement, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if space == nil {
		return nil, newInvariant("entity join %s built outside a from element space", t.Name())
	}
	alias, err := b.alias(alias)
	if err != nil {
		return nil, err
	}
	join := sqm.NewEntityJoin(b.uid(), alias, space, t, joinType, fetched)
	if err := b.register(scope, join); err != nil {
		return nil, err
	}
	space.AddJoin(join)
	return join, nil
}

// MakeDmlRoot builds the target of an insert, update or delete. It belongs
// to no space.
func (b *FromElementBuilder) MakeDmlRoot(scope ScopeID, t metamodel.EntityTypeDescriptor, alias string) (*sqm.RootEntityFromElement, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	s := b.scopes.Get(scope)
	if s.DmlRoot != nil {
		return nil, newInvariant("statement already has target %s", s.DmlRoot.Alias())
	}
	alias, err := b.alias(alias)
	if err != nil {
		return nil, err
	}
	root := sqm.NewRootEntity(b.uid(), alias, nil, t)
	if err := b.register(scope, root); err != nil {
		return nil, err
	}
	s.DmlRoot = root
	return root, nil
}

// MakeTreated narrows e to subtype.
func (b *FromElementBuilder) MakeTreated(e sqm.FromElement, subtype *metamodel.EntityType) (*sqm.TreatedFromElement, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if err := checkTreat(e.BoundType(), subtype); err != nil {
		return nil, err
	}
	return sqm.NewTreated(e, subtype), nil
}

// checkTreat verifies that subtype narrows t.
func checkTreat(t metamodel.TypeDescriptor, subtype *metamodel.EntityType) error {
	switch bound := t.(type) {
	case *metamodel.EntityType:
		if subtype.IsSubtypeOf(bound) {
			return nil
		}
	case *metamodel.PolymorphicEntityType:
		for _, impl := range bound.Implementors() {
			if subtype.IsSubtypeOf(impl) {
				return nil
			}
		}
	}
	name := "<none>"
	if t != nil {
		name = t.Name()
	}
	return newUnresolved(subtype.Name(), nil, "cannot treat %s as %s: not a subtype", name, subtype.Name())
}
