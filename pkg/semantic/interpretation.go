package semantic

import (
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapql/pkg/core"
	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// ConsumerContext is what an interpretation needs from its caller.
type ConsumerContext interface {
	// ResolveEntityType resolves an entity name or class name. Unknown names
	// are an error.
	ResolveEntityType(name string) (metamodel.EntityTypeDescriptor, error)
	// UseStrictCompliance turns on the strict-mode checks.
	UseStrictCompliance() bool
}

// EnumResolver is optionally implemented by a ConsumerContext to enable
// enum constant literals.
type EnumResolver interface {
	ResolveEnum(className string) (*metamodel.EnumType, bool)
}

// ModelContext is a ConsumerContext backed by a metamodel.
type ModelContext struct {
	Model  *metamodel.Model
	Strict bool
}

// ResolveEntityType implements ConsumerContext.
func (c ModelContext) ResolveEntityType(name string) (metamodel.EntityTypeDescriptor, error) {
	return c.Model.ResolveEntityType(name)
}

// UseStrictCompliance implements ConsumerContext.
func (c ModelContext) UseStrictCompliance() bool { return c.Strict }

// ResolveEnum implements EnumResolver.
func (c ModelContext) ResolveEnum(className string) (*metamodel.EnumType, bool) {
	return c.Model.ResolveEnum(className)
}

// Options configures an interpretation.
type Options struct {
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// Metrics records interpretation outcomes (optional)
	Metrics *Metrics
}

// Interpretation holds the state of interpreting one statement: its scopes,
// alias counter, builder and index. It is used once and then discarded.
type Interpretation struct {
	id      string
	ctx     ConsumerContext
	enums   EnumResolver
	logger  *slog.Logger
	metrics *Metrics

	aliases *ImplicitAliasGenerator
	scopes  *Scopes
	index   *FromClauseIndex
	builder *FromElementBuilder

	// specScopes maps each processed query spec to its finished scope.
	specScopes map[*core.QuerySpec]ScopeID
	processor  *FromClauseProcessor
}

// NewInterpretation creates a fresh interpretation.
func NewInterpretation(ctx ConsumerContext, opts Options) *Interpretation {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.NewString()

	scopes := NewScopes()
	aliases := &ImplicitAliasGenerator{}
	interp := &Interpretation{
		id:         id,
		ctx:        ctx,
		logger:     logger.With("interpretation", id),
		metrics:    opts.Metrics,
		aliases:    aliases,
		scopes:     scopes,
		index:      NewFromClauseIndex(scopes),
		builder:    NewFromElementBuilder(scopes, aliases),
		specScopes: make(map[*core.QuerySpec]ScopeID),
	}
	if enums, ok := ctx.(EnumResolver); ok {
		interp.enums = enums
	}
	interp.processor = &FromClauseProcessor{interp: interp}
	return interp
}

// ID returns the unique id carried by every log record of the
// interpretation.
func (i *Interpretation) ID() string { return i.id }

// Strict reports whether strict compliance is on.
func (i *Interpretation) Strict() bool { return i.ctx.UseStrictCompliance() }

// Scopes returns the scope arena.
func (i *Interpretation) Scopes() *Scopes { return i.scopes }

// Index returns the from clause index.
func (i *Interpretation) Index() *FromClauseIndex { return i.index }

// Builder returns the from element builder.
func (i *Interpretation) Builder() *FromElementBuilder { return i.builder }

// Aliases returns the implicit alias generator.
func (i *Interpretation) Aliases() *ImplicitAliasGenerator { return i.aliases }

// Logger returns the interpretation's logger.
func (i *Interpretation) Logger() *slog.Logger { return i.logger }

// ScopeOf returns the scope built for a query spec by the first pass.
func (i *Interpretation) ScopeOf(spec *core.QuerySpec) (ScopeID, bool) {
	id, ok := i.specScopes[spec]
	return id, ok
}

// ResolveEntityType resolves name through the consumer context. Unknown
// entities become an UnresolvedReferenceError.
func (i *Interpretation) ResolveEntityType(name string) (metamodel.EntityTypeDescriptor, error) {
	t, err := i.ctx.ResolveEntityType(name)
	if err != nil {
		var unknown *metamodel.UnknownEntityError
		if errors.As(err, &unknown) {
			return nil, newUnresolved(name, unknown.Suggestions, "unknown entity %q", name)
		}
		return nil, err
	}
	return t, nil
}

// ResolveSubtype resolves the target of a treat, which must be a mapped
// entity.
func (i *Interpretation) ResolveSubtype(name string) (*metamodel.EntityType, error) {
	t, err := i.ResolveEntityType(name)
	if err != nil {
		return nil, err
	}
	e, ok := t.(*metamodel.EntityType)
	if !ok {
		return nil, newUnresolved(name, nil, "treat target %s is not a mapped entity", name)
	}
	return e, nil
}

// ResolveEnum resolves an enum class when the consumer context supports
// enums.
func (i *Interpretation) ResolveEnum(className string) (*metamodel.EnumType, bool) {
	if i.enums == nil {
		return nil, false
	}
	return i.enums.ResolveEnum(className)
}

// CheckImplicitSelect reports a strict violation for a query spec without a
// select clause.
func (i *Interpretation) CheckImplicitSelect() error {
	if !i.Strict() {
		return nil
	}
	i.logger.Debug("strict violation", "reason", string(ReasonImplicitSelect))
	return newStrictViolation(ReasonImplicitSelect, "query has no select clause")
}

func (i *Interpretation) checkPolymorphicRoot(t metamodel.EntityTypeDescriptor) error {
	if !t.IsPolymorphic() || !i.Strict() {
		return nil
	}
	i.logger.Debug("strict violation", "reason", string(ReasonUnmappedPolymorphism), "entity", t.Name())
	return newStrictViolation(ReasonUnmappedPolymorphism, "%s is not a mapped entity", t.Name())
}

// entityForJoin resolves an entity joined by name, which must be mapped.
func (i *Interpretation) entityForJoin(name string) (*metamodel.EntityType, error) {
	t, err := i.ResolveEntityType(name)
	if err != nil {
		return nil, err
	}
	e, ok := t.(*metamodel.EntityType)
	if !ok {
		return nil, &PolymorphicJoinError{
			baseError: baseError{msg: "unmapped polymorphic entity " + t.Name() + " can only be used as a query root"},
			Entity:    t.Name(),
		}
	}
	return e, nil
}

// Root resolves entity and makes it the root of space. An unmapped
// polymorphic entity is accepted unless strict compliance is on.
func (i *Interpretation) Root(scope ScopeID, space *sqm.FromElementSpace, entity, alias string) (*sqm.RootEntityFromElement, error) {
	t, err := i.ResolveEntityType(entity)
	if err != nil {
		return nil, err
	}
	if err := i.checkPolymorphicRoot(t); err != nil {
		return nil, err
	}
	return i.builder.MakeRootEntityFromElement(scope, space, t, alias)
}

// CrossJoin resolves entity and cross joins it into space.
func (i *Interpretation) CrossJoin(scope ScopeID, space *sqm.FromElementSpace, entity, alias string) (*sqm.CrossJoinedFromElement, error) {
	t, err := i.entityForJoin(entity)
	if err != nil {
		return nil, err
	}
	return i.builder.MakeCrossJoinedFromElement(scope, space, t, alias)
}

// EntityJoin resolves entity and joins it into space. The ON predicate is
// attached by the caller. Under strict compliance a fetch join must not
// declare an alias.
func (i *Interpretation) EntityJoin(scope ScopeID, space *sqm.FromElementSpace, entity, alias string, joinType sqm.JoinType, fetched bool) (*sqm.QualifiedEntityJoinFromElement, error) {
	t, err := i.entityForJoin(entity)
	if err != nil {
		return nil, err
	}
	if fetched && alias != "" && i.Strict() {
		i.logger.Debug("strict violation", "reason", string(ReasonAliasedFetchJoin), "alias", alias)
		return nil, newStrictViolation(ReasonAliasedFetchJoin, "fetch join of %s must not declare alias %s", t.Name(), alias)
	}
	return i.builder.BuildEntityJoin(scope, space, t, alias, joinType, fetched)
}

// implicitJoin returns the implicit join of attr from lhs, creating it in
// the scope and space that own lhs on first use.
func (i *Interpretation) implicitJoin(lhs sqm.FromElement, attr *metamodel.Attribute) (*sqm.QualifiedAttributeJoinFromElement, error) {
	owner, ok := i.scopes.OwnerOf(lhs)
	if !ok || lhs.Space() == nil {
		return nil, newUnresolved(attr.Name, nil, "cannot navigate %s.%s: implicit joins are not allowed here", lhs.Alias(), attr.Name)
	}
	scope := i.scopes.Get(owner)
	key := implicitJoinKey{lhs: lhs.UniqueID(), attribute: attr}
	if join, ok := scope.implicitJoins[key]; ok {
		return join, nil
	}

	e, err := i.builder.BuildAttributeJoin(owner, lhs.Space(), lhs, attr, JoinOptions{Type: sqm.JoinLeft, Implicit: true})
	if err != nil {
		return nil, err
	}
	join := e.(*sqm.QualifiedAttributeJoinFromElement)
	scope.implicitJoins[key] = join
	i.metrics.implicitJoin()
	i.logger.Debug("synthesized implicit join",
		"scope", owner, "lhs", lhs.Alias(), "attribute", attr.Name, "alias", join.Alias())
	return join, nil
}

// indexedJoin creates a fresh implicit join restricted to one element of an
// indexed collection. Indexed joins are never reused.
func (i *Interpretation) indexedJoin(lhs sqm.FromElement, attr *metamodel.Attribute, index sqm.Expression) (*sqm.QualifiedAttributeJoinFromElement, error) {
	if !attr.IsIndexed() {
		return nil, newUnresolved(attr.Name, nil, "%s.%s is not an indexed collection", lhs.Alias(), attr.Name)
	}
	owner, ok := i.scopes.OwnerOf(lhs)
	if !ok || lhs.Space() == nil {
		return nil, newUnresolved(attr.Name, nil, "cannot index %s.%s here", lhs.Alias(), attr.Name)
	}
	e, err := i.builder.BuildAttributeJoin(owner, lhs.Space(), lhs, attr, JoinOptions{Type: sqm.JoinLeft, Implicit: true})
	if err != nil {
		return nil, err
	}
	join := e.(*sqm.QualifiedAttributeJoinFromElement)
	join.IndexRestriction = index
	i.metrics.implicitJoin()
	return join, nil
}

// WrapUp validates the finished statement and seals the interpretation.
// Named and positional parameters cannot be mixed, and positional labels
// must run from ?1 without gaps. Repeated labels are allowed.
func (i *Interpretation) WrapUp(stmt sqm.Statement) error {
	if i.builder.sealed {
		return newInvariant("interpretation is already wrapped up")
	}
	var named, positional []sqm.Parameter
	positions := make(map[int]bool)
	for _, p := range sqm.Parameters(stmt) {
		switch p := p.(type) {
		case *sqm.NamedParameter:
			named = append(named, p)
		case *sqm.PositionalParameter:
			positional = append(positional, p)
			positions[p.Position] = true
		}
	}
	if len(named) > 0 && len(positional) > 0 {
		return &ParameterError{
			baseError: baseError{msg: "named and positional parameters cannot be mixed: found " + named[0].Label() + " and " + positional[0].Label()},
			Label:     positional[0].Label(),
		}
	}
	if len(positions) > 0 {
		labels := make([]int, 0, len(positions))
		for pos := range positions {
			labels = append(labels, pos)
		}
		sort.Ints(labels)
		for want, got := range labels {
			if got != want+1 {
				label := (&sqm.PositionalParameter{Position: want + 1}).Label()
				return &ParameterError{
					baseError: baseError{msg: "positional parameters must be contiguous from ?1: missing " + label},
					Label:     label,
				}
			}
		}
	}
	i.builder.sealed = true
	i.logger.Debug("interpretation wrapped up", "kind", stmt.Kind().String(), "scopes", i.scopes.Len())
	return nil
}

// suggestNames proposes aliases and attribute names visible from scope that
// are close to name.
func (i *Interpretation) suggestNames(scope ScopeID, name string) []string {
	var candidates []string
	candidates = append(candidates, i.scopes.Get(scope).Registry.Aliases()...)
	for _, id := range i.scopes.Chain(scope) {
		for _, e := range i.index.candidates(id) {
			candidates = append(candidates, attributeNames(e.BoundType())...)
		}
	}
	first := name
	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		first = name[:dot]
	}
	return metamodel.SuggestSimilar(first, dedupe(candidates))
}

func attributeNames(t metamodel.TypeDescriptor) []string {
	var attrs []*metamodel.Attribute
	switch t := t.(type) {
	case *metamodel.EntityType:
		attrs = t.Attributes()
	case *metamodel.PolymorphicEntityType:
		if impls := t.Implementors(); len(impls) > 0 {
			for _, a := range impls[0].Attributes() {
				if _, ok := t.AttributeByName(a.Name); ok {
					attrs = append(attrs, a)
				}
			}
		}
	}
	out := make([]string, len(attrs))
	for i, a := range attrs {
		out[i] = a.Name
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
