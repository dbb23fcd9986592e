package semantic

import (
	"strings"

	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// Binding is the result of resolving a path. With a nil Attribute it binds
// the from element itself.
type Binding struct {
	Element   sqm.FromElement
	Attribute *metamodel.Attribute
}

// IsAttribute reports whether the binding is an attribute reference.
func (b *Binding) IsAttribute() bool { return b.Attribute != nil }

// Expression returns the binding as a model expression.
func (b *Binding) Expression() sqm.Expression {
	if b.Attribute != nil {
		return &sqm.AttributeReference{Source: b.Element, Attribute: b.Attribute}
	}
	return &sqm.FromElementReference{Element: b.Element}
}

// PathResolver resolves dotted paths. A nil binding with a nil error means
// the path names no alias or attribute in reach and the caller should try
// other interpretations.
type PathResolver interface {
	ResolvePath(parts []string) (*Binding, error)
	// ResolveTreatedPath resolves parts and narrows the result to subtype.
	// The path must end at a from element or a joinable attribute.
	ResolveTreatedPath(parts []string, subtype *metamodel.EntityType) (*Binding, error)
}

// resolution holds the hooks the resolver variants differ in.
type resolution interface {
	lookupAlias(alias string) sqm.FromElement
	lookupAttribute(name string) (sqm.FromElement, error)
	// navigate yields the join used to step through an intermediate attribute.
	navigate(lhs sqm.FromElement, attr *metamodel.Attribute) (sqm.FromElement, error)
	terminal(lhs sqm.FromElement, attr *metamodel.Attribute, treat *metamodel.EntityType) (*Binding, error)
}

// resolvePath locates the root of parts and dereferences the rest from it.
func resolvePath(r resolution, parts []string, treat *metamodel.EntityType) (*Binding, error) {
	if len(parts) == 0 {
		return nil, nil
	}
	root := r.lookupAlias(parts[0])
	rest := parts[1:]
	if root == nil {
		e, err := r.lookupAttribute(parts[0])
		if err != nil || e == nil {
			return nil, err
		}
		root, rest = e, parts
	}
	return dereference(r, root, rest, treat)
}

// dereference walks parts starting at source.
func dereference(r resolution, source sqm.FromElement, parts []string, treat *metamodel.EntityType) (*Binding, error) {
	if len(parts) == 0 {
		if treat == nil {
			return &Binding{Element: source}, nil
		}
		if err := checkTreat(source.BoundType(), treat); err != nil {
			return nil, err
		}
		return &Binding{Element: sqm.NewTreated(source, treat)}, nil
	}

	lhs := source
	for i, name := range parts {
		attr, err := attributeOf(lhs, name)
		if err != nil {
			return nil, err
		}
		if i == len(parts)-1 {
			return r.terminal(lhs, attr, treat)
		}
		if !attr.IsJoinable() {
			return nil, newUnresolved(name, nil, "cannot dereference %s.%s: %s is not an entity", lhs.Alias(), strings.Join(parts[i:], "."), attr.Type.Name())
		}
		if attr.IsPlural() {
			return nil, newUnresolved(name, nil, "cannot dereference collection %s.%s: join it explicitly", lhs.Alias(), name)
		}
		if lhs, err = r.navigate(lhs, attr); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func attributeOf(e sqm.FromElement, name string) (*metamodel.Attribute, error) {
	t := e.BoundType()
	if attr, ok := t.AttributeByName(name); ok {
		return attr, nil
	}
	suggestions := metamodel.SuggestSimilar(name, attributeNames(t))
	return nil, newUnresolved(name, suggestions, "%s (%s) has no attribute %q", e.Alias(), t.Name(), name)
}

// StandardPathResolver resolves paths in expression position: select,
// where, group by, having and order by. Aliases are visible through the
// whole scope chain and intermediate attributes are navigated through
// reusable implicit left joins.
type StandardPathResolver struct {
	interp *Interpretation
	scope  ScopeID
}

// NewStandardPathResolver creates a resolver for scope.
func NewStandardPathResolver(interp *Interpretation, scope ScopeID) *StandardPathResolver {
	return &StandardPathResolver{interp: interp, scope: scope}
}

// ResolvePath implements PathResolver.
func (r *StandardPathResolver) ResolvePath(parts []string) (*Binding, error) {
	return resolvePath(r, parts, nil)
}

// ResolveTreatedPath implements PathResolver.
func (r *StandardPathResolver) ResolveTreatedPath(parts []string, subtype *metamodel.EntityType) (*Binding, error) {
	return resolvePath(r, parts, subtype)
}

// DereferenceFrom resolves parts as attributes of source, as for the
// remainder of `treat(p as Sub).a.b`.
func (r *StandardPathResolver) DereferenceFrom(source sqm.FromElement, parts []string) (*Binding, error) {
	return dereference(r, source, parts, nil)
}

// DereferenceTreatedFrom is DereferenceFrom narrowing the result to subtype.
func (r *StandardPathResolver) DereferenceTreatedFrom(source sqm.FromElement, parts []string, subtype *metamodel.EntityType) (*Binding, error) {
	return dereference(r, source, parts, subtype)
}

func (r *StandardPathResolver) lookupAlias(alias string) sqm.FromElement {
	return r.interp.index.FindFromElementByAlias(r.scope, alias)
}

func (r *StandardPathResolver) lookupAttribute(name string) (sqm.FromElement, error) {
	return r.interp.index.FindFromElementWithAttribute(r.scope, name)
}

func (r *StandardPathResolver) navigate(lhs sqm.FromElement, attr *metamodel.Attribute) (sqm.FromElement, error) {
	return r.interp.implicitJoin(lhs, attr)
}

func (r *StandardPathResolver) terminal(lhs sqm.FromElement, attr *metamodel.Attribute, treat *metamodel.EntityType) (*Binding, error) {
	if treat == nil {
		return &Binding{Element: lhs, Attribute: attr}, nil
	}
	if !attr.IsJoinable() {
		return nil, newUnresolved(attr.Name, nil, "cannot treat %s.%s: %s is not an entity", lhs.Alias(), attr.Name, attr.Type.Name())
	}
	join, err := r.interp.implicitJoin(lhs, attr)
	if err != nil {
		return nil, err
	}
	treated, err := r.interp.builder.MakeTreated(join, treat)
	if err != nil {
		return nil, err
	}
	return &Binding{Element: treated}, nil
}

// JoinTargetPathResolver resolves the target of an explicit from-clause
// join. The terminal attribute is always materialized as a join with the
// declared alias, type and fetch flag; intermediates it needs are implicit
// left joins.
type JoinTargetPathResolver struct {
	StandardPathResolver
	space    *sqm.FromElementSpace
	alias    string
	joinType sqm.JoinType
	fetched  bool
}

// NewJoinTargetPathResolver creates a resolver that adds the join to space.
func NewJoinTargetPathResolver(interp *Interpretation, scope ScopeID, space *sqm.FromElementSpace, alias string, joinType sqm.JoinType, fetched bool) *JoinTargetPathResolver {
	return &JoinTargetPathResolver{
		StandardPathResolver: StandardPathResolver{interp: interp, scope: scope},
		space:                space,
		alias:                alias,
		joinType:             joinType,
		fetched:              fetched,
	}
}

// ResolvePath implements PathResolver.
func (r *JoinTargetPathResolver) ResolvePath(parts []string) (*Binding, error) {
	return r.resolve(parts, nil)
}

// ResolveTreatedPath implements PathResolver.
func (r *JoinTargetPathResolver) ResolveTreatedPath(parts []string, subtype *metamodel.EntityType) (*Binding, error) {
	return r.resolve(parts, subtype)
}

// JoinFrom joins the attribute path parts starting at source. A non-nil
// subtype narrows the joined element.
func (r *JoinTargetPathResolver) JoinFrom(source sqm.FromElement, parts []string, subtype *metamodel.EntityType) (*Binding, error) {
	if len(parts) == 0 {
		return nil, newUnresolved(source.Alias(), nil, "join from %s names no attribute", source.Alias())
	}
	return dereference(r, source, parts, subtype)
}

func (r *JoinTargetPathResolver) resolve(parts []string, treat *metamodel.EntityType) (*Binding, error) {
	if len(parts) == 1 && r.lookupAlias(parts[0]) != nil {
		return nil, newUnresolved(parts[0], nil, "join target %s is an alias, not an attribute path", parts[0])
	}
	return resolvePath(r, parts, treat)
}

func (r *JoinTargetPathResolver) terminal(lhs sqm.FromElement, attr *metamodel.Attribute, treat *metamodel.EntityType) (*Binding, error) {
	if r.fetched && r.alias != "" && r.interp.Strict() {
		r.interp.logger.Debug("strict violation", "reason", string(ReasonAliasedFetchJoin), "alias", r.alias)
		return nil, newStrictViolation(ReasonAliasedFetchJoin, "fetch join %s.%s must not declare alias %s", lhs.Alias(), attr.Name, r.alias)
	}
	if !attr.IsJoinable() {
		return nil, newUnresolved(attr.Name, nil, "cannot join %s.%s: %s is not an entity or collection", lhs.Alias(), attr.Name, attr.Type.Name())
	}
	if treat != nil {
		if err := checkTreat(attr.Type, treat); err != nil {
			return nil, err
		}
	}
	e, err := r.interp.builder.BuildAttributeJoin(r.scope, r.space, lhs, attr, JoinOptions{
		Alias:   r.alias,
		Type:    r.joinType,
		Fetched: r.fetched,
		TreatAs: treat,
	})
	if err != nil {
		return nil, err
	}
	return &Binding{Element: e}, nil
}

// JoinPredicatePathResolver resolves the ON predicate of a join. It is
// created after the join is materialized and bound to it, so unqualified
// names and the join's own alias resolve against the join first.
type JoinPredicatePathResolver struct {
	StandardPathResolver
	join sqm.FromElement
}

// NewJoinPredicatePathResolver creates a resolver bound to join.
func NewJoinPredicatePathResolver(interp *Interpretation, scope ScopeID, join sqm.FromElement) *JoinPredicatePathResolver {
	return &JoinPredicatePathResolver{
		StandardPathResolver: StandardPathResolver{interp: interp, scope: scope},
		join:                 join,
	}
}

// ResolvePath implements PathResolver.
func (r *JoinPredicatePathResolver) ResolvePath(parts []string) (*Binding, error) {
	return resolvePath(r, parts, nil)
}

// ResolveTreatedPath implements PathResolver.
func (r *JoinPredicatePathResolver) ResolveTreatedPath(parts []string, subtype *metamodel.EntityType) (*Binding, error) {
	return resolvePath(r, parts, subtype)
}

func (r *JoinPredicatePathResolver) lookupAlias(alias string) sqm.FromElement {
	if alias == r.join.Alias() {
		return r.join
	}
	return r.StandardPathResolver.lookupAlias(alias)
}

func (r *JoinPredicatePathResolver) lookupAttribute(name string) (sqm.FromElement, error) {
	if _, ok := r.join.BoundType().AttributeByName(name); ok {
		return r.join, nil
	}
	return r.StandardPathResolver.lookupAttribute(name)
}

// DmlRootPathResolver resolves paths of update and delete statements and
// the target attributes of inserts. Only the statement target is in reach
// and implicit joins are rejected.
type DmlRootPathResolver struct {
	root sqm.FromElement
}

// NewDmlRootPathResolver creates a resolver over the target of a DML
// statement.
func NewDmlRootPathResolver(root sqm.FromElement) *DmlRootPathResolver {
	return &DmlRootPathResolver{root: root}
}

// ResolvePath implements PathResolver.
func (r *DmlRootPathResolver) ResolvePath(parts []string) (*Binding, error) {
	return resolvePath(r, parts, nil)
}

// ResolveTreatedPath implements PathResolver.
func (r *DmlRootPathResolver) ResolveTreatedPath(parts []string, subtype *metamodel.EntityType) (*Binding, error) {
	return resolvePath(r, parts, subtype)
}

func (r *DmlRootPathResolver) lookupAlias(alias string) sqm.FromElement {
	if alias == r.root.Alias() {
		return r.root
	}
	return nil
}

func (r *DmlRootPathResolver) lookupAttribute(name string) (sqm.FromElement, error) {
	if _, ok := r.root.BoundType().AttributeByName(name); ok {
		return r.root, nil
	}
	return nil, nil
}

func (r *DmlRootPathResolver) navigate(lhs sqm.FromElement, attr *metamodel.Attribute) (sqm.FromElement, error) {
	return nil, newUnresolved(attr.Name, nil, "cannot navigate %s.%s: implicit joins are not allowed in DML statements", lhs.Alias(), attr.Name)
}

func (r *DmlRootPathResolver) terminal(lhs sqm.FromElement, attr *metamodel.Attribute, treat *metamodel.EntityType) (*Binding, error) {
	if treat != nil {
		_, err := r.navigate(lhs, attr)
		return nil, err
	}
	return &Binding{Element: lhs, Attribute: attr}, nil
}

// IndexedElementPathResolver resolves what follows `collection[index]`.
// Every part is dereferenced from the join of the indexed element.
type IndexedElementPathResolver struct {
	StandardPathResolver
	source sqm.FromElement
}

// NewIndexedElementPathResolver creates a resolver rooted at the join of an
// indexed collection element.
func NewIndexedElementPathResolver(interp *Interpretation, scope ScopeID, source sqm.FromElement) *IndexedElementPathResolver {
	return &IndexedElementPathResolver{
		StandardPathResolver: StandardPathResolver{interp: interp, scope: scope},
		source:               source,
	}
}

// ResolvePath implements PathResolver.
func (r *IndexedElementPathResolver) ResolvePath(parts []string) (*Binding, error) {
	return dereference(r, r.source, parts, nil)
}

// ResolveTreatedPath implements PathResolver.
func (r *IndexedElementPathResolver) ResolveTreatedPath(parts []string, subtype *metamodel.EntityType) (*Binding, error) {
	return dereference(r, r.source, parts, subtype)
}

var (
	_ PathResolver = (*StandardPathResolver)(nil)
	_ PathResolver = (*JoinTargetPathResolver)(nil)
	_ PathResolver = (*JoinPredicatePathResolver)(nil)
	_ PathResolver = (*DmlRootPathResolver)(nil)
	_ PathResolver = (*IndexedElementPathResolver)(nil)
)
