package sqm

import (
	"github.com/leapstack-labs/leapql/pkg/metamodel"
)

// JoinType is the join type of a from element.
type JoinType int

// JoinType constants.
const (
	JoinInner JoinType = iota
	JoinLeft
	JoinCross
)

func (j JoinType) String() string {
	switch j {
	case JoinLeft:
		return "left"
	case JoinCross:
		return "cross"
	default:
		return "inner"
	}
}

// FromElement is a bound data source: a root entity or a join.
type FromElement interface {
	Node
	// Alias is the identification variable, user-supplied or implicit.
	Alias() string
	// Space is the containing space; nil for DML roots.
	Space() *FromElementSpace
	// BoundType is the type attribute lookups run against.
	BoundType() metamodel.TypeDescriptor
	// TreatedAs returns every subtype the element has been treated as.
	TreatedAs() []*metamodel.EntityType
	// AddTreatedAs records a downcast. The set only grows.
	AddTreatedAs(t *metamodel.EntityType)
	// UniqueID identifies the element within its interpretation.
	UniqueID() string
}

// fromElement holds the state shared by the concrete from elements.
type fromElement struct {
	uid     string
	alias   string
	space   *FromElementSpace
	bound   metamodel.TypeDescriptor
	treated []*metamodel.EntityType
}

func (f *fromElement) Alias() string { return f.alias }
func (f *fromElement) Space() *FromElementSpace { return f.space }
func (f *fromElement) BoundType() metamodel.TypeDescriptor { return f.bound }
func (f *fromElement) TreatedAs() []*metamodel.EntityType { return f.treated }
func (f *fromElement) UniqueID() string { return f.uid }

func (f *fromElement) AddTreatedAs(t *metamodel.EntityType) {
	for _, existing := range f.treated {
		if existing == t {
			return
		}
	}
	f.treated = append(f.treated, t)
}

// RootEntityFromElement is the root of a space, or the target of a DML
// statement.
type RootEntityFromElement struct {
	fromElement
}

// NewRootEntity creates a root. space is nil for DML roots.
func NewRootEntity(uid, alias string, space *FromElementSpace, t metamodel.EntityTypeDescriptor) *RootEntityFromElement {
	return &RootEntityFromElement{fromElement{uid: uid, alias: alias, space: space, bound: t}}
}

// EntityType returns the entity the root ranges over.
func (r *RootEntityFromElement) EntityType() metamodel.EntityTypeDescriptor {
	return r.bound.(metamodel.EntityTypeDescriptor)
}

// CrossJoinedFromElement is an entity added with `cross join`.
type CrossJoinedFromElement struct {
	fromElement
}

// NewCrossJoin creates a cross-joined element.
func NewCrossJoin(uid, alias string, space *FromElementSpace, t *metamodel.EntityType) *CrossJoinedFromElement {
	return &CrossJoinedFromElement{fromElement{uid: uid, alias: alias, space: space, bound: t}}
}

// JoinType is always JoinCross.
func (c *CrossJoinedFromElement) JoinType() JoinType { return JoinCross }

// QualifiedAttributeJoinFromElement joins an attribute of another from
// element, either explicitly in the from clause or implicitly while
// resolving a path.
type QualifiedAttributeJoinFromElement struct {
	fromElement
	Lhs       FromElement
	Attribute *metamodel.Attribute
	JoinType  JoinType
	Fetched   bool
	// Implicit is set for joins synthesized during path resolution.
	Implicit bool
	On       Predicate
	// IndexRestriction is the index of `collection[index]` access.
	IndexRestriction Expression
}

// NewAttributeJoin creates an attribute join bound to the attribute's value
// or element type.
func NewAttributeJoin(uid, alias string, space *FromElementSpace, lhs FromElement, attr *metamodel.Attribute, joinType JoinType, fetched bool) *QualifiedAttributeJoinFromElement {
	return &QualifiedAttributeJoinFromElement{
		fromElement: fromElement{uid: uid, alias: alias, space: space, bound: attr.Type},
		Lhs:         lhs,
		Attribute:   attr,
		JoinType:    joinType,
		Fetched:     fetched,
	}
}

// QualifiedEntityJoinFromElement joins an unrelated entity with an explicit
// predicate.
type QualifiedEntityJoinFromElement struct {
	fromElement
	JoinType JoinType
	Fetched  bool
	On       Predicate
}

// NewEntityJoin creates an entity join.
func NewEntityJoin(uid, alias string, space *FromElementSpace, t metamodel.EntityTypeDescriptor, joinType JoinType, fetched bool) *QualifiedEntityJoinFromElement {
	return &QualifiedEntityJoinFromElement{
		fromElement: fromElement{uid: uid, alias: alias, space: space, bound: t},
		JoinType:    joinType,
		Fetched:     fetched,
	}
}

// TreatedFromElement narrows another from element to a subtype. Alias,
// space, identity and the treated-as set are those of the wrapped element.
type TreatedFromElement struct {
	Wrapped FromElement
	Subtype *metamodel.EntityType
}

// NewTreated wraps e as subtype and records the treat on e.
func NewTreated(e FromElement, subtype *metamodel.EntityType) *TreatedFromElement {
	e.AddTreatedAs(subtype)
	return &TreatedFromElement{Wrapped: e, Subtype: subtype}
}

func (t *TreatedFromElement) Alias() string { return t.Wrapped.Alias() }
func (t *TreatedFromElement) Space() *FromElementSpace { return t.Wrapped.Space() }
func (t *TreatedFromElement) BoundType() metamodel.TypeDescriptor { return t.Subtype }
func (t *TreatedFromElement) TreatedAs() []*metamodel.EntityType { return t.Wrapped.TreatedAs() }
func (t *TreatedFromElement) UniqueID() string { return t.Wrapped.UniqueID() }

// AddTreatedAs forwards to the wrapped element.
func (t *TreatedFromElement) AddTreatedAs(s *metamodel.EntityType) { t.Wrapped.AddTreatedAs(s) }

// Unwrap returns the innermost non-treated element.
func Unwrap(e FromElement) FromElement {
	for {
		t, ok := e.(*TreatedFromElement)
		if !ok {
			return e
		}
		e = t.Wrapped
	}
}

// FromElementSpace is a root plus the joins hanging off it, in the order
// they were created.
type FromElementSpace struct {
	FromClause *FromClause
	Root       *RootEntityFromElement
	Joins      []FromElement
}

// AddJoin appends a join.
func (s *FromElementSpace) AddJoin(j FromElement) {
	s.Joins = append(s.Joins, j)
}

// Elements returns the root followed by the joins.
func (s *FromElementSpace) Elements() []FromElement {
	out := make([]FromElement, 0, len(s.Joins)+1)
	if s.Root != nil {
		out = append(out, s.Root)
	}
	return append(out, s.Joins...)
}

// FromClause is the ordered list of spaces of a query spec. Parent links a
// subquery's from clause to the enclosing one.
type FromClause struct {
	Spaces []*FromElementSpace
	Parent *FromClause
}

// MakeSpace appends and returns a new empty space.
func (c *FromClause) MakeSpace() *FromElementSpace {
	s := &FromElementSpace{FromClause: c}
	c.Spaces = append(c.Spaces, s)
	return s
}
