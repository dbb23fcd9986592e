// Package criteria builds queries as object graphs instead of text.
//
// A Query is assembled from roots, joins, paths and predicate constructors
// and interpreted into the same semantic query model as textual queries,
// through the same scopes, builder and path resolvers:
//
//	q := criteria.New()
//	p := q.From("Person").As("p")
//	k := p.Join("kids").As("k")
//	q.Select(p.Get("name"), k).
//		Where(criteria.Greater(k.Get("age"), criteria.Param("minAge")))
//	stmt, err := criteria.Interpret(q, ctx, semantic.Options{})
//
// Paths reference from nodes directly, so criteria queries never resolve
// aliases by name. A node used outside the query, or subquery, that
// declares it is reported as an unresolved reference.
package criteria

import "github.com/leapstack-labs/leapql/pkg/sqm"

// Query is a select query or subquery under construction. It is not safe
// for concurrent use.
type Query struct {
	parent     *Query
	distinct   bool
	roots      []*Root
	selections []Selection
	where      []Predicate
	groupBy    []Expression
	having     []Predicate
	orderBy    []*Order
	limit      Expression
	offset     Expression
}

// New creates an empty top-level query.
func New() *Query { return &Query{} }

// Subquery creates a query nested in q. Its predicates may reference the
// from nodes of q.
func (q *Query) Subquery() *Query { return &Query{parent: q} }

// From adds a root of entity in a new from element space.
func (q *Query) From(entity string) *Root {
	r := &Root{entity: entity}
	r.root = r
	q.roots = append(q.roots, r)
	return r
}

// Select appends unaliased selections.
func (q *Query) Select(items ...Expression) *Query {
	for _, e := range items {
		q.selections = append(q.selections, Selection{Expr: e})
	}
	return q
}

// Multiselect appends selections that may carry result aliases.
func (q *Query) Multiselect(items ...Selection) *Query {
	q.selections = append(q.selections, items...)
	return q
}

// Distinct marks the selection distinct.
func (q *Query) Distinct() *Query {
	q.distinct = true
	return q
}

// Where adds restrictions. Every call is conjoined with the previous ones.
func (q *Query) Where(preds ...Predicate) *Query {
	q.where = append(q.where, preds...)
	return q
}

// GroupBy appends grouping expressions.
func (q *Query) GroupBy(exprs ...Expression) *Query {
	q.groupBy = append(q.groupBy, exprs...)
	return q
}

// Having adds group restrictions, conjoined like Where.
func (q *Query) Having(preds ...Predicate) *Query {
	q.having = append(q.having, preds...)
	return q
}

// OrderBy appends sort items. Only top-level queries may be ordered.
func (q *Query) OrderBy(orders ...*Order) *Query {
	q.orderBy = append(q.orderBy, orders...)
	return q
}

// Limit sets the maximum number of results.
func (q *Query) Limit(e Expression) *Query {
	q.limit = e
	return q
}

// Offset sets the number of results to skip.
func (q *Query) Offset(e Expression) *Query {
	q.offset = e
	return q
}

// Selection is one select item.
type Selection struct {
	Expr  Expression
	Alias string
}

// As returns e selected under alias.
func As(e Expression, alias string) Selection {
	return Selection{Expr: e, Alias: alias}
}

// Order is one order by item.
type Order struct {
	expr       Expression
	descending bool
	nulls      sqm.NullPrecedence
}

// Asc sorts by e ascending.
func Asc(e Expression) *Order { return &Order{expr: e} }

// Desc sorts by e descending.
func Desc(e Expression) *Order { return &Order{expr: e, descending: true} }

// NullsFirst sorts nulls before other values.
func (o *Order) NullsFirst() *Order {
	o.nulls = sqm.NullsFirst
	return o
}

// NullsLast sorts nulls after other values.
func (o *Order) NullsLast() *Order {
	o.nulls = sqm.NullsLast
	return o
}

// From is a node of a from clause. Every From can be used as an
// expression that references its element.
type From interface {
	Expression
	// Alias returns the declared alias, or "" when the element is aliased
	// implicitly.
	Alias() string
	// Get navigates to an attribute of the element.
	Get(attribute string) *Path
	// Join adds an explicit inner join of an attribute path to the space
	// of the element. The path may be dotted.
	Join(attribute string) *Join
	// Treat narrows the element to a subtype.
	Treat(subtype string) *Treated

	space() *Root
}

// node carries what every from node has in common.
type node struct {
	alias string
	root  *Root
}

func (n *node) Alias() string { return n.alias }

func (n *node) space() *Root { return n.root }

func (n *node) addJoin(j joinNode) {
	n.root.joins = append(n.root.joins, j)
}

// joinNode is a join appended to the space of a root.
type joinNode interface {
	From
	joinNode()
}

// Root is the root of a from element space.
type Root struct {
	node
	entity string
	joins  []joinNode
}

// As declares the alias of the root.
func (r *Root) As(alias string) *Root {
	r.alias = alias
	return r
}

// Get implements From.
func (r *Root) Get(attribute string) *Path { return newPath(r, attribute) }

// Join implements From.
func (r *Root) Join(attribute string) *Join { return newJoin(r, attribute) }

// Treat implements From.
func (r *Root) Treat(subtype string) *Treated { return &Treated{source: r, subtype: subtype} }

// CrossJoin adds a cross join of entity to the space of r.
func (r *Root) CrossJoin(entity string) *CrossJoin {
	j := &CrossJoin{node: node{root: r}, entity: entity}
	j.addJoin(j)
	return j
}

// JoinEntity adds an inner join of an unrelated entity to the space of r.
// Restrict it with On.
func (r *Root) JoinEntity(entity string) *EntityJoin {
	j := &EntityJoin{node: node{root: r}, entity: entity, joinType: sqm.JoinInner}
	j.addJoin(j)
	return j
}

// Join is an explicit join of an attribute path.
type Join struct {
	node
	parent   From
	parts    []string
	joinType sqm.JoinType
	fetch    bool
	treatAs  string
	on       Predicate
}

func newJoin(parent From, attribute string) *Join {
	j := &Join{node: node{root: parent.space()}, parent: parent, parts: splitPath(attribute), joinType: sqm.JoinInner}
	j.addJoin(j)
	return j
}

// As declares the alias of the join.
func (j *Join) As(alias string) *Join {
	j.alias = alias
	return j
}

// Left makes the join a left outer join.
func (j *Join) Left() *Join {
	j.joinType = sqm.JoinLeft
	return j
}

// Fetch makes the join a fetch join.
func (j *Join) Fetch() *Join {
	j.fetch = true
	return j
}

// TreatAs narrows the joined element to subtype.
func (j *Join) TreatAs(subtype string) *Join {
	j.treatAs = subtype
	return j
}

// On restricts the join. Repeated calls are conjoined.
func (j *Join) On(preds ...Predicate) *Join {
	j.on = conjoin(j.on, preds)
	return j
}

// Get implements From.
func (j *Join) Get(attribute string) *Path { return newPath(j, attribute) }

// Join implements From.
func (j *Join) Join(attribute string) *Join { return newJoin(j, attribute) }

// Treat implements From.
func (j *Join) Treat(subtype string) *Treated { return &Treated{source: j, subtype: subtype} }

// EntityJoin is an explicit join of an unrelated entity.
type EntityJoin struct {
	node
	entity   string
	joinType sqm.JoinType
	on       Predicate
}

// As declares the alias of the join.
func (j *EntityJoin) As(alias string) *EntityJoin {
	j.alias = alias
	return j
}

// Left makes the join a left outer join.
func (j *EntityJoin) Left() *EntityJoin {
	j.joinType = sqm.JoinLeft
	return j
}

// On restricts the join. Repeated calls are conjoined.
func (j *EntityJoin) On(preds ...Predicate) *EntityJoin {
	j.on = conjoin(j.on, preds)
	return j
}

// Get implements From.
func (j *EntityJoin) Get(attribute string) *Path { return newPath(j, attribute) }

// Join implements From.
func (j *EntityJoin) Join(attribute string) *Join { return newJoin(j, attribute) }

// Treat implements From.
func (j *EntityJoin) Treat(subtype string) *Treated { return &Treated{source: j, subtype: subtype} }

// CrossJoin is a cross join of an entity.
type CrossJoin struct {
	node
	entity string
}

// As declares the alias of the join.
func (j *CrossJoin) As(alias string) *CrossJoin {
	j.alias = alias
	return j
}

// Get implements From.
func (j *CrossJoin) Get(attribute string) *Path { return newPath(j, attribute) }

// Join implements From.
func (j *CrossJoin) Join(attribute string) *Join { return newJoin(j, attribute) }

// Treat implements From.
func (j *CrossJoin) Treat(subtype string) *Treated { return &Treated{source: j, subtype: subtype} }

// Treated narrows a from node, or the entity a path ends at, to a subtype.
type Treated struct {
	source  Expression
	subtype string
}

// Alias implements From. A treated node shares the alias of its source.
func (t *Treated) Alias() string {
	if f, ok := t.source.(From); ok {
		return f.Alias()
	}
	return ""
}

// Get implements From.
func (t *Treated) Get(attribute string) *Path { return newPath(t, attribute) }

// Join implements From.
func (t *Treated) Join(attribute string) *Join { return newJoin(t, attribute) }

// Treat implements From.
func (t *Treated) Treat(subtype string) *Treated { return &Treated{source: t, subtype: subtype} }

func (t *Treated) space() *Root {
	switch s := t.source.(type) {
	case From:
		return s.space()
	case *Path:
		return s.source.space()
	}
	return nil
}

func (*Join) joinNode()       {}
func (*EntityJoin) joinNode() {}
func (*CrossJoin) joinNode()  {}

var (
	_ From = (*Root)(nil)
	_ From = (*Join)(nil)
	_ From = (*EntityJoin)(nil)
	_ From = (*CrossJoin)(nil)
	_ From = (*Treated)(nil)
)
