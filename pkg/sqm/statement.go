package sqm

// StatementKind identifies the statement variant.
type StatementKind int

// StatementKind constants.
const (
	KindSelect StatementKind = iota
	KindInsert
	KindUpdate
	KindDelete
)

func (k StatementKind) String() string {
	return [...]string{"select", "insert", "update", "delete"}[k]
}

// Statement is the root of a semantic query model.
type Statement interface {
	Node
	Kind() StatementKind
}

// SelectStatement is a query with optional ordering and paging.
type SelectStatement struct {
	QuerySpec *QuerySpec
	OrderBy   []*SortSpecification
	Limit     Expression
	Offset    Expression
}

// Kind implements Statement.
func (*SelectStatement) Kind() StatementKind { return KindSelect }

// InsertSelectStatement inserts the rows of a query spec into Target.
type InsertSelectStatement struct {
	Target     *RootEntityFromElement
	Attributes []*AttributeReference
	QuerySpec  *QuerySpec
}

// Kind implements Statement.
func (*InsertSelectStatement) Kind() StatementKind { return KindInsert }

// UpdateStatement assigns values to attributes of Target.
type UpdateStatement struct {
	Target      *RootEntityFromElement
	Versioned   bool
	Assignments []*Assignment
	Where       *WhereClause
}

// Kind implements Statement.
func (*UpdateStatement) Kind() StatementKind { return KindUpdate }

// DeleteStatement deletes instances of Target.
type DeleteStatement struct {
	Target *RootEntityFromElement
	Where  *WhereClause
}

// Kind implements Statement.
func (*DeleteStatement) Kind() StatementKind { return KindDelete }

// Assignment is one `target = value` of an update.
type Assignment struct {
	Target *AttributeReference
	Value  Expression
}

// QuerySpec is the select/from/where/group by/having unit.
type QuerySpec struct {
	FromClause   *FromClause
	SelectClause *SelectClause
	WhereClause  *WhereClause
	GroupBy      []Expression
	Having       Predicate
}

// SelectClause is the projection of a query spec.
type SelectClause struct {
	Distinct   bool
	Selections []*Selection
}

// Selection is one projected expression with an optional result alias.
type Selection struct {
	Expr  Expression
	Alias string
}

// WhereClause wraps the restriction predicate.
type WhereClause struct {
	Predicate Predicate
}

// NullPrecedence is the `nulls first|last` modifier.
type NullPrecedence int

// NullPrecedence constants.
const (
	NullsDefault NullPrecedence = iota
	NullsFirst
	NullsLast
)

// SortSpecification is one order by item.
type SortSpecification struct {
	Expr       Expression
	Descending bool
	Nulls      NullPrecedence
}
