package core

// ---------- Statement Types ----------

// SelectStatement is a top-level query with optional ordering and paging.
type SelectStatement struct {
	NodeInfo
	Query   *QuerySpec
	OrderBy []*OrderByItem
	Limit   Expr
	Offset  Expr
}

func (*SelectStatement) stmtNode() {}

// InsertStatement is `insert into Entity (a, b) <query-spec>`.
type InsertStatement struct {
	NodeInfo
	Target     *EntityName
	Attributes []*Path
	Query      *QuerySpec
}

func (*InsertStatement) stmtNode() {}

// UpdateStatement is `update [versioned] Entity [as] e set ... [where ...]`.
type UpdateStatement struct {
	NodeInfo
	Versioned   bool
	Target      *EntityName
	Assignments []*Assignment
	Where       Expr
}

func (*UpdateStatement) stmtNode() {}

// DeleteStatement is `delete [from] Entity [as] e [where ...]`.
type DeleteStatement struct {
	NodeInfo
	Target *EntityName
	Where  Expr
}

func (*DeleteStatement) stmtNode() {}

// EntityName is an entity name with an optional identification variable.
// It is the target of DML statements.
type EntityName struct {
	NodeInfo
	Name  string
	Alias string
}

// Assignment is a single `path = value` pair of an update set clause.
type Assignment struct {
	NodeInfo
	Target *Path
	Value  Expr
}

// QuerySpec is the select/from/where/group by/having unit shared by the
// statement kinds and by subqueries.
type QuerySpec struct {
	NodeInfo
	Select  *SelectClause // nil when the select clause was omitted
	From    *FromClause
	Where   Expr
	GroupBy []Expr
	Having  Expr
}

// SelectClause is the projection of a query spec.
type SelectClause struct {
	NodeInfo
	Distinct bool
	Items    []*Selection
}

// Selection is one projected expression with an optional result alias.
type Selection struct {
	NodeInfo
	Expr  Expr
	Alias string
}

// InstantiationKind identifies the target of a dynamic instantiation.
type InstantiationKind int

// InstantiationKind constants.
const (
	InstantiateClass InstantiationKind = iota
	InstantiateMap
	InstantiateList
)

// DynamicInstantiation is `new Class(args)`, `new map(args)` or `new list(args)`.
type DynamicInstantiation struct {
	NodeInfo
	Kind      InstantiationKind
	ClassName string
	Args      []*Selection
}

func (*DynamicInstantiation) exprNode() {}

// OrderByItem is one sort specification.
type OrderByItem struct {
	NodeInfo
	Expr       Expr
	Descending bool
	Nulls      NullPrecedence
}

// NullPrecedence is the `nulls first|last` modifier.
type NullPrecedence int

// NullPrecedence constants.
const (
	NullsDefault NullPrecedence = iota
	NullsFirst
	NullsLast
)

// String returns the keyword form of the precedence.
func (n NullPrecedence) String() string {
	switch n {
	case NullsFirst:
		return "nulls first"
	case NullsLast:
		return "nulls last"
	default:
		return ""
	}
}
