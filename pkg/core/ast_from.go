package core

// ---------- From Clause Types ----------

// FromClause lists the from-element spaces of a query spec.
type FromClause struct {
	NodeInfo
	Spaces []*FromElementSpace
}

// FromElementSpace is one comma-separated item of a from clause: a root
// entity followed by the joins hanging off it.
type FromElementSpace struct {
	NodeInfo
	Root  *RootEntity
	Joins []Join
}

// RootEntity is `Entity [as] alias` at the head of a space.
type RootEntity struct {
	NodeInfo
	EntityName string
	Alias      string
}

// CrossJoin is `cross join Entity [as] alias`.
type CrossJoin struct {
	NodeInfo
	EntityName string
	Alias      string
}

func (*CrossJoin) joinNode() {}

// JoinKind is the explicit join type keyword.
type JoinKind int

// JoinKind constants.
const (
	JoinInner JoinKind = iota
	JoinLeftOuter
)

// String returns the keyword form of the join type.
func (k JoinKind) String() string {
	if k == JoinLeftOuter {
		return "left outer"
	}
	return "inner"
}

// QualifiedJoin is `[left [outer]|inner] join [fetch] target [as] alias [on pred]`.
//
// Target is written as a path. Whether it names an attribute of an earlier
// from element or an entity is decided during semantic analysis.
type QualifiedJoin struct {
	NodeInfo
	Kind    JoinKind
	Fetch   bool
	Target  *Path
	TreatAs string // subtype from `treat(path as Sub)`, empty otherwise
	Alias   string
	On      Expr
}

func (*QualifiedJoin) joinNode() {}

// CollectionJoin is the legacy `, in(p.kids) k` member join.
type CollectionJoin struct {
	NodeInfo
	Path  *Path
	Alias string
}

func (*CollectionJoin) joinNode() {}
