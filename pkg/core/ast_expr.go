package core

import (
	"strings"

	"github.com/leapstack-labs/leapql/pkg/token"
)

// ---------- Expression Types ----------

// Path is a dotted identifier sequence such as `p.mate.name`.
type Path struct {
	NodeInfo
	Parts []string
}

func (*Path) exprNode() {}

// String returns the dotted form of the path.
func (p *Path) String() string { return strings.Join(p.Parts, ".") }

// TreatExpr is `treat(path as Subtype)` optionally followed by `.rest`.
type TreatExpr struct {
	NodeInfo
	Path    *Path
	Subtype string
	Rest    []string
}

func (*TreatExpr) exprNode() {}

// IndexedPath is `collection[index]` optionally followed by `.rest`.
type IndexedPath struct {
	NodeInfo
	Collection *Path
	Index      Expr
	Rest       []string
}

func (*IndexedPath) exprNode() {}

// LiteralKind represents the type of a literal.
type LiteralKind int

// LiteralKind constants for query-language literal values.
const (
	LiteralInteger LiteralKind = iota
	LiteralLong
	LiteralFloat
	LiteralDouble
	LiteralString
	LiteralBoolean
	LiteralNull
)

var literalKindNames = [...]string{
	LiteralInteger: "integer",
	LiteralLong:    "long",
	LiteralFloat:   "float",
	LiteralDouble:  "double",
	LiteralString:  "string",
	LiteralBoolean: "boolean",
	LiteralNull:    "null",
}

// String returns the lowercase name of the kind.
func (k LiteralKind) String() string {
	if int(k) < len(literalKindNames) {
		return literalKindNames[k]
	}
	return "unknown"
}

// Literal is a literal value. Value holds the text without type suffixes or
// quotes.
type Literal struct {
	NodeInfo
	Kind  LiteralKind
	Value string
}

func (*Literal) exprNode() {}

// NamedParameter is `:name`.
type NamedParameter struct {
	NodeInfo
	Name string
}

func (*NamedParameter) exprNode() {}

// PositionalParameter is `?N`.
type PositionalParameter struct {
	NodeInfo
	Position int
}

func (*PositionalParameter) exprNode() {}

// BinaryExpr is an arithmetic or concatenation expression.
type BinaryExpr struct {
	NodeInfo
	Left  Expr
	Op    token.TokenType
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr is a signed expression (`-x`, `+x`).
type UnaryExpr struct {
	NodeInfo
	Op      token.TokenType
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// FuncCall is a function or aggregate call.
type FuncCall struct {
	NodeInfo
	Name     string // lowercase
	Distinct bool
	Star     bool // count(*)
	Args     []Expr
}

func (*FuncCall) exprNode() {}

// SubqueryExpr is a parenthesized query spec used as an expression.
type SubqueryExpr struct {
	NodeInfo
	Query *QuerySpec
}

func (*SubqueryExpr) exprNode() {}

// ParenExpr is a parenthesized expression or predicate.
type ParenExpr struct {
	NodeInfo
	Inner Expr
}

func (*ParenExpr) exprNode() {}

// ---------- Predicate Types ----------

// LogicalExpr is `left AND right` or `left OR right`.
type LogicalExpr struct {
	NodeInfo
	Op    token.TokenType
	Left  Expr
	Right Expr
}

func (*LogicalExpr) exprNode() {}

// NotExpr is `NOT operand`.
type NotExpr struct {
	NodeInfo
	Operand Expr
}

func (*NotExpr) exprNode() {}

// ComparisonExpr is a relational comparison.
type ComparisonExpr struct {
	NodeInfo
	Left  Expr
	Op    token.TokenType
	Right Expr
}

func (*ComparisonExpr) exprNode() {}

// IsNullExpr is `operand IS [NOT] NULL`.
type IsNullExpr struct {
	NodeInfo
	Operand Expr
	Not     bool
}

func (*IsNullExpr) exprNode() {}

// IsEmptyExpr is `collection IS [NOT] EMPTY`.
type IsEmptyExpr struct {
	NodeInfo
	Operand Expr
	Not     bool
}

func (*IsEmptyExpr) exprNode() {}

// LikeExpr is `operand [NOT] LIKE pattern [ESCAPE escape]`.
type LikeExpr struct {
	NodeInfo
	Operand Expr
	Pattern Expr
	Escape  Expr
	Not     bool
}

func (*LikeExpr) exprNode() {}

// BetweenExpr is `operand [NOT] BETWEEN low AND high`.
type BetweenExpr struct {
	NodeInfo
	Operand Expr
	Low     Expr
	High    Expr
	Not     bool
}

func (*BetweenExpr) exprNode() {}

// InExpr is `operand [NOT] IN (values)` or `operand [NOT] IN (subquery)`.
// A single parameter without parentheses is stored in Values.
type InExpr struct {
	NodeInfo
	Operand Expr
	Values  []Expr
	Query   *QuerySpec
	Not     bool
}

func (*InExpr) exprNode() {}

// MemberOfExpr is `operand [NOT] MEMBER [OF] collection`.
type MemberOfExpr struct {
	NodeInfo
	Operand    Expr
	Collection *Path
	Not        bool
}

func (*MemberOfExpr) exprNode() {}

// ExistsExpr is `[NOT] EXISTS (subquery)`.
type ExistsExpr struct {
	NodeInfo
	Query *QuerySpec
	Not   bool
}

func (*ExistsExpr) exprNode() {}
