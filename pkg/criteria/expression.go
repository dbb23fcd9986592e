package criteria

import (
	"strings"

	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// Expression is a value of a criteria query. The set of implementations is
// closed.
type Expression interface {
	expressionNode()
}

// Path navigates attributes starting at a from node.
type Path struct {
	source From
	parts  []string
}

func newPath(source From, attribute string) *Path {
	return &Path{source: source, parts: splitPath(attribute)}
}

// Get navigates one or more further attributes.
func (p *Path) Get(attribute string) *Path {
	parts := make([]string, 0, len(p.parts)+1)
	parts = append(parts, p.parts...)
	return &Path{source: p.source, parts: append(parts, splitPath(attribute)...)}
}

// Treat narrows the entity the path ends at to subtype.
func (p *Path) Treat(subtype string) *Treated {
	return &Treated{source: p, subtype: subtype}
}

func splitPath(attribute string) []string {
	return strings.Split(attribute, ".")
}

// LiteralValue is a constant. Strings, booleans, nil and the Go integer and
// floating point types are supported.
type LiteralValue struct {
	value any
}

// Literal wraps v as a constant.
func Literal(v any) *LiteralValue { return &LiteralValue{value: v} }

// Null is the null literal.
func Null() *LiteralValue { return &LiteralValue{} }

// Parameter is a named or positional query parameter.
type Parameter struct {
	name     string
	position int
}

// Param is the named parameter :name.
func Param(name string) *Parameter { return &Parameter{name: name} }

// Positional is the positional parameter ?position.
func Positional(position int) *Parameter { return &Parameter{position: position} }

// TypeLiteral names an entity type as a value.
type TypeLiteral struct {
	entity string
}

// Type returns the entity type named entity as a value.
func Type(entity string) *TypeLiteral { return &TypeLiteral{entity: entity} }

// EnumConstant is a constant of an enum class.
type EnumConstant struct {
	class    string
	constant string
}

// Enum returns constant of the enum class.
func Enum(class, constant string) *EnumConstant {
	return &EnumConstant{class: class, constant: constant}
}

// FunctionCall calls a function or aggregate.
type FunctionCall struct {
	name     string
	args     []Expression
	distinct bool
	star     bool
}

// Function calls name with args.
func Function(name string, args ...Expression) *FunctionCall {
	return &FunctionCall{name: strings.ToLower(name), args: args}
}

// CountAll is count(*).
func CountAll() *FunctionCall { return &FunctionCall{name: "count", star: true} }

// Count counts the non-null values of e.
func Count(e Expression) *FunctionCall { return Function("count", e) }

// CountDistinct counts the distinct values of e.
func CountDistinct(e Expression) *FunctionCall {
	return &FunctionCall{name: "count", args: []Expression{e}, distinct: true}
}

// Sum is sum(e).
func Sum(e Expression) *FunctionCall { return Function("sum", e) }

// Avg is avg(e).
func Avg(e Expression) *FunctionCall { return Function("avg", e) }

// Min is min(e).
func Min(e Expression) *FunctionCall { return Function("min", e) }

// Max is max(e).
func Max(e Expression) *FunctionCall { return Function("max", e) }

// Size is the number of elements of a collection attribute.
func Size(collection Expression) *FunctionCall { return Function("size", collection) }

// Upper is upper(e).
func Upper(e Expression) *FunctionCall { return Function("upper", e) }

// Lower is lower(e).
func Lower(e Expression) *FunctionCall { return Function("lower", e) }

// Arithmetic is a binary arithmetic expression.
type Arithmetic struct {
	op          sqm.ArithmeticOp
	left, right Expression
}

// Add is left + right.
func Add(left, right Expression) *Arithmetic {
	return &Arithmetic{op: sqm.OpAdd, left: left, right: right}
}

// Subtract is left - right.
func Subtract(left, right Expression) *Arithmetic {
	return &Arithmetic{op: sqm.OpSubtract, left: left, right: right}
}

// Multiply is left * right.
func Multiply(left, right Expression) *Arithmetic {
	return &Arithmetic{op: sqm.OpMultiply, left: left, right: right}
}

// Divide is left / right.
func Divide(left, right Expression) *Arithmetic {
	return &Arithmetic{op: sqm.OpDivide, left: left, right: right}
}

// Modulo is left % right.
func Modulo(left, right Expression) *Arithmetic {
	return &Arithmetic{op: sqm.OpModulo, left: left, right: right}
}

// Negation is -operand.
type Negation struct {
	operand Expression
}

// Neg negates e.
func Neg(e Expression) *Negation { return &Negation{operand: e} }

// Concatenation is left || right.
type Concatenation struct {
	left, right Expression
}

// Concat concatenates two strings.
func Concat(left, right Expression) *Concatenation {
	return &Concatenation{left: left, right: right}
}

// SubqueryValue uses a subquery as a scalar value.
type SubqueryValue struct {
	query *Query
}

// Scalar uses sub as a value. sub must select one item.
func Scalar(sub *Query) *SubqueryValue { return &SubqueryValue{query: sub} }

// Instantiation is a dynamic instantiation in a select clause.
type Instantiation struct {
	kind  sqm.InstantiationKind
	class string
	args  []Selection
}

// Construct instantiates class with args.
func Construct(class string, args ...Expression) *Instantiation {
	return &Instantiation{kind: sqm.InstantiateClass, class: class, args: unaliased(args)}
}

// ListOf collects args into a list.
func ListOf(args ...Expression) *Instantiation {
	return &Instantiation{kind: sqm.InstantiateList, args: unaliased(args)}
}

// MapOf collects args into a map keyed by their aliases.
func MapOf(args ...Selection) *Instantiation {
	return &Instantiation{kind: sqm.InstantiateMap, args: args}
}

func unaliased(exprs []Expression) []Selection {
	out := make([]Selection, len(exprs))
	for i, e := range exprs {
		out[i] = Selection{Expr: e}
	}
	return out
}

func (*Root) expressionNode()          {}
func (*Join) expressionNode()          {}
func (*EntityJoin) expressionNode()    {}
func (*CrossJoin) expressionNode()     {}
func (*Treated) expressionNode()       {}
func (*Path) expressionNode()          {}
func (*LiteralValue) expressionNode()  {}
func (*Parameter) expressionNode()     {}
func (*TypeLiteral) expressionNode()   {}
func (*EnumConstant) expressionNode()  {}
func (*FunctionCall) expressionNode()  {}
func (*Arithmetic) expressionNode()    {}
func (*Negation) expressionNode()      {}
func (*Concatenation) expressionNode() {}
func (*SubqueryValue) expressionNode() {}
func (*Instantiation) expressionNode() {}
