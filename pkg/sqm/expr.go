package sqm

import (
	"strconv"

	"github.com/leapstack-labs/leapql/pkg/metamodel"
)

// Expression is a typed value-producing node.
type Expression interface {
	Node
	// ExpressionType returns the resolved type, or nil when unknown.
	ExpressionType() metamodel.TypeDescriptor
}

// Parameter is a named or positional query parameter.
type Parameter interface {
	Expression
	// Label returns ":name" or "?N".
	Label() string
}

// AttributeReference is a resolved attribute of a from element.
type AttributeReference struct {
	Source    FromElement
	Attribute *metamodel.Attribute
}

// ExpressionType implements Expression.
func (a *AttributeReference) ExpressionType() metamodel.TypeDescriptor { return a.Attribute.Type }

// FromElementReference is a reference to a whole from element, e.g. `select p`.
type FromElementReference struct {
	Element FromElement
}

// ExpressionType implements Expression.
func (f *FromElementReference) ExpressionType() metamodel.TypeDescriptor {
	return f.Element.BoundType()
}

// LiteralKind is the type of a literal.
type LiteralKind int

// LiteralKind constants.
const (
	LiteralString LiteralKind = iota
	LiteralInteger
	LiteralLong
	LiteralFloat
	LiteralDouble
	LiteralBoolean
	LiteralNull
)

// Literal is a literal value.
type Literal struct {
	Kind  LiteralKind
	Value string
}

// ExpressionType implements Expression. Null literals have no type.
func (l *Literal) ExpressionType() metamodel.TypeDescriptor {
	switch l.Kind {
	case LiteralString:
		return metamodel.String
	case LiteralInteger:
		return metamodel.Integer
	case LiteralLong:
		return metamodel.Long
	case LiteralFloat:
		return metamodel.Float
	case LiteralDouble:
		return metamodel.Double
	case LiteralBoolean:
		return metamodel.Boolean
	default:
		return nil
	}
}

// EnumLiteral is a constant of an enum, written as `com.acme.Gender.MALE`.
type EnumLiteral struct {
	Enum     *metamodel.EnumType
	Constant string
}

// ExpressionType implements Expression.
func (e *EnumLiteral) ExpressionType() metamodel.TypeDescriptor { return e.Enum }

// EntityTypeLiteral is an entity name used as a value, as in `type(p) = Employee`.
type EntityTypeLiteral struct {
	Type metamodel.EntityTypeDescriptor
}

// ExpressionType implements Expression.
func (e *EntityTypeLiteral) ExpressionType() metamodel.TypeDescriptor { return e.Type }

// NamedParameter is `:name`.
type NamedParameter struct {
	Name string
	// Anticipated is the type inferred from the parameter's context.
	Anticipated metamodel.TypeDescriptor
}

// ExpressionType implements Expression.
func (p *NamedParameter) ExpressionType() metamodel.TypeDescriptor { return p.Anticipated }

// Label implements Parameter.
func (p *NamedParameter) Label() string { return ":" + p.Name }

// PositionalParameter is `?N`.
type PositionalParameter struct {
	Position    int
	Anticipated metamodel.TypeDescriptor
}

// ExpressionType implements Expression.
func (p *PositionalParameter) ExpressionType() metamodel.TypeDescriptor { return p.Anticipated }

// Label implements Parameter.
func (p *PositionalParameter) Label() string { return "?" + strconv.Itoa(p.Position) }

// ArithmeticOp is a binary arithmetic operator.
type ArithmeticOp int

// ArithmeticOp constants.
const (
	OpAdd ArithmeticOp = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
)

func (o ArithmeticOp) String() string {
	return [...]string{"+", "-", "*", "/", "%"}[o]
}

// BinaryArithmetic is `left op right`.
type BinaryArithmetic struct {
	Op    ArithmeticOp
	Left  Expression
	Right Expression
	Type  metamodel.TypeDescriptor
}

// ExpressionType implements Expression.
func (b *BinaryArithmetic) ExpressionType() metamodel.TypeDescriptor { return b.Type }

// UnaryMinus is `-operand`.
type UnaryMinus struct {
	Operand Expression
}

// ExpressionType implements Expression.
func (u *UnaryMinus) ExpressionType() metamodel.TypeDescriptor { return u.Operand.ExpressionType() }

// Concat is `left || right`.
type Concat struct {
	Left  Expression
	Right Expression
}

// ExpressionType implements Expression.
func (c *Concat) ExpressionType() metamodel.TypeDescriptor { return metamodel.String }

// FunctionCall is a non-aggregate function call.
type FunctionCall struct {
	Name string
	Args []Expression
	Type metamodel.TypeDescriptor
}

// ExpressionType implements Expression.
func (f *FunctionCall) ExpressionType() metamodel.TypeDescriptor { return f.Type }

// Aggregate is count, sum, avg, min or max over an expression.
type Aggregate struct {
	Function string
	Argument Expression
	Distinct bool
	Type     metamodel.TypeDescriptor
}

// ExpressionType implements Expression.
func (a *Aggregate) ExpressionType() metamodel.TypeDescriptor { return a.Type }

// CountStar is `count(*)`.
type CountStar struct{}

// ExpressionType implements Expression.
func (*CountStar) ExpressionType() metamodel.TypeDescriptor { return metamodel.Long }

// SubQueryExpression is a nested query spec used as a value.
type SubQueryExpression struct {
	QuerySpec *QuerySpec
}

// ExpressionType implements Expression. It is the type of the single
// selection, or nil.
func (s *SubQueryExpression) ExpressionType() metamodel.TypeDescriptor {
	if s.QuerySpec == nil || s.QuerySpec.SelectClause == nil || len(s.QuerySpec.SelectClause.Selections) != 1 {
		return nil
	}
	return s.QuerySpec.SelectClause.Selections[0].Expr.ExpressionType()
}

// SelectionReference refers to a selection by its result alias, as in
// `order by total`.
type SelectionReference struct {
	Selection *Selection
}

// ExpressionType implements Expression.
func (s *SelectionReference) ExpressionType() metamodel.TypeDescriptor {
	return s.Selection.Expr.ExpressionType()
}

// InstantiationKind identifies the target of a dynamic instantiation.
type InstantiationKind int

// InstantiationKind constants.
const (
	InstantiateClass InstantiationKind = iota
	InstantiateMap
	InstantiateList
)

// DynamicInstantiation is `new X(args)` in a select clause.
type DynamicInstantiation struct {
	Kind      InstantiationKind
	ClassName string
	Args      []*Selection
}

// ExpressionType implements Expression. Instantiation targets are not part
// of the metamodel.
func (d *DynamicInstantiation) ExpressionType() metamodel.TypeDescriptor { return nil }
