package semantic

import (
	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// Typing rules shared by every front end that builds model expressions.

// numericRank orders numeric types for promotion.
var numericRank = map[metamodel.TypeDescriptor]int{
	metamodel.Integer:    1,
	metamodel.Long:       2,
	metamodel.BigDecimal: 3,
	metamodel.Float:      4,
	metamodel.Double:     5,
}

func promote(a, b metamodel.TypeDescriptor) metamodel.TypeDescriptor {
	if a == nil {
		return b
	}
	if b == nil || numericRank[a] >= numericRank[b] {
		return a
	}
	return b
}

var aggregateFunctions = map[string]bool{"count": true, "sum": true, "avg": true, "min": true, "max": true}

var functionTypes = map[string]metamodel.TypeDescriptor{
	"upper":             metamodel.String,
	"lower":             metamodel.String,
	"trim":              metamodel.String,
	"concat":            metamodel.String,
	"substring":         metamodel.String,
	"length":            metamodel.Integer,
	"locate":            metamodel.Integer,
	"size":              metamodel.Integer,
	"index":             metamodel.Integer,
	"sqrt":              metamodel.Double,
	"current_date":      metamodel.Date,
	"current_time":      metamodel.Timestamp,
	"current_timestamp": metamodel.Timestamp,
}

// Function builds a call of name over already converted arguments. Names of
// aggregate functions produce an sqm.Aggregate.
func Function(name string, args []sqm.Expression, distinct bool) (sqm.Expression, error) {
	if aggregateFunctions[name] {
		if len(args) != 1 {
			return nil, newInvalid("%s takes exactly one argument, got %d", name, len(args))
		}
		return &sqm.Aggregate{Function: name, Argument: args[0], Distinct: distinct, Type: aggregateType(name, args[0].ExpressionType())}, nil
	}
	if distinct {
		return nil, newInvalid("distinct is only allowed in aggregate functions, not %s", name)
	}
	if name == "size" {
		if len(args) != 1 || !IsCollection(args[0]) {
			return nil, newInvalid("size requires a collection attribute")
		}
	}

	t, known := functionTypes[name]
	if !known && len(args) > 0 {
		// abs, mod, coalesce, nullif and unknown functions take the type of
		// their first argument
		t = args[0].ExpressionType()
	}
	return &sqm.FunctionCall{Name: name, Args: args, Type: t}, nil
}

func aggregateType(name string, arg metamodel.TypeDescriptor) metamodel.TypeDescriptor {
	switch name {
	case "count":
		return metamodel.Long
	case "avg":
		return metamodel.Double
	case "sum":
		switch arg {
		case metamodel.Integer, metamodel.Long:
			return metamodel.Long
		case metamodel.Float, metamodel.Double:
			return metamodel.Double
		}
		return arg
	default:
		return arg
	}
}

// Arithmetic builds left op right, typed by numeric promotion.
func Arithmetic(op sqm.ArithmeticOp, left, right sqm.Expression) *sqm.BinaryArithmetic {
	AnticipateBoth(left, right)
	return &sqm.BinaryArithmetic{Op: op, Left: left, Right: right, Type: promote(left.ExpressionType(), right.ExpressionType())}
}

// Concatenation builds left || right.
func Concatenation(left, right sqm.Expression) *sqm.Concat {
	Anticipate(left, metamodel.String)
	Anticipate(right, metamodel.String)
	return &sqm.Concat{Left: left, Right: right}
}

// IsCollection reports whether e references a plural attribute.
func IsCollection(e sqm.Expression) bool {
	ref, ok := e.(*sqm.AttributeReference)
	return ok && ref.Attribute.IsPlural()
}

// Collection returns e as a plural attribute reference. what names e in the
// error otherwise.
func Collection(e sqm.Expression, what string) (*sqm.AttributeReference, error) {
	if !IsCollection(e) {
		return nil, newInvalid("%s is not a collection attribute", what)
	}
	return e.(*sqm.AttributeReference), nil
}

// BooleanPredicate uses a boolean-valued expression as a predicate.
func BooleanPredicate(value sqm.Expression) (sqm.Predicate, error) {
	Anticipate(value, metamodel.Boolean)
	if t := value.ExpressionType(); t != nil && t != metamodel.Boolean {
		return nil, newInvalid("expression of type %s cannot be used as a predicate", t.Name())
	}
	return &sqm.BooleanExpressionPredicate{Expr: value}, nil
}

// Anticipate gives an untyped parameter the type implied by its context.
func Anticipate(e sqm.Expression, t metamodel.TypeDescriptor) {
	if t == nil {
		return
	}
	switch p := e.(type) {
	case *sqm.NamedParameter:
		if p.Anticipated == nil {
			p.Anticipated = t
		}
	case *sqm.PositionalParameter:
		if p.Anticipated == nil {
			p.Anticipated = t
		}
	}
}

// AnticipateBoth lets a parameter on either side take the type of the
// other.
func AnticipateBoth(left, right sqm.Expression) {
	Anticipate(left, right.ExpressionType())
	Anticipate(right, left.ExpressionType())
}
