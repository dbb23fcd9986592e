package semantic

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapql/pkg/core"
	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/sqm"
	"github.com/leapstack-labs/leapql/pkg/token"
)

// exprContext converts syntax expressions of one clause into model
// expressions and predicates.
type exprContext struct {
	interp   *Interpretation
	scope    ScopeID
	resolver PathResolver
	// selections, when set, lets single-part paths name result aliases, as
	// in order by.
	selections *AliasRegistry
}

func (c *exprContext) expression(e core.Expr) (sqm.Expression, error) {
	out, err := c.convertExpression(e)
	if err != nil {
		return nil, withPosition(err, e.Pos())
	}
	return out, nil
}

func (c *exprContext) optionalExpression(e core.Expr) (sqm.Expression, error) {
	if e == nil {
		return nil, nil
	}
	return c.expression(e)
}

func (c *exprContext) convertExpression(e core.Expr) (sqm.Expression, error) {
	switch x := e.(type) {
	case *core.Path:
		return c.path(x.Parts)
	case *core.TreatExpr:
		return c.treat(x)
	case *core.IndexedPath:
		return c.indexed(x)
	case *core.Literal:
		return literal(x), nil
	case *core.NamedParameter:
		return &sqm.NamedParameter{Name: x.Name}, nil
	case *core.PositionalParameter:
		return &sqm.PositionalParameter{Position: x.Position}, nil
	case *core.BinaryExpr:
		return c.binary(x)
	case *core.UnaryExpr:
		operand, err := c.expression(x.Operand)
		if err != nil {
			return nil, err
		}
		if x.Op == token.MINUS {
			return &sqm.UnaryMinus{Operand: operand}, nil
		}
		return operand, nil
	case *core.FuncCall:
		return c.function(x)
	case *core.SubqueryExpr:
		return c.subQuery(x.Query)
	case *core.ParenExpr:
		return c.expression(x.Inner)
	case *core.DynamicInstantiation:
		return c.instantiation(x)
	default:
		return nil, newInvalid("%s cannot be used as a value", describeExpr(e))
	}
}

// path resolves a dotted path, falling back to entity names, class names
// and enum constants.
func (c *exprContext) path(parts []string) (sqm.Expression, error) {
	if c.selections != nil && len(parts) == 1 {
		if sel := c.selections.FindSelectionByAlias(parts[0]); sel != nil {
			return &sqm.SelectionReference{Selection: sel}, nil
		}
	}
	b, err := c.resolver.ResolvePath(parts)
	if err != nil {
		return nil, err
	}
	if b != nil {
		return b.Expression(), nil
	}
	return c.nameLiteral(parts)
}

func (c *exprContext) nameLiteral(parts []string) (sqm.Expression, error) {
	name := strings.Join(parts, ".")
	if t, err := c.interp.ctx.ResolveEntityType(name); err == nil {
		return &sqm.EntityTypeLiteral{Type: t}, nil
	}
	if len(parts) > 1 && c.interp.enums != nil {
		constant := parts[len(parts)-1]
		if enum, ok := c.interp.enums.ResolveEnum(strings.Join(parts[:len(parts)-1], ".")); ok {
			if !enum.HasConstant(constant) {
				return nil, newUnresolved(name, metamodel.SuggestSimilar(constant, enum.Constants()),
					"enum %s has no constant %s", enum.Name(), constant)
			}
			return &sqm.EnumLiteral{Enum: enum, Constant: constant}, nil
		}
	}
	return nil, newUnresolved(name, c.interp.suggestNames(c.scope, name), "cannot resolve path %q", name)
}

func (c *exprContext) treat(x *core.TreatExpr) (sqm.Expression, error) {
	subtype, err := c.interp.ResolveSubtype(x.Subtype)
	if err != nil {
		return nil, err
	}
	b, err := c.resolver.ResolveTreatedPath(x.Path.Parts, subtype)
	if err != nil {
		return nil, err
	}
	if b == nil {
		name := x.Path.String()
		return nil, newUnresolved(name, c.interp.suggestNames(c.scope, name), "cannot resolve treated path %q", name)
	}
	if len(x.Rest) == 0 {
		return b.Expression(), nil
	}
	rest, err := NewIndexedElementPathResolver(c.interp, c.scope, b.Element).ResolvePath(x.Rest)
	if err != nil {
		return nil, err
	}
	return rest.Expression(), nil
}

func (c *exprContext) indexed(x *core.IndexedPath) (sqm.Expression, error) {
	b, err := c.resolver.ResolvePath(x.Collection.Parts)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return c.nameLiteral(x.Collection.Parts)
	}
	if !b.IsAttribute() {
		return nil, newUnresolved(x.Collection.String(), nil, "%s is not a collection attribute", x.Collection)
	}
	index, err := c.expression(x.Index)
	if err != nil {
		return nil, err
	}
	if b.Attribute.Collection == metamodel.Map {
		Anticipate(index, b.Attribute.KeyType)
	} else {
		Anticipate(index, metamodel.Integer)
	}
	join, err := c.interp.indexedJoin(b.Element, b.Attribute, index)
	if err != nil {
		return nil, err
	}
	if len(x.Rest) == 0 {
		return &sqm.FromElementReference{Element: join}, nil
	}
	rest, err := NewIndexedElementPathResolver(c.interp, c.scope, join).ResolvePath(x.Rest)
	if err != nil {
		return nil, err
	}
	return rest.Expression(), nil
}

func literal(x *core.Literal) *sqm.Literal {
	kinds := map[core.LiteralKind]sqm.LiteralKind{
		core.LiteralInteger: sqm.LiteralInteger,
		core.LiteralLong:    sqm.LiteralLong,
		core.LiteralFloat:   sqm.LiteralFloat,
		core.LiteralDouble:  sqm.LiteralDouble,
		core.LiteralString:  sqm.LiteralString,
		core.LiteralBoolean: sqm.LiteralBoolean,
		core.LiteralNull:    sqm.LiteralNull,
	}
	return &sqm.Literal{Kind: kinds[x.Kind], Value: x.Value}
}

var arithmeticOps = map[token.TokenType]sqm.ArithmeticOp{
	token.PLUS:    sqm.OpAdd,
	token.MINUS:   sqm.OpSubtract,
	token.STAR:    sqm.OpMultiply,
	token.SLASH:   sqm.OpDivide,
	token.PERCENT: sqm.OpModulo,
}

func (c *exprContext) binary(x *core.BinaryExpr) (sqm.Expression, error) {
	left, err := c.expression(x.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.expression(x.Right)
	if err != nil {
		return nil, err
	}
	if x.Op == token.DPIPE {
		return Concatenation(left, right), nil
	}
	op, ok := arithmeticOps[x.Op]
	if !ok {
		return nil, newInvalid("unsupported operator %s", x.Op)
	}
	return Arithmetic(op, left, right), nil
}

func (c *exprContext) function(x *core.FuncCall) (sqm.Expression, error) {
	if x.Star {
		if x.Name != "count" {
			return nil, newInvalid("%s(*) is not supported", x.Name)
		}
		return &sqm.CountStar{}, nil
	}
	args := make([]sqm.Expression, 0, len(x.Args))
	for _, a := range x.Args {
		arg, err := c.expression(a)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	return Function(x.Name, args, x.Distinct)
}

func (c *exprContext) instantiation(x *core.DynamicInstantiation) (sqm.Expression, error) {
	kinds := map[core.InstantiationKind]sqm.InstantiationKind{
		core.InstantiateClass: sqm.InstantiateClass,
		core.InstantiateMap:   sqm.InstantiateMap,
		core.InstantiateList:  sqm.InstantiateList,
	}
	out := &sqm.DynamicInstantiation{Kind: kinds[x.Kind], ClassName: x.ClassName}
	for _, arg := range x.Args {
		e, err := c.expression(arg.Expr)
		if err != nil {
			return nil, err
		}
		out.Args = append(out.Args, &sqm.Selection{Expr: e, Alias: arg.Alias})
	}
	return out, nil
}

// subQuery builds a nested query spec. Specs that the first pass has not
// reached yet, such as those inside ON predicates, are processed on demand
// with the current scope as their parent.
func (c *exprContext) subQuery(spec *core.QuerySpec) (*sqm.SubQueryExpression, error) {
	if _, ok := c.interp.specScopes[spec]; !ok {
		if err := core.WalkQuerySpec(spec, c.interp.processor); err != nil {
			return nil, err
		}
	}
	qs, err := c.interp.buildQuerySpec(spec)
	if err != nil {
		return nil, err
	}
	return &sqm.SubQueryExpression{QuerySpec: qs}, nil
}

func (c *exprContext) predicate(e core.Expr) (sqm.Predicate, error) {
	out, err := c.convertPredicate(e)
	if err != nil {
		return nil, withPosition(err, e.Pos())
	}
	return out, nil
}

var relationalOps = map[token.TokenType]sqm.RelationalOp{
	token.EQ: sqm.OpEqual,
	token.NE: sqm.OpNotEqual,
	token.LT: sqm.OpLess,
	token.LE: sqm.OpLessOrEqual,
	token.GT: sqm.OpGreater,
	token.GE: sqm.OpGreaterOrEqual,
}

//nolint:gocyclo // one case per predicate kind
func (c *exprContext) convertPredicate(e core.Expr) (sqm.Predicate, error) {
	switch x := e.(type) {
	case *core.LogicalExpr:
		left, err := c.predicate(x.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.predicate(x.Right)
		if err != nil {
			return nil, err
		}
		if x.Op == token.AND {
			return &sqm.AndPredicate{Left: left, Right: right}, nil
		}
		return &sqm.OrPredicate{Left: left, Right: right}, nil

	case *core.NotExpr:
		inner, err := c.predicate(x.Operand)
		if err != nil {
			return nil, err
		}
		return &sqm.NegatedPredicate{Wrapped: inner}, nil

	case *core.ParenExpr:
		if !isPredicate(x.Inner) {
			return c.booleanExpression(x)
		}
		inner, err := c.predicate(x.Inner)
		if err != nil {
			return nil, err
		}
		return &sqm.GroupedPredicate{Wrapped: inner}, nil

	case *core.ComparisonExpr:
		op, ok := relationalOps[x.Op]
		if !ok {
			return nil, newInvalid("unsupported comparison operator %s", x.Op)
		}
		left, right, err := c.pair(x.Left, x.Right)
		if err != nil {
			return nil, err
		}
		return &sqm.RelationalPredicate{Op: op, Left: left, Right: right}, nil

	case *core.IsNullExpr:
		operand, err := c.expression(x.Operand)
		if err != nil {
			return nil, err
		}
		return &sqm.NullnessPredicate{Expr: operand, Negated: x.Not}, nil

	case *core.IsEmptyExpr:
		coll, err := c.collection(x.Operand)
		if err != nil {
			return nil, err
		}
		return &sqm.EmptinessPredicate{Collection: coll, Negated: x.Not}, nil

	case *core.LikeExpr:
		match, pattern, err := c.pair(x.Operand, x.Pattern)
		if err != nil {
			return nil, err
		}
		escape, err := c.optionalExpression(x.Escape)
		if err != nil {
			return nil, err
		}
		Anticipate(pattern, metamodel.String)
		Anticipate(escape, metamodel.String)
		return &sqm.LikePredicate{Match: match, Pattern: pattern, Escape: escape, Negated: x.Not}, nil

	case *core.BetweenExpr:
		operand, low, err := c.pair(x.Operand, x.Low)
		if err != nil {
			return nil, err
		}
		high, err := c.expression(x.High)
		if err != nil {
			return nil, err
		}
		Anticipate(high, operand.ExpressionType())
		return &sqm.BetweenPredicate{Expr: operand, Low: low, High: high, Negated: x.Not}, nil

	case *core.InExpr:
		test, err := c.expression(x.Operand)
		if err != nil {
			return nil, err
		}
		if x.Query != nil {
			sub, err := c.subQuery(x.Query)
			if err != nil {
				return nil, err
			}
			return &sqm.InSubQueryPredicate{Test: test, SubQuery: sub, Negated: x.Not}, nil
		}
		values := make([]sqm.Expression, 0, len(x.Values))
		for _, v := range x.Values {
			value, err := c.expression(v)
			if err != nil {
				return nil, err
			}
			Anticipate(value, test.ExpressionType())
			values = append(values, value)
		}
		return &sqm.InListPredicate{Test: test, Values: values, Negated: x.Not}, nil

	case *core.MemberOfExpr:
		coll, err := c.collection(x.Collection)
		if err != nil {
			return nil, err
		}
		value, err := c.expression(x.Operand)
		if err != nil {
			return nil, err
		}
		Anticipate(value, coll.ExpressionType())
		return &sqm.MemberOfPredicate{Value: value, Collection: coll, Negated: x.Not}, nil

	case *core.ExistsExpr:
		sub, err := c.subQuery(x.Query)
		if err != nil {
			return nil, err
		}
		return &sqm.ExistsPredicate{SubQuery: sub, Negated: x.Not}, nil

	default:
		return c.booleanExpression(e)
	}
}

// pair converts the two sides of a binary predicate, letting a parameter
// on either side take the type of the other.
func (c *exprContext) pair(l, r core.Expr) (sqm.Expression, sqm.Expression, error) {
	left, err := c.expression(l)
	if err != nil {
		return nil, nil, err
	}
	right, err := c.expression(r)
	if err != nil {
		return nil, nil, err
	}
	AnticipateBoth(left, right)
	return left, right, nil
}

func (c *exprContext) collection(e core.Expr) (*sqm.AttributeReference, error) {
	operand, err := c.expression(e)
	if err != nil {
		return nil, err
	}
	return Collection(operand, describeExpr(e))
}

func (c *exprContext) booleanExpression(e core.Expr) (sqm.Predicate, error) {
	value, err := c.expression(e)
	if err != nil {
		return nil, err
	}
	return BooleanPredicate(value)
}

func isPredicate(e core.Expr) bool {
	switch x := e.(type) {
	case *core.LogicalExpr, *core.NotExpr, *core.ComparisonExpr, *core.IsNullExpr,
		*core.IsEmptyExpr, *core.LikeExpr, *core.BetweenExpr, *core.InExpr,
		*core.MemberOfExpr, *core.ExistsExpr:
		return true
	case *core.ParenExpr:
		return isPredicate(x.Inner)
	}
	return false
}

func describeExpr(e core.Expr) string {
	switch x := e.(type) {
	case *core.Path:
		return x.String()
	case *core.Literal:
		return x.Kind.String() + " literal"
	}
	name := strings.TrimPrefix(strings.TrimPrefix(fmt.Sprintf("%T", e), "*core."), "core.")
	return strings.ToLower(strings.TrimSuffix(name, "Expr")) + " expression"
}
