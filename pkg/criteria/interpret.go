package criteria

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/semantic"
	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// Interpret builds the semantic model of q. Semantic errors are returned
// unwrapped and carry no position; any other failure is wrapped in a
// semantic.InterpretationError carrying the rendered query.
func Interpret(q *Query, ctx semantic.ConsumerContext, opts semantic.Options) (result *sqm.SelectStatement, err error) {
	start := time.Now()
	interp := semantic.NewInterpretation(ctx, opts)
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &semantic.InterpretationError{Query: q.String(), Cause: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			interp.Logger().Debug("criteria interpretation failed", "error", err)
		}
		opts.Metrics.Observe(sqm.KindSelect.String(), start, err)
	}()

	if q == nil {
		return nil, semantic.NewInvalidExpression("no query to interpret")
	}
	if q.parent != nil {
		return nil, semantic.NewInvalidExpression("a subquery cannot be interpreted on its own")
	}
	c := &converter{
		interp:   interp,
		elements: make(map[From]sqm.FromElement),
		done:     make(map[*Query]bool),
	}
	result, err = c.statement(q)
	if err != nil {
		var semErr semantic.Error
		if !errors.As(err, &semErr) {
			return nil, &semantic.InterpretationError{Query: q.String(), Cause: err}
		}
		return nil, err
	}
	return result, nil
}

// converter drives the interpretation machinery from a criteria graph.
type converter struct {
	interp *semantic.Interpretation
	// elements maps every converted from node to its element.
	elements map[From]sqm.FromElement
	done     map[*Query]bool
}

func (c *converter) statement(q *Query) (*sqm.SelectStatement, error) {
	qs, scope, err := c.querySpec(q, semantic.NoScope)
	if err != nil {
		return nil, err
	}
	out := &sqm.SelectStatement{QuerySpec: qs}
	for _, o := range q.orderBy {
		e, err := c.expression(scope, o.expr)
		if err != nil {
			return nil, err
		}
		out.OrderBy = append(out.OrderBy, &sqm.SortSpecification{Expr: e, Descending: o.descending, Nulls: o.nulls})
	}
	if out.Limit, err = c.optionalExpression(scope, q.limit); err != nil {
		return nil, err
	}
	if out.Offset, err = c.optionalExpression(scope, q.offset); err != nil {
		return nil, err
	}
	semantic.Anticipate(out.Limit, metamodel.Integer)
	semantic.Anticipate(out.Offset, metamodel.Integer)

	if err := c.interp.WrapUp(out); err != nil {
		return nil, err
	}
	return out, nil
}

// querySpec opens a scope for q under parent, builds its from clause and
// then resolves the remaining clauses.
func (c *converter) querySpec(q *Query, parent semantic.ScopeID) (*sqm.QuerySpec, semantic.ScopeID, error) {
	if c.done[q] {
		return nil, semantic.NoScope, semantic.NewInvalidExpression("query %s is used more than once", q)
	}
	c.done[q] = true
	if len(q.roots) == 0 {
		return nil, semantic.NoScope, semantic.NewInvalidExpression("query has no root")
	}
	if q.parent != nil && (len(q.orderBy) > 0 || q.limit != nil || q.offset != nil) {
		return nil, semantic.NoScope, semantic.NewInvalidExpression("subqueries cannot be ordered or paged")
	}
	if len(q.selections) == 0 {
		if err := c.interp.CheckImplicitSelect(); err != nil {
			return nil, semantic.NoScope, err
		}
	}

	scope := c.interp.Scopes().NewQueryScope(parent)
	c.interp.Logger().Debug("scope pushed", "scope", scope.ID, "parent", parent)
	for _, root := range q.roots {
		space := scope.FromClause.MakeSpace()
		e, err := c.interp.Root(scope.ID, space, root.entity, root.alias)
		if err != nil {
			return nil, semantic.NoScope, err
		}
		c.elements[root] = e
		for _, j := range root.joins {
			if err := c.join(scope.ID, space, j); err != nil {
				return nil, semantic.NoScope, err
			}
		}
	}

	qs := &sqm.QuerySpec{FromClause: scope.FromClause}
	if len(q.selections) == 0 {
		qs.SelectClause = semantic.ImplicitSelection(scope.FromClause)
	} else {
		qs.SelectClause = &sqm.SelectClause{Distinct: q.distinct}
		for _, item := range q.selections {
			e, err := c.expression(scope.ID, item.Expr)
			if err != nil {
				return nil, semantic.NoScope, err
			}
			sel := &sqm.Selection{Expr: e, Alias: item.Alias}
			if err := scope.Registry.RegisterSelection(sel); err != nil {
				return nil, semantic.NoScope, err
			}
			qs.SelectClause.Selections = append(qs.SelectClause.Selections, sel)
		}
	}
	if where := conjoin(nil, q.where); where != nil {
		pred, err := c.predicate(scope.ID, where)
		if err != nil {
			return nil, semantic.NoScope, err
		}
		qs.WhereClause = &sqm.WhereClause{Predicate: pred}
	}
	for _, g := range q.groupBy {
		e, err := c.expression(scope.ID, g)
		if err != nil {
			return nil, semantic.NoScope, err
		}
		qs.GroupBy = append(qs.GroupBy, e)
	}
	if having := conjoin(nil, q.having); having != nil {
		pred, err := c.predicate(scope.ID, having)
		if err != nil {
			return nil, semantic.NoScope, err
		}
		qs.Having = pred
	}
	return qs, scope.ID, nil
}

func (c *converter) join(scope semantic.ScopeID, space *sqm.FromElementSpace, j joinNode) error {
	var (
		e   sqm.FromElement
		on  Predicate
		err error
	)
	switch j := j.(type) {
	case *Join:
		e, err = c.attributeJoin(scope, space, j)
		on = j.on
	case *EntityJoin:
		e, err = c.interp.EntityJoin(scope, space, j.entity, j.alias, j.joinType, false)
		on = j.on
	case *CrossJoin:
		e, err = c.interp.CrossJoin(scope, space, j.entity, j.alias)
	}
	if err != nil {
		return err
	}
	c.elements[j] = e
	if on == nil {
		return nil
	}

	pred, err := c.predicate(scope, on)
	if err != nil {
		return err
	}
	switch target := sqm.Unwrap(e).(type) {
	case *sqm.QualifiedAttributeJoinFromElement:
		target.On = pred
	case *sqm.QualifiedEntityJoinFromElement:
		target.On = pred
	}
	return nil
}

func (c *converter) attributeJoin(scope semantic.ScopeID, space *sqm.FromElementSpace, j *Join) (sqm.FromElement, error) {
	parent, err := c.from(scope, j.parent)
	if err != nil {
		return nil, err
	}
	var subtype *metamodel.EntityType
	if j.treatAs != "" {
		if subtype, err = c.interp.ResolveSubtype(j.treatAs); err != nil {
			return nil, err
		}
	}
	resolver := semantic.NewJoinTargetPathResolver(c.interp, scope, space, j.alias, j.joinType, j.fetch)
	b, err := resolver.JoinFrom(parent, j.parts, subtype)
	if err != nil {
		return nil, err
	}
	return b.Element, nil
}

// from returns the element of f. It must have been converted already and
// be visible from scope.
func (c *converter) from(scope semantic.ScopeID, f From) (sqm.FromElement, error) {
	if e, ok := c.elements[f]; ok {
		if !c.visible(scope, e) {
			return nil, semantic.NewUnresolvedReference(e.Alias(), nil, "%s is not in scope here", exprString(f))
		}
		return e, nil
	}
	t, ok := f.(*Treated)
	if !ok {
		return nil, semantic.NewUnresolvedReference(exprString(f), nil, "%s is not part of the query", exprString(f))
	}
	subtype, err := c.interp.ResolveSubtype(t.subtype)
	if err != nil {
		return nil, err
	}
	switch source := t.source.(type) {
	case From:
		e, err := c.from(scope, source)
		if err != nil {
			return nil, err
		}
		return c.interp.Builder().MakeTreated(e, subtype)
	case *Path:
		e, err := c.from(scope, source.source)
		if err != nil {
			return nil, err
		}
		b, err := semantic.NewStandardPathResolver(c.interp, scope).DereferenceTreatedFrom(e, source.parts, subtype)
		if err != nil {
			return nil, err
		}
		return b.Element, nil
	default:
		return nil, semantic.NewInvalidExpression("%s cannot be treated", exprString(t.source))
	}
}

func (c *converter) visible(scope semantic.ScopeID, e sqm.FromElement) bool {
	owner, ok := c.interp.Scopes().OwnerOf(e)
	if !ok {
		return false
	}
	for _, id := range c.interp.Scopes().Chain(scope) {
		if id == owner {
			return true
		}
	}
	return false
}

func (c *converter) optionalExpression(scope semantic.ScopeID, e Expression) (sqm.Expression, error) {
	if e == nil {
		return nil, nil
	}
	return c.expression(scope, e)
}

//nolint:gocyclo // one case per expression kind
func (c *converter) expression(scope semantic.ScopeID, e Expression) (sqm.Expression, error) {
	switch x := e.(type) {
	case From:
		el, err := c.from(scope, x)
		if err != nil {
			return nil, err
		}
		return &sqm.FromElementReference{Element: el}, nil

	case *Path:
		source, err := c.from(scope, x.source)
		if err != nil {
			return nil, err
		}
		b, err := semantic.NewStandardPathResolver(c.interp, scope).DereferenceFrom(source, x.parts)
		if err != nil {
			return nil, err
		}
		return b.Expression(), nil

	case *LiteralValue:
		return literal(x.value)

	case *Parameter:
		if x.name != "" {
			return &sqm.NamedParameter{Name: x.name}, nil
		}
		if x.position < 1 {
			return nil, semantic.NewInvalidExpression("positional parameter ?%d must be at least ?1", x.position)
		}
		return &sqm.PositionalParameter{Position: x.position}, nil

	case *TypeLiteral:
		t, err := c.interp.ResolveEntityType(x.entity)
		if err != nil {
			return nil, err
		}
		return &sqm.EntityTypeLiteral{Type: t}, nil

	case *EnumConstant:
		enum, ok := c.interp.ResolveEnum(x.class)
		if !ok {
			return nil, semantic.NewUnresolvedReference(x.class, nil, "unknown enum %s", x.class)
		}
		if !enum.HasConstant(x.constant) {
			return nil, semantic.NewUnresolvedReference(x.class+"."+x.constant,
				metamodel.SuggestSimilar(x.constant, enum.Constants()), "enum %s has no constant %s", enum.Name(), x.constant)
		}
		return &sqm.EnumLiteral{Enum: enum, Constant: x.constant}, nil

	case *FunctionCall:
		if x.star {
			return &sqm.CountStar{}, nil
		}
		args, err := c.expressions(scope, x.args)
		if err != nil {
			return nil, err
		}
		return semantic.Function(x.name, args, x.distinct)

	case *Arithmetic:
		left, right, err := c.pair(scope, x.left, x.right)
		if err != nil {
			return nil, err
		}
		return semantic.Arithmetic(x.op, left, right), nil

	case *Negation:
		operand, err := c.expression(scope, x.operand)
		if err != nil {
			return nil, err
		}
		return &sqm.UnaryMinus{Operand: operand}, nil

	case *Concatenation:
		left, right, err := c.pair(scope, x.left, x.right)
		if err != nil {
			return nil, err
		}
		return semantic.Concatenation(left, right), nil

	case *SubqueryValue:
		return c.subquery(scope, x.query)

	case *Instantiation:
		out := &sqm.DynamicInstantiation{Kind: x.kind, ClassName: x.class}
		for _, arg := range x.args {
			e, err := c.expression(scope, arg.Expr)
			if err != nil {
				return nil, err
			}
			out.Args = append(out.Args, &sqm.Selection{Expr: e, Alias: arg.Alias})
		}
		return out, nil

	case nil:
		return nil, semantic.NewInvalidExpression("missing expression")

	default:
		return nil, semantic.NewInvalidExpression("unsupported expression %T", e)
	}
}

func (c *converter) expressions(scope semantic.ScopeID, exprs []Expression) ([]sqm.Expression, error) {
	out := make([]sqm.Expression, 0, len(exprs))
	for _, e := range exprs {
		converted, err := c.expression(scope, e)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

// pair converts both sides of a binary expression without anticipating
// parameter types.
func (c *converter) pair(scope semantic.ScopeID, l, r Expression) (sqm.Expression, sqm.Expression, error) {
	left, err := c.expression(scope, l)
	if err != nil {
		return nil, nil, err
	}
	right, err := c.expression(scope, r)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (c *converter) subquery(scope semantic.ScopeID, q *Query) (*sqm.SubQueryExpression, error) {
	if q == nil {
		return nil, semantic.NewInvalidExpression("missing subquery")
	}
	qs, _, err := c.querySpec(q, scope)
	if err != nil {
		return nil, err
	}
	return &sqm.SubQueryExpression{QuerySpec: qs}, nil
}

//nolint:gocyclo // one case per predicate kind
func (c *converter) predicate(scope semantic.ScopeID, p Predicate) (sqm.Predicate, error) {
	switch x := p.(type) {
	case *Junction:
		return c.junction(scope, x)

	case *Negated:
		inner, err := c.predicate(scope, x.pred)
		if err != nil {
			return nil, err
		}
		return &sqm.NegatedPredicate{Wrapped: &sqm.GroupedPredicate{Wrapped: inner}}, nil

	case *Comparison:
		left, right, err := c.pair(scope, x.left, x.right)
		if err != nil {
			return nil, err
		}
		semantic.AnticipateBoth(left, right)
		return &sqm.RelationalPredicate{Op: x.op, Left: left, Right: right}, nil

	case *Nullness:
		e, err := c.expression(scope, x.expr)
		if err != nil {
			return nil, err
		}
		return &sqm.NullnessPredicate{Expr: e, Negated: x.negated}, nil

	case *Likeness:
		match, pattern, err := c.pair(scope, x.match, x.pattern)
		if err != nil {
			return nil, err
		}
		semantic.AnticipateBoth(match, pattern)
		escape, err := c.optionalExpression(scope, x.escape)
		if err != nil {
			return nil, err
		}
		semantic.Anticipate(pattern, metamodel.String)
		semantic.Anticipate(escape, metamodel.String)
		return &sqm.LikePredicate{Match: match, Pattern: pattern, Escape: escape, Negated: x.negated}, nil

	case *Range:
		e, low, err := c.pair(scope, x.expr, x.low)
		if err != nil {
			return nil, err
		}
		semantic.AnticipateBoth(e, low)
		high, err := c.expression(scope, x.high)
		if err != nil {
			return nil, err
		}
		semantic.Anticipate(high, e.ExpressionType())
		return &sqm.BetweenPredicate{Expr: e, Low: low, High: high, Negated: x.negated}, nil

	case *Membership:
		test, err := c.expression(scope, x.test)
		if err != nil {
			return nil, err
		}
		if x.query != nil {
			sub, err := c.subquery(scope, x.query)
			if err != nil {
				return nil, err
			}
			return &sqm.InSubQueryPredicate{Test: test, SubQuery: sub, Negated: x.negated}, nil
		}
		if len(x.values) == 0 {
			return nil, semantic.NewInvalidExpression("in requires at least one value")
		}
		values, err := c.expressions(scope, x.values)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			semantic.Anticipate(v, test.ExpressionType())
		}
		return &sqm.InListPredicate{Test: test, Values: values, Negated: x.negated}, nil

	case *Emptiness:
		coll, err := c.collection(scope, x.collection)
		if err != nil {
			return nil, err
		}
		return &sqm.EmptinessPredicate{Collection: coll, Negated: x.negated}, nil

	case *MemberOf:
		coll, err := c.collection(scope, x.collection)
		if err != nil {
			return nil, err
		}
		value, err := c.expression(scope, x.value)
		if err != nil {
			return nil, err
		}
		semantic.Anticipate(value, coll.ExpressionType())
		return &sqm.MemberOfPredicate{Value: value, Collection: coll, Negated: x.negated}, nil

	case *Existence:
		sub, err := c.subquery(scope, x.query)
		if err != nil {
			return nil, err
		}
		return &sqm.ExistsPredicate{SubQuery: sub, Negated: x.negated}, nil

	case *Truth:
		e, err := c.expression(scope, x.expr)
		if err != nil {
			return nil, err
		}
		return semantic.BooleanPredicate(e)

	case nil:
		return nil, semantic.NewInvalidExpression("missing predicate")

	default:
		return nil, semantic.NewInvalidExpression("unsupported predicate %T", p)
	}
}

// junction folds the predicates of j to the left. Nested junctions are
// grouped.
func (c *converter) junction(scope semantic.ScopeID, j *Junction) (sqm.Predicate, error) {
	if len(j.preds) == 0 {
		return nil, semantic.NewInvalidExpression("empty junction")
	}
	var out sqm.Predicate
	for _, p := range j.preds {
		pred, err := c.predicate(scope, p)
		if err != nil {
			return nil, err
		}
		if isCompound(p) && len(j.preds) > 1 {
			pred = &sqm.GroupedPredicate{Wrapped: pred}
		}
		switch {
		case out == nil:
			out = pred
		case j.or:
			out = &sqm.OrPredicate{Left: out, Right: pred}
		default:
			out = &sqm.AndPredicate{Left: out, Right: pred}
		}
	}
	return out, nil
}

func isCompound(p Predicate) bool {
	j, ok := p.(*Junction)
	return ok && len(j.preds) > 1
}

func (c *converter) collection(scope semantic.ScopeID, e Expression) (*sqm.AttributeReference, error) {
	operand, err := c.expression(scope, e)
	if err != nil {
		return nil, err
	}
	return semantic.Collection(operand, exprString(e))
}

func literal(v any) (*sqm.Literal, error) {
	switch v := v.(type) {
	case nil:
		return &sqm.Literal{Kind: sqm.LiteralNull}, nil
	case string:
		return &sqm.Literal{Kind: sqm.LiteralString, Value: v}, nil
	case bool:
		return &sqm.Literal{Kind: sqm.LiteralBoolean, Value: strconv.FormatBool(v)}, nil
	case int:
		return &sqm.Literal{Kind: sqm.LiteralInteger, Value: strconv.Itoa(v)}, nil
	case int8:
		return &sqm.Literal{Kind: sqm.LiteralInteger, Value: strconv.Itoa(int(v))}, nil
	case int16:
		return &sqm.Literal{Kind: sqm.LiteralInteger, Value: strconv.Itoa(int(v))}, nil
	case int32:
		return &sqm.Literal{Kind: sqm.LiteralInteger, Value: strconv.Itoa(int(v))}, nil
	case int64:
		return &sqm.Literal{Kind: sqm.LiteralLong, Value: strconv.FormatInt(v, 10)}, nil
	case float32:
		return &sqm.Literal{Kind: sqm.LiteralFloat, Value: formatFloat(float64(v), 32)}, nil
	case float64:
		return &sqm.Literal{Kind: sqm.LiteralDouble, Value: formatFloat(v, 64)}, nil
	default:
		return nil, semantic.NewInvalidExpression("unsupported literal of type %T", v)
	}
}

// formatFloat always keeps a fraction so the value reads as floating point.
func formatFloat(f float64, bits int) string {
	s := strconv.FormatFloat(f, 'f', -1, bits)
	for _, r := range s {
		if r == '.' {
			return s
		}
	}
	return s + ".0"
}
