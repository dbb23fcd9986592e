package semantic

import (
	"github.com/leapstack-labs/leapql/pkg/core"
	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// buildQuerySpec is the second pass over one query spec: it resolves the
// select, where, group by and having clauses against the scope the first
// pass built for it.
func (i *Interpretation) buildQuerySpec(spec *core.QuerySpec) (*sqm.QuerySpec, error) {
	id, ok := i.specScopes[spec]
	if !ok {
		return nil, newInvariant("query spec at %s was not processed", spec.Pos())
	}
	scope := i.scopes.Get(id)
	c := &exprContext{interp: i, scope: id, resolver: NewStandardPathResolver(i, id)}
	qs := &sqm.QuerySpec{FromClause: scope.FromClause}

	var err error
	if qs.SelectClause, err = c.selectClause(scope, spec.Select); err != nil {
		return nil, err
	}
	if spec.Where != nil {
		pred, err := c.predicate(spec.Where)
		if err != nil {
			return nil, err
		}
		qs.WhereClause = &sqm.WhereClause{Predicate: pred}
	}
	for _, g := range spec.GroupBy {
		e, err := c.expression(g)
		if err != nil {
			return nil, err
		}
		qs.GroupBy = append(qs.GroupBy, e)
	}
	if spec.Having != nil {
		if qs.Having, err = c.predicate(spec.Having); err != nil {
			return nil, err
		}
	}
	return qs, nil
}

// selectClause resolves the projection. Without a select clause every space
// root is selected; strict mode has already rejected that case.
func (c *exprContext) selectClause(scope *Scope, clause *core.SelectClause) (*sqm.SelectClause, error) {
	if clause == nil {
		return ImplicitSelection(scope.FromClause), nil
	}
	out := &sqm.SelectClause{}

	out.Distinct = clause.Distinct
	for _, item := range clause.Items {
		e, err := c.expression(item.Expr)
		if err != nil {
			return nil, err
		}
		sel := &sqm.Selection{Expr: e, Alias: item.Alias}
		if err := scope.Registry.RegisterSelection(sel); err != nil {
			return nil, withPosition(err, item.Pos())
		}
		out.Selections = append(out.Selections, sel)
	}
	return out, nil
}

// ImplicitSelection selects the root of every space of from.
func ImplicitSelection(from *sqm.FromClause) *sqm.SelectClause {
	out := &sqm.SelectClause{}
	for _, space := range from.Spaces {
		if space.Root != nil {
			out.Selections = append(out.Selections, &sqm.Selection{Expr: &sqm.FromElementReference{Element: space.Root}})
		}
	}
	return out
}

func (i *Interpretation) selectStatement(s *core.SelectStatement) (*sqm.SelectStatement, error) {
	qs, err := i.buildQuerySpec(s.Query)
	if err != nil {
		return nil, err
	}
	id := i.specScopes[s.Query]
	c := &exprContext{
		interp:     i,
		scope:      id,
		resolver:   NewStandardPathResolver(i, id),
		selections: i.scopes.Get(id).Registry,
	}
	out := &sqm.SelectStatement{QuerySpec: qs}
	for _, item := range s.OrderBy {
		e, err := c.expression(item.Expr)
		if err != nil {
			return nil, err
		}
		out.OrderBy = append(out.OrderBy, &sqm.SortSpecification{
			Expr:       e,
			Descending: item.Descending,
			Nulls:      sqm.NullPrecedence(item.Nulls),
		})
	}
	if out.Limit, err = c.optionalExpression(s.Limit); err != nil {
		return nil, err
	}
	if out.Offset, err = c.optionalExpression(s.Offset); err != nil {
		return nil, err
	}
	Anticipate(out.Limit, metamodel.Integer)
	Anticipate(out.Offset, metamodel.Integer)
	return out, nil
}

func (i *Interpretation) dmlContext() (*exprContext, *sqm.RootEntityFromElement, error) {
	dml := i.processor.dml
	if dml == nil || dml.DmlRoot == nil {
		return nil, nil, newInvariant("statement target was not processed")
	}
	return &exprContext{interp: i, scope: dml.ID, resolver: NewDmlRootPathResolver(dml.DmlRoot)}, dml.DmlRoot, nil
}

// attributeTarget resolves an insert column or update assignment target.
func (c *exprContext) attributeTarget(path *core.Path) (*sqm.AttributeReference, error) {
	b, err := c.resolver.ResolvePath(path.Parts)
	if err != nil {
		return nil, withPosition(err, path.Pos())
	}
	if b == nil || !b.IsAttribute() {
		return nil, withPosition(newUnresolved(path.String(), c.interp.suggestNames(c.scope, path.String()),
			"%s is not an attribute of the statement target", path), path.Pos())
	}
	return b.Expression().(*sqm.AttributeReference), nil
}

func (i *Interpretation) insertStatement(s *core.InsertStatement) (*sqm.InsertSelectStatement, error) {
	c, root, err := i.dmlContext()
	if err != nil {
		return nil, err
	}
	out := &sqm.InsertSelectStatement{Target: root}
	for _, path := range s.Attributes {
		ref, err := c.attributeTarget(path)
		if err != nil {
			return nil, err
		}
		out.Attributes = append(out.Attributes, ref)
	}
	if out.QuerySpec, err = i.buildQuerySpec(s.Query); err != nil {
		return nil, err
	}
	if sel := out.QuerySpec.SelectClause; sel != nil && len(out.Attributes) > 0 && len(sel.Selections) != len(out.Attributes) {
		return nil, withPosition(newInvalid("insert lists %d attributes but selects %d values",
			len(out.Attributes), len(sel.Selections)), s.Query.Pos())
	}
	return out, nil
}

func (i *Interpretation) updateStatement(s *core.UpdateStatement) (*sqm.UpdateStatement, error) {
	c, root, err := i.dmlContext()
	if err != nil {
		return nil, err
	}
	out := &sqm.UpdateStatement{Target: root, Versioned: s.Versioned}
	for _, a := range s.Assignments {
		target, err := c.attributeTarget(a.Target)
		if err != nil {
			return nil, err
		}
		value, err := c.expression(a.Value)
		if err != nil {
			return nil, err
		}
		Anticipate(value, target.ExpressionType())
		out.Assignments = append(out.Assignments, &sqm.Assignment{Target: target, Value: value})
	}
	if s.Where != nil {
		pred, err := c.predicate(s.Where)
		if err != nil {
			return nil, err
		}
		out.Where = &sqm.WhereClause{Predicate: pred}
	}
	return out, nil
}

func (i *Interpretation) deleteStatement(s *core.DeleteStatement) (*sqm.DeleteStatement, error) {
	c, root, err := i.dmlContext()
	if err != nil {
		return nil, err
	}
	out := &sqm.DeleteStatement{Target: root}
	if s.Where != nil {
		pred, err := c.predicate(s.Where)
		if err != nil {
			return nil, err
		}
		out.Where = &sqm.WhereClause{Predicate: pred}
	}
	return out, nil
}
