package semantic

import (
	"errors"

	"github.com/leapstack-labs/leapql/pkg/core"
	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// FromClauseProcessor is the first pass of an interpretation. As a
// core.Listener it opens one scope per query spec and builds the from
// clause of each, including the ON predicates of explicit joins.
type FromClauseProcessor struct {
	core.BaseListener

	interp *Interpretation
	kind   sqm.StatementKind
	stack  []ScopeID
	// dml is the scope of the statement target for insert, update and
	// delete statements.
	dml       *Scope
	dmlPushed bool
	// top is the scope of the outermost query spec of a select statement.
	// Order by subqueries are walked after it is popped and nest in it.
	top *Scope
}

var _ core.Listener = (*FromClauseProcessor)(nil)

// Kind returns the kind of the statement being processed.
func (p *FromClauseProcessor) Kind() sqm.StatementKind { return p.kind }

func (p *FromClauseProcessor) current() (*Scope, error) {
	if len(p.stack) == 0 {
		return nil, newInvariant("no query spec scope is open")
	}
	return p.interp.scopes.Get(p.stack[len(p.stack)-1]), nil
}

func (p *FromClauseProcessor) currentSpace() (*Scope, error) {
	scope, err := p.current()
	if err != nil {
		return nil, err
	}
	if scope.space == nil {
		return nil, newInvariant("no from element space is open in scope %d", scope.ID)
	}
	return scope, nil
}

// EnterStatement implements core.Listener.
func (p *FromClauseProcessor) EnterStatement(stmt core.Stmt) error {
	switch stmt.(type) {
	case *core.SelectStatement:
		p.kind = sqm.KindSelect
	case *core.InsertStatement:
		p.kind = sqm.KindInsert
	case *core.UpdateStatement:
		p.kind = sqm.KindUpdate
	case *core.DeleteStatement:
		p.kind = sqm.KindDelete
	default:
		return newInvariant("unsupported statement %T", stmt)
	}
	p.interp.logger.Debug("interpreting statement", "kind", p.kind.String(), "strict", p.interp.Strict())
	return nil
}

// ExitStatement implements core.Listener.
func (p *FromClauseProcessor) ExitStatement(core.Stmt) error {
	if p.dmlPushed {
		p.stack = p.stack[:len(p.stack)-1]
		p.dmlPushed = false
	}
	if len(p.stack) != 0 {
		return newInvariant("%d scopes still open at end of statement", len(p.stack))
	}
	return nil
}

// EnterQuerySpec implements core.Listener. Query specs already processed
// on demand, such as subqueries of ON predicates, are skipped.
func (p *FromClauseProcessor) EnterQuerySpec(spec *core.QuerySpec) (bool, error) {
	if _, done := p.interp.specScopes[spec]; done {
		return false, nil
	}
	if spec.Select == nil {
		if err := p.interp.CheckImplicitSelect(); err != nil {
			return false, withPosition(err, spec.Pos())
		}
	}

	parent := NoScope
	switch {
	case len(p.stack) > 0:
		parent = p.stack[len(p.stack)-1]
	case p.top != nil:
		parent = p.top.ID
	}
	scope := p.interp.scopes.NewQueryScope(parent)
	p.stack = append(p.stack, scope.ID)
	p.interp.logger.Debug("scope pushed", "scope", scope.ID, "parent", parent)
	return true, nil
}

// ExitQuerySpec implements core.Listener.
func (p *FromClauseProcessor) ExitQuerySpec(spec *core.QuerySpec) error {
	scope, err := p.current()
	if err != nil {
		return err
	}
	if scope.FromClause == nil {
		return newInvariant("query spec exit while the statement target scope is current")
	}
	p.stack = p.stack[:len(p.stack)-1]
	p.interp.specScopes[spec] = scope.ID
	if len(p.stack) == 0 && p.top == nil && p.kind == sqm.KindSelect {
		p.top = scope
	}
	p.interp.logger.Debug("scope popped", "scope", scope.ID, "spaces", len(scope.FromClause.Spaces))
	return nil
}

// EnterFromElementSpace implements core.Listener.
func (p *FromClauseProcessor) EnterFromElementSpace(*core.FromElementSpace) error {
	scope, err := p.current()
	if err != nil {
		return err
	}
	if scope.FromClause == nil {
		return newInvariant("from element space outside a query spec")
	}
	scope.space = scope.FromClause.MakeSpace()
	return nil
}

// ExitFromElementSpace implements core.Listener.
func (p *FromClauseProcessor) ExitFromElementSpace(*core.FromElementSpace) error {
	scope, err := p.current()
	if err != nil {
		return err
	}
	scope.space = nil
	return nil
}

// EnterRootEntity implements core.Listener.
func (p *FromClauseProcessor) EnterRootEntity(root *core.RootEntity) error {
	scope, err := p.currentSpace()
	if err != nil {
		return err
	}
	_, err = p.interp.Root(scope.ID, scope.space, root.EntityName, root.Alias)
	return withPosition(err, root.Pos())
}

// EnterCrossJoin implements core.Listener.
func (p *FromClauseProcessor) EnterCrossJoin(join *core.CrossJoin) error {
	scope, err := p.currentSpace()
	if err != nil {
		return err
	}
	_, err = p.interp.CrossJoin(scope.ID, scope.space, join.EntityName, join.Alias)
	return withPosition(err, join.Pos())
}

// EnterQualifiedJoin implements core.Listener.
func (p *FromClauseProcessor) EnterQualifiedJoin(join *core.QualifiedJoin) error {
	joinType := sqm.JoinInner
	if join.Kind == core.JoinLeftOuter {
		joinType = sqm.JoinLeft
	}
	e, err := p.join(join.Target, join.TreatAs, join.Alias, joinType, join.Fetch)
	if err != nil {
		return withPosition(err, join.Pos())
	}
	if join.On == nil {
		return nil
	}

	scope, err := p.current()
	if err != nil {
		return err
	}
	c := &exprContext{
		interp:   p.interp,
		scope:    scope.ID,
		resolver: NewJoinPredicatePathResolver(p.interp, scope.ID, e),
	}
	on, err := c.predicate(join.On)
	if err != nil {
		return err
	}
	switch j := sqm.Unwrap(e).(type) {
	case *sqm.QualifiedAttributeJoinFromElement:
		j.On = on
	case *sqm.QualifiedEntityJoinFromElement:
		j.On = on
	}
	return nil
}

// EnterCollectionJoin implements core.Listener.
func (p *FromClauseProcessor) EnterCollectionJoin(join *core.CollectionJoin) error {
	_, err := p.join(join.Path, "", join.Alias, sqm.JoinInner, false)
	return withPosition(err, join.Pos())
}

// join materializes an explicit join. A target that is not an attribute
// path is tried as an entity name.
func (p *FromClauseProcessor) join(target *core.Path, treatAs, alias string, joinType sqm.JoinType, fetched bool) (sqm.FromElement, error) {
	scope, err := p.currentSpace()
	if err != nil {
		return nil, err
	}
	resolver := NewJoinTargetPathResolver(p.interp, scope.ID, scope.space, alias, joinType, fetched)

	var b *Binding
	if treatAs != "" {
		subtype, err := p.interp.ResolveSubtype(treatAs)
		if err != nil {
			return nil, err
		}
		b, err = resolver.ResolveTreatedPath(target.Parts, subtype)
		if err != nil {
			return nil, err
		}
	} else {
		b, err = resolver.ResolvePath(target.Parts)
		if err != nil {
			return nil, err
		}
	}
	if b != nil {
		return b.Element, nil
	}
	if treatAs != "" {
		return nil, p.unresolvedJoin(scope.ID, target)
	}

	e, err := p.interp.EntityJoin(scope.ID, scope.space, target.String(), alias, joinType, fetched)
	if err != nil {
		if IsUnresolvedReference(err) {
			return nil, p.unresolvedJoin(scope.ID, target)
		}
		return nil, err
	}
	return e, nil
}

func (p *FromClauseProcessor) unresolvedJoin(scope ScopeID, target *core.Path) error {
	name := target.String()
	suggestions := p.interp.suggestNames(scope, name)
	if len(target.Parts) == 1 {
		suggestions = append(suggestions, p.entitySuggestions(name)...)
	}
	return newUnresolved(name, suggestions, "join target %q is neither an attribute path nor an entity", name)
}

func (p *FromClauseProcessor) entitySuggestions(name string) []string {
	var unresolved *UnresolvedReferenceError
	if _, err := p.interp.ResolveEntityType(name); err != nil && errors.As(err, &unresolved) {
		return unresolved.Suggestions
	}
	return nil
}

// EnterDmlRoot implements core.Listener. Insert targets are not visible to
// the query spec of the insert; update and delete targets are visible to
// subqueries of the statement.
func (p *FromClauseProcessor) EnterDmlRoot(target *core.EntityName) error {
	t, err := p.interp.ResolveEntityType(target.Name)
	if err != nil {
		return withPosition(err, target.Pos())
	}
	if err := p.interp.checkPolymorphicRoot(t); err != nil {
		return withPosition(err, target.Pos())
	}
	scope := p.interp.scopes.NewDmlScope()
	if _, err := p.interp.builder.MakeDmlRoot(scope.ID, t, target.Alias); err != nil {
		return withPosition(err, target.Pos())
	}
	p.dml = scope
	if p.kind != sqm.KindInsert {
		p.stack = append(p.stack, scope.ID)
		p.dmlPushed = true
	}
	p.interp.logger.Debug("statement target", "entity", t.Name(), "alias", scope.DmlRoot.Alias())
	return nil
}
