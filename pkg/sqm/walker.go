package sqm

// Children returns the nodes owned by n in traversal order. References to
// from elements held by expressions are not children.
//
//nolint:gocyclo // one case per node kind
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil && !isNilNode(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *SelectStatement:
		add(n.QuerySpec)
		for _, s := range n.OrderBy {
			add(s)
		}
		add(n.Limit, n.Offset)
	case *InsertSelectStatement:
		add(n.Target)
		for _, a := range n.Attributes {
			add(a)
		}
		add(n.QuerySpec)
	case *UpdateStatement:
		add(n.Target)
		for _, a := range n.Assignments {
			add(a)
		}
		add(n.Where)
	case *DeleteStatement:
		add(n.Target, n.Where)
	case *Assignment:
		add(n.Target, n.Value)

	case *QuerySpec:
		add(n.FromClause, n.SelectClause, n.WhereClause)
		for _, g := range n.GroupBy {
			add(g)
		}
		add(n.Having)
	case *SelectClause:
		for _, s := range n.Selections {
			add(s)
		}
	case *Selection:
		add(n.Expr)
	case *DynamicInstantiation:
		for _, a := range n.Args {
			add(a)
		}
	case *WhereClause:
		add(n.Predicate)
	case *SortSpecification:
		add(n.Expr)

	case *FromClause:
		for _, s := range n.Spaces {
			add(s)
		}
	case *FromElementSpace:
		add(n.Root)
		for _, j := range n.Joins {
			add(j)
		}
	case *QualifiedAttributeJoinFromElement:
		add(n.IndexRestriction, n.On)
	case *QualifiedEntityJoinFromElement:
		add(n.On)

	case *BinaryArithmetic:
		add(n.Left, n.Right)
	case *UnaryMinus:
		add(n.Operand)
	case *Concat:
		add(n.Left, n.Right)
	case *FunctionCall:
		for _, a := range n.Args {
			add(a)
		}
	case *Aggregate:
		add(n.Argument)
	case *SubQueryExpression:
		add(n.QuerySpec)

	case *AndPredicate:
		add(n.Left, n.Right)
	case *OrPredicate:
		add(n.Left, n.Right)
	case *NegatedPredicate:
		add(n.Wrapped)
	case *GroupedPredicate:
		add(n.Wrapped)
	case *RelationalPredicate:
		add(n.Left, n.Right)
	case *NullnessPredicate:
		add(n.Expr)
	case *LikePredicate:
		add(n.Match, n.Pattern, n.Escape)
	case *BetweenPredicate:
		add(n.Expr, n.Low, n.High)
	case *InListPredicate:
		add(n.Test)
		for _, v := range n.Values {
			add(v)
		}
	case *InSubQueryPredicate:
		add(n.Test, n.SubQuery)
	case *EmptinessPredicate:
		add(n.Collection)
	case *MemberOfPredicate:
		add(n.Value, n.Collection)
	case *ExistsPredicate:
		add(n.SubQuery)
	case *BooleanExpressionPredicate:
		add(n.Expr)
	}
	return out
}

// isNilNode catches typed nil pointers stored in Node values.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *QuerySpec:
		return v == nil
	case *SelectClause:
		return v == nil
	case *WhereClause:
		return v == nil
	case *FromClause:
		return v == nil
	case *RootEntityFromElement:
		return v == nil
	case *SubQueryExpression:
		return v == nil
	case *AttributeReference:
		return v == nil
	}
	return false
}

// BaseWalker implements Visitor with a recursive pre-order traversal.
//
// Embed it and set Self to the embedding visitor so that overridden methods
// are dispatched during descent:
//
//	type counter struct {
//		sqm.BaseWalker
//		joins int
//	}
//
//	func (c *counter) VisitQualifiedAttributeJoinFromElement(n *sqm.QualifiedAttributeJoinFromElement) {
//		c.joins++
//		c.BaseWalker.VisitQualifiedAttributeJoinFromElement(n)
//	}
//
//	c := &counter{}
//	c.Self = c
//	stmt.Accept(c)
type BaseWalker struct {
	Self Visitor
}

var _ Visitor = (*BaseWalker)(nil)

func (w *BaseWalker) self() Visitor {
	if w.Self != nil {
		return w.Self
	}
	return w
}

// Descend visits the children of n.
func (w *BaseWalker) Descend(n Node) {
	v := w.self()
	for _, c := range Children(n) {
		c.Accept(v)
	}
}

func (w *BaseWalker) VisitSelectStatement(n *SelectStatement) { w.Descend(n) }
func (w *BaseWalker) VisitInsertSelectStatement(n *InsertSelectStatement) { w.Descend(n) }
func (w *BaseWalker) VisitUpdateStatement(n *UpdateStatement) { w.Descend(n) }
func (w *BaseWalker) VisitDeleteStatement(n *DeleteStatement) { w.Descend(n) }
func (w *BaseWalker) VisitAssignment(n *Assignment) { w.Descend(n) }

func (w *BaseWalker) VisitQuerySpec(n *QuerySpec) { w.Descend(n) }
func (w *BaseWalker) VisitSelectClause(n *SelectClause) { w.Descend(n) }
func (w *BaseWalker) VisitSelection(n *Selection) { w.Descend(n) }
func (w *BaseWalker) VisitDynamicInstantiation(n *DynamicInstantiation) { w.Descend(n) }
func (w *BaseWalker) VisitWhereClause(n *WhereClause) { w.Descend(n) }
func (w *BaseWalker) VisitSortSpecification(n *SortSpecification) { w.Descend(n) }

func (w *BaseWalker) VisitFromClause(n *FromClause) { w.Descend(n) }
func (w *BaseWalker) VisitFromElementSpace(n *FromElementSpace) { w.Descend(n) }
func (w *BaseWalker) VisitRootEntityFromElement(n *RootEntityFromElement) { w.Descend(n) }
func (w *BaseWalker) VisitCrossJoinedFromElement(n *CrossJoinedFromElement) {
	w.Descend(n)
}
func (w *BaseWalker) VisitQualifiedAttributeJoinFromElement(n *QualifiedAttributeJoinFromElement) {
	w.Descend(n)
}
func (w *BaseWalker) VisitQualifiedEntityJoinFromElement(n *QualifiedEntityJoinFromElement) {
	w.Descend(n)
}
func (w *BaseWalker) VisitTreatedFromElement(n *TreatedFromElement) { w.Descend(n) }

func (w *BaseWalker) VisitAttributeReference(n *AttributeReference) { w.Descend(n) }
func (w *BaseWalker) VisitFromElementReference(n *FromElementReference) { w.Descend(n) }
func (w *BaseWalker) VisitLiteral(n *Literal) { w.Descend(n) }
func (w *BaseWalker) VisitEnumLiteral(n *EnumLiteral) { w.Descend(n) }
func (w *BaseWalker) VisitEntityTypeLiteral(n *EntityTypeLiteral) { w.Descend(n) }
func (w *BaseWalker) VisitNamedParameter(n *NamedParameter) { w.Descend(n) }
func (w *BaseWalker) VisitPositionalParameter(n *PositionalParameter) { w.Descend(n) }
func (w *BaseWalker) VisitBinaryArithmetic(n *BinaryArithmetic) { w.Descend(n) }
func (w *BaseWalker) VisitUnaryMinus(n *UnaryMinus) { w.Descend(n) }
func (w *BaseWalker) VisitConcat(n *Concat) { w.Descend(n) }
func (w *BaseWalker) VisitFunctionCall(n *FunctionCall) { w.Descend(n) }
func (w *BaseWalker) VisitAggregate(n *Aggregate) { w.Descend(n) }
func (w *BaseWalker) VisitCountStar(n *CountStar) { w.Descend(n) }
func (w *BaseWalker) VisitSubQueryExpression(n *SubQueryExpression) { w.Descend(n) }
func (w *BaseWalker) VisitSelectionReference(n *SelectionReference) { w.Descend(n) }

func (w *BaseWalker) VisitAndPredicate(n *AndPredicate) { w.Descend(n) }
func (w *BaseWalker) VisitOrPredicate(n *OrPredicate) { w.Descend(n) }
func (w *BaseWalker) VisitNegatedPredicate(n *NegatedPredicate) { w.Descend(n) }
func (w *BaseWalker) VisitGroupedPredicate(n *GroupedPredicate) { w.Descend(n) }
func (w *BaseWalker) VisitRelationalPredicate(n *RelationalPredicate) { w.Descend(n) }
func (w *BaseWalker) VisitNullnessPredicate(n *NullnessPredicate) { w.Descend(n) }
func (w *BaseWalker) VisitLikePredicate(n *LikePredicate) { w.Descend(n) }
func (w *BaseWalker) VisitBetweenPredicate(n *BetweenPredicate) { w.Descend(n) }
func (w *BaseWalker) VisitInListPredicate(n *InListPredicate) { w.Descend(n) }
func (w *BaseWalker) VisitInSubQueryPredicate(n *InSubQueryPredicate) { w.Descend(n) }
func (w *BaseWalker) VisitEmptinessPredicate(n *EmptinessPredicate) { w.Descend(n) }
func (w *BaseWalker) VisitMemberOfPredicate(n *MemberOfPredicate) { w.Descend(n) }
func (w *BaseWalker) VisitExistsPredicate(n *ExistsPredicate) { w.Descend(n) }
func (w *BaseWalker) VisitBooleanExpressionPredicate(n *BooleanExpressionPredicate) {
	w.Descend(n)
}

// Inspect traverses the tree rooted at n in pre-order and calls fn for each
// node. If fn returns false, the children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}
