package sqm

// Node is implemented by every semantic query model node.
type Node interface {
	// Accept dispatches to the Visitor method for the concrete node type.
	Accept(v Visitor)
}

// Visitor has one method per concrete node type.
type Visitor interface {
	// Statements
	VisitSelectStatement(n *SelectStatement)
	VisitInsertSelectStatement(n *InsertSelectStatement)
	VisitUpdateStatement(n *UpdateStatement)
	VisitDeleteStatement(n *DeleteStatement)
	VisitAssignment(n *Assignment)

	// Query structure
	VisitQuerySpec(n *QuerySpec)
	VisitSelectClause(n *SelectClause)
	VisitSelection(n *Selection)
	VisitDynamicInstantiation(n *DynamicInstantiation)
	VisitWhereClause(n *WhereClause)
	VisitSortSpecification(n *SortSpecification)

	// From clause
	VisitFromClause(n *FromClause)
	VisitFromElementSpace(n *FromElementSpace)
	VisitRootEntityFromElement(n *RootEntityFromElement)
	VisitCrossJoinedFromElement(n *CrossJoinedFromElement)
	VisitQualifiedAttributeJoinFromElement(n *QualifiedAttributeJoinFromElement)
	VisitQualifiedEntityJoinFromElement(n *QualifiedEntityJoinFromElement)
	VisitTreatedFromElement(n *TreatedFromElement)

	// Expressions
	VisitAttributeReference(n *AttributeReference)
	VisitFromElementReference(n *FromElementReference)
	VisitLiteral(n *Literal)
	VisitEnumLiteral(n *EnumLiteral)
	VisitEntityTypeLiteral(n *EntityTypeLiteral)
	VisitNamedParameter(n *NamedParameter)
	VisitPositionalParameter(n *PositionalParameter)
	VisitBinaryArithmetic(n *BinaryArithmetic)
	VisitUnaryMinus(n *UnaryMinus)
	VisitConcat(n *Concat)
	VisitFunctionCall(n *FunctionCall)
	VisitAggregate(n *Aggregate)
	VisitCountStar(n *CountStar)
	VisitSubQueryExpression(n *SubQueryExpression)
	VisitSelectionReference(n *SelectionReference)

	// Predicates
	VisitAndPredicate(n *AndPredicate)
	VisitOrPredicate(n *OrPredicate)
	VisitNegatedPredicate(n *NegatedPredicate)
	VisitGroupedPredicate(n *GroupedPredicate)
	VisitRelationalPredicate(n *RelationalPredicate)
	VisitNullnessPredicate(n *NullnessPredicate)
	VisitLikePredicate(n *LikePredicate)
	VisitBetweenPredicate(n *BetweenPredicate)
	VisitInListPredicate(n *InListPredicate)
	VisitInSubQueryPredicate(n *InSubQueryPredicate)
	VisitEmptinessPredicate(n *EmptinessPredicate)
	VisitMemberOfPredicate(n *MemberOfPredicate)
	VisitExistsPredicate(n *ExistsPredicate)
	VisitBooleanExpressionPredicate(n *BooleanExpressionPredicate)
}

// Accept implements Node.
func (n *SelectStatement) Accept(v Visitor) { v.VisitSelectStatement(n) }

// Accept implements Node.
func (n *InsertSelectStatement) Accept(v Visitor) { v.VisitInsertSelectStatement(n) }

// Accept implements Node.
func (n *UpdateStatement) Accept(v Visitor) { v.VisitUpdateStatement(n) }

// Accept implements Node.
func (n *DeleteStatement) Accept(v Visitor) { v.VisitDeleteStatement(n) }

// Accept implements Node.
func (n *Assignment) Accept(v Visitor) { v.VisitAssignment(n) }

// Accept implements Node.
func (n *QuerySpec) Accept(v Visitor) { v.VisitQuerySpec(n) }

// Accept implements Node.
func (n *SelectClause) Accept(v Visitor) { v.VisitSelectClause(n) }

// Accept implements Node.
func (n *Selection) Accept(v Visitor) { v.VisitSelection(n) }

// Accept implements Node.
func (n *DynamicInstantiation) Accept(v Visitor) { v.VisitDynamicInstantiation(n) }

// Accept implements Node.
func (n *WhereClause) Accept(v Visitor) { v.VisitWhereClause(n) }

// Accept implements Node.
func (n *SortSpecification) Accept(v Visitor) { v.VisitSortSpecification(n) }

// Accept implements Node.
func (n *FromClause) Accept(v Visitor) { v.VisitFromClause(n) }

// Accept implements Node.
func (n *FromElementSpace) Accept(v Visitor) { v.VisitFromElementSpace(n) }

// Accept implements Node.
func (n *RootEntityFromElement) Accept(v Visitor) { v.VisitRootEntityFromElement(n) }

// Accept implements Node.
func (n *CrossJoinedFromElement) Accept(v Visitor) { v.VisitCrossJoinedFromElement(n) }

// Accept implements Node.
func (n *QualifiedAttributeJoinFromElement) Accept(v Visitor) { v.VisitQualifiedAttributeJoinFromElement(n) }

// Accept implements Node.
func (n *QualifiedEntityJoinFromElement) Accept(v Visitor) { v.VisitQualifiedEntityJoinFromElement(n) }

// Accept implements Node.
func (n *TreatedFromElement) Accept(v Visitor) { v.VisitTreatedFromElement(n) }

// Accept implements Node.
func (n *AttributeReference) Accept(v Visitor) { v.VisitAttributeReference(n) }

// Accept implements Node.
func (n *FromElementReference) Accept(v Visitor) { v.VisitFromElementReference(n) }

// Accept implements Node.
func (n *Literal) Accept(v Visitor) { v.VisitLiteral(n) }

// Accept implements Node.
func (n *EnumLiteral) Accept(v Visitor) { v.VisitEnumLiteral(n) }

// Accept implements Node.
func (n *EntityTypeLiteral) Accept(v Visitor) { v.VisitEntityTypeLiteral(n) }

// Accept implements Node.
func (n *NamedParameter) Accept(v Visitor) { v.VisitNamedParameter(n) }

// Accept implements Node.
func (n *PositionalParameter) Accept(v Visitor) { v.VisitPositionalParameter(n) }

// Accept implements Node.
func (n *BinaryArithmetic) Accept(v Visitor) { v.VisitBinaryArithmetic(n) }

// Accept implements Node.
func (n *UnaryMinus) Accept(v Visitor) { v.VisitUnaryMinus(n) }

// Accept implements Node.
func (n *Concat) Accept(v Visitor) { v.VisitConcat(n) }

// Accept implements Node.
func (n *FunctionCall) Accept(v Visitor) { v.VisitFunctionCall(n) }

// Accept implements Node.
func (n *Aggregate) Accept(v Visitor) { v.VisitAggregate(n) }

// Accept implements Node.
func (n *CountStar) Accept(v Visitor) { v.VisitCountStar(n) }

// Accept implements Node.
func (n *SubQueryExpression) Accept(v Visitor) { v.VisitSubQueryExpression(n) }

// Accept implements Node.
func (n *SelectionReference) Accept(v Visitor) { v.VisitSelectionReference(n) }

// Accept implements Node.
func (n *AndPredicate) Accept(v Visitor) { v.VisitAndPredicate(n) }

// Accept implements Node.
func (n *OrPredicate) Accept(v Visitor) { v.VisitOrPredicate(n) }

// Accept implements Node.
func (n *NegatedPredicate) Accept(v Visitor) { v.VisitNegatedPredicate(n) }

// Accept implements Node.
func (n *GroupedPredicate) Accept(v Visitor) { v.VisitGroupedPredicate(n) }

// Accept implements Node.
func (n *RelationalPredicate) Accept(v Visitor) { v.VisitRelationalPredicate(n) }

// Accept implements Node.
func (n *NullnessPredicate) Accept(v Visitor) { v.VisitNullnessPredicate(n) }

// Accept implements Node.
func (n *LikePredicate) Accept(v Visitor) { v.VisitLikePredicate(n) }

// Accept implements Node.
func (n *BetweenPredicate) Accept(v Visitor) { v.VisitBetweenPredicate(n) }

// Accept implements Node.
func (n *InListPredicate) Accept(v Visitor) { v.VisitInListPredicate(n) }

// Accept implements Node.
func (n *InSubQueryPredicate) Accept(v Visitor) { v.VisitInSubQueryPredicate(n) }

// Accept implements Node.
func (n *EmptinessPredicate) Accept(v Visitor) { v.VisitEmptinessPredicate(n) }

// Accept implements Node.
func (n *MemberOfPredicate) Accept(v Visitor) { v.VisitMemberOfPredicate(n) }

// Accept implements Node.
func (n *ExistsPredicate) Accept(v Visitor) { v.VisitExistsPredicate(n) }

// Accept implements Node.
func (n *BooleanExpressionPredicate) Accept(v Visitor) { v.VisitBooleanExpressionPredicate(n) }
