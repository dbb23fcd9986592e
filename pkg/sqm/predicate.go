package sqm

// Predicate is a boolean condition.
type Predicate interface {
	Node
	predicateNode()
}

// AndPredicate is `left and right`.
type AndPredicate struct {
	Left, Right Predicate
}

// OrPredicate is `left or right`.
type OrPredicate struct {
	Left, Right Predicate
}

// NegatedPredicate is `not wrapped`.
type NegatedPredicate struct {
	Wrapped Predicate
}

// GroupedPredicate is a parenthesized predicate.
type GroupedPredicate struct {
	Wrapped Predicate
}

// RelationalOp is a comparison operator.
type RelationalOp int

// RelationalOp constants.
const (
	OpEqual RelationalOp = iota
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
)

func (o RelationalOp) String() string {
	return [...]string{"=", "<>", "<", "<=", ">", ">="}[o]
}

// RelationalPredicate compares two expressions.
type RelationalPredicate struct {
	Op          RelationalOp
	Left, Right Expression
}

// NullnessPredicate is `expr is [not] null`.
type NullnessPredicate struct {
	Expr    Expression
	Negated bool
}

// LikePredicate is `match [not] like pattern [escape escape]`.
type LikePredicate struct {
	Match   Expression
	Pattern Expression
	Escape  Expression
	Negated bool
}

// BetweenPredicate is `expr [not] between low and high`.
type BetweenPredicate struct {
	Expr      Expression
	Low, High Expression
	Negated   bool
}

// InListPredicate is `test [not] in (values)`.
type InListPredicate struct {
	Test    Expression
	Values  []Expression
	Negated bool
}

// InSubQueryPredicate is `test [not] in (subquery)`.
type InSubQueryPredicate struct {
	Test     Expression
	SubQuery *SubQueryExpression
	Negated  bool
}

// EmptinessPredicate is `collection is [not] empty`.
type EmptinessPredicate struct {
	Collection *AttributeReference
	Negated    bool
}

// MemberOfPredicate is `value [not] member of collection`.
type MemberOfPredicate struct {
	Value      Expression
	Collection *AttributeReference
	Negated    bool
}

// ExistsPredicate is `[not] exists (subquery)`.
type ExistsPredicate struct {
	SubQuery *SubQueryExpression
	Negated  bool
}

// BooleanExpressionPredicate uses a boolean-typed expression as a predicate.
type BooleanExpressionPredicate struct {
	Expr Expression
}

func (*AndPredicate) predicateNode() {}
func (*OrPredicate) predicateNode() {}
func (*NegatedPredicate) predicateNode() {}
func (*GroupedPredicate) predicateNode() {}
func (*RelationalPredicate) predicateNode() {}
func (*NullnessPredicate) predicateNode() {}
func (*LikePredicate) predicateNode() {}
func (*BetweenPredicate) predicateNode() {}
func (*InListPredicate) predicateNode() {}
func (*InSubQueryPredicate) predicateNode() {}
func (*EmptinessPredicate) predicateNode() {}
func (*MemberOfPredicate) predicateNode() {}
func (*ExistsPredicate) predicateNode() {}
func (*BooleanExpressionPredicate) predicateNode() {}
