package criteria

import "github.com/leapstack-labs/leapql/pkg/sqm"

// Predicate is a restriction of a criteria query. The set of
// implementations is closed.
type Predicate interface {
	predicateNode()
}

// Junction conjoins or disjoins predicates.
type Junction struct {
	or    bool
	preds []Predicate
}

// And conjoins preds.
func And(preds ...Predicate) *Junction { return &Junction{preds: preds} }

// Or disjoins preds.
func Or(preds ...Predicate) *Junction { return &Junction{or: true, preds: preds} }

func conjoin(current Predicate, preds []Predicate) Predicate {
	if len(preds) == 0 {
		return current
	}
	if current == nil && len(preds) == 1 {
		return preds[0]
	}
	if j, ok := current.(*Junction); ok && !j.or {
		return &Junction{preds: append(append([]Predicate(nil), j.preds...), preds...)}
	}
	if current == nil {
		return And(preds...)
	}
	return And(append([]Predicate{current}, preds...)...)
}

// Negated negates a predicate.
type Negated struct {
	pred Predicate
}

// Not negates p.
func Not(p Predicate) *Negated { return &Negated{pred: p} }

// Comparison compares two values.
type Comparison struct {
	op          sqm.RelationalOp
	left, right Expression
}

// Equal is left = right.
func Equal(left, right Expression) *Comparison {
	return &Comparison{op: sqm.OpEqual, left: left, right: right}
}

// NotEqual is left <> right.
func NotEqual(left, right Expression) *Comparison {
	return &Comparison{op: sqm.OpNotEqual, left: left, right: right}
}

// Less is left < right.
func Less(left, right Expression) *Comparison {
	return &Comparison{op: sqm.OpLess, left: left, right: right}
}

// LessOrEqual is left <= right.
func LessOrEqual(left, right Expression) *Comparison {
	return &Comparison{op: sqm.OpLessOrEqual, left: left, right: right}
}

// Greater is left > right.
func Greater(left, right Expression) *Comparison {
	return &Comparison{op: sqm.OpGreater, left: left, right: right}
}

// GreaterOrEqual is left >= right.
func GreaterOrEqual(left, right Expression) *Comparison {
	return &Comparison{op: sqm.OpGreaterOrEqual, left: left, right: right}
}

// Nullness tests a value for null.
type Nullness struct {
	expr    Expression
	negated bool
}

// IsNull is e is null.
func IsNull(e Expression) *Nullness { return &Nullness{expr: e} }

// IsNotNull is e is not null.
func IsNotNull(e Expression) *Nullness { return &Nullness{expr: e, negated: true} }

// Likeness matches a string against a pattern.
type Likeness struct {
	match, pattern, escape Expression
	negated                bool
}

// Like is match like pattern.
func Like(match, pattern Expression) *Likeness {
	return &Likeness{match: match, pattern: pattern}
}

// NotLike is match not like pattern.
func NotLike(match, pattern Expression) *Likeness {
	return &Likeness{match: match, pattern: pattern, negated: true}
}

// Escape sets the escape character of the pattern.
func (l *Likeness) Escape(e Expression) *Likeness {
	l.escape = e
	return l
}

// Range tests that a value lies between two bounds.
type Range struct {
	expr, low, high Expression
	negated         bool
}

// Between is e between low and high.
func Between(e, low, high Expression) *Range {
	return &Range{expr: e, low: low, high: high}
}

// NotBetween is e not between low and high.
func NotBetween(e, low, high Expression) *Range {
	return &Range{expr: e, low: low, high: high, negated: true}
}

// Membership tests a value against a list or a subquery.
type Membership struct {
	test    Expression
	values  []Expression
	query   *Query
	negated bool
}

// In is test in (values...).
func In(test Expression, values ...Expression) *Membership {
	return &Membership{test: test, values: values}
}

// NotIn is test not in (values...).
func NotIn(test Expression, values ...Expression) *Membership {
	return &Membership{test: test, values: values, negated: true}
}

// InSubquery is test in (sub).
func InSubquery(test Expression, sub *Query) *Membership {
	return &Membership{test: test, query: sub}
}

// Emptiness tests whether a collection has elements.
type Emptiness struct {
	collection Expression
	negated    bool
}

// IsEmpty is collection is empty.
func IsEmpty(collection Expression) *Emptiness { return &Emptiness{collection: collection} }

// IsNotEmpty is collection is not empty.
func IsNotEmpty(collection Expression) *Emptiness {
	return &Emptiness{collection: collection, negated: true}
}

// MemberOf tests whether a value is an element of a collection.
type MemberOf struct {
	value, collection Expression
	negated           bool
}

// IsMember is value member of collection.
func IsMember(value, collection Expression) *MemberOf {
	return &MemberOf{value: value, collection: collection}
}

// Existence tests whether a subquery has results.
type Existence struct {
	query   *Query
	negated bool
}

// Exists is exists (sub).
func Exists(sub *Query) *Existence { return &Existence{query: sub} }

// NotExists is not exists (sub).
func NotExists(sub *Query) *Existence { return &Existence{query: sub, negated: true} }

// Truth uses a boolean-valued expression as a predicate.
type Truth struct {
	expr Expression
}

// IsTrue uses e as a predicate.
func IsTrue(e Expression) *Truth { return &Truth{expr: e} }

func (*Junction) predicateNode()   {}
func (*Negated) predicateNode()    {}
func (*Comparison) predicateNode() {}
func (*Nullness) predicateNode()   {}
func (*Likeness) predicateNode()   {}
func (*Range) predicateNode()      {}
func (*Membership) predicateNode() {}
func (*Emptiness) predicateNode()  {}
func (*MemberOf) predicateNode()   {}
func (*Existence) predicateNode()  {}
func (*Truth) predicateNode()      {}
