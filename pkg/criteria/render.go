package criteria

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// String renders q as query text. Unaliased from nodes are given
// placeholder aliases t1, t2 and so on.
func (q *Query) String() string {
	if q == nil {
		return "<nil>"
	}
	w := &writer{names: make(map[From]string)}
	w.query(q)
	return w.String()
}

// exprString renders e on its own. From nodes without an alias are
// described by what they join.
func exprString(e Expression) string {
	w := &writer{}
	w.expression(e)
	return w.String()
}

type writer struct {
	strings.Builder
	// names holds placeholder aliases; nil when rendering a lone expression.
	names map[From]string
}

func (w *writer) name(f From) string {
	if alias := f.Alias(); alias != "" {
		if _, ok := f.(*Treated); !ok {
			return alias
		}
	}
	if name, ok := w.names[f]; ok {
		return name
	}
	switch f := f.(type) {
	case *Root:
		return f.entity
	case *CrossJoin:
		return f.entity
	case *EntityJoin:
		return f.entity
	case *Join:
		return w.name(f.parent) + "." + strings.Join(f.parts, ".")
	case *Treated:
		var inner writer
		inner.names = w.names
		inner.treated(f)
		return inner.String()
	}
	return "?"
}

func (w *writer) assign(f From) {
	if f.Alias() != "" || w.names == nil {
		return
	}
	w.names[f] = "t" + strconv.Itoa(len(w.names)+1)
}

func (w *writer) query(q *Query) {
	for _, r := range q.roots {
		w.assign(r)
		for _, j := range r.joins {
			w.assign(j)
		}
	}

	if len(q.selections) > 0 {
		w.WriteString("select ")
		if q.distinct {
			w.WriteString("distinct ")
		}
		w.selections(q.selections)
		w.WriteByte(' ')
	}
	w.WriteString("from ")
	for i, r := range q.roots {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(r.entity + " " + w.name(r))
		for _, j := range r.joins {
			w.WriteByte(' ')
			w.join(j)
		}
	}
	if where := conjoin(nil, q.where); where != nil {
		w.WriteString(" where ")
		w.predicate(where)
	}
	if len(q.groupBy) > 0 {
		w.WriteString(" group by ")
		w.expressions(q.groupBy)
	}
	if having := conjoin(nil, q.having); having != nil {
		w.WriteString(" having ")
		w.predicate(having)
	}
	for i, o := range q.orderBy {
		if i == 0 {
			w.WriteString(" order by ")
		} else {
			w.WriteString(", ")
		}
		w.expression(o.expr)
		if o.descending {
			w.WriteString(" desc")
		}
		switch o.nulls {
		case sqm.NullsFirst:
			w.WriteString(" nulls first")
		case sqm.NullsLast:
			w.WriteString(" nulls last")
		}
	}
	if q.limit != nil {
		w.WriteString(" limit ")
		w.expression(q.limit)
	}
	if q.offset != nil {
		w.WriteString(" offset ")
		w.expression(q.offset)
	}
}

func (w *writer) join(j joinNode) {
	switch j := j.(type) {
	case *Join:
		if j.joinType == sqm.JoinLeft {
			w.WriteString("left ")
		}
		w.WriteString("join ")
		if j.fetch {
			w.WriteString("fetch ")
		}
		target := w.name(j.parent) + "." + strings.Join(j.parts, ".")
		if j.treatAs != "" {
			target = "treat(" + target + " as " + j.treatAs + ")"
		}
		w.WriteString(target + " " + w.name(j))
		if j.on != nil {
			w.WriteString(" on ")
			w.predicate(j.on)
		}
	case *EntityJoin:
		if j.joinType == sqm.JoinLeft {
			w.WriteString("left ")
		}
		w.WriteString("join " + j.entity + " " + w.name(j))
		if j.on != nil {
			w.WriteString(" on ")
			w.predicate(j.on)
		}
	case *CrossJoin:
		w.WriteString("cross join " + j.entity + " " + w.name(j))
	}
}

func (w *writer) selections(items []Selection) {
	for i, item := range items {
		if i > 0 {
			w.WriteString(", ")
		}
		w.expression(item.Expr)
		if item.Alias != "" {
			w.WriteString(" as " + item.Alias)
		}
	}
}

func (w *writer) expressions(exprs []Expression) {
	for i, e := range exprs {
		if i > 0 {
			w.WriteString(", ")
		}
		w.expression(e)
	}
}

func (w *writer) treated(t *Treated) {
	w.WriteString("treat(")
	w.expression(t.source)
	w.WriteString(" as " + t.subtype + ")")
}

//nolint:gocyclo // one case per expression kind
func (w *writer) expression(e Expression) {
	switch x := e.(type) {
	case *Treated:
		w.treated(x)
	case From:
		w.WriteString(w.name(x))
	case *Path:
		w.expression(x.source)
		w.WriteString("." + strings.Join(x.parts, "."))
	case *LiteralValue:
		w.literal(x.value)
	case *Parameter:
		if x.name != "" {
			w.WriteString(":" + x.name)
		} else {
			w.WriteString("?" + strconv.Itoa(x.position))
		}
	case *TypeLiteral:
		w.WriteString(x.entity)
	case *EnumConstant:
		w.WriteString(x.class + "." + x.constant)
	case *FunctionCall:
		w.WriteString(x.name + "(")
		switch {
		case x.star:
			w.WriteByte('*')
		case x.distinct:
			w.WriteString("distinct ")
		}
		w.expressions(x.args)
		w.WriteByte(')')
	case *Arithmetic:
		w.WriteByte('(')
		w.expression(x.left)
		w.WriteString(" " + x.op.String() + " ")
		w.expression(x.right)
		w.WriteByte(')')
	case *Negation:
		w.WriteByte('-')
		w.expression(x.operand)
	case *Concatenation:
		w.WriteByte('(')
		w.expression(x.left)
		w.WriteString(" || ")
		w.expression(x.right)
		w.WriteByte(')')
	case *SubqueryValue:
		w.subquery(x.query)
	case *Instantiation:
		switch x.kind {
		case sqm.InstantiateList:
			w.WriteString("new list(")
		case sqm.InstantiateMap:
			w.WriteString("new map(")
		default:
			w.WriteString("new " + x.class + "(")
		}
		w.selections(x.args)
		w.WriteByte(')')
	case nil:
		w.WriteString("<missing>")
	default:
		fmt.Fprintf(w, "<%T>", e)
	}
}

func (w *writer) literal(v any) {
	lit, err := literal(v)
	if err != nil {
		fmt.Fprintf(w, "%v", v)
		return
	}
	switch lit.Kind {
	case sqm.LiteralString:
		w.WriteString("'" + strings.ReplaceAll(lit.Value, "'", "''") + "'")
	case sqm.LiteralLong:
		w.WriteString(lit.Value + "L")
	case sqm.LiteralFloat:
		w.WriteString(lit.Value + "F")
	case sqm.LiteralNull:
		w.WriteString("null")
	default:
		w.WriteString(lit.Value)
	}
}

func (w *writer) subquery(q *Query) {
	w.WriteByte('(')
	if q != nil {
		w.query(q)
	}
	w.WriteByte(')')
}

func not(negated bool) string {
	if negated {
		return "not "
	}
	return ""
}

//nolint:gocyclo // one case per predicate kind
func (w *writer) predicate(p Predicate) {
	switch x := p.(type) {
	case *Junction:
		sep := " and "
		if x.or {
			sep = " or "
		}
		for i, pred := range x.preds {
			if i > 0 {
				w.WriteString(sep)
			}
			if isCompound(pred) && len(x.preds) > 1 {
				w.WriteByte('(')
				w.predicate(pred)
				w.WriteByte(')')
			} else {
				w.predicate(pred)
			}
		}
	case *Negated:
		w.WriteString("not (")
		w.predicate(x.pred)
		w.WriteByte(')')
	case *Comparison:
		w.expression(x.left)
		w.WriteString(" " + x.op.String() + " ")
		w.expression(x.right)
	case *Nullness:
		w.expression(x.expr)
		w.WriteString(" is " + not(x.negated) + "null")
	case *Likeness:
		w.expression(x.match)
		w.WriteString(" " + not(x.negated) + "like ")
		w.expression(x.pattern)
		if x.escape != nil {
			w.WriteString(" escape ")
			w.expression(x.escape)
		}
	case *Range:
		w.expression(x.expr)
		w.WriteString(" " + not(x.negated) + "between ")
		w.expression(x.low)
		w.WriteString(" and ")
		w.expression(x.high)
	case *Membership:
		w.expression(x.test)
		w.WriteString(" " + not(x.negated) + "in ")
		if x.query != nil {
			w.subquery(x.query)
			return
		}
		w.WriteByte('(')
		w.expressions(x.values)
		w.WriteByte(')')
	case *Emptiness:
		w.expression(x.collection)
		w.WriteString(" is " + not(x.negated) + "empty")
	case *MemberOf:
		w.expression(x.value)
		w.WriteString(" " + not(x.negated) + "member of ")
		w.expression(x.collection)
	case *Existence:
		w.WriteString(not(x.negated) + "exists ")
		w.subquery(x.query)
	case *Truth:
		w.expression(x.expr)
	case nil:
		w.WriteString("<missing>")
	default:
		fmt.Fprintf(w, "<%T>", p)
	}
}
