package core

// Inspect traverses the tree rooted at node depth-first and calls fn for each
// node. If fn returns false, the children of that node are skipped.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	inspectChildren(node, fn)
}

func inspectExprs(exprs []Expr, fn func(Node) bool) {
	for _, e := range exprs {
		if e != nil {
			Inspect(e, fn)
		}
	}
}

func inspectExpr(e Expr, fn func(Node) bool) {
	if e != nil {
		Inspect(e, fn)
	}
}

//nolint:gocyclo // one case per node kind
func inspectChildren(node Node, fn func(Node) bool) {
	switch n := node.(type) {
	case *SelectStatement:
		if n.Query != nil {
			Inspect(n.Query, fn)
		}
		for _, item := range n.OrderBy {
			Inspect(item, fn)
		}
		inspectExpr(n.Limit, fn)
		inspectExpr(n.Offset, fn)

	case *InsertStatement:
		if n.Target != nil {
			Inspect(n.Target, fn)
		}
		for _, p := range n.Attributes {
			Inspect(p, fn)
		}
		if n.Query != nil {
			Inspect(n.Query, fn)
		}

	case *UpdateStatement:
		if n.Target != nil {
			Inspect(n.Target, fn)
		}
		for _, a := range n.Assignments {
			Inspect(a, fn)
		}
		inspectExpr(n.Where, fn)

	case *DeleteStatement:
		if n.Target != nil {
			Inspect(n.Target, fn)
		}
		inspectExpr(n.Where, fn)

	case *Assignment:
		if n.Target != nil {
			Inspect(n.Target, fn)
		}
		inspectExpr(n.Value, fn)

	case *QuerySpec:
		if n.Select != nil {
			Inspect(n.Select, fn)
		}
		if n.From != nil {
			Inspect(n.From, fn)
		}
		inspectExpr(n.Where, fn)
		inspectExprs(n.GroupBy, fn)
		inspectExpr(n.Having, fn)

	case *SelectClause:
		for _, s := range n.Items {
			Inspect(s, fn)
		}

	case *Selection:
		inspectExpr(n.Expr, fn)

	case *DynamicInstantiation:
		for _, a := range n.Args {
			Inspect(a, fn)
		}

	case *OrderByItem:
		inspectExpr(n.Expr, fn)

	case *FromClause:
		for _, s := range n.Spaces {
			Inspect(s, fn)
		}

	case *FromElementSpace:
		if n.Root != nil {
			Inspect(n.Root, fn)
		}
		for _, j := range n.Joins {
			Inspect(j, fn)
		}

	case *QualifiedJoin:
		if n.Target != nil {
			Inspect(n.Target, fn)
		}
		inspectExpr(n.On, fn)

	case *CollectionJoin:
		if n.Path != nil {
			Inspect(n.Path, fn)
		}

	case *TreatExpr:
		if n.Path != nil {
			Inspect(n.Path, fn)
		}

	case *IndexedPath:
		if n.Collection != nil {
			Inspect(n.Collection, fn)
		}
		inspectExpr(n.Index, fn)

	case *BinaryExpr:
		inspectExpr(n.Left, fn)
		inspectExpr(n.Right, fn)

	case *UnaryExpr:
		inspectExpr(n.Operand, fn)

	case *FuncCall:
		inspectExprs(n.Args, fn)

	case *SubqueryExpr:
		if n.Query != nil {
			Inspect(n.Query, fn)
		}

	case *ParenExpr:
		inspectExpr(n.Inner, fn)

	case *LogicalExpr:
		inspectExpr(n.Left, fn)
		inspectExpr(n.Right, fn)

	case *NotExpr:
		inspectExpr(n.Operand, fn)

	case *ComparisonExpr:
		inspectExpr(n.Left, fn)
		inspectExpr(n.Right, fn)

	case *IsNullExpr:
		inspectExpr(n.Operand, fn)

	case *IsEmptyExpr:
		inspectExpr(n.Operand, fn)

	case *LikeExpr:
		inspectExpr(n.Operand, fn)
		inspectExpr(n.Pattern, fn)
		inspectExpr(n.Escape, fn)

	case *BetweenExpr:
		inspectExpr(n.Operand, fn)
		inspectExpr(n.Low, fn)
		inspectExpr(n.High, fn)

	case *InExpr:
		inspectExpr(n.Operand, fn)
		inspectExprs(n.Values, fn)
		if n.Query != nil {
			Inspect(n.Query, fn)
		}

	case *MemberOfExpr:
		inspectExpr(n.Operand, fn)
		if n.Collection != nil {
			Inspect(n.Collection, fn)
		}

	case *ExistsExpr:
		if n.Query != nil {
			Inspect(n.Query, fn)
		}
	}
}
