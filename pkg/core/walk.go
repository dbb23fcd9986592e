package core

import "fmt"

// Walk traverses stmt top-down and reports events to l. The first error
// returned by l stops the walk and is returned unchanged.
func Walk(stmt Stmt, l Listener) error {
	if err := l.EnterStatement(stmt); err != nil {
		return err
	}

	switch s := stmt.(type) {
	case *SelectStatement:
		if err := WalkQuerySpec(s.Query, l); err != nil {
			return err
		}
		for _, item := range s.OrderBy {
			if err := walkExpr(item.Expr, l); err != nil {
				return err
			}
		}
	case *InsertStatement:
		if err := l.EnterDmlRoot(s.Target); err != nil {
			return err
		}
		if err := WalkQuerySpec(s.Query, l); err != nil {
			return err
		}
	case *UpdateStatement:
		if err := l.EnterDmlRoot(s.Target); err != nil {
			return err
		}
		for _, a := range s.Assignments {
			if err := walkExpr(a.Value, l); err != nil {
				return err
			}
		}
		if err := walkExpr(s.Where, l); err != nil {
			return err
		}
	case *DeleteStatement:
		if err := l.EnterDmlRoot(s.Target); err != nil {
			return err
		}
		if err := walkExpr(s.Where, l); err != nil {
			return err
		}
	default:
		return fmt.Errorf("core: unsupported statement type %T", stmt)
	}

	return l.ExitStatement(stmt)
}

// WalkQuerySpec traverses a single query spec. The from clause is reported
// first, followed by the select, where, group by and having clauses.
func WalkQuerySpec(spec *QuerySpec, l Listener) error {
	if spec == nil {
		return nil
	}
	descend, err := l.EnterQuerySpec(spec)
	if err != nil || !descend {
		return err
	}

	if spec.From != nil {
		for _, space := range spec.From.Spaces {
			if err := walkSpace(space, l); err != nil {
				return err
			}
		}
	}
	if spec.Select != nil {
		for _, sel := range spec.Select.Items {
			if err := walkExpr(sel.Expr, l); err != nil {
				return err
			}
		}
	}
	if err := walkExpr(spec.Where, l); err != nil {
		return err
	}
	for _, g := range spec.GroupBy {
		if err := walkExpr(g, l); err != nil {
			return err
		}
	}
	if err := walkExpr(spec.Having, l); err != nil {
		return err
	}

	return l.ExitQuerySpec(spec)
}

func walkSpace(space *FromElementSpace, l Listener) error {
	if err := l.EnterFromElementSpace(space); err != nil {
		return err
	}
	if space.Root != nil {
		if err := l.EnterRootEntity(space.Root); err != nil {
			return err
		}
	}
	for _, join := range space.Joins {
		var err error
		switch j := join.(type) {
		case *CrossJoin:
			err = l.EnterCrossJoin(j)
		case *QualifiedJoin:
			err = l.EnterQualifiedJoin(j)
			if err == nil {
				err = walkExpr(j.On, l)
			}
		case *CollectionJoin:
			err = l.EnterCollectionJoin(j)
		default:
			err = fmt.Errorf("core: unsupported join type %T", join)
		}
		if err != nil {
			return err
		}
	}
	return l.ExitFromElementSpace(space)
}

// walkExpr descends into expr looking for nested query specs.
func walkExpr(expr Expr, l Listener) error {
	if expr == nil {
		return nil
	}
	var err error
	Inspect(expr, func(n Node) bool {
		if err != nil {
			return false
		}
		switch x := n.(type) {
		case *SubqueryExpr:
			err = WalkQuerySpec(x.Query, l)
			return false
		case *ExistsExpr:
			err = WalkQuerySpec(x.Query, l)
			return false
		case *InExpr:
			if x.Query != nil {
				if err = walkExpr(x.Operand, l); err != nil {
					return false
				}
				err = WalkQuerySpec(x.Query, l)
				return false
			}
		}
		return true
	})
	return err
}
