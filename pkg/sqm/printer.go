package sqm

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapql/pkg/metamodel"
)

// TreeNode is a rendered node with its children, used for text and JSON
// output.
type TreeNode struct {
	Label    string      `json:"label"`
	Children []*TreeNode `json:"children,omitempty"`
}

// Tree renders n and its children.
func Tree(n Node) *TreeNode {
	t := &TreeNode{Label: Describe(n)}
	for _, c := range Children(n) {
		t.Children = append(t.Children, Tree(c))
	}
	return t
}

// Fprint writes an indented rendering of the tree rooted at n.
func Fprint(w io.Writer, n Node) error {
	var sb strings.Builder
	writeTree(&sb, Tree(n), 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

// Format returns the indented rendering of the tree rooted at n.
func Format(n Node) string {
	var sb strings.Builder
	writeTree(&sb, Tree(n), 0)
	return sb.String()
}

func writeTree(sb *strings.Builder, t *TreeNode, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(t.Label)
	sb.WriteByte('\n')
	for _, c := range t.Children {
		writeTree(sb, c, depth+1)
	}
}

// sourceName names e as a path source. A treated element is written as
// treat(alias as Subtype).
func sourceName(e FromElement) string {
	if t, ok := e.(*TreatedFromElement); ok {
		return "treat(" + sourceName(t.Wrapped) + " as " + t.Subtype.Name() + ")"
	}
	return e.Alias()
}

func typed(label string, t metamodel.TypeDescriptor) string {
	if t == nil {
		return label
	}
	return label + " : " + t.Name()
}

func negated(label string, neg bool) string {
	if neg {
		return label + " not"
	}
	return label
}

// Describe returns a one-line label for n.
//
//nolint:gocyclo // one case per node kind
func Describe(n Node) string {
	switch n := n.(type) {
	case *SelectStatement:
		return "SelectStatement"
	case *InsertSelectStatement:
		return "InsertSelectStatement"
	case *UpdateStatement:
		if n.Versioned {
			return "UpdateStatement versioned"
		}
		return "UpdateStatement"
	case *DeleteStatement:
		return "DeleteStatement"
	case *Assignment:
		return "Assignment"

	case *QuerySpec:
		return "QuerySpec"
	case *SelectClause:
		if n.Distinct {
			return "SelectClause distinct"
		}
		return "SelectClause"
	case *Selection:
		if n.Alias != "" {
			return "Selection as " + n.Alias
		}
		return "Selection"
	case *DynamicInstantiation:
		switch n.Kind {
		case InstantiateMap:
			return "DynamicInstantiation map"
		case InstantiateList:
			return "DynamicInstantiation list"
		default:
			return "DynamicInstantiation " + n.ClassName
		}
	case *WhereClause:
		return "WhereClause"
	case *SortSpecification:
		label := "SortSpecification asc"
		if n.Descending {
			label = "SortSpecification desc"
		}
		switch n.Nulls {
		case NullsFirst:
			label += " nulls first"
		case NullsLast:
			label += " nulls last"
		}
		return label

	case *FromClause:
		return "FromClause"
	case *FromElementSpace:
		return "FromElementSpace"
	case *RootEntityFromElement:
		return fmt.Sprintf("RootEntity %s as %s", n.BoundType().Name(), n.Alias())
	case *CrossJoinedFromElement:
		return fmt.Sprintf("CrossJoin %s as %s", n.BoundType().Name(), n.Alias())
	case *QualifiedAttributeJoinFromElement:
		flags := []string{n.JoinType.String()}
		if n.Fetched {
			flags = append(flags, "fetch")
		}
		if n.Implicit {
			flags = append(flags, "implicit")
		}
		return fmt.Sprintf("AttributeJoin %s.%s as %s (%s)", sourceName(n.Lhs), n.Attribute.Name, n.Alias(), strings.Join(flags, ", "))
	case *QualifiedEntityJoinFromElement:
		flags := []string{n.JoinType.String()}
		if n.Fetched {
			flags = append(flags, "fetch")
		}
		return fmt.Sprintf("EntityJoin %s as %s (%s)", n.BoundType().Name(), n.Alias(), strings.Join(flags, ", "))
	case *TreatedFromElement:
		return fmt.Sprintf("Treated %s as %s", n.Alias(), n.Subtype.Name())

	case *AttributeReference:
		return typed(fmt.Sprintf("AttributeReference %s.%s", sourceName(n.Source), n.Attribute.Name), n.ExpressionType())
	case *FromElementReference:
		return typed("FromElementReference "+sourceName(n.Element), n.ExpressionType())
	case *Literal:
		switch n.Kind {
		case LiteralNull:
			return "Literal null"
		case LiteralString:
			return typed("Literal '"+n.Value+"'", n.ExpressionType())
		default:
			return typed("Literal "+n.Value, n.ExpressionType())
		}
	case *EnumLiteral:
		return "EnumLiteral " + n.Enum.Name() + "." + n.Constant
	case *EntityTypeLiteral:
		return "EntityTypeLiteral " + n.Type.Name()
	case *NamedParameter:
		return typed("NamedParameter "+n.Label(), n.ExpressionType())
	case *PositionalParameter:
		return typed("PositionalParameter "+n.Label(), n.ExpressionType())
	case *BinaryArithmetic:
		return typed("BinaryArithmetic "+n.Op.String(), n.ExpressionType())
	case *UnaryMinus:
		return typed("UnaryMinus", n.ExpressionType())
	case *Concat:
		return typed("Concat", n.ExpressionType())
	case *FunctionCall:
		return typed("FunctionCall "+n.Name, n.ExpressionType())
	case *Aggregate:
		label := "Aggregate " + n.Function
		if n.Distinct {
			label += " distinct"
		}
		return typed(label, n.ExpressionType())
	case *CountStar:
		return typed("CountStar", n.ExpressionType())
	case *SubQueryExpression:
		return typed("SubQuery", n.ExpressionType())
	case *SelectionReference:
		return "SelectionReference " + n.Selection.Alias

	case *AndPredicate:
		return "And"
	case *OrPredicate:
		return "Or"
	case *NegatedPredicate:
		return "Not"
	case *GroupedPredicate:
		return "Grouped"
	case *RelationalPredicate:
		return "Relational " + n.Op.String()
	case *NullnessPredicate:
		if n.Negated {
			return "Nullness is not null"
		}
		return "Nullness is null"
	case *LikePredicate:
		return negated("Like", n.Negated)
	case *BetweenPredicate:
		return negated("Between", n.Negated)
	case *InListPredicate:
		return negated("InList", n.Negated)
	case *InSubQueryPredicate:
		return negated("InSubQuery", n.Negated)
	case *EmptinessPredicate:
		if n.Negated {
			return "Emptiness is not empty"
		}
		return "Emptiness is empty"
	case *MemberOfPredicate:
		return negated("MemberOf", n.Negated)
	case *ExistsPredicate:
		return negated("Exists", n.Negated)
	case *BooleanExpressionPredicate:
		return "BooleanExpression"
	}
	return fmt.Sprintf("%T", n)
}
