package core

import "github.com/leapstack-labs/leapql/pkg/token"

// Node is the base interface for all syntax tree nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	// End returns the position of the character immediately after the node.
	End() token.Position
}

// Expr is a marker interface for expression and predicate nodes.
type Expr interface {
	Node
	exprNode() // Marker method to distinguish expressions
}

// Stmt is a marker interface for statement nodes.
type Stmt interface {
	Node
	stmtNode() // Marker method to distinguish statements
}

// Join is a marker interface for the joins of a from-element space.
type Join interface {
	Node
	joinNode()
}

// NodeInfo carries the source span of a node.
type NodeInfo struct {
	Span token.Span
}

// Pos implements Node.
func (n NodeInfo) Pos() token.Position { return n.Span.Start }

// End implements Node.
func (n NodeInfo) End() token.Position { return n.Span.End }
