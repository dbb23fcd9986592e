package semantic

import (
	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// ScopeID addresses a scope inside a Scopes arena.
type ScopeID int

// NoScope is the parent of top-level scopes.
const NoScope ScopeID = -1

// Scope is the name-resolution context of one query spec, or of the target
// of an insert, update or delete statement.
type Scope struct {
	ID     ScopeID
	Parent ScopeID
	// Registry holds the aliases bound in this scope.
	Registry *AliasRegistry
	// FromClause is nil for DML scopes.
	FromClause *sqm.FromClause
	// DmlRoot is the statement target of a DML scope.
	DmlRoot *sqm.RootEntityFromElement

	space         *sqm.FromElementSpace
	implicitJoins map[implicitJoinKey]*sqm.QualifiedAttributeJoinFromElement
}

// implicitJoinKey identifies an implicit join by what it navigates.
type implicitJoinKey struct {
	lhs       string
	attribute *metamodel.Attribute
}

// CurrentSpace returns the space the first pass is filling, or nil.
func (s *Scope) CurrentSpace() *sqm.FromElementSpace { return s.space }

// Scopes is the arena of every scope opened during one interpretation.
// Parent links are indices, never pointers.
type Scopes struct {
	scopes   []*Scope
	byClause map[*sqm.FromClause]ScopeID
}

// NewScopes creates an empty arena.
func NewScopes() *Scopes {
	return &Scopes{byClause: make(map[*sqm.FromClause]ScopeID)}
}

// NewQueryScope opens a scope with its own from clause, nested in parent.
func (s *Scopes) NewQueryScope(parent ScopeID) *Scope {
	scope := s.add(parent)
	clause := &sqm.FromClause{}
	if parent != NoScope {
		clause.Parent = s.Get(parent).FromClause
	}
	scope.FromClause = clause
	s.byClause[clause] = scope.ID
	return scope
}

// NewDmlScope opens a top-level scope for a DML target.
func (s *Scopes) NewDmlScope() *Scope {
	return s.add(NoScope)
}

func (s *Scopes) add(parent ScopeID) *Scope {
	id := ScopeID(len(s.scopes))
	scope := &Scope{
		ID:            id,
		Parent:        parent,
		implicitJoins: make(map[implicitJoinKey]*sqm.QualifiedAttributeJoinFromElement),
	}
	scope.Registry = &AliasRegistry{
		scopes:       s,
		scope:        id,
		fromElements: make(map[string]sqm.FromElement),
		selections:   make(map[string]*sqm.Selection),
	}
	s.scopes = append(s.scopes, scope)
	return scope
}

// Get returns the scope with the given id. It panics on an id that was not
// issued by this arena.
func (s *Scopes) Get(id ScopeID) *Scope {
	return s.scopes[id]
}

// Len returns the number of scopes opened so far.
func (s *Scopes) Len() int { return len(s.scopes) }

// OwnerOf returns the scope an element was created in.
func (s *Scopes) OwnerOf(e sqm.FromElement) (ScopeID, bool) {
	if space := e.Space(); space != nil {
		id, ok := s.byClause[space.FromClause]
		return id, ok
	}
	root := sqm.Unwrap(e)
	for _, scope := range s.scopes {
		if scope.DmlRoot != nil && sqm.FromElement(scope.DmlRoot) == root {
			return scope.ID, true
		}
	}
	return NoScope, false
}

// Chain returns id followed by its ancestors, innermost first.
func (s *Scopes) Chain(id ScopeID) []ScopeID {
	var out []ScopeID
	for id != NoScope {
		out = append(out, id)
		id = s.Get(id).Parent
	}
	return out
}
