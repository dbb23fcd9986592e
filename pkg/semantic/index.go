package semantic

import (
	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// FromClauseIndex answers cross-scope lookups over the scope arena.
type FromClauseIndex struct {
	scopes *Scopes
}

// NewFromClauseIndex creates an index over scopes.
func NewFromClauseIndex(scopes *Scopes) *FromClauseIndex {
	return &FromClauseIndex{scopes: scopes}
}

// FindFromElementByAlias looks alias up starting at scope.
func (x *FromClauseIndex) FindFromElementByAlias(scope ScopeID, alias string) sqm.FromElement {
	return x.scopes.Get(scope).Registry.FindFromElementByAlias(alias)
}

// FindFromElementWithAttribute returns the one from element of the nearest
// scope whose type exposes name. Within a scope roots are checked before
// joins and spaces in order; two matches in the same scope are ambiguous.
// Implicit joins are not candidates. A nil element and nil error mean no
// scope in the chain exposes name.
func (x *FromClauseIndex) FindFromElementWithAttribute(scope ScopeID, name string) (sqm.FromElement, error) {
	for _, id := range x.scopes.Chain(scope) {
		var matches []sqm.FromElement
		for _, e := range x.candidates(id) {
			if _, ok := e.BoundType().AttributeByName(name); ok {
				matches = append(matches, e)
			}
		}
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			aliases := make([]string, len(matches))
			for i, m := range matches {
				aliases[i] = m.Alias()
			}
			return nil, newAmbiguous(name, aliases)
		}
	}
	return nil, nil
}

// candidates lists the user-visible from elements of a scope in lookup
// order, each as registered under its alias.
func (x *FromClauseIndex) candidates(id ScopeID) []sqm.FromElement {
	s := x.scopes.Get(id)
	var out []sqm.FromElement
	if s.DmlRoot != nil {
		out = append(out, s.DmlRoot)
	}
	if s.FromClause == nil {
		return out
	}
	for _, space := range s.FromClause.Spaces {
		for _, e := range space.Elements() {
			if j, ok := e.(*sqm.QualifiedAttributeJoinFromElement); ok && j.Implicit {
				continue
			}
			if registered := s.Registry.fromElements[e.Alias()]; registered != nil {
				e = registered
			}
			out = append(out, e)
		}
	}
	return out
}
