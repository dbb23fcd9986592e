package semantic

import (
	"sort"

	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// AliasRegistry maps aliases to from elements and selections within one
// scope. From-element lookups fall back to the enclosing scopes; selection
// lookups never leave the scope.
type AliasRegistry struct {
	scopes       *Scopes
	scope        ScopeID
	fromElements map[string]sqm.FromElement
	selections   map[string]*sqm.Selection
}

// Parent returns the registry of the enclosing scope, or nil.
func (r *AliasRegistry) Parent() *AliasRegistry {
	parent := r.scopes.Get(r.scope).Parent
	if parent == NoScope {
		return nil
	}
	return r.scopes.Get(parent).Registry
}

// RegisterFromElement binds e under its alias. Rebinding an alias of this
// scope is a collision; shadowing an alias of an enclosing scope is not.
func (r *AliasRegistry) RegisterFromElement(e sqm.FromElement) error {
	alias := e.Alias()
	if alias == "" {
		return newInvariant("from element registered without an alias")
	}
	if _, exists := r.fromElements[alias]; exists {
		return newAliasCollision(alias, "alias %q is already defined in this scope", alias)
	}
	r.fromElements[alias] = e
	return nil
}

// RegisterSelection binds a result alias. A selection may reuse the alias
// of a from element of the same scope only when both have the same type.
func (r *AliasRegistry) RegisterSelection(s *sqm.Selection) error {
	if s.Alias == "" {
		return nil
	}
	if IsImplicitAlias(s.Alias) {
		return reservedAlias(s.Alias)
	}
	if _, exists := r.selections[s.Alias]; exists {
		return newAliasCollision(s.Alias, "result alias %q is already used in this select clause", s.Alias)
	}
	if e, exists := r.fromElements[s.Alias]; exists {
		if t := s.Expr.ExpressionType(); t == nil || t != e.BoundType() {
			return newAliasCollision(s.Alias, "result alias %q conflicts with from element %q of type %s", s.Alias, s.Alias, e.BoundType().Name())
		}
	}
	r.selections[s.Alias] = s
	return nil
}

// FindFromElementByAlias looks alias up in this scope, then in each
// enclosing scope. It returns nil when the alias is unknown.
func (r *AliasRegistry) FindFromElementByAlias(alias string) sqm.FromElement {
	for reg := r; reg != nil; reg = reg.Parent() {
		if e, ok := reg.fromElements[alias]; ok {
			return e
		}
	}
	return nil
}

// FindSelectionByAlias looks alias up in this scope only.
func (r *AliasRegistry) FindSelectionByAlias(alias string) *sqm.Selection {
	return r.selections[alias]
}

// Aliases returns the from-element aliases visible from this scope, sorted.
func (r *AliasRegistry) Aliases() []string {
	seen := make(map[string]bool)
	var out []string
	for reg := r; reg != nil; reg = reg.Parent() {
		for alias := range reg.fromElements {
			if !seen[alias] && !IsImplicitAlias(alias) {
				seen[alias] = true
				out = append(out, alias)
			}
		}
	}
	sort.Strings(out)
	return out
}
