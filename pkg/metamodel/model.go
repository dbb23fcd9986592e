package metamodel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Model is the set of entity types, enums and unmapped supertypes known to
// the query front end.
type Model struct {
	entities   map[string]*EntityType   // simple name
	classes    map[string]*EntityType   // fully-qualified class name
	enums      map[string]*EnumType     // fully-qualified class name
	interfaces map[string][]*EntityType // unmapped supertype -> implementors
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		entities:   make(map[string]*EntityType),
		classes:    make(map[string]*EntityType),
		enums:      make(map[string]*EnumType),
		interfaces: make(map[string][]*EntityType),
	}
}

// AddEntity registers an entity type and records the unmapped supertypes it
// implements.
func (m *Model) AddEntity(e *EntityType, implements ...string) error {
	if _, exists := m.entities[e.name]; exists {
		return fmt.Errorf("duplicate entity %q", e.name)
	}
	if _, exists := m.classes[e.className]; exists {
		return fmt.Errorf("duplicate entity class %q", e.className)
	}
	m.entities[e.name] = e
	m.classes[e.className] = e

	e.implements = append(e.implements, implements...)
	for _, iface := range implements {
		m.interfaces[iface] = append(m.interfaces[iface], e)
		sort.Slice(m.interfaces[iface], func(i, j int) bool {
			return m.interfaces[iface][i].name < m.interfaces[iface][j].name
		})
	}
	return nil
}

// AddEnum registers an enum type.
func (m *Model) AddEnum(e *EnumType) error {
	if _, exists := m.enums[e.className]; exists {
		return fmt.Errorf("duplicate enum %q", e.className)
	}
	m.enums[e.className] = e
	return nil
}

// Entity looks up a mapped entity by name or fully-qualified class name.
func (m *Model) Entity(name string) (*EntityType, bool) {
	if e, ok := m.entities[name]; ok {
		return e, true
	}
	e, ok := m.classes[name]
	return e, ok
}

// Entities returns the mapped entities sorted by name.
func (m *Model) Entities() []*EntityType {
	out := make([]*EntityType, 0, len(m.entities))
	for _, e := range m.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Enums returns the enums sorted by class name.
func (m *Model) Enums() []*EnumType {
	out := make([]*EnumType, 0, len(m.enums))
	for _, e := range m.enums {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].className < out[j].className })
	return out
}

// Subtypes returns the mapped entities that directly or indirectly extend e.
func (m *Model) Subtypes(e *EntityType) []*EntityType {
	var out []*EntityType
	for _, candidate := range m.Entities() {
		if candidate != e && candidate.IsSubtypeOf(e) {
			out = append(out, candidate)
		}
	}
	return out
}

// ResolveEntityType resolves a name used in a from clause. Mapped entities
// are matched by name or class name; an unmapped supertype with at least one
// implementor resolves to a PolymorphicEntityType.
func (m *Model) ResolveEntityType(name string) (EntityTypeDescriptor, error) {
	if e, ok := m.Entity(name); ok {
		return e, nil
	}
	if impls := m.implementorsOf(name); len(impls) > 0 {
		return NewPolymorphicEntityType(name, impls...), nil
	}
	return nil, &UnknownEntityError{Name: name, Suggestions: m.Suggest(name)}
}

func (m *Model) implementorsOf(name string) []*EntityType {
	if impls, ok := m.interfaces[name]; ok {
		return impls
	}
	// allow the simple name of a qualified interface
	for iface, impls := range m.interfaces {
		if i := strings.LastIndexByte(iface, '.'); i >= 0 && iface[i+1:] == name {
			return impls
		}
	}
	return nil
}

// ResolveEnum looks up an enum by fully-qualified class name.
func (m *Model) ResolveEnum(className string) (*EnumType, bool) {
	e, ok := m.enums[className]
	return e, ok
}

// Suggest returns known entity and interface names close to name, best
// match first.
func (m *Model) Suggest(name string) []string {
	candidates := make([]string, 0, len(m.entities)+len(m.interfaces))
	for n := range m.entities {
		candidates = append(candidates, n)
	}
	for n := range m.interfaces {
		candidates = append(candidates, n)
	}
	return SuggestSimilar(name, candidates)
}

// SuggestSimilar returns the candidates within a small edit distance of
// input, closest first. Comparison ignores case.
func SuggestSimilar(input string, candidates []string) []string {
	maxDistance := max(2, len(input)/3)
	inputLower := strings.ToLower(input)

	type scored struct {
		name string
		dist int
	}
	var matches []scored
	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(inputLower, strings.ToLower(c))
		if dist <= maxDistance && c != input {
			matches = append(matches, scored{c, dist})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].dist != matches[j].dist {
			return matches[i].dist < matches[j].dist
		}
		return matches[i].name < matches[j].name
	})

	out := make([]string, 0, len(matches))
	for _, s := range matches {
		out = append(out, s.name)
	}
	return out
}
