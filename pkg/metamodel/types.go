// Package metamodel describes the entity types, attributes and enums that
// queries are resolved against.
//
// A Model is immutable once built and is safe for concurrent reads.
package metamodel

import "strings"

// TypeDescriptor is any type an expression or from element can be bound to.
type TypeDescriptor interface {
	// Name returns the name queries use for the type.
	Name() string
	// AttributeByName looks up an attribute visible on the type.
	AttributeByName(name string) (*Attribute, bool)
}

// EntityTypeDescriptor is a type that can be the bound type of a from
// element: a mapped entity or a polymorphic (unmapped) entity.
type EntityTypeDescriptor interface {
	TypeDescriptor
	// ClassName returns the fully-qualified class name, or the name for
	// polymorphic types.
	ClassName() string
	// IsPolymorphic reports whether the type stands for several mapped
	// implementors.
	IsPolymorphic() bool
}

// BasicType is a scalar value type such as String or Integer.
type BasicType struct {
	name string
}

// Builtin basic types.
var (
	String     = &BasicType{name: "String"}
	Integer    = &BasicType{name: "Integer"}
	Long       = &BasicType{name: "Long"}
	Float      = &BasicType{name: "Float"}
	Double     = &BasicType{name: "Double"}
	BigDecimal = &BasicType{name: "BigDecimal"}
	Boolean    = &BasicType{name: "Boolean"}
	Date       = &BasicType{name: "Date"}
	Timestamp  = &BasicType{name: "Timestamp"}
	Object     = &BasicType{name: "Object"}
)

var basicTypes = map[string]*BasicType{}

func init() {
	for _, b := range []*BasicType{String, Integer, Long, Float, Double, BigDecimal, Boolean, Date, Timestamp, Object} {
		basicTypes[strings.ToLower(b.name)] = b
	}
	basicTypes["int"] = Integer
	basicTypes["bool"] = Boolean
}

// LookupBasicType returns the builtin basic type with the given name,
// ignoring case.
func LookupBasicType(name string) (*BasicType, bool) {
	b, ok := basicTypes[strings.ToLower(name)]
	return b, ok
}

// Name implements TypeDescriptor.
func (b *BasicType) Name() string { return b.name }

// AttributeByName implements TypeDescriptor. Basic types have no attributes.
func (b *BasicType) AttributeByName(string) (*Attribute, bool) { return nil, false }

// IsNumeric reports whether the type is one of the numeric basic types.
func (b *BasicType) IsNumeric() bool {
	switch b {
	case Integer, Long, Float, Double, BigDecimal:
		return true
	}
	return false
}

// EnumType is a named set of constants referenced by fully-qualified name.
type EnumType struct {
	className string
	constants []string
}

// NewEnumType creates an enum type.
func NewEnumType(className string, constants ...string) *EnumType {
	return &EnumType{className: className, constants: constants}
}

// Name implements TypeDescriptor.
func (e *EnumType) Name() string { return e.className }

// AttributeByName implements TypeDescriptor. Enums have no attributes.
func (e *EnumType) AttributeByName(string) (*Attribute, bool) { return nil, false }

// Constants returns the enum constants in declaration order.
func (e *EnumType) Constants() []string { return e.constants }

// HasConstant reports whether name is one of the constants.
func (e *EnumType) HasConstant(name string) bool {
	for _, c := range e.constants {
		if c == name {
			return true
		}
	}
	return false
}

// EntityType is a mapped entity with its own and inherited attributes.
type EntityType struct {
	name       string
	className  string
	super      *EntityType
	implements []string
	attrs      map[string]*Attribute
	order      []*Attribute
}

// NewEntityType creates an entity type. An empty className defaults to name.
func NewEntityType(name, className string, super *EntityType) *EntityType {
	if className == "" {
		className = name
	}
	return &EntityType{
		name:      name,
		className: className,
		super:     super,
		attrs:     make(map[string]*Attribute),
	}
}

// Name implements TypeDescriptor.
func (e *EntityType) Name() string { return e.name }

// ClassName implements EntityTypeDescriptor.
func (e *EntityType) ClassName() string { return e.className }

// IsPolymorphic implements EntityTypeDescriptor.
func (e *EntityType) IsPolymorphic() bool { return false }

// Supertype returns the mapped supertype, or nil.
func (e *EntityType) Supertype() *EntityType { return e.super }

// Implements returns the unmapped interface names the entity implements.
func (e *EntityType) Implements() []string { return e.implements }

// AttributeByName implements TypeDescriptor. Inherited attributes are
// visible.
func (e *EntityType) AttributeByName(name string) (*Attribute, bool) {
	for t := e; t != nil; t = t.super {
		if a, ok := t.attrs[name]; ok {
			return a, true
		}
	}
	return nil, false
}

// Attributes returns the visible attributes, inherited ones first.
func (e *EntityType) Attributes() []*Attribute {
	var out []*Attribute
	if e.super != nil {
		out = e.super.Attributes()
	}
	return append(out, e.order...)
}

// AddAttribute declares an attribute on the entity. It returns false if the
// name is already declared on the entity or a supertype.
func (e *EntityType) AddAttribute(a *Attribute) bool {
	if _, exists := e.AttributeByName(a.Name); exists {
		return false
	}
	a.Declaring = e
	e.attrs[a.Name] = a
	e.order = append(e.order, a)
	return true
}

// IsSubtypeOf reports whether e is other or inherits from it.
func (e *EntityType) IsSubtypeOf(other *EntityType) bool {
	for t := e; t != nil; t = t.super {
		if t == other {
			return true
		}
	}
	return false
}

// PolymorphicEntityType is a query root naming an unmapped supertype. It
// stands for every mapped implementor.
type PolymorphicEntityType struct {
	name         string
	implementors []*EntityType
}

// NewPolymorphicEntityType creates a polymorphic type over implementors.
func NewPolymorphicEntityType(name string, implementors ...*EntityType) *PolymorphicEntityType {
	return &PolymorphicEntityType{name: name, implementors: implementors}
}

// Name implements TypeDescriptor.
func (p *PolymorphicEntityType) Name() string { return p.name }

// ClassName implements EntityTypeDescriptor.
func (p *PolymorphicEntityType) ClassName() string { return p.name }

// IsPolymorphic implements EntityTypeDescriptor.
func (p *PolymorphicEntityType) IsPolymorphic() bool { return true }

// Implementors returns the mapped implementors.
func (p *PolymorphicEntityType) Implementors() []*EntityType { return p.implementors }

// AttributeByName implements TypeDescriptor. The lookup succeeds only if
// every implementor exposes the attribute; the first implementor's attribute
// is returned.
func (p *PolymorphicEntityType) AttributeByName(name string) (*Attribute, bool) {
	var first *Attribute
	for _, impl := range p.implementors {
		a, ok := impl.AttributeByName(name)
		if !ok {
			return nil, false
		}
		if first == nil {
			first = a
		}
	}
	return first, first != nil
}

var (
	_ EntityTypeDescriptor = (*EntityType)(nil)
	_ EntityTypeDescriptor = (*PolymorphicEntityType)(nil)
	_ TypeDescriptor       = (*BasicType)(nil)
	_ TypeDescriptor       = (*EnumType)(nil)
)
