package metamodel

// AttributeKind classifies what an attribute holds.
type AttributeKind int

// AttributeKind constants.
const (
	// Basic attributes hold a scalar or enum value.
	Basic AttributeKind = iota
	// SingularEntity attributes reference one entity.
	SingularEntity
	// Plural attributes hold a collection of values or entities.
	Plural
)

func (k AttributeKind) String() string {
	switch k {
	case SingularEntity:
		return "singular-entity"
	case Plural:
		return "plural"
	default:
		return "basic"
	}
}

// CollectionKind is the collection semantics of a plural attribute.
type CollectionKind int

// CollectionKind constants.
const (
	NotCollection CollectionKind = iota
	Bag
	Set
	List
	Map
)

var collectionNames = map[string]CollectionKind{
	"bag":  Bag,
	"set":  Set,
	"list": List,
	"map":  Map,
}

func (c CollectionKind) String() string {
	switch c {
	case Bag:
		return "bag"
	case Set:
		return "set"
	case List:
		return "list"
	case Map:
		return "map"
	default:
		return ""
	}
}

// Attribute describes one attribute of an entity type.
type Attribute struct {
	Name       string
	Declaring  *EntityType
	Kind       AttributeKind
	Collection CollectionKind
	// Type is the value type for singular attributes and the element type
	// for plural attributes.
	Type TypeDescriptor
	// KeyType is the key type of map attributes.
	KeyType TypeDescriptor
}

// IsJoinable reports whether the attribute can be joined: it references an
// entity or is a collection.
func (a *Attribute) IsJoinable() bool {
	return a.Kind == SingularEntity || a.Kind == Plural
}

// IsIndexed reports whether elements can be addressed with `[index]`.
func (a *Attribute) IsIndexed() bool {
	return a.Kind == Plural && (a.Collection == List || a.Collection == Map)
}

// IsPlural reports whether the attribute is a collection.
func (a *Attribute) IsPlural() bool { return a.Kind == Plural }

// TargetEntity returns the entity the attribute (or its elements) refer to.
func (a *Attribute) TargetEntity() (*EntityType, bool) {
	e, ok := a.Type.(*EntityType)
	return e, ok
}

// String renders the attribute as Declaring.name.
func (a *Attribute) String() string {
	if a.Declaring == nil {
		return a.Name
	}
	return a.Declaring.Name() + "." + a.Name
}
