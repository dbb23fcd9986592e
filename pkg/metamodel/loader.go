package metamodel

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the YAML form of a metamodel.
//
//	package: com.acme
//	enums:
//	  - name: Gender
//	    constants: [MALE, FEMALE]
//	entities:
//	  - name: Person
//	    implements: [Named]
//	    attributes:
//	      - {name: name, type: String}
//	      - {name: mate, type: Person}
//	      - {name: kids, type: Person, collection: list}
type File struct {
	Package  string      `yaml:"package"`
	Enums    []EnumDef   `yaml:"enums"`
	Entities []EntityDef `yaml:"entities"`
}

// EnumDef declares an enum.
type EnumDef struct {
	Name      string   `yaml:"name"`
	Class     string   `yaml:"class"`
	Constants []string `yaml:"constants"`
}

// EntityDef declares an entity.
type EntityDef struct {
	Name       string         `yaml:"name"`
	Class      string         `yaml:"class"`
	Extends    string         `yaml:"extends"`
	Implements []string       `yaml:"implements"`
	Attributes []AttributeDef `yaml:"attributes"`
}

// AttributeDef declares an attribute. Type names a basic type, an enum or
// an entity; Collection is one of bag, set, list or map.
type AttributeDef struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Collection string `yaml:"collection"`
	Key        string `yaml:"key"`
}

// LoadFile reads and builds a metamodel from a YAML file.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metamodel file: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse builds a metamodel from YAML. Unknown fields are rejected.
func Parse(data []byte) (*Model, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return Build(&f)
}

// Build turns a File into a Model. Every problem found is reported.
func Build(f *File) (*Model, error) {
	b := &builder{file: f, model: NewModel(), shells: make(map[string]*EntityType)}
	b.buildEnums()
	b.buildShells()
	b.linkSupertypes()
	b.buildAttributes()
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return b.model, nil
}

type builder struct {
	file   *File
	model  *Model
	shells map[string]*EntityType
	defs   map[string]*EntityDef
	errs   []error
}

func (b *builder) fail(entity, format string, args ...any) {
	b.errs = append(b.errs, &LoadError{Entity: entity, Message: fmt.Sprintf(format, args...)})
}

func (b *builder) qualify(name, class string) string {
	switch {
	case class != "":
		return class
	case b.file.Package != "" && !strings.Contains(name, "."):
		return b.file.Package + "." + name
	default:
		return name
	}
}

func (b *builder) buildEnums() {
	for _, def := range b.file.Enums {
		if def.Name == "" {
			b.fail("", "enum without a name")
			continue
		}
		if len(def.Constants) == 0 {
			b.fail("", "enum %s declares no constants", def.Name)
		}
		if err := b.model.AddEnum(NewEnumType(b.qualify(def.Name, def.Class), def.Constants...)); err != nil {
			b.fail("", "%v", err)
		}
	}
}

func (b *builder) buildShells() {
	b.defs = make(map[string]*EntityDef, len(b.file.Entities))
	for i := range b.file.Entities {
		def := &b.file.Entities[i]
		if def.Name == "" {
			b.fail("", "entity without a name")
			continue
		}
		e := NewEntityType(def.Name, b.qualify(def.Name, def.Class), nil)
		if err := b.model.AddEntity(e, def.Implements...); err != nil {
			b.fail(def.Name, "%v", err)
			continue
		}
		b.shells[def.Name] = e
		b.defs[def.Name] = def
	}
}

func (b *builder) linkSupertypes() {
	for name, def := range b.defs {
		if def.Extends == "" {
			continue
		}
		super, ok := b.model.Entity(def.Extends)
		if !ok {
			b.fail(name, "unknown supertype %q", def.Extends)
			continue
		}
		b.shells[name].super = super
	}
	for name, e := range b.shells {
		seen := map[*EntityType]bool{}
		for t := e; t != nil; t = t.super {
			if seen[t] {
				b.fail(name, "inheritance cycle")
				e.super = nil
				break
			}
			seen[t] = true
		}
	}
}

// buildAttributes declares attributes supertypes first so that redeclared
// inherited attributes are detected.
func (b *builder) buildAttributes() {
	done := make(map[*EntityType]bool)
	var visit func(e *EntityType)
	visit = func(e *EntityType) {
		if done[e] {
			return
		}
		done[e] = true
		if e.super != nil {
			visit(e.super)
		}
		def := b.defs[e.name]
		for _, ad := range def.Attributes {
			a, err := b.attribute(ad)
			if err != nil {
				b.fail(e.name, "attribute %s: %v", ad.Name, err)
				continue
			}
			if !e.AddAttribute(a) {
				b.fail(e.name, "duplicate attribute %q", ad.Name)
			}
		}
	}
	for _, def := range b.file.Entities {
		if e, ok := b.shells[def.Name]; ok {
			visit(e)
		}
	}
}

func (b *builder) attribute(def AttributeDef) (*Attribute, error) {
	if def.Name == "" {
		return nil, errors.New("missing name")
	}
	typ, err := b.lookupType(def.Type)
	if err != nil {
		return nil, err
	}

	a := &Attribute{Name: def.Name, Type: typ}
	if def.Collection == "" {
		if def.Key != "" {
			return nil, errors.New("key is only valid for map collections")
		}
		if _, isEntity := typ.(*EntityType); isEntity {
			a.Kind = SingularEntity
		}
		return a, nil
	}

	kind, ok := collectionNames[strings.ToLower(def.Collection)]
	if !ok {
		return nil, fmt.Errorf("unknown collection kind %q", def.Collection)
	}
	a.Kind = Plural
	a.Collection = kind
	switch {
	case kind == Map:
		key := def.Key
		if key == "" {
			key = String.Name()
		}
		if a.KeyType, err = b.lookupType(key); err != nil {
			return nil, err
		}
	case def.Key != "":
		return nil, errors.New("key is only valid for map collections")
	}
	return a, nil
}

func (b *builder) lookupType(name string) (TypeDescriptor, error) {
	if name == "" {
		return nil, errors.New("missing type")
	}
	if basic, ok := LookupBasicType(name); ok {
		return basic, nil
	}
	if e, ok := b.model.Entity(name); ok {
		return e, nil
	}
	if e, ok := b.model.ResolveEnum(name); ok {
		return e, nil
	}
	if e, ok := b.model.ResolveEnum(b.qualify(name, "")); ok {
		return e, nil
	}
	return nil, fmt.Errorf("unknown type %q", name)
}
