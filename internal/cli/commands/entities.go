package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapql/internal/cli/output"
	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/spf13/cobra"
)

// entityInfo is the JSON form of an entity type.
type entityInfo struct {
	Name       string          `json:"name"`
	Class      string          `json:"class"`
	Supertype  string          `json:"supertype,omitempty"`
	Implements []string        `json:"implements,omitempty"`
	Attributes []attributeInfo `json:"attributes"`
}

type attributeInfo struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Collection string `json:"collection,omitempty"`
	Type       string `json:"type"`
	Key        string `json:"key,omitempty"`
	Declaring  string `json:"declaring"`
}

type enumInfo struct {
	Class     string   `json:"class"`
	Constants []string `json:"constants"`
}

// NewEntitiesCommand creates the entities command.
func NewEntitiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "entities [NAME]",
		Short: "List the entity types of the metamodel",
		Long: `List the entity types and enums of the metamodel, or show the
attributes of one entity. Inherited attributes are included.`,
		Example: `  leapql entities
  leapql entities Person -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			model, err := cmdCtx.LoadModel()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return renderEntities(cmdCtx.Renderer, model)
			}
			e, ok := model.Entity(args[0])
			if !ok {
				msg := fmt.Sprintf("unknown entity %q", args[0])
				if s := model.Suggest(args[0]); len(s) > 0 {
					msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(s, ", "))
				}
				return fmt.Errorf("%s", msg)
			}
			return renderEntity(cmdCtx.Renderer, e)
		},
	}
}

func describeEntity(e *metamodel.EntityType) entityInfo {
	info := entityInfo{
		Name:       e.Name(),
		Class:      e.ClassName(),
		Implements: e.Implements(),
		Attributes: []attributeInfo{},
	}
	if s := e.Supertype(); s != nil {
		info.Supertype = s.Name()
	}
	for _, a := range e.Attributes() {
		info.Attributes = append(info.Attributes, describeAttribute(a))
	}
	return info
}

func describeAttribute(a *metamodel.Attribute) attributeInfo {
	info := attributeInfo{
		Name:       a.Name,
		Kind:       a.Kind.String(),
		Collection: a.Collection.String(),
	}
	if a.Type != nil {
		info.Type = a.Type.Name()
	}
	if a.KeyType != nil {
		info.Key = a.KeyType.Name()
	}
	if a.Declaring != nil {
		info.Declaring = a.Declaring.Name()
	}
	return info
}

func renderEntities(r *output.Renderer, model *metamodel.Model) error {
	entities := model.Entities()

	if r.Mode() == output.ModeJSON {
		out := struct {
			Entities []entityInfo `json:"entities"`
			Enums    []enumInfo   `json:"enums"`
		}{Entities: []entityInfo{}, Enums: []enumInfo{}}
		for _, e := range entities {
			out.Entities = append(out.Entities, describeEntity(e))
		}
		for _, e := range model.Enums() {
			out.Enums = append(out.Enums, enumInfo{Class: e.Name(), Constants: e.Constants()})
		}
		return r.JSON(out)
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Entity", "Class", "Extends", "Implements", "Attributes", "Subtypes"})
	for _, e := range entities {
		var super string
		if s := e.Supertype(); s != nil {
			super = s.Name()
		}
		var subtypes []string
		for _, sub := range model.Subtypes(e) {
			subtypes = append(subtypes, sub.Name())
		}
		t.AppendRow(table.Row{
			e.Name(),
			e.ClassName(),
			super,
			strings.Join(e.Implements(), ", "),
			len(e.Attributes()),
			strings.Join(subtypes, ", "),
		})
	}
	t.Render()
	r.Printf("(%d entities)\n", len(entities))

	if enums := model.Enums(); len(enums) > 0 {
		r.Println()
		r.Header("Enums")
		for _, e := range enums {
			r.Printf("  %s %s\n", e.Name(), r.Muted(strings.Join(e.Constants(), ", ")))
		}
	}
	return nil
}

func renderEntity(r *output.Renderer, e *metamodel.EntityType) error {
	info := describeEntity(e)
	if r.Mode() == output.ModeJSON {
		return r.JSON(info)
	}

	title := info.Name + " (" + info.Class + ")"
	if info.Supertype != "" {
		title += " extends " + info.Supertype
	}
	r.Header(title)

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Attribute", "Kind", "Collection", "Type", "Key", "Declared In"})
	for _, a := range info.Attributes {
		t.AppendRow(table.Row{a.Name, a.Kind, a.Collection, a.Type, a.Key, a.Declaring})
	}
	t.Render()
	return nil
}
