package commands

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapql/internal/cli/output"
	"github.com/leapstack-labs/leapql/pkg/sqm"
)

// statementResult is the JSON form of an interpreted statement.
type statementResult struct {
	Query        string        `json:"query"`
	Kind         string        `json:"kind"`
	FromElements []fromElement `json:"from_elements"`
	Tree         *sqm.TreeNode `json:"tree"`
}

// fromElement is one row of the from-element listing.
type fromElement struct {
	Alias    string `json:"alias"`
	Kind     string `json:"kind"`
	Type     string `json:"type"`
	Source   string `json:"source,omitempty"`
	Join     string `json:"join,omitempty"`
	Implicit bool   `json:"implicit,omitempty"`
	Fetched  bool   `json:"fetched,omitempty"`
	Treated  string `json:"treated_as,omitempty"`
}

// collectFromElements lists every from element of stmt, subqueries included,
// in tree order.
func collectFromElements(stmt sqm.Statement) []fromElement {
	var rows []fromElement
	seen := make(map[string]bool)
	sqm.Inspect(stmt, func(n sqm.Node) bool {
		e, ok := n.(sqm.FromElement)
		if !ok || seen[e.UniqueID()] {
			return true
		}
		seen[e.UniqueID()] = true
		rows = append(rows, describeFromElement(e))
		return true
	})
	return rows
}

func describeFromElement(e sqm.FromElement) fromElement {
	row := fromElement{Alias: e.Alias()}
	if t := e.BoundType(); t != nil {
		row.Type = t.Name()
	}
	var treated []string
	for _, t := range e.TreatedAs() {
		treated = append(treated, t.Name())
	}
	row.Treated = strings.Join(treated, ", ")

	switch e := e.(type) {
	case *sqm.RootEntityFromElement:
		row.Kind = "root"
	case *sqm.CrossJoinedFromElement:
		row.Kind = "cross join"
		row.Join = e.JoinType().String()
	case *sqm.QualifiedAttributeJoinFromElement:
		row.Kind = "attribute join"
		row.Source = e.Lhs.Alias() + "." + e.Attribute.Name
		row.Join = e.JoinType.String()
		row.Implicit = e.Implicit
		row.Fetched = e.Fetched
	case *sqm.QualifiedEntityJoinFromElement:
		row.Kind = "entity join"
		row.Join = e.JoinType.String()
		row.Fetched = e.Fetched
	case *sqm.TreatedFromElement:
		row.Kind = "treated"
	}
	return row
}

// renderStatement writes stmt in the renderer's mode.
func renderStatement(r *output.Renderer, query string, stmt sqm.Statement) error {
	switch r.Mode() {
	case output.ModeJSON:
		return r.JSON(statementResult{
			Query:        query,
			Kind:         stmt.Kind().String(),
			FromElements: collectFromElements(stmt),
			Tree:         sqm.Tree(stmt),
		})
	case output.ModeTable:
		renderFromElementTable(r, collectFromElements(stmt))
		return nil
	default:
		return sqm.Fprint(r.Writer(), stmt)
	}
}

func renderFromElementTable(r *output.Renderer, rows []fromElement) {
	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Alias", "Kind", "Type", "Source", "Join", "Implicit", "Fetched", "Treated As"})
	for _, row := range rows {
		t.AppendRow(table.Row{
			r.Styles().Alias.Render(row.Alias),
			row.Kind,
			row.Type,
			row.Source,
			row.Join,
			yesNo(row.Implicit),
			yesNo(row.Fetched),
			row.Treated,
		})
	}
	t.Render()
	r.Printf("(%d from elements)\n", len(rows))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
