package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapql/internal/cli/config"
	"github.com/leapstack-labs/leapql/internal/cli/output"
	clitest "github.com/leapstack-labs/leapql/internal/cli/testutil"
	"github.com/leapstack-labs/leapql/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useProject points the fallback configuration at a fresh sample project.
func useProject(t *testing.T, outputFormat string) (dir, metamodelPath string) {
	t.Helper()
	config.ResetConfig()
	dir, metamodelPath = clitest.SetupTestProject(t)
	t.Setenv("LEAPQL_METAMODEL", metamodelPath)
	t.Setenv("LEAPQL_OUTPUT", outputFormat)
	t.Setenv("LEAPQL_STRICT", "false")
	return dir, metamodelPath
}

func run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	return clitest.ExecuteCommand(cmd, stdin, args...)
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewInterpretCommand(), "interpret [QUERY]", []string{"input"}},
		{NewCheckCommand(), "check <file|dir>...", []string{"parallelism", "metrics-file"}},
		{NewReplCommand(), "repl", []string{"watch", "history"}},
		{NewEntitiesCommand(), "entities [NAME]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestInterpret_Text(t *testing.T) {
	useProject(t, "text")

	out, _, err := run(t, NewInterpretCommand(), "", "select p.mate.name from Person p where p.name = :n")
	require.NoError(t, err)

	assert.Contains(t, out, "SelectStatement")
	assert.Contains(t, out, "RootEntity Person as p")
	assert.Contains(t, out, "AttributeJoin p.mate as <gen:0> (left, implicit)")
	clitest.AssertNoANSI(t, out)
}

func TestInterpret_Stdin(t *testing.T) {
	useProject(t, "text")

	out, _, err := run(t, NewInterpretCommand(), "from Person p;\n")
	require.NoError(t, err)
	assert.Contains(t, out, "RootEntity Person as p")
}

func TestInterpret_InputFile(t *testing.T) {
	dir, _ := useProject(t, "text")
	path := clitest.WriteFile(t, dir, "q.lql", "delete from Person p where p.age < 18")

	out, _, err := run(t, NewInterpretCommand(), "", "--input", path)
	require.NoError(t, err)
	assert.Contains(t, out, "DeleteStatement")
}

func TestInterpret_JSON(t *testing.T) {
	useProject(t, "json")

	out, _, err := run(t, NewInterpretCommand(), "", "select p.mate.name from Person p")
	require.NoError(t, err)

	var res statementResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "select", res.Kind)
	assert.Equal(t, "select p.mate.name from Person p", res.Query)
	require.Len(t, res.FromElements, 2)

	root, join := res.FromElements[0], res.FromElements[1]
	assert.Equal(t, fromElement{Alias: "p", Kind: "root", Type: "Person"}, root)
	assert.Equal(t, "attribute join", join.Kind)
	assert.Equal(t, "p.mate", join.Source)
	assert.Equal(t, "left", join.Join)
	assert.True(t, join.Implicit)
	assert.Equal(t, "SelectStatement", res.Tree.Label)
}

func TestInterpret_Table(t *testing.T) {
	useProject(t, "table")

	out, _, err := run(t, NewInterpretCommand(), "", "select k from Person p join p.kids k")
	require.NoError(t, err)

	assert.Contains(t, out, "ALIAS")
	assert.Contains(t, out, "attribute join")
	assert.Contains(t, out, "p.kids")
	assert.Contains(t, out, "(2 from elements)")
}

func TestInterpret_Errors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		stdin  string
		errSub string
	}{
		{name: "unknown entity", args: []string{"from Persn p"}, errSub: "Persn"},
		{name: "empty stdin", stdin: "  ;  ", errSub: "empty query"},
		{name: "missing file", args: []string{"--input", "does-not-exist.lql"}, errSub: "failed to read file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useProject(t, "text")
			_, _, err := run(t, NewInterpretCommand(), tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestInterpret_MissingMetamodel(t *testing.T) {
	config.ResetConfig()
	t.Setenv("LEAPQL_METAMODEL", filepath.Join(t.TempDir(), "none.yaml"))

	_, _, err := run(t, NewInterpretCommand(), "", "from Person p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metamodel file does not exist")
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "single", in: "from Person p", want: []string{"from Person p"}},
		{name: "trailing semicolon", in: "from Person p;\n", want: []string{"from Person p"}},
		{name: "two", in: "from Person p; from Dog d", want: []string{"from Person p", "from Dog d"}},
		{
			name: "semicolon in literal",
			in:   "from Person p where p.name = 'a;b'; from Dog d",
			want: []string{"from Person p where p.name = 'a;b'", "from Dog d"},
		},
		{
			name: "escaped quote",
			in:   "from Person p where p.name = 'it''s;'; from Dog d",
			want: []string{"from Person p where p.name = 'it''s;'", "from Dog d"},
		},
		{
			name: "comments and blanks",
			in:   "-- people\nfrom Person p;\n\n;\n-- dogs\nfrom Dog d;",
			want: []string{"from Person p", "from Dog d"},
		},
		{name: "empty", in: "  \n ; ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatements(tt.in))
		})
	}
}

func TestCheck(t *testing.T) {
	dir, _ := useProject(t, "text")
	clitest.WriteFile(t, dir, "queries/good.lql", "from Person p;\nselect p.mate.name from Person p;")
	clitest.WriteFile(t, dir, "queries/nested/bad.lql", "from Nobody n;")
	clitest.WriteFile(t, dir, "queries/ignored.txt", "not a query")
	metrics := filepath.Join(dir, "check.prom")

	out, _, err := run(t, NewCheckCommand(), "", filepath.Join(dir, "queries"), "--parallelism", "2", "--metrics-file", metrics)
	require.Error(t, err)
	assert.Equal(t, "1 of 3 statements failed", err.Error())

	assert.Contains(t, out, "OK   "+filepath.Join(dir, "queries", "good.lql")+":1")
	assert.Contains(t, out, "OK   "+filepath.Join(dir, "queries", "good.lql")+":2")
	assert.Contains(t, out, "FAIL "+filepath.Join(dir, "queries", "nested", "bad.lql")+":1")
	assert.Contains(t, out, "Nobody")
	assert.Contains(t, out, "3 statements, 1 failed")

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `leapql_semantic_interpretations_total{kind="select",result="success"} 2`)
	assert.Contains(t, string(prom), "leapql_semantic_implicit_joins_total 1")
}

func TestCheck_JSON(t *testing.T) {
	dir, _ := useProject(t, "json")
	file := clitest.WriteFile(t, dir, "a.lql", "update Person p set p.name = :n; select p from Person p where p.name = :n and p.age = ?1")

	out, _, err := run(t, NewCheckCommand(), "", file)
	require.Error(t, err)

	var results []checkResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "update", results[0].Kind)
	assert.Equal(t, "success", results[0].Result)
	assert.NotEmpty(t, results[1].Error, "mixed parameters should fail")
	assert.Equal(t, "semantic_err", results[1].Result)
}

func TestCheck_Strict(t *testing.T) {
	dir, _ := useProject(t, "text")
	t.Setenv("LEAPQL_STRICT", "true")
	file := clitest.WriteFile(t, dir, "a.lql", "from Person p")

	out, _, err := run(t, NewCheckCommand(), "", file)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL")
}

func TestCheck_MissingPath(t *testing.T) {
	useProject(t, "text")
	_, _, err := run(t, NewCheckCommand(), "", filepath.Join(t.TempDir(), "none"))
	require.Error(t, err)
}

func TestEntities(t *testing.T) {
	useProject(t, "text")

	out, _, err := run(t, NewEntitiesCommand(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "Employee")
	assert.Contains(t, out, "Person")
	assert.Contains(t, out, "com.acme.Gender")
	assert.Contains(t, out, "MALE, FEMALE, OTHER")
}

func TestEntities_Single(t *testing.T) {
	useProject(t, "json")

	out, _, err := run(t, NewEntitiesCommand(), "", "Employee")
	require.NoError(t, err)

	var info entityInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "Employee", info.Name)
	assert.Equal(t, "Person", info.Supertype)

	byName := make(map[string]attributeInfo)
	for _, a := range info.Attributes {
		byName[a.Name] = a
	}
	assert.Equal(t, "Person", byName["name"].Declaring, "inherited attributes are listed")
	assert.Equal(t, "Employee", byName["salary"].Declaring)
	assert.Equal(t, "list", byName["kids"].Collection)
}

func TestEntities_Unknown(t *testing.T) {
	useProject(t, "text")

	_, _, err := run(t, NewEntitiesCommand(), "", "Persn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown entity "Persn"`)
	assert.Contains(t, err.Error(), "did you mean Person")
}

func newTestSession(t *testing.T) (*replSession, *clitest.TestRenderer) {
	t.Helper()
	_, metamodelPath := useProject(t, "text")
	tr := clitest.NewTestRenderer(output.ModeText, false)
	cmdCtx := &CommandContext{
		Cfg:      &config.Config{MetamodelPath: metamodelPath, OutputFormat: "text"},
		Logger:   testutil.NewTestLogger(t),
		Renderer: tr.Renderer,
	}
	return newReplSession(cmdCtx, testutil.SampleModel(t)), tr
}

func TestReplSession_MultiLine(t *testing.T) {
	s, tr := newTestSession(t)

	prompt, quit := s.handleLine("select p.name")
	assert.False(t, quit)
	assert.Equal(t, replContinuePrompt, prompt)

	prompt, _ = s.handleLine("from Person p;")
	assert.Equal(t, replPrompt, prompt)
	assert.Contains(t, tr.Output(), "RootEntity Person as p")
	assert.Empty(t, tr.ErrorOutput())
}

func TestReplSession_Error(t *testing.T) {
	s, tr := newTestSession(t)

	s.handleLine("from Persn p;")
	assert.Contains(t, tr.ErrorOutput(), "Error:")
	assert.Contains(t, tr.ErrorOutput(), "Persn")
}

func TestReplSession_DotCommands(t *testing.T) {
	s, tr := newTestSession(t)

	_, quit := s.handleLine(".strict on")
	assert.False(t, quit)
	assert.Contains(t, tr.Output(), "strict: on")

	s.handleLine("from Person p;")
	assert.Contains(t, tr.ErrorOutput(), "select", "strict mode rejects a missing select clause")

	s.handleLine(".output json")
	s.handleLine(".strict off")
	tr.Out.Reset()
	s.handleLine("select p from Person p;")
	assert.True(t, strings.HasPrefix(tr.Output(), "{"), "json output expected, got %q", tr.Output())

	tr.Out.Reset()
	s.handleLine(".entities")
	assert.Contains(t, tr.Output(), `"Employee"`)

	s.handleLine(".bogus")
	assert.Contains(t, tr.ErrorOutput(), "unknown command: .bogus")

	_, quit = s.handleLine(".quit")
	assert.True(t, quit)
}

func TestReplSession_Reload(t *testing.T) {
	s, tr := newTestSession(t)
	require.NoError(t, os.WriteFile(s.cmdCtx.Cfg.MetamodelPath, []byte(`entities:
  - name: Widget
    attributes:
      - {name: id, type: Long}
`), 0644))

	s.handleLine(".reload")
	assert.Contains(t, tr.Output(), "metamodel reloaded")

	tr.Out.Reset()
	s.handleLine("select w.id from Widget w;")
	assert.Contains(t, tr.Output(), "RootEntity Widget as w")
}

func TestReplSession_ReloadKeepsModelOnError(t *testing.T) {
	s, tr := newTestSession(t)
	require.NoError(t, os.WriteFile(s.cmdCtx.Cfg.MetamodelPath, []byte("entities: [[["), 0644))

	s.handleLine(".reload")
	assert.Contains(t, tr.ErrorOutput(), "failed to load metamodel")

	tr.Out.Reset()
	s.handleLine("select p from Person p;")
	assert.Contains(t, tr.Output(), "RootEntity Person as p")
}
