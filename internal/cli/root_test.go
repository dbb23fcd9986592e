package cli

import (
	"testing"

	"github.com/leapstack-labs/leapql/internal/cli/config"
	clitest "github.com/leapstack-labs/leapql/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProject writes the sample metamodel and a leapql.yaml next to it.
func newProject(t *testing.T, cfg string) string {
	t.Helper()
	config.ResetConfig()
	cfgFile = ""
	dir, _ := clitest.SetupTestProject(t)
	return clitest.WriteFile(t, dir, "leapql.yaml", cfg)
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"version", "interpret", "check", "repl", "entities", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"config", "metamodel", "strict", "output", "log-level", "verbose"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCommand_InterpretWithConfigFile(t *testing.T) {
	cfgPath := newProject(t, "metamodel: metamodel.yaml\noutput: text\n")

	out, _, err := clitest.ExecuteCommand(NewRootCmd(), "", "--config", cfgPath, "interpret", "select p.mate from Person p")
	require.NoError(t, err)
	assert.Contains(t, out, "AttributeJoin p.mate as <gen:0> (left, implicit)")
}

func TestRootCommand_StrictFlagOverridesConfig(t *testing.T) {
	cfgPath := newProject(t, "metamodel: metamodel.yaml\nstrict: false\n")

	_, _, err := clitest.ExecuteCommand(NewRootCmd(), "", "--config", cfgPath, "--strict", "interpret", "from Person p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "implicit-select")
}

func TestRootCommand_EnvStrict(t *testing.T) {
	cfgPath := newProject(t, "metamodel: metamodel.yaml\n")
	t.Setenv("LEAPQL_STRICT", "true")

	_, _, err := clitest.ExecuteCommand(NewRootCmd(), "", "--config", cfgPath, "interpret", "from Person p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "implicit-select")
}

func TestRootCommand_InvalidOutput(t *testing.T) {
	cfgPath := newProject(t, "metamodel: metamodel.yaml\n")

	_, _, err := clitest.ExecuteCommand(NewRootCmd(), "", "--config", cfgPath, "-o", "xml", "entities")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestRootCommand_VerboseLogsToStderr(t *testing.T) {
	cfgPath := newProject(t, "metamodel: metamodel.yaml\n")

	_, errOut, err := clitest.ExecuteCommand(NewRootCmd(), "", "--config", cfgPath, "-v", "entities")
	require.NoError(t, err)
	assert.Contains(t, errOut, "using config file")
	assert.Contains(t, errOut, "metamodel loaded")
}

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "bash completion"},
		{"zsh", "#compdef leapql"},
		{"fish", "complete -c leapql"},
		{"powershell", "Register-ArgumentCompleter"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out, _, err := clitest.ExecuteCommand(NewRootCmd(), "", "completion", tt.shell)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestCompletionCommand_InvalidShell(t *testing.T) {
	_, _, err := clitest.ExecuteCommand(NewRootCmd(), "", "completion", "tcsh")
	require.Error(t, err)
}
