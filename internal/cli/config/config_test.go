package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "leapql.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0600))
	return cfgPath
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single variable", input: "${TEST_VAR_ONE}", expected: "value_one"},
		{name: "multiple variables", input: "${TEST_VAR_ONE}/${TEST_VAR_TWO}", expected: "value_one/value_two"},
		{name: "variable in path", input: "/path/to/${TEST_VAR_ONE}/file", expected: "/path/to/value_one/file"},
		{name: "unset variable stays as-is", input: "${UNSET_VARIABLE}", expected: "${UNSET_VARIABLE}"},
		{name: "no variables", input: "plain string", expected: "plain string"},
		{name: "empty string", input: "", expected: ""},
		{name: "mixed set and unset", input: "${TEST_VAR_ONE}:${UNSET_VAR}", expected: "value_one:${UNSET_VAR}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "{}\n")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	root := filepath.Dir(cfgPath)
	assert.Equal(t, filepath.Join(root, DefaultMetamodel), cfg.MetamodelPath)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.False(t, cfg.Strict)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultParallelism, cfg.Parallelism)
	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_FileValues(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, `metamodel: model/entities.yaml
strict: true
output: json
log_level: debug
parallelism: 2
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), "model", "entities.yaml"), cfg.MetamodelPath)
	assert.True(t, cfg.Strict)
	assert.Equal(t, OutputJSON, cfg.OutputFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.Parallelism)
}

func TestLoadConfig_MetamodelEnvExpansion(t *testing.T) {
	ResetConfig()
	abs := filepath.Join(t.TempDir(), "shared.yaml")
	t.Setenv("LEAPQL_TEST_MODEL", abs)
	cfgPath := writeConfig(t, "metamodel: ${LEAPQL_TEST_MODEL}\n")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.MetamodelPath)
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output: table\n")
	t.Setenv("LEAPQL_OUTPUT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "output format")
	require.NoError(t, flags.Set("output", "text"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, OutputText, cfg.OutputFormat, "flag value should override config file and env var")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "output: table\nstrict: false\n")
	t.Setenv("LEAPQL_OUTPUT", "json")
	t.Setenv("LEAPQL_STRICT", "true")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, cfg.OutputFormat, "env var should override config file")
	assert.True(t, cfg.Strict)
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "log_level: info\n")
	t.Setenv("LEAPQL_LOG_LEVEL", "error")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "warn", "log level")

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel, "env var should be used when flag is not set")
}

func TestLoadConfig_KebabFlags(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "{}\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "log level")
	flags.Int("parallelism", 0, "parallelism")
	flags.Bool("strict", false, "strict")
	require.NoError(t, flags.Set("log-level", "info"))
	require.NoError(t, flags.Set("parallelism", "8"))
	require.NoError(t, flags.Set("strict", "true"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8, cfg.Parallelism)
	assert.True(t, cfg.Strict)
}

func TestLoadConfig_MetamodelFlagRelativeToCWD(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "metamodel: from_file.yaml\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("metamodel", "", "metamodel")
	require.NoError(t, flags.Set("metamodel", "flag.yaml"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	want, err := filepath.Abs("flag.yaml")
	require.NoError(t, err)
	assert.Equal(t, want, cfg.MetamodelPath)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{name: "output", content: "output: xml\n", errSubstr: "invalid output format"},
		{name: "log level", content: "log_level: loud\n", errSubstr: "invalid log level"},
		{name: "parallelism", content: "parallelism: 0\n", errSubstr: "parallelism must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_ValidateMetamodel(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		err := (&Config{}).ValidateMetamodel()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "metamodel is required")
	})

	t.Run("missing file", func(t *testing.T) {
		err := (&Config{MetamodelPath: filepath.Join(t.TempDir(), "nope.yaml")}).ValidateMetamodel()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("existing file", func(t *testing.T) {
		path := writeConfig(t, "entities: []\n")
		assert.NoError(t, (&Config{MetamodelPath: path}).ValidateMetamodel())
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestNewLogger_VerboseEnablesDebug(t *testing.T) {
	logger := NewLogger(os.Stderr, "error", true)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	quiet := NewLogger(os.Stderr, "error", false)
	assert.False(t, quiet.Enabled(t.Context(), slog.LevelWarn))
}
