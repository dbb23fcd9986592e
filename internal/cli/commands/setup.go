package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/leapstack-labs/leapql/internal/cli/config"
	"github.com/leapstack-labs/leapql/internal/cli/output"
	"github.com/leapstack-labs/leapql/pkg/metamodel"
	"github.com/leapstack-labs/leapql/pkg/semantic"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// LoadModel reads the configured metamodel.
func (c *CommandContext) LoadModel() (*metamodel.Model, error) {
	if err := c.Cfg.ValidateMetamodel(); err != nil {
		return nil, err
	}
	m, err := metamodel.LoadFile(c.Cfg.MetamodelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load metamodel: %w", err)
	}
	c.Logger.Debug("metamodel loaded", "path", c.Cfg.MetamodelPath, "entities", len(m.Entities()))
	return m, nil
}

// Consumer returns the consumer context for m with the configured strictness.
func (c *CommandContext) Consumer(m *metamodel.Model) semantic.ModelContext {
	return semantic.ModelContext{Model: m, Strict: c.Cfg.Strict}
}

// Options returns interpretation options logging through the command logger.
func (c *CommandContext) Options(metrics *semantic.Metrics) semantic.Options {
	return semantic.Options{Logger: c.Logger, Metrics: metrics}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	parallelism := config.DefaultParallelism
	if v, err := strconv.Atoi(os.Getenv("LEAPQL_PARALLELISM")); err == nil && v > 0 {
		parallelism = v
	}

	return &config.Config{
		MetamodelPath: getEnvOrDefault("LEAPQL_METAMODEL", config.DefaultMetamodel),
		Strict:        os.Getenv("LEAPQL_STRICT") == "true",
		OutputFormat:  getEnvOrDefault("LEAPQL_OUTPUT", config.DefaultOutput),
		LogLevel:      getEnvOrDefault("LEAPQL_LOG_LEVEL", config.DefaultLogLevel),
		Verbose:       os.Getenv("LEAPQL_VERBOSE") == "true",
		Parallelism:   parallelism,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
