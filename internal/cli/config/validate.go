package config

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (want one of %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if !slices.Contains(LogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level %q (want one of %s)", c.LogLevel, strings.Join(LogLevels, ", "))
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}

	// The metamodel file is checked separately so help commands work without one.
	return nil
}

// ValidateMetamodel checks that the metamodel file exists.
func (c *Config) ValidateMetamodel() error {
	if c.MetamodelPath == "" {
		return fmt.Errorf("metamodel is required")
	}
	if _, err := os.Stat(c.MetamodelPath); os.IsNotExist(err) {
		return fmt.Errorf("metamodel file does not exist: %s\nHint: Create it or use --metamodel to specify a different path", c.MetamodelPath)
	}
	return nil
}
