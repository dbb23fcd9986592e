// Package config provides configuration management for the leapql CLI.
//
// Values are layered with koanf: defaults, then leapql.yaml, then LEAPQL_*
// environment variables, then explicitly set command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	// MetamodelPath is the YAML metamodel queries are interpreted against.
	MetamodelPath string `koanf:"metamodel"`
	Strict        bool   `koanf:"strict"`
	OutputFormat  string `koanf:"output"`
	LogLevel      string `koanf:"log_level"`
	Verbose       bool   `koanf:"verbose"`
	// Parallelism bounds the number of files `check` interprets at once.
	Parallelism int `koanf:"parallelism"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultMetamodel   = "metamodel.yaml"
	DefaultOutput      = "auto" // Auto-detect: TTY=styled text, non-TTY=plain text
	DefaultLogLevel    = "warn"
	DefaultParallelism = 4
)

// Output formats.
const (
	OutputAuto  = "auto"
	OutputText  = "text"
	OutputTable = "table"
	OutputJSON  = "json"
)

// OutputFormats lists the accepted values of the output key.
var OutputFormats = []string{OutputAuto, OutputText, OutputTable, OutputJSON}

// LogLevels lists the accepted values of the log_level key.
var LogLevels = []string{"debug", "info", "warn", "error"}
