package types

// StoreDriver identifies the persistence backend.
type StoreDriver string

const (
	DriverSQLite   StoreDriver = "sqlite"
	DriverPostgres StoreDriver = "postgres"
)

// StoreConfig holds settings for the plan store.
type StoreConfig struct {
	// Driver selects the backend: sqlite or postgres.
	Driver StoreDriver `json:"driver" yaml:"driver" mapstructure:"driver"`

	// Dir is the directory holding the SQLite database (default "data").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// DSN is the PostgreSQL connection string. Ignored by the sqlite driver.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`
}

// OutputFormat selects how plans are rendered.
type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml"
	FormatJSON OutputFormat = "json"
	FormatText OutputFormat = "text"
)

// GenerationConfig holds settings for the generate command.
type GenerationConfig struct {
	// RecencyWeeks is how many prior weeks of stored plans feed recency hints (default 4).
	RecencyWeeks int `json:"recency_weeks" yaml:"recency_weeks" mapstructure:"recency_weeks"`

	// Format is the default output format.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all configuration for the CLI.
type Config struct {
	Store      StoreConfig      `json:"store" yaml:"store" mapstructure:"store"`
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`
}
