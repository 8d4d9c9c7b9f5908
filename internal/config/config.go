package config

// Config represents the configuration for the route manager
type Config struct {
	// Fan-out width for phantom-route detail probes
	ProbeConcurrency int

	// Where the phantom destination set is persisted between runs
	StateFile string

	LogLevel string
}

// NewConfig creates a new config with default values
func NewConfig() *Config {
	return &Config{
		ProbeConcurrency: 8,
		StateFile:        DefaultStateFile,
		LogLevel:         "info",
	}
}
