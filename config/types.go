package config

// Config represents the complete configuration structure
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Query   QueryConfig   `mapstructure:"query"`
	Safety  SafetyConfig  `mapstructure:"safety"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds PostgREST connection details
type ServerConfig struct {
	URL     string            `mapstructure:"url"`
	Token   string            `mapstructure:"token"`
	Schema  string            `mapstructure:"schema"`
	Headers map[string]string `mapstructure:"headers"`
}

// QueryConfig contains query defaults
type QueryConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	Concurrency  int `mapstructure:"concurrency"`
}

// SafetyConfig contains safety-related settings for mutating commands
type SafetyConfig struct {
	DryRun        bool `mapstructure:"dry_run"`
	ConfirmDelete bool `mapstructure:"confirm_delete"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
