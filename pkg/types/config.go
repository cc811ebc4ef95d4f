package types

import "time"

// DatabaseConfig holds settings for the SQLite store.
type DatabaseConfig struct {
	// Path is the SQLite database file (e.g. "data/archive.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// BusyRetries is the number of times a write is retried when the
	// database is locked by another writer (default 5).
	BusyRetries int `json:"busy_retries" yaml:"busy_retries" mapstructure:"busy_retries"`

	// BusyBackoff is the initial delay between busy retries; it doubles
	// on every attempt (default 10ms).
	BusyBackoff time.Duration `json:"busy_backoff" yaml:"busy_backoff" mapstructure:"busy_backoff"`
}

// LoggingConfig holds settings for the structured logger.
type LoggingConfig struct {
	// Level is the minimum level to emit: debug, info, warn, or error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Pretty switches the console output to the human-readable writer
	// instead of JSON lines.
	Pretty bool `json:"pretty" yaml:"pretty" mapstructure:"pretty"`

	// Capture persists emitted events into the logs table, making them
	// searchable through the logs record type.
	Capture bool `json:"capture" yaml:"capture" mapstructure:"capture"`
}

// SearchConfig holds settings for search execution.
type SearchConfig struct {
	// DefaultPageSize is used when a request leaves PageSize zero (default 20).
	DefaultPageSize int `json:"default_page_size" yaml:"default_page_size" mapstructure:"default_page_size"`

	// MaxPageSize caps positive page sizes; AllPages (-1) is exempt.
	// Zero means no cap.
	MaxPageSize int `json:"max_page_size" yaml:"max_page_size" mapstructure:"max_page_size"`
}

// AppConfig groups all configuration for the archive-engine CLI.
type AppConfig struct {
	Database DatabaseConfig `json:"database" yaml:"database" mapstructure:"database"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging" mapstructure:"logging"`
	Search   SearchConfig   `json:"search" yaml:"search" mapstructure:"search"`
}
