// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LogEntry is one captured structured log event. The logging package
// persists events into the logs table, where they are searchable like
// any other record type.
type LogEntry struct {
	// ID is the database identifier.
	ID int64 `json:"logId" yaml:"logId"`

	// Level is the zerolog level string (debug, info, warn, error, ...).
	Level string `json:"level" yaml:"level"`

	// Category groups events by subsystem (e.g. "archive", "signature").
	Category string `json:"category" yaml:"category"`

	// Message is the event message.
	Message string `json:"message" yaml:"message"`

	// Data holds the remaining event fields as a JSON object, or "" when
	// the event carried none.
	Data string `json:"data,omitempty" yaml:"data,omitempty"`

	CreatedOn time.Time `json:"createdOn" yaml:"createdOn"`
}
