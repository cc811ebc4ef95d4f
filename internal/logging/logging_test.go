// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/archive-engine/internal/db"
	"github.com/pdiddy/archive-engine/pkg/types"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		level    string
		message  string
		category string
		data     string
	}{
		{
			name:     "full event",
			line:     `{"level":"info","time":"2026-08-22T10:00:00Z","category":"archive","archiveDocumentId":12,"message":"document stored"}`,
			level:    "info",
			message:  "document stored",
			category: "archive",
			data:     `{"archiveDocumentId":12}`,
		},
		{
			name:    "no extra fields",
			line:    `{"level":"warn","message":"link probe failed"}`,
			level:   "warn",
			message: "link probe failed",
		},
		{
			name:    "no level",
			line:    `{"message":"plain"}`,
			message: "plain",
		},
		{
			name:  "extras only",
			line:  `{"level":"debug","elapsed":1.5,"rows":3}`,
			level: "debug",
			data:  `{"elapsed":1.5,"rows":3}`,
		},
		{
			name:    "not json",
			line:    "panic: something broke\n",
			message: "panic: something broke",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry := parseEvent([]byte(tc.line))
			assert.Equal(t, tc.level, entry.Level)
			assert.Equal(t, tc.message, entry.Message)
			assert.Equal(t, tc.category, entry.Category)
			assert.Equal(t, tc.data, entry.Data)
			assert.False(t, db.ParseTime(entry.CreatedOn).IsZero())
		})
	}
}

func TestParseEventTimestamp(t *testing.T) {
	entry := parseEvent([]byte(`{"level":"info","time":"2026-03-01T08:30:00Z","message":"x"}`))
	assert.Equal(t, "2026-03-01T08:30:00Z", entry.CreatedOn)
	assert.Empty(t, entry.Data)

	// A malformed timestamp falls back to the insertion time and is
	// not carried into data.
	entry = parseEvent([]byte(`{"level":"info","time":"yesterday","message":"x"}`))
	assert.NotEqual(t, "yesterday", entry.CreatedOn)
	assert.False(t, db.ParseTime(entry.CreatedOn).IsZero())
	assert.Empty(t, entry.Data)
}

func TestNewLevels(t *testing.T) {
	tests := []struct {
		cfg  string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tc := range tests {
		logger := New(types.LoggingConfig{Level: tc.cfg}, nil)
		assert.Equal(t, tc.want, logger.GetLevel(), "level %q", tc.cfg)
	}
}
