// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the process logger. Events are structured
// zerolog JSON on stderr; with capture enabled each event is also
// inserted into the logs table, which makes past runs searchable like
// any other record type.
package logging

import (
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/archive-engine/internal/db"
	"github.com/pdiddy/archive-engine/pkg/types"
)

// New builds the logger from cfg. Output goes to stderr, pretty
// printed when cfg.Pretty is set. When cfg.Capture is set and conn is
// non-nil, every event is additionally written to the logs table.
// Unknown level names fall back to info.
func New(cfg types.LoggingConfig, conn *sql.DB) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	}

	var out io.Writer = os.Stderr
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	if cfg.Capture && conn != nil {
		out = zerolog.MultiLevelWriter(out, NewCaptureWriter(conn))
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// CaptureWriter stores log events in the logs table. It implements
// io.Writer so it can sit behind a MultiLevelWriter next to the
// console output.
type CaptureWriter struct {
	db *sql.DB
}

// NewCaptureWriter returns a writer that records events on conn.
func NewCaptureWriter(conn *sql.DB) *CaptureWriter {
	return &CaptureWriter{db: conn}
}

// event is one decoded log line, timestamp kept in the stored string
// form.
type event struct {
	CreatedOn string
	Level     string
	Category  string
	Message   string
	Data      string
}

// Write decodes one event line and inserts it. The level, timestamp,
// message and category fields map to their own columns; whatever else
// the event carries is kept as a JSON object in the data column.
// Lines that are not valid JSON are stored verbatim as the message.
func (w *CaptureWriter) Write(p []byte) (int, error) {
	entry := parseEvent(p)

	_, err := w.db.Exec(
		`INSERT INTO logs (created_on, level, category, message, data)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.CreatedOn, entry.Level,
		nullable(entry.Category), nullable(entry.Message), nullable(entry.Data),
	)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func parseEvent(p []byte) event {
	var fields map[string]any
	if err := json.Unmarshal(p, &fields); err != nil {
		return event{
			Message:   strings.TrimSpace(string(p)),
			CreatedOn: db.Now(),
		}
	}

	entry := event{CreatedOn: db.Now()}

	if ts, ok := fields[zerolog.TimestampFieldName].(string); ok {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			entry.CreatedOn = t.UTC().Format(db.TimeFormat)
		}
		delete(fields, zerolog.TimestampFieldName)
	}
	if lvl, ok := fields[zerolog.LevelFieldName].(string); ok {
		entry.Level = lvl
		delete(fields, zerolog.LevelFieldName)
	}
	if msg, ok := fields[zerolog.MessageFieldName].(string); ok {
		entry.Message = msg
		delete(fields, zerolog.MessageFieldName)
	}
	if cat, ok := fields["category"].(string); ok {
		entry.Category = cat
		delete(fields, "category")
	}

	if len(fields) > 0 {
		if data, err := json.Marshal(fields); err == nil {
			entry.Data = string(data)
		}
	}
	return entry
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
