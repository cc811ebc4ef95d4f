package logging

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/archive-engine/internal/db"
	"github.com/pdiddy/archive-engine/pkg/types"
)

func setupCapture(t *testing.T) (*sql.DB, zerolog.Logger, *Store) {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	logger := zerolog.New(NewCaptureWriter(conn)).With().Timestamp().Logger()
	return conn, logger, NewStore(conn)
}

func searchLogs(t *testing.T, s *Store, elems ...types.SearchQueryElement) *types.SearchResponse[types.LogEntry] {
	t.Helper()
	resp, err := s.Search(context.Background(), types.SearchRequest{
		Query: elems,
		Page:  1, PageSize: 50,
	})
	if err != nil {
		t.Fatalf("search logs: %v", err)
	}
	return resp
}

func logMessages(resp *types.SearchResponse[types.LogEntry]) []string {
	msgs := make([]string, 0, len(resp.Data))
	for _, entry := range resp.Data {
		msgs = append(msgs, entry.Message)
	}
	return msgs
}

func TestCaptureAndSearch(t *testing.T) {
	_, logger, store := setupCapture(t)

	logger.Info().
		Str("category", "archive").
		Int64("archiveDocumentId", 4).
		Msg("document stored")
	logger.Warn().Str("category", "links").Msg("link probe failed")
	logger.Error().Msg("schema statement failed")

	all := searchLogs(t, store)
	if all.TotalSize != 3 {
		t.Fatalf("expected 3 captured entries, got %d", all.TotalSize)
	}

	byLevel := searchLogs(t, store,
		types.SearchQueryElement{Field: "level", Condition: types.ConditionEq, Value: "warn"})
	if !reflect.DeepEqual(logMessages(byLevel), []string{"link probe failed"}) {
		t.Errorf("by level: %v", logMessages(byLevel))
	}

	byCategory := searchLogs(t, store,
		types.SearchQueryElement{Field: "category", Condition: types.ConditionEq, Value: "archive"})
	if len(byCategory.Data) != 1 {
		t.Fatalf("by category: %v", logMessages(byCategory))
	}
	if byCategory.Data[0].Data != `{"archiveDocumentId":4}` {
		t.Errorf("captured data: %q", byCategory.Data[0].Data)
	}

	byFragment := searchLogs(t, store,
		types.SearchQueryElement{Field: "message", Condition: types.ConditionFragment, Value: "probe"})
	if !reflect.DeepEqual(logMessages(byFragment), []string{"link probe failed"}) {
		t.Errorf("by fragment: %v", logMessages(byFragment))
	}

	severe := searchLogs(t, store,
		types.SearchQueryElement{Field: "level", Condition: types.ConditionAnyOf, Value: []string{"warn", "error"}})
	if severe.TotalSize != 2 {
		t.Errorf("severe entries: %v", logMessages(severe))
	}

	notInfo := searchLogs(t, store,
		types.SearchQueryElement{Field: "level", Condition: types.ConditionEq, Value: "info", Not: true})
	if notInfo.TotalSize != 2 {
		t.Errorf("not info: %v", logMessages(notInfo))
	}

	since := searchLogs(t, store,
		types.SearchQueryElement{Field: "createdOn", Condition: types.ConditionGte, Value: "2020-01-01T00:00:00Z"})
	if since.TotalSize != 3 {
		t.Errorf("since 2020: %v", logMessages(since))
	}
}

func TestCaptureBadLine(t *testing.T) {
	conn, _, store := setupCapture(t)

	w := NewCaptureWriter(conn)
	line := []byte("panic: runtime error\n")
	n, err := w.Write(line)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != len(line) {
		t.Errorf("short write: %d of %d", n, len(line))
	}

	resp := searchLogs(t, store,
		types.SearchQueryElement{Field: "message", Condition: types.ConditionFragment, Value: "runtime error"})
	if resp.TotalSize != 1 {
		t.Fatalf("expected the raw line captured, got %d entries", resp.TotalSize)
	}
	if resp.Data[0].Level != "" {
		t.Errorf("raw line level: %q", resp.Data[0].Level)
	}
	if strings.Contains(resp.Data[0].Message, "\n") {
		t.Errorf("message kept the trailing newline: %q", resp.Data[0].Message)
	}
}

func TestCaptureRespectsLoggerLevel(t *testing.T) {
	conn, _, store := setupCapture(t)

	logger := zerolog.New(NewCaptureWriter(conn)).Level(zerolog.WarnLevel).With().Timestamp().Logger()
	logger.Debug().Msg("noise")
	logger.Info().Msg("more noise")
	logger.Error().Msg("disk full")

	resp := searchLogs(t, store)
	if !reflect.DeepEqual(logMessages(resp), []string{"disk full"}) {
		t.Errorf("captured: %v", logMessages(resp))
	}
}
