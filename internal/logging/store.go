// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"context"
	"database/sql"

	"github.com/pdiddy/archive-engine/internal/db"
	"github.com/pdiddy/archive-engine/internal/search"
	"github.com/pdiddy/archive-engine/pkg/types"
)

// Store reads captured log entries back out of the database.
type Store struct {
	db     *sql.DB
	search *search.Registry
}

// NewStore returns a store reading from conn. Log fields are all
// plain columns, so the registry carries no custom handlers.
func NewStore(conn *sql.DB) *Store {
	return &Store{db: conn, search: search.NewRegistry()}
}

// Meta describes the logs table for the search compiler.
func Meta() search.Meta {
	return search.Meta{
		Entity:   "log",
		Table:    "logs",
		Alias:    "l",
		IDColumn: "id",
		Select:   "l.id, l.created_on, l.level, l.category, l.message, l.data",
		Columns: map[string]string{
			"logId":     "id",
			"level":     "level",
			"category":  "category",
			"message":   "message",
			"data":      "data",
			"createdOn": "created_on",
		},
		DefaultSort: []types.SortElement{{Field: "createdOn", Direction: types.SortDesc}},
	}
}

// Search runs a declarative query over captured log entries.
func (s *Store) Search(ctx context.Context, req types.SearchRequest) (*types.SearchResponse[types.LogEntry], error) {
	return search.Run(ctx, s.db, req, Meta(), s.search, scanLog)
}

func scanLog(rows *sql.Rows) (types.LogEntry, error) {
	var (
		entry    types.LogEntry
		created  string
		category sql.NullString
		message  sql.NullString
		data     sql.NullString
	)
	if err := rows.Scan(&entry.ID, &created, &entry.Level, &category, &message, &data); err != nil {
		return types.LogEntry{}, err
	}
	entry.Category = category.String
	entry.Message = message.String
	entry.Data = data.String
	entry.CreatedOn = db.ParseTime(created)
	return entry, nil
}
