// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package note persists research notes: free-form text records that can
// be tagged, shared, and searched alongside the archive itself.
package note

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pdiddy/archive-engine/internal/db"
	"github.com/pdiddy/archive-engine/internal/search"
	"github.com/pdiddy/archive-engine/pkg/types"
)

// ErrNotFound reports a note ID with no row.
var ErrNotFound = errors.New("note not found")

// Store persists notes and their tag links.
type Store struct {
	db     *sql.DB
	search *search.Registry
}

// NewStore wraps an open archive database handle.
func NewStore(conn *sql.DB) *Store {
	reg := search.NewRegistry()
	RegisterSearchHandlers(reg)
	return &Store{db: conn, search: reg}
}

// Create inserts a note with its tag links in one transaction.
func (s *Store) Create(ctx context.Context, title, content string, shared bool, ownerLogin string, tagIDs []int64) (*types.Note, error) {
	if title == "" {
		return nil, fmt.Errorf("note title is empty")
	}

	var id int64
	now := db.Now()
	err := db.WithRetry(ctx, 0, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		res, err := tx.ExecContext(ctx,
			`INSERT INTO notes (title, content, shared, owner_login, created_on, modified_on)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			title, content, shared, ownerLogin, now, now,
		)
		if err != nil {
			return fmt.Errorf("inserting note: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading note id: %w", err)
		}

		if err := replaceTagLinks(ctx, tx, id, tagIDs); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Get loads one note with its tag IDs.
func (s *Store) Get(ctx context.Context, id int64) (*types.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, shared, owner_login, created_on, modified_on
		 FROM notes WHERE id = ?`, id)

	note, err := scanNote(row)
	if err != nil {
		return nil, err
	}

	notes := []types.Note{*note}
	if err := s.attachTags(ctx, notes); err != nil {
		return nil, err
	}
	return &notes[0], nil
}

// Update replaces a note's fields and tag set.
func (s *Store) Update(ctx context.Context, id int64, title, content string, shared bool, ownerLogin string, tagIDs []int64) (*types.Note, error) {
	if title == "" {
		return nil, fmt.Errorf("note title is empty")
	}

	err := db.WithRetry(ctx, 0, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		res, err := tx.ExecContext(ctx,
			`UPDATE notes SET title = ?, content = ?, shared = ?, owner_login = ?, modified_on = ?
			 WHERE id = ?`,
			title, content, shared, ownerLogin, db.Now(), id,
		)
		if err != nil {
			return fmt.Errorf("updating note: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return fmt.Errorf("note %d: %w", id, ErrNotFound)
		}

		if err := replaceTagLinks(ctx, tx, id, tagIDs); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a note and its tag links.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	return nil
}

func replaceTagLinks(ctx context.Context, tx *sql.Tx, id int64, tagIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, id); err != nil {
		return fmt.Errorf("clearing tag links: %w", err)
	}

	seen := make(map[int64]bool, len(tagIDs))
	for _, tagID := range tagIDs {
		if seen[tagID] {
			continue
		}
		seen[tagID] = true
		_, err := tx.ExecContext(ctx,
			`INSERT INTO note_tags (note_id, tag_id) VALUES (?, ?)`, id, tagID)
		if err != nil {
			return fmt.Errorf("linking tag %d: %w", tagID, err)
		}
	}
	return nil
}

func scanNote(row interface{ Scan(...any) error }) (*types.Note, error) {
	var note types.Note
	var content, owner sql.NullString
	var created, modified string
	err := row.Scan(&note.ID, &note.Title, &content, &note.Shared, &owner, &created, &modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning note: %w", err)
	}
	note.Content = content.String
	note.OwnerLogin = owner.String
	note.TagIDs = []int64{}
	note.CreatedOn = db.ParseTime(created)
	note.ModifiedOn = db.ParseTime(modified)
	return &note, nil
}

// attachTags fills TagIDs for a page of notes with one query.
func (s *Store) attachTags(ctx context.Context, notes []types.Note) error {
	if len(notes) == 0 {
		return nil
	}

	args := make([]any, len(notes))
	index := make(map[int64]*types.Note, len(notes))
	for i := range notes {
		args[i] = notes[i].ID
		index[notes[i].ID] = &notes[i]
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT note_id, tag_id FROM note_tags
		 WHERE note_id IN (`+search.Placeholders(len(args))+`) ORDER BY note_id, tag_id`,
		args...)
	if err != nil {
		return fmt.Errorf("loading tag links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var noteID, tagID int64
		if err := rows.Scan(&noteID, &tagID); err != nil {
			return fmt.Errorf("scanning tag link: %w", err)
		}
		if note := index[noteID]; note != nil {
			note.TagIDs = append(note.TagIDs, tagID)
		}
	}
	return rows.Err()
}

// --- search ---

// Meta maps notes onto their table for search.
func Meta() search.Meta {
	return search.Meta{
		Entity:   "note",
		Table:    "notes",
		Alias:    "n",
		IDColumn: "id",
		Select:   "n.id, n.title, n.content, n.shared, n.owner_login, n.created_on, n.modified_on",
		Columns: map[string]string{
			"noteId":     "id",
			"title":      "title",
			"content":    "content",
			"shared":     "shared",
			"ownerLogin": "owner_login",
			"createdOn":  "created_on",
			"modifiedOn": "modified_on",
		},
		DefaultSort: []types.SortElement{{Field: "modifiedOn", Direction: types.SortDesc}},
	}
}

// RegisterSearchHandlers installs the note field handlers on reg:
// tags matches against the note tag link table.
func RegisterSearchHandlers(reg *search.Registry) {
	reg.Register(Meta().Entity, "tags",
		search.MembershipFilter("note_tags", "note_id", "tag_id"))
}

// Search runs a declarative query over notes and returns one page with
// tag IDs attached.
func (s *Store) Search(ctx context.Context, req types.SearchRequest) (*types.SearchResponse[types.Note], error) {
	resp, err := search.Run(ctx, s.db, req, Meta(), s.search, scanNoteSearch)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, resp.Data); err != nil {
		return nil, err
	}
	return resp, nil
}

func scanNoteSearch(rows *sql.Rows) (types.Note, error) {
	note, err := scanNote(rows)
	if err != nil {
		return types.Note{}, err
	}
	return *note, nil
}
