// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tag persists the flat label vocabulary shared by archive
// documents and notes.
package tag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pdiddy/archive-engine/internal/db"
	"github.com/pdiddy/archive-engine/pkg/types"
)

// ErrNotFound reports a tag ID or name with no row.
var ErrNotFound = errors.New("tag not found")

// Store persists tags.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open archive database handle.
func NewStore(conn *sql.DB) *Store {
	return &Store{db: conn}
}

// Create inserts a new tag. Names are unique across the archive.
func (s *Store) Create(ctx context.Context, name, description string) (*types.Tag, error) {
	if name == "" {
		return nil, fmt.Errorf("tag name is empty")
	}

	now := db.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (name, description, created_on, modified_on) VALUES (?, ?, ?, ?)`,
		name, description, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting tag %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading tag id: %w", err)
	}

	return &types.Tag{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedOn:   db.ParseTime(now),
		ModifiedOn:  db.ParseTime(now),
	}, nil
}

// Get loads one tag by ID.
func (s *Store) Get(ctx context.Context, id int64) (*types.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_on, modified_on FROM tags WHERE id = ?`, id)
	return scanTag(row)
}

// ByName loads one tag by its unique name.
func (s *Store) ByName(ctx context.Context, name string) (*types.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_on, modified_on FROM tags WHERE name = ?`, name)
	return scanTag(row)
}

// List returns every tag ordered by name.
func (s *Store) List(ctx context.Context) ([]types.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, created_on, modified_on FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []types.Tag
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, rows.Err()
}

// Update replaces a tag's name and description.
func (s *Store) Update(ctx context.Context, id int64, name, description string) (*types.Tag, error) {
	if name == "" {
		return nil, fmt.Errorf("tag name is empty")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE tags SET name = ?, description = ?, modified_on = ? WHERE id = ?`,
		name, description, db.Now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating tag: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, fmt.Errorf("tag %d: %w", id, ErrNotFound)
	}
	return s.Get(ctx, id)
}

// Delete removes a tag. Document and note links to it cascade away.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("tag %d: %w", id, ErrNotFound)
	}
	return nil
}

// Resolve maps tag names to IDs, creating missing tags on the fly.
// CLI commands accept names; links are stored by ID.
func (s *Store) Resolve(ctx context.Context, names []string) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		tag, err := s.ByName(ctx, name)
		if errors.Is(err, ErrNotFound) {
			tag, err = s.Create(ctx, name, "")
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func scanTag(row interface{ Scan(...any) error }) (*types.Tag, error) {
	var tag types.Tag
	var description sql.NullString
	var created, modified string
	err := row.Scan(&tag.ID, &tag.Name, &description, &created, &modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tag: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning tag: %w", err)
	}
	tag.Description = description.String
	tag.CreatedOn = db.ParseTime(created)
	tag.ModifiedOn = db.ParseTime(modified)
	return &tag, nil
}
