// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "archive.db")

	conn, err := Open(path)
	require.NoError(t, err)
	defer conn.Close()

	tables := []string{
		"tags",
		"signature_components",
		"signature_elements",
		"signature_element_parents",
		"archive_documents",
		"archive_document_tags",
		"archive_document_signatures",
		"notes",
		"note_tags",
		"logs",
	}
	for _, table := range tables {
		var n int
		err := conn.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, "table %s missing", table)
	}
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	conn, err := Open(path)
	require.NoError(t, err)

	_, err = conn.Exec(
		`INSERT INTO tags (name, description, created_on, modified_on)
		 VALUES ('correspondence', '', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
	)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	conn, err = Open(path)
	require.NoError(t, err)
	defer conn.Close()

	var name string
	err = conn.QueryRow(`SELECT name FROM tags`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "correspondence", name)
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	conn, err := Open(path)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Exec(`INSERT INTO note_tags (note_id, tag_id) VALUES (999, 999)`)
	assert.Error(t, err, "dangling note_tags row must be rejected")
}
