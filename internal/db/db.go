// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package db opens the archive SQLite database and owns its schema.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens or creates the archive database at path with WAL journaling
// and foreign keys enabled, creating the schema if it does not exist.
// The returned handle is safe for concurrent use.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return conn, nil
}

func createSchema(conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			created_on TEXT NOT NULL,
			modified_on TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS signature_components (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			index_type TEXT NOT NULL,
			created_on TEXT NOT NULL,
			modified_on TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS signature_elements (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			signature_component_id INTEGER NOT NULL REFERENCES signature_components(id),
			name TEXT NOT NULL,
			description TEXT,
			idx TEXT,
			created_on TEXT NOT NULL,
			modified_on TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_elements_component ON signature_elements(signature_component_id)`,
		`CREATE TABLE IF NOT EXISTS signature_element_parents (
			element_id INTEGER NOT NULL REFERENCES signature_elements(id) ON DELETE CASCADE,
			parent_id INTEGER NOT NULL REFERENCES signature_elements(id) ON DELETE CASCADE,
			PRIMARY KEY (element_id, parent_id)
		)`,
		`CREATE TABLE IF NOT EXISTS archive_documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_type TEXT NOT NULL,
			parent_unit_archive_document_id INTEGER REFERENCES archive_documents(id),
			title TEXT NOT NULL,
			creator TEXT,
			creation_date TEXT,
			number_of_pages INTEGER,
			document_type TEXT,
			dimensions TEXT,
			binding TEXT,
			condition TEXT,
			document_language TEXT,
			content_description TEXT,
			remarks TEXT,
			access_level TEXT,
			access_conditions TEXT,
			additional_information TEXT,
			related_documents_references TEXT,
			is_digitized INTEGER NOT NULL DEFAULT 0,
			digitized_version_link TEXT,
			created_by TEXT,
			updated_by TEXT,
			created_on TEXT NOT NULL,
			modified_on TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_parent ON archive_documents(parent_unit_archive_document_id)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_doc_type ON archive_documents(doc_type)`,
		`CREATE TABLE IF NOT EXISTS archive_document_tags (
			document_id INTEGER NOT NULL REFERENCES archive_documents(id) ON DELETE CASCADE,
			tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			PRIMARY KEY (document_id, tag_id)
		)`,
		`CREATE TABLE IF NOT EXISTS archive_document_signatures (
			document_id INTEGER NOT NULL REFERENCES archive_documents(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			path TEXT NOT NULL,
			PRIMARY KEY (document_id, kind, path)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signatures_path ON archive_document_signatures(kind, path)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			content TEXT,
			shared INTEGER NOT NULL DEFAULT 0,
			owner_login TEXT,
			created_on TEXT NOT NULL,
			modified_on TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS note_tags (
			note_id INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
			tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			PRIMARY KEY (note_id, tag_id)
		)`,
		`CREATE TABLE IF NOT EXISTS logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_on TEXT NOT NULL,
			level TEXT NOT NULL,
			category TEXT,
			message TEXT,
			data TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_logs_created_on ON logs(created_on)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	return nil
}
