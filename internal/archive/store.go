// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists archival records: units and the documents
// filed inside them, with their tags and signature paths.
// Implements: prd001-archive-documents (R1-R6).
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/archive-engine/internal/db"
	"github.com/pdiddy/archive-engine/internal/search"
	"github.com/pdiddy/archive-engine/internal/signature"
	"github.com/pdiddy/archive-engine/pkg/types"
)

var (
	// ErrNotFound reports a document ID with no row.
	ErrNotFound = errors.New("archive document not found")

	// ErrBadParent rejects a parent reference that is missing or not a
	// unit.
	ErrBadParent = errors.New("parent must be an existing unit")
)

// Store persists archive documents, their tag links, and their
// signature paths.
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

// Create inserts a new record with its tag and signature links in one
// transaction. The stored record starts active; CreatedBy doubles as
// the first UpdatedBy.
func (s *Store) Create(ctx context.Context, doc *types.ArchiveDocument) (*types.ArchiveDocument, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var id int64
	err := db.WithRetry(ctx, 0, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		if err := checkParent(ctx, tx, doc.ParentUnitArchiveDocumentID); err != nil {
			return err
		}

		now := db.Now()
		res, err := tx.ExecContext(ctx,
			`INSERT INTO archive_documents (
				doc_type, parent_unit_archive_document_id, title, creator, creation_date,
				number_of_pages, document_type, dimensions, binding, condition,
				document_language, content_description, remarks, access_level,
				access_conditions, additional_information, related_documents_references,
				is_digitized, digitized_version_link, created_by, updated_by,
				created_on, modified_on, active
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			string(doc.DocType), doc.ParentUnitArchiveDocumentID, doc.Title, doc.Creator,
			doc.CreationDate, doc.NumberOfPages, doc.DocumentType, doc.Dimensions,
			doc.Binding, doc.Condition, doc.DocumentLanguage, doc.ContentDescription,
			doc.Remarks, doc.AccessLevel, doc.AccessConditions, doc.AdditionalInformation,
			doc.RelatedDocumentsReferences, doc.IsDigitized, doc.DigitizedVersionLink,
			doc.CreatedBy, doc.CreatedBy, now, now,
		)
		if err != nil {
			return fmt.Errorf("inserting document: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading document id: %w", err)
		}

		if err := replaceLinks(ctx, tx, id, doc); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Get loads one record with tags and signature paths, active or not.
func (s *Store) Get(ctx context.Context, id int64) (*types.ArchiveDocument, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+documentColumns("")+` FROM archive_documents WHERE id = ?`, id)

	doc, err := scanDocument(row)
	if err != nil {
		return nil, err
	}

	docs := []types.ArchiveDocument{*doc}
	if err := s.attach(ctx, docs); err != nil {
		return nil, err
	}
	return &docs[0], nil
}

// Update replaces a record's fields, tag set, and signature sets.
// CreatedBy and CreatedOn are preserved; UpdatedBy is taken from doc.
func (s *Store) Update(ctx context.Context, id int64, doc *types.ArchiveDocument) (*types.ArchiveDocument, error) {
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	err := db.WithRetry(ctx, 0, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		if doc.ParentUnitArchiveDocumentID != nil && *doc.ParentUnitArchiveDocumentID == id {
			return fmt.Errorf("document %d cannot contain itself: %w", id, ErrBadParent)
		}
		if err := checkParent(ctx, tx, doc.ParentUnitArchiveDocumentID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE archive_documents SET
				doc_type = ?, parent_unit_archive_document_id = ?, title = ?, creator = ?,
				creation_date = ?, number_of_pages = ?, document_type = ?, dimensions = ?,
				binding = ?, condition = ?, document_language = ?, content_description = ?,
				remarks = ?, access_level = ?, access_conditions = ?,
				additional_information = ?, related_documents_references = ?,
				is_digitized = ?, digitized_version_link = ?, updated_by = ?, modified_on = ?
			 WHERE id = ?`,
			string(doc.DocType), doc.ParentUnitArchiveDocumentID, doc.Title, doc.Creator,
			doc.CreationDate, doc.NumberOfPages, doc.DocumentType, doc.Dimensions,
			doc.Binding, doc.Condition, doc.DocumentLanguage, doc.ContentDescription,
			doc.Remarks, doc.AccessLevel, doc.AccessConditions, doc.AdditionalInformation,
			doc.RelatedDocumentsReferences, doc.IsDigitized, doc.DigitizedVersionLink,
			doc.UpdatedBy, db.Now(), id,
		)
		if err != nil {
			return fmt.Errorf("updating document: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return fmt.Errorf("document %d: %w", id, ErrNotFound)
		}

		if err := replaceLinks(ctx, tx, id, doc); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Disable soft-deletes a record. The row, its links, and its history
// stay in place; searches filter on active explicitly.
func (s *Store) Disable(ctx context.Context, id int64, updatedBy string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE archive_documents SET active = 0, updated_by = ?, modified_on = ? WHERE id = ?`,
		updatedBy, db.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("disabling document: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("document %d: %w", id, ErrNotFound)
	}
	return nil
}

func validateDocument(doc *types.ArchiveDocument) error {
	if doc.Title == "" {
		return fmt.Errorf("document title is empty")
	}
	switch doc.DocType {
	case types.DocTypeUnit, types.DocTypeDocument:
	default:
		return fmt.Errorf("doc type must be unit or document, got %q", doc.DocType)
	}
	for _, path := range doc.DescriptiveSignatures {
		if !signature.Path(path).Valid() {
			return fmt.Errorf("descriptive signature %v is not a valid element path", path)
		}
	}
	for _, path := range doc.TopographicSignatures {
		if !signature.Path(path).Valid() {
			return fmt.Errorf("topographic signature %v is not a valid element path", path)
		}
	}
	return nil
}

// checkParent verifies the referenced parent exists and is a unit.
func checkParent(ctx context.Context, tx *sql.Tx, parent *int64) error {
	if parent == nil {
		return nil
	}

	var docType string
	err := tx.QueryRowContext(ctx,
		`SELECT doc_type FROM archive_documents WHERE id = ?`, *parent,
	).Scan(&docType)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("parent %d does not exist: %w", *parent, ErrBadParent)
	}
	if err != nil {
		return fmt.Errorf("loading parent: %w", err)
	}
	if docType != string(types.DocTypeUnit) {
		return fmt.Errorf("parent %d is a %s: %w", *parent, docType, ErrBadParent)
	}
	return nil
}

// replaceLinks swaps a document's tag links and both signature path
// sets inside tx.
func replaceLinks(ctx context.Context, tx *sql.Tx, id int64, doc *types.ArchiveDocument) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM archive_document_tags WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("clearing tag links: %w", err)
	}
	seen := make(map[int64]bool, len(doc.TagIDs))
	for _, tagID := range doc.TagIDs {
		if seen[tagID] {
			continue
		}
		seen[tagID] = true
		_, err := tx.ExecContext(ctx,
			`INSERT INTO archive_document_tags (document_id, tag_id) VALUES (?, ?)`, id, tagID)
		if err != nil {
			return fmt.Errorf("linking tag %d: %w", tagID, err)
		}
	}

	if err := replaceSignatures(ctx, tx, id, types.KindDescriptive, doc.DescriptiveSignatures); err != nil {
		return err
	}
	return replaceSignatures(ctx, tx, id, types.KindTopographic, doc.TopographicSignatures)
}

func replaceSignatures(ctx context.Context, tx *sql.Tx, id int64, kind types.SignatureKind, paths [][]int64) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM archive_document_signatures WHERE document_id = ? AND kind = ?`,
		id, string(kind)); err != nil {
		return fmt.Errorf("clearing %s signatures: %w", kind, err)
	}

	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		enc := signature.Path(path).Encode()
		if seen[enc] {
			continue
		}
		seen[enc] = true
		_, err := tx.ExecContext(ctx,
			`INSERT INTO archive_document_signatures (document_id, kind, path) VALUES (?, ?, ?)`,
			id, string(kind), enc)
		if err != nil {
			return fmt.Errorf("storing %s signature %s: %w", kind, enc, err)
		}
	}
	return nil
}

// documentColumns renders the SELECT column list, prefixed with alias
// when given. The order matches scanDocument.
func documentColumns(alias string) string {
	cols := []string{
		"id", "doc_type", "parent_unit_archive_document_id", "title", "creator",
		"creation_date", "number_of_pages", "document_type", "dimensions", "binding",
		"condition", "document_language", "content_description", "remarks",
		"access_level", "access_conditions", "additional_information",
		"related_documents_references", "is_digitized", "digitized_version_link",
		"created_by", "updated_by", "created_on", "modified_on", "active",
	}
	if alias != "" {
		for i, col := range cols {
			cols[i] = alias + "." + col
		}
	}
	return strings.Join(cols, ", ")
}

func scanDocument(row interface{ Scan(...any) error }) (*types.ArchiveDocument, error) {
	var doc types.ArchiveDocument
	var parent sql.NullInt64
	var pages sql.NullInt64
	var creator, creationDate, documentType, dimensions, binding, condition sql.NullString
	var language, content, remarks, accessLevel, accessConditions sql.NullString
	var additional, related, link, createdBy, updatedBy sql.NullString
	var created, modified string

	err := row.Scan(
		&doc.ID, &doc.DocType, &parent, &doc.Title, &creator,
		&creationDate, &pages, &documentType, &dimensions, &binding,
		&condition, &language, &content, &remarks,
		&accessLevel, &accessConditions, &additional,
		&related, &doc.IsDigitized, &link,
		&createdBy, &updatedBy, &created, &modified, &doc.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if parent.Valid {
		doc.ParentUnitArchiveDocumentID = &parent.Int64
	}
	doc.Creator = creator.String
	doc.CreationDate = creationDate.String
	doc.NumberOfPages = int(pages.Int64)
	doc.DocumentType = documentType.String
	doc.Dimensions = dimensions.String
	doc.Binding = binding.String
	doc.Condition = condition.String
	doc.DocumentLanguage = language.String
	doc.ContentDescription = content.String
	doc.Remarks = remarks.String
	doc.AccessLevel = accessLevel.String
	doc.AccessConditions = accessConditions.String
	doc.AdditionalInformation = additional.String
	doc.RelatedDocumentsReferences = related.String
	doc.DigitizedVersionLink = link.String
	doc.CreatedBy = createdBy.String
	doc.UpdatedBy = updatedBy.String
	doc.CreatedOn = db.ParseTime(created)
	doc.ModifiedOn = db.ParseTime(modified)
	doc.TagIDs = []int64{}
	doc.TopographicSignatures = [][]int64{}
	doc.DescriptiveSignatures = [][]int64{}
	return &doc, nil
}

// attach fills tag IDs and signature paths for a page of documents with
// one query per link table.
func (s *Store) attach(ctx context.Context, docs []types.ArchiveDocument) error {
	if len(docs) == 0 {
		return nil
	}

	args := make([]any, len(docs))
	index := make(map[int64]*types.ArchiveDocument, len(docs))
	for i := range docs {
		args[i] = docs[i].ID
		index[docs[i].ID] = &docs[i]
	}
	in := search.Placeholders(len(args))

	rows, err := s.db.QueryContext(ctx,
		`SELECT document_id, tag_id FROM archive_document_tags
		 WHERE document_id IN (`+in+`) ORDER BY document_id, tag_id`, args...)
	if err != nil {
		return fmt.Errorf("loading tag links: %w", err)
	}
	for rows.Next() {
		var docID, tagID int64
		if err := rows.Scan(&docID, &tagID); err != nil {
			rows.Close()
			return fmt.Errorf("scanning tag link: %w", err)
		}
		if doc := index[docID]; doc != nil {
			doc.TagIDs = append(doc.TagIDs, tagID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT document_id, kind, path FROM archive_document_signatures
		 WHERE document_id IN (`+in+`) ORDER BY document_id, kind, path`, args...)
	if err != nil {
		return fmt.Errorf("loading signatures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var docID int64
		var kind, encoded string
		if err := rows.Scan(&docID, &kind, &encoded); err != nil {
			return fmt.Errorf("scanning signature: %w", err)
		}
		path, err := signature.ParsePath(encoded)
		if err != nil {
			return fmt.Errorf("stored signature for document %d: %w", docID, err)
		}
		doc := index[docID]
		if doc == nil {
			continue
		}
		switch types.SignatureKind(kind) {
		case types.KindDescriptive:
			doc.DescriptiveSignatures = append(doc.DescriptiveSignatures, path)
		case types.KindTopographic:
			doc.TopographicSignatures = append(doc.TopographicSignatures, path)
		}
	}
	return rows.Err()
}
