package archive

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pdiddy/archive-engine/internal/db"
	"github.com/pdiddy/archive-engine/internal/tag"
	"github.com/pdiddy/archive-engine/pkg/types"
)

func setupArchive(t *testing.T) (*Store, *tag.Store) {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewStore(conn), tag.NewStore(conn)
}

func unitDoc(title string) *types.ArchiveDocument {
	return &types.ArchiveDocument{
		DocType:   types.DocTypeUnit,
		Title:     title,
		CreatedBy: "astrid",
	}
}

func plainDoc(title string) *types.ArchiveDocument {
	return &types.ArchiveDocument{
		DocType:   types.DocTypeDocument,
		Title:     title,
		CreatedBy: "astrid",
	}
}

func mustCreate(t *testing.T, s *Store, doc *types.ArchiveDocument) *types.ArchiveDocument {
	t.Helper()
	created, err := s.Create(context.Background(), doc)
	if err != nil {
		t.Fatalf("create %q: %v", doc.Title, err)
	}
	return created
}

func TestDocumentLifecycle(t *testing.T) {
	s, _ := setupArchive(t)
	ctx := context.Background()

	doc := plainDoc("Council minutes 1850")
	doc.Creator = "Town council"
	doc.CreationDate = "1850"
	doc.NumberOfPages = 120
	doc.DocumentType = "protocol"
	doc.Dimensions = "34 x 22 cm"
	doc.Binding = "half leather"
	doc.Condition = "good"
	doc.DocumentLanguage = "swedish"
	doc.ContentDescription = "Minutes of the town council, January through December 1850."
	doc.Remarks = "water damage on last leaves"
	doc.AccessLevel = "public"
	doc.AccessConditions = "reading room only"
	doc.AdditionalInformation = "rebound 1923"
	doc.RelatedDocumentsReferences = "see also 1851 volume"
	doc.IsDigitized = true
	doc.DigitizedVersionLink = "https://repo.example/scans/minutes-1850"

	created := mustCreate(t, s, doc)
	if created.ID == 0 || !created.Active {
		t.Fatalf("unexpected created document %+v", created)
	}
	if created.CreatedBy != "astrid" || created.UpdatedBy != "astrid" {
		t.Errorf("authorship %q/%q", created.CreatedBy, created.UpdatedBy)
	}
	if created.Condition != "good" || created.Binding != "half leather" || created.NumberOfPages != 120 {
		t.Errorf("descriptive fields lost: %+v", created)
	}
	if created.CreatedOn.IsZero() || created.ModifiedOn.IsZero() {
		t.Error("timestamps not set")
	}

	created.Title = "Council minutes 1850 (revised)"
	created.Remarks = ""
	created.UpdatedBy = "bertil"
	updated, err := s.Update(ctx, created.ID, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Council minutes 1850 (revised)" || updated.Remarks != "" {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.CreatedBy != "astrid" || updated.UpdatedBy != "bertil" {
		t.Errorf("authorship after update %q/%q", updated.CreatedBy, updated.UpdatedBy)
	}

	if err := s.Disable(ctx, created.ID, "bertil"); err != nil {
		t.Fatalf("disable: %v", err)
	}
	disabled, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get after disable: %v", err)
	}
	if disabled.Active {
		t.Error("document still active after disable")
	}
}

func TestDocumentValidation(t *testing.T) {
	s, _ := setupArchive(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, &types.ArchiveDocument{DocType: types.DocTypeDocument}); err == nil {
		t.Error("empty title accepted")
	}
	if _, err := s.Create(ctx, &types.ArchiveDocument{DocType: "scroll", Title: "x"}); err == nil {
		t.Error("bad doc type accepted")
	}

	bad := plainDoc("badly signed")
	bad.DescriptiveSignatures = [][]int64{{1, 0}}
	if _, err := s.Create(ctx, bad); err == nil {
		t.Error("invalid signature path accepted")
	}

	if _, err := s.Update(ctx, 999, plainDoc("ghost")); !errors.Is(err, ErrNotFound) {
		t.Errorf("update unknown: %v", err)
	}
	if err := s.Disable(ctx, 999, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("disable unknown: %v", err)
	}
}

func TestParentMustBeUnit(t *testing.T) {
	s, _ := setupArchive(t)
	ctx := context.Background()

	box := mustCreate(t, s, unitDoc("Box 12"))
	letter := mustCreate(t, s, plainDoc("Letter"))

	filed := plainDoc("Filed letter")
	filed.ParentUnitArchiveDocumentID = &box.ID
	created := mustCreate(t, s, filed)
	if created.ParentUnitArchiveDocumentID == nil || *created.ParentUnitArchiveDocumentID != box.ID {
		t.Errorf("parent not stored: %+v", created.ParentUnitArchiveDocumentID)
	}

	nested := unitDoc("Folder 3")
	nested.ParentUnitArchiveDocumentID = &box.ID
	if _, err := s.Create(ctx, nested); err != nil {
		t.Errorf("unit inside unit rejected: %v", err)
	}

	insideLetter := plainDoc("Misfiled")
	insideLetter.ParentUnitArchiveDocumentID = &letter.ID
	if _, err := s.Create(ctx, insideLetter); !errors.Is(err, ErrBadParent) {
		t.Errorf("document parent: %v", err)
	}

	missing := int64(999)
	orphan := plainDoc("Orphan")
	orphan.ParentUnitArchiveDocumentID = &missing
	if _, err := s.Create(ctx, orphan); !errors.Is(err, ErrBadParent) {
		t.Errorf("missing parent: %v", err)
	}

	box.ParentUnitArchiveDocumentID = &box.ID
	if _, err := s.Update(ctx, box.ID, box); !errors.Is(err, ErrBadParent) {
		t.Errorf("self parent: %v", err)
	}
}

func TestTagAndSignatureLinks(t *testing.T) {
	s, tags := setupArchive(t)
	ctx := context.Background()

	maps, err := tags.Create(ctx, "maps", "")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	seals, err := tags.Create(ctx, "seals", "")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}

	doc := plainDoc("Sealed map")
	doc.TagIDs = []int64{seals.ID, maps.ID, maps.ID}
	doc.DescriptiveSignatures = [][]int64{{1, 2}, {1, 3}, {1, 2}}
	doc.TopographicSignatures = [][]int64{{7}}
	created := mustCreate(t, s, doc)

	if !reflect.DeepEqual(created.TagIDs, []int64{maps.ID, seals.ID}) {
		t.Errorf("tags %v", created.TagIDs)
	}
	if !reflect.DeepEqual(created.DescriptiveSignatures, [][]int64{{1, 2}, {1, 3}}) {
		t.Errorf("descriptive signatures %v", created.DescriptiveSignatures)
	}
	if !reflect.DeepEqual(created.TopographicSignatures, [][]int64{{7}}) {
		t.Errorf("topographic signatures %v", created.TopographicSignatures)
	}

	created.TagIDs = []int64{maps.ID}
	created.DescriptiveSignatures = [][]int64{{2, 5}}
	created.TopographicSignatures = nil
	updated, err := s.Update(ctx, created.ID, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !reflect.DeepEqual(updated.TagIDs, []int64{maps.ID}) {
		t.Errorf("tags after update %v", updated.TagIDs)
	}
	if !reflect.DeepEqual(updated.DescriptiveSignatures, [][]int64{{2, 5}}) {
		t.Errorf("descriptive after update %v", updated.DescriptiveSignatures)
	}
	if len(updated.TopographicSignatures) != 0 {
		t.Errorf("topographic not cleared: %v", updated.TopographicSignatures)
	}
}

func TestUnknownTagRejected(t *testing.T) {
	s, _ := setupArchive(t)

	doc := plainDoc("Tagged")
	doc.TagIDs = []int64{404}
	if _, err := s.Create(context.Background(), doc); err == nil {
		t.Error("unknown tag id accepted")
	}
}
