package note

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

func setupStores(t *testing.T) (*Store, *tag.Store) {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewStore(conn), tag.NewStore(conn)
}

func mustTag(t *testing.T, tags *tag.Store, name string) int64 {
	t.Helper()
	created, err := tags.Create(context.Background(), name, "")
	if err != nil {
		t.Fatalf("create tag %s: %v", name, err)
	}
	return created.ID
}

func TestNoteLifecycle(t *testing.T) {
	s, tags := setupStores(t)
	ctx := context.Background()

	maps := mustTag(t, tags, "maps")
	seals := mustTag(t, tags, "seals")

	created, err := s.Create(ctx, "Survey findings", "The 1872 survey mentions three mills.", true, "astrid", []int64{seals, maps, maps})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.Shared || created.OwnerLogin != "astrid" {
		t.Errorf("unexpected note %+v", created)
	}
	if !reflect.DeepEqual(created.TagIDs, []int64{maps, seals}) {
		t.Errorf("tags %v, want sorted deduped [%d %d]", created.TagIDs, maps, seals)
	}

	updated, err := s.Update(ctx, created.ID, "Survey findings", "Corrected: four mills.", false, "astrid", []int64{seals})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Shared || updated.Content != "Corrected: four mills." {
		t.Errorf("unexpected note after update %+v", updated)
	}
	if !reflect.DeepEqual(updated.TagIDs, []int64{seals}) {
		t.Errorf("tags %v, want [%d]", updated.TagIDs, seals)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: %v", err)
	}
}

func TestNoteValidation(t *testing.T) {
	s, _ := setupStores(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "", "body", false, "", nil); err == nil {
		t.Error("empty title accepted")
	}
	if _, err := s.Create(ctx, "linked", "", false, "", []int64{999}); err == nil {
		t.Error("unknown tag id accepted")
	}
	if _, err := s.Update(ctx, 999, "ghost", "", false, "", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("update unknown: %v", err)
	}
	if err := s.Delete(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete unknown: %v", err)
	}
}

func noteTitles(resp *types.SearchResponse[types.Note]) []string {
	titles := make([]string, len(resp.Data))
	for i, n := range resp.Data {
		titles[i] = n.Title
	}
	return titles
}

func TestNoteSearch(t *testing.T) {
	s, tags := setupStores(t)
	ctx := context.Background()

	maps := mustTag(t, tags, "maps")
	seals := mustTag(t, tags, "seals")

	if _, err := s.Create(ctx, "Mill survey", "three mills", true, "astrid", []int64{maps}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, "Seal inventory", "wax seals", false, "bertil", []int64{seals}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, "Open questions", "", false, "astrid", nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	byOwner, err := s.Search(ctx, types.SearchRequest{
		Query: []types.SearchQueryElement{
			{Field: "ownerLogin", Condition: types.ConditionEq, Value: "astrid"},
		},
		Page: 1, PageSize: 10,
		Sort: []types.SortElement{{Field: "title", Direction: types.SortAsc}},
	})
	if err != nil {
		t.Fatalf("search by owner: %v", err)
	}
	if !reflect.DeepEqual(noteTitles(byOwner), []string{"Mill survey", "Open questions"}) {
		t.Errorf("by owner: %v", noteTitles(byOwner))
	}

	byTag, err := s.Search(ctx, types.SearchRequest{
		Query: []types.SearchQueryElement{
			{Field: "tags", Condition: types.ConditionAnyOf, Value: []int64{seals}},
		},
		Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("search by tag: %v", err)
	}
	if !reflect.DeepEqual(noteTitles(byTag), []string{"Seal inventory"}) {
		t.Errorf("by tag: %v", noteTitles(byTag))
	}
	if !reflect.DeepEqual(byTag.Data[0].TagIDs, []int64{seals}) {
		t.Errorf("tag ids not attached: %v", byTag.Data[0].TagIDs)
	}

	shared, err := s.Search(ctx, types.SearchRequest{
		Query: []types.SearchQueryElement{
			{Field: "shared", Condition: types.ConditionEq, Value: true},
		},
		Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("search shared: %v", err)
	}
	if !reflect.DeepEqual(noteTitles(shared), []string{"Mill survey"}) {
		t.Errorf("shared: %v", noteTitles(shared))
	}

	fragment, err := s.Search(ctx, types.SearchRequest{
		Query: []types.SearchQueryElement{
			{Field: "content", Condition: types.ConditionFragment, Value: "mills"},
		},
		Page: 1, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("search fragment: %v", err)
	}
	if !reflect.DeepEqual(noteTitles(fragment), []string{"Mill survey"}) {
		t.Errorf("fragment: %v", noteTitles(fragment))
	}
}

func TestNoteSearchDefaultSortIsRecency(t *testing.T) {
	s, _ := setupStores(t)
	ctx := context.Background()

	// Timestamps land in the same second here, so only membership is
	// asserted, not order.
	for _, title := range []string{"first", "second", "third"} {
		if _, err := s.Create(ctx, title, "", false, "", nil); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	resp, err := s.Search(ctx, types.SearchRequest{Page: 1, PageSize: types.AllPages})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if resp.TotalSize != 3 || len(resp.Data) != 3 {
		t.Errorf("totals %d, rows %d", resp.TotalSize, len(resp.Data))
	}
}
