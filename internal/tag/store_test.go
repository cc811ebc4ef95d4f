package tag

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pdiddy/archive-engine/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewStore(conn)
}

func TestTagLifecycle(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "maps", "cartographic material")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "maps" || got.Description != "cartographic material" {
		t.Errorf("unexpected tag %+v", got)
	}

	byName, err := s.ByName(ctx, "maps")
	if err != nil || byName.ID != created.ID {
		t.Errorf("by name: %+v, %v", byName, err)
	}

	updated, err := s.Update(ctx, created.ID, "cartography", "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "cartography" || updated.Description != "" {
		t.Errorf("unexpected tag after update %+v", updated)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get after delete: %v", err)
	}
}

func TestTagNamesAreUnique(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, "deeds", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, "deeds", "again"); err == nil {
		t.Error("duplicate name accepted")
	}
	if _, err := s.Create(ctx, "", ""); err == nil {
		t.Error("empty name accepted")
	}
}

func TestTagListOrderedByName(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	for _, name := range []string{"seals", "deeds", "maps"} {
		if _, err := s.Create(ctx, name, ""); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	tags, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	want := []string{"deeds", "maps", "seals"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("got %v, want %v", names, want)
	}
}

func TestTagUnknownIDs(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, 12); !errors.Is(err, ErrNotFound) {
		t.Errorf("get: %v", err)
	}
	if _, err := s.ByName(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("by name: %v", err)
	}
	if _, err := s.Update(ctx, 12, "x", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("update: %v", err)
	}
	if err := s.Delete(ctx, 12); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete: %v", err)
	}
}

func TestResolveCreatesMissingTags(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	existing, err := s.Create(ctx, "maps", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ids, err := s.Resolve(ctx, []string{"maps", "seals"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(ids) != 2 || ids[0] != existing.ID {
		t.Fatalf("ids %v", ids)
	}

	seals, err := s.ByName(ctx, "seals")
	if err != nil || seals.ID != ids[1] {
		t.Errorf("seals not created: %+v, %v", seals, err)
	}
}
