package signature

import (
	"database/sql"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/pdiddy/archive-engine/internal/db"
	"github.com/pdiddy/archive-engine/internal/search"
	"github.com/pdiddy/archive-engine/pkg/types"
)

func setupSignatureDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "probe.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// addSignedDoc inserts a document titled after its first path so match
// assertions read as path lists.
func addSignedDoc(t *testing.T, conn *sql.DB, kind types.SignatureKind, paths ...Path) {
	t.Helper()
	res, err := conn.Exec(
		`INSERT INTO archive_documents (doc_type, title, created_on, modified_on)
		 VALUES ('document', ?, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`,
		paths[0].Encode(),
	)
	if err != nil {
		t.Fatalf("insert document: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("document id: %v", err)
	}
	for _, p := range paths {
		_, err := conn.Exec(
			`INSERT INTO archive_document_signatures (document_id, kind, path) VALUES (?, ?, ?)`,
			id, string(kind), p.Encode())
		if err != nil {
			t.Fatalf("insert signature %s: %v", p.Encode(), err)
		}
	}
}

func matchTitles(t *testing.T, conn *sql.DB, kind types.SignatureKind, cond search.Condition) []string {
	t.Helper()
	frag, err := PathFilter(kind)(cond, "d")
	if err != nil {
		t.Fatalf("compile path condition: %v", err)
	}

	rows, err := conn.Query(`SELECT d.title FROM archive_documents d WHERE `+frag.SQL, frag.Args...)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			t.Fatalf("scan: %v", err)
		}
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

func seedPaths(t *testing.T, conn *sql.DB, paths ...Path) {
	t.Helper()
	for _, p := range paths {
		addSignedDoc(t, conn, types.KindDescriptive, p)
	}
}

func TestPrefixMatchingRespectsIDBoundaries(t *testing.T) {
	conn := setupSignatureDB(t)
	seedPaths(t, conn,
		Path{1}, Path{1, 2}, Path{1, 2, 3}, Path{1, 2, 4, 3},
		Path{1, 20, 3}, Path{11, 2}, Path{2, 3, 4},
	)

	got := matchTitles(t, conn, types.KindDescriptive, search.Condition{
		Op: types.ConditionStartsWith, Path: []int64{1, 2},
	})
	want := []string{"[1,2,3]", "[1,2,4,3]", "[1,2]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("prefix [1,2] matched %v, want %v", got, want)
	}

	got = matchTitles(t, conn, types.KindDescriptive, search.Condition{
		Op: types.ConditionStartsWith, Path: []int64{1},
	})
	want = []string{"[1,2,3]", "[1,2,4,3]", "[1,20,3]", "[1,2]", "[1]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("prefix [1] matched %v, want %v", got, want)
	}
}

func TestContainsMatchingRespectsOrderAndBoundaries(t *testing.T) {
	conn := setupSignatureDB(t)
	seedPaths(t, conn,
		Path{1, 2}, Path{1, 2, 3}, Path{1, 2, 3, 4}, Path{1, 2, 4, 3},
		Path{1, 20, 3}, Path{11, 2}, Path{2, 3}, Path{2, 3, 4},
		Path{3, 1, 2}, Path{3, 2},
	)

	got := matchTitles(t, conn, types.KindDescriptive, search.Condition{
		Op: types.ConditionContainsSequence, Path: []int64{2, 3},
	})
	want := []string{"[1,2,3,4]", "[1,2,3]", "[2,3,4]", "[2,3]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("contains [2,3] matched %v, want %v", got, want)
	}

	got = matchTitles(t, conn, types.KindDescriptive, search.Condition{
		Op: types.ConditionContainsSequence, Path: []int64{2},
	})
	want = []string{"[1,2,3,4]", "[1,2,3]", "[1,2,4,3]", "[1,2]", "[11,2]", "[2,3,4]", "[2,3]", "[3,1,2]", "[3,2]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("contains [2] matched %v, want %v", got, want)
	}
}

func TestExactMatchingIsWholePath(t *testing.T) {
	conn := setupSignatureDB(t)
	seedPaths(t, conn, Path{1, 2}, Path{1, 2, 3}, Path{2, 3}, Path{2})

	got := matchTitles(t, conn, types.KindDescriptive, search.Condition{
		Op: types.ConditionAnyOf, Paths: [][]int64{{1, 2}, {2, 3}},
	})
	want := []string{"[1,2]", "[2,3]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("exact {[1,2],[2,3]} matched %v, want %v", got, want)
	}

	got = matchTitles(t, conn, types.KindDescriptive, search.Condition{
		Op: types.ConditionEq, Path: []int64{1, 2},
	})
	want = []string{"[1,2]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("eq [1,2] matched %v, want %v", got, want)
	}

	got = matchTitles(t, conn, types.KindDescriptive, search.Condition{
		Op: types.ConditionEq, Path: []int64{2, 1},
	})
	if len(got) != 0 {
		t.Errorf("eq [2,1] matched %v, want none", got)
	}
}

func TestPathKindsAreSeparate(t *testing.T) {
	conn := setupSignatureDB(t)
	addSignedDoc(t, conn, types.KindDescriptive, Path{1, 2})
	addSignedDoc(t, conn, types.KindTopographic, Path{1, 2, 9})

	got := matchTitles(t, conn, types.KindTopographic, search.Condition{
		Op: types.ConditionStartsWith, Path: []int64{1, 2},
	})
	want := []string{"[1,2,9]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("topographic prefix matched %v, want %v", got, want)
	}
}

func TestDocumentWithSeveralPathsMatchesOnce(t *testing.T) {
	conn := setupSignatureDB(t)
	addSignedDoc(t, conn, types.KindDescriptive, Path{1, 2}, Path{1, 3}, Path{1, 4})

	got := matchTitles(t, conn, types.KindDescriptive, search.Condition{
		Op: types.ConditionStartsWith, Path: []int64{1},
	})
	if len(got) != 1 {
		t.Fatalf("expected a single row, got %v", got)
	}
}
