package notes_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dexhq/dexnotes/internal/notes"
)

// newTestStore opens a store backed by a temp directory for isolation.
func newTestStore(t *testing.T) *notes.Store {
	t.Helper()
	cfg := notes.Config{DBPath: filepath.Join(t.TempDir(), "notes.db")}
	s, err := notes.Open(cfg)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustAdd(t *testing.T, s *notes.Store, p notes.AddParams) int64 {
	t.Helper()
	id, err := s.Add(p)
	if err != nil {
		t.Fatalf("Add(%q): %v", p.Customer, err)
	}
	return id
}

// rowCount counts notes directly, bypassing decoding.
func rowCount(t *testing.T, s *notes.Store) int {
	t.Helper()
	var n int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	return n
}

// insertRaw writes a row with arbitrary raw items JSON, the way a legacy
// or corrupted database would hold it.
func insertRaw(t *testing.T, s *notes.Store, customer, ts, items string) int64 {
	t.Helper()
	res, err := s.DB().Exec(
		`INSERT INTO notes (customer, timestamp, notes, items, archived) VALUES (?, ?, ?, ?, 0)`,
		customer, ts, "body for "+customer, items,
	)
	if err != nil {
		t.Fatalf("inserting raw note: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// ─── Open / Initialization ──────────────────────────────────────────────────

func TestOpen_IdempotentReopen(t *testing.T) {
	cfg := notes.Config{DBPath: filepath.Join(t.TempDir(), "notes.db")}

	s1, err := notes.Open(cfg)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	id := mustAdd(t, s1, notes.AddParams{Customer: "Acme", Body: "kickoff call"})
	s1.Close()

	s2, err := notes.Open(cfg)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer s2.Close()

	n, err := s2.Get(id)
	if err != nil {
		t.Fatalf("note not found after reopen: %v", err)
	}
	if n.Customer != "Acme" {
		t.Errorf("Customer = %q, want %q", n.Customer, "Acme")
	}
}

func TestOpen_CreatesParentDir(t *testing.T) {
	cfg := notes.Config{DBPath: filepath.Join(t.TempDir(), "nested", "dir", "notes.db")}
	s, err := notes.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()
}

// ─── Add / Get ──────────────────────────────────────────────────────────────

func TestAdd_StructuresItems(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, notes.AddParams{
		Customer: "Acme",
		Body:     "kickoff call",
		Items:    []string{"Send proposal", "Schedule demo"},
	})

	n, err := s.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(n.Items))
	}
	for i, it := range n.Items {
		if it.Status != notes.StatusOpen {
			t.Errorf("item %d status = %q, want open", i, it.Status)
		}
	}
	if n.Items[0].Text != "Send proposal" || n.Items[1].Text != "Schedule demo" {
		t.Errorf("item order not preserved: %+v", n.Items)
	}
}

func TestAdd_RequiredFields(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add(notes.AddParams{Customer: "", Body: "x"}); err == nil {
		t.Error("expected error for empty customer")
	}
	if _, err := s.Add(notes.AddParams{Customer: "Acme", Body: "  "}); err == nil {
		t.Error("expected error for empty body")
	}
}

func TestAdd_CustomDate(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "x", Date: "2024-05-01"})

	n, err := s.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(n.Timestamp, "2024-05-01") {
		t.Errorf("Timestamp = %q, want 2024-05-01 prefix", n.Timestamp)
	}
}

func TestAdd_InvalidDate(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add(notes.AddParams{Customer: "Acme", Body: "x", Date: "05/01/2024"}); err == nil {
		t.Error("expected error for invalid date format")
	}
	if got := rowCount(t, s); got != 0 {
		t.Errorf("row count = %d after rejected add, want 0", got)
	}
}

func TestAdd_TagsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "x", Tags: []string{"sales", "q3"}})

	n, err := s.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Tags) != 2 || n.Tags[0] != "sales" || n.Tags[1] != "q3" {
		t.Errorf("Tags = %v, want [sales q3]", n.Tags)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(99)
	if !errors.Is(err, notes.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// ─── Edit ───────────────────────────────────────────────────────────────────

func TestEdit_PartialUpdate(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, notes.AddParams{
		Customer:  "Acme",
		Body:      "original body",
		Tags:      []string{"sales"},
		Deadlines: []string{"EOW"},
	})

	if err := s.Edit(id, notes.EditParams{Body: "revised body"}); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	n, err := s.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if n.Body != "revised body" {
		t.Errorf("Body = %q, want revised", n.Body)
	}
	if n.Customer != "Acme" {
		t.Errorf("Customer = %q, should be untouched", n.Customer)
	}
	if len(n.Tags) != 1 || n.Tags[0] != "sales" {
		t.Errorf("Tags = %v, should be untouched", n.Tags)
	}
	if len(n.Deadlines) != 1 || n.Deadlines[0] != "EOW" {
		t.Errorf("Deadlines = %v, should be untouched", n.Deadlines)
	}
}

func TestEdit_ReplacesItemsAsOpen(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "x", Items: []string{"old"}})

	if err := s.Edit(id, notes.EditParams{Items: []string{"fresh one", "fresh two"}}); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	n, err := s.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(n.Items))
	}
	for _, it := range n.Items {
		if it.Status != notes.StatusOpen {
			t.Errorf("replacement item %q status = %q, want open", it.Text, it.Status)
		}
	}
}

func TestEdit_PreservesUndecodableItems(t *testing.T) {
	s := newTestStore(t)
	id := insertRaw(t, s, "Acme", "2024-01-01T00:00:00Z", `{broken`)

	// Editing an unrelated field must pass the raw column through untouched.
	if err := s.Edit(id, notes.EditParams{Body: "new body"}); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	var raw string
	if err := s.DB().QueryRow(`SELECT items FROM notes WHERE id = ?`, id).Scan(&raw); err != nil {
		t.Fatal(err)
	}
	if raw != `{broken` {
		t.Errorf("items column = %q, want original raw value", raw)
	}
}

func TestEdit_NotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.Edit(5, notes.EditParams{Body: "x"})
	if !errors.Is(err, notes.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// ─── Delete / Archive ───────────────────────────────────────────────────────

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "x"})

	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(id); !errors.Is(err, notes.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	s := newTestStore(t)
	if err := s.Delete(123); !errors.Is(err, notes.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestArchive_NotFound_StoreUnchanged(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "keep me"})

	before, err := s.AllNotes()
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Archive(999); !errors.Is(err, notes.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	after, err := s.AllNotes()
	if err != nil {
		t.Fatal(err)
	}
	if rowCount(t, s) != 1 {
		t.Errorf("row count changed after failed archive")
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("store contents changed after failed archive")
	}
	if n, err := s.Get(id); err != nil || n.Archived {
		t.Errorf("existing note touched by failed archive: %+v, %v", n, err)
	}
}

// ─── List ───────────────────────────────────────────────────────────────────

func TestList_ExcludesArchivedByDefault(t *testing.T) {
	s := newTestStore(t)
	keep := mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "active"})
	gone := mustAdd(t, s, notes.AddParams{Customer: "Globex", Body: "archived"})

	if err := s.Archive(gone); err != nil {
		t.Fatal(err)
	}

	visible, err := s.List(notes.ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(visible) != 1 || visible[0].ID != keep {
		t.Errorf("default list = %v, want only note %d", visible, keep)
	}

	all, err := s.List(notes.ListOptions{IncludeArchived: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("list --all returned %d notes, want 2", len(all))
	}
}

func TestList_TagFilter(t *testing.T) {
	s := newTestStore(t)
	tagged := mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "x", Tags: []string{"urgent", "sales"}})
	mustAdd(t, s, notes.AddParams{Customer: "Globex", Body: "y", Tags: []string{"routine"}})

	got, err := s.List(notes.ListOptions{Tag: "urgent"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != tagged {
		t.Errorf("tag filter returned %v, want only note %d", got, tagged)
	}
}

func TestList_OrderTimestampDesc(t *testing.T) {
	s := newTestStore(t)
	older := mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "old", Date: "2023-01-01"})
	newer := mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "new", Date: "2024-01-01"})

	got, err := s.List(notes.ListOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != newer || got[1].ID != older {
		t.Errorf("list order = %v, want newest first", got)
	}
}

// ─── Search ─────────────────────────────────────────────────────────────────

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	byBody := mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "discussed renewal terms"})
	byTag := mustAdd(t, s, notes.AddParams{Customer: "Globex", Body: "other", Tags: []string{"renewal"}})
	byItem := mustAdd(t, s, notes.AddParams{Customer: "Initech", Body: "misc", Items: []string{"draft renewal quote"}})
	mustAdd(t, s, notes.AddParams{Customer: "Umbrella", Body: "unrelated"})

	got, err := s.Search("renewal")
	if err != nil {
		t.Fatal(err)
	}
	ids := map[int64]int{}
	for _, n := range got {
		ids[n.ID]++
	}
	for _, want := range []int64{byBody, byTag, byItem} {
		if ids[want] != 1 {
			t.Errorf("note %d appeared %d times, want exactly once", want, ids[want])
		}
	}
	if len(got) != 3 {
		t.Errorf("got %d results, want 3", len(got))
	}
}

func TestSearch_DeduplicatesBodyAndItemMatch(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, notes.AddParams{
		Customer: "Acme",
		Body:     "renewal discussion",
		Items:    []string{"send renewal quote"},
	})

	got, err := s.Search("renewal")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != id {
		t.Errorf("note matching body and item returned %d times, want once", len(got))
	}
}

func TestSearch_CaseSensitive(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "Renewal terms"})

	got, err := s.Search("renewal")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("lowercase query matched %d notes, want 0", len(got))
	}
}

// ─── ListItems ──────────────────────────────────────────────────────────────

func TestListItems_StatusFilter(t *testing.T) {
	s := newTestStore(t)
	id := mustAdd(t, s, notes.AddParams{
		Customer: "Acme",
		Body:     "x",
		Items:    []string{"Send proposal", "Schedule demo"},
	})

	open, err := s.ListItems(notes.StatusOpen)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 2 {
		t.Fatalf("open items = %d, want 2", len(open))
	}

	// Close the first item and re-check both filters.
	n, err := s.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	n.Items[0].Status = notes.StatusClosed
	if err := s.UpdateItems(id, n.Items); err != nil {
		t.Fatal(err)
	}

	closed, err := s.ListItems(notes.StatusClosed)
	if err != nil {
		t.Fatal(err)
	}
	if len(closed) != 1 || closed[0].Text != "Send proposal" {
		t.Errorf("closed items = %v, want exactly Send proposal", closed)
	}

	open, err = s.ListItems(notes.StatusOpen)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 1 || open[0].Text != "Schedule demo" {
		t.Errorf("open items = %v, want exactly Schedule demo", open)
	}

	all, err := s.ListItems("all")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("all items = %d, want 2", len(all))
	}
}

func TestListItems_SkipsMalformed(t *testing.T) {
	s := newTestStore(t)
	insertRaw(t, s, "Broken", "2024-01-01T00:00:00Z", `{not json`)
	mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "x", Items: []string{"ok"}})

	got, err := s.ListItems("all")
	if err != nil {
		t.Fatalf("ListItems should not fail on one bad record: %v", err)
	}
	if len(got) != 1 || got[0].Text != "ok" {
		t.Errorf("items = %v, want only the good record's item", got)
	}
}

func TestListItems_NormalizesLegacy(t *testing.T) {
	s := newTestStore(t)
	insertRaw(t, s, "Legacy", "2024-01-01T00:00:00Z", `["Call back"]`)

	open, err := s.ListItems(notes.StatusOpen)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 1 || open[0].Text != "Call back" || open[0].Status != notes.StatusOpen {
		t.Errorf("legacy item not normalized: %v", open)
	}
}

// ─── Migration ──────────────────────────────────────────────────────────────

func TestMigrateItems_UpgradesLegacy(t *testing.T) {
	s := newTestStore(t)
	legacy := insertRaw(t, s, "Legacy", "2024-01-01T00:00:00Z", `["Call back"]`)
	structured := mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "x", Items: []string{"already structured"}})

	var structuredBefore string
	if err := s.DB().QueryRow(`SELECT items FROM notes WHERE id = ?`, structured).Scan(&structuredBefore); err != nil {
		t.Fatal(err)
	}

	res, err := s.MigrateItems()
	if err != nil {
		t.Fatalf("MigrateItems: %v", err)
	}
	if res.Migrated != 1 {
		t.Errorf("Migrated = %d, want 1", res.Migrated)
	}

	n, err := s.Get(legacy)
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Items) != 1 || n.Items[0].Text != "Call back" || n.Items[0].Status != notes.StatusOpen {
		t.Errorf("migrated items = %v, want one open Call back", n.Items)
	}

	// Structured notes must be byte-for-byte untouched.
	var structuredAfter string
	if err := s.DB().QueryRow(`SELECT items FROM notes WHERE id = ?`, structured).Scan(&structuredAfter); err != nil {
		t.Fatal(err)
	}
	if structuredAfter != structuredBefore {
		t.Errorf("structured note rewritten by migration")
	}
}

func TestMigrateItems_Idempotent(t *testing.T) {
	s := newTestStore(t)
	insertRaw(t, s, "Legacy", "2024-01-01T00:00:00Z", `["Call back"]`)

	first, err := s.MigrateItems()
	if err != nil {
		t.Fatal(err)
	}
	if first.Migrated != 1 {
		t.Fatalf("first run Migrated = %d, want 1", first.Migrated)
	}

	second, err := s.MigrateItems()
	if err != nil {
		t.Fatal(err)
	}
	if second.Migrated != 0 {
		t.Errorf("second run Migrated = %d, want 0", second.Migrated)
	}
}

func TestMigrateItems_ReportsMalformed(t *testing.T) {
	s := newTestStore(t)
	bad := insertRaw(t, s, "Broken", "2024-01-01T00:00:00Z", `{not json`)
	good := insertRaw(t, s, "Legacy", "2024-01-01T00:00:00Z", `["Call back"]`)

	res, err := s.MigrateItems()
	if err != nil {
		t.Fatalf("one bad record must not abort migration: %v", err)
	}
	if len(res.Failed) != 1 || res.Failed[0] != bad {
		t.Errorf("Failed = %v, want [%d]", res.Failed, bad)
	}
	if res.Migrated != 1 {
		t.Errorf("Migrated = %d, want 1 (note %d)", res.Migrated, good)
	}

	// The malformed column is left exactly as it was.
	var raw string
	if err := s.DB().QueryRow(`SELECT items FROM notes WHERE id = ?`, bad).Scan(&raw); err != nil {
		t.Fatal(err)
	}
	if raw != `{not json` {
		t.Errorf("malformed column rewritten: %q", raw)
	}
}

// ─── Customers / NotesFor ───────────────────────────────────────────────────

func TestCustomers_DistinctSorted(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, notes.AddParams{Customer: "Globex", Body: "x"})
	mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "y"})
	mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "z"})

	got, err := s.Customers()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "Acme" || got[1] != "Globex" {
		t.Errorf("Customers = %v, want [Acme Globex]", got)
	}
}

func TestNotesFor(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "first", Date: "2023-01-01"})
	mustAdd(t, s, notes.AddParams{Customer: "Acme", Body: "second", Date: "2024-01-01"})
	mustAdd(t, s, notes.AddParams{Customer: "Globex", Body: "other"})

	got, err := s.NotesFor("Acme")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d notes, want 2", len(got))
	}
	if got[0].Body != "second" {
		t.Errorf("newest note first, got %q", got[0].Body)
	}
}
