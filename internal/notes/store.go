// Package notes implements the dexnotes record store: a single SQLite table
// of customer interaction notes carrying tags, action items and deadlines,
// with filtered listing, keyword search, a legacy item migration and the
// standup reconciliation workflow layered on top.
package notes

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// now is the clock used for timestamps and dated artifacts; a var so tests
// can pin it.
var now = time.Now

// ErrNotFound is returned when a note id does not exist in the store.
var ErrNotFound = errors.New("note not found")

// ─── Types ───────────────────────────────────────────────────────────────────

// Note is a single customer interaction record.
type Note struct {
	ID        int64    `json:"id"`
	Customer  string   `json:"customer"`
	Timestamp string   `json:"timestamp"`
	Tags      []string `json:"tags,omitempty"`
	Body      string   `json:"notes"`
	Items     []Item   `json:"items,omitempty"`
	Deadlines []string `json:"deadlines,omitempty"`
	Archived  bool     `json:"archived"`
}

// ItemEntry is one flattened row from ListItems: an item joined with the
// identity of its owning note.
type ItemEntry struct {
	NoteID   int64  `json:"note_id"`
	Customer string `json:"customer"`
	Text     string `json:"text"`
	Status   string `json:"status"`
}

// AddParams holds the input for creating a note. Item texts are stored as
// open items.
type AddParams struct {
	Customer  string
	Body      string
	Tags      []string
	Items     []string
	Deadlines []string
	Date      string // optional override, YYYY-MM-DD or RFC 3339
}

// EditParams holds partial update fields for a note. Empty strings and nil
// slices leave the stored value untouched; provided item texts replace the
// whole list as fresh open items. The timestamp is always refreshed, to
// Date when given and to the current time otherwise.
type EditParams struct {
	Customer  string
	Body      string
	Tags      []string
	Items     []string
	Deadlines []string
	Date      string
}

// ListOptions filters List. The zero value lists non-archived notes.
type ListOptions struct {
	Tag             string
	IncludeArchived bool
}

// MigrationResult reports what MigrateItems changed.
type MigrationResult struct {
	Scanned  int
	Migrated int
	Failed   []int64 // note ids whose items column would not decode
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds store configuration.
type Config struct {
	// DBPath is the SQLite database file backing the store.
	DBPath string
}

// DefaultConfig places the database under the user's home directory.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DBPath: filepath.Join(home, ".dexnotes", "notes.db")}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the notes database handle. CLI commands open one per invocation
// and close it when they finish; there is no long-lived process.
type Store struct {
	db *sql.DB
}

// Open opens the notes database at cfg.DBPath, creating the file, its
// parent directory and the schema as needed.
func Open(cfg Config) (*Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("notes: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("notes: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("notes: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("notes: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS notes (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			customer  TEXT    NOT NULL,
			timestamp TEXT    NOT NULL,
			tags      TEXT,
			notes     TEXT    NOT NULL,
			items     TEXT,
			deadlines TEXT,
			archived  BOOLEAN NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_notes_customer  ON notes(customer);
		CREATE INDEX IF NOT EXISTS idx_notes_timestamp ON notes(timestamp DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Databases created before soft-delete existed lack the archived column.
	_, _ = s.db.Exec(`ALTER TABLE notes ADD COLUMN archived BOOLEAN NOT NULL DEFAULT 0`) // best-effort upgrade

	return nil
}

// ─── Row scanning ────────────────────────────────────────────────────────────

const noteCols = "id, customer, timestamp, tags, notes, items, deadlines, archived"

// noteRow is a note as stored: items and deadlines still raw JSON text.
// Edit works on this form so untouched columns pass through byte for byte,
// even when they would not decode.
type noteRow struct {
	id        int64
	customer  string
	timestamp string
	tags      *string
	body      string
	items     *string
	deadlines *string
	archived  bool
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNoteRow(sc rowScanner) (*noteRow, error) {
	var r noteRow
	if err := sc.Scan(&r.id, &r.customer, &r.timestamp, &r.tags, &r.body, &r.items, &r.deadlines, &r.archived); err != nil {
		return nil, err
	}
	return &r, nil
}

// note decodes the raw row into the canonical representation. Items pass
// through normalization; a row with undecodable items or deadlines returns
// a *DecodeError.
func (r *noteRow) note() (*Note, error) {
	items, err := decodeItems(r.id, r.items)
	if err != nil {
		return nil, err
	}
	deadlines, err := decodeStrings(r.id, "deadlines", r.deadlines)
	if err != nil {
		return nil, err
	}
	return &Note{
		ID:        r.id,
		Customer:  r.customer,
		Timestamp: r.timestamp,
		Tags:      splitTags(r.tags),
		Body:      r.body,
		Items:     items,
		Deadlines: deadlines,
		Archived:  r.archived,
	}, nil
}

// queryNotes runs a SELECT over the note columns and decodes each row.
// Rows with undecodable items or deadlines are logged and skipped so one
// bad record never sinks a batch operation.
func (s *Store) queryNotes(query string, args ...any) ([]Note, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []Note
	for rows.Next() {
		r, err := scanNoteRow(rows)
		if err != nil {
			return nil, err
		}
		n, err := r.note()
		if err != nil {
			slog.Warn("skipping malformed note", "id", r.id, "err", err)
			continue
		}
		results = append(results, *n)
	}
	return results, rows.Err()
}

// ─── CRUD ────────────────────────────────────────────────────────────────────

// Add creates a note and returns its assigned id.
func (s *Store) Add(p AddParams) (int64, error) {
	if strings.TrimSpace(p.Customer) == "" {
		return 0, errors.New("notes: customer is required")
	}
	if strings.TrimSpace(p.Body) == "" {
		return 0, errors.New("notes: note text is required")
	}

	ts := nowStamp()
	if p.Date != "" {
		var err error
		if ts, err = parseDate(p.Date); err != nil {
			return 0, err
		}
	}

	items, err := encodeItems(newItems(p.Items))
	if err != nil {
		return 0, fmt.Errorf("notes: encode items: %w", err)
	}
	deadlines, err := encodeStrings(p.Deadlines)
	if err != nil {
		return 0, fmt.Errorf("notes: encode deadlines: %w", err)
	}

	res, err := s.db.Exec(
		`INSERT INTO notes (customer, timestamp, tags, notes, items, deadlines, archived)
		 VALUES (?, ?, ?, ?, ?, ?, 0)`,
		p.Customer, ts, joinTags(p.Tags), p.Body, items, deadlines,
	)
	if err != nil {
		return 0, fmt.Errorf("notes: add: %w", err)
	}
	return res.LastInsertId()
}

// Get retrieves a single note by id.
func (s *Store) Get(id int64) (*Note, error) {
	r, err := s.getRow(id)
	if err != nil {
		return nil, err
	}
	n, err := r.note()
	if err != nil {
		return nil, fmt.Errorf("notes: get: %w", err)
	}
	return n, nil
}

func (s *Store) getRow(id int64) (*noteRow, error) {
	row := s.db.QueryRow(`SELECT `+noteCols+` FROM notes WHERE id = ?`, id)
	r, err := scanNoteRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("notes: note %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("notes: get %d: %w", id, err)
	}
	return r, nil
}

// Has reports whether a note with the id exists.
func (s *Store) Has(id int64) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM notes WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("notes: has %d: %w", id, err)
	}
	return true, nil
}

// Edit applies a partial update to a note. Columns not named in p keep
// their stored value unchanged, including item lists that would not decode.
func (s *Store) Edit(id int64, p EditParams) error {
	r, err := s.getRow(id)
	if err != nil {
		return err
	}

	ts := nowStamp()
	if p.Date != "" {
		if ts, err = parseDate(p.Date); err != nil {
			return err
		}
	}

	customer := r.customer
	if p.Customer != "" {
		customer = p.Customer
	}
	body := r.body
	if p.Body != "" {
		body = p.Body
	}
	tags := r.tags
	if len(p.Tags) > 0 {
		tags = joinTags(p.Tags)
	}
	items := r.items
	if len(p.Items) > 0 {
		if items, err = encodeItems(newItems(p.Items)); err != nil {
			return fmt.Errorf("notes: encode items: %w", err)
		}
	}
	deadlines := r.deadlines
	if len(p.Deadlines) > 0 {
		if deadlines, err = encodeStrings(p.Deadlines); err != nil {
			return fmt.Errorf("notes: encode deadlines: %w", err)
		}
	}

	if _, err := s.db.Exec(
		`UPDATE notes
		 SET customer = ?, timestamp = ?, tags = ?, notes = ?, items = ?, deadlines = ?
		 WHERE id = ?`,
		customer, ts, tags, body, items, deadlines, id,
	); err != nil {
		return fmt.Errorf("notes: edit %d: %w", id, err)
	}
	return nil
}

// Delete removes a note permanently.
func (s *Store) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("notes: delete %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("notes: note %d: %w", id, ErrNotFound)
	}
	return nil
}

// Archive soft-deletes a note: it drops out of default listings but stays
// in the store.
func (s *Store) Archive(id int64) error {
	res, err := s.db.Exec(`UPDATE notes SET archived = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("notes: archive %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("notes: note %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateItems replaces a note's whole item list in a single statement.
func (s *Store) UpdateItems(id int64, items []Item) error {
	enc, err := encodeItems(items)
	if err != nil {
		return fmt.Errorf("notes: encode items: %w", err)
	}
	if _, err := s.db.Exec(`UPDATE notes SET items = ? WHERE id = ?`, enc, id); err != nil {
		return fmt.Errorf("notes: update items %d: %w", id, err)
	}
	return nil
}

// ─── Queries ─────────────────────────────────────────────────────────────────

// List returns notes ordered by timestamp descending. Archived notes are
// excluded unless opts asks for them; a tag filter matches the stored tag
// string by substring.
func (s *Store) List(opts ListOptions) ([]Note, error) {
	query := `SELECT ` + noteCols + ` FROM notes`
	var conds []string
	var args []any

	if !opts.IncludeArchived {
		conds = append(conds, "archived = 0")
	}
	if opts.Tag != "" {
		conds = append(conds, "tags LIKE ?")
		args = append(args, "%"+opts.Tag+"%")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY timestamp DESC"

	return s.queryNotes(query, args...)
}

// NotesFor returns every note for one customer, newest first.
func (s *Store) NotesFor(customer string) ([]Note, error) {
	return s.queryNotes(
		`SELECT `+noteCols+` FROM notes WHERE customer = ? ORDER BY timestamp DESC`,
		customer,
	)
}

// Customers returns the distinct customer names in the store, sorted.
func (s *Store) Customers() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT customer FROM notes ORDER BY customer`)
	if err != nil {
		return nil, fmt.Errorf("notes: customers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var customers []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Search returns notes whose body, tag string or any item text contains
// query as a case-sensitive substring. Matching requires decoded items, so
// the filter runs in Go over a full scan; results carry each note at most
// once, however many of its fields matched.
func (s *Store) Search(query string) ([]Note, error) {
	all, err := s.queryNotes(`SELECT ` + noteCols + ` FROM notes ORDER BY timestamp DESC`)
	if err != nil {
		return nil, fmt.Errorf("notes: search: %w", err)
	}

	var results []Note
	for _, n := range all {
		if strings.Contains(n.Body, query) || strings.Contains(strings.Join(n.Tags, ","), query) {
			results = append(results, n)
			continue
		}
		for _, it := range n.Items {
			if strings.Contains(it.Text, query) {
				results = append(results, n)
				break
			}
		}
	}
	return results, nil
}

// ListItems flattens every note's normalized item list into entries,
// optionally restricted to one status. Any status other than open or
// closed means no filter. Notes with undecodable items are logged and
// skipped.
func (s *Store) ListItems(status string) ([]ItemEntry, error) {
	rows, err := s.db.Query(`SELECT id, customer, items FROM notes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("notes: list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []ItemEntry
	for rows.Next() {
		var (
			id       int64
			customer string
			raw      *string
		)
		if err := rows.Scan(&id, &customer, &raw); err != nil {
			return nil, err
		}
		items, err := decodeItems(id, raw)
		if err != nil {
			slog.Warn("skipping note with malformed items", "id", id, "err", err)
			continue
		}
		for _, it := range items {
			if status == StatusOpen || status == StatusClosed {
				if it.Status != status {
					continue
				}
			}
			entries = append(entries, ItemEntry{NoteID: id, Customer: customer, Text: it.Text, Status: it.Status})
		}
	}
	return entries, rows.Err()
}

// AllNotes returns every note in the store, archived included, in id
// order. This is the export surface.
func (s *Store) AllNotes() ([]Note, error) {
	return s.queryNotes(`SELECT ` + noteCols + ` FROM notes ORDER BY id`)
}

// ─── Migration ───────────────────────────────────────────────────────────────

// MigrateItems upgrades every legacy plain-string item list to the
// structured form. Structured lists and notes without items are left
// untouched, which makes a second run a no-op. Undecodable items are
// reported per note and skipped; they never abort the scan.
func (s *Store) MigrateItems() (*MigrationResult, error) {
	rows, err := s.db.Query(`SELECT id, items FROM notes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("notes: migrate items: %w", err)
	}

	type rawNote struct {
		id    int64
		items *string
	}
	var scanned []rawNote
	for rows.Next() {
		var r rawNote
		if err := rows.Scan(&r.id, &r.items); err != nil {
			_ = rows.Close()
			return nil, err
		}
		scanned = append(scanned, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	res := &MigrationResult{Scanned: len(scanned)}
	for _, r := range scanned {
		if r.items == nil || *r.items == "" {
			continue
		}
		if !json.Valid([]byte(*r.items)) {
			slog.Warn("cannot migrate note with malformed items", "id", r.id)
			res.Failed = append(res.Failed, r.id)
			continue
		}
		if !isLegacyItems(r.items) {
			continue
		}
		var texts []string
		// isLegacyItems already proved this decodes.
		_ = json.Unmarshal([]byte(*r.items), &texts)
		enc, err := encodeItems(newItems(texts))
		if err != nil {
			return nil, fmt.Errorf("notes: migrate note %d: %w", r.id, err)
		}
		if _, err := s.db.Exec(`UPDATE notes SET items = ? WHERE id = ?`, enc, r.id); err != nil {
			slog.Warn("migrating note failed", "id", r.id, "err", err)
			res.Failed = append(res.Failed, r.id)
			continue
		}
		res.Migrated++
	}
	return res, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func nowStamp() string {
	return now().UTC().Format(time.RFC3339)
}

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp and returns
// the canonical stored form.
func parseDate(s string) (string, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339), nil
		}
	}
	return "", fmt.Errorf("notes: invalid date %q (want YYYY-MM-DD)", s)
}

// joinTags persists a tag list as a comma-joined string, NULL when empty.
func joinTags(tags []string) *string {
	if len(tags) == 0 {
		return nil
	}
	s := strings.Join(tags, ",")
	return &s
}

// splitTags re-splits the stored tag string. NULL and empty both mean no
// tags.
func splitTags(raw *string) []string {
	if raw == nil || *raw == "" {
		return nil
	}
	return strings.Split(*raw, ",")
}

func encodeStrings(vals []string) (*string, error) {
	if len(vals) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(vals)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func decodeStrings(noteID int64, column string, raw *string) ([]string, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var vals []string
	if err := json.Unmarshal([]byte(*raw), &vals); err != nil {
		return nil, &DecodeError{NoteID: noteID, Column: column, Err: err}
	}
	return vals, nil
}
