package notes

import (
	"encoding/json"
	"fmt"
)

// Item statuses. Anything else is tolerated on read and treated as not-open.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Item is a single actionable line inside a note. Items have no identity of
// their own; they live and die with the item list of their owning note.
type Item struct {
	Text   string `json:"text"`
	Status string `json:"status"`
}

// IsOpen reports whether the item is still actionable.
func (i Item) IsOpen() bool { return i.Status == StatusOpen }

// DecodeError marks a note whose items or deadlines column holds
// undecodable JSON. Batch operations report it and move on to the next
// record; it never aborts a scan.
type DecodeError struct {
	NoteID int64
	Column string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("note %d: undecodable %s: %v", e.NoteID, e.Column, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// newItems builds fresh open items from raw texts, preserving order.
func newItems(texts []string) []Item {
	if len(texts) == 0 {
		return nil
	}
	items := make([]Item, 0, len(texts))
	for _, t := range texts {
		items = append(items, Item{Text: t, Status: StatusOpen})
	}
	return items
}

// decodeItems normalizes the persisted items column into structured items:
//
//   - NULL or empty column → no items
//   - a bare string element (legacy shape) → an open item with that text
//   - an object element → passed through, with a missing status defaulting
//     to open and a missing text to ""
//
// Elements are resolved independently, so a list mixing legacy strings and
// structured objects still decodes. Undecodable JSON yields a *DecodeError
// naming the note.
func decodeItems(noteID int64, raw *string) ([]Item, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(*raw), &elems); err != nil {
		return nil, &DecodeError{NoteID: noteID, Column: "items", Err: err}
	}
	items := make([]Item, 0, len(elems))
	for _, e := range elems {
		var text string
		if err := json.Unmarshal(e, &text); err == nil {
			items = append(items, Item{Text: text, Status: StatusOpen})
			continue
		}
		var it Item
		if err := json.Unmarshal(e, &it); err != nil {
			return nil, &DecodeError{NoteID: noteID, Column: "items", Err: err}
		}
		if it.Status == "" {
			it.Status = StatusOpen
		}
		items = append(items, it)
	}
	return items, nil
}

// encodeItems serializes items back to the column representation.
// An empty list persists as NULL, matching what add and edit write.
func encodeItems(items []Item) (*string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// isLegacyItems reports whether a raw column value is in the pre-upgrade
// shape: a non-empty JSON list where every element is a plain string.
// Structured lists never match, which is what makes the migration
// idempotent.
func isLegacyItems(raw *string) bool {
	if raw == nil || *raw == "" {
		return false
	}
	var texts []string
	if err := json.Unmarshal([]byte(*raw), &texts); err != nil {
		return false
	}
	return len(texts) > 0
}
