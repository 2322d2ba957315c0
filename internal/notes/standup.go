package notes

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// ActionKind identifies what the operator chose for an open item.
type ActionKind int

const (
	// ActionSkip leaves the item untouched.
	ActionSkip ActionKind = iota
	// ActionClose sets the item's status to closed.
	ActionClose
	// ActionUpdate replaces the item's text; the status stays open.
	ActionUpdate
	// ActionAdd appends a new open item to the note's list.
	ActionAdd
	// ActionInvalid is unrecognized input. It behaves like a skip but is
	// logged distinctly in the session report.
	ActionInvalid
)

// Action is one operator decision. Text carries the replacement text for
// ActionUpdate and the new item text for ActionAdd.
type Action struct {
	Kind ActionKind
	Text string
}

// ActionSource supplies the decision for each open item presented during a
// standup session. The console implementation blocks on operator input;
// tests replay a scripted sequence.
type ActionSource interface {
	Next(customer string, item Item) (Action, error)
}

// ─── Session report ──────────────────────────────────────────────────────────

// Report is the per-customer action log of one standup session. Customers
// appear in the order they were first encountered, actions in the order
// they occurred.
type Report struct {
	order   []string
	actions map[string][]string
}

func newReport() *Report {
	return &Report{actions: make(map[string][]string)}
}

func (r *Report) add(customer, line string) {
	if _, ok := r.actions[customer]; !ok {
		r.order = append(r.order, customer)
	}
	r.actions[customer] = append(r.actions[customer], line)
}

// Empty reports whether the session logged any action at all.
func (r *Report) Empty() bool { return len(r.order) == 0 }

// Customers returns the customers in first-encounter order.
func (r *Report) Customers() []string { return r.order }

// Actions returns the logged action lines for one customer, in order.
func (r *Report) Actions(customer string) []string { return r.actions[customer] }

// Markdown renders the session report.
func (r *Report) Markdown(date string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Dexnotes Standup Report - %s\n\n", date)
	for _, customer := range r.order {
		fmt.Fprintf(&b, "## %s\n", customer)
		for _, line := range r.actions[customer] {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ReportFilename returns the dated artifact name for a session run on the
// given day. Two sessions on the same calendar day target the same file;
// the last write wins.
func ReportFilename(t time.Time) string {
	return "standup_report_" + t.Format("2006-01-02") + ".md"
}

// ─── Engine ──────────────────────────────────────────────────────────────────

// Standup walks every note with at least one open item, in id order,
// asking src for a decision on each open item and persisting the mutated
// item lists. Progress messages go to out.
//
// The visited set for a note is fixed when its item loop starts: an item
// appended mid-session via ActionAdd is persisted with the note but not
// presented in the same pass. Notes with undecodable items are excluded
// from the session; a failure persisting one note's update does not block
// the others.
func (s *Store) Standup(src ActionSource, out io.Writer) (*Report, error) {
	rows, err := s.db.Query(`SELECT id, customer, items FROM notes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("notes: standup: %w", err)
	}

	type standupNote struct {
		id       int64
		customer string
		raw      *string
	}
	var all []standupNote
	for rows.Next() {
		var n standupNote
		if err := rows.Scan(&n.id, &n.customer, &n.raw); err != nil {
			_ = rows.Close()
			return nil, err
		}
		all = append(all, n)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	report := newReport()
	type pendingUpdate struct {
		id    int64
		items []Item
	}
	var updates []pendingUpdate

	for _, n := range all {
		if n.raw == nil || *n.raw == "" {
			continue
		}
		items, err := decodeItems(n.id, n.raw)
		if err != nil {
			slog.Warn("standup: skipping note with malformed items", "id", n.id, "err", err)
			fmt.Fprintf(out, "⚠️ Skipping note %d (invalid item format)\n", n.id)
			continue
		}
		hasOpen := false
		for _, it := range items {
			if it.IsOpen() {
				hasOpen = true
				break
			}
		}
		if !hasOpen {
			continue
		}

		fmt.Fprintf(out, "\n📋 Customer: %s (Note ID: %d)\n", n.customer, n.id)

		// Items added during the loop land past this bound and are not
		// visited in this pass.
		bound := len(items)
		for i := 0; i < bound; i++ {
			if !items[i].IsOpen() {
				continue
			}
			act, err := src.Next(n.customer, items[i])
			if err != nil {
				return nil, fmt.Errorf("notes: standup input: %w", err)
			}
			switch act.Kind {
			case ActionClose:
				items[i].Status = StatusClosed
				report.add(n.customer, "✅ Closed: "+items[i].Text)
			case ActionUpdate:
				old := items[i].Text
				items[i].Text = act.Text
				report.add(n.customer, fmt.Sprintf("🔄 Updated: %s → %s", old, act.Text))
			case ActionAdd:
				items = append(items, Item{Text: act.Text, Status: StatusOpen})
				report.add(n.customer, "➕ Added item: "+act.Text)
			case ActionInvalid:
				report.add(n.customer, "⏭️ Skipped (invalid input): "+items[i].Text)
			default:
				report.add(n.customer, "⏭️ Skipped: "+items[i].Text)
			}
		}
		updates = append(updates, pendingUpdate{id: n.id, items: items})
	}

	// Each write is its own statement; one failure must not block the rest.
	for _, u := range updates {
		if err := s.UpdateItems(u.id, u.items); err != nil {
			slog.Warn("standup: persisting items failed", "id", u.id, "err", err)
			fmt.Fprintf(out, "⚠️ Could not save note %d: %v\n", u.id, err)
		}
	}

	return report, nil
}

// ─── Console input ───────────────────────────────────────────────────────────

// ConsoleSource prompts the operator for each decision over an arbitrary
// reader/writer pair, normally stdin and stdout.
type ConsoleSource struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleSource wraps in and out as an interactive action source.
func NewConsoleSource(in io.Reader, out io.Writer) *ConsoleSource {
	return &ConsoleSource{in: bufio.NewReader(in), out: out}
}

// Next presents one open item and reads the operator's choice, including
// any follow-up text for update and add.
func (c *ConsoleSource) Next(customer string, item Item) (Action, error) {
	fmt.Fprintf(c.out, "\n🔹 Item: %s\n", item.Text)
	fmt.Fprint(c.out, "   [s]kip, [u]pdate, [c]lose, [a]dd item? ")
	choice, err := c.readLine()
	if err != nil {
		return Action{}, err
	}

	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "c":
		return Action{Kind: ActionClose}, nil
	case "u":
		fmt.Fprint(c.out, "   ✏️  New text: ")
		text, err := c.readLine()
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionUpdate, Text: strings.TrimSpace(text)}, nil
	case "a":
		fmt.Fprint(c.out, "   ➕ New item text: ")
		text, err := c.readLine()
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActionAdd, Text: strings.TrimSpace(text)}, nil
	case "s":
		return Action{Kind: ActionSkip}, nil
	default:
		fmt.Fprintln(c.out, "   ❓ Invalid choice, skipping.")
		return Action{Kind: ActionInvalid}, nil
	}
}

// readLine tolerates a final line without a trailing newline; EOF turns
// into an empty read, which Next treats as invalid input.
func (c *ConsoleSource) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err == io.EOF {
		return line, nil
	}
	return line, err
}
