package notes

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Export formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ExportJSON renders a note set as indented JSON. Parsing the output back
// recovers the same notes, field for field.
func ExportJSON(notes []Note) ([]byte, error) {
	if notes == nil {
		notes = []Note{}
	}
	return json.MarshalIndent(notes, "", "  ")
}

// ExportMarkdown renders a note set as a Markdown digest headed with the
// export date.
func ExportMarkdown(notes []Note, date string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# Notes Export - %s\n\n", date)
	for _, n := range notes {
		fmt.Fprintf(&b, "## Note ID: %d - %s\n", n.ID, n.Customer)
		fmt.Fprintf(&b, "**Timestamp:** %s\n", n.Timestamp)
		if len(n.Tags) > 0 {
			fmt.Fprintf(&b, "**Tags:** %s\n", strings.Join(n.Tags, ","))
		}
		b.WriteString("\n")
		b.WriteString(n.Body)
		b.WriteString("\n\n---\n\n")
	}
	return []byte(b.String())
}

// ExportFilename returns the default dated artifact name for a format, or
// an error for a format the exporter does not support. Callers check this
// before writing anything.
func ExportFilename(format string, t time.Time) (string, error) {
	date := t.Format("2006-01-02")
	switch format {
	case FormatJSON:
		return "notes_" + date + ".json", nil
	case FormatMarkdown:
		return "notes_" + date + ".md", nil
	default:
		return "", fmt.Errorf("notes: unsupported export format %q", format)
	}
}
