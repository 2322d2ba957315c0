package main

import (
	"fmt"
	"strings"

	"github.com/dexhq/dexnotes/internal/notes"
)

func statusIcon(status string) string {
	if status == notes.StatusClosed {
		return "✅"
	}
	return "🔄"
}

// printNote prints the full record, one field per line.
func printNote(n notes.Note) {
	fmt.Printf("🆔 ID: %d\n", n.ID)
	fmt.Printf("🕒 %s\n", n.Timestamp)
	if len(n.Tags) > 0 {
		fmt.Printf("🏷️  Tags: %s\n", strings.Join(n.Tags, ","))
	}
	fmt.Printf("📝 Notes: %s\n", n.Body)
	for _, it := range n.Items {
		fmt.Printf("   - [%s] %s\n", it.Status, it.Text)
	}
	if len(n.Deadlines) > 0 {
		fmt.Printf("📅 Deadlines: %s\n", strings.Join(n.Deadlines, ", "))
	}
	fmt.Println(strings.Repeat("-", 40))
}

// printNoteSummary prints the compact listing form: first line of the body
// capped at 60 characters, tags, and items with status icons.
func printNoteSummary(n notes.Note) {
	summary, _, _ := strings.Cut(n.Body, "\n")
	if len(summary) > 60 {
		summary = summary[:60] + "..."
	}
	fmt.Printf("🆔 %d | 🧑 %s | 🕒 %s\n", n.ID, n.Customer, n.Timestamp)
	fmt.Printf("   📝 %s\n", summary)
	if len(n.Tags) > 0 {
		fmt.Printf("   🏷️ Tags: %s\n", strings.Join(n.Tags, ","))
	}
	for _, it := range n.Items {
		fmt.Printf("   - %s %s\n", statusIcon(it.Status), it.Text)
	}
	fmt.Println(strings.Repeat("-", 60))
}
