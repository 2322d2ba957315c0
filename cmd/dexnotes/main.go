// Dexnotes: customer interaction notes from the command line.
//
// Notes live in a single local SQLite database. Each note belongs to a
// customer and can carry tags, action items with an open/closed lifecycle,
// and free-text deadlines. "dexnotes standup" reconciles all open items
// interactively and writes a dated Markdown session report.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
