package main

import (
	"log/slog"
	"os"

	"github.com/dexhq/dexnotes/internal/notes"
	"github.com/spf13/cobra"
)

var (
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "dexnotes",
	Short: "Customer notes, action items and deadlines from the command line",
	Long: `Dexnotes records customer interaction notes in a local SQLite database.
Notes can carry tags, action items with an open/closed status, and deadlines.

Run "dexnotes standup" to walk every open action item interactively; the
session writes a dated Markdown report grouped by customer.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
	},
	SilenceUsage: true,
}

// openStore opens the notes database selected by --db, falling back to the
// default location under the user's home directory.
func openStore() (*notes.Store, error) {
	cfg := notes.DefaultConfig()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return notes.Open(cfg)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the notes database (default ~/.dexnotes/notes.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}
