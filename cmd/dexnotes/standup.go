package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dexhq/dexnotes/internal/notes"
	"github.com/spf13/cobra"
)

var standupCmd = &cobra.Command{
	Use:   "standup",
	Short: "Reconcile open action items interactively",
	Long: `Standup walks every note that has at least one open action item and asks
what to do with each one: skip it, update its text, close it, or add a new
item to the note. The session's actions are written to a Markdown report
named after today's date.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n🟢 Starting standup session...\n")

		src := notes.NewConsoleSource(cmd.InOrStdin(), out)
		report, err := s.Standup(src, out)
		if err != nil {
			return err
		}

		today := time.Now()
		filename := notes.ReportFilename(today)
		md := report.Markdown(today.Format("2006-01-02"))
		if err := os.WriteFile(filename, []byte(md), 0644); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}

		fmt.Fprintf(out, "\n📄 Standup complete. Markdown report saved as: %s\n", filename)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(standupCmd)
}
