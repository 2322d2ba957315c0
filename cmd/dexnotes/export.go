package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dexhq/dexnotes/internal/notes"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all notes to JSON or Markdown",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		today := time.Now()

		// Resolving the filename also validates the format, before
		// anything touches the filesystem.
		filename, err := notes.ExportFilename(exportFormat, today)
		if err != nil {
			return err
		}
		if exportOut != "" {
			filename = exportOut
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		all, err := s.AllNotes()
		if err != nil {
			return err
		}

		var data []byte
		switch exportFormat {
		case notes.FormatJSON:
			if data, err = notes.ExportJSON(all); err != nil {
				return err
			}
		case notes.FormatMarkdown:
			data = notes.ExportMarkdown(all, today.Format("2006-01-02"))
		}

		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Printf("✅ Notes exported to %s.\n", filename)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Export format (json or markdown)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output filename (default derived from today's date)")
	_ = exportCmd.MarkFlagRequired("format")
}
