package main

import (
	"fmt"

	"github.com/dexhq/dexnotes/internal/notes"
	"github.com/spf13/cobra"
)

var itemsStatus string

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "List action items across all notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch itemsStatus {
		case notes.StatusOpen, notes.StatusClosed, "all":
		default:
			return fmt.Errorf("invalid --status %q (want open, closed or all)", itemsStatus)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		entries, err := s.ListItems(itemsStatus)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("📭 No items found.")
			return nil
		}

		fmt.Printf("\n🗂️ All Items:\n\n")
		for _, e := range entries {
			fmt.Printf("🆔 Note ID: %d | 🧑 Customer: %s | 📋 Item: %s | Status: %s\n",
				e.NoteID, e.Customer, e.Text, e.Status)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(itemsCmd)
	itemsCmd.Flags().StringVar(&itemsStatus, "status", "all", "Filter by item status (open, closed, all)")
}
