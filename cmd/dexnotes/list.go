package main

import (
	"fmt"

	"github.com/dexhq/dexnotes/internal/notes"
	"github.com/spf13/cobra"
)

var (
	listTag string
	listAll bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		found, err := s.List(notes.ListOptions{Tag: listTag, IncludeArchived: listAll})
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Println("📭 No notes found.")
			return nil
		}

		fmt.Printf("\n🗂️ All Notes:\n\n")
		for _, n := range found {
			printNoteSummary(n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only notes whose tags contain this value")
	listCmd.Flags().BoolVar(&listAll, "all", false, "Include archived notes")
}
