package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/dexhq/dexnotes/internal/notes"
	"github.com/spf13/cobra"
)

var deleteID int64

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a note by ID",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		exists, err := s.Has(deleteID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("notes: note %d: %w", deleteID, notes.ErrNotFound)
		}

		fmt.Printf("⚠️ Are you sure you want to delete note ID %d? (y/n): ", deleteID)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := s.Delete(deleteID); err != nil {
			return err
		}
		fmt.Printf("🗑️ Note %d deleted.\n", deleteID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().Int64Var(&deleteID, "id", 0, "Note ID")
	_ = deleteCmd.MarkFlagRequired("id")
}
