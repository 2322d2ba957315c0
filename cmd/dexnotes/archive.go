package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var archiveID int64

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive a note by ID",
	Long: `Archive hides a note from default listings without removing it from the
store. Archived notes still appear in "list --all" and in exports.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Archive(archiveID); err != nil {
			return err
		}
		fmt.Printf("📦 Note %d archived.\n", archiveID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.Flags().Int64Var(&archiveID, "id", 0, "Note ID")
	_ = archiveCmd.MarkFlagRequired("id")
}
