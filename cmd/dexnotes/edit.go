package main

import (
	"fmt"

	"github.com/dexhq/dexnotes/internal/notes"
	"github.com/spf13/cobra"
)

var (
	editID        int64
	editCustomer  string
	editBody      string
	editTags      []string
	editItems     []string
	editDeadlines []string
	editDate      string
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a note by ID",
	Long: `Edit replaces only the fields given as flags; everything else keeps its
stored value. Item texts given with --items replace the whole item list as
fresh open items. The note's timestamp is refreshed either way.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Edit(editID, notes.EditParams{
			Customer:  editCustomer,
			Body:      editBody,
			Tags:      editTags,
			Items:     editItems,
			Deadlines: editDeadlines,
			Date:      editDate,
		}); err != nil {
			return err
		}
		fmt.Printf("✏️ Note %d updated.\n", editID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().Int64Var(&editID, "id", 0, "Note ID")
	editCmd.Flags().StringVar(&editCustomer, "customer", "", "New customer name")
	editCmd.Flags().StringVar(&editBody, "notes", "", "New note text")
	editCmd.Flags().StringSliceVar(&editTags, "tags", nil, "New tags")
	editCmd.Flags().StringArrayVar(&editItems, "items", nil, "New action item texts (repeatable)")
	editCmd.Flags().StringArrayVar(&editDeadlines, "deadlines", nil, "New deadline descriptions (repeatable)")
	editCmd.Flags().StringVar(&editDate, "date", "", "New date (YYYY-MM-DD)")
	_ = editCmd.MarkFlagRequired("id")
}
