package main

import (
	"fmt"

	"github.com/dexhq/dexnotes/internal/notes"
	"github.com/spf13/cobra"
)

var (
	addCustomer  string
	addBody      string
	addTags      []string
	addItems     []string
	addDeadlines []string
	addDate      string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new note",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.Add(notes.AddParams{
			Customer:  addCustomer,
			Body:      addBody,
			Tags:      addTags,
			Items:     addItems,
			Deadlines: addDeadlines,
			Date:      addDate,
		}); err != nil {
			return err
		}
		fmt.Printf("✅ Note added for %s.\n", addCustomer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addCustomer, "customer", "", "Customer name")
	addCmd.Flags().StringVar(&addBody, "notes", "", "Note text")
	addCmd.Flags().StringSliceVar(&addTags, "tags", nil, "Tags for the note")
	addCmd.Flags().StringArrayVar(&addItems, "items", nil, "Action item texts (repeatable)")
	addCmd.Flags().StringArrayVar(&addDeadlines, "deadlines", nil, "Deadline descriptions (repeatable)")
	addCmd.Flags().StringVar(&addDate, "date", "", "Custom date (YYYY-MM-DD)")
	_ = addCmd.MarkFlagRequired("customer")
	_ = addCmd.MarkFlagRequired("notes")
}
