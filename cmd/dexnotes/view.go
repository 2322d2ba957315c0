package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var viewCustomer string

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "View notes for one customer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		found, err := s.NotesFor(viewCustomer)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Printf("No notes found for %s.\n", viewCustomer)
			return nil
		}

		fmt.Printf("\n📒 Notes for %s:\n\n", viewCustomer)
		for _, n := range found {
			printNote(n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
	viewCmd.Flags().StringVar(&viewCustomer, "customer", "", "Customer name")
	_ = viewCmd.MarkFlagRequired("customer")
}
