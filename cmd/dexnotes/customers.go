package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "List all customers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		customers, err := s.Customers()
		if err != nil {
			return err
		}

		fmt.Printf("\n👥 Customers:\n\n")
		for _, c := range customers {
			fmt.Printf("- %s\n", c)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(customersCmd)
}
