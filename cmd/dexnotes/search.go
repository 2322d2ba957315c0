package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchQuery string

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search notes by keyword",
	Long: `Search matches the query as a substring of a note's body, its tag
string, or any action item's text. Each matching note is listed once.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		matches, err := s.Search(searchQuery)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Println("📭 No matching notes found.")
			return nil
		}

		fmt.Printf("\n🗂️ Matching Notes:\n\n")
		for _, n := range matches {
			printNoteSummary(n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchQuery, "query", "", "Search keyword")
	_ = searchCmd.MarkFlagRequired("query")
}
