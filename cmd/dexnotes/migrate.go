package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade legacy plain-string item lists to the structured format",
	Long: `Older notes stored action items as plain strings without a status.
Migrate rewrites those lists as structured open items. Notes that are
already structured are left untouched, so running it again changes
nothing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		res, err := s.MigrateItems()
		if err != nil {
			return err
		}
		for _, id := range res.Failed {
			fmt.Printf("❌ Could not migrate note %d\n", id)
		}
		fmt.Printf("✅ Migration complete. %d of %d note(s) upgraded.\n", res.Migrated, res.Scanned)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
