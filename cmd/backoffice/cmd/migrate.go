package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regiepress/backoffice/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := store.Open(cfg.DatabaseDSN); err != nil {
			return err
		}
		fmt.Println("Schema up to date.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
