package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillreg/skillreg/db"
	"github.com/skillreg/skillreg/internal/config"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Apply database migrations",
	Long: `Creates or upgrades the registry schema, including the pgvector
extension. Safe to run repeatedly; already-applied migrations are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		if err := db.Migrate(cfg.PostgresURL()); err != nil {
			return err
		}
		fmt.Println("Database schema is up to date.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}
