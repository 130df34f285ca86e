package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"algowatch/internal/platform/logger"
	"algowatch/internal/platform/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Database.URL == "" {
			return errors.New("DATABASE_URL is not set")
		}
		log := logger.New(cfg.Log.Level, cfg.Log.Format)
		db, err := postgres.Open(cmd.Context(), cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := postgres.Migrate(cmd.Context(), db)
		for _, name := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
