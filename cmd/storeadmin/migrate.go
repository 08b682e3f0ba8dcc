package main

import (
	"fmt"

	"storeadmin/internal/repos"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		logger.Info("schema.ready", zap.String("driver", cfg.DBDriver))
		if !migrateSeed {
			return nil
		}
		n, err := repos.SeedUsers(cmd.Context(), db)
		if err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		logger.Info("users.seeded", zap.Int("count", n))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "also insert the development users")
}
