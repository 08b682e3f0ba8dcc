package main

import (
	"fmt"
	"os"

	"storeadmin/internal/config"
	applog "storeadmin/internal/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	envFile string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storeadmin",
	Short: "Multi-store e-commerce admin dashboard and API",
	Long: `storeadmin serves the admin dashboard and the REST API behind it.

Each signed-in user owns one or more stores; billboards, categories, colors,
sizes and products all belong to a store and can only be changed by its owner.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return err
		}
		logger, err = applog.New(cfg.LogMode, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		applog.SetLogger(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")
	rootCmd.AddCommand(serveCmd, tokenCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
