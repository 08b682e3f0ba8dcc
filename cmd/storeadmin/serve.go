package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphttp "storeadmin/internal/http"
	"storeadmin/internal/repos"
	"storeadmin/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.SeedUsers {
		n, err := repos.SeedUsers(cmd.Context(), db)
		if err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		logger.Info("users.seeded", zap.Int("count", n))
	}

	auth := services.NewAuthService(repos.NewUserRepo(db), cfg.AuthSecret, cfg.AuthIssuer, cfg.TokenTTL)
	app := apphttp.NewApp(cfg, db, auth, apphttp.DefaultLimits)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("server.shutdown")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	logger.Info("server.start", zap.Any("config", cfg.Redacted()))
	return app.Listen(":" + cfg.Port)
}
