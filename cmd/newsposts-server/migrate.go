package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/information-sharing-networks/newsposts/internal/database"
	"github.com/information-sharing-networks/newsposts/internal/logger"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Manage the database schema",
		Long: `Apply (up), roll back the latest (down) or list (status) the embedded migrations.
The server applies pending migrations at start-up unless RUN_MIGRATIONS=false.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}
			return migrate(cmd.Context(), action)
		},
		SilenceUsage: true,
	}
	return cmd
}

func migrate(ctx context.Context, action string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabasePingTimeout)
	pool, err := database.Connect(connectCtx, cfg)
	cancel()
	if err != nil {
		return err
	}
	defer pool.Close()

	provider, closeDB, err := database.NewMigrationProvider(pool)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	switch action {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		if len(results) == 0 {
			appLogger.Info("schema is up to date")
		}
		for _, res := range results {
			appLogger.Info("applied migration",
				slog.String("source", res.Source.Path),
				slog.Duration("duration", res.Duration))
		}
	case "down":
		res, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
		appLogger.Info("rolled back migration", slog.String("source", res.Source.Path))
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migrate status: %w", err)
		}
		for _, s := range statuses {
			appLogger.Info("migration",
				slog.Int64("version", s.Source.Version),
				slog.String("source", s.Source.Path),
				slog.String("state", string(s.State)),
				slog.Time("applied_at", s.AppliedAt))
		}
	default:
		return fmt.Errorf("unknown migrate action %q (want up, down or status)", action)
	}
	return nil
}
