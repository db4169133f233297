package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/credit-payments/internal/database"
	"github.com/akylbek/payment-system/credit-payments/internal/repository"
	"github.com/akylbek/payment-system/credit-payments/internal/telemetry"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the payments schema and exit",
	Long: `Create the payments table, its idempotency constraint and the listing
index if they do not exist. Safe to run repeatedly.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := initTelemetry(cfg); err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer telemetry.Shutdown(context.Background())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.Open(ctx, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.NewPaymentRepository(db).InitDB(ctx); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	telemetry.Logger.Info("Schema applied", zap.String("table", "payments"))
	return nil
}
