package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/credit-payments/internal/api"
	"github.com/akylbek/payment-system/credit-payments/internal/cache"
	"github.com/akylbek/payment-system/credit-payments/internal/database"
	"github.com/akylbek/payment-system/credit-payments/internal/events"
	"github.com/akylbek/payment-system/credit-payments/internal/repository"
	"github.com/akylbek/payment-system/credit-payments/internal/service"
	"github.com/akylbek/payment-system/credit-payments/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the credit payments HTTP API.

The schema is applied on start-up. The process stops gracefully on SIGINT or
SIGTERM.

Examples:
  payments-api serve
  payments-api serve --config ./payments.yaml`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := initTelemetry(cfg); err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting credit payments API", zap.String("version", Version))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Connect to PostgreSQL
	db, err := database.Open(ctx, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewPaymentRepository(db)
	if err := repo.InitDB(ctx); err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}

	opts := []service.Option{}

	// Connect to Redis
	if cfg.CacheEnabled() {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			telemetry.Logger.Warn("Redis unreachable, listings will hit the database until it recovers",
				zap.String("addr", cfg.RedisURL),
				zap.Error(err),
			)
		}
		opts = append(opts, service.WithCache(cache.NewPaymentCache(redisClient, cfg.CacheTTL)))
	}

	// Event publishing
	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		return fmt.Errorf("create event publisher: %w", err)
	}
	defer publisher.Close()
	opts = append(opts, service.WithPublisher(publisher))

	paymentService := service.NewPaymentService(repo, opts...)

	gin.SetMode(cfg.GinMode)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(paymentService, cfg.APIKey),
	}

	serverErr := make(chan error, 1)
	go func() {
		telemetry.Logger.Info("Credit payments API listening",
			zap.String("port", cfg.Port),
			zap.String("events_driver", cfg.EventsDriver),
			zap.Bool("cache", cfg.CacheEnabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-quit:
	}

	telemetry.Logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	telemetry.Logger.Info("Server exited")
	return nil
}
