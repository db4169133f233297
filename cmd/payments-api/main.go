package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/akylbek/payment-system/credit-payments/internal/config"
	"github.com/akylbek/payment-system/credit-payments/internal/telemetry"
)

const serviceName = "credit-payments"

var Version = "dev"

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "payments-api",
		Short:         "Credit payments service",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml, json, env)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads .env outside release mode, then the environment.
func loadConfig() (*config.Config, error) {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: could not read .env: %v", err)
		}
	}
	return config.Load(configFile)
}

func initTelemetry(cfg *config.Config) error {
	return telemetry.InitTelemetry(serviceName, telemetry.Options{
		OTLPEndpoint: cfg.JaegerEndpoint,
		Development:  cfg.GinMode != "release",
	})
}
