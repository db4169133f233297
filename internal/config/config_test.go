package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"API_KEY", "DATABASE_URL", "PORT", "GIN_MODE",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
	"REDIS_URL", "CACHE_TTL",
	"EVENTS_DRIVER", "KAFKA_BROKERS", "KAFKA_TOPIC", "NATS_URL", "NATS_SUBJECT",
	"JAEGER_ENDPOINT", "SHUTDOWN_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/payments")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want release", cfg.GinMode)
	}
	if cfg.DBConnMaxLifetime != 30*time.Minute {
		t.Errorf("DBConnMaxLifetime = %s, want 30m", cfg.DBConnMaxLifetime)
	}
	if cfg.EventsDriver != EventsDriverNone {
		t.Errorf("EventsDriver = %q, want none", cfg.EventsDriver)
	}
	if cfg.KafkaTopic != "payment.created" {
		t.Errorf("KafkaTopic = %q", cfg.KafkaTopic)
	}
	if cfg.CacheEnabled() {
		t.Error("CacheEnabled() = true without REDIS_URL")
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %s, want 5s", cfg.ShutdownTimeout)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing api key",
			env:     map[string]string{"DATABASE_URL": "postgres://localhost/payments"},
			wantErr: "API_KEY",
		},
		{
			name:    "missing database url",
			env:     map[string]string{"API_KEY": "secret"},
			wantErr: "DATABASE_URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEventsDriver(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "kafka with brokers", env: map[string]string{"EVENTS_DRIVER": "kafka", "KAFKA_BROKERS": "k1:9092, k2:9092"}},
		{name: "kafka without brokers", env: map[string]string{"EVENTS_DRIVER": "kafka"}, wantErr: true},
		{name: "nats with url", env: map[string]string{"EVENTS_DRIVER": "NATS", "NATS_URL": "nats://localhost:4222"}},
		{name: "nats without url", env: map[string]string{"EVENTS_DRIVER": "nats"}, wantErr: true},
		{name: "unknown driver", env: map[string]string{"EVENTS_DRIVER": "rabbit"}, wantErr: true},
		{name: "bad gin mode", env: map[string]string{"GIN_MODE": "verbose"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("API_KEY", "secret")
			t.Setenv("DATABASE_URL", "postgres://localhost/payments")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load("")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if tt.name == "kafka with brokers" {
				want := []string{"k1:9092", "k2:9092"}
				if !reflect.DeepEqual(cfg.KafkaBrokers, want) {
					t.Errorf("KafkaBrokers = %v, want %v", cfg.KafkaBrokers, want)
				}
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api_key: from-file\ndatabase_url: postgres://file/payments\nport: \"7070\"\nredis_url: localhost:6379\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIKey != "from-file" {
		t.Errorf("APIKey = %q, want from-file", cfg.APIKey)
	}
	// environment wins over the file
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if !cfg.CacheEnabled() {
		t.Error("CacheEnabled() = false with redis_url in file")
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}
