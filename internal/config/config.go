package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EventsDriverNone  = "none"
	EventsDriverKafka = "kafka"
	EventsDriverNATS  = "nats"
)

type Config struct {
	APIKey      string
	DatabaseURL string
	Port        string
	GinMode     string

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	RedisURL string
	CacheTTL time.Duration

	EventsDriver string
	KafkaBrokers []string
	KafkaTopic   string
	NatsURL      string
	NatsSubject  string

	JaegerEndpoint  string
	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment, optionally layered over a
// config file. API_KEY and DATABASE_URL are mandatory.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		APIKey:            v.GetString("API_KEY"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		Port:              v.GetString("PORT"),
		GinMode:           v.GetString("GIN_MODE"),
		DBMaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		RedisURL:          v.GetString("REDIS_URL"),
		CacheTTL:          v.GetDuration("CACHE_TTL"),
		EventsDriver:      strings.ToLower(strings.TrimSpace(v.GetString("EVENTS_DRIVER"))),
		KafkaBrokers:      splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
		NatsURL:           v.GetString("NATS_URL"),
		NatsSubject:       v.GetString("NATS_SUBJECT"),
		JaegerEndpoint:    v.GetString("JAEGER_ENDPOINT"),
		ShutdownTimeout:   v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("EVENTS_DRIVER", EventsDriverNone)
	v.SetDefault("KAFKA_TOPIC", "payment.created")
	v.SetDefault("NATS_SUBJECT", "payments.created")
	v.SetDefault("SHUTDOWN_TIMEOUT", 5*time.Second)
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("missing required environment variable: API_KEY")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("missing required environment variable: DATABASE_URL")
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}

	switch c.EventsDriver {
	case "", EventsDriverNone:
		c.EventsDriver = EventsDriverNone
	case EventsDriverKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("EVENTS_DRIVER=kafka requires KAFKA_BROKERS")
		}
	case EventsDriverNATS:
		if c.NatsURL == "" {
			return fmt.Errorf("EVENTS_DRIVER=nats requires NATS_URL")
		}
	default:
		return fmt.Errorf("unknown EVENTS_DRIVER %q", c.EventsDriver)
	}

	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.DBMaxOpenConns)
	}
	if c.DBConnMaxLifetime <= 0 {
		return fmt.Errorf("DB_CONN_MAX_LIFETIME must be positive, got %s", c.DBConnMaxLifetime)
	}
	return nil
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
