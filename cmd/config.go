package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	HTTPPort   string
	LogLevel   slog.Level
	AdminToken string

	StoreDriver string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSslMode   string

	SeedDemoData      bool
	TrackingTick      time.Duration
	DispatchRetrySpec string

	RedisAddr             string
	KafkaBrokers          []string
	KafkaOrderEventsTopic string
	RabbitMQURL           string

	RateLimitRPS   float64
	RateLimitBurst int
}

// LoadConfig reads an optional .env file and then the environment. Empty REDIS_ADDR,
// KAFKA_BROKERS and RABBITMQ_URL switch the matching adapter off.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var problems []error
	parse := func(key string, fn func(string) error) {
		if err := fn(getenv(key, "")); err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", key, err))
		}
	}

	cfg := Config{
		HTTPPort:              getenv("HTTP_PORT", "8080"),
		AdminToken:            getenv("ADMIN_TOKEN", ""),
		StoreDriver:           strings.ToLower(getenv("STORE_DRIVER", StoreMemory)),
		DBHost:                getenv("DB_HOST", "localhost"),
		DBPort:                getenv("DB_PORT", "5432"),
		DBUser:                getenv("DB_USER", "postgres"),
		DBPassword:            getenv("DB_PASSWORD", "postgres"),
		DBName:                getenv("DB_NAME", "fooddelivery"),
		DBSslMode:             getenv("DB_SSLMODE", "disable"),
		DispatchRetrySpec:     getenv("DISPATCH_RETRY_SPEC", ""),
		RedisAddr:             getenv("REDIS_ADDR", ""),
		KafkaBrokers:          splitCSV(getenv("KAFKA_BROKERS", "")),
		KafkaOrderEventsTopic: getenv("KAFKA_ORDER_EVENTS_TOPIC", "order-events"),
		RabbitMQURL:           getenv("RABBITMQ_URL", ""),
	}

	parse("LOG_LEVEL", func(s string) error {
		return cfg.LogLevel.UnmarshalText([]byte(orDefault(s, "INFO")))
	})
	parse("SEED_DEMO_DATA", func(s string) (err error) {
		cfg.SeedDemoData, err = strconv.ParseBool(orDefault(s, "true"))
		return err
	})
	parse("TRACKING_TICK", func(s string) (err error) {
		cfg.TrackingTick, err = time.ParseDuration(orDefault(s, "2s"))
		return err
	})
	parse("RATE_LIMIT_RPS", func(s string) (err error) {
		cfg.RateLimitRPS, err = strconv.ParseFloat(orDefault(s, "20"), 64)
		return err
	})
	parse("RATE_LIMIT_BURST", func(s string) (err error) {
		cfg.RateLimitBurst, err = strconv.Atoi(orDefault(s, "40"))
		return err
	})

	if cfg.StoreDriver != StoreMemory && cfg.StoreDriver != StorePostgres {
		problems = append(problems, fmt.Errorf("STORE_DRIVER: %q is neither %s nor %s", cfg.StoreDriver, StoreMemory, StorePostgres))
	}
	if err := errors.Join(problems...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// PostgresDSN renders the key/value connection string of the DB_* settings.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
