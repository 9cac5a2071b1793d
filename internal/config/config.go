package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Haulage"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"haulage"`
		SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
		MaxUploadBytes int64         `envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
	}

	Import struct {
		BatchSize        int           `envconfig:"IMPORT_BATCH_SIZE" default:"100"`
		ProgressTTL      time.Duration `envconfig:"IMPORT_PROGRESS_TTL" default:"1h"`
		ProgressInterval int           `envconfig:"IMPORT_PROGRESS_INTERVAL" default:"10"`
		ErrorLimit       int           `envconfig:"IMPORT_ERROR_LIMIT" default:"50"`
		HeaderSkipRows   int           `envconfig:"IMPORT_HEADER_SKIP_ROWS" default:"7"`
	}

	Kafka struct {
		Brokers []string `envconfig:"KAFKA_BROKERS"`
		Topic   string   `envconfig:"KAFKA_IMPORT_TOPIC" default:"ledger-imports"`
		GroupID string   `envconfig:"KAFKA_GROUP_ID" default:"haulage-worker"`
	}

	Janitor struct {
		Schedule  string        `envconfig:"JANITOR_SCHEDULE" default:"@every 15m"`
		Timezone  string        `envconfig:"JANITOR_TZ" default:"UTC"`
		UploadTTL time.Duration `envconfig:"JANITOR_UPLOAD_TTL" default:"24h"`
	}

	Watch struct {
		Dir      string        `envconfig:"WATCH_DIR"`
		Debounce time.Duration `envconfig:"WATCH_DEBOUNCE" default:"500ms"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

// UsesKafka reports whether import jobs are handed to an external worker.
func (c *Config) UsesKafka() bool {
	return len(c.Kafka.Brokers) > 0
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Import.BatchSize <= 0 {
		return nil, fmt.Errorf("invalid IMPORT_BATCH_SIZE %d", cfg.Import.BatchSize)
	}

	return &cfg, nil
}
