// Package config loads runtime settings from the environment and the digest
// taxonomy and feed list from YAML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"

	"github.com/deusflow/dailydigest/internal/logger"
	"github.com/deusflow/dailydigest/internal/mailer"
	"github.com/deusflow/dailydigest/internal/news"
	"github.com/deusflow/dailydigest/internal/rss"
	"github.com/deusflow/dailydigest/internal/storage"
)

// DefaultRecipient receives the digest unless DIGEST_RECIPIENT is set.
const DefaultRecipient = "reader@example.com"

type Config struct {
	// Mail settings
	SendGridAPIKey string
	Recipient      string
	From           string

	// Feed settings
	DigestConfigPath  string // YAML with sources and taxonomy; empty means the built-in one
	Sources           []rss.Source
	Taxonomy          news.Taxonomy
	MaxItemsPerSource int
	RequestTimeout    time.Duration
	TopN              int

	// History settings
	HistoryFile       string
	HistoryMaxEntries int
	DatabaseURL       string

	// App settings
	LogLevel        slog.Level
	DryRun          bool
	FailOnSendError bool
}

// Load reads .env (if present), the environment and the digest YAML.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{
		// Default values
		Recipient:         DefaultRecipient,
		From:              mailer.DefaultFrom,
		MaxItemsPerSource: rss.DefaultMaxItems,
		RequestTimeout:    rss.DefaultTimeout,
		TopN:              news.DefaultTopN,
		HistoryFile:       "sent_articles.json",
		HistoryMaxEntries: storage.DefaultMaxEntries,
		LogLevel:          slog.LevelInfo,
	}

	cfg.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	cfg.Recipient = getEnvOrDefault("DIGEST_RECIPIENT", cfg.Recipient)
	cfg.From = getEnvOrDefault("DIGEST_FROM", cfg.From)
	cfg.DigestConfigPath = os.Getenv("DIGEST_CONFIG")

	cfg.HistoryFile = getEnvOrDefault("HISTORY_FILE", cfg.HistoryFile)
	cfg.HistoryMaxEntries = getEnvIntOrDefault("HISTORY_MAX_ENTRIES", cfg.HistoryMaxEntries)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.MaxItemsPerSource = getEnvIntOrDefault("MAX_ITEMS_PER_SOURCE", cfg.MaxItemsPerSource)
	cfg.TopN = getEnvIntOrDefault("TOP_N", cfg.TopN)
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = logger.ParseLevel(level)
	}
	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.LogLevel = slog.LevelDebug
	}

	cfg.DryRun = getEnvBool("DIGEST_DRY_RUN")
	cfg.FailOnSendError = getEnvBool("FAIL_ON_SEND_ERROR")

	if err := cfg.LoadDigest(cfg.DigestConfigPath); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// LoadDigest replaces Sources and Taxonomy from the YAML file at path, or from
// the built-in document when path is empty.
func (c *Config) LoadDigest(path string) error {
	var (
		d   *Digest
		err error
	)
	if path == "" {
		d, err = DefaultDigest()
	} else {
		d, err = LoadDigestFile(path)
	}
	if err != nil {
		return err
	}

	c.DigestConfigPath = path
	c.Sources = d.Sources
	c.Taxonomy = d.Taxonomy
	return nil
}

func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Recipient, validation.Required, is.EmailFormat),
		validation.Field(&c.From, validation.Required, is.EmailFormat),
		validation.Field(&c.Sources, validation.Required),
		validation.Field(&c.MaxItemsPerSource, validation.Required, validation.Min(1)),
		validation.Field(&c.TopN, validation.Required, validation.Min(1)),
		validation.Field(&c.HistoryMaxEntries, validation.Required, validation.Min(1)),
		validation.Field(&c.RequestTimeout, validation.Required),
	); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.DatabaseURL == "" && strings.TrimSpace(c.HistoryFile) == "" {
		return fmt.Errorf("invalid config: HISTORY_FILE or DATABASE_URL is required")
	}
	for i, src := range c.Sources {
		if err := validation.ValidateStruct(&c.Sources[i],
			validation.Field(&c.Sources[i].Name, validation.Required),
			validation.Field(&c.Sources[i].URL, validation.Required, is.URL),
		); err != nil {
			return fmt.Errorf("invalid source %q: %w", src.Name, err)
		}
	}
	return c.Taxonomy.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
