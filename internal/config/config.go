package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Booking data sources.
const (
	SourceSheets = "sheets"
	SourceXLSX   = "xlsx"
)

// Snapshot cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Sheets    SheetsConfig
	XLSX      XLSXConfig
	Cache     CacheConfig
	Redis     RedisConfig
	MongoDB   MongoDBConfig
	WhatsApp  WhatsAppConfig
	Reporting ReportingConfig
	Scoring   ScoringConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// StorageConfig selects where bookings live.
type StorageConfig struct {
	Source        string
	BookingsRange string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	MaxRetries      uint64
}

// XLSXConfig points at a local workbook used instead of Google Sheets.
type XLSXConfig struct {
	Path string
}

// CacheConfig controls the booking snapshot cache.
type CacheConfig struct {
	Backend string
	TTL     time.Duration
	Key     string
}

// RedisConfig holds connection settings for the redis snapshot cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MongoDBConfig holds settings for the weekly report archive. Empty URI disables it.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API. Empty token disables notifications.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	RecipientID   string
}

// Enabled reports whether notifications can be sent.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.RecipientID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule    string
	RefreshSchedule string
	Timezone        string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	ttl, err := time.ParseDuration(getenvWithDefault("CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("%w: CACHE_TTL: %v", ErrInvalidConfig, err)
	}
	redisDB, err := strconv.Atoi(getenvWithDefault("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("%w: REDIS_DB: %v", ErrInvalidConfig, err)
	}
	retries, err := strconv.ParseUint(getenvWithDefault("GOOGLE_SHEETS_MAX_RETRIES", "3"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: GOOGLE_SHEETS_MAX_RETRIES: %v", ErrInvalidConfig, err)
	}

	scoringCfg, err := LoadScoring(os.Getenv("SCORING_POLICY_FILE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Source:        strings.ToLower(getenvWithDefault("DATA_SOURCE", SourceSheets)),
			BookingsRange: getenvWithDefault("BOOKINGS_RANGE", "Gigs!A:L"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			MaxRetries:      retries,
		},
		XLSX: XLSXConfig{
			Path: getenvWithDefault("XLSX_PATH", "data/gigs.xlsx"),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(getenvWithDefault("CACHE_BACKEND", CacheMemory)),
			TTL:     ttl,
			Key:     getenvWithDefault("CACHE_KEY", "gigboard:bookings"),
		},
		Redis: RedisConfig{
			Addr:     getenvWithDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "gigboard"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			RecipientID:   os.Getenv("WHATSAPP_RECIPIENT_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule:    getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * 5"),
			RefreshSchedule: getenvWithDefault("REFRESH_CRON_SCHEDULE", "*/30 * * * *"),
			Timezone:        getenvWithDefault("TIMEZONE", "Europe/London"),
		},
		Scoring: scoringCfg,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("%w: APP_PORT must be provided", ErrInvalidConfig)
	}

	if c.Storage.BookingsRange == "" {
		return fmt.Errorf("%w: BOOKINGS_RANGE must not be empty", ErrInvalidConfig)
	}

	switch c.Storage.Source {
	case SourceSheets:
		if c.Sheets.CredentialsPath == "" {
			return fmt.Errorf("%w: GOOGLE_SHEETS_CREDENTIALS_PATH must be provided", ErrInvalidConfig)
		}
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("%w: GOOGLE_SHEET_DATABASE_ID must be provided", ErrInvalidConfig)
		}
	case SourceXLSX:
		if c.XLSX.Path == "" {
			return fmt.Errorf("%w: XLSX_PATH must be provided", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unsupported DATA_SOURCE %q", ErrInvalidConfig, c.Storage.Source)
	}

	switch c.Cache.Backend {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("%w: unsupported CACHE_BACKEND %q", ErrInvalidConfig, c.Cache.Backend)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("%w: CACHE_TTL must be positive", ErrInvalidConfig)
	}

	if c.WhatsApp.AccessToken != "" && c.WhatsApp.PhoneNumberID == "" {
		return fmt.Errorf("%w: WHATSAPP_PHONE_NUMBER_ID must be provided with WHATSAPP_TOKEN", ErrInvalidConfig)
	}

	if c.Reporting.CronSchedule == "" {
		return fmt.Errorf("%w: REPORT_CRON_SCHEDULE must be provided", ErrInvalidConfig)
	}

	if _, err := time.LoadLocation(c.Reporting.Timezone); err != nil {
		return fmt.Errorf("%w: TIMEZONE %q: %v", ErrInvalidConfig, c.Reporting.Timezone, err)
	}

	if err := c.Scoring.Policy().Validate(); err != nil {
		return fmt.Errorf("%w: scoring: %v", ErrInvalidConfig, err)
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
