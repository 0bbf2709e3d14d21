package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Ledger backends
const (
	LedgerBackendMemory = "memory"
	LedgerBackendRedis  = "redis"
)

// Storage backends
const (
	StorageTypeMinIO = "minio"
	StorageTypeLocal = "local"
)

// MaxTickInterval is the slowest cadence at which minute-granular triggers stay reliable
const MaxTickInterval = time.Minute

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
	Bot       BotConfig
	SMTP      SMTPConfig
	Metrics   MetricsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host          string `envconfig:"DB_HOST" default:"localhost"`
	Port          string `envconfig:"DB_PORT" default:"5432"`
	User          string `envconfig:"DB_USER" default:"postgres"`
	Password      string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name          string `envconfig:"DB_NAME" default:"meetmind"`
	SSLMode       string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns      int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns      int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate   bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
	MigrationsDir string `envconfig:"DB_MIGRATIONS_DIR" default:"migrations"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// JWTConfig holds JWT configuration. Tokens are issued by the auth service;
// this process only verifies them.
type JWTConfig struct {
	AccessSecret string        `envconfig:"JWT_ACCESS_SECRET" default:"your-access-secret-change-in-production"`
	AccessExpiry time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
}

// StorageConfig holds audio artifact storage configuration
type StorageConfig struct {
	Type            string        `envconfig:"STORAGE_TYPE" default:"minio"` // "minio" or "local"
	Endpoint        string        `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string        `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string        `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string        `envconfig:"STORAGE_BUCKET" default:"meetmind"`
	UseSSL          bool          `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string        `envconfig:"STORAGE_PUBLIC_URL"`
	LocalDir        string        `envconfig:"STORAGE_LOCAL_DIR" default:"audio_files"`
	URLExpiry       time.Duration `envconfig:"STORAGE_URL_EXPIRY" default:"1h"`
}

// SchedulerConfig holds auto-join scheduler configuration
type SchedulerConfig struct {
	Enabled        bool          `envconfig:"SCHEDULER_ENABLED" default:"true"`
	TickInterval   time.Duration `envconfig:"SCHEDULER_TICK_INTERVAL" default:"30s"`
	Timezone       string        `envconfig:"MEETING_TIMEZONE" default:"UTC"`
	TrackingBuffer time.Duration `envconfig:"SCHEDULER_TRACKING_BUFFER" default:"10m"`
	LedgerBackend  string        `envconfig:"LEDGER_BACKEND" default:"memory"`
	LedgerTTL      time.Duration `envconfig:"LEDGER_TTL" default:"48h"`
}

// BotConfig describes where the external recording bot lives
type BotConfig struct {
	Dir           string   `envconfig:"BOT_DIR" default:"../Google-Meet-Bot"`
	PythonPath    string   `envconfig:"BOT_PYTHON" default:"venv/bin/python"`
	Script        string   `envconfig:"BOT_SCRIPT" default:"cli.py"`
	DisplayName   string   `envconfig:"BOT_NAME" default:"MeetMind Bot"`
	RequiredFiles []string `envconfig:"BOT_REQUIRED_FILES" default:"join_google_meet.py,record_audio.py,speech_to_text.py"`
	RequireEnv    bool     `envconfig:"BOT_REQUIRE_ENV_FILE" default:"true"`
}

// SMTPConfig holds notification delivery configuration
type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"SMTP_FROM" default:"MeetMind <no-reply@meetmind.local>"`
	AppURL   string `envconfig:"APP_URL" default:"http://localhost:3000"`
}

// MetricsConfig holds prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"METRICS_PATH" default:"/metrics"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the current process environment only
func FromEnv() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Scheduler.TickInterval <= 0 {
		return fmt.Errorf("SCHEDULER_TICK_INTERVAL must be positive")
	}
	if c.Scheduler.TickInterval > MaxTickInterval {
		return fmt.Errorf("SCHEDULER_TICK_INTERVAL must be at most %s, got %s", MaxTickInterval, c.Scheduler.TickInterval)
	}
	if c.Scheduler.TrackingBuffer < 0 {
		return fmt.Errorf("SCHEDULER_TRACKING_BUFFER must not be negative")
	}
	switch c.Scheduler.LedgerBackend {
	case LedgerBackendMemory, LedgerBackendRedis:
	default:
		return fmt.Errorf("LEDGER_BACKEND must be %q or %q, got %q", LedgerBackendMemory, LedgerBackendRedis, c.Scheduler.LedgerBackend)
	}
	switch c.Storage.Type {
	case StorageTypeMinIO, StorageTypeLocal:
	default:
		return fmt.Errorf("STORAGE_TYPE must be %q or %q, got %q", StorageTypeMinIO, StorageTypeLocal, c.Storage.Type)
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("MEETING_TIMEZONE %q: %w", c.Scheduler.Timezone, err)
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return nil
}

// Location returns the timezone meeting dates and times are interpreted in
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
