package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the full server configuration. Values come from an optional TOML
// file and are overridden by environment variables (a .env file is loaded
// into the environment first when present).
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Storage   StorageConfig   `toml:"storage"`
	Auth      AuthConfig      `toml:"auth"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	Addr     string `toml:"addr"`
	LogLevel string `toml:"log_level"` // debug, info, warn or error
}

// DatabaseConfig uses a tagged union pattern - Type selects the gorm driver.
type DatabaseConfig struct {
	Type string `toml:"type"` // "postgres" or "sqlite"
	DSN  string `toml:"dsn"`
}

// StorageConfig uses a tagged union pattern - Type selects the object store.
type StorageConfig struct {
	Type string `toml:"type"` // "s3" or "memory"

	// S3-specific fields (only used when Type == "s3")
	Bucket          string `toml:"bucket,omitempty"`
	Region          string `toml:"region,omitempty"`
	Endpoint        string `toml:"endpoint,omitempty"`
	AccountID       string `toml:"account_id,omitempty"` // Cloudflare R2 account, used when Endpoint is empty
	AccessKeyID     string `toml:"access_key_id,omitempty"`
	AccessKeySecret string `toml:"access_key_secret,omitempty"`
	UsePathStyle    bool   `toml:"use_path_style,omitempty"` // MinIO

	// PublicURL is the base URL objects are served from.
	PublicURL string `toml:"public_url"`
}

type AuthConfig struct {
	SessionSecret string `toml:"session_secret"`
	SessionMaxAge int    `toml:"session_max_age"` // seconds
	SecureCookies bool   `toml:"secure_cookies"`
	GoogleKey     string `toml:"google_key"`
	GoogleSecret  string `toml:"google_secret"`
	CallbackURL   string `toml:"callback_url"`
}

type RateLimitConfig struct {
	Requests int           `toml:"requests"`
	Window   time.Duration `toml:"window"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:     ":3000",
			LogLevel: "info",
		},
		Database: DatabaseConfig{Type: "postgres"},
		Storage: StorageConfig{
			Type:   "s3",
			Region: "auto",
		},
		Auth: AuthConfig{
			SessionMaxAge: 86400 * 30,
			CallbackURL:   "http://localhost:3000/auth/google/callback",
		},
		RateLimit: RateLimitConfig{
			Requests: 20,
			Window:   time.Minute,
		},
	}
}

// Load builds a Config from defaults, the TOML file at path (skipped when
// path is empty), .env and the process environment, then validates it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		if err := cfg.Read(f); err != nil {
			return nil, fmt.Errorf("reading config from %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read decodes TOML from r on top of the current values.
func (c *Config) Read(r io.Reader) error {
	if _, err := toml.NewDecoder(r).Decode(c); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Addr, "ADDR")
	setString(&c.Server.LogLevel, "LOG_LEVEL")

	setString(&c.Database.Type, "DATABASE_TYPE")
	setString(&c.Database.DSN, "DSN")

	setString(&c.Storage.Type, "STORAGE_TYPE")
	setString(&c.Storage.Bucket, "BUCKET_NAME")
	setString(&c.Storage.Region, "S3_REGION")
	setString(&c.Storage.Endpoint, "S3_ENDPOINT")
	setString(&c.Storage.AccountID, "ACCOUNT_ID")
	setString(&c.Storage.AccessKeyID, "ACCESS_KEY_ID")
	setString(&c.Storage.AccessKeySecret, "ACCESS_KEY_SECRET")
	setString(&c.Storage.PublicURL, "PUBLIC_URL")

	setString(&c.Auth.SessionSecret, "SESSION_SECRET")
	setString(&c.Auth.GoogleKey, "GOOGLE_KEY")
	setString(&c.Auth.GoogleSecret, "GOOGLE_SECRET")
	setString(&c.Auth.CallbackURL, "GOOGLE_CALLBACK_URL")

	if v := os.Getenv("S3_PATH_STYLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid S3_PATH_STYLE: %w", err)
		}
		c.Storage.UsePathStyle = b
	}
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SECURE_COOKIES: %w", err)
		}
		c.Auth.SecureCookies = b
	}
	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
		}
		c.RateLimit.Requests = n
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the configuration is complete and consistent.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database type: %s", c.Database.Type)
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn required (use [database] dsn or DSN env)")
	}

	switch c.Storage.Type {
	case "s3":
		if c.Storage.Bucket == "" {
			return errors.New("s3 storage requires a bucket (BUCKET_NAME)")
		}
		if c.Storage.Endpoint == "" && c.Storage.AccountID == "" {
			return errors.New("s3 storage requires an endpoint or account id")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}

	if c.Auth.SessionSecret == "" {
		return errors.New("SESSION_SECRET required")
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("rate limit requests and window must be positive")
	}
	if _, err := c.Server.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel into a slog.Level.
func (s ServerConfig) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s.LogLevel, err)
	}
	return level, nil
}
