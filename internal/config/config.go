package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Port          string        `yaml:"port"`
	DBDriver      string        `yaml:"db_driver"`
	DBConn        string        `yaml:"db_conn"`
	LogLevel      string        `yaml:"log_level"`
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	CookieSecure  bool          `yaml:"cookie_secure"`
	SiteTitle     string        `yaml:"site_title"`
	BaseURL       string        `yaml:"base_url"`
}

// Defaults returns the development configuration
func Defaults() *Config {
	return &Config{
		Port:          "8080",
		DBDriver:      "postgres",
		DBConn:        "host=localhost port=5436 user=test password=test dbname=quillpost sslmode=disable",
		LogLevel:      "INFO",
		SessionTTL:    7 * 24 * time.Hour,
		SweepInterval: time.Hour,
		SiteTitle:     "Quillpost",
		BaseURL:       "http://localhost:8080",
	}
}

// NewConfig loads configuration. Values come from defaults, then the optional
// YAML file at path, then environment variables (a .env file in the working
// directory is loaded first if present).
func NewConfig(path string) (*Config, error) {
	cfg := Defaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv("QUILLPOST_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DBConn = getEnv("DB_CONN", c.DBConn)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.SessionSecret = getEnv("SESSION_SECRET", c.SessionSecret)
	c.SiteTitle = getEnv("SITE_TITLE", c.SiteTitle)
	c.BaseURL = getEnv("BASE_URL", c.BaseURL)

	var err error
	if c.SessionTTL, err = getDuration("SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	if c.SweepInterval, err = getDuration("SESSION_SWEEP_INTERVAL", c.SweepInterval); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid COOKIE_SECURE: %w", err)
		}
		c.CookieSecure = b
	}
	return nil
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.DBConn == "" {
		return fmt.Errorf("DB_CONN is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	switch c.DBDriver {
	case "postgres", "pgx", "memory":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
