package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gamage-recruiters/platform/internal/pkg/helpers"
)

// Name-match policies for the job application identity cross-check
const (
	NameMatchAny = "any"
	NameMatchAll = "all"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		BaseURL        string   `yaml:"base_url" env:"SERVER_BASE_URL"`
		FrontendURL    string   `yaml:"frontend_url" env:"FRONTEND_URL"`
		AdminURL       string   `yaml:"admin_url" env:"ADMIN_URL"`
		StoragePath    string   `yaml:"storage_path" env:"STORAGE_PATH"`
		MaxUploadMB    int      `yaml:"max_upload_mb" env:"MAX_UPLOAD_MB"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret" env:"JWT_SECRET"`
		Issuer string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	// Session drives both the token expiry claim and the cookie max-age.
	Session struct {
		CookieName            string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		TTL                   string `yaml:"ttl" env:"SESSION_TTL"`
		Secure                bool   `yaml:"secure" env:"SESSION_COOKIE_SECURE"`
		Domain                string `yaml:"domain" env:"SESSION_COOKIE_DOMAIN"`
		StoreBackedRevocation bool   `yaml:"store_backed_revocation" env:"SESSION_STORE_BACKED_REVOCATION"`
	} `yaml:"session"`

	OAuth struct {
		StateCookieName string         `yaml:"state_cookie_name" env:"OAUTH_STATE_COOKIE_NAME"`
		Google          ProviderConfig `yaml:"google" env-prefix:"GOOGLE"`
		Facebook        ProviderConfig `yaml:"facebook" env-prefix:"FACEBOOK"`
		LinkedIn        ProviderConfig `yaml:"linkedin" env-prefix:"LINKEDIN"`
	} `yaml:"oauth"`

	Redis struct {
		Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED"`
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	OTP struct {
		TTL           string  `yaml:"ttl" env:"OTP_TTL"`
		Length        int     `yaml:"length" env:"OTP_LENGTH"`
		RatePerSecond float64 `yaml:"rate_per_second" env:"OTP_RATE_PER_SECOND"`
		RateBurst     int     `yaml:"rate_burst" env:"OTP_RATE_BURST"`
	} `yaml:"otp"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
	} `yaml:"smtp"`

	Applications struct {
		NameMatch string `yaml:"name_match" env:"APPLICATIONS_NAME_MATCH"`
	} `yaml:"applications"`

	Admin struct {
		SeedName     string `yaml:"seed_name" env:"ADMIN_SEED_NAME"`
		SeedEmail    string `yaml:"seed_email" env:"ADMIN_SEED_EMAIL"`
		SeedPassword string `yaml:"seed_password" env:"ADMIN_SEED_PASSWORD"`
	} `yaml:"admin"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// ProviderConfig holds OAuth client credentials for one identity provider
type ProviderConfig struct {
	ClientID     string `yaml:"client_id" env:"CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"CLIENT_SECRET"`
	RedirectURL  string `yaml:"redirect_url" env:"REDIRECT_URL"`
}

// Enabled reports whether the provider has credentials configured
func (p ProviderConfig) Enabled() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.BaseURL = "http://localhost:8080"
	config.Server.FrontendURL = "http://localhost:5173"
	config.Server.AdminURL = "http://localhost:5174"
	config.Server.StoragePath = "uploads"
	config.Server.MaxUploadMB = 10
	config.Server.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:5174"}

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "recruiters"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.Issuer = "gamage-recruiters"

	config.Session.CookieName = "GamageRecruiters"
	config.Session.TTL = "1h"
	config.Session.Secure = true
	config.Session.StoreBackedRevocation = true

	config.OAuth.StateCookieName = "oauth_state"

	config.Redis.Addr = "localhost:6379"

	config.OTP.TTL = "5m"
	config.OTP.Length = 6
	config.OTP.RatePerSecond = 0.05
	config.OTP.RateBurst = 3

	config.SMTP.Host = "smtp.gmail.com"
	config.SMTP.Port = 465
	config.SMTP.FromName = "Gamage Recruiters"
	config.SMTP.UseTLS = true

	config.Applications.NameMatch = NameMatchAny

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config, "")
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	ttl, err := time.ParseDuration(config.Session.TTL)
	if err != nil {
		return fmt.Errorf("invalid session ttl format: %w", err)
	}
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}

	if _, err := time.ParseDuration(config.OTP.TTL); err != nil {
		return fmt.Errorf("invalid OTP ttl format: %w", err)
	}

	if config.OTP.Length < 4 || config.OTP.Length > 10 {
		return fmt.Errorf("OTP length must be between 4 and 10")
	}

	switch config.Applications.NameMatch {
	case NameMatchAny, NameMatchAll:
	default:
		return fmt.Errorf("applications name_match must be %q or %q", NameMatchAny, NameMatchAll)
	}

	if config.Session.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}

	return nil
}

// SessionTTL returns the parsed session lifetime
func (c *Config) SessionTTL() time.Duration {
	return helpers.ParseDuration(c.Session.TTL, time.Hour)
}

// OTPTTL returns the parsed one-time password lifetime
func (c *Config) OTPTTL() time.Duration {
	return helpers.ParseDuration(c.OTP.TTL, 5*time.Minute)
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(GetEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
