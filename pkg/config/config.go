package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aryan0dhankhar/hrportal/pkg/database"
)

const defaultJWTSecret = "change-me-in-production"

// Config holds the application configuration
type Config struct {
	Environment string `yaml:"environment"`
	ServerPort  int    `yaml:"server_port"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`

	JWTSecret       string        `yaml:"jwt_secret"`
	JWTIssuer       string        `yaml:"jwt_issuer"`
	TokenTTL        time.Duration `yaml:"token_ttl"`
	CookieSecure    bool          `yaml:"cookie_secure"`
	AllowQueryToken bool          `yaml:"allow_query_token"`

	// Storage selects the persistence backend: "postgres" or "memory".
	Storage  string          `yaml:"storage"`
	Database database.Config `yaml:"database"`
	RedisURL string          `yaml:"redis_url"`

	SMTP      SMTPConfig `yaml:"smtp"`
	ClientURL string     `yaml:"client_url"`

	CORSAllowedOrigins   []string      `yaml:"cors_allowed_origins"`
	PayrollSweepInterval time.Duration `yaml:"payroll_sweep_interval"`
	LoginRateLimit       int           `yaml:"login_rate_limit"`
	RateLimitPerMinute   int           `yaml:"rate_limit_per_minute"`
	DashboardCacheTTL    time.Duration `yaml:"dashboard_cache_ttl"`
}

// SMTPConfig configures the transactional mail sender. An empty Host logs
// mail instead of sending it.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	TLS      bool   `yaml:"tls"`
}

// Default returns the development configuration.
func Default() *Config {
	return &Config{
		Environment:          "development",
		ServerPort:           8080,
		LogLevel:             "info",
		JWTSecret:            defaultJWTSecret,
		JWTIssuer:            "hrportal",
		TokenTTL:             7 * 24 * time.Hour,
		Storage:              "postgres",
		Database:             *database.DefaultConfig(),
		SMTP:                 SMTPConfig{Port: 587, From: "HR Portal <no-reply@hrportal.local>", TLS: true},
		ClientURL:            "http://localhost:5173",
		CORSAllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		PayrollSweepInterval: time.Hour,
		LoginRateLimit:       10,
		RateLimitPerMinute:   300,
		DashboardCacheTTL:    30 * time.Second,
	}
}

// Load reads the optional CONFIG_FILE YAML overlay and then environment
// variables, which take precedence.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.Storage = getEnv("STORAGE", c.Storage)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.ClientURL = getEnv("CLIENT_URL", c.ClientURL)
	c.CORSAllowedOrigins = parseCSVEnv("CORS_ALLOWED_ORIGINS", c.CORSAllowedOrigins)

	c.Database.Host = getEnv("DATABASE_HOST", c.Database.Host)
	c.Database.User = getEnv("DATABASE_USER", c.Database.User)
	c.Database.Password = getEnv("DATABASE_PASSWORD", c.Database.Password)
	c.Database.Database = getEnv("DATABASE_NAME", c.Database.Database)
	c.Database.SSLMode = getEnv("DATABASE_SSLMODE", c.Database.SSLMode)

	c.SMTP.Host = getEnv("SMTP_HOST", c.SMTP.Host)
	c.SMTP.Username = getEnv("SMTP_USERNAME", c.SMTP.Username)
	c.SMTP.Password = getEnv("SMTP_PASSWORD", c.SMTP.Password)
	c.SMTP.From = getEnv("MAIL_FROM", c.SMTP.From)

	ints := []struct {
		key string
		dst *int
	}{
		{"SERVER_PORT", &c.ServerPort},
		{"DATABASE_PORT", &c.Database.Port},
		{"DATABASE_MAX_OPEN_CONNS", &c.Database.MaxOpenConns},
		{"SMTP_PORT", &c.SMTP.Port},
		{"LOGIN_RATE_LIMIT", &c.LoginRateLimit},
		{"RATE_LIMIT_PER_MINUTE", &c.RateLimitPerMinute},
	}
	for _, f := range ints {
		if err := intEnv(f.key, f.dst); err != nil {
			return err
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"COOKIE_SECURE", &c.CookieSecure},
		{"ALLOW_QUERY_TOKEN", &c.AllowQueryToken},
		{"DATABASE_AUTO_MIGRATE", &c.Database.AutoMigrate},
		{"SMTP_TLS", &c.SMTP.TLS},
	}
	for _, f := range bools {
		if err := boolEnv(f.key, f.dst); err != nil {
			return err
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"TOKEN_TTL", &c.TokenTTL},
		{"PAYROLL_SWEEP_INTERVAL", &c.PayrollSweepInterval},
		{"DASHBOARD_CACHE_TTL", &c.DashboardCacheTTL},
	}
	for _, f := range durations {
		if err := durationEnv(f.key, f.dst); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.ServerPort)
	}
	switch c.Storage {
	case "postgres", "memory":
	default:
		return fmt.Errorf("config: storage must be postgres or memory, got %q", c.Storage)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: token_ttl must be positive")
	}
	if c.IsProduction() {
		if c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("config: JWT_SECRET must be set in production")
		}
		if !c.CookieSecure {
			return fmt.Errorf("config: COOKIE_SECURE must be enabled in production")
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
		if c.IsProduction() {
			c.LogFormat = "json"
		}
	}
	return nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func boolEnv(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func durationEnv(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
