package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/lib/pq"

	"github.com/aryan0dhankhar/hrportal/internal/reliability/retry"
)

// Config holds database configuration
type Config struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"name"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AutoMigrate     bool          `yaml:"auto_migrate"`
}

// DSN returns the key/value connection string understood by lib/pq.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// URL returns the postgres:// form used by golang-migrate.
func (c *Config) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// ConnectionPool owns the *sql.DB shared by the postgres repositories.
type ConnectionPool struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewConnectionPool opens the pool and waits for the server to answer a ping,
// retrying while it is still starting up.
func NewConnectionPool(ctx context.Context, config *Config, logger *slog.Logger) (*ConnectionPool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := config.withDefaults()

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	_, err = retry.Do(ctx, connectRetry, logger, "ping database", func(ctx context.Context) (struct{}, error) {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return struct{}{}, db.PingContext(pingCtx)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connected",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return &ConnectionPool{db: db, logger: logger}, nil
}

var connectRetry = &retry.Config{
	MaxAttempts:       5,
	InitialBackoff:    500 * time.Millisecond,
	MaxBackoff:        5 * time.Second,
	BackoffMultiplier: 2,
}

func (cp *ConnectionPool) GetDB() *sql.DB {
	return cp.db
}

func (cp *ConnectionPool) Close() error {
	if cp.db == nil {
		return nil
	}
	cp.logger.Info("closing database pool")
	return cp.db.Close()
}

// withDefaults fills unset pool limits.
func (c *Config) withDefaults() Config {
	out := *c
	def := DefaultConfig()
	if out.MaxOpenConns <= 0 {
		out.MaxOpenConns = def.MaxOpenConns
	}
	if out.MaxIdleConns <= 0 {
		out.MaxIdleConns = def.MaxIdleConns
	}
	if out.ConnMaxLifetime <= 0 {
		out.ConnMaxLifetime = def.ConnMaxLifetime
	}
	return out
}

// DefaultConfig returns the local development settings.
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost",
		Port:            5432,
		User:            "hrportal",
		Password:        "dev",
		Database:        "hrportal",
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}
