// Package config handles runtime settings for the sizing API server:
// defaults, environment overlay, and command-line flags.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings for the server process.
//
// SecretKey signs JWTs with HS256; the shipped default exists only so the
// process starts in development and must be overridden in any real
// deployment.
type Config struct {
	HTTPAddr    string
	DatabaseDSN string

	SecretKey  string
	TokenTTL   time.Duration
	BcryptCost int

	RequestTimeout time.Duration

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
	PingTimeout     time.Duration

	ActivityRetention time.Duration
	ReportRetention   time.Duration
	ChatRetention     time.Duration

	CORSOrigins string

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key default is insecure and must be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.DatabaseDSN = "file:sizing.db?cache=shared&_pragma=busy_timeout(5000)"
	c.SecretKey = "your-secret-key-change-in-production"
	c.TokenTTL = 7 * 24 * time.Hour
	c.BcryptCost = 12
	c.RequestTimeout = 5 * time.Second
	c.MaxOpenConns = 50
	c.MaxIdleConns = 10
	c.ConnMaxIdleTime = 45 * time.Second
	c.ConnectTimeout = 10 * time.Second
	c.PingTimeout = 5 * time.Second
	c.ActivityRetention = 365 * 24 * time.Hour
	c.ReportRetention = 365 * 24 * time.Hour
	c.ChatRetention = 90 * 24 * time.Hour
	c.CORSOrigins = "*"
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// Load builds a Config by applying defaults, then overlaying environment
// variables and finally command-line flags.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.applyEnv()
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.DatabaseDSN, "DATABASE_DSN")
	setString(&c.SecretKey, "JWT_SECRET_KEY")
	setString(&c.CORSOrigins, "CORS_ORIGINS")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setInt(&c.BcryptCost, "BCRYPT_COST")
	setInt(&c.MaxOpenConns, "DB_MAX_OPEN_CONNS")
	setInt(&c.MaxIdleConns, "DB_MAX_IDLE_CONNS")
	setDuration(&c.TokenTTL, "TOKEN_TTL")
	setDuration(&c.RequestTimeout, "REQUEST_TIMEOUT")
	setDuration(&c.ConnMaxIdleTime, "DB_CONN_MAX_IDLE_TIME")
	setDuration(&c.ConnectTimeout, "DB_CONNECT_TIMEOUT")
	setDuration(&c.PingTimeout, "DB_PING_TIMEOUT")
	setDuration(&c.ActivityRetention, "ACTIVITY_RETENTION")
	setDuration(&c.ReportRetention, "REPORT_RETENTION")
	setDuration(&c.ChatRetention, "CHAT_RETENTION")
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("sizing-api", flag.ContinueOnError)
	fs.StringVar(&c.HTTPAddr, "a", c.HTTPAddr, "HTTP listen address")
	fs.StringVar(&c.DatabaseDSN, "d", c.DatabaseDSN, "database DSN")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format (json or text)")
	return fs.Parse(args)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
