// Package config loads the server and CLI configuration from environment
// variables with defaults, and validates it on startup so misconfiguration
// fails fast.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Source   SourceConfig
	Table    TableConfig
	Export   ExportConfig
	Events   EventsConfig
	Audit    AuditConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds PostgreSQL pool settings. The database is only
// needed by the postgres source and the postgres audit store.
type DatabaseConfig struct {
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"20"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// SourceConfig selects where table rows come from.
type SourceConfig struct {
	// Kind is memory, file or postgres.
	Kind string `env:"SOURCE_KIND" default:"memory"`

	// Dir holds <table>.csv / <table>.json files for the file source, and
	// seeds the memory source when set.
	Dir string `env:"SOURCE_DIR"`

	// SeedDemo fills the built-in people table of the memory source with
	// generated rows when no seed directory is set.
	SeedDemo bool `env:"SOURCE_SEED_DEMO" default:"true"`

	// DemoRows is the number of generated people rows.
	DemoRows int `env:"SOURCE_DEMO_ROWS" default:"50"`

	// PostgresSchema qualifies table names for the postgres source.
	PostgresSchema string `env:"SOURCE_PG_SCHEMA"`
}

// TableConfig holds table session settings.
type TableConfig struct {
	// DefaultLanguage is used when a request matches no supported language.
	DefaultLanguage string `env:"TABLE_DEFAULT_LANGUAGE" default:"en"`

	PageSize int `env:"TABLE_PAGE_SIZE" default:"10"`

	// DefinitionsFile is an optional TOML file of extra tables.
	DefinitionsFile string `env:"TABLE_DEFINITIONS"`

	// SessionTTL is how long an idle session is kept.
	SessionTTL time.Duration `env:"TABLE_SESSION_TTL" default:"30m"`

	// JanitorInterval is how often idle sessions and old audit entries are reaped.
	JanitorInterval time.Duration `env:"TABLE_JANITOR_INTERVAL" default:"1m"`

	MaxSessions int `env:"TABLE_MAX_SESSIONS" default:"1000"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	// Dir receives exports when no S3 bucket is configured.
	Dir string `env:"EXPORT_DIR" default:"exports"`

	DefaultFormat string `env:"EXPORT_DEFAULT_FORMAT" default:"xlsx"`

	// MaxConcurrent is the number of exports encoded at once.
	MaxConcurrent int `env:"EXPORT_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long an export waits for a slot.
	MaxWaitTime time.Duration `env:"EXPORT_MAX_WAIT_TIME" default:"30s"`

	S3Bucket   string `env:"EXPORT_S3_BUCKET"`
	S3Region   string `env:"EXPORT_S3_REGION" envAlt:"AWS_REGION"`
	S3Endpoint string `env:"EXPORT_S3_ENDPOINT"`
	S3Prefix   string `env:"EXPORT_S3_PREFIX" default:"exports"`
}

// EventsConfig holds event publishing settings. Events are dropped when
// no NATS URL is set.
type EventsConfig struct {
	NATSURL       string `env:"NATS_URL"`
	SubjectPrefix string `env:"EVENTS_SUBJECT_PREFIX" default:"gridstate"`
}

// AuditConfig holds audit trail settings.
type AuditConfig struct {
	// Store is memory or postgres.
	Store string `env:"AUDIT_STORE" default:"memory"`

	// RetentionDays is how long entries are kept before the janitor purges them.
	RetentionDays int `env:"AUDIT_RETENTION_DAYS" default:"90"`

	// Capacity bounds the memory store.
	Capacity int `env:"AUDIT_MEMORY_CAPACITY" default:"10000"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default limit per IP.
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// ExportLimit is requests per minute for export endpoints.
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects mutating API routes with X-API-Key.
	RequireAPIKey bool     `env:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is text, json or auto (text on a terminal, json otherwise).
	Format string `env:"LOG_FORMAT" default:"auto"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// AuditRetention returns the audit retention as a duration.
func (c *AuditConfig) AuditRetention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}
