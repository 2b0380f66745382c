package config

import (
	"cmp"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/gridstate/internal/export"
	"github.com/JonMunkholm/gridstate/internal/i18n"
	"github.com/JonMunkholm/gridstate/internal/source"
)

// Load reads configuration from environment variables, applies the
// `default` tags of unset fields and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := fill(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// fill walks the sections of v and sets every field carrying an env tag.
// The envAlt tag names a fallback variable.
func fill(v reflect.Value) error {
	for i := range v.NumField() {
		f, sf := v.Field(i), v.Type().Field(i)
		if !f.CanSet() {
			continue
		}
		if sf.Type.Kind() == reflect.Struct {
			if err := fill(f); err != nil {
				return err
			}
			continue
		}

		name := sf.Tag.Get("env")
		if name == "" {
			continue
		}
		raw := cmp.Or(os.Getenv(name), os.Getenv(sf.Tag.Get("envAlt")), sf.Tag.Get("default"))
		if raw == "" {
			continue
		}
		if err := parseInto(f, raw); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", name, raw, err)
		}
	}
	return nil
}

// parseInto converts raw to the type of f. Slices are comma-separated
// with blanks dropped.
func parseInto(f reflect.Value, raw string) error {
	switch {
	case f.Type() == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		f.SetInt(int64(d))
	case f.Kind() == reflect.String:
		f.SetString(raw)
	case f.Kind() == reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		f.SetInt(int64(n))
	case f.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		f.SetBool(b)
	case f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.String:
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		f.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type %s", f.Type())
	}
	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Source validation
	kind, err := source.ParseKind(c.Source.Kind)
	if err != nil {
		errs = append(errs, fmt.Sprintf("SOURCE_KIND (%q) must be one of: memory, file, postgres", c.Source.Kind))
	}
	if kind == source.KindFile && c.Source.Dir == "" {
		errs = append(errs, "SOURCE_DIR is required when SOURCE_KIND is file")
	}
	if kind == source.KindPostgres && c.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required when SOURCE_KIND is postgres")
	}
	if c.Source.DemoRows < 0 {
		errs = append(errs, "SOURCE_DEMO_ROWS must be non-negative")
	}

	// Database validation
	if c.Database.URL != "" {
		if c.Database.MaxConns <= 0 {
			errs = append(errs, "DB_MAX_CONNS must be positive")
		}
		if c.Database.MinConns < 0 {
			errs = append(errs, "DB_MIN_CONNS must be non-negative")
		}
		if c.Database.MaxConns < c.Database.MinConns {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
				c.Database.MaxConns, c.Database.MinConns))
		}
	}

	// Table validation
	if _, ok := i18n.Parse(c.Table.DefaultLanguage); !ok {
		errs = append(errs, fmt.Sprintf("TABLE_DEFAULT_LANGUAGE (%q) must be one of: en, tr, de, fr, es", c.Table.DefaultLanguage))
	}
	if c.Table.PageSize <= 0 {
		errs = append(errs, "TABLE_PAGE_SIZE must be positive")
	}
	if c.Table.SessionTTL <= 0 {
		errs = append(errs, "TABLE_SESSION_TTL must be positive")
	}
	if c.Table.JanitorInterval <= 0 {
		errs = append(errs, "TABLE_JANITOR_INTERVAL must be positive")
	}
	if c.Table.MaxSessions <= 0 {
		errs = append(errs, "TABLE_MAX_SESSIONS must be positive")
	}

	// Export validation
	if _, err := export.ParseFormat(c.Export.DefaultFormat); err != nil {
		errs = append(errs, fmt.Sprintf("EXPORT_DEFAULT_FORMAT (%q) must be one of: xlsx, csv, json, parquet", c.Export.DefaultFormat))
	}
	if c.Export.MaxConcurrent <= 0 {
		errs = append(errs, "EXPORT_MAX_CONCURRENT must be positive")
	}
	if c.Export.MaxWaitTime <= 0 {
		errs = append(errs, "EXPORT_MAX_WAIT_TIME must be positive")
	}
	if c.Export.S3Bucket == "" && c.Export.Dir == "" {
		errs = append(errs, "one of EXPORT_DIR or EXPORT_S3_BUCKET is required")
	}

	// Audit validation
	switch strings.ToLower(c.Audit.Store) {
	case "memory":
	case "postgres":
		if c.Database.URL == "" {
			errs = append(errs, "DATABASE_URL is required when AUDIT_STORE is postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("AUDIT_STORE (%q) must be one of: memory, postgres", c.Audit.Store))
	}
	if c.Audit.RetentionDays <= 0 {
		errs = append(errs, "AUDIT_RETENTION_DAYS must be positive")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Rate.Enabled && c.Rate.ExportLimit <= 0 {
		errs = append(errs, "RATE_LIMIT_EXPORT must be positive when rate limiting is enabled")
	}

	// Security validation
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	}

	// Logging validation
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Logging.Level)) {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	if !slices.Contains([]string{"text", "json", "auto"}, strings.ToLower(c.Logging.Format)) {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json, auto", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String summarizes the config for logging with the database URL masked
// and only the number of API keys shown.
func (c *Config) String() string {
	db := "unset"
	if c.Database.URL != "" {
		db = "[MASKED]"
	}
	return fmt.Sprintf("Config{addr=%s db=%s pool=%d/%d source=%s:%q lang=%s page=%d ttl=%s "+
		"export=%q s3=%q workers=%d nats=%t audit=%s/%dd rate=%t/%d api_keys=%d log=%s/%s}",
		c.Server.Addr(), db, c.Database.MinConns, c.Database.MaxConns,
		c.Source.Kind, c.Source.Dir, c.Table.DefaultLanguage, c.Table.PageSize, c.Table.SessionTTL,
		c.Export.Dir, c.Export.S3Bucket, c.Export.MaxConcurrent, c.Events.NATSURL != "",
		c.Audit.Store, c.Audit.RetentionDays, c.Rate.Enabled, c.Rate.RequestsPerMinute,
		len(c.Security.APIKeys), c.Logging.Level, c.Logging.Format)
}
