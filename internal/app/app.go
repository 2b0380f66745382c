// Package app wires configuration into a running grid.Service: the row
// source, the audit store, the event publisher, the export sink and any
// extra table definitions. The server and the CLI both start from here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/gridstate/internal/audit"
	"github.com/JonMunkholm/gridstate/internal/config"
	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/core/tables"
	"github.com/JonMunkholm/gridstate/internal/events"
	"github.com/JonMunkholm/gridstate/internal/export"
	"github.com/JonMunkholm/gridstate/internal/grid"
	"github.com/JonMunkholm/gridstate/internal/i18n"
	"github.com/JonMunkholm/gridstate/internal/source"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DemoSeed is the fixed seed of generated demo rows.
const DemoSeed = 42

// App holds the service and the resources it was built on.
type App struct {
	Config  *config.Config
	Service *grid.Service
	Pool    *pgxpool.Pool
}

// New builds an App from cfg. Close must be called to release it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	if cfg.Table.DefinitionsFile != "" {
		n, err := tables.RegisterFile(cfg.Table.DefinitionsFile)
		if err != nil {
			return nil, fmt.Errorf("register tables: %w", err)
		}
		slog.Info("table definitions loaded", "file", cfg.Table.DefinitionsFile, "tables", n)
	}

	if cfg.Database.URL != "" {
		pool, err := connect(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		a.Pool = pool
	}

	provider, err := a.provider()
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	store, err := a.auditStore(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	publisher, err := publisher(&cfg.Events)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	sink, err := sink(ctx, &cfg.Export)
	if err != nil {
		publisher.Close()
		a.Close(ctx)
		return nil, err
	}

	lang, _ := i18n.Parse(cfg.Table.DefaultLanguage)
	a.Service = grid.NewService(grid.Options{
		Provider:    provider,
		Audit:       store,
		Events:      publisher,
		Sink:        sink,
		Limiter:     grid.NewExportLimiter(cfg.Export.MaxConcurrent, cfg.Export.MaxWaitTime),
		Language:    lang,
		PageSize:    cfg.Table.PageSize,
		SessionTTL:  cfg.Table.SessionTTL,
		MaxSessions: cfg.Table.MaxSessions,
	})

	slog.Info("tables registered", "count", core.TableCount(), "groups", len(core.Groups()))
	for _, group := range core.Groups() {
		slog.Debug("table group", "group", group, "tables", len(core.ByGroup(group)))
	}
	return a, nil
}

// Janitor returns the janitor schedule from the configuration.
func (a *App) Janitor() grid.JanitorConfig {
	return grid.JanitorConfig{
		Interval:       a.Config.Table.JanitorInterval,
		AuditRetention: a.Config.Audit.AuditRetention(),
	}
}

// Close shuts the service down and closes the database pool.
func (a *App) Close(ctx context.Context) {
	if a.Service != nil {
		if err := a.Service.Shutdown(ctx); err != nil {
			slog.Warn("service shutdown", "error", err)
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

func connect(ctx context.Context, db *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(db.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(db.MaxConns)
	poolConfig.MinConns = int32(db.MinConns)
	poolConfig.MaxConnLifetime = db.MaxConnLifetime
	poolConfig.MaxConnIdleTime = db.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if u, err := url.Parse(db.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}

func (a *App) provider() (source.Provider, error) {
	cfg := a.Config.Source
	kind, err := source.ParseKind(cfg.Kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case source.KindFile:
		return source.FileProvider{Dir: cfg.Dir}, nil
	case source.KindPostgres:
		if a.Pool == nil {
			return nil, fmt.Errorf("postgres source: no database configured")
		}
		return source.PostgresProvider{DB: a.Pool, Schema: cfg.PostgresSchema}, nil
	}

	mem := source.NewMemoryProvider(nil)
	switch {
	case cfg.Dir != "":
		mem.Seed = source.FileProvider{Dir: cfg.Dir}
	case cfg.SeedDemo:
		mem.Rows = map[string][]core.Record{
			tables.PeopleKey: tables.DemoPeople(cfg.DemoRows, DemoSeed, time.Now()),
		}
	}
	return mem, nil
}

func (a *App) auditStore(ctx context.Context) (audit.Store, error) {
	if !strings.EqualFold(a.Config.Audit.Store, "postgres") {
		return audit.NewMemory(a.Config.Audit.Capacity), nil
	}
	if a.Pool == nil {
		return nil, fmt.Errorf("postgres audit store: no database configured")
	}
	store := audit.NewPostgres(a.Pool)
	if err := store.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("audit schema: %w", err)
	}
	return store, nil
}

func publisher(cfg *config.EventsConfig) (events.Publisher, error) {
	if cfg.NATSURL == "" {
		return events.NoopPublisher{}, nil
	}
	p, err := events.NewNATSPublisher(cfg.NATSURL, cfg.SubjectPrefix)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	slog.Info("publishing events", "prefix", cfg.SubjectPrefix)
	return p, nil
}

func sink(ctx context.Context, cfg *config.ExportConfig) (export.Sink, error) {
	if cfg.S3Bucket == "" {
		return export.DirSink{Dir: cfg.Dir}, nil
	}
	s, err := export.NewS3Sink(ctx, export.S3Options{
		Bucket:   cfg.S3Bucket,
		Prefix:   cfg.S3Prefix,
		Region:   cfg.S3Region,
		Endpoint: cfg.S3Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("export sink: %w", err)
	}
	return s, nil
}
