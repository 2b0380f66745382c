// Package grid serves table sessions.
//
// A Session binds one registered table definition to a row source and a
// core.Store. It is what the web API, the CLI and the terminal browser
// drive: state actions go through Dispatch, rows are persisted through the
// source, and every mutation or export is written to the audit trail and
// published as an event.
//
// Sessions are independent. Each keeps its own filters, layout, selection
// and page; idle sessions are closed by the janitor.
package grid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/gridstate/internal/audit"
	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/events"
	"github.com/JonMunkholm/gridstate/internal/export"
	"github.com/JonMunkholm/gridstate/internal/i18n"
	"github.com/JonMunkholm/gridstate/internal/idgen"
	"github.com/JonMunkholm/gridstate/internal/logging"
	"github.com/JonMunkholm/gridstate/internal/source"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrTableNotFound is returned when no table is registered under a key.
	ErrTableNotFound = errors.New("table not found")

	// ErrTooManySessions is returned by Open when MaxSessions are open.
	ErrTooManySessions = errors.New("too many open sessions")
)

const (
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1000
)

// Options configures a Service. Zero fields get defaults: an empty memory
// provider, an in-memory audit store, a no-op publisher and no export sink.
type Options struct {
	Provider source.Provider
	Audit    audit.Store
	Events   events.Publisher
	Sink     export.Sink
	Limiter  *ExportLimiter

	Language    i18n.Language
	PageSize    int
	SessionTTL  time.Duration
	MaxSessions int
}

// Service owns the open sessions.
type Service struct {
	provider    source.Provider
	audit       audit.Store
	events      events.Publisher
	sink        export.Sink
	limiter     *ExportLimiter
	language    i18n.Language
	pageSize    int
	ttl         time.Duration
	maxSessions int

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates a Service from opts.
func NewService(opts Options) *Service {
	s := &Service{
		provider:    opts.Provider,
		audit:       opts.Audit,
		events:      opts.Events,
		sink:        opts.Sink,
		limiter:     opts.Limiter,
		language:    opts.Language,
		pageSize:    opts.PageSize,
		ttl:         opts.SessionTTL,
		maxSessions: opts.MaxSessions,
		sessions:    make(map[string]*Session),
	}
	if s.provider == nil {
		s.provider = source.NewMemoryProvider(nil)
	}
	if s.audit == nil {
		s.audit = audit.NewMemory(0)
	}
	if s.events == nil {
		s.events = events.NoopPublisher{}
	}
	if s.limiter == nil {
		s.limiter = NewExportLimiter(0, 0)
	}
	if s.language == "" {
		s.language = i18n.Default
	}
	if s.pageSize <= 0 {
		s.pageSize = core.DefaultPageSize
	}
	if s.ttl <= 0 {
		s.ttl = DefaultSessionTTL
	}
	if s.maxSessions <= 0 {
		s.maxSessions = DefaultMaxSessions
	}
	return s
}

// Language returns the fallback language of views.
func (s *Service) Language() i18n.Language { return s.language }

// AuditLog returns the audit store.
func (s *Service) AuditLog() audit.Store { return s.audit }

// Limiter returns the export limiter.
func (s *Service) Limiter() *ExportLimiter { return s.limiter }

// Tables returns the registered table definitions.
func (s *Service) Tables() []core.TableDefinition { return core.All() }

// Open starts a session on the table registered under tableKey and loads
// its rows. A failing fetch does not fail Open: the session is returned
// with the failure recorded in its state so the caller can show it and
// retry with Reload.
func (s *Service) Open(ctx context.Context, tableKey string) (*Session, error) {
	def, ok := core.Get(tableKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableKey)
	}

	s.mu.RLock()
	full := len(s.sessions) >= s.maxSessions
	s.mu.RUnlock()
	if full {
		return nil, ErrTooManySessions
	}

	schema, err := def.Schema()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", tableKey, err)
	}
	src, err := s.provider.Open(ctx, def)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", tableKey, err)
	}
	id, err := idgen.New(idgen.PrefixSession)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", tableKey, err)
	}

	sess := newSession(id, def, core.NewStore(schema, def.KeyFunc()), src, s)
	if err := sess.store.Dispatch(core.SetPageSize{Size: s.pageSize}); err != nil {
		return nil, err
	}
	if err := sess.Reload(ctx); err != nil {
		logging.FromContext(ctx).Warn("initial fetch failed", "session", id, "table", tableKey, "error", err)
	}

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	rows := len(sess.State().Rows)
	logging.FromContext(ctx).Info("session opened", "session", id, "table", tableKey, "rows", rows)
	s.publish(ctx, events.New(events.TopicSessionOpened, tableKey, id, events.SessionChange{Rows: rows}))
	return sess, nil
}

// Session returns the open session with id and marks it used.
func (s *Service) Session(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess.touch()
	return sess, nil
}

// Sessions returns the open sessions ordered by id.
func (s *Service) Sessions() []*Session {
	s.mu.RLock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of open sessions.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close ends the session with id.
func (s *Service) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.closed(ctx, sess, "closed")
	return nil
}

// Reap closes sessions idle since before now minus the session TTL.
// Returns the number of sessions closed.
func (s *Service) Reap(ctx context.Context, now time.Time) int {
	cutoff := now.Add(-s.ttl)

	var expired []*Session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.LastUsed().Before(cutoff) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		s.closed(ctx, sess, "expired")
	}
	return len(expired)
}

// Shutdown closes every session and the event publisher.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range all {
		s.closed(ctx, sess, "shutdown")
	}
	return s.events.Close()
}

func (s *Service) closed(ctx context.Context, sess *Session, reason string) {
	slog.Info("session closed", "session", sess.ID, "table", sess.def.Info.Key, "reason", reason)
	s.publish(ctx, events.New(events.TopicSessionClosed, sess.def.Info.Key, sess.ID,
		events.SessionChange{Reason: reason, Rows: len(sess.State().Rows)}))
}

// publish sends event, logging failures. Event delivery never fails the
// operation that produced it.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		logging.FromContext(ctx).Warn("publish event failed",
			"topic", event.Topic, "table", event.TableKey, "session", event.SessionID, "error", err)
	}
}
