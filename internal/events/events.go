// Package events publishes table mutation and export events.
package events

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/idgen"
)

// DefaultPrefix is the subject prefix when none is configured.
const DefaultPrefix = "gridstate"

// Event topic suffixes. Full subjects are "<prefix>.<table>.<suffix>".
const (
	TopicRowAdded      = "row.added"
	TopicRowEdited     = "row.edited"
	TopicRowDeleted    = "row.deleted"
	TopicRowsDeleted   = "rows.deleted"
	TopicExported      = "exported"
	TopicSessionOpened = "session.opened"
	TopicSessionClosed = "session.closed"
)

// TopicForAction maps an audit action to its event topic.
func TopicForAction(a core.AuditAction) string {
	switch a {
	case core.ActionRowAdd:
		return TopicRowAdded
	case core.ActionRowEdit:
		return TopicRowEdited
	case core.ActionRowDelete:
		return TopicRowDeleted
	case core.ActionBulkDelete:
		return TopicRowsDeleted
	case core.ActionExport:
		return TopicExported
	default:
		return string(a)
	}
}

// Subject builds the full subject of topic on table.
func Subject(prefix, table, topic string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	parts := []string{prefix}
	if table != "" {
		parts = append(parts, table)
	}
	return strings.Join(append(parts, topic), ".")
}

// Event is the envelope published for every topic.
type Event struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	TableKey  string    `json:"tableKey,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	Time      time.Time `json:"time"`
	Payload   any       `json:"payload,omitempty"`
}

// New builds an event with a fresh id.
func New(topic, table, session string, payload any) Event {
	return Event{
		ID:        idgen.Must(idgen.PrefixEvent),
		Topic:     topic,
		TableKey:  table,
		SessionID: session,
		Time:      time.Now().UTC(),
		Payload:   payload,
	}
}

// SessionChange is the payload of session opened and closed events.
type SessionChange struct {
	Reason string `json:"reason,omitempty"`
	Rows   int    `json:"rows"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of what was published.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Topics returns the topics published, in order.
func (r *Recorder) Topics() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Topic
	}
	return out
}
