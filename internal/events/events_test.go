package events

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/nats-io/nats.go"
)

func TestNoopPublisher(t *testing.T) {
	var pub Publisher = NoopPublisher{}
	if err := pub.Publish(context.Background(), New(TopicExported, "people", "", nil)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestPublishersImplementPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
	var _ Publisher = (*Recorder)(nil)
	var _ Publisher = NoopPublisher{}
}

func TestSubject(t *testing.T) {
	tests := []struct {
		prefix, table, topic, want string
	}{
		{"", "people", TopicRowAdded, "gridstate.people.row.added"},
		{"acme", "orders", TopicExported, "acme.orders.exported"},
		{"acme", "", TopicSessionOpened, "acme.session.opened"},
	}
	for _, tt := range tests {
		if got := Subject(tt.prefix, tt.table, tt.topic); got != tt.want {
			t.Errorf("Subject(%q, %q, %q) = %q, want %q", tt.prefix, tt.table, tt.topic, got, tt.want)
		}
	}
}

func TestTopicForAction(t *testing.T) {
	tests := map[core.AuditAction]string{
		core.ActionRowAdd:     TopicRowAdded,
		core.ActionRowEdit:    TopicRowEdited,
		core.ActionRowDelete:  TopicRowDeleted,
		core.ActionBulkDelete: TopicRowsDeleted,
		core.ActionExport:     TopicExported,
	}
	for action, want := range tests {
		if got := TopicForAction(action); got != want {
			t.Errorf("TopicForAction(%q) = %q, want %q", action, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	e := New(TopicRowAdded, "people", "ses_1", map[string]int{"rows": 1})
	if !strings.HasPrefix(e.ID, "evt_") {
		t.Errorf("ID = %q, want evt_ prefix", e.ID)
	}
	if e.Time.IsZero() || e.Topic != TopicRowAdded || e.TableKey != "people" || e.SessionID != "ses_1" {
		t.Errorf("New() = %+v", e)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	ctx := context.Background()
	_ = r.Publish(ctx, New(TopicRowAdded, "people", "", nil))
	_ = r.Publish(ctx, New(TopicExported, "people", "", nil))

	got := r.Topics()
	if len(got) != 2 || got[0] != TopicRowAdded || got[1] != TopicExported {
		t.Errorf("Topics() = %v", got)
	}
}

// TestNATSPublisher_Publish runs against a live server named by
// GRIDSTATE_TEST_NATS_URL.
func TestNATSPublisher_Publish(t *testing.T) {
	url := os.Getenv("GRIDSTATE_TEST_NATS_URL")
	if url == "" {
		t.Skip("GRIDSTATE_TEST_NATS_URL not set")
	}

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe("test.people.>", ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe()
	if err := nc.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	pub, err := NewNATSPublisher(url, "test")
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	if err := pub.Publish(context.Background(), New(TopicRowAdded, "people", "ses_1", nil)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case msg := <-ch:
		if msg.Subject != "test.people.row.added" {
			t.Errorf("subject = %q, want test.people.row.added", msg.Subject)
		}
		var got Event
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.SessionID != "ses_1" {
			t.Errorf("SessionID = %q, want ses_1", got.SessionID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}
