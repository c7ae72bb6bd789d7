package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/alfredjeanlab/notes/internal/model"
)

func TestNoopPublisher(t *testing.T) {
	var pub Publisher = NoopPublisher{}
	if err := pub.Publish(context.Background(), TopicNoteCreated, NoteCreated{}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestNATSPublisher_ImplementsPublisher(t *testing.T) {
	var _ Publisher = (*NATSPublisher)(nil)
}

func TestNATSPublisher_Publish(t *testing.T) {
	url := startTestNATS(t)

	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("connecting subscriber: %v", err)
	}
	defer nc.Close()

	ch := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(TopicNoteCreated, ch)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer sub.Unsubscribe() //nolint:errcheck
	nc.Flush()

	event := NoteCreated{Note: &model.Note{ID: 42, Title: "Buy milk", Status: model.StatusPending}}
	if err := pub.Publish(context.Background(), TopicNoteCreated, event); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	pub.conn.Flush()

	select {
	case msg := <-ch:
		var got NoteCreated
		if err := json.Unmarshal(msg.Data, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Note.ID != 42 || got.Note.Title != "Buy milk" {
			t.Errorf("got note %+v, want id 42 Buy milk", got.Note)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestNATSPublisher_CancelledContext(t *testing.T) {
	url := startTestNATS(t)
	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pub.Publish(ctx, TopicNoteDeleted, NoteDeleted{NoteID: 1}); err == nil {
		t.Error("Publish with cancelled context should fail")
	}
}

func TestNATSPublisher_UnmarshalableEvent(t *testing.T) {
	url := startTestNATS(t)
	pub, err := NewNATSPublisher(url)
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	if err := pub.Publish(context.Background(), TopicNoteUpdated, make(chan int)); err == nil {
		t.Error("Publish of a channel should fail to marshal")
	}
}

func TestNewNATSPublisher_BadURL(t *testing.T) {
	if _, err := NewNATSPublisher("nats://127.0.0.1:1", nats.MaxReconnects(0), nats.Timeout(100*time.Millisecond)); err == nil {
		t.Error("expected connection error")
	}
}

func TestEventPayloads(t *testing.T) {
	for _, tc := range []struct {
		name  string
		event any
		want  string
	}{
		{"Toggled", NoteToggled{NoteID: 1, UserID: 2, Status: model.StatusCompleted}, `{"note_id":1,"user_id":2,"status":"completed"}`},
		{"Deleted", NoteDeleted{NoteID: 3, UserID: 2}, `{"note_id":3,"user_id":2}`},
		{"Registered", UserRegistered{UserID: 2, Username: "admin"}, `{"user_id":2,"username":"admin"}`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data, err := json.Marshal(tc.event)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tc.want {
				t.Errorf("payload = %s, want %s", data, tc.want)
			}
		})
	}
}
