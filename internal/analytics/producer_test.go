package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNewProducerDisabledWithoutBrokers(t *testing.T) {
	if p := NewProducer(nil, "game-events"); p != nil {
		t.Fatal("expected nil producer without brokers")
	}
	if p := NewProducer([]string{"localhost:9092"}, ""); p != nil {
		t.Fatal("expected nil producer without topic")
	}

	// a nil producer must be usable
	var p *Producer
	p.Publish(context.Background(), "game_started", map[string]any{"gameId": "g"})
	p.Close()
}

func TestPublishWritesEnvelope(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w)

	p.Publish(context.Background(), "game_finished", map[string]any{
		"gameId": "g-1",
		"result": "ai_win",
	})
	p.Close()

	if len(w.msgs) != 1 {
		t.Fatalf("wrote %d messages, want 1", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "g-1" {
		t.Errorf("key = %q, want g-1", msg.Key)
	}

	var got envelope
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatal(err)
	}
	if got.Event != "game_finished" || got.Payload["result"] != "ai_win" || got.Timestamp.IsZero() {
		t.Fatalf("envelope = %+v", got)
	}
}

func TestPublishSwallowsWriteErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := NewProducerWithWriter(w)

	p.Publish(context.Background(), "move_made", map[string]any{"column": 3})
	p.Close()

	if len(w.msgs) != 1 || !w.closed {
		t.Fatalf("msgs = %d, closed = %v", len(w.msgs), w.closed)
	}
	if w.msgs[0].Key != nil {
		t.Fatalf("no gameId means no key, got %q", w.msgs[0].Key)
	}
}

type slowWriter struct {
	fakeWriter
}

func (s *slowWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	time.Sleep(time.Millisecond)
	return s.fakeWriter.WriteMessages(ctx, msgs...)
}

func TestPublishKeepsOrderAndDrainsOnClose(t *testing.T) {
	w := &slowWriter{}
	p := NewProducerWithWriter(w)

	for i := 0; i < 20; i++ {
		p.Publish(context.Background(), "move_made", map[string]any{"gameId": "g-1", "seq": i})
	}
	p.Publish(context.Background(), "game_finished", map[string]any{"gameId": "g-1"})
	p.Close()

	if len(w.msgs) != 21 || !w.closed {
		t.Fatalf("msgs = %d, closed = %v", len(w.msgs), w.closed)
	}
	for i, msg := range w.msgs {
		var got envelope
		if err := json.Unmarshal(msg.Value, &got); err != nil {
			t.Fatal(err)
		}
		if i < 20 && fmt.Sprint(got.Payload["seq"]) != fmt.Sprint(i) {
			t.Fatalf("message %d carries seq %v", i, got.Payload["seq"])
		}
		if i == 20 && got.Event != "game_finished" {
			t.Fatalf("last event = %s", got.Event)
		}
	}
}

func TestPublishAfterCloseIsDropped(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w)
	p.Close()
	p.Close()

	p.Publish(context.Background(), "move_made", map[string]any{"gameId": "g-1"})
	if len(w.msgs) != 0 {
		t.Fatalf("wrote %d messages after close", len(w.msgs))
	}
}
