package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/metrics"
	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.EventsConfig
	}{
		{"disabled", config.EventsConfig{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", config.EventsConfig{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg, metrics.New(), logger.Nop()).(*implPublisher)
			if p.enabled || p.writer != nil {
				t.Errorf("publisher = %+v, want log-only", p)
			}
			if err := p.Publish(context.Background(), Event{Type: TypeCompleted}); err != nil {
				t.Errorf("Publish() in log-only mode error = %v", err)
			}
			if err := p.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}

func TestPublishWritesMessage(t *testing.T) {
	w := &fakeWriter{}
	p := newWithWriter(w, "minutes.summaries", metrics.New(), logger.Nop())

	err := p.Publish(context.Background(), Event{Type: TypeCompleted, RunID: "run-1", Title: "Standup", Score: 0.9})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("wrote %d messages, want 1", len(w.msgs))
	}

	msg := w.msgs[0]
	if string(msg.Key) != "run-1" {
		t.Errorf("Key = %s", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != TypeCompleted {
		t.Errorf("Headers = %+v", msg.Headers)
	}

	var ev Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if ev.Title != "Standup" || ev.OccurredAt.IsZero() {
		t.Errorf("event = %+v", ev)
	}

	p.Close()
	if !w.closed {
		t.Error("Close() did not close the writer")
	}
}

func TestPublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newWithWriter(w, "t", metrics.New(), logger.Nop())

	if err := p.Publish(context.Background(), Event{Type: TypeFailed, RunID: "r"}); err == nil {
		t.Error("Publish() error = nil, want broker error")
	}
}
