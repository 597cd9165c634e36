// Package events publishes summary completion events.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/metrics"
	"github.com/segmentio/kafka-go"
)

// Event types.
const (
	TypeCompleted = "summary.completed"
	TypeFailed    = "summary.failed"
	TypeSkipped   = "summary.skipped"
)

// Event describes the outcome of one transcript run.
type Event struct {
	Type          string    `json:"type"`
	RunID         string    `json:"run_id"`
	Title         string    `json:"title"`
	Date          string    `json:"date"`
	Source        string    `json:"source"`
	Output        string    `json:"output,omitempty"`
	Provider      string    `json:"provider,omitempty"`
	Model         string    `json:"model,omitempty"`
	Strategy      string    `json:"strategy,omitempty"`
	Score         float64   `json:"score,omitempty"`
	LowConfidence bool      `json:"low_confidence,omitempty"`
	Sections      int       `json:"sections,omitempty"`
	Unavailable   int       `json:"unavailable_sections,omitempty"`
	Error         string    `json:"error,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher sends events to Kafka, or only logs them when disabled.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type implPublisher struct {
	writer  messageWriter
	topic   string
	enabled bool
	metrics *metrics.Metrics
	logger  logger.Logger
}

// New creates a Publisher. Without brokers or with events disabled it runs in
// log-only mode.
func New(cfg config.EventsConfig, m *metrics.Metrics, log logger.Logger) Publisher {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info(context.Background(), "Events disabled, using log-only mode")
		return &implPublisher{topic: cfg.Topic, metrics: m, logger: log}
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    &kafka.Transport{Dial: dialer.DialFunc},
	}

	log.Info(context.Background(), "Kafka publisher initialized (brokers: %v, topic: %s)", cfg.Brokers, cfg.Topic)
	return newWithWriter(writer, cfg.Topic, m, log)
}

func newWithWriter(w messageWriter, topic string, m *metrics.Metrics, log logger.Logger) *implPublisher {
	return &implPublisher{writer: w, topic: topic, enabled: true, metrics: m, logger: log}
}

// Publish writes ev keyed by run id. Errors are returned for logging; callers
// do not fail a run because of them.
func (p *implPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.logger.Debug(ctx, "Publishing %s to %s: %s", ev.Type, p.topic, payload)

	if !p.enabled || p.writer == nil {
		p.record(ev.Type, nil)
		return nil
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.RunID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(ev.Type)},
		},
	})
	p.record(ev.Type, err)
	if err != nil {
		return fmt.Errorf("write to kafka: %w", err)
	}
	return nil
}

func (p *implPublisher) record(eventType string, err error) {
	if p.metrics != nil {
		p.metrics.RecordEvent(eventType, err)
	}
}

func (p *implPublisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
