// Package events publishes document lifecycle notifications to Kafka for
// downstream consumers such as mail and analytics. Callers treat publishing
// as best effort; a broker outage must never fail the request that produced
// the event.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"mentorlink/internal/config"
)

// Event types emitted over the document lifecycle. Submitted covers both the
// first upload and a resubmission after rejection.
const (
	TypeSubmitted = "document.submitted"
	TypeReviewed  = "document.reviewed"
)

// DocumentEvent is the payload written to the topic. Messages are keyed by
// document id so per-document ordering survives partitioning.
type DocumentEvent struct {
	Type       string    `json:"type"`
	DocumentID string    `json:"document_id"`
	OwnerID    string    `json:"owner_id"`
	ActorID    string    `json:"actor_id"`
	FileName   string    `json:"file_name,omitempty"`
	Status     string    `json:"status,omitempty"`
	Feedback   string    `json:"feedback,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher sends document lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, ev DocumentEvent) error
	Close() error
}

// KafkaPublisher implements Publisher on a kafka-go writer.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev DocumentEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.DocumentID),
		Value: data,
		Time:  ev.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop satisfies Publisher for deployments without a broker.
type Noop struct{}

func (Noop) Publish(context.Context, DocumentEvent) error { return nil }
func (Noop) Close() error                                 { return nil }
