package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/config"
	"github.com/unixchange/unixchange-sync-service/internal/models"
)

// EventType names the engagement and order events emitted to the analytics
// pipeline.
type EventType string

const (
	EventTypeViewRecorded EventType = "engagement.view"
	EventTypeLikeToggled  EventType = "engagement.like"
	EventTypeCommentAdded EventType = "engagement.comment"
	EventTypeOrderCreated EventType = "order.created"
)

// Event is the wire envelope published to Kafka.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	EntityID  string          `json:"entity_id"`
	ActorID   string          `json:"actor_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher is the sink for engagement and order events. Publishing is
// best-effort everywhere: failures are logged and never fail the caller.
type Publisher interface {
	PublishEngagement(ctx context.Context, eventType EventType, postID, actorID string) error
	PublishOrderCreated(ctx context.Context, order models.Order) error
	Close() error
}

// KafkaPublisher publishes events to Kafka.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.EngagementTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		logger: logger.Named("events"),
	}
}

func (p *KafkaPublisher) PublishEngagement(ctx context.Context, eventType EventType, postID, actorID string) error {
	event := &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  postID,
		ActorID:   actorID,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, event)
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	event := &Event{
		ID:        uuid.NewString(),
		Type:      EventTypeOrderCreated,
		EntityID:  order.ID,
		ActorID:   order.Buyer,
		Data:      data,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, event)
}

func (p *KafkaPublisher) publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.EntityID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}

	p.logger.Debug("event published",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("entity_id", event.EntityID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	p.logger.Info("closing kafka publisher")
	return p.writer.Close()
}

// NoopPublisher drops all events. Used when engagement events are disabled
// and in tests.
type NoopPublisher struct{}

func (NoopPublisher) PublishEngagement(context.Context, EventType, string, string) error {
	return nil
}

func (NoopPublisher) PublishOrderCreated(context.Context, models.Order) error { return nil }

func (NoopPublisher) Close() error { return nil }
