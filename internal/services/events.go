package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/logger"
	"github.com/sbilibin2017/dream-vault/internal/models"
	"github.com/segmentio/kafka-go"
)

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// EventPublisher emits dream lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, userID, dreamID uuid.UUID)
}

// publishTimeout bounds a single Kafka write.
var publishTimeout = 500 * time.Millisecond

// KafkaEventPublisher publishes dream events as JSON messages keyed by dream id.
// Failures are logged and never returned.
type KafkaEventPublisher struct {
	kafkaWriter KafkaWriter
}

// NewKafkaEventPublisher creates a publisher. A nil writer disables publishing.
func NewKafkaEventPublisher(kafkaWriter KafkaWriter) *KafkaEventPublisher {
	return &KafkaEventPublisher{kafkaWriter: kafkaWriter}
}

// Publish sends a single event.
func (p *KafkaEventPublisher) Publish(ctx context.Context, eventType string, userID, dreamID uuid.UUID) {
	event := models.DreamEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		UserID:    userID.String(),
		DreamID:   dreamID.String(),
		Timestamp: timeNow().Unix(),
	}

	if p.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "event_id", event.EventID, "type", eventType)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal event for Kafka", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.DreamID),
		Value: data,
	}

	writeCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.kafkaWriter.WriteMessages(writeCtx, msg); err != nil {
		logger.Log.Errorw("Failed to publish event to Kafka", "event_id", event.EventID, "type", eventType, "error", err)
	} else {
		logger.Log.Infow("Event published to Kafka", "event_id", event.EventID, "type", eventType, "dream_id", event.DreamID)
	}
}
