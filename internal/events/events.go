// Package events publishes saisie change notifications to MQTT or Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types
const (
	TypeHRMSaved        = "saisiehrm.saved"
	TypeHRMDeleted      = "saisiehrm.deleted"
	TypeHIMCreated      = "saisiehim.created"
	TypeHIMDeleted      = "saisiehim.deleted"
	TypeLubrifiantAdded = "lubrifiant.added"
)

// Event is the JSON payload sent after a saisie write.
type Event struct {
	Type         string    `json:"type"`
	EntrepriseID string    `json:"entreprise_id"`
	EnginID      string    `json:"engin_id,omitempty"`
	Du           string    `json:"du,omitempty"`
	EntityID     string    `json:"entity_id"`
	HRM          *float64  `json:"hrm,omitempty"`
	HIM          *float64  `json:"him,omitempty"`
	At           time.Time `json:"at"`
}

// Publisher sends events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Topic is the MQTT topic for a tenant.
func Topic(entrepriseID string) string {
	return fmt.Sprintf("gmao/%s/saisies", entrepriseID)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// messageWriter is satisfied by *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events keyed by engin so one engin's events stay ordered.
type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(cfg config.EventsConfig) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	key := ev.EnginID
	if key == "" {
		key = ev.EntrepriseID
	}
	if err := p.w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: payload, Time: ev.At}); err != nil {
		return fmt.Errorf("failed to write kafka message: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

// New builds the publisher selected by cfg.Driver.
func New(cfg config.EventsConfig, logger *zap.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", "none":
		return NopPublisher{}, nil
	case "mqtt":
		client, err := dialMQTT(cfg.MQTT)
		if err != nil {
			return nil, err
		}
		logger.Info("Saisie events published over MQTT", zap.String("broker", cfg.MQTT.Broker))
		return NewMQTTPublisher(client), nil
	case "kafka":
		if len(cfg.Kafka.Brokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS is required when EVENTS_DRIVER=kafka")
		}
		logger.Info("Saisie events published over Kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
		return NewKafkaPublisher(cfg), nil
	default:
		return nil, fmt.Errorf("unknown EVENTS_DRIVER %q", cfg.Driver)
	}
}
