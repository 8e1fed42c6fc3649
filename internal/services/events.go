package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Routing keys of the events published after a successful save.
const (
	EventUserProcessed     = "user.processed"
	EventUserValidated     = "user.validated"
	EventProductCreated    = "product.created"
	EventProductDiscounted = "product.discounted"
)

// EventPublisher sends a message body under a routing key.
// *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// Event is the envelope published for every domain event.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// publishEvent is best-effort: failures are logged and never reach the caller.
func publishEvent(publisher EventPublisher, log zerolog.Logger, eventType string, payload any) {
	if publisher == nil {
		log.Debug().Str("event", eventType).Msg("no event publisher configured, skipping publication")
		return
	}

	body, err := json.Marshal(Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("failed to marshal event")
		return
	}

	if err := publisher.Publish(eventType, body); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
		return
	}
	log.Debug().Str("event", eventType).Msg("event published")
}
