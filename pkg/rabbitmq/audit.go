package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	amqp "github.com/streadway/amqp"
)

// AuditHandler returns a message handler that writes every delivered event to log.
// Bodies that are not JSON objects are rejected so the consumer nacks them.
func AuditHandler(log zerolog.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var envelope struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg.Body, &envelope); err != nil {
			return fmt.Errorf("malformed event body: %w", err)
		}
		log.Info().
			Str("routing_key", msg.RoutingKey).
			Str("event_id", envelope.ID).
			Str("event_type", envelope.Type).
			RawJSON("body", msg.Body).
			Msg("event received")
		return nil
	}
}
