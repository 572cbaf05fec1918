// Package events carries domain events from the web service to the
// notifier over a RabbitMQ queue.
package events

import (
	"context"
	"time"

	"github.com/dalemusser/careerhub/internal/app/system/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event types.
const (
	ApplicationStatusChanged    = "application.status_changed"
	AdmissionPublished          = "admission.published"
	JobApplicationStatusChanged = "job_application.status_changed"
)

// Event is the wire format. The recipient is resolved by the publisher so
// the consumer never needs the database.
type Event struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	OccurredAt     time.Time         `json:"occurred_at"`
	RecipientEmail string            `json:"recipient_email"`
	RecipientName  string            `json:"recipient_name"`
	Data           map[string]string `json:"data,omitempty"`
}

// New stamps an ID and time on a new event.
func New(typ, email, name string, data map[string]string) Event {
	return Event{
		ID:             uuid.NewString(),
		Type:           typ,
		OccurredAt:     time.Now().UTC(),
		RecipientEmail: email,
		RecipientName:  name,
		Data:           data,
	}
}

// Publisher hands events to the bus.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards events. Used when no AMQP URL is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Emit publishes e and records the outcome. Notification delivery is best
// effort: failures are logged and never fail the originating request.
func Emit(ctx context.Context, pub Publisher, log *zap.Logger, e Event) {
	if pub == nil {
		return
	}
	if e.RecipientEmail == "" {
		log.Debug("event has no recipient; skipping", zap.String("type", e.Type))
		return
	}
	if err := pub.Publish(ctx, e); err != nil {
		metrics.EventsPublished.WithLabelValues(e.Type, "failed").Inc()
		log.Warn("publish event failed",
			zap.String("type", e.Type),
			zap.String("event_id", e.ID),
			zap.Error(err))
		return
	}
	metrics.EventsPublished.WithLabelValues(e.Type, "ok").Inc()
}
