package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/HammerMeetNail/friendfeed/internal/logging"
	"github.com/HammerMeetNail/friendfeed/internal/models"
)

var timeNow = time.Now

// EventPublisher announces committed state changes to other processes.
type EventPublisher interface {
	PublishRelationshipEvent(ctx context.Context, event models.RelationshipEvent) error
	PublishPostCreated(ctx context.Context, event models.PostCreatedEvent) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishRelationshipEvent(ctx context.Context, event models.RelationshipEvent) error {
	return nil
}

func (NopPublisher) PublishPostCreated(ctx context.Context, event models.PostCreatedEvent) error {
	return nil
}

type natsConn interface {
	PublishMsg(msg *nats.Msg) error
}

// NatsPublisher publishes JSON events on subjects of the form
// "<prefix>.relationship.<type>" and "<prefix>.post.created".
type NatsPublisher struct {
	conn   natsConn
	prefix string
}

func NewNatsPublisher(nc *nats.Conn, prefix string) *NatsPublisher {
	return &NatsPublisher{conn: nc, prefix: prefix}
}

func (p *NatsPublisher) PublishRelationshipEvent(ctx context.Context, event models.RelationshipEvent) error {
	return p.publish(ctx, p.subject("relationship", string(event.Type)), string(event.Type), event)
}

func (p *NatsPublisher) PublishPostCreated(ctx context.Context, event models.PostCreatedEvent) error {
	return p.publish(ctx, p.subject("post", "created"), "post.created", event)
}

func (p *NatsPublisher) subject(parts ...string) string {
	subject := p.prefix
	for _, part := range parts {
		if subject == "" {
			subject = part
			continue
		}
		subject += "." + part
	}
	return subject
}

func (p *NatsPublisher) publish(ctx context.Context, subject, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set("Event-Type", eventType)
	// Consumers continue the request's trace from these headers.
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publishing %s: %w", subject, err)
	}
	return nil
}

// Events are published after the transaction commits; a failed publish does
// not undo the state change, it is only logged.
func publishRelationshipEvent(ctx context.Context, events EventPublisher, event models.RelationshipEvent) {
	if err := events.PublishRelationshipEvent(ctx, event); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("Failed to publish relationship event", logging.Fields{
			"type":            string(event.Type),
			"relationship_id": event.RelationshipID.String(),
		})
	}
}

func publishPostCreated(ctx context.Context, events EventPublisher, event models.PostCreatedEvent) {
	if err := events.PublishPostCreated(ctx, event); err != nil {
		logging.FromContext(ctx).WithError(err).Warn("Failed to publish post event", logging.Fields{
			"post_id": event.PostID.String(),
		})
	}
}
