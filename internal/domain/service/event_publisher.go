package service

import (
	"context"
	"time"
)

// Auth event types.
const (
	EventActorRegistered = "actor.registered"
	EventActorLoggedIn   = "actor.logged_in"
)

// AuthEvent announces an account lifecycle change to downstream consumers
// (welcome mails, analytics). It never carries credentials.
type AuthEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	Type       string    `json:"type"`
	ActorID    string    `json:"actor_id"`
	ActorKind  string    `json:"actor_kind"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAuthEvent publishes an auth event for async processing
	PublishAuthEvent(ctx context.Context, event *AuthEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
