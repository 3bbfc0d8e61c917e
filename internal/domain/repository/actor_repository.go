// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"platter/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for actor persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrActorNotFound is returned when no actor of the variant matches the lookup.
	ErrActorNotFound = errors.New("actor not found")
	// ErrDuplicateEmail is returned when the store's uniqueness constraint rejects an insert.
	ErrDuplicateEmail = errors.New("email already exists")
)

// ActorRepository is the credential store for a single actor variant.
// Each variant (users, food partners) gets its own instance; emails are unique per instance.
type ActorRepository interface {
	// FindByEmail retrieves the actor registered with the given email.
	FindByEmail(ctx context.Context, email string) (*entity.Actor, error)

	// FindByID retrieves an actor by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Actor, error)

	// Create persists a new actor and fills in its ID and timestamps.
	Create(ctx context.Context, actor *entity.Actor) error
}
