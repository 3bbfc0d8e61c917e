// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Actor is an account that can authenticate: either a regular user or a food partner.
// Both variants share the same shape; Kind tells them apart.
type Actor struct {
	ID           uuid.UUID // Assigned by the store on creation.
	Kind         ActorKind // Which variant this record belongs to.
	DisplayName  string    // fullName for users, name for food partners.
	Email        string    // Unique within the variant; the natural lookup key.
	PasswordHash string    // bcrypt hash. Never returned to callers.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
