// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"platter/internal/domain/entity"
	"platter/internal/domain/repository"
)

// ActorVariant describes one kind of account the auth workflow serves.
type ActorVariant struct {
	Kind entity.ActorKind

	// Label is the human name used in messages, e.g. "User" or "Food partner".
	Label string

	// DisplayField is the request field carrying DisplayName, e.g. "fullName" or "name".
	DisplayField string

	Repo repository.ActorRepository
}

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// Password is only checked for presence: whitespace is a valid secret.
type RegisterInput struct {
	DisplayName string `json:"displayName" validate:"notblank"`
	Email       string `json:"email" validate:"notblank"`
	Password    string `json:"password" validate:"required"`
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// AuthOutput is returned by a successful register or login.
// Actor.PasswordHash is cleared before it leaves the usecase.
type AuthOutput struct {
	Actor     *entity.Actor
	Token     string
	ExpiresAt time.Time
}

// AuthUsecase is the credential issuance workflow for a single actor variant.
type AuthUsecase interface {
	Kind() entity.ActorKind
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	// Authenticate resolves a session token to the actor it was issued for.
	Authenticate(ctx context.Context, token string) (*entity.Actor, error)
}
