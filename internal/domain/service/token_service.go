package service

import (
	"time"

	"platter/internal/domain/entity"

	"github.com/google/uuid"
)

// TokenService issues and verifies the signed session tokens handed out on register and login.
// Tokens are not stored server-side; validity is signature plus expiry only.
type TokenService interface {
	// Issue signs a token naming the actor under its variant's claim key.
	Issue(actorID uuid.UUID, kind entity.ActorKind) (token string, expiresAt time.Time, err error)

	// Verify checks the token and returns the actor id it carries for the given variant.
	Verify(token string, kind entity.ActorKind) (uuid.UUID, error)

	// TTL returns how long issued tokens stay valid.
	TTL() time.Duration
}
