// Package memory provides an in-process credential store used for local runs and handler tests.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"platter/internal/domain/entity"
	"platter/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ActorRepository keeps one actor variant in memory. Email lookups are case-insensitive.
type ActorRepository struct {
	mu      sync.RWMutex
	kind    entity.ActorKind
	byID    map[uuid.UUID]*entity.Actor
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewActorRepository returns an empty store for the given variant.
func NewActorRepository(kind entity.ActorKind) *ActorRepository {
	return &ActorRepository{
		kind:    kind,
		byID:    make(map[uuid.UUID]*entity.Actor),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

var _ repository.ActorRepository = (*ActorRepository)(nil)

func (r *ActorRepository) FindByEmail(ctx context.Context, email string) (*entity.Actor, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return nil, repository.ErrActorNotFound
	}

	return clone(r.byID[id]), nil
}

func (r *ActorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Actor, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	actor, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrActorNotFound
	}

	return clone(actor), nil
}

// Create stores a copy of actor. The email check and insert happen under one lock,
// so of two concurrent registrations for the same email exactly one succeeds.
func (r *ActorRepository) Create(ctx context.Context, actor *entity.Actor) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := emailKey(actor.Email)
	if _, exists := r.byEmail[key]; exists {
		return errors.WithStack(repository.ErrDuplicateEmail)
	}

	if actor.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate actor id")
		}
		actor.ID = id
	}
	if _, exists := r.byID[actor.ID]; exists {
		return errors.Errorf("%s %s already exists", r.kind, actor.ID)
	}

	now := r.now().UTC()
	actor.Kind = r.kind
	actor.CreatedAt = now
	actor.UpdatedAt = now

	r.byID[actor.ID] = clone(actor)
	r.byEmail[key] = actor.ID

	return nil
}

// Len reports how many actors are stored.
func (r *ActorRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byID)
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func clone(actor *entity.Actor) *entity.Actor {
	if actor == nil {
		return nil
	}
	cp := *actor

	return &cp
}
