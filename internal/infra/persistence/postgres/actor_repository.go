// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"platter/internal/domain/entity"
	domainerrors "platter/internal/domain/errors"
	"platter/internal/domain/repository"
	"platter/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// actorRepository implements repository.ActorRepository for one actor table.
// M is the GORM model of that table; the mappers convert it to and from the domain entity.
type actorRepository[M any] struct {
	db         *gorm.DB
	kind       entity.ActorKind
	toDomain   func(*M) *entity.Actor
	fromDomain func(*entity.Actor) *M
}

// FindByEmail retrieves the actor registered with the given email.
func (repo *actorRepository[M]) FindByEmail(ctx context.Context, email string) (*entity.Actor, error) {
	var row M
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrActorNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find "+repo.kind.String()+" by email")
	}

	return repo.toDomain(&row), nil
}

// FindByID retrieves an actor by its unique ID.
func (repo *actorRepository[M]) FindByID(ctx context.Context, id uuid.UUID) (*entity.Actor, error) {
	var row M
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrActorNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find "+repo.kind.String()+" by id")
	}

	return repo.toDomain(&row), nil
}

// Create inserts a new actor. The id is generated here (UUIDv7, time ordered);
// the unique index on email turns a concurrent duplicate into ErrDuplicateEmail.
func (repo *actorRepository[M]) Create(ctx context.Context, actor *entity.Actor) error {
	if actor.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate actor id")
		}
		actor.ID = id
	}
	actor.Kind = repo.kind

	row := repo.fromDomain(actor)
	if err := repo.db.WithContext(ctx).Create(row).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.WithStack(repository.ErrDuplicateEmail)
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "missing required "+repo.kind.String()+" column")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create "+repo.kind.String())
	}

	*actor = *repo.toDomain(row)

	return nil
}

// NewUserRepository returns the credential store backed by the 'users' table.
func NewUserRepository(db *gorm.DB) repository.ActorRepository {
	return &actorRepository[model.UserModel]{
		db:         db,
		kind:       entity.ActorKindUser,
		toDomain:   toUserDomain,
		fromDomain: fromUserDomain,
	}
}

// NewFoodPartnerRepository returns the credential store backed by the 'food_partners' table.
func NewFoodPartnerRepository(db *gorm.DB) repository.ActorRepository {
	return &actorRepository[model.FoodPartnerModel]{
		db:         db,
		kind:       entity.ActorKindPartner,
		toDomain:   toFoodPartnerDomain,
		fromDomain: fromFoodPartnerDomain,
	}
}

// --- Mapper Functions ---

func toUserDomain(data *model.UserModel) *entity.Actor {
	return &entity.Actor{
		ID:           data.ID,
		Kind:         entity.ActorKindUser,
		DisplayName:  data.FullName,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromUserDomain(data *entity.Actor) *model.UserModel {
	return &model.UserModel{
		ID:           data.ID,
		FullName:     data.DisplayName,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
	}
}

func toFoodPartnerDomain(data *model.FoodPartnerModel) *entity.Actor {
	return &entity.Actor{
		ID:           data.ID,
		Kind:         entity.ActorKindPartner,
		DisplayName:  data.Name,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

func fromFoodPartnerDomain(data *entity.Actor) *model.FoodPartnerModel {
	return &model.FoodPartnerModel{
		ID:           data.ID,
		Name:         data.DisplayName,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
	}
}
