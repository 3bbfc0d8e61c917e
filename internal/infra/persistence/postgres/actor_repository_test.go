package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"platter/internal/domain/entity"
	domainerrors "platter/internal/domain/errors"
	"platter/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		DisableAutomaticPing:   true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	return db, mock
}

var userColumns = []string{"id", "full_name", "email", "password_hash", "created_at", "updated_at"}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(id.String(), "A", "a@x.com", "hash", now, now))

	actor, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, id, actor.ID)
	assert.Equal(t, entity.ActorKindUser, actor.Kind)
	assert.Equal(t, "A", actor.DisplayName)
	assert.Equal(t, "hash", actor.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByEmail(context.Background(), "missing@x.com")
	assert.ErrorIs(t, err, repository.ErrActorNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(sql.ErrConnDone)

	_, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestFoodPartnerRepository_FindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFoodPartnerRepository(db)

	id := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT \* FROM "food_partners" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}).
			AddRow(id.String(), "Tasty", "p@x.com", "hash", now, now))

	actor, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entity.ActorKindPartner, actor.Kind)
	assert.Equal(t, "Tasty", actor.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnResult(sqlmock.NewResult(0, 1))

	actor := &entity.Actor{DisplayName: "A", Email: "a@x.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), actor))

	assert.NotEqual(t, uuid.Nil, actor.ID)
	assert.Equal(t, byte(7), byte(actor.ID.Version()))
	assert.Equal(t, entity.ActorKindUser, actor.Kind)
	assert.False(t, actor.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFoodPartnerRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFoodPartnerRepository(db)

	mock.ExpectExec(`INSERT INTO "food_partners"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_food_partners_email"})

	err := repo.Create(context.Background(), &entity.Actor{DisplayName: "P", Email: "p@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{Code: "23502"})

	err := repo.Create(context.Background(), &entity.Actor{Email: "a@x.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrDuplicateEmail)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "missing required user column", appErr.Details())
}
