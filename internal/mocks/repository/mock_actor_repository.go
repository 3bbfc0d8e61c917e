// Package repository holds testify mocks of the domain repository interfaces.
package repository

import (
	"context"

	"platter/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockActorRepository is a testify mock of repository.ActorRepository.
type MockActorRepository struct {
	mock.Mock
}

// NewMockActorRepository registers expectation checks with t's cleanup.
func NewMockActorRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockActorRepository {
	m := &MockActorRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockActorRepository) FindByEmail(ctx context.Context, email string) (*entity.Actor, error) {
	args := m.Called(ctx, email)
	actor, _ := args.Get(0).(*entity.Actor)

	return actor, args.Error(1)
}

func (m *MockActorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Actor, error) {
	args := m.Called(ctx, id)
	actor, _ := args.Get(0).(*entity.Actor)

	return actor, args.Error(1)
}

func (m *MockActorRepository) Create(ctx context.Context, actor *entity.Actor) error {
	return m.Called(ctx, actor).Error(0)
}
