package service

import (
	"context"

	"message-board/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetAllByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, organizationID)
	messages, _ := args.Get(0).([]models.Message)
	return messages, args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Message, error) {
	args := m.Called(ctx, organizationID, id)
	message, _ := args.Get(0).(*models.Message)
	return message, args.Error(1)
}

func (m *mockRepository) GetByTitle(ctx context.Context, organizationID uuid.UUID, title string) (*models.Message, error) {
	args := m.Called(ctx, organizationID, title)
	message, _ := args.Get(0).(*models.Message)
	return message, args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	args := m.Called(ctx, message)
	if fn, ok := args.Get(0).(func(*models.Message) *models.Message); ok {
		return fn(message), args.Error(1)
	}
	created, _ := args.Get(0).(*models.Message)
	return created, args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, message *models.Message) (*models.Message, error) {
	args := m.Called(ctx, message)
	if fn, ok := args.Get(0).(func(*models.Message) *models.Message); ok {
		return fn(message), args.Error(1)
	}
	updated, _ := args.Get(0).(*models.Message)
	return updated, args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, organizationID, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
