package repository

import (
	"context"
	"errors"

	"message-board/backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no message matches the organization and key
var ErrNotFound = errors.New("message not found")

// MessageRepository persists messages. Every operation is scoped to an organization.
type MessageRepository interface {
	GetAllByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Message, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Message, error)
	GetByTitle(ctx context.Context, organizationID uuid.UUID, title string) (*models.Message, error)
	Create(ctx context.Context, message *models.Message) (*models.Message, error)
	// Update returns ErrNotFound when the record no longer exists
	Update(ctx context.Context, message *models.Message) (*models.Message, error)
	// Delete reports whether a record was removed
	Delete(ctx context.Context, organizationID, id uuid.UUID) (bool, error)
	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error
}
