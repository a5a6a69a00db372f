package repository

import (
	"context"
	"errors"

	"message-board/backend/internal/models"
	"message-board/backend/pkg/resilience"

	"github.com/google/uuid"
)

// IsStoreFailure reports whether err indicates an unhealthy store.
// Absence and caller cancellation are not store failures.
func IsStoreFailure(err error) bool {
	return err != nil &&
		!errors.Is(err, ErrNotFound) &&
		!errors.Is(err, context.Canceled)
}

// BreakerRepository guards another repository with a circuit breaker
type BreakerRepository struct {
	next    MessageRepository
	breaker *resilience.CircuitBreaker
}

// NewBreakerRepository wraps next so every call but Ping goes through breaker
func NewBreakerRepository(next MessageRepository, breaker *resilience.CircuitBreaker) *BreakerRepository {
	return &BreakerRepository{next: next, breaker: breaker}
}

func (r *BreakerRepository) GetAllByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		messages, err = r.next.GetAllByOrganization(ctx, organizationID)
		return err
	})
	return messages, err
}

func (r *BreakerRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Message, error) {
	var message *models.Message
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		message, err = r.next.GetByID(ctx, organizationID, id)
		return err
	})
	return message, err
}

func (r *BreakerRepository) GetByTitle(ctx context.Context, organizationID uuid.UUID, title string) (*models.Message, error) {
	var message *models.Message
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		message, err = r.next.GetByTitle(ctx, organizationID, title)
		return err
	})
	return message, err
}

func (r *BreakerRepository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	var created *models.Message
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		created, err = r.next.Create(ctx, message)
		return err
	})
	return created, err
}

func (r *BreakerRepository) Update(ctx context.Context, message *models.Message) (*models.Message, error) {
	var updated *models.Message
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		updated, err = r.next.Update(ctx, message)
		return err
	})
	return updated, err
}

func (r *BreakerRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = r.next.Delete(ctx, organizationID, id)
		return err
	})
	return deleted, err
}

// Ping bypasses the breaker so health checks always reach the store
func (r *BreakerRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}
