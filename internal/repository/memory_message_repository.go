package repository

import (
	"context"
	"sort"
	"sync"

	"message-board/backend/internal/models"

	"github.com/google/uuid"
)

type memoryKey struct {
	organizationID uuid.UUID
	id             uuid.UUID
}

// MemoryMessageRepository keeps messages in process memory. Records are
// copied on the way in and out so callers never share state with the store.
type MemoryMessageRepository struct {
	mu       sync.RWMutex
	messages map[memoryKey]models.Message
}

// NewMemoryMessageRepository creates an empty in-memory repository
func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{messages: make(map[memoryKey]models.Message)}
}

// GetAllByOrganization returns the organization's messages, oldest first
func (r *MemoryMessageRepository) GetAllByOrganization(_ context.Context, organizationID uuid.UUID) ([]models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	messages := []models.Message{}
	for key, message := range r.messages {
		if key.organizationID == organizationID {
			messages = append(messages, message)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

// GetByID returns a copy of the message or ErrNotFound
func (r *MemoryMessageRepository) GetByID(_ context.Context, organizationID, id uuid.UUID) (*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	message, ok := r.messages[memoryKey{organizationID, id}]
	if !ok {
		return nil, ErrNotFound
	}
	return &message, nil
}

// GetByTitle returns a copy of the message with exactly this title or ErrNotFound
func (r *MemoryMessageRepository) GetByTitle(_ context.Context, organizationID uuid.UUID, title string) (*models.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for key, message := range r.messages {
		if key.organizationID == organizationID && message.Title == title {
			return &message, nil
		}
	}
	return nil, ErrNotFound
}

// Create stores a copy of the message
func (r *MemoryMessageRepository) Create(_ context.Context, message *models.Message) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages[memoryKey{message.OrganizationID, message.ID}] = *message
	return message, nil
}

// Update replaces the stored copy; ErrNotFound when it is gone
func (r *MemoryMessageRepository) Update(_ context.Context, message *models.Message) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memoryKey{message.OrganizationID, message.ID}
	if _, ok := r.messages[key]; !ok {
		return nil, ErrNotFound
	}
	r.messages[key] = *message
	return message, nil
}

// Delete reports whether a message was removed
func (r *MemoryMessageRepository) Delete(_ context.Context, organizationID, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memoryKey{organizationID, id}
	if _, ok := r.messages[key]; !ok {
		return false, nil
	}
	delete(r.messages, key)
	return true, nil
}

// Ping always succeeds
func (r *MemoryMessageRepository) Ping(context.Context) error {
	return nil
}
