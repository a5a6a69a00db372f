package repository

import (
	"context"
	"errors"
	"fmt"

	"message-board/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMessageRepository stores messages in PostgreSQL through gorm
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a gorm-backed message repository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Migrate creates or updates the messages table
func (r *GormMessageRepository) Migrate() error {
	return r.db.AutoMigrate(&models.Message{})
}

// GetAllByOrganization returns the organization's messages, oldest first
func (r *GormMessageRepository) GetAllByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// GetByID returns the message or ErrNotFound
func (r *GormMessageRepository) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&message).Error
	if err != nil {
		return nil, translate(err)
	}
	return &message, nil
}

// GetByTitle returns the message with exactly this title or ErrNotFound
func (r *GormMessageRepository) GetByTitle(ctx context.Context, organizationID uuid.UUID, title string) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND title = ?", organizationID, title).
		First(&message).Error
	if err != nil {
		return nil, translate(err)
	}
	return &message, nil
}

// Create inserts the message
func (r *GormMessageRepository) Create(ctx context.Context, message *models.Message) (*models.Message, error) {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return message, nil
}

// Update writes the mutable fields; ErrNotFound when the row is gone
func (r *GormMessageRepository) Update(ctx context.Context, message *models.Message) (*models.Message, error) {
	// A map keeps zero values such as is_active=false in the statement
	result := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("organization_id = ? AND id = ?", message.OrganizationID, message.ID).
		Updates(map[string]any{
			"title":      message.Title,
			"content":    message.Content,
			"is_active":  message.IsActive,
			"updated_at": message.UpdatedAt,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update message: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return message, nil
}

// Delete reports whether a row was removed
func (r *GormMessageRepository) Delete(ctx context.Context, organizationID, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		Delete(&models.Message{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete message: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Ping checks the database connection
func (r *GormMessageRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to query message: %w", err)
}
