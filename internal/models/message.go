package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a titled note owned by a single organization
type Message struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID  `json:"organizationId" gorm:"type:uuid;not null;index:idx_messages_org_title,priority:1"`
	Title          string     `json:"title" gorm:"size:200;not null;index:idx_messages_org_title,priority:2"`
	Content        string     `json:"content" gorm:"size:1000;not null"`
	IsActive       bool       `json:"isActive" gorm:"not null;default:true"`
	CreatedAt      time.Time  `json:"createdAt" gorm:"not null"`
	UpdatedAt      *time.Time `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// CreateMessageRequest is the payload accepted when creating a message
type CreateMessageRequest struct {
	Title   string `json:"title" validate:"notblank,min=3,max=200"`
	Content string `json:"content" validate:"notblank,min=10,max=1000"`
}

// UpdateMessageRequest is the payload accepted when updating a message
type UpdateMessageRequest struct {
	Title    string `json:"title" validate:"notblank,min=3,max=200"`
	Content  string `json:"content" validate:"notblank,min=10,max=1000"`
	IsActive bool   `json:"isActive"`
}
