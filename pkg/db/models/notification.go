package models

import (
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// Notification is an in-app message addressed to one user.
type Notification struct {
	ID         uuid.UUID              `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	Type       enums.NotificationType `gorm:"column:notification_type;not null"`
	Title      string                 `gorm:"column:title;not null"`
	Body       string                 `gorm:"column:body"`
	EntityType *string                `gorm:"column:entity_type"`
	EntityID   *string                `gorm:"column:entity_id"`
	ReadAt     *time.Time             `gorm:"column:read_at"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
}
