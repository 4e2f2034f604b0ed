package models

import (
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// ActivityLog is an append-only audit entry written by the domain services.
type ActivityLog struct {
	ID         uuid.UUID            `gorm:"type:uuid;primaryKey"`
	ActorID    *uuid.UUID           `gorm:"column:actor_id;type:uuid;index"`
	EntityType string               `gorm:"column:entity_type;not null;index"`
	EntityID   string               `gorm:"column:entity_id;not null;index"`
	Action     enums.ActivityAction `gorm:"column:action;not null"`
	Detail     string               `gorm:"column:detail"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
}
