package models

import (
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserPermission is an explicit (module, action) grant for one user.
// main_admin bypasses this table entirely.
type UserPermission struct {
	ID        uuid.UUID              `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_permission_user_module_action"`
	Module    enums.PermissionModule `gorm:"column:module;not null;uniqueIndex:idx_permission_user_module_action"`
	Action    enums.PermissionAction `gorm:"column:action;not null;uniqueIndex:idx_permission_user_module_action"`
	Granted   bool                   `gorm:"column:granted;not null;default:false"`
	GrantedBy *uuid.UUID             `gorm:"column:granted_by;type:uuid"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
