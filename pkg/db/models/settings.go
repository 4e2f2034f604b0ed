package models

import (
	"time"

	dbtypes "github.com/docudeskhq/docudesk-backend/pkg/db/types"
	"github.com/google/uuid"
)

// AppSetting is one keyed JSON blob of application configuration.
type AppSetting struct {
	Key       string          `gorm:"column:setting_key;primaryKey"`
	Value     dbtypes.JSONMap `gorm:"column:setting_value;type:text;not null"`
	UpdatedBy *uuid.UUID      `gorm:"column:updated_by;type:uuid"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
