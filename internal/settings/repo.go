package settings

import (
	"context"

	"github.com/docudeskhq/docudesk-backend/internal/repo"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists application settings.
type Repository struct {
	repo.Base
}

// NewRepository constructs a settings repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Find loads one setting by key.
func (r *Repository) Find(ctx context.Context, key string) (*models.AppSetting, error) {
	var setting models.AppSetting
	if err := r.DB(ctx).First(&setting, "setting_key = ?", key).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// List returns all settings ordered by key.
func (r *Repository) List(ctx context.Context) ([]models.AppSetting, error) {
	var out []models.AppSetting
	if err := r.DB(ctx).Order("setting_key ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert writes the setting, replacing the value when the key exists.
func (r *Repository) Upsert(ctx context.Context, setting *models.AppSetting) error {
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_by", "updated_at"}),
	}).Create(setting).Error
}

// Delete removes one setting by key.
func (r *Repository) Delete(ctx context.Context, key string) error {
	return r.DB(ctx).Delete(&models.AppSetting{}, "setting_key = ?", key).Error
}
