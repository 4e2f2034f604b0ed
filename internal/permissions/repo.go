package permissions

import (
	"context"
	"errors"

	"github.com/docudeskhq/docudesk-backend/internal/repo"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists explicit per-user permission grants.
type Repository struct {
	repo.Base
}

// NewRepository constructs a permissions repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Find returns the grant row for (user, module, action), or nil when absent.
func (r *Repository) Find(ctx context.Context, userID uuid.UUID, module enums.PermissionModule, action enums.PermissionAction) (*models.UserPermission, error) {
	var row models.UserPermission
	err := r.DB(ctx).
		Where("user_id = ? AND module = ? AND action = ?", userID, module, action).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// ListByUser returns all grant rows for a user.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserPermission, error) {
	var rows []models.UserPermission
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("module ASC, action ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert writes or updates one grant row keyed by (user, module, action).
func (r *Repository) Upsert(ctx context.Context, row *models.UserPermission) error {
	existing, err := r.Find(ctx, row.UserID, row.Module, row.Action)
	if err != nil {
		return err
	}
	if existing == nil {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		return r.DB(ctx).Create(row).Error
	}
	return r.DB(ctx).
		Model(&models.UserPermission{}).
		Where("id = ?", existing.ID).
		Updates(map[string]any{
			"granted":    row.Granted,
			"granted_by": row.GrantedBy,
		}).Error
}

// DeleteByUser removes every grant row for the user.
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.DB(ctx).
		Where("user_id = ?", userID).
		Delete(&models.UserPermission{}).Error
}
