package payroll

import (
	"context"
	"errors"

	"github.com/docudeskhq/docudesk-backend/internal/repo"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists salary configurations and generated records.
type Repository struct {
	repo.Base
}

// NewRepository constructs a payroll repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// UpsertConfig deactivates any active config for the user and inserts the new
// one, atomically. History is kept as inactive rows.
func (r *Repository) UpsertConfig(ctx context.Context, config *models.StaffSalaryConfig) error {
	if config.ID == uuid.Nil {
		config.ID = uuid.New()
	}
	config.IsActive = true
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.StaffSalaryConfig{}).
			Where("user_id = ? AND is_active = ?", config.UserID, true).
			Update("is_active", false).Error
		if err != nil {
			return err
		}
		return tx.Create(config).Error
	})
}

// FindActiveConfig loads the active config for one user. Returns nil-nil when
// the user has none.
func (r *Repository) FindActiveConfig(ctx context.Context, userID uuid.UUID) (*models.StaffSalaryConfig, error) {
	var config models.StaffSalaryConfig
	err := r.DB(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

// ListActiveConfigs returns every active salary config.
func (r *Repository) ListActiveConfigs(ctx context.Context) ([]models.StaffSalaryConfig, error) {
	var out []models.StaffSalaryConfig
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRecord inserts a generated salary record.
func (r *Repository) CreateRecord(ctx context.Context, record *models.SalaryRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.DB(ctx).Create(record).Error
}

// FindRecordByID loads one salary record.
func (r *Repository) FindRecordByID(ctx context.Context, id uuid.UUID) (*models.SalaryRecord, error) {
	var record models.SalaryRecord
	if err := r.DB(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// RecordExists reports whether a record already covers the (user, period).
func (r *Repository) RecordExists(ctx context.Context, userID uuid.UUID, month, year int) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.SalaryRecord{}).
		Where("user_id = ? AND pay_month = ? AND pay_year = ?", userID, month, year).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListRecords returns salary records under the filter, newest period first.
func (r *Repository) ListRecords(ctx context.Context, filter RecordFilter) ([]models.SalaryRecord, error) {
	query := r.DB(ctx).Model(&models.SalaryRecord{}).
		Order("pay_year DESC, pay_month DESC")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Month != nil {
		query = query.Where("pay_month = ?", *filter.Month)
	}
	if filter.Year != nil {
		query = query.Where("pay_year = ?", *filter.Year)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var out []models.SalaryRecord
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRecord persists the whole salary record.
func (r *Repository) UpdateRecord(ctx context.Context, record *models.SalaryRecord) error {
	return r.DB(ctx).Save(record).Error
}
