package attendance

import (
	"context"
	"errors"

	"github.com/docudeskhq/docudesk-backend/internal/repo"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists attendance records and leave requests.
type Repository struct {
	repo.Base
}

// NewRepository constructs an attendance repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateRecord inserts a new attendance row.
func (r *Repository) CreateRecord(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.DB(ctx).Create(record).Error
}

// FindRecord loads the attendance row for one user and day. Returns nil-nil
// when no record exists.
func (r *Repository) FindRecord(ctx context.Context, userID uuid.UUID, day string) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.DB(ctx).
		Where("user_id = ? AND attendance_day = ?", userID, day).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListRecords returns attendance rows under the filter, newest day first.
func (r *Repository) ListRecords(ctx context.Context, filter RecordFilter) ([]models.AttendanceRecord, error) {
	query := r.DB(ctx).Model(&models.AttendanceRecord{}).Order("attendance_day DESC")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.FromDay != "" {
		query = query.Where("attendance_day >= ?", filter.FromDay)
	}
	if filter.ToDay != "" {
		query = query.Where("attendance_day <= ?", filter.ToDay)
	}

	var out []models.AttendanceRecord
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRecord persists the whole attendance row.
func (r *Repository) UpdateRecord(ctx context.Context, record *models.AttendanceRecord) error {
	return r.DB(ctx).Save(record).Error
}

// SumOvertime totals the overtime hours a user accrued between two days,
// inclusive.
func (r *Repository) SumOvertime(ctx context.Context, userID uuid.UUID, fromDay, toDay string) (float64, error) {
	var rows []models.AttendanceRecord
	err := r.DB(ctx).
		Where("user_id = ? AND attendance_day >= ? AND attendance_day <= ?", userID, fromDay, toDay).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}
	var total float64
	for _, row := range rows {
		total += row.Overtime
	}
	return total, nil
}

// CreateLeave inserts a new leave request.
func (r *Repository) CreateLeave(ctx context.Context, leave *models.LeaveRequest) error {
	if leave.ID == uuid.Nil {
		leave.ID = uuid.New()
	}
	return r.DB(ctx).Create(leave).Error
}

// FindLeaveByID loads one leave request.
func (r *Repository) FindLeaveByID(ctx context.Context, id uuid.UUID) (*models.LeaveRequest, error) {
	var leave models.LeaveRequest
	if err := r.DB(ctx).First(&leave, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &leave, nil
}

// ListLeaves returns leave requests under the filter, newest first.
func (r *Repository) ListLeaves(ctx context.Context, filter LeaveFilter) ([]models.LeaveRequest, error) {
	query := r.DB(ctx).Model(&models.LeaveRequest{}).Order("created_at DESC")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var out []models.LeaveRequest
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateLeave persists the whole leave row.
func (r *Repository) UpdateLeave(ctx context.Context, leave *models.LeaveRequest) error {
	return r.DB(ctx).Save(leave).Error
}
