package activity

import (
	"context"
	"time"

	"github.com/docudeskhq/docudesk-backend/internal/repo"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/docudeskhq/docudesk-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EntryDTO is the transport shape for one audit entry.
type EntryDTO struct {
	ID         uuid.UUID            `json:"id"`
	ActorID    *uuid.UUID           `json:"actor_id,omitempty"`
	EntityType string               `json:"entity_type"`
	EntityID   string               `json:"entity_id"`
	Action     enums.ActivityAction `json:"action"`
	Detail     string               `json:"detail,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
}

// ListFilter narrows activity listings.
type ListFilter struct {
	ActorID    *uuid.UUID
	EntityType string
	EntityID   string
	Limit      int
}

// Repository persists audit entries.
type Repository struct {
	repo.Base
}

// NewRepository constructs an activity repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create appends one audit entry.
func (r *Repository) Create(ctx context.Context, entry *models.ActivityLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.DB(ctx).Create(entry).Error
}

// List returns audit entries under the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.ActivityLog, error) {
	query := r.DB(ctx).Model(&models.ActivityLog{}).Order("created_at DESC")
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var out []models.ActivityLog
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type activityRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ListFilter) ([]models.ActivityLog, error)
}

// Recorder writes and reads the audit trail. Record is fire-and-forget so a
// broken audit store never fails the operation it describes.
type Recorder struct {
	repo activityRepository
	logg *logger.Logger
}

// NewRecorder constructs the audit recorder. The logger is optional.
func NewRecorder(repo activityRepository, logg *logger.Logger) *Recorder {
	return &Recorder{repo: repo, logg: logg}
}

// Record appends one audit entry. Failures are logged, never returned.
func (r *Recorder) Record(ctx context.Context, actorID *uuid.UUID, entityType, entityID string, action enums.ActivityAction, detail string) {
	if r == nil || r.repo == nil {
		return
	}
	entry := &models.ActivityLog{
		ID:         uuid.New(),
		ActorID:    actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Detail:     detail,
	}
	if err := r.repo.Create(ctx, entry); err != nil && r.logg != nil {
		r.logg.Error(ctx, "activity log write failed", err)
	}
}

// List returns audit entries under the filter. The limit defaults to 50 and
// is capped at 200.
func (r *Recorder) List(ctx context.Context, filter ListFilter) ([]EntryDTO, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	rows, err := r.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list activity")
	}
	out := make([]EntryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, EntryDTO{
			ID:         row.ID,
			ActorID:    row.ActorID,
			EntityType: row.EntityType,
			EntityID:   row.EntityID,
			Action:     row.Action,
			Detail:     row.Detail,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}
