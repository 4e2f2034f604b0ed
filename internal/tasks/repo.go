package tasks

import (
	"context"

	"github.com/docudeskhq/docudesk-backend/internal/repo"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists tasks and their comments.
type Repository struct {
	repo.Base
}

// NewRepository constructs a tasks repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new task row.
func (r *Repository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	return r.DB(ctx).Create(task).Error
}

// FindByID loads one task.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.DB(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns tasks under the filter, urgent work first then newest.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Task, error) {
	query := r.DB(ctx).Model(&models.Task{}).
		Order("CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END").
		Order("created_at DESC")
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.DocumentID != nil {
		query = query.Where("document_id = ?", *filter.DocumentID)
	}

	var out []models.Task
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists the whole task row.
func (r *Repository) Update(ctx context.Context, task *models.Task) error {
	return r.DB(ctx).Save(task).Error
}

// Delete removes the task and its comments in one transaction.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, "id = ?", id).Error
	})
}

// AddComment inserts a comment row.
func (r *Repository) AddComment(ctx context.Context, comment *models.TaskComment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	return r.DB(ctx).Create(comment).Error
}

// ListComments returns comments for one task, oldest first.
func (r *Repository) ListComments(ctx context.Context, taskID uuid.UUID) ([]models.TaskComment, error) {
	var out []models.TaskComment
	err := r.DB(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
