package models

import (
	"time"

	dbtypes "github.com/docudeskhq/docudesk-backend/pkg/db/types"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// Task is an assignable unit of office work, optionally linked to a
// document or party.
type Task struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey"`
	Title       string             `gorm:"column:title;not null"`
	Description string             `gorm:"column:description"`
	Type        enums.TaskType     `gorm:"column:task_type;not null"`
	Priority    enums.TaskPriority `gorm:"column:priority;not null;index"`
	Status      enums.TaskStatus   `gorm:"column:status;not null;index"`

	AssignedTo *uuid.UUID `gorm:"column:assigned_to;type:uuid;index"`
	AssignedBy *uuid.UUID `gorm:"column:assigned_by;type:uuid"`
	DocumentID *uuid.UUID `gorm:"column:document_id;type:uuid;index"`
	CustomerID *uuid.UUID `gorm:"column:customer_id;type:uuid"`
	BuilderID  *uuid.UUID `gorm:"column:builder_id;type:uuid"`

	DueDate        *time.Time         `gorm:"column:due_date"`
	CompletedAt    *time.Time         `gorm:"column:completed_at"`
	EstimatedHours *float64           `gorm:"column:estimated_hours"`
	Tags           dbtypes.StringList `gorm:"column:tags;type:text"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TaskComment is a discussion entry on a task.
type TaskComment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaskID    uuid.UUID `gorm:"column:task_id;type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"column:author_id;type:uuid;not null"`
	Body      string    `gorm:"column:body;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
