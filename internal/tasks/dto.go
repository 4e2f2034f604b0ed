package tasks

import (
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// TaskDTO is the transport shape for an office task.
type TaskDTO struct {
	ID          uuid.UUID          `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Type        enums.TaskType     `json:"type"`
	Priority    enums.TaskPriority `json:"priority"`
	Status      enums.TaskStatus   `json:"status"`

	AssignedTo *uuid.UUID `json:"assigned_to,omitempty"`
	AssignedBy *uuid.UUID `json:"assigned_by,omitempty"`
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	BuilderID  *uuid.UUID `json:"builder_id,omitempty"`

	DueDate        *time.Time `json:"due_date,omitempty"`
	Overdue        bool       `json:"overdue"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	Tags           []string   `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentDTO is one discussion entry on a task.
type CommentDTO struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskInput carries a new task.
type CreateTaskInput struct {
	Title          string
	Description    string
	Type           enums.TaskType
	Priority       enums.TaskPriority
	AssignedTo     *uuid.UUID
	AssignedBy     *uuid.UUID
	DocumentID     *uuid.UUID
	CustomerID     *uuid.UUID
	BuilderID      *uuid.UUID
	DueDate        *time.Time
	EstimatedHours *float64
	Tags           []string
}

// UpdateTaskInput carries partial task edits. Nil fields are untouched.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Priority       *enums.TaskPriority
	AssignedTo     *uuid.UUID
	ClearAssignee  bool
	DueDate        *time.Time
	ClearDueDate   bool
	EstimatedHours *float64
	Tags           []string
}

// ListFilter narrows task listings.
type ListFilter struct {
	Status     *enums.TaskStatus
	Priority   *enums.TaskPriority
	AssignedTo *uuid.UUID
	DocumentID *uuid.UUID
}

// FromModel shapes a task for transport. Overdue is derived at read time, so
// an open task flips as soon as its due date passes.
func FromModel(t *models.Task) *TaskDTO {
	if t == nil {
		return nil
	}
	return &TaskDTO{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Type:           t.Type,
		Priority:       t.Priority,
		Status:         t.Status,
		AssignedTo:     t.AssignedTo,
		AssignedBy:     t.AssignedBy,
		DocumentID:     t.DocumentID,
		CustomerID:     t.CustomerID,
		BuilderID:      t.BuilderID,
		DueDate:        t.DueDate,
		Overdue:        t.DueDate != nil && t.DueDate.Before(time.Now()) && !t.Status.IsTerminal(),
		CompletedAt:    t.CompletedAt,
		EstimatedHours: t.EstimatedHours,
		Tags:           t.Tags,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func CommentFromModel(c *models.TaskComment) *CommentDTO {
	if c == nil {
		return nil
	}
	return &CommentDTO{
		ID:        c.ID,
		TaskID:    c.TaskID,
		AuthorID:  c.AuthorID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}
