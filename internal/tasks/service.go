package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docudeskhq/docudesk-backend/internal/notifications"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type taskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, filter ListFilter) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddComment(ctx context.Context, comment *models.TaskComment) error
	ListComments(ctx context.Context, taskID uuid.UUID) ([]models.TaskComment, error)
}

type activityRecorder interface {
	Record(ctx context.Context, actorID *uuid.UUID, entityType, entityID string, action enums.ActivityAction, detail string)
}

type assignmentNotifier interface {
	Push(ctx context.Context, input notifications.CreateInput)
}

// Service exposes task operations.
type Service interface {
	Create(ctx context.Context, input CreateTaskInput) (*TaskDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TaskDTO, error)
	List(ctx context.Context, filter ListFilter) ([]TaskDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (*TaskDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next enums.TaskStatus, actorID *uuid.UUID) (*TaskDTO, error)
	Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
	AddComment(ctx context.Context, taskID, authorID uuid.UUID, body string) (*CommentDTO, error)
	ListComments(ctx context.Context, taskID uuid.UUID) ([]CommentDTO, error)
}

type service struct {
	repo     taskRepository
	activity activityRecorder
	notify   assignmentNotifier
	now      func() time.Time
}

// NewService constructs the tasks service. The activity recorder and notifier
// are optional; passing nil disables audit entries and assignment
// notifications respectively.
func NewService(repo taskRepository, activity activityRecorder, notify assignmentNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tasks repository required")
	}
	return &service{
		repo:     repo,
		activity: activity,
		notify:   notify,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateTaskInput) (*TaskDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "task title is required")
	}
	taskType := input.Type
	if taskType == "" {
		taskType = enums.TaskTypeGeneral
	}
	if !taskType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown task type %q", taskType))
	}
	priority := input.Priority
	if priority == "" {
		priority = enums.TaskPriorityMedium
	}
	if !priority.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown task priority %q", priority))
	}

	task := &models.Task{
		ID:             uuid.New(),
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		Type:           taskType,
		Priority:       priority,
		Status:         enums.TaskStatusPending,
		AssignedTo:     input.AssignedTo,
		AssignedBy:     input.AssignedBy,
		DocumentID:     input.DocumentID,
		CustomerID:     input.CustomerID,
		BuilderID:      input.BuilderID,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
		Tags:           input.Tags,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create task")
	}

	s.record(ctx, input.AssignedBy, task.ID, enums.ActivityActionCreated,
		fmt.Sprintf("task %q created with %s priority", task.Title, task.Priority))
	s.notifyAssignment(ctx, task)
	return FromModel(task), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*TaskDTO, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(task), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]TaskDTO, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tasks")
	}
	out := make([]TaskDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateTaskInput) (*TaskDTO, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot edit a %s task", task.Status))
	}
	previousAssignee := task.AssignedTo

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "task title cannot be blank")
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown task priority %q", *input.Priority))
		}
		task.Priority = *input.Priority
	}
	if input.ClearAssignee {
		task.AssignedTo = nil
	} else if input.AssignedTo != nil {
		task.AssignedTo = input.AssignedTo
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Tags != nil {
		task.Tags = input.Tags
	}
	if input.EstimatedHours != nil {
		task.EstimatedHours = input.EstimatedHours
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update task")
	}
	if task.AssignedTo != nil && (previousAssignee == nil || *previousAssignee != *task.AssignedTo) {
		s.notifyAssignment(ctx, task)
	}
	return FromModel(task), nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.TaskStatus, actorID *uuid.UUID) (*TaskDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown task status %q", next))
	}

	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status == next {
		return FromModel(task), nil
	}
	if !task.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move task from %s to %s", task.Status, next))
	}

	previous := task.Status
	task.Status = next
	if next == enums.TaskStatusCompleted && task.CompletedAt == nil {
		now := s.now()
		task.CompletedAt = &now
	}
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update task status")
	}

	s.record(ctx, actorID, task.ID, enums.ActivityActionStatusChanged,
		fmt.Sprintf("task moved from %s to %s", previous, next))
	return FromModel(task), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	task, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, task.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete task")
	}
	s.record(ctx, actorID, task.ID, enums.ActivityActionDeleted,
		fmt.Sprintf("task %q deleted", task.Title))
	return nil
}

func (s *service) AddComment(ctx context.Context, taskID, authorID uuid.UUID, body string) (*CommentDTO, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment body is required")
	}
	if _, err := s.load(ctx, taskID); err != nil {
		return nil, err
	}

	comment := &models.TaskComment{
		ID:       uuid.New(),
		TaskID:   taskID,
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add comment")
	}
	return CommentFromModel(comment), nil
}

func (s *service) ListComments(ctx context.Context, taskID uuid.UUID) ([]CommentDTO, error) {
	if _, err := s.load(ctx, taskID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListComments(ctx, taskID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}
	out := make([]CommentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *CommentFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load task")
	}
	return task, nil
}

func (s *service) record(ctx context.Context, actorID *uuid.UUID, taskID uuid.UUID, action enums.ActivityAction, detail string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, actorID, "task", taskID.String(), action, detail)
}

func (s *service) notifyAssignment(ctx context.Context, task *models.Task) {
	if s.notify == nil || task.AssignedTo == nil {
		return
	}
	entityType := "task"
	entityID := task.ID.String()
	s.notify.Push(ctx, notifications.CreateInput{
		UserID:     *task.AssignedTo,
		Type:       enums.NotificationTypeTaskAssigned,
		Title:      fmt.Sprintf("Task assigned: %s", task.Title),
		Body:       fmt.Sprintf("Priority %s", task.Priority),
		EntityType: &entityType,
		EntityID:   &entityID,
	})
}
