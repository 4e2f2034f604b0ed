package permissions

import (
	"context"
	"fmt"

	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/google/uuid"
)

type permissionRepository interface {
	Find(ctx context.Context, userID uuid.UUID, module enums.PermissionModule, action enums.PermissionAction) (*models.UserPermission, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserPermission, error)
	Upsert(ctx context.Context, row *models.UserPermission) error
}

// GrantInput is one (module, action, granted) triple in a bulk update.
type GrantInput struct {
	Module  enums.PermissionModule `json:"module" validate:"required"`
	Action  enums.PermissionAction `json:"action" validate:"required"`
	Granted bool                   `json:"granted"`
}

// PermissionDTO is the transport shape for one grant row.
type PermissionDTO struct {
	Module  enums.PermissionModule `json:"module"`
	Action  enums.PermissionAction `json:"action"`
	Granted bool                   `json:"granted"`
}

// Checker is the read-only surface used by the permission middleware.
type Checker interface {
	HasPermission(ctx context.Context, userID uuid.UUID, role enums.UserRole, module enums.PermissionModule, action enums.PermissionAction) (bool, error)
}

// Service manages explicit per-user permission grants.
type Service interface {
	Checker
	ListForUser(ctx context.Context, userID uuid.UUID) ([]PermissionDTO, error)
	SetForUser(ctx context.Context, actorID, userID uuid.UUID, grants []GrantInput) ([]PermissionDTO, error)
}

type service struct {
	repo permissionRepository
}

// NewService constructs the permissions service.
func NewService(repo permissionRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("permissions repository required")
	}
	return &service{repo: repo}, nil
}

// HasPermission implements the access rule: the main admin passes every check,
// everyone else needs an explicit granted row. A missing row denies.
func (s *service) HasPermission(ctx context.Context, userID uuid.UUID, role enums.UserRole, module enums.PermissionModule, action enums.PermissionAction) (bool, error) {
	if role == enums.UserRoleMainAdmin {
		return true, nil
	}
	if !module.IsValid() || !action.IsValid() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "unknown permission module or action")
	}

	row, err := s.repo.Find(ctx, userID, module, action)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up permission")
	}
	if row == nil {
		return false, nil
	}
	return row.Granted, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]PermissionDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list permissions")
	}
	out := make([]PermissionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, PermissionDTO{
			Module:  row.Module,
			Action:  row.Action,
			Granted: row.Granted,
		})
	}
	return out, nil
}

func (s *service) SetForUser(ctx context.Context, actorID, userID uuid.UUID, grants []GrantInput) ([]PermissionDTO, error) {
	if len(grants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one grant is required")
	}
	for _, grant := range grants {
		if !grant.Module.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown module %q", grant.Module))
		}
		if !grant.Action.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown action %q", grant.Action))
		}
	}

	for _, grant := range grants {
		row := &models.UserPermission{
			UserID:    userID,
			Module:    grant.Module,
			Action:    grant.Action,
			Granted:   grant.Granted,
			GrantedBy: &actorID,
		}
		if err := s.repo.Upsert(ctx, row); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save permission")
		}
	}
	return s.ListForUser(ctx, userID)
}
