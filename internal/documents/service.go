package documents

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
	"github.com/docudeskhq/docudesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type documentRepository interface {
	CreateLinked(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	FindByNumber(ctx context.Context, number string) (*models.Document, error)
	List(ctx context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]models.Document, error)
	Update(ctx context.Context, doc *models.Document) error
	Delete(ctx context.Context, doc *models.Document) error
	CountReferences(ctx context.Context, id uuid.UUID) (int64, error)
	AddFile(ctx context.Context, file *models.DocumentFile) error
	ListFiles(ctx context.Context, documentID uuid.UUID) ([]models.DocumentFile, error)
	DeleteFile(ctx context.Context, documentID, fileID uuid.UUID) error
}

type activityRecorder interface {
	Record(ctx context.Context, actorID *uuid.UUID, entityType, entityID string, action enums.ActivityAction, detail string)
}

type deliveryNotifier interface {
	Push(ctx context.Context, input notifications.CreateInput)
}

// ListPage is one page of documents plus the cursor for the next page.
type ListPage struct {
	Documents  []DocumentDTO `json:"documents"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// AddFileInput carries attachment metadata. File bytes live in external
// storage under StorageKey.
type AddFileInput struct {
	FileName    string
	SizeBytes   int64
	ContentType string
	StorageKey  string
	UploadedBy  *uuid.UUID
}

// Service exposes the document pipeline operations.
type Service interface {
	Create(ctx context.Context, input CreateDocumentInput) (*DocumentDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*DocumentDTO, error)
	GetByNumber(ctx context.Context, number string) (*DocumentDTO, error)
	List(ctx context.Context, filter ListFilter, params pagination.Params) (*ListPage, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateDocumentInput) (*DocumentDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next enums.DocumentStatus, actorID *uuid.UUID) (*DocumentDTO, error)
	Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
	AddFile(ctx context.Context, documentID uuid.UUID, input AddFileInput) (*FileDTO, error)
	ListFiles(ctx context.Context, documentID uuid.UUID) ([]FileDTO, error)
	DeleteFile(ctx context.Context, documentID, fileID uuid.UUID) error
}

type service struct {
	repo     documentRepository
	activity activityRecorder
	notify   deliveryNotifier
	now      func() time.Time
}

// NewService constructs the documents service. The activity recorder and
// notifier are optional; passing nil disables audit entries and delivery
// notifications respectively.
func NewService(repo documentRepository, activity activityRecorder, notify deliveryNotifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("documents repository required")
	}
	return &service{
		repo:     repo,
		activity: activity,
		notify:   notify,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateDocumentInput) (*DocumentDTO, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid document type")
	}
	customerName := strings.TrimSpace(input.CustomerName)
	customerPhone := strings.TrimSpace(input.CustomerPhone)
	if customerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if customerPhone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}

	doc := &models.Document{
		Type:            input.Type,
		Status:          enums.DocumentStatusPendingCollection,
		CustomerName:    customerName,
		CustomerPhone:   customerPhone,
		CustomerEmail:   input.CustomerEmail,
		BuilderName:     strings.TrimSpace(input.BuilderName),
		PropertyDetails: input.PropertyDetails,
		AssignedTo:      input.AssignedTo,
		Notes:           input.Notes,
		Tags:            input.Tags,
		CreatedBy:       input.CreatedBy,
	}

	if err := s.repo.CreateLinked(ctx, doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create document")
	}

	s.record(ctx, input.CreatedBy, doc, enums.ActivityActionCreated, "document registered as "+doc.DocumentNumber)
	return FromModel(doc), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*DocumentDTO, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(doc), nil
}

func (s *service) GetByNumber(ctx context.Context, number string) (*DocumentDTO, error) {
	doc, err := s.repo.FindByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
	}
	return FromModel(doc), nil
}

func (s *service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*ListPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, filter, limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list documents")
	}

	page := &ListPage{Documents: make([]DocumentDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		page.Documents = append(page.Documents, *FromModel(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateDocumentInput) (*DocumentDTO, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.PropertyDetails != nil {
		doc.PropertyDetails = *input.PropertyDetails
	}
	if input.ClearAssignee {
		doc.AssignedTo = nil
	} else if input.AssignedTo != nil {
		doc.AssignedTo = input.AssignedTo
	}
	if input.Notes != nil {
		doc.Notes = *input.Notes
	}
	if input.Tags != nil {
		doc.Tags = *input.Tags
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document")
	}
	return FromModel(doc), nil
}

// UpdateStatus advances the document one pipeline step. Stage timestamps are
// stamped the first time each stage is reached.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.DocumentStatus, actorID *uuid.UUID) (*DocumentDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid document status")
	}

	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if doc.Status == next {
		return FromModel(doc), nil
	}
	if !doc.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move document from %s to %s", doc.Status, next))
	}

	now := s.now()
	doc.Status = next
	switch next {
	case enums.DocumentStatusCollected:
		if doc.CollectedAt == nil {
			doc.CollectedAt = &now
		}
	case enums.DocumentStatusDataEntryCompleted:
		if doc.DataEntryAt == nil {
			doc.DataEntryAt = &now
		}
	case enums.DocumentStatusRegistered:
		if doc.RegisteredAt == nil {
			doc.RegisteredAt = &now
		}
	case enums.DocumentStatusDelivered:
		if doc.DeliveredAt == nil {
			doc.DeliveredAt = &now
		}
	}

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update document status")
	}

	s.record(ctx, actorID, doc, enums.ActivityActionStatusChanged, "status changed to "+next.String())
	if next == enums.DocumentStatusDelivered {
		s.notifyDelivered(ctx, doc)
	}
	return FromModel(doc), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	doc, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	refs, err := s.repo.CountReferences(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check document references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "document has linked payments, challans, or tasks")
	}

	if err := s.repo.Delete(ctx, doc); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete document")
	}

	s.record(ctx, actorID, doc, enums.ActivityActionDeleted, "document "+doc.DocumentNumber+" deleted")
	return nil
}

func (s *service) AddFile(ctx context.Context, documentID uuid.UUID, input AddFileInput) (*FileDTO, error) {
	if strings.TrimSpace(input.FileName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	if strings.TrimSpace(input.StorageKey) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage key is required")
	}
	if input.SizeBytes < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size must be non-negative")
	}

	if _, err := s.load(ctx, documentID); err != nil {
		return nil, err
	}

	file := &models.DocumentFile{
		DocumentID:  documentID,
		FileName:    input.FileName,
		SizeBytes:   input.SizeBytes,
		ContentType: input.ContentType,
		StorageKey:  input.StorageKey,
		UploadedBy:  input.UploadedBy,
	}
	if err := s.repo.AddFile(ctx, file); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add file")
	}
	return FileFromModel(file), nil
}

func (s *service) ListFiles(ctx context.Context, documentID uuid.UUID) ([]FileDTO, error) {
	if _, err := s.load(ctx, documentID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListFiles(ctx, documentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list files")
	}
	out := make([]FileDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FileFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) DeleteFile(ctx context.Context, documentID, fileID uuid.UUID) error {
	if _, err := s.load(ctx, documentID); err != nil {
		return err
	}
	if err := s.repo.DeleteFile(ctx, documentID, fileID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete file")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load document")
	}
	return doc, nil
}

func (s *service) record(ctx context.Context, actorID *uuid.UUID, doc *models.Document, action enums.ActivityAction, detail string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, actorID, "document", doc.ID.String(), action, detail)
}

func (s *service) notifyDelivered(ctx context.Context, doc *models.Document) {
	if s.notify == nil || doc.AssignedTo == nil {
		return
	}
	entityType := "document"
	entityID := doc.ID.String()
	s.notify.Push(ctx, notifications.CreateInput{
		UserID:     *doc.AssignedTo,
		Type:       enums.NotificationTypeDocumentDelivered,
		Title:      fmt.Sprintf("Document delivered: %s", doc.DocumentNumber),
		Body:       fmt.Sprintf("Delivered to %s", doc.CustomerName),
		EntityType: &entityType,
		EntityID:   &entityID,
	})
}
