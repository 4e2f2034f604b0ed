package documents

import (
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// DocumentDTO is the transport shape for a registration document.
type DocumentDTO struct {
	ID             uuid.UUID            `json:"id"`
	DocumentNumber string               `json:"document_number"`
	Type           enums.DocumentType   `json:"type"`
	Status         enums.DocumentStatus `json:"status"`

	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	BuilderID     *uuid.UUID `json:"builder_id,omitempty"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	CustomerEmail *string    `json:"customer_email,omitempty"`
	BuilderName   string     `json:"builder_name,omitempty"`

	PropertyDetails string     `json:"property_details,omitempty"`
	AssignedTo      *uuid.UUID `json:"assigned_to,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Tags            []string   `json:"tags"`

	CollectedAt  *time.Time `json:"collected_at,omitempty"`
	DataEntryAt  *time.Time `json:"data_entry_at,omitempty"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
	DeliveredAt  *time.Time `json:"delivered_at,omitempty"`

	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FileDTO is the transport shape for an attached file.
type FileDTO struct {
	ID          uuid.UUID  `json:"id"`
	DocumentID  uuid.UUID  `json:"document_id"`
	FileName    string     `json:"file_name"`
	SizeBytes   int64      `json:"size_bytes"`
	ContentType string     `json:"content_type,omitempty"`
	StorageKey  string     `json:"storage_key"`
	UploadedBy  *uuid.UUID `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateDocumentInput carries everything needed to register a new document.
type CreateDocumentInput struct {
	Type            enums.DocumentType
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   *string
	BuilderName     string
	PropertyDetails string
	AssignedTo      *uuid.UUID
	Notes           string
	Tags            []string
	CreatedBy       *uuid.UUID
}

// UpdateDocumentInput captures the mutable fields outside the status pipeline.
type UpdateDocumentInput struct {
	PropertyDetails *string
	AssignedTo      *uuid.UUID
	ClearAssignee   bool
	Notes           *string
	Tags            *[]string
}

// ListFilter narrows document listings.
type ListFilter struct {
	Status     *enums.DocumentStatus
	Type       *enums.DocumentType
	AssignedTo *uuid.UUID
	CustomerID *uuid.UUID
	BuilderID  *uuid.UUID
	Search     string
}

func FromModel(d *models.Document) *DocumentDTO {
	if d == nil {
		return nil
	}
	return &DocumentDTO{
		ID:              d.ID,
		DocumentNumber:  d.DocumentNumber,
		Type:            d.Type,
		Status:          d.Status,
		CustomerID:      d.CustomerID,
		BuilderID:       d.BuilderID,
		CustomerName:    d.CustomerName,
		CustomerPhone:   d.CustomerPhone,
		CustomerEmail:   d.CustomerEmail,
		BuilderName:     d.BuilderName,
		PropertyDetails: d.PropertyDetails,
		AssignedTo:      d.AssignedTo,
		Notes:           d.Notes,
		Tags:            append([]string(nil), d.Tags...),
		CollectedAt:     d.CollectedAt,
		DataEntryAt:     d.DataEntryAt,
		RegisteredAt:    d.RegisteredAt,
		DeliveredAt:     d.DeliveredAt,
		CreatedBy:       d.CreatedBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func FileFromModel(f *models.DocumentFile) *FileDTO {
	if f == nil {
		return nil
	}
	return &FileDTO{
		ID:          f.ID,
		DocumentID:  f.DocumentID,
		FileName:    f.FileName,
		SizeBytes:   f.SizeBytes,
		ContentType: f.ContentType,
		StorageKey:  f.StorageKey,
		UploadedBy:  f.UploadedBy,
		CreatedAt:   f.CreatedAt,
	}
}
