package models

import (
	"time"

	dbtypes "github.com/docudeskhq/docudesk-backend/pkg/db/types"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// Document is a registration matter moving through the office pipeline.
// DocumentNumber is human-facing and unique ({PREFIX}/{YEAR}/{SEQ}).
type Document struct {
	ID             uuid.UUID            `gorm:"type:uuid;primaryKey"`
	DocumentNumber string               `gorm:"column:document_number;not null;uniqueIndex"`
	Type           enums.DocumentType   `gorm:"column:doc_type;not null;index"`
	Status         enums.DocumentStatus `gorm:"column:status;not null;index"`

	CustomerID    *uuid.UUID `gorm:"column:customer_id;type:uuid;index"`
	BuilderID     *uuid.UUID `gorm:"column:builder_id;type:uuid;index"`
	CustomerName  string     `gorm:"column:customer_name;not null"`
	CustomerPhone string     `gorm:"column:customer_phone;not null"`
	CustomerEmail *string    `gorm:"column:customer_email"`
	BuilderName   string     `gorm:"column:builder_name"`

	PropertyDetails string             `gorm:"column:property_details"`
	AssignedTo      *uuid.UUID         `gorm:"column:assigned_to;type:uuid;index"`
	Notes           string             `gorm:"column:notes"`
	Tags            dbtypes.StringList `gorm:"column:tags;type:text"`

	CollectedAt  *time.Time `gorm:"column:collected_at"`
	DataEntryAt  *time.Time `gorm:"column:data_entry_at"`
	RegisteredAt *time.Time `gorm:"column:registered_at"`
	DeliveredAt  *time.Time `gorm:"column:delivered_at"`

	CreatedBy *uuid.UUID `gorm:"column:created_by;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// DocumentFile records metadata for a file attached to a document. The bytes
// live in external storage referenced by StorageKey.
type DocumentFile struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DocumentID  uuid.UUID  `gorm:"column:document_id;type:uuid;not null;index"`
	FileName    string     `gorm:"column:file_name;not null"`
	SizeBytes   int64      `gorm:"column:size_bytes;not null"`
	ContentType string     `gorm:"column:content_type"`
	StorageKey  string     `gorm:"column:storage_key;not null"`
	UploadedBy  *uuid.UUID `gorm:"column:uploaded_by;type:uuid"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
