package models

import (
	"time"

	dbtypes "github.com/docudeskhq/docudesk-backend/pkg/db/types"
	"github.com/google/uuid"
)

// Customer is a document party matched by exact phone number.
// DocumentIDs is the denormalized back-reference list maintained by the
// document linker.
type Customer struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name        string           `gorm:"column:name;not null"`
	Phone       string           `gorm:"column:phone;not null;uniqueIndex"`
	Email       *string          `gorm:"column:email"`
	Address     *string          `gorm:"column:address"`
	DocumentIDs dbtypes.UUIDList `gorm:"column:document_ids;type:text"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// Builder is a document party matched by normalized name equality.
// NameKey is the lowercased, whitespace-collapsed form of Name and is what
// the linker matches on.
type Builder struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name          string           `gorm:"column:name;not null"`
	NameKey       string           `gorm:"column:name_key;not null;uniqueIndex"`
	ContactPerson *string          `gorm:"column:contact_person"`
	Phone         *string          `gorm:"column:phone"`
	Email         *string          `gorm:"column:email"`
	Address       *string          `gorm:"column:address"`
	DocumentIDs   dbtypes.UUIDList `gorm:"column:document_ids;type:text"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
