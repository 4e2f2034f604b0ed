package models

import (
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records money received from a customer, optionally tied to a
// document.
type Payment struct {
	ID         uuid.UUID           `gorm:"type:uuid;primaryKey"`
	DocumentID *uuid.UUID          `gorm:"column:document_id;type:uuid;index"`
	CustomerID *uuid.UUID          `gorm:"column:customer_id;type:uuid;index"`
	Amount     decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Mode       enums.PaymentMode   `gorm:"column:mode;not null"`
	Status     enums.PaymentStatus `gorm:"column:status;not null;index"`
	Reference  *string             `gorm:"column:reference"`
	PaidAt     *time.Time          `gorm:"column:paid_at"`
	Notes      string              `gorm:"column:notes"`
	ReceivedBy *uuid.UUID          `gorm:"column:received_by;type:uuid"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Challan is a government deposit slip raised during registration.
type Challan struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ChallanNumber string              `gorm:"column:challan_number;not null;uniqueIndex"`
	DocumentID    *uuid.UUID          `gorm:"column:document_id;type:uuid;index"`
	Department    string              `gorm:"column:department;not null"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Status        enums.ChallanStatus `gorm:"column:status;not null;index"`
	IssuedAt      time.Time           `gorm:"column:issued_at;not null"`
	DepositedAt   *time.Time          `gorm:"column:deposited_at"`
	VerifiedAt    *time.Time          `gorm:"column:verified_at"`
	Notes         string              `gorm:"column:notes"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
