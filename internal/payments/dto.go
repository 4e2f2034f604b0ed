package payments

import (
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentDTO is the transport shape for a customer payment.
type PaymentDTO struct {
	ID         uuid.UUID           `json:"id"`
	DocumentID *uuid.UUID          `json:"document_id,omitempty"`
	CustomerID *uuid.UUID          `json:"customer_id,omitempty"`
	Amount     decimal.Decimal     `json:"amount"`
	Mode       enums.PaymentMode   `json:"mode"`
	Status     enums.PaymentStatus `json:"status"`
	Reference  *string             `json:"reference,omitempty"`
	PaidAt     *time.Time          `json:"paid_at,omitempty"`
	Notes      string              `json:"notes,omitempty"`
	ReceivedBy *uuid.UUID          `json:"received_by,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// ChallanDTO is the transport shape for a government challan.
type ChallanDTO struct {
	ID            uuid.UUID           `json:"id"`
	ChallanNumber string              `json:"challan_number"`
	DocumentID    *uuid.UUID          `json:"document_id,omitempty"`
	Department    string              `json:"department"`
	Amount        decimal.Decimal     `json:"amount"`
	Status        enums.ChallanStatus `json:"status"`
	IssuedAt      time.Time           `json:"issued_at"`
	DepositedAt   *time.Time          `json:"deposited_at,omitempty"`
	VerifiedAt    *time.Time          `json:"verified_at,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// RecordPaymentInput carries a new payment entry.
type RecordPaymentInput struct {
	DocumentID *uuid.UUID
	CustomerID *uuid.UUID
	Amount     decimal.Decimal
	Mode       enums.PaymentMode
	Reference  *string
	Notes      string
	ReceivedBy *uuid.UUID
}

// IssueChallanInput carries a new challan entry. The number comes from the
// government receipt and must be unique.
type IssueChallanInput struct {
	ChallanNumber string
	DocumentID    *uuid.UUID
	Department    string
	Amount        decimal.Decimal
	IssuedAt      time.Time
	Notes         string
}

// PaymentFilter narrows payment listings.
type PaymentFilter struct {
	DocumentID *uuid.UUID
	CustomerID *uuid.UUID
	Status     *enums.PaymentStatus
}

// ChallanFilter narrows challan listings.
type ChallanFilter struct {
	DocumentID *uuid.UUID
	Status     *enums.ChallanStatus
}

func PaymentFromModel(p *models.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		ID:         p.ID,
		DocumentID: p.DocumentID,
		CustomerID: p.CustomerID,
		Amount:     p.Amount,
		Mode:       p.Mode,
		Status:     p.Status,
		Reference:  p.Reference,
		PaidAt:     p.PaidAt,
		Notes:      p.Notes,
		ReceivedBy: p.ReceivedBy,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func ChallanFromModel(c *models.Challan) *ChallanDTO {
	if c == nil {
		return nil
	}
	return &ChallanDTO{
		ID:            c.ID,
		ChallanNumber: c.ChallanNumber,
		DocumentID:    c.DocumentID,
		Department:    c.Department,
		Amount:        c.Amount,
		Status:        c.Status,
		IssuedAt:      c.IssuedAt,
		DepositedAt:   c.DepositedAt,
		VerifiedAt:    c.VerifiedAt,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
