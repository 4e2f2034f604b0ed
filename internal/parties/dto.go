package parties

import (
	"strings"
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CustomerDTO is the transport shape for a customer party.
type CustomerDTO struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Phone         string      `json:"phone"`
	Email         *string     `json:"email,omitempty"`
	Address       *string     `json:"address,omitempty"`
	DocumentIDs   []uuid.UUID `json:"document_ids"`
	DocumentCount int         `json:"document_count"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// BuilderDTO is the transport shape for a builder party.
type BuilderDTO struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	ContactPerson *string     `json:"contact_person,omitempty"`
	Phone         *string     `json:"phone,omitempty"`
	Email         *string     `json:"email,omitempty"`
	Address       *string     `json:"address,omitempty"`
	DocumentIDs   []uuid.UUID `json:"document_ids"`
	DocumentCount int         `json:"document_count"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func CustomerFromModel(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	ids := append([]uuid.UUID(nil), c.DocumentIDs...)
	return &CustomerDTO{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		DocumentIDs:   ids,
		DocumentCount: len(ids),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func BuilderFromModel(b *models.Builder) *BuilderDTO {
	if b == nil {
		return nil
	}
	ids := append([]uuid.UUID(nil), b.DocumentIDs...)
	return &BuilderDTO{
		ID:            b.ID,
		Name:          b.Name,
		ContactPerson: b.ContactPerson,
		Phone:         b.Phone,
		Email:         b.Email,
		Address:       b.Address,
		DocumentIDs:   ids,
		DocumentCount: len(ids),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// NormalizeName lowercases and collapses internal whitespace so builder
// matching is stable against spacing and casing differences.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// NormalizePhone strips spaces and dashes; matching is otherwise exact.
func NormalizePhone(phone string) string {
	var sb strings.Builder
	for _, r := range phone {
		if r == ' ' || r == '-' {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
