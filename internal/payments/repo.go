package payments

import (
	"context"

	"github.com/docudeskhq/docudesk-backend/internal/repo"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository persists payments and challans.
type Repository struct {
	repo.Base
}

// NewRepository constructs a payments repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreatePayment inserts a new payment row.
func (r *Repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return r.DB(ctx).Create(payment).Error
}

// FindPaymentByID loads one payment.
func (r *Repository) FindPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.DB(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPayments returns payments newest-first under the filter.
func (r *Repository) ListPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, error) {
	query := r.DB(ctx).Model(&models.Payment{}).Order("created_at DESC")
	if filter.DocumentID != nil {
		query = query.Where("document_id = ?", *filter.DocumentID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var out []models.Payment
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePayment persists the whole payment row.
func (r *Repository) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	return r.DB(ctx).Save(payment).Error
}

// SumReceivedForDocument totals the received payments linked to a document.
func (r *Repository) SumReceivedForDocument(ctx context.Context, documentID uuid.UUID) (decimal.Decimal, error) {
	var rows []models.Payment
	err := r.DB(ctx).
		Where("document_id = ? AND status = ?", documentID, enums.PaymentStatusReceived).
		Find(&rows).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount)
	}
	return total, nil
}

// CreateChallan inserts a new challan row.
func (r *Repository) CreateChallan(ctx context.Context, challan *models.Challan) error {
	if challan.ID == uuid.Nil {
		challan.ID = uuid.New()
	}
	return r.DB(ctx).Create(challan).Error
}

// FindChallanByID loads one challan.
func (r *Repository) FindChallanByID(ctx context.Context, id uuid.UUID) (*models.Challan, error) {
	var challan models.Challan
	if err := r.DB(ctx).First(&challan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &challan, nil
}

// ListChallans returns challans newest-first under the filter.
func (r *Repository) ListChallans(ctx context.Context, filter ChallanFilter) ([]models.Challan, error) {
	query := r.DB(ctx).Model(&models.Challan{}).Order("created_at DESC")
	if filter.DocumentID != nil {
		query = query.Where("document_id = ?", *filter.DocumentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var out []models.Challan
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateChallan persists the whole challan row.
func (r *Repository) UpdateChallan(ctx context.Context, challan *models.Challan) error {
	return r.DB(ctx).Save(challan).Error
}
