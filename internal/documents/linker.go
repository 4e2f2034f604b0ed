package documents

import (
	"errors"
	"fmt"

	"github.com/docudeskhq/docudesk-backend/internal/parties"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// linkParties attaches the document to its customer (matched by exact phone)
// and builder (matched by normalized name), creating either party when no
// match exists. Runs inside the caller's transaction so the document, both
// parties, and their back-references commit atomically. Appends are
// idempotent: a document id is never added to a party twice.
func linkParties(tx *gorm.DB, doc *models.Document) error {
	customer, err := linkCustomer(tx, doc)
	if err != nil {
		return err
	}
	doc.CustomerID = &customer.ID

	if doc.BuilderName != "" {
		builder, err := linkBuilder(tx, doc)
		if err != nil {
			return err
		}
		doc.BuilderID = &builder.ID
	}
	return nil
}

func linkCustomer(tx *gorm.DB, doc *models.Document) (*models.Customer, error) {
	phone := parties.NormalizePhone(doc.CustomerPhone)

	var customer models.Customer
	err := tx.Where("phone = ?", phone).First(&customer).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		customer = models.Customer{
			ID:    uuid.New(),
			Name:  doc.CustomerName,
			Phone: phone,
			Email: doc.CustomerEmail,
		}
		if err := tx.Create(&customer).Error; err != nil {
			return nil, fmt.Errorf("creating customer: %w", err)
		}
	default:
		return nil, fmt.Errorf("matching customer: %w", err)
	}

	if customer.DocumentIDs.Contains(doc.ID) {
		return &customer, nil
	}
	customer.DocumentIDs = customer.DocumentIDs.Append(doc.ID)
	if err := tx.Model(&models.Customer{}).
		Where("id = ?", customer.ID).
		UpdateColumn("document_ids", customer.DocumentIDs).Error; err != nil {
		return nil, fmt.Errorf("linking customer: %w", err)
	}
	return &customer, nil
}

func linkBuilder(tx *gorm.DB, doc *models.Document) (*models.Builder, error) {
	nameKey := parties.NormalizeName(doc.BuilderName)

	var builder models.Builder
	err := tx.Where("name_key = ?", nameKey).First(&builder).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		builder = models.Builder{
			ID:      uuid.New(),
			Name:    doc.BuilderName,
			NameKey: nameKey,
		}
		if err := tx.Create(&builder).Error; err != nil {
			return nil, fmt.Errorf("creating builder: %w", err)
		}
	default:
		return nil, fmt.Errorf("matching builder: %w", err)
	}

	if builder.DocumentIDs.Contains(doc.ID) {
		return &builder, nil
	}
	builder.DocumentIDs = builder.DocumentIDs.Append(doc.ID)
	if err := tx.Model(&models.Builder{}).
		Where("id = ?", builder.ID).
		UpdateColumn("document_ids", builder.DocumentIDs).Error; err != nil {
		return nil, fmt.Errorf("linking builder: %w", err)
	}
	return &builder, nil
}
