package documents

import (
	"context"
	"time"

	"github.com/docudeskhq/docudesk-backend/internal/repo"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists documents and their attached files.
type Repository struct {
	repo.Base
}

// NewRepository constructs a documents repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateLinked assigns the next document number, inserts the document, and
// links both parties in a single transaction.
func (r *Repository) CreateLinked(ctx context.Context, doc *models.Document) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if doc.ID == uuid.Nil {
			doc.ID = uuid.New()
		}

		number, err := nextDocumentNumber(tx, doc.Type, time.Now().Year())
		if err != nil {
			return err
		}
		doc.DocumentNumber = number

		if err := linkParties(tx, doc); err != nil {
			return err
		}
		return tx.Create(doc).Error
	})
}

// FindByID loads one document.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := r.DB(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindByNumber loads one document by its human-facing number.
func (r *Repository) FindByNumber(ctx context.Context, number string) (*models.Document, error) {
	var doc models.Document
	if err := r.DB(ctx).Where("document_number = ?", number).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns a page of documents newest-first using cursor pagination.
func (r *Repository) List(ctx context.Context, filter ListFilter, limit int, cursor *pagination.Cursor) ([]models.Document, error) {
	query := r.DB(ctx).Model(&models.Document{}).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit))

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("doc_type = ?", *filter.Type)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.BuilderID != nil {
		query = query.Where("builder_id = ?", *filter.BuilderID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"document_number LIKE ? OR customer_name LIKE ? OR customer_phone LIKE ? OR builder_name LIKE ?",
			like, like, like, like,
		)
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var out []models.Document
	if err := query.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists the whole document row.
func (r *Repository) Update(ctx context.Context, doc *models.Document) error {
	return r.DB(ctx).Save(doc).Error
}

// Delete removes the document and detaches it from both party back-references
// in one transaction.
func (r *Repository) Delete(ctx context.Context, doc *models.Document) error {
	return r.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if doc.CustomerID != nil {
			if err := detachFromCustomer(tx, *doc.CustomerID, doc.ID); err != nil {
				return err
			}
		}
		if doc.BuilderID != nil {
			if err := detachFromBuilder(tx, *doc.BuilderID, doc.ID); err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.DocumentFile{}, "document_id = ?", doc.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Document{}, "id = ?", doc.ID).Error
	})
}

// CountReferences reports how many finance or task rows still reference the document.
func (r *Repository) CountReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	var total int64

	var count int64
	if err := r.DB(ctx).Model(&models.Payment{}).Where("document_id = ?", id).Count(&count).Error; err != nil {
		return 0, err
	}
	total += count

	if err := r.DB(ctx).Model(&models.Challan{}).Where("document_id = ?", id).Count(&count).Error; err != nil {
		return 0, err
	}
	total += count

	if err := r.DB(ctx).Model(&models.Task{}).Where("document_id = ?", id).Count(&count).Error; err != nil {
		return 0, err
	}
	total += count

	return total, nil
}

// AddFile records an attachment row.
func (r *Repository) AddFile(ctx context.Context, file *models.DocumentFile) error {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	return r.DB(ctx).Create(file).Error
}

// ListFiles returns the attachment rows for one document.
func (r *Repository) ListFiles(ctx context.Context, documentID uuid.UUID) ([]models.DocumentFile, error) {
	var out []models.DocumentFile
	err := r.DB(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteFile removes one attachment row.
func (r *Repository) DeleteFile(ctx context.Context, documentID, fileID uuid.UUID) error {
	return r.DB(ctx).
		Delete(&models.DocumentFile{}, "id = ? AND document_id = ?", fileID, documentID).Error
}

func detachFromCustomer(tx *gorm.DB, customerID, docID uuid.UUID) error {
	var customer models.Customer
	if err := tx.First(&customer, "id = ?", customerID).Error; err != nil {
		return err
	}
	return tx.Model(&models.Customer{}).
		Where("id = ?", customerID).
		UpdateColumn("document_ids", customer.DocumentIDs.Remove(docID)).Error
}

func detachFromBuilder(tx *gorm.DB, builderID, docID uuid.UUID) error {
	var builder models.Builder
	if err := tx.First(&builder, "id = ?", builderID).Error; err != nil {
		return err
	}
	return tx.Model(&models.Builder{}).
		Where("id = ?", builderID).
		UpdateColumn("document_ids", builder.DocumentIDs.Remove(docID)).Error
}
