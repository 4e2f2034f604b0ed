package parties

import (
	"context"
	"errors"

	"github.com/docudeskhq/docudesk-backend/internal/repo"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepository persists customer parties.
type CustomerRepository struct {
	repo.Base
}

// NewCustomerRepository constructs a customer repo bound to the provided GORM DB.
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{Base: repo.NewBase(db)}
}

// Create inserts a new customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	return r.DB(ctx).Create(customer).Error
}

// FindByID loads one customer.
func (r *CustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByPhone returns the customer with the exact phone, or nil when absent.
func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := r.DB(ctx).Where("phone = ?", phone).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// Search lists customers filtered by a name/phone fragment.
func (r *CustomerRepository) Search(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	q := r.DB(ctx).Model(&models.Customer{}).Order("created_at DESC")
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("name LIKE ? OR phone LIKE ?", like, like)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []models.Customer
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists the mutable customer fields.
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	return r.DB(ctx).Save(customer).Error
}

// Delete removes one customer row.
func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Customer{}, "id = ?", id).Error
}

// BuilderRepository persists builder parties.
type BuilderRepository struct {
	repo.Base
}

// NewBuilderRepository constructs a builder repo bound to the provided GORM DB.
func NewBuilderRepository(db *gorm.DB) *BuilderRepository {
	return &BuilderRepository{Base: repo.NewBase(db)}
}

// Create inserts a new builder. NameKey must already be normalized.
func (r *BuilderRepository) Create(ctx context.Context, builder *models.Builder) error {
	if builder.ID == uuid.Nil {
		builder.ID = uuid.New()
	}
	return r.DB(ctx).Create(builder).Error
}

// FindByID loads one builder.
func (r *BuilderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Builder, error) {
	var builder models.Builder
	if err := r.DB(ctx).First(&builder, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &builder, nil
}

// FindByNameKey returns the builder with the normalized name, or nil when absent.
func (r *BuilderRepository) FindByNameKey(ctx context.Context, nameKey string) (*models.Builder, error) {
	var builder models.Builder
	err := r.DB(ctx).Where("name_key = ?", nameKey).First(&builder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &builder, nil
}

// Search lists builders filtered by a name fragment.
func (r *BuilderRepository) Search(ctx context.Context, query string, limit int) ([]models.Builder, error) {
	q := r.DB(ctx).Model(&models.Builder{}).Order("created_at DESC")
	if query != "" {
		q = q.Where("name_key LIKE ?", "%"+NormalizeName(query)+"%")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []models.Builder
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists the mutable builder fields.
func (r *BuilderRepository) Update(ctx context.Context, builder *models.Builder) error {
	return r.DB(ctx).Save(builder).Error
}

// Delete removes one builder row.
func (r *BuilderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Builder{}, "id = ?", id).Error
}
