package parties

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/docudeskhq/docudesk-backend/pkg/db"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type customerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
	Search(ctx context.Context, query string, limit int) ([]models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type builderRepository interface {
	Create(ctx context.Context, builder *models.Builder) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Builder, error)
	FindByNameKey(ctx context.Context, nameKey string) (*models.Builder, error)
	Search(ctx context.Context, query string, limit int) ([]models.Builder, error)
	Update(ctx context.Context, builder *models.Builder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UpdateCustomerInput captures the mutable customer fields.
type UpdateCustomerInput struct {
	Name    *string
	Email   *string
	Address *string
}

// UpdateBuilderInput captures the mutable builder fields.
type UpdateBuilderInput struct {
	ContactPerson *string
	Phone         *string
	Email         *string
	Address       *string
}

// Service exposes customer and builder directory operations.
type Service interface {
	SearchCustomers(ctx context.Context, query string, limit int) ([]CustomerDTO, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	CreateCustomer(ctx context.Context, name, phone string, email, address *string) (*CustomerDTO, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	SearchBuilders(ctx context.Context, query string, limit int) ([]BuilderDTO, error)
	GetBuilder(ctx context.Context, id uuid.UUID) (*BuilderDTO, error)
	CreateBuilder(ctx context.Context, name string, contactPerson, phone, email, address *string) (*BuilderDTO, error)
	UpdateBuilder(ctx context.Context, id uuid.UUID, input UpdateBuilderInput) (*BuilderDTO, error)
	DeleteBuilder(ctx context.Context, id uuid.UUID) error
}

type service struct {
	customers customerRepository
	builders  builderRepository
}

// NewService constructs the parties service.
func NewService(customers customerRepository, builders builderRepository) (Service, error) {
	if customers == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if builders == nil {
		return nil, fmt.Errorf("builder repository required")
	}
	return &service{customers: customers, builders: builders}, nil
}

func (s *service) SearchCustomers(ctx context.Context, query string, limit int) ([]CustomerDTO, error) {
	rows, err := s.customers.Search(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search customers")
	}
	out := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *CustomerFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return CustomerFromModel(customer), nil
}

func (s *service) CreateCustomer(ctx context.Context, name, phone string, email, address *string) (*CustomerDTO, error) {
	name = strings.TrimSpace(name)
	phone = NormalizePhone(strings.TrimSpace(phone))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	customer := &models.Customer{
		Name:    name,
		Phone:   phone,
		Email:   email,
		Address: address,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a customer with this phone already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return CustomerFromModel(customer), nil
}

func (s *service) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		customer.Name = name
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Address != nil {
		customer.Address = input.Address
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return CustomerFromModel(customer), nil
}

func (s *service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if len(customer.DocumentIDs) > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "customer has linked documents")
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	return nil
}

func (s *service) SearchBuilders(ctx context.Context, query string, limit int) ([]BuilderDTO, error) {
	rows, err := s.builders.Search(ctx, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search builders")
	}
	out := make([]BuilderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *BuilderFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetBuilder(ctx context.Context, id uuid.UUID) (*BuilderDTO, error) {
	builder, err := s.builders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "builder not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load builder")
	}
	return BuilderFromModel(builder), nil
}

func (s *service) CreateBuilder(ctx context.Context, name string, contactPerson, phone, email, address *string) (*BuilderDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	builder := &models.Builder{
		Name:          name,
		NameKey:       NormalizeName(name),
		ContactPerson: contactPerson,
		Phone:         phone,
		Email:         email,
		Address:       address,
	}
	if err := s.builders.Create(ctx, builder); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a builder with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create builder")
	}
	return BuilderFromModel(builder), nil
}

func (s *service) UpdateBuilder(ctx context.Context, id uuid.UUID, input UpdateBuilderInput) (*BuilderDTO, error) {
	builder, err := s.builders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "builder not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load builder")
	}

	if input.ContactPerson != nil {
		builder.ContactPerson = input.ContactPerson
	}
	if input.Phone != nil {
		builder.Phone = input.Phone
	}
	if input.Email != nil {
		builder.Email = input.Email
	}
	if input.Address != nil {
		builder.Address = input.Address
	}

	if err := s.builders.Update(ctx, builder); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update builder")
	}
	return BuilderFromModel(builder), nil
}

func (s *service) DeleteBuilder(ctx context.Context, id uuid.UUID) error {
	builder, err := s.builders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "builder not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load builder")
	}
	if len(builder.DocumentIDs) > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "builder has linked documents")
	}
	if err := s.builders.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete builder")
	}
	return nil
}
