package parties

import (
	"context"
	"errors"
	"testing"

	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	dbtypes "github.com/docudeskhq/docudesk-backend/pkg/db/types"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubCustomerRepo struct {
	byID map[uuid.UUID]*models.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{byID: make(map[uuid.UUID]*models.Customer)}
}

func (s *stubCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	for _, row := range s.byID {
		if row.Phone == customer.Phone {
			return errors.New("duplicate key value violates unique constraint \"customers_phone_key\"")
		}
	}
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	s.byID[customer.ID] = customer
	return nil
}

func (s *stubCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if row, ok := s.byID[id]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomerRepo) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	for _, row := range s.byID {
		if row.Phone == phone {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomerRepo) Search(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	var out []models.Customer
	for _, row := range s.byID {
		out = append(out, *row)
	}
	return out, nil
}

func (s *stubCustomerRepo) Update(ctx context.Context, customer *models.Customer) error {
	s.byID[customer.ID] = customer
	return nil
}

func (s *stubCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

type stubBuilderRepo struct {
	byID map[uuid.UUID]*models.Builder
}

func newStubBuilderRepo() *stubBuilderRepo {
	return &stubBuilderRepo{byID: make(map[uuid.UUID]*models.Builder)}
}

func (s *stubBuilderRepo) Create(ctx context.Context, builder *models.Builder) error {
	for _, row := range s.byID {
		if row.NameKey == builder.NameKey {
			return errors.New("duplicate key value violates unique constraint \"builders_name_key_key\"")
		}
	}
	if builder.ID == uuid.Nil {
		builder.ID = uuid.New()
	}
	s.byID[builder.ID] = builder
	return nil
}

func (s *stubBuilderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Builder, error) {
	if row, ok := s.byID[id]; ok {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBuilderRepo) FindByNameKey(ctx context.Context, nameKey string) (*models.Builder, error) {
	for _, row := range s.byID {
		if row.NameKey == nameKey {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubBuilderRepo) Search(ctx context.Context, query string, limit int) ([]models.Builder, error) {
	var out []models.Builder
	for _, row := range s.byID {
		out = append(out, *row)
	}
	return out, nil
}

func (s *stubBuilderRepo) Update(ctx context.Context, builder *models.Builder) error {
	s.byID[builder.ID] = builder
	return nil
}

func (s *stubBuilderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

func newTestPartiesService(t *testing.T) (Service, *stubCustomerRepo, *stubBuilderRepo) {
	t.Helper()
	customers := newStubCustomerRepo()
	builders := newStubBuilderRepo()
	svc, err := NewService(customers, builders)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, customers, builders
}

func TestCreateCustomerNormalizesPhone(t *testing.T) {
	svc, _, _ := newTestPartiesService(t)

	customer, err := svc.CreateCustomer(context.Background(), "  Asha Rane ", " 98-220 11223 ", nil, nil)
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if customer.Name != "Asha Rane" {
		t.Fatalf("expected trimmed name, got %q", customer.Name)
	}
	if customer.Phone != "9822011223" {
		t.Fatalf("expected normalized phone, got %q", customer.Phone)
	}
}

func TestCreateCustomerRequiresPhone(t *testing.T) {
	svc, _, _ := newTestPartiesService(t)

	_, err := svc.CreateCustomer(context.Background(), "Asha Rane", "  ", nil, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteCustomerWithDocumentsConflicts(t *testing.T) {
	svc, customers, _ := newTestPartiesService(t)
	id := uuid.New()
	customers.byID[id] = &models.Customer{
		ID:          id,
		Name:        "Asha Rane",
		Phone:       "9822011223",
		DocumentIDs: dbtypes.UUIDList{uuid.New()},
	}

	err := svc.DeleteCustomer(context.Background(), id)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDeleteCustomerWithoutDocuments(t *testing.T) {
	svc, customers, _ := newTestPartiesService(t)
	id := uuid.New()
	customers.byID[id] = &models.Customer{ID: id, Name: "Asha Rane", Phone: "9822011223"}

	if err := svc.DeleteCustomer(context.Background(), id); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	if _, ok := customers.byID[id]; ok {
		t.Fatal("expected customer to be removed")
	}
}

func TestCreateBuilderDerivesNameKey(t *testing.T) {
	svc, _, builders := newTestPartiesService(t)

	builder, err := svc.CreateBuilder(context.Background(), "  Shree   Ganesh Developers ", nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("create builder: %v", err)
	}
	stored := builders.byID[builder.ID]
	if stored.NameKey != "shree ganesh developers" {
		t.Fatalf("expected collapsed name key, got %q", stored.NameKey)
	}
}

func TestCreateBuilderDuplicateNameConflicts(t *testing.T) {
	svc, _, _ := newTestPartiesService(t)

	if _, err := svc.CreateBuilder(context.Background(), "Shree Ganesh Developers", nil, nil, nil, nil); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.CreateBuilder(context.Background(), "shree  ganesh  developers", nil, nil, nil, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDeleteBuilderWithDocumentsConflicts(t *testing.T) {
	svc, _, builders := newTestPartiesService(t)
	id := uuid.New()
	builders.byID[id] = &models.Builder{
		ID:          id,
		Name:        "Shree Ganesh Developers",
		NameKey:     "shree ganesh developers",
		DocumentIDs: dbtypes.UUIDList{uuid.New()},
	}

	err := svc.DeleteBuilder(context.Background(), id)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}
