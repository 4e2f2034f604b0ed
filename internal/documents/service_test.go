package documents

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docudeskhq/docudesk-backend/internal/notifications"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/docudeskhq/docudesk-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDocumentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT NOT NULL UNIQUE,
  email TEXT,
  address TEXT,
  document_ids TEXT NOT NULL DEFAULT '[]',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS builders (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  name_key TEXT NOT NULL UNIQUE,
  contact_person TEXT,
  phone TEXT,
  email TEXT,
  address TEXT,
  document_ids TEXT NOT NULL DEFAULT '[]',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS documents (
  id TEXT PRIMARY KEY,
  document_number TEXT NOT NULL UNIQUE,
  doc_type TEXT NOT NULL,
  status TEXT NOT NULL,
  customer_id TEXT,
  builder_id TEXT,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  customer_email TEXT,
  builder_name TEXT NOT NULL DEFAULT '',
  property_details TEXT NOT NULL DEFAULT '',
  assigned_to TEXT,
  notes TEXT NOT NULL DEFAULT '',
  tags TEXT NOT NULL DEFAULT '[]',
  collected_at DATETIME,
  data_entry_at DATETIME,
  registered_at DATETIME,
  delivered_at DATETIME,
  created_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS document_files (
  id TEXT PRIMARY KEY,
  document_id TEXT NOT NULL,
  file_name TEXT NOT NULL,
  size_bytes INTEGER NOT NULL,
  content_type TEXT,
  storage_key TEXT NOT NULL,
  uploaded_by TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS payments (
  id TEXT PRIMARY KEY,
  document_id TEXT,
  customer_id TEXT,
  amount NUMERIC NOT NULL,
  mode TEXT NOT NULL,
  status TEXT NOT NULL,
  reference TEXT,
  paid_at DATETIME,
  notes TEXT,
  received_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS challans (
  id TEXT PRIMARY KEY,
  challan_number TEXT NOT NULL UNIQUE,
  document_id TEXT,
  department TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  status TEXT NOT NULL,
  issued_at DATETIME,
  deposited_at DATETIME,
  verified_at DATETIME,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  task_type TEXT NOT NULL,
  priority TEXT NOT NULL,
  status TEXT NOT NULL,
  assigned_to TEXT,
  assigned_by TEXT,
  document_id TEXT,
  customer_id TEXT,
  builder_id TEXT,
  due_date DATETIME,
  completed_at DATETIME,
  estimated_hours REAL,
  tags TEXT NOT NULL DEFAULT '[]',
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(setupDocumentsTestDB(t))
	svc, err := NewService(repo, nil, nil)
	require.NoError(t, err)
	return svc, repo
}

type capturingNotifier struct {
	pushed []notifications.CreateInput
}

func (c *capturingNotifier) Push(_ context.Context, input notifications.CreateInput) {
	c.pushed = append(c.pushed, input)
}

func TestDeliveryNotifiesAssignee(t *testing.T) {
	repo := NewRepository(setupDocumentsTestDB(t))
	notifier := &capturingNotifier{}
	svc, err := NewService(repo, nil, notifier)
	require.NoError(t, err)
	ctx := context.Background()

	assignee := uuid.New()
	doc, err := svc.Create(ctx, CreateDocumentInput{
		Type:          enums.DocumentTypeAgreement,
		CustomerName:  "Asha Rane",
		CustomerPhone: "9822011223",
		AssignedTo:    &assignee,
	})
	require.NoError(t, err)

	for _, next := range []enums.DocumentStatus{
		enums.DocumentStatusCollected,
		enums.DocumentStatusDataEntryPending,
		enums.DocumentStatusDataEntryCompleted,
		enums.DocumentStatusRegistrationPending,
		enums.DocumentStatusRegistered,
		enums.DocumentStatusReadyForDelivery,
	} {
		_, err = svc.UpdateStatus(ctx, doc.ID, next, nil)
		require.NoError(t, err)
	}
	assert.Empty(t, notifier.pushed)

	delivered, err := svc.UpdateStatus(ctx, doc.ID, enums.DocumentStatusDelivered, nil)
	require.NoError(t, err)
	require.NotNil(t, delivered.DeliveredAt)

	require.Len(t, notifier.pushed, 1)
	pushed := notifier.pushed[0]
	assert.Equal(t, assignee, pushed.UserID)
	assert.Equal(t, enums.NotificationTypeDocumentDelivered, pushed.Type)
	require.NotNil(t, pushed.EntityID)
	assert.Equal(t, doc.ID.String(), *pushed.EntityID)
}

func TestCreateDocumentEndToEnd(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, CreateDocumentInput{
		Type:          enums.DocumentTypeAgreement,
		CustomerName:  "A",
		CustomerPhone: "123",
		BuilderName:   "B",
	})
	require.NoError(t, err)

	wantNumber := fmt.Sprintf("AGREEMENT/%d/001", time.Now().Year())
	assert.Equal(t, wantNumber, doc.DocumentNumber)
	assert.Equal(t, enums.DocumentStatusPendingCollection, doc.Status)
	require.NotNil(t, doc.CustomerID)
	require.NotNil(t, doc.BuilderID)

	db := repo.DB(ctx)

	var customers []models.Customer
	require.NoError(t, db.Find(&customers).Error)
	require.Len(t, customers, 1)
	assert.Equal(t, "A", customers[0].Name)
	assert.Equal(t, "123", customers[0].Phone)
	assert.True(t, customers[0].DocumentIDs.Contains(doc.ID))

	var builders []models.Builder
	require.NoError(t, db.Find(&builders).Error)
	require.Len(t, builders, 1)
	assert.Equal(t, "B", builders[0].Name)
	assert.True(t, builders[0].DocumentIDs.Contains(doc.ID))
}

func TestCreateDocumentSequencePerTypeAndLinkingIdempotence(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	year := time.Now().Year()

	first, err := svc.Create(ctx, CreateDocumentInput{
		Type:          enums.DocumentTypeAgreement,
		CustomerName:  "Asha Rao",
		CustomerPhone: "9000000001",
		BuilderName:   "Skyline Constructions",
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, CreateDocumentInput{
		Type:          enums.DocumentTypeAgreement,
		CustomerName:  "Asha Rao",
		CustomerPhone: "9000000001",
		BuilderName:   "SKYLINE   constructions",
	})
	require.NoError(t, err)

	other, err := svc.Create(ctx, CreateDocumentInput{
		Type:          enums.DocumentTypeSaleDeed,
		CustomerName:  "Vikram Shah",
		CustomerPhone: "9000000002",
	})
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("AGREEMENT/%d/001", year), first.DocumentNumber)
	assert.Equal(t, fmt.Sprintf("AGREEMENT/%d/002", year), second.DocumentNumber)
	assert.Equal(t, fmt.Sprintf("SALEDEED/%d/001", year), other.DocumentNumber)

	// Same phone resolves to the same customer; spacing and casing
	// differences resolve to the same builder.
	require.Equal(t, *first.CustomerID, *second.CustomerID)
	require.Equal(t, *first.BuilderID, *second.BuilderID)

	db := repo.DB(ctx)

	var customerCount, builderCount int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&customerCount).Error)
	require.NoError(t, db.Model(&models.Builder{}).Count(&builderCount).Error)
	assert.Equal(t, int64(2), customerCount)
	assert.Equal(t, int64(1), builderCount)

	var builder models.Builder
	require.NoError(t, db.First(&builder, "id = ?", *first.BuilderID).Error)
	assert.Len(t, []uuid.UUID(builder.DocumentIDs), 2)
}

func TestUpdateStatusWalksPipelineAndStampsTimestamps(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, CreateDocumentInput{
		Type:          enums.DocumentTypeSaleDeed,
		CustomerName:  "Meena Pillai",
		CustomerPhone: "9000000003",
	})
	require.NoError(t, err)

	// Skipping a stage is rejected.
	_, err = svc.UpdateStatus(ctx, doc.ID, enums.DocumentStatusRegistered, nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	steps := []enums.DocumentStatus{
		enums.DocumentStatusCollected,
		enums.DocumentStatusDataEntryPending,
		enums.DocumentStatusDataEntryCompleted,
		enums.DocumentStatusRegistrationPending,
		enums.DocumentStatusRegistered,
		enums.DocumentStatusReadyForDelivery,
		enums.DocumentStatusDelivered,
	}
	var final *DocumentDTO
	for _, step := range steps {
		final, err = svc.UpdateStatus(ctx, doc.ID, step, nil)
		require.NoError(t, err, "transition to %s", step)
	}

	assert.Equal(t, enums.DocumentStatusDelivered, final.Status)
	assert.NotNil(t, final.CollectedAt)
	assert.NotNil(t, final.DataEntryAt)
	assert.NotNil(t, final.RegisteredAt)
	assert.NotNil(t, final.DeliveredAt)

	// Terminal status stays put.
	_, err = svc.UpdateStatus(ctx, doc.ID, enums.DocumentStatusCollected, nil)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestDeleteDocumentGuardsReferencesAndDetachesParties(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Create(ctx, CreateDocumentInput{
		Type:          enums.DocumentTypeLease,
		CustomerName:  "Rohan Mehta",
		CustomerPhone: "9000000004",
		BuilderName:   "Crestview Homes",
	})
	require.NoError(t, err)

	db := repo.DB(ctx)
	payment := models.Payment{
		ID:         uuid.New(),
		DocumentID: &doc.ID,
		Mode:       enums.PaymentModeCash,
		Status:     enums.PaymentStatusPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	err = svc.Delete(ctx, doc.ID, nil)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	require.NoError(t, db.Delete(&models.Payment{}, "id = ?", payment.ID).Error)
	require.NoError(t, svc.Delete(ctx, doc.ID, nil))

	var customer models.Customer
	require.NoError(t, db.First(&customer, "id = ?", *doc.CustomerID).Error)
	assert.False(t, customer.DocumentIDs.Contains(doc.ID))

	var builder models.Builder
	require.NoError(t, db.First(&builder, "id = ?", *doc.BuilderID).Error)
	assert.False(t, builder.DocumentIDs.Contains(doc.ID))
}

func TestListDocumentsFiltersAndPaginates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, CreateDocumentInput{
			Type:          enums.DocumentTypeAgreement,
			CustomerName:  fmt.Sprintf("Customer %d", i),
			CustomerPhone: fmt.Sprintf("90000001%02d", i),
		})
		require.NoError(t, err)
	}

	status := enums.DocumentStatusPendingCollection
	page, err := svc.List(ctx, ListFilter{Status: &status}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Documents, 2)
	require.NotEmpty(t, page.NextCursor)

	rest, err := svc.List(ctx, ListFilter{Status: &status}, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, rest.Documents, 1)
	assert.Empty(t, rest.NextCursor)
}
