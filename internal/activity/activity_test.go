package activity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupActivityTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS activity_logs (
  id TEXT PRIMARY KEY,
  actor_id TEXT,
  entity_type TEXT NOT NULL,
  entity_id TEXT NOT NULL,
  action TEXT NOT NULL,
  detail TEXT NOT NULL DEFAULT '',
  created_at DATETIME
);`).Error)
	return db
}

func TestRecordAndListByEntity(t *testing.T) {
	recorder := NewRecorder(NewRepository(setupActivityTestDB(t)), nil)
	ctx := context.Background()

	actor := uuid.New()
	docID := uuid.NewString()
	recorder.Record(ctx, &actor, "document", docID, enums.ActivityActionCreated, "document registered")
	recorder.Record(ctx, &actor, "document", docID, enums.ActivityActionStatusChanged, "moved to collected")
	recorder.Record(ctx, &actor, "task", uuid.NewString(), enums.ActivityActionCreated, "task created")

	entries, err := recorder.List(ctx, ListFilter{EntityType: "document", EntityID: docID})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, "document", entry.EntityType)
		assert.Equal(t, docID, entry.EntityID)
	}

	mine, err := recorder.List(ctx, ListFilter{ActorID: &actor})
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestListCapsLimit(t *testing.T) {
	recorder := NewRecorder(NewRepository(setupActivityTestDB(t)), nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		recorder.Record(ctx, nil, "document", uuid.NewString(), enums.ActivityActionCreated, "entry")
	}

	entries, err := recorder.List(ctx, ListFilter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

type failingActivityRepo struct{}

func (failingActivityRepo) Create(context.Context, *models.ActivityLog) error {
	return errors.New("store down")
}

func (failingActivityRepo) List(context.Context, ListFilter) ([]models.ActivityLog, error) {
	return nil, errors.New("store down")
}

func TestRecordSwallowsStoreErrors(t *testing.T) {
	recorder := NewRecorder(failingActivityRepo{}, nil)

	// Must not panic or surface the error.
	recorder.Record(context.Background(), nil, "document", uuid.NewString(), enums.ActivityActionCreated, "entry")
}
