package dbadmin

import (
	"context"
	"fmt"
	"testing"

	"github.com/docudeskhq/docudesk-backend/pkg/config"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGatewayTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS samples (
  id INTEGER PRIMARY KEY,
  label TEXT NOT NULL,
  amount REAL
);`).Error)
	for i := 1; i <= 3; i++ {
		require.NoError(t, db.Exec(
			"INSERT INTO samples (id, label, amount) VALUES (?, ?, ?)",
			i, fmt.Sprintf("row-%d", i), float64(i)*1.5,
		).Error)
	}
	return db
}

func newGatewayService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(setupGatewayTestDB(t), nil)
	require.NoError(t, err)
	return svc
}

func TestQuerySelectShapesRows(t *testing.T) {
	svc := newGatewayService(t)

	result, err := svc.Query(context.Background(), QueryInput{
		SQL:    "SELECT id, label, amount FROM samples WHERE id >= ? ORDER BY id",
		Params: []any{2},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "label", "amount"}, result.Columns)
	require.Equal(t, 2, result.RowCount)
	assert.Equal(t, "row-2", result.Rows[0]["label"])
	assert.False(t, result.Truncated)
}

func TestQueryWriteReportsRowsAffected(t *testing.T) {
	svc := newGatewayService(t)
	ctx := context.Background()

	result, err := svc.Query(ctx, QueryInput{
		SQL:    "UPDATE samples SET label = ? WHERE id <= ?",
		Params: []any{"renamed", 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.RowsAffected)
	assert.Empty(t, result.Rows)

	check, err := svc.Query(ctx, QueryInput{SQL: "SELECT COUNT(*) AS n FROM samples WHERE label = 'renamed'"})
	require.NoError(t, err)
	require.Equal(t, 1, check.RowCount)
	assert.EqualValues(t, 2, check.Rows[0]["n"])
}

func TestQueryRejectsEmptyAndMultipleStatements(t *testing.T) {
	svc := newGatewayService(t)
	ctx := context.Background()

	_, err := svc.Query(ctx, QueryInput{SQL: "   "})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.Query(ctx, QueryInput{SQL: "SELECT 1; DROP TABLE samples"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	// A single trailing semicolon is fine.
	_, err = svc.Query(ctx, QueryInput{SQL: "SELECT 1;"})
	require.NoError(t, err)
}

func TestQuerySurfacesSQLErrors(t *testing.T) {
	svc := newGatewayService(t)

	_, err := svc.Query(context.Background(), QueryInput{SQL: "SELECT * FROM no_such_table"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

type stubTargetPinger struct {
	pingErr error
	pinged  bool
	closed  bool
}

func (s *stubTargetPinger) Ping(_ context.Context) error {
	s.pinged = true
	return s.pingErr
}

func (s *stubTargetPinger) Close() error {
	s.closed = true
	return nil
}

func TestTestConnectionPingsConfiguredDB(t *testing.T) {
	svc := newGatewayService(t)

	result, err := svc.TestConnection(context.Background(), TestConnectionInput{})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Status)
}

func TestTestConnectionProbesSubmittedTarget(t *testing.T) {
	svc := newGatewayService(t).(*service)

	pinger := &stubTargetPinger{}
	var probed config.DBConfig
	svc.openTarget = func(_ context.Context, cfg config.DBConfig) (targetPinger, error) {
		probed = cfg
		return pinger, nil
	}

	result, err := svc.TestConnection(context.Background(), TestConnectionInput{
		Host:     "db.internal",
		Database: "reports",
		Username: "auditor",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Status)
	assert.True(t, pinger.pinged)
	assert.True(t, pinger.closed)
	assert.Equal(t, "db.internal", probed.Host)
	assert.Equal(t, 5432, probed.Port)
	assert.Equal(t, "reports", probed.Name)
	assert.NotEmpty(t, probed.DSN)
}

func TestTestConnectionRejectsIncompleteTarget(t *testing.T) {
	svc := newGatewayService(t)

	_, err := svc.TestConnection(context.Background(), TestConnectionInput{Host: "db.internal"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestTestConnectionSurfacesDialFailure(t *testing.T) {
	svc := newGatewayService(t).(*service)
	svc.openTarget = func(_ context.Context, _ config.DBConfig) (targetPinger, error) {
		return nil, fmt.Errorf("connection refused")
	}

	_, err := svc.TestConnection(context.Background(), TestConnectionInput{
		Host:     "db.internal",
		Database: "reports",
		Username: "auditor",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
