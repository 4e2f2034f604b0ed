package dbadmin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/config"
	"github.com/docudeskhq/docudesk-backend/pkg/db"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/docudeskhq/docudesk-backend/pkg/logger"
	"gorm.io/gorm"
)

const maxRows = 500

// QueryInput is one raw statement with positional parameters.
type QueryInput struct {
	SQL    string `json:"sql" validate:"required"`
	Params []any  `json:"params"`
}

// QueryResult is the shaped outcome of one statement. Reads carry columns
// and rows; writes carry the affected row count.
type QueryResult struct {
	Columns      []string         `json:"columns,omitempty"`
	Rows         []map[string]any `json:"rows,omitempty"`
	RowCount     int              `json:"row_count"`
	RowsAffected int64            `json:"rows_affected,omitempty"`
	Truncated    bool             `json:"truncated,omitempty"`
	ElapsedMS    int64            `json:"elapsed_ms"`
}

// TestConnectionInput carries discrete connection fields to probe. All
// fields empty means "ping the configured database".
type TestConnectionInput struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	Username string `json:"username"`
	Password string `json:"password"`
	SSLMode  string `json:"ssl_mode"`
}

func (t TestConnectionInput) isZero() bool {
	return t.Host == "" && t.Database == "" && t.Username == ""
}

// TestConnectionResult reports a successful probe.
type TestConnectionResult struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

// Service is the raw SQL gateway. Routing must restrict it to main admins.
type Service interface {
	Query(ctx context.Context, input QueryInput) (*QueryResult, error)
	TestConnection(ctx context.Context, input TestConnectionInput) (*TestConnectionResult, error)
}

// targetPinger is the throwaway connection opened for a probe.
type targetPinger interface {
	Ping(ctx context.Context) error
	Close() error
}

type service struct {
	db         *gorm.DB
	logg       *logger.Logger
	now        func() time.Time
	openTarget func(ctx context.Context, cfg config.DBConfig) (targetPinger, error)
}

// NewService constructs the database gateway. The logger is optional.
func NewService(gdb *gorm.DB, logg *logger.Logger) (Service, error) {
	if gdb == nil {
		return nil, fmt.Errorf("database handle required")
	}
	return &service{
		db:   gdb,
		logg: logg,
		now:  time.Now,
		openTarget: func(ctx context.Context, cfg config.DBConfig) (targetPinger, error) {
			return db.New(ctx, cfg, nil)
		},
	}, nil
}

func (s *service) Query(ctx context.Context, input QueryInput) (*QueryResult, error) {
	statement := strings.TrimSpace(input.SQL)
	if statement == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sql statement is required")
	}
	if strings.Contains(strings.TrimRight(statement, "; \t\n"), ";") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "multiple statements are not allowed")
	}

	started := s.now()
	if s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("raw sql executed: %.120s", statement))
	}

	var result *QueryResult
	var err error
	if isReadStatement(statement) {
		result, err = s.runRead(ctx, statement, input.Params)
	} else {
		result, err = s.runWrite(ctx, statement, input.Params)
	}
	if err != nil {
		return nil, err
	}
	result.ElapsedMS = s.now().Sub(started).Milliseconds()
	return result, nil
}

func (s *service) runRead(ctx context.Context, statement string, params []any) (*QueryResult, error) {
	rows, err := s.db.WithContext(ctx).Raw(statement, params...).Rows()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "query failed")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read columns")
	}

	result := &QueryResult{Columns: columns}
	for rows.Next() {
		if len(result.Rows) >= maxRows {
			result.Truncated = true
			break
		}
		shaped, err := scanRow(rows, columns)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan row")
		}
		result.Rows = append(result.Rows, shaped)
	}
	if err := rows.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "iterate rows")
	}
	result.RowCount = len(result.Rows)
	return result, nil
}

func (s *service) runWrite(ctx context.Context, statement string, params []any) (*QueryResult, error) {
	tx := s.db.WithContext(ctx).Exec(statement, params...)
	if tx.Error != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, tx.Error, "statement failed")
	}
	return &QueryResult{RowsAffected: tx.RowsAffected}, nil
}

func (s *service) TestConnection(ctx context.Context, input TestConnectionInput) (*TestConnectionResult, error) {
	started := s.now()

	if input.isZero() {
		sqlDB, err := s.db.DB()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire connection")
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ping database")
		}
		return &TestConnectionResult{Status: "ok", LatencyMS: s.now().Sub(started).Milliseconds()}, nil
	}

	cfg := config.DBConfig{
		Host:     input.Host,
		Port:     input.Port,
		User:     input.Username,
		Password: input.Password,
		Name:     input.Database,
		SSLMode:  input.SSLMode,
	}
	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	if err := cfg.EnsureDSN(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "build connection config")
	}

	target, err := s.openTarget(ctx, cfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open connection")
	}
	defer target.Close()

	if err := target.Ping(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ping database")
	}
	return &TestConnectionResult{Status: "ok", LatencyMS: s.now().Sub(started).Milliseconds()}, nil
}

// rowScanner is the subset of sql.Rows used by scanRow.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRow shapes one row into a column-keyed map. Byte slices become
// strings so JSON output stays readable.
func scanRow(rows rowScanner, columns []string) (map[string]any, error) {
	values := make([]any, len(columns))
	pointers := make([]any, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	if err := rows.Scan(pointers...); err != nil {
		return nil, err
	}

	shaped := make(map[string]any, len(columns))
	for i, column := range columns {
		shaped[column] = normalizeValue(values[i])
	}
	return shaped, nil
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return v
	}
}

// isReadStatement reports whether the statement only reads. Everything else
// goes through Exec so the affected row count comes back.
func isReadStatement(statement string) bool {
	head := strings.ToLower(statement)
	for _, prefix := range []string{"select", "with", "explain", "show", "pragma"} {
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}
