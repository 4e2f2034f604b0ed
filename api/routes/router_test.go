package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/docudeskhq/docudesk-backend/internal/activity"
	"github.com/docudeskhq/docudesk-backend/internal/attendance"
	"github.com/docudeskhq/docudesk-backend/internal/auth"
	"github.com/docudeskhq/docudesk-backend/internal/dbadmin"
	"github.com/docudeskhq/docudesk-backend/internal/documents"
	"github.com/docudeskhq/docudesk-backend/internal/notifications"
	"github.com/docudeskhq/docudesk-backend/internal/parties"
	"github.com/docudeskhq/docudesk-backend/internal/payments"
	"github.com/docudeskhq/docudesk-backend/internal/payroll"
	"github.com/docudeskhq/docudesk-backend/internal/permissions"
	"github.com/docudeskhq/docudesk-backend/internal/settings"
	"github.com/docudeskhq/docudesk-backend/internal/tasks"
	"github.com/docudeskhq/docudesk-backend/internal/users"
	pkgAuth "github.com/docudeskhq/docudesk-backend/pkg/auth"
	"github.com/docudeskhq/docudesk-backend/pkg/auth/session"
	"github.com/docudeskhq/docudesk-backend/pkg/config"
	dbtypes "github.com/docudeskhq/docudesk-backend/pkg/db/types"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/docudeskhq/docudesk-backend/pkg/gmail"
	"github.com/docudeskhq/docudesk-backend/pkg/logger"
	"github.com/docudeskhq/docudesk-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error { return nil }

func (stubAuthService) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

type stubUsersService struct{}

func (stubUsersService) List(ctx context.Context, role *string) ([]users.UserDTO, error) {
	return nil, nil
}

func (stubUsersService) GetByID(ctx context.Context, id uuid.UUID) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) Create(ctx context.Context, actorRole enums.UserRole, email, fullName string, phone *string, role enums.UserRole) (*users.UserDTO, string, error) {
	panic("unimplemented")
}

func (stubUsersService) Update(ctx context.Context, id uuid.UUID, input users.UpdateUserInput) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	panic("unimplemented")
}

func (stubUsersService) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	panic("unimplemented")
}

func (stubUsersService) ResetPassword(ctx context.Context, id uuid.UUID) (string, error) {
	panic("unimplemented")
}

type stubPermissionsService struct {
	allow bool
}

func (s stubPermissionsService) HasPermission(ctx context.Context, userID uuid.UUID, role enums.UserRole, module enums.PermissionModule, action enums.PermissionAction) (bool, error) {
	if role == enums.UserRoleMainAdmin {
		return true, nil
	}
	return s.allow, nil
}

func (stubPermissionsService) ListForUser(ctx context.Context, userID uuid.UUID) ([]permissions.PermissionDTO, error) {
	return nil, nil
}

func (stubPermissionsService) SetForUser(ctx context.Context, actorID, userID uuid.UUID, grants []permissions.GrantInput) ([]permissions.PermissionDTO, error) {
	panic("unimplemented")
}

type stubPartiesService struct{}

func (stubPartiesService) SearchCustomers(ctx context.Context, query string, limit int) ([]parties.CustomerDTO, error) {
	return nil, nil
}

func (stubPartiesService) GetCustomer(ctx context.Context, id uuid.UUID) (*parties.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubPartiesService) CreateCustomer(ctx context.Context, name, phone string, email, address *string) (*parties.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubPartiesService) UpdateCustomer(ctx context.Context, id uuid.UUID, input parties.UpdateCustomerInput) (*parties.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubPartiesService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubPartiesService) SearchBuilders(ctx context.Context, query string, limit int) ([]parties.BuilderDTO, error) {
	return nil, nil
}

func (stubPartiesService) GetBuilder(ctx context.Context, id uuid.UUID) (*parties.BuilderDTO, error) {
	panic("unimplemented")
}

func (stubPartiesService) CreateBuilder(ctx context.Context, name string, contactPerson, phone, email, address *string) (*parties.BuilderDTO, error) {
	panic("unimplemented")
}

func (stubPartiesService) UpdateBuilder(ctx context.Context, id uuid.UUID, input parties.UpdateBuilderInput) (*parties.BuilderDTO, error) {
	panic("unimplemented")
}

func (stubPartiesService) DeleteBuilder(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubDocumentsService struct{}

func (stubDocumentsService) Create(ctx context.Context, input documents.CreateDocumentInput) (*documents.DocumentDTO, error) {
	panic("unimplemented")
}

func (stubDocumentsService) GetByID(ctx context.Context, id uuid.UUID) (*documents.DocumentDTO, error) {
	panic("unimplemented")
}

func (stubDocumentsService) GetByNumber(ctx context.Context, number string) (*documents.DocumentDTO, error) {
	panic("unimplemented")
}

func (stubDocumentsService) List(ctx context.Context, filter documents.ListFilter, params pagination.Params) (*documents.ListPage, error) {
	return &documents.ListPage{}, nil
}

func (stubDocumentsService) Update(ctx context.Context, id uuid.UUID, input documents.UpdateDocumentInput) (*documents.DocumentDTO, error) {
	panic("unimplemented")
}

func (stubDocumentsService) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.DocumentStatus, actorID *uuid.UUID) (*documents.DocumentDTO, error) {
	panic("unimplemented")
}

func (stubDocumentsService) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	panic("unimplemented")
}

func (stubDocumentsService) AddFile(ctx context.Context, documentID uuid.UUID, input documents.AddFileInput) (*documents.FileDTO, error) {
	panic("unimplemented")
}

func (stubDocumentsService) ListFiles(ctx context.Context, documentID uuid.UUID) ([]documents.FileDTO, error) {
	panic("unimplemented")
}

func (stubDocumentsService) DeleteFile(ctx context.Context, documentID, fileID uuid.UUID) error {
	panic("unimplemented")
}

type stubPaymentsService struct{}

func (stubPaymentsService) RecordPayment(ctx context.Context, input payments.RecordPaymentInput) (*payments.PaymentDTO, error) {
	panic("unimplemented")
}

func (stubPaymentsService) GetPayment(ctx context.Context, id uuid.UUID) (*payments.PaymentDTO, error) {
	panic("unimplemented")
}

func (stubPaymentsService) ListPayments(ctx context.Context, filter payments.PaymentFilter) ([]payments.PaymentDTO, error) {
	return nil, nil
}

func (stubPaymentsService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, next enums.PaymentStatus, actorID *uuid.UUID) (*payments.PaymentDTO, error) {
	panic("unimplemented")
}

func (stubPaymentsService) TotalReceivedForDocument(ctx context.Context, documentID uuid.UUID) (decimal.Decimal, error) {
	panic("unimplemented")
}

func (stubPaymentsService) IssueChallan(ctx context.Context, input payments.IssueChallanInput) (*payments.ChallanDTO, error) {
	panic("unimplemented")
}

func (stubPaymentsService) GetChallan(ctx context.Context, id uuid.UUID) (*payments.ChallanDTO, error) {
	panic("unimplemented")
}

func (stubPaymentsService) ListChallans(ctx context.Context, filter payments.ChallanFilter) ([]payments.ChallanDTO, error) {
	return nil, nil
}

func (stubPaymentsService) UpdateChallanStatus(ctx context.Context, id uuid.UUID, next enums.ChallanStatus, actorID *uuid.UUID) (*payments.ChallanDTO, error) {
	panic("unimplemented")
}

type stubTasksService struct{}

func (stubTasksService) Create(ctx context.Context, input tasks.CreateTaskInput) (*tasks.TaskDTO, error) {
	panic("unimplemented")
}

func (stubTasksService) GetByID(ctx context.Context, id uuid.UUID) (*tasks.TaskDTO, error) {
	panic("unimplemented")
}

func (stubTasksService) List(ctx context.Context, filter tasks.ListFilter) ([]tasks.TaskDTO, error) {
	return nil, nil
}

func (stubTasksService) Update(ctx context.Context, id uuid.UUID, input tasks.UpdateTaskInput) (*tasks.TaskDTO, error) {
	panic("unimplemented")
}

func (stubTasksService) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.TaskStatus, actorID *uuid.UUID) (*tasks.TaskDTO, error) {
	panic("unimplemented")
}

func (stubTasksService) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	panic("unimplemented")
}

func (stubTasksService) AddComment(ctx context.Context, taskID, authorID uuid.UUID, body string) (*tasks.CommentDTO, error) {
	panic("unimplemented")
}

func (stubTasksService) ListComments(ctx context.Context, taskID uuid.UUID) ([]tasks.CommentDTO, error) {
	panic("unimplemented")
}

type stubAttendanceService struct{}

func (stubAttendanceService) ClockIn(ctx context.Context, userID uuid.UUID) (*attendance.RecordDTO, error) {
	return &attendance.RecordDTO{UserID: userID}, nil
}

func (stubAttendanceService) ClockOut(ctx context.Context, userID uuid.UUID, input attendance.ClockOutInput) (*attendance.RecordDTO, error) {
	panic("unimplemented")
}

func (stubAttendanceService) Today(ctx context.Context, userID uuid.UUID) (*attendance.RecordDTO, error) {
	panic("unimplemented")
}

func (stubAttendanceService) ListRecords(ctx context.Context, filter attendance.RecordFilter) ([]attendance.RecordDTO, error) {
	return nil, nil
}

func (stubAttendanceService) MonthlyOvertime(ctx context.Context, userID uuid.UUID, year int, month time.Month) (float64, error) {
	panic("unimplemented")
}

func (stubAttendanceService) RequestLeave(ctx context.Context, userID uuid.UUID, input attendance.RequestLeaveInput) (*attendance.LeaveDTO, error) {
	panic("unimplemented")
}

func (stubAttendanceService) DecideLeave(ctx context.Context, id uuid.UUID, approve bool, decidedBy uuid.UUID) (*attendance.LeaveDTO, error) {
	panic("unimplemented")
}

func (stubAttendanceService) ListLeaves(ctx context.Context, filter attendance.LeaveFilter) ([]attendance.LeaveDTO, error) {
	panic("unimplemented")
}

type stubPayrollService struct{}

func (stubPayrollService) UpsertConfig(ctx context.Context, input payroll.UpsertConfigInput) (*payroll.ConfigDTO, error) {
	panic("unimplemented")
}

func (stubPayrollService) GetActiveConfig(ctx context.Context, userID uuid.UUID) (*payroll.ConfigDTO, error) {
	panic("unimplemented")
}

func (stubPayrollService) Generate(ctx context.Context, input payroll.GenerateInput) (*payroll.GenerateResult, error) {
	panic("unimplemented")
}

func (stubPayrollService) GetRecord(ctx context.Context, id uuid.UUID) (*payroll.RecordDTO, error) {
	panic("unimplemented")
}

func (stubPayrollService) ListRecords(ctx context.Context, filter payroll.RecordFilter) ([]payroll.RecordDTO, error) {
	return nil, nil
}

func (stubPayrollService) UpdateRecordStatus(ctx context.Context, id uuid.UUID, next enums.SalaryStatus, actorID *uuid.UUID) (*payroll.RecordDTO, error) {
	panic("unimplemented")
}

type stubSettingsService struct{}

func (stubSettingsService) Get(ctx context.Context, key string) (*settings.SettingDTO, error) {
	panic("unimplemented")
}

func (stubSettingsService) List(ctx context.Context) ([]settings.SettingDTO, error) {
	return nil, nil
}

func (stubSettingsService) Set(ctx context.Context, key string, value dbtypes.JSONMap, updatedBy *uuid.UUID) (*settings.SettingDTO, error) {
	panic("unimplemented")
}

func (stubSettingsService) Delete(ctx context.Context, key string) error {
	panic("unimplemented")
}

type stubNotificationsService struct{}

func (stubNotificationsService) Create(ctx context.Context, input notifications.CreateInput) (*notifications.NotificationDTO, error) {
	panic("unimplemented")
}

func (stubNotificationsService) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]notifications.NotificationDTO, error) {
	return nil, nil
}

func (stubNotificationsService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (stubNotificationsService) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	panic("unimplemented")
}

type stubMailboxService struct{}

func (stubMailboxService) ConnectURL(ctx context.Context) (string, error) { panic("unimplemented") }

func (stubMailboxService) CompleteConnect(ctx context.Context, state, code string, actorID *uuid.UUID) error {
	panic("unimplemented")
}

func (stubMailboxService) Connected(ctx context.Context) bool { return false }

func (stubMailboxService) Disconnect(ctx context.Context) error { panic("unimplemented") }

func (stubMailboxService) ListInbox(ctx context.Context, query string, maxResults int64) ([]gmail.Message, error) {
	panic("unimplemented")
}

func (stubMailboxService) GetMessage(ctx context.Context, id string) (*gmail.Message, error) {
	panic("unimplemented")
}

func (stubMailboxService) MarkRead(ctx context.Context, id string) error { panic("unimplemented") }

func (stubMailboxService) Trash(ctx context.Context, id string) error { panic("unimplemented") }

func (stubMailboxService) Send(ctx context.Context, to, subject, body string) (string, error) {
	panic("unimplemented")
}

type stubDBAdminService struct{}

func (stubDBAdminService) Query(ctx context.Context, input dbadmin.QueryInput) (*dbadmin.QueryResult, error) {
	panic("unimplemented")
}

func (stubDBAdminService) TestConnection(ctx context.Context, input dbadmin.TestConnectionInput) (*dbadmin.TestConnectionResult, error) {
	return &dbadmin.TestConnectionResult{Status: "ok"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
	}
}

func newTestRouter(cfg *config.Config, allowStaff bool) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		stubSessionChecker{},
		nil,
		nil,
		Services{
			Auth:          stubAuthService{},
			Users:         stubUsersService{},
			Permissions:   stubPermissionsService{allow: allowStaff},
			Parties:       stubPartiesService{},
			Documents:     stubDocumentsService{},
			Payments:      stubPaymentsService{},
			Tasks:         stubTasksService{},
			Attendance:    stubAttendanceService{},
			Payroll:       stubPayrollService{},
			Settings:      stubSettingsService{},
			Notifications: stubNotificationsService{},
			Mailbox:       stubMailboxService{},
			DBAdmin:       stubDBAdminService{},
			Activity:      activity.NewRecorder(nil, nil),
		},
	)
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig(), false)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig(), true)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPermissionGateBlocksUngrantedStaff(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for ungranted staff got %d", resp.Code)
	}
}

func TestPermissionGateAllowsGrantedStaff(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for granted staff got %d", resp.Code)
	}
}

func TestSelfAttendanceNeedsNoGrant(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock-in", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for clock-in got %d", resp.Code)
	}
}

func TestDBAdminRequiresMainAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, true)

	staff := httptest.NewRequest(http.MethodPost, "/api/admin/v1/db/test-connection", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaffAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, "/api/admin/v1/db/test-connection", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleMainAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for main admin got %d", resp.Code)
	}
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		Name:   "Test User",
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
