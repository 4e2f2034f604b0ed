package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docudeskhq/docudesk-backend/api/controllers"
	"github.com/docudeskhq/docudesk-backend/api/middleware"
	"github.com/docudeskhq/docudesk-backend/internal/activity"
	"github.com/docudeskhq/docudesk-backend/internal/attendance"
	"github.com/docudeskhq/docudesk-backend/internal/auth"
	"github.com/docudeskhq/docudesk-backend/internal/dbadmin"
	"github.com/docudeskhq/docudesk-backend/internal/documents"
	"github.com/docudeskhq/docudesk-backend/internal/mailbox"
	"github.com/docudeskhq/docudesk-backend/internal/notifications"
	"github.com/docudeskhq/docudesk-backend/internal/parties"
	"github.com/docudeskhq/docudesk-backend/internal/payments"
	"github.com/docudeskhq/docudesk-backend/internal/payroll"
	"github.com/docudeskhq/docudesk-backend/internal/permissions"
	"github.com/docudeskhq/docudesk-backend/internal/settings"
	"github.com/docudeskhq/docudesk-backend/internal/tasks"
	"github.com/docudeskhq/docudesk-backend/internal/users"
	"github.com/docudeskhq/docudesk-backend/pkg/auth/session"
	"github.com/docudeskhq/docudesk-backend/pkg/config"
	"github.com/docudeskhq/docudesk-backend/pkg/db"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/docudeskhq/docudesk-backend/pkg/logger"
	"github.com/docudeskhq/docudesk-backend/pkg/metrics"
	"github.com/docudeskhq/docudesk-backend/pkg/redis"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Auth          auth.Service
	Users         users.Service
	Permissions   permissions.Service
	Parties       parties.Service
	Documents     documents.Service
	Payments      payments.Service
	Tasks         tasks.Service
	Attendance    attendance.Service
	Payroll       payroll.Service
	Settings      settings.Service
	Notifications notifications.Service
	Mailbox       mailbox.Service
	DBAdmin       dbadmin.Service
	Activity      *activity.Recorder
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessionChecker session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	perm := func(module enums.PermissionModule, action enums.PermissionAction) func(http.Handler) http.Handler {
		return middleware.RequirePermission(svcs.Permissions, module, action, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, cfg.JWT, logg))
	})

	// Google redirects here; the one-shot state nonce authenticates the call.
	r.Get("/api/v1/mailbox/oauth/callback", controllers.MailboxCallback(svcs.Mailbox, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.Metrics(httpMetrics))

		r.Get("/auth/me", controllers.AuthMe(svcs.Auth, logg))

		r.Route("/users", func(r chi.Router) {
			r.With(perm(enums.PermissionModuleUsers, enums.PermissionActionView)).Get("/", controllers.UserList(svcs.Users, logg))
			r.With(perm(enums.PermissionModuleUsers, enums.PermissionActionCreate)).Post("/", controllers.UserCreate(svcs.Users, logg))
			r.Post("/change-password", controllers.UserChangePassword(svcs.Users, logg))
			r.Route("/{userId}", func(r chi.Router) {
				r.With(perm(enums.PermissionModuleUsers, enums.PermissionActionView)).Get("/", controllers.UserDetail(svcs.Users, logg))
				r.With(perm(enums.PermissionModuleUsers, enums.PermissionActionEdit)).Patch("/", controllers.UserUpdate(svcs.Users, logg))
				r.With(perm(enums.PermissionModuleUsers, enums.PermissionActionEdit)).Post("/active", controllers.UserSetActive(svcs.Users, logg))
				r.With(perm(enums.PermissionModuleUsers, enums.PermissionActionEdit)).Post("/reset-password", controllers.UserResetPassword(svcs.Users, logg))
				r.With(middleware.RequireMainAdmin(logg)).Get("/permissions", controllers.PermissionList(svcs.Permissions, logg))
				r.With(middleware.RequireMainAdmin(logg)).Put("/permissions", controllers.PermissionSet(svcs.Permissions, logg))
				r.With(perm(enums.PermissionModuleAttendance, enums.PermissionActionView)).Get("/overtime", controllers.AttendanceOvertime(svcs.Attendance, logg))
				r.With(perm(enums.PermissionModulePayroll, enums.PermissionActionView)).Get("/salary-config", controllers.SalaryConfigDetail(svcs.Payroll, logg))
			})
		})

		r.Route("/customers", func(r chi.Router) {
			r.With(perm(enums.PermissionModuleCustomers, enums.PermissionActionView)).Get("/", controllers.CustomerSearch(svcs.Parties, logg))
			r.With(perm(enums.PermissionModuleCustomers, enums.PermissionActionCreate)).Post("/", controllers.CustomerCreate(svcs.Parties, logg))
			r.Route("/{customerId}", func(r chi.Router) {
				r.With(perm(enums.PermissionModuleCustomers, enums.PermissionActionView)).Get("/", controllers.CustomerDetail(svcs.Parties, logg))
				r.With(perm(enums.PermissionModuleCustomers, enums.PermissionActionEdit)).Patch("/", controllers.CustomerUpdate(svcs.Parties, logg))
				r.With(perm(enums.PermissionModuleCustomers, enums.PermissionActionDelete)).Delete("/", controllers.CustomerDelete(svcs.Parties, logg))
			})
		})

		r.Route("/builders", func(r chi.Router) {
			r.With(perm(enums.PermissionModuleBuilders, enums.PermissionActionView)).Get("/", controllers.BuilderSearch(svcs.Parties, logg))
			r.With(perm(enums.PermissionModuleBuilders, enums.PermissionActionCreate)).Post("/", controllers.BuilderCreate(svcs.Parties, logg))
			r.Route("/{builderId}", func(r chi.Router) {
				r.With(perm(enums.PermissionModuleBuilders, enums.PermissionActionView)).Get("/", controllers.BuilderDetail(svcs.Parties, logg))
				r.With(perm(enums.PermissionModuleBuilders, enums.PermissionActionEdit)).Patch("/", controllers.BuilderUpdate(svcs.Parties, logg))
				r.With(perm(enums.PermissionModuleBuilders, enums.PermissionActionDelete)).Delete("/", controllers.BuilderDelete(svcs.Parties, logg))
			})
		})

		r.Route("/documents", func(r chi.Router) {
			r.With(perm(enums.PermissionModuleDocuments, enums.PermissionActionView)).Get("/", controllers.DocumentList(svcs.Documents, logg))
			r.With(perm(enums.PermissionModuleDocuments, enums.PermissionActionView)).Get("/lookup", controllers.DocumentLookupByNumber(svcs.Documents, logg))
			r.With(perm(enums.PermissionModuleDocuments, enums.PermissionActionCreate)).Post("/", controllers.DocumentCreate(svcs.Documents, logg))
			r.Route("/{documentId}", func(r chi.Router) {
				r.With(perm(enums.PermissionModuleDocuments, enums.PermissionActionView)).Get("/", controllers.DocumentDetail(svcs.Documents, logg))
				r.With(perm(enums.PermissionModuleDocuments, enums.PermissionActionEdit)).Patch("/", controllers.DocumentUpdate(svcs.Documents, logg))
				r.With(perm(enums.PermissionModuleDocuments, enums.PermissionActionEdit)).Post("/status", controllers.DocumentUpdateStatus(svcs.Documents, logg))
				r.With(perm(enums.PermissionModuleDocuments, enums.PermissionActionDelete)).Delete("/", controllers.DocumentDelete(svcs.Documents, logg))
				r.With(perm(enums.PermissionModuleDocuments, enums.PermissionActionView)).Get("/files", controllers.DocumentFiles(svcs.Documents, logg))
				r.With(perm(enums.PermissionModuleDocuments, enums.PermissionActionEdit)).Post("/files", controllers.DocumentAddFile(svcs.Documents, logg))
				r.With(perm(enums.PermissionModuleDocuments, enums.PermissionActionEdit)).Delete("/files/{fileId}", controllers.DocumentDeleteFile(svcs.Documents, logg))
				r.With(perm(enums.PermissionModulePayments, enums.PermissionActionView)).Get("/payments/total", controllers.DocumentPaymentTotal(svcs.Payments, logg))
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.With(perm(enums.PermissionModulePayments, enums.PermissionActionView)).Get("/", controllers.PaymentList(svcs.Payments, logg))
			r.With(perm(enums.PermissionModulePayments, enums.PermissionActionCreate)).Post("/", controllers.PaymentCreate(svcs.Payments, logg))
			r.Route("/{paymentId}", func(r chi.Router) {
				r.With(perm(enums.PermissionModulePayments, enums.PermissionActionView)).Get("/", controllers.PaymentDetail(svcs.Payments, logg))
				r.With(perm(enums.PermissionModulePayments, enums.PermissionActionEdit)).Post("/status", controllers.PaymentUpdateStatus(svcs.Payments, logg))
			})
		})

		r.Route("/challans", func(r chi.Router) {
			r.With(perm(enums.PermissionModuleChallans, enums.PermissionActionView)).Get("/", controllers.ChallanList(svcs.Payments, logg))
			r.With(perm(enums.PermissionModuleChallans, enums.PermissionActionCreate)).Post("/", controllers.ChallanCreate(svcs.Payments, logg))
			r.Route("/{challanId}", func(r chi.Router) {
				r.With(perm(enums.PermissionModuleChallans, enums.PermissionActionView)).Get("/", controllers.ChallanDetail(svcs.Payments, logg))
				r.With(perm(enums.PermissionModuleChallans, enums.PermissionActionEdit)).Post("/status", controllers.ChallanUpdateStatus(svcs.Payments, logg))
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.With(perm(enums.PermissionModuleTasks, enums.PermissionActionView)).Get("/", controllers.TaskList(svcs.Tasks, logg))
			r.With(perm(enums.PermissionModuleTasks, enums.PermissionActionCreate)).Post("/", controllers.TaskCreate(svcs.Tasks, logg))
			r.Route("/{taskId}", func(r chi.Router) {
				r.With(perm(enums.PermissionModuleTasks, enums.PermissionActionView)).Get("/", controllers.TaskDetail(svcs.Tasks, logg))
				r.With(perm(enums.PermissionModuleTasks, enums.PermissionActionEdit)).Patch("/", controllers.TaskUpdate(svcs.Tasks, logg))
				r.With(perm(enums.PermissionModuleTasks, enums.PermissionActionEdit)).Post("/status", controllers.TaskUpdateStatus(svcs.Tasks, logg))
				r.With(perm(enums.PermissionModuleTasks, enums.PermissionActionDelete)).Delete("/", controllers.TaskDelete(svcs.Tasks, logg))
				r.With(perm(enums.PermissionModuleTasks, enums.PermissionActionView)).Get("/comments", controllers.TaskComments(svcs.Tasks, logg))
				r.With(perm(enums.PermissionModuleTasks, enums.PermissionActionEdit)).Post("/comments", controllers.TaskAddComment(svcs.Tasks, logg))
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			// Clocking applies to the caller; no module grant needed.
			r.Post("/clock-in", controllers.AttendanceClockIn(svcs.Attendance, logg))
			r.Post("/clock-out", controllers.AttendanceClockOut(svcs.Attendance, logg))
			r.Get("/today", controllers.AttendanceToday(svcs.Attendance, logg))
			r.With(perm(enums.PermissionModuleAttendance, enums.PermissionActionView)).Get("/", controllers.AttendanceList(svcs.Attendance, logg))

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", controllers.LeaveRequest(svcs.Attendance, logg))
				r.With(perm(enums.PermissionModuleAttendance, enums.PermissionActionView)).Get("/", controllers.LeaveList(svcs.Attendance, logg))
				r.With(perm(enums.PermissionModuleAttendance, enums.PermissionActionApprove)).Post("/{leaveId}/decision", controllers.LeaveDecide(svcs.Attendance, logg))
			})
		})

		r.Route("/payroll", func(r chi.Router) {
			r.With(perm(enums.PermissionModulePayroll, enums.PermissionActionEdit)).Put("/configs", controllers.SalaryConfigUpsert(svcs.Payroll, logg))
			r.With(perm(enums.PermissionModulePayroll, enums.PermissionActionCreate)).Post("/generate", controllers.PayrollGenerate(svcs.Payroll, logg))
			r.Route("/records", func(r chi.Router) {
				r.With(perm(enums.PermissionModulePayroll, enums.PermissionActionView)).Get("/", controllers.SalaryRecordList(svcs.Payroll, logg))
				r.With(perm(enums.PermissionModulePayroll, enums.PermissionActionView)).Get("/{recordId}", controllers.SalaryRecordDetail(svcs.Payroll, logg))
				r.With(perm(enums.PermissionModulePayroll, enums.PermissionActionApprove)).Post("/{recordId}/status", controllers.SalaryRecordUpdateStatus(svcs.Payroll, logg))
			})
		})

		r.Route("/settings", func(r chi.Router) {
			r.With(perm(enums.PermissionModuleSettings, enums.PermissionActionView)).Get("/", controllers.SettingList(svcs.Settings, logg))
			r.Route("/{key}", func(r chi.Router) {
				r.With(perm(enums.PermissionModuleSettings, enums.PermissionActionView)).Get("/", controllers.SettingGet(svcs.Settings, logg))
				r.With(perm(enums.PermissionModuleSettings, enums.PermissionActionEdit)).Put("/", controllers.SettingSet(svcs.Settings, logg))
				r.With(perm(enums.PermissionModuleSettings, enums.PermissionActionDelete)).Delete("/", controllers.SettingDelete(svcs.Settings, logg))
			})
		})

		r.With(middleware.RequireMainAdmin(logg)).Get("/activity", controllers.ActivityList(svcs.Activity, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(svcs.Notifications, logg))
			r.Get("/unread-count", controllers.NotificationUnreadCount(svcs.Notifications, logg))
			r.Post("/{notificationId}/read", controllers.NotificationMarkRead(svcs.Notifications, logg))
			r.Post("/read-all", controllers.NotificationMarkAllRead(svcs.Notifications, logg))
		})

		r.Route("/mailbox", func(r chi.Router) {
			r.With(middleware.RequireMainAdmin(logg)).Post("/connect", controllers.MailboxConnect(svcs.Mailbox, logg))
			r.With(middleware.RequireMainAdmin(logg)).Post("/disconnect", controllers.MailboxDisconnect(svcs.Mailbox, logg))
			r.With(perm(enums.PermissionModuleMailbox, enums.PermissionActionView)).Get("/status", controllers.MailboxStatus(svcs.Mailbox, logg))
			r.With(perm(enums.PermissionModuleMailbox, enums.PermissionActionView)).Get("/messages", controllers.MailboxInbox(svcs.Mailbox, logg))
			r.Route("/messages/{messageId}", func(r chi.Router) {
				r.With(perm(enums.PermissionModuleMailbox, enums.PermissionActionView)).Get("/", controllers.MailboxMessage(svcs.Mailbox, logg))
				r.With(perm(enums.PermissionModuleMailbox, enums.PermissionActionEdit)).Post("/read", controllers.MailboxMarkRead(svcs.Mailbox, logg))
				r.With(perm(enums.PermissionModuleMailbox, enums.PermissionActionDelete)).Post("/trash", controllers.MailboxTrash(svcs.Mailbox, logg))
			})
			r.With(perm(enums.PermissionModuleMailbox, enums.PermissionActionCreate)).Post("/send", controllers.MailboxSend(svcs.Mailbox, logg))
		})
	})

	r.Route("/api/admin/v1/db", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.RequireMainAdmin(logg))
		r.Post("/query", controllers.DBQuery(svcs.DBAdmin, logg))
		r.Post("/test-connection", controllers.DBTestConnection(svcs.DBAdmin, logg))
	})

	return r
}
