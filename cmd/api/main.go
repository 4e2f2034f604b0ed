package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/docudeskhq/docudesk-backend/api/routes"
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
	"github.com/docudeskhq/docudesk-backend/pkg/logger"
	"github.com/docudeskhq/docudesk-backend/pkg/metrics"
	"github.com/docudeskhq/docudesk-backend/pkg/migrate"
	"github.com/docudeskhq/docudesk-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	recorder := activity.NewRecorder(activity.NewRepository(dbClient.DB()), logg)
	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(userRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	permissionsService, err := permissions.NewService(permissions.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create permissions service", err)
		os.Exit(1)
	}

	partiesService, err := parties.NewService(
		parties.NewCustomerRepository(dbClient.DB()),
		parties.NewBuilderRepository(dbClient.DB()),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create parties service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}
	notifier := notifications.NewNotifier(notificationsService, logg)

	documentsService, err := documents.NewService(documents.NewRepository(dbClient.DB()), recorder, notifier)
	if err != nil {
		logg.Error(context.Background(), "failed to create documents service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.NewRepository(dbClient.DB()), recorder)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	tasksService, err := tasks.NewService(tasks.NewRepository(dbClient.DB()), recorder, notifier)
	if err != nil {
		logg.Error(context.Background(), "failed to create tasks service", err)
		os.Exit(1)
	}

	attendanceService, err := attendance.NewService(attendance.NewRepository(dbClient.DB()), recorder, cfg.Attendance)
	if err != nil {
		logg.Error(context.Background(), "failed to create attendance service", err)
		os.Exit(1)
	}

	payrollService, err := payroll.NewService(payroll.NewRepository(dbClient.DB()), attendanceService, recorder, cfg.Payroll)
	if err != nil {
		logg.Error(context.Background(), "failed to create payroll service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()), redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	mailboxService, err := mailbox.NewService(cfg.Gmail, settingsService, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailbox service", err)
		os.Exit(1)
	}

	dbadminService, err := dbadmin.NewService(dbClient.DB(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create db admin service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager, httpMetrics, metricsHandler, routes.Services{
			Auth:          authService,
			Users:         usersService,
			Permissions:   permissionsService,
			Parties:       partiesService,
			Documents:     documentsService,
			Payments:      paymentsService,
			Tasks:         tasksService,
			Attendance:    attendanceService,
			Payroll:       payrollService,
			Settings:      settingsService,
			Notifications: notificationsService,
			Mailbox:       mailboxService,
			DBAdmin:       dbadminService,
			Activity:      recorder,
		}),
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-shutdownCtx.Done():
		logg.Info(ctx, "api server shutting down")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
			os.Exit(1)
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}
}
