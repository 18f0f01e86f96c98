package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinicapp/clinic-backend/internal/config"
	v1 "github.com/clinicapp/clinic-backend/internal/handler/v1"
	"github.com/clinicapp/clinic-backend/internal/realtime"
	"github.com/clinicapp/clinic-backend/internal/repository"
	"github.com/clinicapp/clinic-backend/internal/service"
	"github.com/clinicapp/clinic-backend/internal/worker"
	"github.com/clinicapp/clinic-backend/pkg/auth"
	"github.com/clinicapp/clinic-backend/pkg/database"
	"github.com/clinicapp/clinic-backend/pkg/logger"
	"github.com/clinicapp/clinic-backend/pkg/metrics"
	redisclient "github.com/clinicapp/clinic-backend/pkg/redis"
	"github.com/clinicapp/clinic-backend/pkg/tracer"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	zlog.Info("clinic-api starting",
		zap.String("env", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		zlog.Fatal("tracer init error", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(ctx)
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("postgres connection error", zap.Error(err))
	}
	if err := database.Migrate(db, zlog); err != nil {
		zlog.Fatal("migration error", zap.Error(err))
	}

	rdb, err := redisclient.New(cfg.Redis)
	if err != nil {
		zlog.Fatal("redis connection error", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	m := metrics.NewCollector("clinic")

	uow := repository.NewUnitOfWork(db)
	apptRepo := repository.NewAppointmentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	userRepo := repository.NewUserRepository(db)

	hub := realtime.NewHub()
	dispatcher := realtime.NewDispatcher(rdb, zlog, m)
	bridge := realtime.NewBridge(rdb, hub, zlog)
	go bridge.Run(rootCtx)

	jwtMgr := auth.NewJWTManager(cfg.JWT)

	apptSvc := service.NewAppointmentService(
		uow, apptRepo, patientRepo, userRepo,
		dispatcher, m, zlog,
		cfg.Scheduling.CancellationNotice,
	)
	notifSvc := service.NewNotificationService(notifRepo, m, zlog)
	authSvc := service.NewAuthService(userRepo, jwtMgr, zlog)

	locker := redisclient.NewLocker(rdb, 5*time.Minute)
	sweeper := worker.NewRetentionSweeper(
		notifSvc, locker,
		cfg.Notification.RetentionDays,
		cfg.Notification.SweepInterval,
		zlog,
	)
	go sweeper.Run(rootCtx)

	router := &v1.Router{
		Appointments:  v1.NewAppointmentHandler(apptSvc),
		Notifications: v1.NewNotificationHandler(notifSvc),
		Auth:          v1.NewAuthHandler(authSvc),
		WS:            v1.NewWSHandler(hub, jwtMgr, m, zlog),
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.Build(cfg, jwtMgr, m, zlog),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zlog.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
