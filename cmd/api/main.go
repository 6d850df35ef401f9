package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cimillas/event-manager/internal/app"
	"github.com/cimillas/event-manager/internal/clock"
	"github.com/cimillas/event-manager/internal/config"
	"github.com/cimillas/event-manager/internal/storage/postgres"
	transporthttp "github.com/cimillas/event-manager/internal/transport/http"
	"github.com/cimillas/event-manager/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ReadTimeout)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		logger.WithError(err).Fatal("parse database config")
	}
	poolCfg.MaxConns = cfg.Database.MaxConns

	pool, err := pgxpool.NewWithConfig(startupCtx, poolCfg)
	if err != nil {
		logger.WithError(err).Fatal("connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.WithError(err).Fatal("database ping")
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.WithError(err).Fatal("apply migrations")
	}

	clk := clock.NewSystem()

	accountRepo := postgres.NewAccountRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	bookingRepo := postgres.NewBookingRepository(pool)
	adminRepo := postgres.NewAdminRepository(pool)

	authSvc := app.NewAuthService(accountRepo, sessionRepo, clk, cfg.Session.TTL)
	bookingSvc := app.NewBookingService(bookingRepo, clk)
	attendeeSvc := app.NewAttendeeService(eventRepo, bookingRepo, accountRepo)
	organiserSvc := app.NewOrganiserService(eventRepo, accountRepo, clk)
	adminSvc := app.NewAdminService(adminRepo, accountRepo, clk)

	handler := transporthttp.NewRouter(transporthttp.RouterDeps{
		Logger:         logger,
		Auth:           authSvc,
		Authenticator:  authSvc,
		Events:         attendeeSvc,
		Bookings:       bookingSvc,
		Organiser:      organiserSvc,
		OrganiserSales: bookingSvc,
		Admin:          adminSvc,
		DB:             pool,
		AllowedOrigins: cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.WithField("port", cfg.Server.Port).Info("api listening")

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server error")
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("server shutdown error")
	}
	logger.Info("server stopped")
}
