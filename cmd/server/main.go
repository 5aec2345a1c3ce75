// Package main starts the dealership back-office server: the HTTP API,
// the local JSON store, the pending-action queue, the connection
// monitor and the sync runner against the hosted Postgres store.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/hoaivu016/abc-backoffice/internal/config"
	"github.com/hoaivu016/abc-backoffice/internal/logger"
	"github.com/hoaivu016/abc-backoffice/internal/remote"
	"github.com/hoaivu016/abc-backoffice/internal/server/handler/http"
	"github.com/hoaivu016/abc-backoffice/internal/service"
	"github.com/hoaivu016/abc-backoffice/internal/store"
	"github.com/hoaivu016/abc-backoffice/internal/sync"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	cfg := config.MustConfig()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	if err := log.Init(cfg.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The remote store being down must not keep the office from working:
	// start offline and let the monitor pick it up.
	db, err := remote.InitPostgres(cfg.DatabaseDSN)
	if db == nil {
		zapLogger.Fatal("cannot open database handle", zap.Error(err))
	}
	if err != nil {
		zapLogger.Warn("remote store unreachable, starting offline", zap.Error(err))
	}
	repo := remote.NewRepository(db)

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		zapLogger.Fatal("cannot open local store", zap.Error(err))
	}
	queue, err := store.OpenQueue(cfg.DataDir)
	if err != nil {
		zapLogger.Fatal("cannot open pending queue", zap.Error(err))
	}

	syncer := sync.NewSyncer(st, queue, repo, cfg.DeviceName, zapLogger)
	monitor := sync.NewMonitor(repo, cfg.ProbeInterval, func(ctx context.Context) {
		if err := syncer.Synchronize(ctx); err != nil {
			zapLogger.Warn("synchronization failed", zap.Error(err))
		}
	}, zapLogger)
	monitor.Run(ctx)

	store.StartSyncLogPruner(ctx, st, time.Hour, cfg.SyncLogRetention, zapLogger)

	applier := sync.NewApplier(st, zapLogger)
	if err := remote.NewListener(cfg.DatabaseDSN, applier.Handle, zapLogger).Start(ctx); err != nil {
		zapLogger.Warn("realtime updates disabled", zap.Error(err))
	}

	authService := service.NewAuthService(repo, []byte(cfg.JWTSecret), cfg.TokenTTL)
	vehicleService := service.NewVehicleService(st, queue, repo, monitor, zapLogger)
	staffService := service.NewStaffService(st, queue, repo, monitor, zapLogger)
	kpiService := service.NewKpiService(st, queue, repo, monitor, zapLogger)

	router := http.NewRouter(http.Handlers{
		Auth:    &http.AuthHandler{Auth: authService},
		Vehicle: &http.VehicleHandler{Vehicles: vehicleService},
		Staff:   &http.StaffHandler{Staff: staffService},
		Kpi:     &http.KpiHandler{Kpi: kpiService},
		Sync:    &http.SyncHandler{Syncer: syncer, Monitor: monitor, Store: st, Queue: queue},
		Report:  &http.ReportHandler{Vehicles: vehicleService, Staff: staffService, Kpi: kpiService},
	}, authService, zapLogger, cfg.AllowedOrigins)

	server := &nethttp.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("starting HTTP server", zap.String("addr", cfg.Address))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
