package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/gigboard/internal/cache"
	"github.com/mamadbah2/gigboard/internal/config"
	"github.com/mamadbah2/gigboard/internal/domain/scoring"
	"github.com/mamadbah2/gigboard/internal/repository/mongodb"
	"github.com/mamadbah2/gigboard/internal/repository/sheets"
	"github.com/mamadbah2/gigboard/internal/repository/xlsx"
	"github.com/mamadbah2/gigboard/internal/scheduler"
	"github.com/mamadbah2/gigboard/internal/server/handlers"
	"github.com/mamadbah2/gigboard/internal/server/router"
	decisionsvc "github.com/mamadbah2/gigboard/internal/service/decision"
	gigsvc "github.com/mamadbah2/gigboard/internal/service/gigs"
	reportingsvc "github.com/mamadbah2/gigboard/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/gigboard/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/gigboard/pkg/clients/whatsapp"
	"github.com/mamadbah2/gigboard/pkg/logger"
	"github.com/mamadbah2/gigboard/pkg/metrics"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsManager := metrics.NewManager()

	store, err := openStore(ctx, cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init booking store", zap.Error(err))
	}

	gigOpts := []gigsvc.Option{
		gigsvc.WithRange(cfg.Storage.BookingsRange),
		gigsvc.WithSnapshot(openSnapshot(ctx, cfg, baseLogger)),
		gigsvc.WithMetrics(metricsManager),
	}
	gigService := gigsvc.NewService(store, baseLogger.Named("svc.gigs"), gigOpts...)

	reportOpts := []reportingsvc.Option{reportingsvc.WithMetrics(metricsManager)}
	if cfg.MongoDB.URI != "" {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		reportOpts = append(reportOpts, reportingsvc.WithArchive(mongoRepo))
	} else {
		baseLogger.Warn("mongodb uri missing, weekly reports will not be archived")
	}

	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(whatsClient, baseLogger.Named("svc.whatsapp"))
		reportOpts = append(reportOpts, reportingsvc.WithNotifier(messagingSvc, cfg.WhatsApp.RecipientID))
		baseLogger.Info("whatsapp notifications enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, weekly reports will not be sent")
	}
	reportingService := reportingsvc.NewService(gigService, baseLogger.Named("svc.reporting"), reportOpts...)

	scorer, err := scoring.NewScorer(cfg.Scoring.Policy())
	if err != nil {
		baseLogger.Fatal("invalid scoring policy", zap.Error(err))
	}
	decisionService := decisionsvc.NewService(scorer, reportingService, metricsManager, baseLogger.Named("svc.decision"))

	engine := router.New(router.Handlers{
		Gigs:     handlers.NewGigHandler(gigService, baseLogger.Named("handlers.gigs")),
		Visuals:  handlers.NewVisualsHandler(reportingService, baseLogger.Named("handlers.visuals")),
		Decision: handlers.NewDecisionHandler(decisionService, baseLogger.Named("handlers.decision")),
		Reports:  handlers.NewReportHandler(reportingService, baseLogger.Named("handlers.reports")),
	}, metricsManager, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingService, gigService, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("data_source", cfg.Storage.Source),
			zap.String("scoring_mode", string(scorer.Policy().Mode)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore returns the booking store selected by DATA_SOURCE.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (sheets.Repository, error) {
	if cfg.Storage.Source == config.SourceXLSX {
		log.Info("using local workbook", zap.String("path", cfg.XLSX.Path))
		return xlsx.NewRepository(cfg.XLSX.Path, logger.Named(log, "repo.xlsx"))
	}
	return sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(log, "repo.sheets"))
}

// openSnapshot returns the configured snapshot cache, falling back to memory
// when redis is unreachable.
func openSnapshot(ctx context.Context, cfg *config.Config, log *zap.Logger) cache.Snapshot {
	if cfg.Cache.Backend == config.CacheRedis {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err == nil {
			log.Info("using redis snapshot cache", zap.String("addr", cfg.Redis.Addr))
			return cache.NewRedisSnapshot(client, cfg.Cache.Key, cfg.Cache.TTL)
		}
		log.Warn("redis unavailable, falling back to in-memory snapshot", zap.Error(err))
	}
	return cache.NewMemorySnapshot(cfg.Cache.TTL)
}
