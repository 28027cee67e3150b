package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/billie-crm/backend/internal/application/eclconfig"
	"github.com/billie-crm/backend/internal/application/exportjob"
	"github.com/billie-crm/backend/internal/application/investigation"
	"github.com/billie-crm/backend/internal/application/ledgerquery"
	"github.com/billie-crm/backend/internal/application/periodclose"
	"github.com/billie-crm/backend/internal/application/system"
	"github.com/billie-crm/backend/internal/application/writeoff"
	"github.com/billie-crm/backend/internal/domain/shared"
	"github.com/billie-crm/backend/internal/infrastructure/cache"
	"github.com/billie-crm/backend/internal/infrastructure/config"
	"github.com/billie-crm/backend/internal/infrastructure/event"
	"github.com/billie-crm/backend/internal/infrastructure/ledgerrpc"
	"github.com/billie-crm/backend/internal/infrastructure/logger"
	"github.com/billie-crm/backend/internal/infrastructure/persistence"
	"github.com/billie-crm/backend/internal/infrastructure/printing"
	"github.com/billie-crm/backend/internal/infrastructure/scheduler"
	"github.com/billie-crm/backend/internal/infrastructure/storage"
	"github.com/billie-crm/backend/internal/infrastructure/telemetry"
	"github.com/billie-crm/backend/internal/interfaces/http/handler"
	"github.com/billie-crm/backend/internal/interfaces/http/router"

	_ "github.com/billie-crm/backend/docs"
)

//	@title			Billie Ledger Gateway API
//	@version		1.0
//	@description	Gateway fronting the AccountingLedgerService for loan servicing agents.

//	@contact.name	Platform Team
//	@contact.url	https://github.com/billie-crm/backend

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting ledger gateway",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry providers
	var meterProvider *telemetry.MeterProvider
	var gatewayMetrics *telemetry.GatewayMetrics
	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("error shutting down tracer provider", zap.Error(err))
			}
		}()

		meterProvider, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("failed to initialize meter provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := meterProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("error shutting down meter provider", zap.Error(err))
			}
		}()

		gatewayMetrics, err = telemetry.NewGatewayMetrics(meterProvider)
		if err != nil {
			log.Fatal("failed to create gateway metrics", zap.Error(err))
		}

		logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("failed to initialize logger provider", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := logsProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("error shutting down logger provider", zap.Error(err))
			}
		}()
		log = logsProvider.BridgeZapLogger(log, zapcore.InfoLevel)

		if cfg.Telemetry.ProfilerEnabled {
			profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
				Enabled:           true,
				ServerAddress:     cfg.Telemetry.ProfilerEndpoint,
				ApplicationName:   cfg.Telemetry.ServiceName,
				ProfileCPU:        true,
				ProfileInuseSpace: true,
			}, log)
			if err != nil {
				log.Warn("continuous profiler unavailable", zap.Error(err))
			} else {
				defer func() {
					if err := profiler.Stop(); err != nil {
						log.Error("error stopping profiler", zap.Error(err))
					}
				}()
			}
		}
	}

	// Outbox database
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("outbox database connected")

	// Idempotency store: Redis when configured, in-process otherwise
	var idempotencyStore shared.IdempotencyStore
	if cfg.Redis.Host != "" {
		redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		idempotencyStore = redisStore
		log.Info("redis idempotency store connected", zap.String("host", cfg.Redis.Host))
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
		log.Info("using in-memory idempotency store")
	}

	// Ledger RPC client
	ledgerClient := ledgerrpc.NewClient(&cfg.Ledger, ledgerrpc.WithLogger(log))

	// Event pipeline: outbox -> bus -> cancel dispatcher -> ledger
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)

	eventBus := event.NewInMemoryEventBus(log)
	cancelDispatcher := writeoff.NewCancelDispatcher(ledgerClient, log)
	eventBus.Subscribe(event.NewIdempotentHandler(cancelDispatcher, idempotencyStore, log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("error stopping event bus", zap.Error(err))
		}
	}()

	if cfg.Event.ProcessorEnabled {
		processorConfig := event.DefaultOutboxProcessorConfig()
		if cfg.Event.BatchSize > 0 {
			processorConfig.BatchSize = cfg.Event.BatchSize
		}
		if cfg.Event.PollInterval > 0 {
			processorConfig.PollInterval = cfg.Event.PollInterval
		}
		processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
		if cfg.Event.CleanupRetention > 0 {
			processorConfig.CleanupRetention = cfg.Event.CleanupRetention
		}

		processor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, processorConfig, log).
			WithMetrics(gatewayMetrics)
		if err := processor.Start(ctx); err != nil {
			log.Fatal("failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := processor.Stop(context.Background()); err != nil {
				log.Error("error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	// Export artifact store
	var artifactStore exportjob.ArtifactStore
	var s3Store *storage.S3ArtifactStore
	if cfg.Storage.Enabled {
		s3Store, err = storage.NewS3ArtifactStore(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("failed to configure artifact storage", zap.Error(err))
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			log.Warn("artifact bucket check failed", zap.Error(err))
		}
		artifactStore = s3Store
		log.Info("artifact storage configured", zap.String("bucket", s3Store.Bucket()))
	}

	// Period close report renderer
	var reportRenderer handler.ReportRenderer
	if cfg.Printing.Enabled {
		pdfRenderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.RenderTimeout,
			ExecPath:       cfg.Printing.ChromePath,
			NoSandbox:      true,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("failed to initialize PDF renderer", zap.Error(err))
		}
		defer func() {
			if err := pdfRenderer.Close(); err != nil {
				log.Error("error closing PDF renderer", zap.Error(err))
			}
		}()
		reportRenderer = printing.NewCloseReportRenderer(pdfRenderer, cfg.Printing.Locale, log)
		log.Info("period close report rendering enabled", zap.String("locale", cfg.Printing.Locale))
	}

	// Nightly close report archival
	if reportRenderer != nil && s3Store != nil {
		archiver := scheduler.NewCloseReportArchiver(ledgerClient, reportRenderer, s3Store, log)
		archiveScheduler := scheduler.NewScheduler(scheduler.DefaultConfig(), archiver, log)
		if err := archiveScheduler.Start(ctx); err != nil {
			log.Fatal("failed to start archive scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := archiveScheduler.Stop(stopCtx); err != nil {
				log.Error("error stopping archive scheduler", zap.Error(err))
			}
		}()

		archiveTrigger := scheduler.NewDailyTrigger(scheduler.DefaultTriggerConfig(), archiveScheduler, ledgerClient, log)
		if err := archiveTrigger.Start(ctx); err != nil {
			log.Fatal("failed to start archive trigger", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := archiveTrigger.Stop(stopCtx); err != nil {
				log.Error("error stopping archive trigger", zap.Error(err))
			}
		}()
		log.Info("close report archival scheduled")
	}

	// Application services
	queryService := ledgerquery.NewService(ledgerClient, log)
	investigationService := investigation.NewService(ledgerClient, cfg.Ledger.SearchLimitCap, log)
	periodCloseService := periodclose.NewService(ledgerClient, log)
	writeOffService := writeoff.NewService(outboxRepo, idempotencyStore, ledgerClient, log)
	eclConfigService := eclconfig.NewService(ledgerClient, log)
	exportService := exportjob.NewService(ledgerClient, artifactStore, log)
	systemService := system.NewService(ledgerClient, log)

	// HTTP surface
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}

	handlers := router.Handlers{
		Ledger:        handler.NewLedgerHandler(queryService),
		Investigation: handler.NewInvestigationHandler(investigationService),
		PeriodClose:   handler.NewPeriodCloseHandler(periodCloseService, reportRenderer),
		WriteOff:      handler.NewWriteOffHandler(writeOffService),
		ECLConfig:     handler.NewECLConfigHandler(eclConfigService),
		Export:        handler.NewExportHandler(exportService),
		System:        handler.NewSystemHandler(systemService),
	}
	router.New(cfg, log, handlers, meterProvider).Setup(engine)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited gracefully")
}
