package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/hospital-helpdesk/helpdesk-service/internal/api/http"
	"github.com/hospital-helpdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/hospital-helpdesk/helpdesk-service/internal/auth"
	"github.com/hospital-helpdesk/helpdesk-service/internal/config"
	"github.com/hospital-helpdesk/helpdesk-service/internal/events"
	"github.com/hospital-helpdesk/helpdesk-service/internal/observability"
	"github.com/hospital-helpdesk/helpdesk-service/internal/persistence"
	"github.com/hospital-helpdesk/helpdesk-service/internal/report"
	"github.com/hospital-helpdesk/helpdesk-service/internal/repository"
	"github.com/hospital-helpdesk/helpdesk-service/internal/service"
	"github.com/hospital-helpdesk/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	pool := pg.PoolHandle()

	ticketRepo := repository.NewTicketRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	collaboratorRepo := repository.NewCollaboratorRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	costRepo := repository.NewCostRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	referenceRepo := repository.NewReferenceRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	slaRuleRepo := repository.NewSLARuleRepository(pool)
	reportRepo := repository.NewReportRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	ticketService := service.NewTicketService(service.TicketDependencies{
		Pool:             pool,
		TicketRepo:       ticketRepo,
		ActivityRepo:     activityRepo,
		CommentRepo:      commentRepo,
		CollaboratorRepo: collaboratorRepo,
		AttachmentRepo:   attachmentRepo,
		CostRepo:         costRepo,
		CategoryRepo:     categoryRepo,
		ReferenceRepo:    referenceRepo,
		UserRepo:         userRepo,
		SLARuleRepo:      slaRuleRepo,
		Dispatcher:       dispatcher,
		Metrics:          metrics,
		Logger:           logger,
	})

	insightCfg, err := report.LoadInsightConfig(cfg.Report.InsightConfigPath)
	if err != nil {
		logger.Warn("falling back to default insight thresholds", zap.Error(err))
	}

	slaReportService := service.NewSLAReportService(ticketRepo, redis.Client, cfg.Report.CacheTTL(), logger, nil)
	reportService := service.NewReportService(reportRepo, activityRepo, userRepo, insightCfg, logger)
	authService := service.NewAuthService(cfg.Auth, userRepo)
	adminService := service.NewAdminService(slaRuleRepo, categoryRepo, referenceRepo, logger)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Reports:        handlers.NewReportsHandler(slaReportService, reportService),
		Admin:          handlers.NewAdminHandler(adminService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
