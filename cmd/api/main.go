package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticketdesk/internal/api/http"
	"github.com/spec-kit/ticketdesk/internal/api/http/handlers"
	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/observability"
	"github.com/spec-kit/ticketdesk/internal/persistence"
	"github.com/spec-kit/ticketdesk/internal/repository"
	"github.com/spec-kit/ticketdesk/internal/service"
	"github.com/spec-kit/ticketdesk/internal/worker"
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

	dispatcher := events.NewInMemoryDispatcher()
	events.NewAuditHandler(logger).Register(dispatcher)

	notifications := service.NewNotificationService(logger, cfg.Notification)
	notificationWorker := worker.NewNotificationWorker(notifications, logger)
	notificationWorker.Start(ctx)

	pool := pg.PoolHandle()
	uow := persistence.NewUnitOfWork(pool, dispatcher, logger, notificationWorker.Enqueue)

	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	datasetRepo := repository.NewDatasetRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		UnitOfWork: uow,
	})
	ticketService := service.NewTicketService(cfg.Authz, service.TicketDependencies{
		TicketRepo:     ticketRepo,
		AttachmentRepo: attachmentRepo,
		UserRepo:       userRepo,
		UnitOfWork:     uow,
	})
	datasetService := service.NewDatasetService(cfg.Authz, service.DatasetDependencies{
		DatasetRepo: datasetRepo,
		UnitOfWork:  uow,
	})
	userService := service.NewUserService(cfg.Authz, service.UserDependencies{
		UserRepo:   userRepo,
		UnitOfWork: uow,
	})
	auditService := service.NewAuditService(cfg.Authz, service.AuditDependencies{
		AuditRepo:   auditRepo,
		TicketRepo:  ticketRepo,
		DatasetRepo: datasetRepo,
		UserRepo:    userRepo,
	})

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	loginLimiter := auth.NewRateLimiter(redis.Client, logger, cfg.RateLimit)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Datasets:       handlers.NewDatasetsHandler(datasetService),
		Audit:          handlers.NewAuditHandler(auditService),
		AuthMiddleware: authMiddleware,
		LoginLimiter:   loginLimiter,
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
