package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/frontdesk-service/internal/api/http"
	"github.com/spec-kit/frontdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/frontdesk-service/internal/config"
	"github.com/spec-kit/frontdesk-service/internal/events"
	"github.com/spec-kit/frontdesk-service/internal/observability"
	"github.com/spec-kit/frontdesk-service/internal/persistence"
	"github.com/spec-kit/frontdesk-service/internal/repository"
	"github.com/spec-kit/frontdesk-service/internal/service"
	"github.com/spec-kit/frontdesk-service/internal/worker"
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

	pool := pg.PoolHandle()
	requestRepo := repository.NewHelpRequestRepository(pool)
	knowledgeRepo := repository.NewKnowledgeRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	notificationService := service.NewNotificationService(dispatcher, redis, logger, cfg.Notification)
	notificationService.RegisterHandlers()

	escalationService := service.NewEscalationService(requestRepo, dispatcher)
	resolutionService := service.NewResolutionService(requestRepo, dispatcher)
	agentService := service.NewAgentService(service.AgentDependencies{
		KnowledgeRepo: knowledgeRepo,
		Escalation:    escalationService,
		Facts:         cfg.Business,
	})

	sweeper := worker.NewTimeoutSweeper(requestRepo, dispatcher, logger, metrics, cfg.Agent.Timeout())
	go sweeper.Run(ctx, worker.NewTickerScheduler(), cfg.Agent.SweepInterval())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Calls:     handlers.NewCallsHandler(agentService),
		Requests:  handlers.NewRequestsHandler(escalationService, resolutionService),
		Knowledge: handlers.NewKnowledgeHandler(agentService),
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
