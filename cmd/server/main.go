package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/epesicloud-mmg/tasks-backend/api/handler"
	"github.com/epesicloud-mmg/tasks-backend/internal/config"
	"github.com/epesicloud-mmg/tasks-backend/internal/infrastructure/buffer"
	"github.com/epesicloud-mmg/tasks-backend/internal/infrastructure/monitor"
	pgInfra "github.com/epesicloud-mmg/tasks-backend/internal/infrastructure/postgres"
	redisInfra "github.com/epesicloud-mmg/tasks-backend/internal/infrastructure/redis"
	"github.com/epesicloud-mmg/tasks-backend/internal/middleware"
	"github.com/epesicloud-mmg/tasks-backend/internal/router"
	"github.com/epesicloud-mmg/tasks-backend/internal/services"
	"github.com/epesicloud-mmg/tasks-backend/internal/services/lifecycle"
	"github.com/epesicloud-mmg/tasks-backend/pkg/httpcontext"
	"github.com/epesicloud-mmg/tasks-backend/pkg/logger"
	"github.com/epesicloud-mmg/tasks-backend/repository/postgres"
	redisRepo "github.com/epesicloud-mmg/tasks-backend/repository/redis"
	authUC "github.com/epesicloud-mmg/tasks-backend/usecase/auth"
	notificationUC "github.com/epesicloud-mmg/tasks-backend/usecase/notification"
	projectUC "github.com/epesicloud-mmg/tasks-backend/usecase/project"
	taskUC "github.com/epesicloud-mmg/tasks-backend/usecase/task"
	vaultUC "github.com/epesicloud-mmg/tasks-backend/usecase/vault"
	workspaceUC "github.com/epesicloud-mmg/tasks-backend/usecase/workspace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, "buffer")
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	workspaceRepo := postgres.NewWorkspaceRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	invitationRepo := postgres.NewInvitationRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	ruleRepo := postgres.NewRuleRepository(pool)
	vaultRepo := postgres.NewVaultRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	activityRepo := postgres.NewActivityRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Scheduler.SessionTTL)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		taskRepo,
		notificationRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	if cfg.Scheduler.Enabled {
		scheduler := services.NewScheduler(ruleRepo, taskRepo, notificationRepo, zapLogger, services.SchedulerConfig{
			MaterializeSpec: cfg.Scheduler.MaterializeSpec,
			MaterializeDays: cfg.Scheduler.MaterializeDays,
			DueSoonSpec:     cfg.Scheduler.DueSoonSpec,
			DueSoonNotice:   cfg.Scheduler.DueSoonNotice,
		})
		scheduler.Start()
		manager.Register("scheduler", func(ctx context.Context) error {
			scheduler.Stop(ctx)
			return nil
		})
	}

	authUseCase := authUC.New(userRepo, sessionRepo, cfg.JWT.Secret, zapLogger)
	workspaceUseCase := workspaceUC.New(workspaceRepo, memberRepo, invitationRepo, userRepo, activityRepo, cfg.Scheduler.InvitationExpiry, zapLogger)
	projectUseCase := projectUC.New(projectRepo, categoryRepo, activityRepo, zapLogger)
	taskUseCase := taskUC.New(taskRepo, ruleRepo, bufferBridge, activityRepo, zapLogger)
	vaultUseCase := vaultUC.New(vaultRepo, activityRepo, zapLogger)
	notificationUseCase := notificationUC.New(notificationRepo, bufferBridge, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:         apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.Scheduler.SessionTTL),
		Workspace:    apiHandler.NewWorkspaceHandler(workspaceUseCase, ctxAdapter, zapLogger),
		Project:      apiHandler.NewProjectHandler(projectUseCase, ctxAdapter, zapLogger),
		Task:         apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Vault:        apiHandler.NewVaultHandler(vaultUseCase, ctxAdapter, zapLogger),
		Notification: apiHandler.NewNotificationHandler(notificationUseCase, workspaceUseCase, ctxAdapter, zapLogger),
		Health:       apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
