package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/recipe-service/internal/api/http"
	"github.com/spec-kit/recipe-service/internal/api/http/handlers"
	"github.com/spec-kit/recipe-service/internal/auth"
	"github.com/spec-kit/recipe-service/internal/config"
	"github.com/spec-kit/recipe-service/internal/events"
	"github.com/spec-kit/recipe-service/internal/messaging"
	"github.com/spec-kit/recipe-service/internal/observability"
	"github.com/spec-kit/recipe-service/internal/persistence"
	"github.com/spec-kit/recipe-service/internal/repository"
	"github.com/spec-kit/recipe-service/internal/service"
	"github.com/spec-kit/recipe-service/internal/storage"
	"github.com/spec-kit/recipe-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
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

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	blobs, static, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init storage", zap.Error(err))
	}

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		Algorithm:     cfg.Auth.Algorithm,
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
	}, auth.SystemClock{})
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)

	pool := pg.PoolHandle()
	chefRepo := repository.NewChefRepository(pool)
	recipeRepo := repository.NewRecipeRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	revocationRepo := repository.NewRevocationRepository(redis.Client)

	publisher := newPublisher(cfg.Events, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close event publisher", zap.Error(err))
		}
	}()

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, publisher, logger), logger)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		ChefRepo:       chefRepo,
		RevocationRepo: revocationRepo,
		Hasher:         hasher,
		Tokens:         tokens,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	chefService := service.NewChefService(service.ChefDependencies{
		ChefRepo:   chefRepo,
		Hasher:     hasher,
		Storage:    blobs,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	recipeService := service.NewRecipeService(service.RecipeDependencies{
		RecipeRepo: recipeRepo,
		ReviewRepo: reviewRepo,
		Storage:    blobs,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg.App, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Chefs:          handlers.NewChefsHandler(authService, chefService),
		Recipes:        handlers.NewRecipesHandler(recipeService),
		AuthMiddleware: auth.NewAuthMiddleware(authService),
		StaticPrefix:   static.prefix,
		StaticDir:      static.dir,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

type staticMount struct {
	prefix string
	dir    string
}

func newStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, staticMount, error) {
	if cfg.Driver == config.StorageDriverS3 {
		s3, err := storage.NewS3Storage(ctx, storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, staticMount{}, err
		}
		return s3, staticMount{}, nil
	}

	local, err := storage.NewLocalStorage(cfg.LocalDir, cfg.PublicBase)
	if err != nil {
		return nil, staticMount{}, err
	}
	mount := staticMount{dir: local.BaseDir()}
	// only relative public bases are served by this process
	if strings.HasPrefix(local.PublicBase(), "/") {
		mount.prefix = local.PublicBase()
	}
	return local, mount, nil
}

func newPublisher(cfg config.EventsConfig, logger *zap.Logger) messaging.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no kafka brokers configured, events stay in-process")
		return messaging.NopPublisher{}
	}
	logger.Info("publishing events to kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	return messaging.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
