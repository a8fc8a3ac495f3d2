package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/dishboard/console/api/handler"
	"github.com/dishboard/console/internal/config"
	"github.com/dishboard/console/internal/infrastructure/monitor"
	redisInfra "github.com/dishboard/console/internal/infrastructure/redis"
	"github.com/dishboard/console/internal/middleware"
	"github.com/dishboard/console/internal/router"
	"github.com/dishboard/console/internal/services"
	"github.com/dishboard/console/internal/services/lifecycle"
	"github.com/dishboard/console/internal/session"
	"github.com/dishboard/console/internal/upstream"
	"github.com/dishboard/console/pkg/httpcontext"
	"github.com/dishboard/console/pkg/logger"
	"github.com/dishboard/console/repository"
	"github.com/dishboard/console/repository/boltdb"
	redisRepo "github.com/dishboard/console/repository/redis"
	authUC "github.com/dishboard/console/usecase/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Name:     cfg.AppName,
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

	sessionStore, err := newSessionStore(cfg, manager)
	if err != nil {
		zapLogger.Fatal("session store init failed", zap.Error(err))
	}

	sessions := session.NewContainer(appCtx, sessionStore, zapLogger)

	client := upstream.New(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, sessions, zapLogger)

	mon := monitor.New(client, sessionStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	janitor := services.NewCacheJanitor(client.Cache(), zapLogger, services.JanitorConfig{
		Interval:  cfg.Cache.SweepInterval,
		Retention: cfg.Cache.Retention,
	})
	janitor.Start()
	manager.Register("cache_janitor", func(ctx context.Context) error {
		janitor.Stop(ctx)
		return nil
	})

	authUseCase := authUC.New(client, sessions, sessionStore,
		authUC.LogNotifier{Logger: zapLogger}, authUC.NopNavigator{}, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:      apiHandler.NewAuthHandler(authUseCase, sessions, ctxAdapter, zapLogger),
		Dashboard: apiHandler.NewDashboardHandler(client, ctxAdapter, zapLogger),
		Order:     apiHandler.NewOrderHandler(client, ctxAdapter, zapLogger),
		Menu:      apiHandler.NewMenuHandler(client, ctxAdapter, zapLogger),
		Customer:  apiHandler.NewCustomerHandler(client, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	guard := middleware.Guard(sessions, zapLogger)
	r := router.New(handlers, guard)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("console started",
			zap.String("address", cfg.Address()),
			zap.String("upstream", cfg.Upstream.BaseURL))
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

func newSessionStore(cfg *config.Config, manager *lifecycle.Manager) (repository.SessionStore, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := redisInfra.NewClient(cfg.Redis, cfg.AppName)
		if err != nil {
			return nil, err
		}
		manager.RegisterCloser("redis", client)
		return redisRepo.NewSessionStore(client, cfg.Session.KeyPrefix), nil
	default:
		store, err := boltdb.Open(cfg.Session.BoltPath)
		if err != nil {
			return nil, err
		}
		manager.RegisterCloser("session_store", store)
		return store, nil
	}
}
