package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"backbar/internal/ai"
	"backbar/internal/config"
	"backbar/internal/db"
	"backbar/internal/db/mock"
	"backbar/internal/handlers"
	applog "backbar/internal/log"
	"backbar/internal/server"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadConfigFunc       = config.Load
	setLogLevelFunc      = applog.SetLevel
	newMockDatabaseFunc  = mock.New
	configureDatabase    = db.Configure
	newAssistantFunc     = newAssistant
	newServerFunc        = func(cfg server.Config) (serverLifecycle, error) { return server.New(cfg) }
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}
	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	var database *gorm.DB
	if cfg.Database.UseMock {
		applog.Info(ctx, "using seeded in-memory database")
		database, err = newMockDatabaseFunc(ctx)
	} else {
		database, err = configureDatabase(cfg.Database)
	}
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}

	assistant, err := newAssistantFunc(ctx, cfg)
	if err != nil {
		applog.Error(ctx, "failed to configure AI client", "error", err)
		return 1
	}

	srv, err := newServerFunc(server.Config{
		Addr: cfg.Server.Addr,
		Session: server.SessionConfig{
			Lifetime:     cfg.Auth.Session.Lifetime,
			CookieName:   cfg.Auth.Session.CookieName,
			CookieDomain: cfg.Auth.Session.CookieDomain,
			CookieSecure: cfg.Auth.Session.CookieSecure,
		},
		Database:    database,
		Assistant:   assistant,
		CORSOrigins: cfg.Server.CORSAllowedOrigins,
		AIRateLimit: cfg.Server.AIRateLimit,
		AIRateBurst: cfg.Server.AIRateBurst,
		UploadDir:   cfg.Uploads.Dir,
		UploadURL:   cfg.Uploads.BaseURL,
	})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	shutdown, stop := subscribeShutdownSig()
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-shutdown:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server stopped with error", "error", err)
		return 1
	}
	return 0
}

// newAssistant returns nil when no API key is configured. A redis cache is
// attached when REDIS_URL is set and reachable.
func newAssistant(ctx context.Context, cfg config.Config) (handlers.Assistant, error) {
	if !cfg.AI.Enabled() {
		applog.Info(ctx, "AI integration disabled, OPENAI_API_KEY not set")
		return nil, nil
	}

	aiCfg := ai.Config{
		APIKey:   cfg.AI.APIKey,
		Model:    cfg.AI.Model,
		BaseURL:  cfg.AI.BaseURL,
		Timeout:  cfg.AI.Timeout,
		CacheTTL: cfg.Cache.TTL,
	}
	if cfg.Cache.RedisURL != "" {
		cache, err := ai.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			applog.Warn(ctx, "redis cache unavailable, continuing without it", "error", err)
		} else {
			aiCfg.Cache = cache
		}
	}

	client, err := ai.NewClient(aiCfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}
