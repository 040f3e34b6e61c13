// Command server runs the scoring API.
//
//go:generate go tool swag init --v3.1 -g main.go -d ./,../../internal -o ../../api-docs --outputTypes json --parseInternal
//
//	@title			Scoring API
//	@version		1.0
//	@description	Scores users and reports client interests behind a signed method call envelope.
//	@BasePath		/
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/janisto/scoring-api/internal/api"
	"github.com/janisto/scoring-api/internal/auth"
	"github.com/janisto/scoring-api/internal/http/routes"
	"github.com/janisto/scoring-api/internal/platform/config"
	applog "github.com/janisto/scoring-api/internal/platform/logging"
	"github.com/janisto/scoring-api/internal/platform/metrics"
	appmiddleware "github.com/janisto/scoring-api/internal/platform/middleware"
	"github.com/janisto/scoring-api/internal/platform/redis"
	"github.com/janisto/scoring-api/internal/platform/respond"
	"github.com/janisto/scoring-api/internal/platform/validate"
	"github.com/janisto/scoring-api/internal/service/scoring"
	"github.com/janisto/scoring-api/internal/store"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		applog.LogFatal(ctx, "invalid configuration", err)
	}

	logOut := os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			applog.LogFatal(ctx, "open log file", err, slog.String("path", cfg.LogFile))
		}
		defer f.Close()
		logOut = f
	}
	applog.Init(applog.Options{Level: cfg.LogLevel, Output: logOut})

	if cfg.DevSalts {
		applog.LogWarn(ctx, "using development token salts")
	}

	client, err := redis.NewClient(ctx, cfg.Redis)
	if client == nil {
		applog.LogFatal(ctx, "store client init failed", err)
	}
	if err != nil {
		// Score calls degrade to recomputation until the store comes back.
		applog.LogWarn(ctx, "store unreachable at startup", slog.String("error", err.Error()))
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			applog.LogError(ctx, "store close error", closeErr)
		}
	}()

	kv := store.NewRedisStore(client)
	parser := api.NewParser(validate.New())
	svc := scoring.NewService(kv, parser, cfg.CacheTTL)

	e := echo.New()
	e.HTTPErrorHandler = respond.NewHTTPErrorHandler()
	e.IPExtractor = echo.ExtractIPFromRealIPHeader()
	e.Logger = applog.Logger()

	e.Use(
		appmiddleware.Security("/metrics", "/api-docs"),
		appmiddleware.RequestID(),
		middleware.BodyLimit(1<<20),
		applog.RequestLogger(),
		applog.AccessLogger(),
		metrics.Middleware(),
		respond.Recoverer(),
	)

	routes.Register(e, routes.Deps{
		Parser:     parser,
		Authorizer: auth.New(cfg.AuthSalt, cfg.AdminSalt),
		Service:    svc,
		Store:      kv,
		DocsPath:   cfg.DocsPath,
	})

	applog.LogInfo(ctx, "server starting",
		slog.String("addr", ":"+cfg.Port),
		slog.String("store", cfg.Redis.Addr),
		slog.String("version", Version))

	sc := echo.StartConfig{
		Address:         ":" + cfg.Port,
		GracefulTimeout: 10 * time.Second,
		BeforeServeFunc: func(s *http.Server) error {
			s.ReadTimeout = 5 * time.Second
			s.ReadHeaderTimeout = 2 * time.Second
			s.WriteTimeout = 10 * time.Second
			s.IdleTimeout = 60 * time.Second
			s.MaxHeaderBytes = 64 << 10
			return nil
		},
	}

	sigCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := sc.Start(sigCtx, e); err != nil {
		log.Fatal(err)
	}

	applog.LogInfo(ctx, "server exited")
}
