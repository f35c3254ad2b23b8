package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connect3/backend/internal/config"
	"connect3/backend/internal/handler"
	"connect3/backend/internal/logging"
	"connect3/backend/internal/middleware"
	"connect3/backend/internal/observability"
	"connect3/backend/internal/telemetry"
	"connect3/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName       = "connect3"
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// setup loads and validates the configuration and builds the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	s, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close(context.Background())

	logger.Info("schema up to date", zap.String("backend", cfg.GraphBackend))
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	shutdownTracing, err := telemetry.Init(ctx, serviceName, cfg.TracingExporter, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	s, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(context.Background()); err != nil {
			logger.Warn("graph store close failed", zap.Error(err))
		}
	}()

	invites := jwt.NewIssuer(cfg.InviteSecret, cfg.InviteTTL)
	if !invites.Enabled() {
		logger.Info("invite tokens disabled; set INVITE_SECRET to enable them")
	}

	h := handler.New(handler.Deps{
		Store:   s,
		Invites: invites,
		Metrics: observability.NewMetrics(prometheus.DefaultRegisterer),
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, h),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	srv.RegisterOnShutdown(h.CloseStreams)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.Cors(cfg.CORSAllowedOrigin))
	router.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.SetupRoutes(router, h, cfg.RequestTimeout)
	return router
}
