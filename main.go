// @title Client Portal API
// @version 1.0
// @description Practitioner-client portal access control: consent, optional PIN, session cookies.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/homework-portal/backend/internal/config"
	"github.com/homework-portal/backend/internal/db"
	"github.com/homework-portal/backend/internal/handler"
	"github.com/homework-portal/backend/internal/logs"
	"github.com/homework-portal/backend/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	logger := logs.New(logs.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB 연결 및 마이그레이션
	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect postgres")
	}
	defer pool.Close()

	pg := &db.Postgres{Pool: pool}
	if err := pg.Migrate(ctx); err != nil {
		logger.WithError(err).Fatal("failed to migrate database")
	}

	// 포털 접근 제어 구성요소
	ips := service.NewIPHasher(cfg.Portal.HMACKey)
	limiter := service.NewPinRateLimiter(pg)
	portalSvc := service.NewPortalService(service.PortalServiceDeps{
		Store:    pg,
		Limiter:  limiter,
		Pins:     service.NewPinHasher(cfg.Portal.PinIterations),
		Sessions: service.NewSessionTokenManager(cfg.Portal.HMACKey),
		IPs:      ips,
		Logger:   logger,
	}, cfg.Portal)

	// 치료사 인증 및 관계 관리
	authSvc, err := service.NewAuthService(pg, cfg.Auth)
	if err != nil {
		logger.WithError(err).Fatal("failed to init auth service")
	}
	if cfg.Auth.AdminUsername != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			logger.WithError(err).Fatal("failed to bootstrap admin practitioner")
		}
	}
	relationshipSvc := service.NewRelationshipService(pg, limiter, logger)

	router, err := handler.NewRouter(handler.RouterDeps{
		Logger:         logger,
		IPs:            ips,
		DB:             pg,
		Auth:           handler.NewAuthHandler(authSvc),
		AuthParser:     authSvc,
		Portal:         handler.NewPortalHandler(portalSvc),
		Relationships:  handler.NewRelationshipHandler(relationshipSvc),
		Throttle:       handler.NewIPThrottle(cfg.Portal.ThrottleRPS, cfg.Portal.ThrottleBurst, ips),
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to build router")
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
