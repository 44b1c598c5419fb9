// Command server runs the payment match backend: an HTTP API that hands out
// unique payable amounts for buyer sessions and settles them against
// forwarded UPI payment notifications.
//
// Configuration is environment-driven (see internal/config); a local .env
// file is honored in development.
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
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/upilabs/go-payment-match-backend/docs"
	"github.com/upilabs/go-payment-match-backend/internal/clock"
	"github.com/upilabs/go-payment-match-backend/internal/config"
	httpapi "github.com/upilabs/go-payment-match-backend/internal/http"
	"github.com/upilabs/go-payment-match-backend/internal/observability"
	"github.com/upilabs/go-payment-match-backend/internal/repo"
	"github.com/upilabs/go-payment-match-backend/internal/services"
	"github.com/upilabs/go-payment-match-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// @title        Payment Match Backend API
// @version      1.0
// @description  Amount-based payment correlation: unique payable amounts per buyer session, settled by forwarded UPI notifications.
//
// @contact.name API Support
//
// @license.name MIT
//
// @BasePath /api/v1
func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ver := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	log.Info().Str("version", ver).Str("port", cfg.Port).Msg("starting payment match backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(shCtx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database failed")
	}

	clk := clock.NewSystem()

	// Seed defaults for admin-tunable settings, never clobbering overrides.
	if err := services.NewSettingsService(db).Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("seed settings failed")
	}

	// Reclaim expired amount slots in the background.
	repo.StartSweeper(ctx, db, clk, cfg.SweepInterval)

	r := gin.New()
	httpapi.RegisterRoutes(r, db, clk, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server failed")
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		_ = srv.Close()
	}
	log.Info().Msg("server stopped")
}
