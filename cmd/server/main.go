package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/igorfd2009/cookitie-pix/internal/config"
	"github.com/igorfd2009/cookitie-pix/internal/database"
	"github.com/igorfd2009/cookitie-pix/internal/handler"
	"github.com/igorfd2009/cookitie-pix/internal/middleware"
	"github.com/igorfd2009/cookitie-pix/internal/qrcode"
	"github.com/igorfd2009/cookitie-pix/internal/service"
	"github.com/igorfd2009/cookitie-pix/internal/storage"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if cfg.PixKey == "" {
		log.Fatal().Msg("PIX_KEY is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var pool *pgxpool.Pool
	var store storage.Store = storage.NewMemoryStore()
	if !cfg.MemoryOnly {
		p, err := database.NewPool(ctx, cfg.DatabaseURL())
		if err != nil {
			log.Warn().Err(err).Msg("database unavailable, registry will not survive restarts")
		} else {
			pool = p
			defer pool.Close()

			if cfg.AutoMigrate {
				if err := database.RunMigrations(cfg.DatabaseURL()); err != nil {
					log.Fatal().Err(err).Msg("failed to run migrations")
				}
			}
			store = storage.NewPostgresStore(pool)
		}
	}

	qr := qrcode.NewGenerator(cfg.QRServiceURL, cfg.QRSize, cfg.QRTimeout)
	paymentService, err := service.NewPaymentService(ctx, store, cfg.Profile(), qr,
		time.Duration(cfg.ExpiryMinutes)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to restore payment registry")
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler(pool)
	router.GET("/health", healthHandler.Health)

	paymentHandler := handler.NewPaymentHandler(paymentService)
	validateHandler := handler.NewValidateHandler()

	api := router.Group("/api/v1")
	{
		api.POST("/payments", paymentHandler.Create)
		api.GET("/payments", paymentHandler.List)
		api.GET("/payments/stats", paymentHandler.Stats)
		api.GET("/payments/:id", paymentHandler.Get)
		api.POST("/payments/:id/confirm", paymentHandler.Confirm)
		api.POST("/payments/:id/cancel", paymentHandler.Cancel)
		api.POST("/pix/validate", validateHandler.Validate)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
