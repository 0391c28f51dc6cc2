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
	"go.uber.org/zap"

	"textile-store/internal/app"
	"textile-store/internal/config"
	"textile-store/internal/logger"
	"textile-store/internal/permission"
	"textile-store/internal/routes"
)

func main() {
	log := logger.Must(os.Getenv("APP_ENV"))
	defer func() { _ = log.Sync() }()

	cfg := config.LoadConfig(log)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to start", zap.Error(err))
	}

	bus := a.Services.Bus
	bus.OnListenerPanic(func(recovered interface{}) {
		log.Error("permission listener panicked", zap.Any("panic", recovered))
	})
	if !cfg.IsProduction() {
		bus.Subscribe(func(e permission.Error) {
			log.Warn("permission denied",
				zap.String("method", e.Method),
				zap.String("path", e.Path),
				zap.Int("status", e.Status),
				zap.String("user_id", e.UserID),
				zap.String("reason", e.Reason),
			)
		})
	}

	if cfg.AdminEmail != "" {
		if err := a.Services.Auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal("failed to ensure admin account", zap.Error(err))
		}
	}

	if err := routes.RegisterValidators(); err != nil {
		log.Fatal("failed to register validators", zap.Error(err))
	}
	router := routes.NewEngine(log, cfg.DefaultLocale)
	routes.RegisterRoutes(router, a.Services)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	a.Close(shutdownCtx)
	log.Info("server stopped")
}
