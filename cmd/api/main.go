package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"go.uber.org/zap"

	"todo-backend/internal/di"
	"todo-backend/pkg/auth"
	"todo-backend/pkg/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	handler := container.Router.Setup()
	if cfg.EnableTracing {
		handler = xray.Handler(xray.NewFixedSegmentNamer("todo-backend"), handler)
	}

	if cfg.IsDevelopment() && cfg.VerifyTokens() && cfg.JWTSigningMethod != auth.MethodRS256 {
		logDevToken(cfg, logger)
	}

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("store", cfg.Store),
			zap.Bool("verifyTokens", cfg.VerifyTokens()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}

// logDevToken prints a token for a fixed local user so the API can be
// exercised with curl.
func logDevToken(cfg *config.Config, logger *zap.Logger) {
	generator, err := auth.NewJWTGenerator(auth.JWTGeneratorConfig{
		SigningMethod: auth.MethodHS256,
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
		Audience:      cfg.JWTAudience,
		ExpiryTime:    24 * time.Hour,
	})
	if err != nil {
		logger.Warn("Could not create dev token generator", zap.Error(err))
		return
	}

	token, err := generator.GenerateToken("local-user")
	if err != nil {
		logger.Warn("Could not generate dev token", zap.Error(err))
		return
	}
	logger.Info("Development token for local-user", zap.String("token", token))
}
