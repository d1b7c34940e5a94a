package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	httpServer "github.com/dtroode/identity-server/internal/api/http/server"
	"github.com/dtroode/identity-server/internal/app"
	"github.com/dtroode/identity-server/internal/config"
	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
	"github.com/dtroode/identity-server/internal/password"
	"github.com/dtroode/identity-server/internal/service"
	"github.com/dtroode/identity-server/internal/token"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	hasher, err := password.NewHasher(cfg.Password.DigestAlgorithm)
	if err != nil {
		logger.Fatal("failed to initialize password hasher", "error", err)
	}

	storage, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer storage.Close()

	sessions := service.NewSessions(
		storage.Accounts,
		storage.Sessions,
		token.NewJWT(cfg.JWT.Secret),
		hasher,
		cfg.JWT.SessionTTL,
		logger,
	)

	r := app.NewHTTPRouter("session", logger)
	r.RegisterSessions(sessions)

	app.Serve(ctx, logger, app.SecurityLayer(cfg), []model.Server{
		httpServer.NewHTTPServer(r.Handler(), cfg.HTTP.Address),
	})
}
