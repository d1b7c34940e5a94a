package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/identity-server/internal/api/grpc/context"
	"github.com/dtroode/identity-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/identity-server/internal/api/grpc/server"
	httpServer "github.com/dtroode/identity-server/internal/api/http/server"
	"github.com/dtroode/identity-server/internal/app"
	"github.com/dtroode/identity-server/internal/client"
	"github.com/dtroode/identity-server/internal/config"
	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
	"github.com/dtroode/identity-server/internal/password"
	"github.com/dtroode/identity-server/internal/service"
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

	sessions := client.NewSessionClient(cfg.Clients.SessionServiceURL, cfg.Clients.Timeout, logger)
	accounts := service.NewAccounts(
		storage.Accounts,
		sessions,
		storage.Publisher,
		hasher,
		service.AccountPolicy(cfg.Policy.ModificationWindow()),
		logger,
	)

	r := app.NewHTTPRouter("account", logger)
	r.RegisterAccounts("/accounts", accounts)

	gs := router.New(accounts, grpcctx.NewManager(), logger).Register()
	reflection.Register(gs)

	app.Serve(ctx, logger, app.SecurityLayer(cfg), []model.Server{
		httpServer.NewHTTPServer(r.Handler(), cfg.HTTP.Address),
		grpcServer.NewGRPCServer(gs, fmt.Sprintf(":%s", cfg.GRPC.Port)),
	})
}
