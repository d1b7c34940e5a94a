package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	httpServer "github.com/dtroode/identity-server/internal/api/http/server"
	"github.com/dtroode/identity-server/internal/app"
	"github.com/dtroode/identity-server/internal/client"
	"github.com/dtroode/identity-server/internal/config"
	"github.com/dtroode/identity-server/internal/events"
	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
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

	storage, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer storage.Close()

	conn, err := client.DialAccountService(cfg.Clients.AccountServiceAddress)
	if err != nil {
		logger.Fatal("failed to connect to account service", "error", err)
	}
	defer conn.Close()

	profiles := service.NewProfiles(storage.Profiles, client.NewAccountClient(conn, cfg.Clients.Timeout), logger)
	subscriber := events.NewSubscriber(storage.Events, profiles, logger)

	r := app.NewHTTPRouter("profile", logger)
	r.RegisterProfiles(profiles)

	app.Serve(ctx, logger, app.SecurityLayer(cfg), []model.Server{
		httpServer.NewHTTPServer(r.Handler(), cfg.HTTP.Address),
	}, subscriber.Run)
}
