package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/identity-server/internal/config"
	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
	"github.com/dtroode/identity-server/internal/server"
)

const shutdownTimeout = 10 * time.Second

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

// SecurityLayer returns the listener factory selected by the TLS settings.
func SecurityLayer(cfg *config.Config) model.SecurityLayer {
	return server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
}

// Serve starts every server and the background workers, waits for ctx to be
// cancelled and then shuts everything down.
func Serve(
	ctx context.Context,
	logger *logger.Logger,
	sl model.SecurityLayer,
	servers []model.Server,
	workers ...func(ctx context.Context) error,
) {
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
			}
		}(s)
	}
	for _, w := range workers {
		wg.Add(1)
		go func(w func(ctx context.Context) error) {
			defer wg.Done()
			if err := w(workerCtx); err != nil {
				logger.Error("background worker failed", "error", err)
			}
		}(w)
	}

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	for _, s := range servers {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}
	cancelWorkers()

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
