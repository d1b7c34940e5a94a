// Package app holds the wiring shared by the service binaries.
package app

import (
	"context"
	"fmt"

	"github.com/dtroode/identity-server/internal/config"
	"github.com/dtroode/identity-server/internal/model"
	"github.com/dtroode/identity-server/internal/repository/memory"
	"github.com/dtroode/identity-server/internal/repository/postgres"
)

// Storage bundles the stores and event channel of the configured driver.
type Storage struct {
	Accounts     model.AccountStore
	UserAccounts model.AccountStore
	Profiles     model.ProfileStore
	Sessions     model.SessionStore
	Publisher    model.EventPublisher
	Events       model.EventSource

	close func() error
}

// OpenStorage connects to the configured driver. With the memory driver,
// data and events live inside the process and are lost on exit.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		bus := memory.NewEventBus(64)
		return &Storage{
			Accounts:     memory.NewAccountRepository(),
			UserAccounts: memory.NewAccountRepository(),
			Profiles:     memory.NewProfileRepository(),
			Sessions:     memory.NewSessionRepository(),
			Publisher:    bus,
			Events:       bus,
			close:        func() error { return nil },
		}, nil
	case config.DriverPostgres:
		db, err := postgres.NewConection(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		bus := postgres.NewEventBus(db, cfg.Events.Channel)
		return &Storage{
			Accounts:     postgres.NewAccountRepository(db),
			UserAccounts: postgres.NewUserAccountRepository(db),
			Profiles:     postgres.NewProfileRepository(db),
			Sessions:     postgres.NewSessionRepository(db),
			Publisher:    bus,
			Events:       bus,
			close:        db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func (s *Storage) Close() error {
	return s.close()
}
