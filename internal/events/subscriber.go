// Package events consumes account-deleted notifications in the profile
// service.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
)

// AccountDeletedHandler reacts to the deletion of an account.
type AccountDeletedHandler interface {
	HandleAccountDeleted(ctx context.Context, accountID string)
}

// Subscriber feeds notifications from an event source to a handler. Lost
// streams are reopened with capped exponential backoff; notifications sent
// while disconnected are not replayed.
type Subscriber struct {
	source  model.EventSource
	handler AccountDeletedHandler
	logger  *logger.Logger

	backoff func() retry.Backoff
}

func NewSubscriber(source model.EventSource, handler AccountDeletedHandler, logger *logger.Logger) *Subscriber {
	return &Subscriber{
		source:  source,
		handler: handler,
		logger:  logger,
		backoff: func() retry.Backoff {
			return retry.WithCappedDuration(10*time.Second, retry.NewExponential(200*time.Millisecond))
		},
	}
}

// errStreamServed ends a retry round after a stream that delivered events,
// so the next outage starts from the initial backoff.
var errStreamServed = errors.New("stream served events")

// Run blocks until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	s.logger.Info("Event subscriber: started")
	defer s.logger.Info("Event subscriber: stopped")

	for {
		err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
			delivered, err := s.consume(ctx)
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Warn("Event subscriber: stream lost, reconnecting",
				"error", err.Error())
			if delivered > 0 {
				return errStreamServed
			}
			return retry.RetryableError(err)
		})

		if ctx.Err() != nil {
			return nil
		}
		if !errors.Is(err, errStreamServed) {
			return err
		}
	}
}

// consume reads one stream until it fails and reports how many events it
// handed to the handler.
func (s *Subscriber) consume(ctx context.Context) (int, error) {
	stream, err := s.source.Listen(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to listen: %w", err)
	}
	defer stream.Close()

	delivered := 0
	for {
		payload, err := stream.Next(ctx)
		if err != nil {
			return delivered, fmt.Errorf("failed to receive event: %w", err)
		}

		s.logger.Debug("Event subscriber: account deleted",
			"account_id", payload)
		s.handler.HandleAccountDeleted(ctx, payload)
		delivered++
	}
}
