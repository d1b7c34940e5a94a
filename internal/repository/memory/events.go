package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/identity-server/internal/model"
)

var (
	_ model.EventPublisher = (*EventBus)(nil)
	_ model.EventSource    = (*EventBus)(nil)
)

// ErrStreamClosed is returned by Next after Close.
var ErrStreamClosed = errors.New("event stream closed")

// EventBus fans account-deleted events out to every open stream of the
// process. Publishing never blocks: a stream whose buffer is full misses
// the event.
type EventBus struct {
	mu      sync.Mutex
	streams map[*stream]struct{}
	buffer  int
}

func NewEventBus(buffer int) *EventBus {
	return &EventBus{
		streams: make(map[*stream]struct{}),
		buffer:  buffer,
	}
}

func (b *EventBus) PublishAccountDeleted(_ context.Context, accountID uuid.UUID) error {
	b.Publish(accountID.String())
	return nil
}

// Publish sends a raw payload, including malformed ones.
func (b *EventBus) Publish(payload string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for s := range b.streams {
		select {
		case s.events <- payload:
		default:
		}
	}
}

func (b *EventBus) Listen(_ context.Context) (model.EventStream, error) {
	s := &stream{
		bus:    b,
		events: make(chan string, b.buffer),
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	b.streams[s] = struct{}{}
	b.mu.Unlock()

	return s, nil
}

type stream struct {
	bus    *EventBus
	events chan string
	done   chan struct{}
	once   sync.Once
}

func (s *stream) Next(ctx context.Context) (string, error) {
	select {
	case payload := <-s.events:
		return payload, nil
	case <-s.done:
		return "", ErrStreamClosed
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *stream) Close() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.streams, s)
		s.bus.mu.Unlock()
		close(s.done)
	})
}
