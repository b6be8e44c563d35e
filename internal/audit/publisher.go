package audit

import (
	"context"
	"time"

	"eaglebank/pkg/domain"
)

// Store is the sink for audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actorID domain.UserID) ([]Event, error)
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Emit appends one event, stamping it if the caller didn't. A nil Publisher
// is a no-op so services can run unaudited in tests.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if p == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) List(ctx context.Context, actorID domain.UserID) ([]Event, error) {
	return p.store.ListByActor(ctx, actorID)
}
