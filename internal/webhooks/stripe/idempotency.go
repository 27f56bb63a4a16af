package stripewebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/instaprompt/backend/pkg/redis"
)

// EventGuard deduplicates Stripe webhook deliveries by event id. Stripe
// retries until it sees a 2xx, so the same event can arrive more than
// once; the first delivery claims the key and later ones are skipped.
type EventGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	scope string
}

func NewEventGuard(store redis.IdempotencyStore, ttl time.Duration, scope string) (*EventGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	return &EventGuard{
		store: store,
		ttl:   ttl,
		scope: scope,
	}, nil
}

// Claim marks the event as seen. It returns true when another delivery
// already claimed it.
func (g *EventGuard) Claim(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errors.New("event id is required")
	}
	key := g.store.IdempotencyKey(g.scope, eventID)
	set, err := g.store.SetNX(ctx, key, "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return !set, nil
}

// Release frees the claim after a failed handler so Stripe's retry can
// apply the event.
func (g *EventGuard) Release(ctx context.Context, eventID string) error {
	if eventID == "" {
		return errors.New("event id is required")
	}
	key := g.store.IdempotencyKey(g.scope, eventID)
	return g.store.Del(ctx, key)
}
