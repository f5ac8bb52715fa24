// Package cache implements the best-effort Redis cache in front of client
// lookups.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AyrtonAranibar/Bank-movement-service/internal/apperrors"
	"github.com/AyrtonAranibar/Bank-movement-service/internal/core/domain"
	portsgw "github.com/AyrtonAranibar/Bank-movement-service/internal/core/ports/gateways"
	"github.com/redis/go-redis/v9"
)

const clientKeyPrefix = "client:"

// ClientCache stores client snapshots as JSON values keyed by client id.
type ClientCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClientCache creates a Redis-backed client cache. A non-positive ttl
// means entries never expire.
func NewClientCache(rdb *redis.Client, ttl time.Duration) *ClientCache {
	return &ClientCache{rdb: rdb, ttl: ttl}
}

var _ portsgw.ClientCache = (*ClientCache)(nil)

// GetClient returns the cached client or apperrors.ErrNotFound on a miss.
func (c *ClientCache) GetClient(ctx context.Context, clientID string) (*domain.Client, error) {
	payload, err := c.rdb.Get(ctx, clientKeyPrefix+clientID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: client %s not cached", apperrors.ErrNotFound, clientID)
	}
	if err != nil {
		return nil, fmt.Errorf("client cache read failed: %w", err)
	}
	var client domain.Client
	if err := json.Unmarshal(payload, &client); err != nil {
		// A corrupt entry behaves like a miss so the gateway remains the
		// source of truth.
		return nil, fmt.Errorf("%w: cached client %s is not decodable", apperrors.ErrNotFound, clientID)
	}
	return &client, nil
}

// PutClient stores the client snapshot under its id.
func (c *ClientCache) PutClient(ctx context.Context, client domain.Client) error {
	payload, err := json.Marshal(client)
	if err != nil {
		return fmt.Errorf("failed to encode client %s: %w", client.ID, err)
	}
	if err := c.rdb.Set(ctx, clientKeyPrefix+client.ID, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("client cache write failed: %w", err)
	}
	return nil
}
