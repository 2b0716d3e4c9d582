package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
)

const defaultPositionTTL = 10 * time.Minute

// PositionCache stores the last emitted coordinate of each plate.
// Key format: position:<plate>
type PositionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPositionCache wraps client. A non-positive ttl uses defaultPositionTTL.
func NewPositionCache(client *redis.Client, ttl time.Duration) *PositionCache {
	if ttl <= 0 {
		ttl = defaultPositionTTL
	}
	return &PositionCache{client: client, ttl: ttl}
}

// Save overwrites the last known position for plate.
func (p *PositionCache) Save(ctx context.Context, plate string, c domain.Coordinate) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	if err := p.client.Set(ctx, positionKey(plate), data, p.ttl).Err(); err != nil {
		return fmt.Errorf("save position: %w", err)
	}
	return nil
}

// Last returns the cached position for plate, or nil when none is stored.
func (p *PositionCache) Last(ctx context.Context, plate string) (*domain.Coordinate, error) {
	data, err := p.client.Get(ctx, positionKey(plate)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read position: %w", err)
	}

	var c domain.Coordinate
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode position: %w", err)
	}
	return &c, nil
}

func positionKey(plate string) string {
	return "position:" + plate
}
