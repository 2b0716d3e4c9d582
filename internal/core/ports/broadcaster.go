package ports

import (
	"context"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
)

// Broadcaster publishes a coordinate on the channel named after a plate.
// Delivery is at-most-once and no acknowledgment is returned to the caller
// beyond a local failure to hand the message off.
type Broadcaster interface {
	Emit(ctx context.Context, channel string, c domain.Coordinate) error
}

// PositionStore keeps the last coordinate emitted for each plate.
type PositionStore interface {
	Save(ctx context.Context, plate string, c domain.Coordinate) error
	Last(ctx context.Context, plate string) (*domain.Coordinate, error)
}
