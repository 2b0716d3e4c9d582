package ports

import (
	"context"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
)

// TrackingSessionRepository persists the tracking lifecycle audit trail.
type TrackingSessionRepository interface {
	InsertSession(ctx context.Context, s *domain.TrackingSession) error
}
