package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
)

const collectionTrackingSessions = "tracking_sessions"

// TrackingSessionRepository persists tracking start/stop transitions to the
// tracking_sessions audit collection.
type TrackingSessionRepository struct {
	col *mongo.Collection
}

func NewTrackingSessionRepository(db *mongo.Database) *TrackingSessionRepository {
	return &TrackingSessionRepository{col: db.Collection(collectionTrackingSessions)}
}

// InsertSession appends one lifecycle entry.
func (r *TrackingSessionRepository) InsertSession(ctx context.Context, s *domain.TrackingSession) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"plate":       s.Plate,
		"action":      string(s.Action),
		"at":          s.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert tracking session: %w", err)
	}
	return nil
}
