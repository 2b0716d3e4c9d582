package ports

import (
	"context"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
)

// VehicleLookup resolves a plate to a vehicle record. A nil record with a nil
// error means the plate is unknown.
type VehicleLookup interface {
	VehicleByPlate(ctx context.Context, plate string) (*domain.Motorcycle, error)
}

// TrackingService controls simulated live tracking per plate.
//
// Start and Stop never fail past the boundary: the returned error is one of
// the domain sentinels (or nil) and is only meant to pick a transport status.
type TrackingService interface {
	Start(ctx context.Context, plate string) (domain.TrackingResult, error)
	Stop(ctx context.Context, plate string) (domain.TrackingResult, error)
	Status(plate string) (domain.TrackingSnapshot, bool)
	ActivePlates() []string
}
