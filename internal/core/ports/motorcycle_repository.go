package ports

import (
	"context"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
)

// MotorcycleUpdate carries a partial update; nil fields are left untouched.
type MotorcycleUpdate struct {
	LicensePlate *string
	Brand        *string
	Year         *int
	Status       *domain.MotorcycleStatus
}

// MotorcycleRepository defines persistence operations for motorcycles.
type MotorcycleRepository interface {
	Create(ctx context.Context, m *domain.Motorcycle) (*domain.Motorcycle, error)
	FindByID(ctx context.Context, id string) (*domain.Motorcycle, error)
	// FindByPlate returns domain.ErrMotorcycleNotFound when no motorcycle
	// carries the given license plate.
	FindByPlate(ctx context.Context, plate string) (*domain.Motorcycle, error)
	List(ctx context.Context) ([]*domain.Motorcycle, error)
	Update(ctx context.Context, id string, upd MotorcycleUpdate) (*domain.Motorcycle, error)
	Delete(ctx context.Context, id string) error
}
