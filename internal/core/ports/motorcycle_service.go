package ports

import (
	"context"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
)

// CreateMotorcycleInput carries the data needed to register a motorcycle.
type CreateMotorcycleInput struct {
	LicensePlate string
	Brand        string
	Year         int
	Status       string // empty defaults to "available"
}

// MotorcycleService defines use-case operations for motorcycles.
type MotorcycleService interface {
	Create(ctx context.Context, in CreateMotorcycleInput) (*domain.Motorcycle, error)
	Get(ctx context.Context, id string) (*domain.Motorcycle, error)
	List(ctx context.Context) ([]*domain.Motorcycle, error)
	Update(ctx context.Context, id string, upd MotorcycleUpdate) (*domain.Motorcycle, error)
	Delete(ctx context.Context, id string) error
}
