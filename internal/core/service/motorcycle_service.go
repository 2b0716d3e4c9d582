package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
	"github.com/delivery-system/ms-delivery/internal/core/ports"
	"github.com/delivery-system/ms-delivery/internal/pkg/metrics"
)

type MotorcycleService struct {
	repo   ports.MotorcycleRepository
	logger zerolog.Logger
}

func NewMotorcycleService(repo ports.MotorcycleRepository, logger zerolog.Logger) *MotorcycleService {
	return &MotorcycleService{repo: repo, logger: logger}
}

// Create registers a new motorcycle. The status defaults to "available".
func (s *MotorcycleService) Create(ctx context.Context, in ports.CreateMotorcycleInput) (*domain.Motorcycle, error) {
	status := domain.MotorcycleStatus(in.Status)
	if status == "" {
		status = domain.MotorcycleAvailable
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidMotorcycle, in.Status)
	}

	plate := strings.TrimSpace(in.LicensePlate)
	if plate == "" {
		return nil, fmt.Errorf("%w: license plate is required", domain.ErrInvalidMotorcycle)
	}

	m := &domain.Motorcycle{
		LicensePlate: plate,
		Brand:        in.Brand,
		Year:         in.Year,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		if !errors.Is(err, domain.ErrDuplicatePlate) {
			s.logger.Error().Err(err).Str("license_plate", plate).Msg("failed to create motorcycle")
		}
		return nil, err
	}

	metrics.MotorcyclesCreatedTotal.Inc()
	s.logger.Info().Str("id", created.ID).Str("license_plate", created.LicensePlate).Msg("motorcycle created")
	return created, nil
}

func (s *MotorcycleService) Get(ctx context.Context, id string) (*domain.Motorcycle, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *MotorcycleService) List(ctx context.Context) ([]*domain.Motorcycle, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update. Only the provided fields change.
func (s *MotorcycleService) Update(ctx context.Context, id string, upd ports.MotorcycleUpdate) (*domain.Motorcycle, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidMotorcycle, *upd.Status)
	}
	if upd.LicensePlate != nil {
		plate := strings.TrimSpace(*upd.LicensePlate)
		if plate == "" {
			return nil, fmt.Errorf("%w: license plate is required", domain.ErrInvalidMotorcycle)
		}
		upd.LicensePlate = &plate
	}

	m, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("id", id).Msg("motorcycle updated")
	return m, nil
}

func (s *MotorcycleService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("motorcycle deleted")
	return nil
}

// VehicleByPlate satisfies ports.VehicleLookup: an unknown plate yields a nil
// record and a nil error.
func (s *MotorcycleService) VehicleByPlate(ctx context.Context, plate string) (*domain.Motorcycle, error) {
	m, err := s.repo.FindByPlate(ctx, plate)
	if errors.Is(err, domain.ErrMotorcycleNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find motorcycle by plate: %w", err)
	}
	return m, nil
}
