package handler

import (
	"time"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createMotorcycleRequest struct {
	LicensePlate string `json:"license_plate" validate:"required,min=3,max=15,plate"`
	Brand        string `json:"brand"         validate:"required,max=50"`
	Year         int    `json:"year"          validate:"required,gte=1900,lte=2100"`
	Status       string `json:"status"        validate:"omitempty,oneof=available unavailable in-maintenance"`
}

// updateMotorcycleRequest is a partial update: absent fields are left unchanged.
type updateMotorcycleRequest struct {
	LicensePlate *string `json:"license_plate" validate:"omitempty,min=3,max=15,plate"`
	Brand        *string `json:"brand"         validate:"omitempty,min=1,max=50"`
	Year         *int    `json:"year"          validate:"omitempty,gte=1900,lte=2100"`
	Status       *string `json:"status"        validate:"omitempty,oneof=available unavailable in-maintenance"`
}

type motorcycleResponse struct {
	ID           string    `json:"id"`
	LicensePlate string    `json:"license_plate"`
	Brand        string    `json:"brand"`
	Year         int       `json:"year"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type listMotorcyclesResponse struct {
	Data  []motorcycleResponse `json:"data"`
	Total int                  `json:"total"`
}

type coordinateResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type trackingStatusResponse struct {
	Plate       string              `json:"plate"`
	Active      bool                `json:"active"`
	Cursor      int                 `json:"cursor"`
	Emitted     int64               `json:"emitted"`
	Skipped     int64               `json:"skipped"`
	LastEmitted *coordinateResponse `json:"last_emitted,omitempty"`
	LastKnown   *coordinateResponse `json:"last_known,omitempty"`
	StartedAt   time.Time           `json:"started_at"`
}

type activeTrackingResponse struct {
	Plates []string `json:"plates"`
	Total  int      `json:"total"`
}

func toMotorcycleResponse(m *domain.Motorcycle) motorcycleResponse {
	return motorcycleResponse{
		ID:           m.ID,
		LicensePlate: m.LicensePlate,
		Brand:        m.Brand,
		Year:         m.Year,
		Status:       string(m.Status),
		CreatedAt:    m.CreatedAt,
	}
}

func toCoordinateResponse(c *domain.Coordinate) *coordinateResponse {
	if c == nil {
		return nil
	}
	return &coordinateResponse{Lat: c.Lat, Lng: c.Lng}
}
