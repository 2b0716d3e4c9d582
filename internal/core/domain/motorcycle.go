package domain

import (
	"errors"
	"time"
)

// MotorcycleStatus represents the operational availability of a motorcycle.
type MotorcycleStatus string

const (
	MotorcycleAvailable     MotorcycleStatus = "available"
	MotorcycleUnavailable   MotorcycleStatus = "unavailable"
	MotorcycleInMaintenance MotorcycleStatus = "in-maintenance"
)

var ErrMotorcycleNotFound = errors.New("motorcycle not found")
var ErrDuplicatePlate = errors.New("license plate already registered")
var ErrInvalidMotorcycle = errors.New("invalid motorcycle")

// Valid reports whether s is one of the known statuses.
func (s MotorcycleStatus) Valid() bool {
	switch s {
	case MotorcycleAvailable, MotorcycleUnavailable, MotorcycleInMaintenance:
		return true
	}
	return false
}

// Motorcycle is a delivery vehicle identified by its license plate.
type Motorcycle struct {
	ID           string           `json:"id" bson:"_id,omitempty"`
	LicensePlate string           `json:"license_plate" bson:"license_plate"`
	Brand        string           `json:"brand" bson:"brand"`
	Year         int              `json:"year" bson:"year"`
	Status       MotorcycleStatus `json:"status" bson:"status"`
	CreatedAt    time.Time        `json:"created_at" bson:"created_at"`
}
