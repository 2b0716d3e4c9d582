package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrMalformedRoute = errors.New("malformed route")
var ErrVehicleNotFound = errors.New("vehicle not found")
var ErrNoActiveTracking = errors.New("no active tracking")
var ErrEmissionFailed = errors.New("emission failed")

// Result statuses returned by tracking control operations.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// TrackingResult is the structured outcome of a start/stop request.
type TrackingResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func TrackingStarted(plate string) TrackingResult {
	return TrackingResult{Status: ResultOK, Message: fmt.Sprintf("Transmisión iniciada para %s", plate)}
}

func TrackingAlreadyActive(plate string) TrackingResult {
	return TrackingResult{Status: ResultOK, Message: fmt.Sprintf("Transmisión ya activa para %s", plate)}
}

func TrackingStopped(plate string) TrackingResult {
	return TrackingResult{Status: ResultOK, Message: fmt.Sprintf("Transmisión detenida para %s", plate)}
}

func VehicleNotFound() TrackingResult {
	return TrackingResult{Status: ResultError, Message: "Motocicleta no encontrada"}
}

func NoActiveTracking(plate string) TrackingResult {
	return TrackingResult{Status: ResultError, Message: fmt.Sprintf("No hay transmisión activa para %s", plate)}
}

// TrackingSnapshot is a point-in-time view of one active tracking task.
type TrackingSnapshot struct {
	Plate       string      `json:"plate"`
	Active      bool        `json:"active"`
	Cursor      int         `json:"cursor"`
	Emitted     int64       `json:"emitted"`
	Skipped     int64       `json:"skipped"`
	LastEmitted *Coordinate `json:"last_emitted,omitempty"`
	StartedAt   time.Time   `json:"started_at"`
}

// TrackingAction identifies a lifecycle transition recorded in the audit trail.
type TrackingAction string

const (
	TrackingActionStarted TrackingAction = "started"
	TrackingActionStopped TrackingAction = "stopped"
)

// TrackingSession is one audit entry of a tracking lifecycle transition.
type TrackingSession struct {
	Plate  string         `json:"plate" bson:"plate"`
	Action TrackingAction `json:"action" bson:"action"`
	At     time.Time      `json:"at" bson:"at"`
}
