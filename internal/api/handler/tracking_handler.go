package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
	"github.com/delivery-system/ms-delivery/internal/core/ports"
)

// TrackingHandler exposes start/stop/status of the simulated live feed.
type TrackingHandler struct {
	service   ports.TrackingService
	positions ports.PositionStore
	log       zerolog.Logger
}

// NewTrackingHandler builds the handler. positions may be nil when no
// last-position cache is configured.
func NewTrackingHandler(service ports.TrackingService, positions ports.PositionStore, log zerolog.Logger) *TrackingHandler {
	return &TrackingHandler{service: service, positions: positions, log: log}
}

// Start handles POST /motorcycles/track/:plate.
//
// @Summary      Start the live position feed for a motorcycle
// @Tags         tracking
// @Produce      json
// @Param        plate  path      string  true  "License plate"
// @Success      200    {object}  domain.TrackingResult
// @Failure      404    {object}  domain.TrackingResult
// @Failure      503    {object}  domain.TrackingResult
// @Router       /motorcycles/track/{plate} [post]
func (h *TrackingHandler) Start(c echo.Context) error {
	plate, ok := plateParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, domain.TrackingResult{Status: domain.ResultError, Message: "Placa requerida"})
	}
	res, err := h.service.Start(c.Request().Context(), plate)
	return c.JSON(trackingStatusCode(err), res)
}

// Stop handles POST /motorcycles/stop/:plate.
//
// @Summary      Stop the live position feed for a motorcycle
// @Tags         tracking
// @Produce      json
// @Param        plate  path      string  true  "License plate"
// @Success      200    {object}  domain.TrackingResult
// @Failure      404    {object}  domain.TrackingResult
// @Router       /motorcycles/stop/{plate} [post]
func (h *TrackingHandler) Stop(c echo.Context) error {
	plate, ok := plateParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, domain.TrackingResult{Status: domain.ResultError, Message: "Placa requerida"})
	}
	res, err := h.service.Stop(c.Request().Context(), plate)
	return c.JSON(trackingStatusCode(err), res)
}

// Status handles GET /motorcycles/track/:plate.
//
// @Summary      Inspect an active feed
// @Tags         tracking
// @Produce      json
// @Param        plate  path      string  true  "License plate"
// @Success      200    {object}  trackingStatusResponse
// @Failure      404    {object}  domain.TrackingResult
// @Router       /motorcycles/track/{plate} [get]
func (h *TrackingHandler) Status(c echo.Context) error {
	plate, _ := plateParam(c)
	snap, ok := h.service.Status(plate)
	if !ok {
		return c.JSON(http.StatusNotFound, domain.NoActiveTracking(plate))
	}

	resp := trackingStatusResponse{
		Plate:       snap.Plate,
		Active:      snap.Active,
		Cursor:      snap.Cursor,
		Emitted:     snap.Emitted,
		Skipped:     snap.Skipped,
		LastEmitted: toCoordinateResponse(snap.LastEmitted),
		StartedAt:   snap.StartedAt,
	}
	if h.positions != nil {
		last, err := h.positions.Last(c.Request().Context(), plate)
		if err != nil {
			h.log.Warn().Err(err).Str("plate", plate).Msg("last known position unavailable")
		}
		resp.LastKnown = toCoordinateResponse(last)
	}
	return c.JSON(http.StatusOK, resp)
}

// List handles GET /motorcycles/track.
//
// @Summary      List plates with an active feed
// @Tags         tracking
// @Produce      json
// @Success      200  {object}  activeTrackingResponse
// @Router       /motorcycles/track [get]
func (h *TrackingHandler) List(c echo.Context) error {
	plates := h.service.ActivePlates()
	return c.JSON(http.StatusOK, activeTrackingResponse{Plates: plates, Total: len(plates)})
}

func plateParam(c echo.Context) (string, bool) {
	plate := strings.TrimSpace(c.Param("plate"))
	return plate, plate != ""
}

func trackingStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrVehicleNotFound), errors.Is(err, domain.ErrNoActiveTracking):
		return http.StatusNotFound
	default:
		return http.StatusServiceUnavailable
	}
}
