package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
	"github.com/delivery-system/ms-delivery/internal/core/ports"
)

// MotorcycleHandler handles HTTP requests for motorcycle records.
type MotorcycleHandler struct {
	service ports.MotorcycleService
}

func NewMotorcycleHandler(service ports.MotorcycleService) *MotorcycleHandler {
	return &MotorcycleHandler{service: service}
}

// List handles GET /motorcycles.
//
// @Summary      List motorcycles
// @Tags         motorcycles
// @Produce      json
// @Success      200  {object}  listMotorcyclesResponse
// @Failure      500  {object}  errorResponse
// @Router       /motorcycles [get]
func (h *MotorcycleHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	data := make([]motorcycleResponse, 0, len(items))
	for _, m := range items {
		data = append(data, toMotorcycleResponse(m))
	}
	return c.JSON(http.StatusOK, listMotorcyclesResponse{Data: data, Total: len(data)})
}

// Get handles GET /motorcycles/:id.
//
// @Summary      Get a motorcycle by id
// @Tags         motorcycles
// @Produce      json
// @Param        id   path      string  true  "Motorcycle id"
// @Success      200  {object}  motorcycleResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /motorcycles/{id} [get]
func (h *MotorcycleHandler) Get(c echo.Context) error {
	m, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return motorcycleError(c, err)
	}
	return c.JSON(http.StatusOK, toMotorcycleResponse(m))
}

// Create handles POST /motorcycles.
//
// @Summary      Register a motorcycle
// @Tags         motorcycles
// @Accept       json
// @Produce      json
// @Param        body  body      createMotorcycleRequest  true  "Motorcycle details"
// @Success      201   {object}  motorcycleResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /motorcycles [post]
func (h *MotorcycleHandler) Create(c echo.Context) error {
	var req createMotorcycleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	m, err := h.service.Create(c.Request().Context(), ports.CreateMotorcycleInput{
		LicensePlate: req.LicensePlate,
		Brand:        req.Brand,
		Year:         req.Year,
		Status:       req.Status,
	})
	if err != nil {
		return motorcycleError(c, err)
	}
	return c.JSON(http.StatusCreated, toMotorcycleResponse(m))
}

// Update handles PUT /motorcycles/:id.
//
// @Summary      Update a motorcycle
// @Tags         motorcycles
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Motorcycle id"
// @Param        body  body      updateMotorcycleRequest  true  "Fields to change"
// @Success      200   {object}  motorcycleResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /motorcycles/{id} [put]
func (h *MotorcycleHandler) Update(c echo.Context) error {
	var req updateMotorcycleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	upd := ports.MotorcycleUpdate{
		LicensePlate: req.LicensePlate,
		Brand:        req.Brand,
		Year:         req.Year,
	}
	if req.Status != nil {
		status := domain.MotorcycleStatus(*req.Status)
		upd.Status = &status
	}

	m, err := h.service.Update(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return motorcycleError(c, err)
	}
	return c.JSON(http.StatusOK, toMotorcycleResponse(m))
}

// Delete handles DELETE /motorcycles/:id.
//
// @Summary      Delete a motorcycle
// @Tags         motorcycles
// @Param        id   path  string  true  "Motorcycle id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /motorcycles/{id} [delete]
func (h *MotorcycleHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return motorcycleError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// motorcycleError renders known domain errors; anything else goes to the
// global error handler.
func motorcycleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrMotorcycleNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "motorcycle not found"})
	case errors.Is(err, domain.ErrDuplicatePlate):
		return c.JSON(http.StatusConflict, errorResponse{Error: "license plate already registered"})
	case errors.Is(err, domain.ErrInvalidMotorcycle):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	return err
}
