package handler

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/delivery-system/ms-delivery/internal/infrastructure/ws"
)

// WebsocketHandler upgrades subscribers of a plate's live channel.
type WebsocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewWebsocketHandler accepts upgrades from allowedOrigins. Requests without
// an Origin header (non-browser clients) are always accepted.
func NewWebsocketHandler(hub *ws.Hub, allowedOrigins []string, log zerolog.Logger) *WebsocketHandler {
	return &WebsocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log,
	}
}

// Subscribe handles GET /ws/motorcycles/:plate.
//
// @Summary      Subscribe to live positions of a motorcycle
// @Tags         tracking
// @Param        plate  path  string  true  "License plate"
// @Success      101
// @Failure      400  {object}  errorResponse
// @Router       /ws/motorcycles/{plate} [get]
func (h *WebsocketHandler) Subscribe(c echo.Context) error {
	plate, ok := plateParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "plate is required"})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written the error response.
		h.log.Debug().Err(err).Str("plate", plate).Msg("websocket upgrade rejected")
		return nil
	}
	h.hub.Subscribe(plate, conn)
	return nil
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
	}
}
