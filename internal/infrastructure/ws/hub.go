// Package ws delivers live motorcycle positions to websocket subscribers.
// Each subscriber listens on exactly one channel, named after a plate.
package ws

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
	"github.com/delivery-system/ms-delivery/internal/pkg/metrics"
)

const (
	MessageTypePosition = "position"
	MessageTypePing     = "ping"
	MessageTypePong     = "pong"
)

// Message is the envelope written to subscribers.
type Message struct {
	Type  string             `json:"type"`
	Plate string             `json:"plate,omitempty"`
	Data  *domain.Coordinate `json:"data,omitempty"`
}

// Hub tracks subscribers per channel and fans positions out to them.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*Client]struct{}
	log      zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		channels: make(map[string]map[*Client]struct{}),
		log:      log.With().Str("component", "websocket-hub").Logger(),
	}
}

// Emit delivers c to every subscriber of channel. It never blocks: a
// subscriber whose buffer is full misses the update.
func (h *Hub) Emit(_ context.Context, channel string, c domain.Coordinate) error {
	coord := c
	msg := Message{Type: MessageTypePosition, Plate: channel, Data: &coord}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.channels[channel] {
		select {
		case client.send <- msg:
		default:
			metrics.BroadcastDroppedTotal.WithLabelValues("slow_subscriber").Inc()
			h.log.Debug().Str("plate", channel).Uint64("client_id", client.id).Msg("subscriber buffer full, update dropped")
		}
	}
	return nil
}

// Subscribe attaches conn to channel and starts its pumps.
func (h *Hub) Subscribe(channel string, conn *websocket.Conn) *Client {
	client := newClient(h, channel, conn)

	h.mu.Lock()
	subs, ok := h.channels[channel]
	if !ok {
		subs = make(map[*Client]struct{})
		h.channels[channel] = subs
	}
	subs[client] = struct{}{}
	h.mu.Unlock()

	metrics.WebsocketSubscribers.Inc()
	h.log.Info().Str("plate", channel).Uint64("client_id", client.id).Msg("websocket subscriber connected")

	client.start()
	return client
}

func (h *Hub) unsubscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.channels[client.channel]
	if !ok {
		return
	}
	if _, ok := subs[client]; !ok {
		return
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.channels, client.channel)
	}
	close(client.send)

	metrics.WebsocketSubscribers.Dec()
	h.log.Info().Str("plate", client.channel).Uint64("client_id", client.id).Msg("websocket subscriber disconnected")
}

// SubscriberCount returns the number of subscribers on channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Serve blocks until ctx is cancelled and then disconnects every subscriber.
func (h *Hub) Serve(ctx context.Context) error {
	<-ctx.Done()

	h.mu.RLock()
	clients := make([]*Client, 0)
	for _, subs := range h.channels {
		for c := range subs {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.unsubscribe(c)
	}

	h.log.Info().Int("clients_closed", len(clients)).Msg("websocket hub stopped")
	return ctx.Err()
}
