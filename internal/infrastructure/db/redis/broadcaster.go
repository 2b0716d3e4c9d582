package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/delivery-system/ms-delivery/internal/core/domain"
	"github.com/delivery-system/ms-delivery/internal/core/ports"
)

const channelPrefix = "tracking:"

// positionMessage is the payload published on tracking:<plate>.
type positionMessage struct {
	Plate string            `json:"plate"`
	Data  domain.Coordinate `json:"data"`
}

// Broadcaster publishes positions on Redis pub/sub so every API instance can
// deliver them to its own websocket subscribers.
type Broadcaster struct {
	client    *redis.Client
	positions ports.PositionStore
	log       zerolog.Logger
}

// NewBroadcaster returns a publisher. positions may be nil.
func NewBroadcaster(client *redis.Client, positions ports.PositionStore, log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		client:    client,
		positions: positions,
		log:       log.With().Str("component", "redis-broadcaster").Logger(),
	}
}

// Emit publishes c on the channel for plate and records it as the last known
// position. A cache failure is logged and does not fail the emission.
func (b *Broadcaster) Emit(ctx context.Context, channel string, c domain.Coordinate) error {
	payload, err := encodePosition(channel, c)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, channelName(channel), payload).Err(); err != nil {
		return fmt.Errorf("%w: publish: %v", domain.ErrEmissionFailed, err)
	}

	if b.positions != nil {
		if err := b.positions.Save(ctx, channel, c); err != nil {
			b.log.Warn().Err(err).Str("plate", channel).Msg("failed to cache last position")
		}
	}
	return nil
}

func channelName(plate string) string {
	return channelPrefix + plate
}

func plateFromChannel(name string) (string, bool) {
	plate, ok := strings.CutPrefix(name, channelPrefix)
	if !ok || plate == "" {
		return "", false
	}
	return plate, true
}

func encodePosition(plate string, c domain.Coordinate) ([]byte, error) {
	data, err := json.Marshal(positionMessage{Plate: plate, Data: c})
	if err != nil {
		return nil, fmt.Errorf("encode position: %w", err)
	}
	return data, nil
}

func decodePosition(payload string) (positionMessage, error) {
	var msg positionMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return positionMessage{}, fmt.Errorf("decode position: %w", err)
	}
	return msg, nil
}
