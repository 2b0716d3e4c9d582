package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/delivery-system/ms-delivery/internal/core/ports"
)

// Relay forwards positions published on tracking:* to a local broadcaster,
// normally the websocket hub.
type Relay struct {
	client *redis.Client
	target ports.Broadcaster
	log    zerolog.Logger
}

func NewRelay(client *redis.Client, target ports.Broadcaster, log zerolog.Logger) *Relay {
	return &Relay{
		client: client,
		target: target,
		log:    log.With().Str("component", "redis-relay").Logger(),
	}
}

// Serve subscribes and forwards messages until ctx is cancelled or the
// subscription channel closes.
func (r *Relay) Serve(ctx context.Context) error {
	sub := r.client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("psubscribe %s*: %w", channelPrefix, err)
	}
	r.log.Info().Str("pattern", channelPrefix+"*").Msg("relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("relay subscription closed")
			}
			r.forward(ctx, msg)
		}
	}
}

func (r *Relay) forward(ctx context.Context, msg *redis.Message) {
	plate, ok := plateFromChannel(msg.Channel)
	if !ok {
		r.log.Warn().Str("channel", msg.Channel).Msg("ignoring message on unexpected channel")
		return
	}

	pos, err := decodePosition(msg.Payload)
	if err != nil {
		r.log.Warn().Err(err).Str("plate", plate).Msg("ignoring malformed position")
		return
	}

	if err := r.target.Emit(ctx, plate, pos.Data); err != nil {
		r.log.Warn().Err(err).Str("plate", plate).Msg("relay delivery failed")
	}
}
