package messaging

import (
	"context"
	"fmt"
)

// Handler processes one raw message payload.
type Handler func(ctx context.Context, payload []byte) error

// Consume subscribes to channel and feeds every message to handler until ctx
// is cancelled or the subscription closes. Handler errors are passed to onErr
// and do not stop consumption.
func Consume(ctx context.Context, broker Broker, channel string, handler Handler, onErr func(error)) error {
	msgChan, err := broker.Subscribe(ctx, channel)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	for msg := range msgChan {
		if err := handler(ctx, msg); err != nil && onErr != nil {
			onErr(err)
		}
	}

	return ctx.Err()
}
