package messaging

import (
	"context"
)

// Channels used between the API and the worker.
const (
	ChannelBookingCreated = "booking.created"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Ping(ctx context.Context) error
	Close() error
}
