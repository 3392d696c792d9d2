package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jwalitptl/salon-booking/internal/email"
	"github.com/jwalitptl/salon-booking/internal/model"
	"github.com/jwalitptl/salon-booking/pkg/logger"
	"github.com/jwalitptl/salon-booking/pkg/messaging"
	"github.com/jwalitptl/salon-booking/pkg/metrics"
)

type NotificationConsumerConfig struct {
	RetryAttempts int
	RetryDelay    time.Duration
}

// NotificationConsumer turns booking.created messages into the client
// confirmation and salon notification emails.
type NotificationConsumer struct {
	broker   messaging.Broker
	sender   email.Sender
	composer *email.Composer
	config   NotificationConsumerConfig
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewNotificationConsumer(
	broker messaging.Broker,
	sender email.Sender,
	composer *email.Composer,
	config NotificationConsumerConfig,
	log *logger.Logger,
	m *metrics.Metrics,
) *NotificationConsumer {
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 1
	}

	return &NotificationConsumer{
		broker:   broker,
		sender:   sender,
		composer: composer,
		config:   config,
		logger:   log.With("component", "notification-consumer"),
		metrics:  m,
	}
}

// Start blocks until ctx is cancelled or the subscription ends.
func (c *NotificationConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting notification consumer", "channel", messaging.ChannelBookingCreated)

	err := messaging.Consume(ctx, c.broker, messaging.ChannelBookingCreated, c.Handle, func(err error) {
		c.logger.Error(err, "Failed to process booking notification")
	})
	if errors.Is(err, context.Canceled) {
		c.logger.Info("Shutting down notification consumer")
		return nil
	}
	return err
}

// Handle processes one booking.created payload. Both emails are attempted
// even if the first fails.
func (c *NotificationConsumer) Handle(ctx context.Context, payload []byte) error {
	var n model.BookingNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return fmt.Errorf("failed to decode booking notification: %w", err)
	}
	if n.Booking == nil || n.Service == nil {
		return fmt.Errorf("booking notification is missing booking or service")
	}

	var errs []error
	if msg, err := c.composer.ClientConfirmation(n.Booking, n.Service); err != nil {
		errs = append(errs, err)
	} else if err := c.send(ctx, "client_confirmation", msg); err != nil {
		errs = append(errs, err)
	}

	if msg, err := c.composer.SalonNotification(n.Booking, n.Service); err != nil {
		errs = append(errs, err)
	} else if err := c.send(ctx, "salon_notification", msg); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("booking %s: %w", n.Booking.ID, err)
	}
	c.logger.Info("Booking emails sent", "booking_id", n.Booking.ID.String())
	return nil
}

func (c *NotificationConsumer) send(ctx context.Context, kind string, msg *email.Message) error {
	err := retry(ctx, c.config.RetryAttempts, c.config.RetryDelay, func() error {
		return c.sender.Send(ctx, msg)
	})
	recordEmail(c.metrics, kind, err)
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", kind, err)
	}
	return nil
}

func recordEmail(m *metrics.Metrics, kind string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.EmailsSent.WithLabelValues(kind, status).Inc()
}
