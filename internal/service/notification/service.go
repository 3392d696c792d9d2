package notification

import (
	"context"
	"fmt"

	"github.com/jwalitptl/salon-booking/internal/model"
	"github.com/jwalitptl/salon-booking/pkg/logger"
	"github.com/jwalitptl/salon-booking/pkg/messaging"
	"github.com/jwalitptl/salon-booking/pkg/metrics"
)

// Notifier hands a freshly persisted booking to out-of-band delivery.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *model.Booking, service *model.Service) error
}

type brokerNotifier struct {
	broker  messaging.Broker
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewBrokerNotifier publishes booking.created messages for the worker.
func NewBrokerNotifier(broker messaging.Broker, m *metrics.Metrics, log *logger.Logger) Notifier {
	return &brokerNotifier{
		broker:  broker,
		metrics: m,
		logger:  log.With("component", "notifier"),
	}
}

func (n *brokerNotifier) BookingCreated(ctx context.Context, booking *model.Booking, service *model.Service) error {
	payload := model.BookingNotification{Booking: booking, Service: service}

	err := n.broker.Publish(ctx, messaging.ChannelBookingCreated, payload)
	status := "success"
	if err != nil {
		status = "error"
	}
	if n.metrics != nil {
		n.metrics.BrokerPublishes.WithLabelValues(messaging.ChannelBookingCreated, status).Inc()
	}
	if err != nil {
		return fmt.Errorf("failed to publish booking notification: %w", err)
	}

	n.logger.Debug("booking notification published", "booking_id", booking.ID.String())
	return nil
}

type logNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier only logs the notification. It is used when no broker is
// configured.
func NewLogNotifier(log *logger.Logger) Notifier {
	return &logNotifier{logger: log.With("component", "notifier")}
}

func (n *logNotifier) BookingCreated(_ context.Context, booking *model.Booking, service *model.Service) error {
	n.logger.Info("booking created",
		"booking_id", booking.ID.String(),
		"service", service.Name,
		"date", booking.AppointmentDate.String(),
		"time", booking.AppointmentTime.String(),
	)
	return nil
}
