package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-booking/internal/model"
	"github.com/jwalitptl/salon-booking/pkg/logger"
	"github.com/jwalitptl/salon-booking/pkg/messaging"
	"github.com/jwalitptl/salon-booking/pkg/metrics"
)

type recordingBroker struct {
	channel string
	payload []byte
	err     error
}

func (b *recordingBroker) Publish(_ context.Context, channel string, message interface{}) error {
	if b.err != nil {
		return b.err
	}
	b.channel = channel
	var err error
	b.payload, err = json.Marshal(message)
	return err
}

func (b *recordingBroker) Subscribe(context.Context, string) (<-chan []byte, error) { return nil, nil }
func (b *recordingBroker) Ping(context.Context) error                              { return nil }
func (b *recordingBroker) Close() error                                            { return nil }

func fixture() (*model.Booking, *model.Service) {
	b := &model.Booking{
		Base:            model.Base{ID: uuid.New()},
		Name:            "Ana",
		Email:           "ana@example.com",
		ServiceID:       "1",
		AppointmentDate: model.Date{Year: 2024, Month: time.June, Day: 10},
		AppointmentTime: model.NewTimeOfDay(10, 0),
		DurationMinutes: 120,
		Status:          model.BookingStatusPending,
	}
	return b, &model.Service{ID: "1", Name: "Classic Lash Extensions", DurationMinutes: 120, Price: 95}
}

func TestBrokerNotifierPublishesPayload(t *testing.T) {
	broker := &recordingBroker{}
	m := metrics.NewNop()
	n := NewBrokerNotifier(broker, m, logger.Nop())
	booking, svc := fixture()

	require.NoError(t, n.BookingCreated(context.Background(), booking, svc))

	assert.Equal(t, messaging.ChannelBookingCreated, broker.channel)
	var got model.BookingNotification
	require.NoError(t, json.Unmarshal(broker.payload, &got))
	assert.Equal(t, booking.ID, got.Booking.ID)
	assert.Equal(t, "10:00", got.Booking.AppointmentTime.String())
	assert.Equal(t, "Classic Lash Extensions", got.Service.Name)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BrokerPublishes.WithLabelValues(messaging.ChannelBookingCreated, "success")))
}

func TestBrokerNotifierReportsFailure(t *testing.T) {
	m := metrics.NewNop()
	n := NewBrokerNotifier(&recordingBroker{err: errors.New("circuit breaker is open")}, m, logger.Nop())
	booking, svc := fixture()

	err := n.BookingCreated(context.Background(), booking, svc)

	assert.ErrorContains(t, err, "circuit breaker is open")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BrokerPublishes.WithLabelValues(messaging.ChannelBookingCreated, "error")))
}

func TestLogNotifierNeverFails(t *testing.T) {
	booking, svc := fixture()

	assert.NoError(t, NewLogNotifier(logger.Nop()).BookingCreated(context.Background(), booking, svc))
}
