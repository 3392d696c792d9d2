package email

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-booking/internal/model"
	"github.com/jwalitptl/salon-booking/pkg/logger"
)

var studio = Business{Name: "LuxeLashes", Email: "hello@luxelashes.com", Phone: "(555) 123-4567"}

func fixture() (*model.Booking, *model.Service) {
	allergies := "latex <script>"
	b := &model.Booking{
		Base:            model.Base{ID: uuid.MustParse("6f1c2b7e-1d2a-4c1e-9a77-3f6c0b9e2d11")},
		Name:            "Ana Lima",
		Email:           "ana@example.com",
		Phone:           "555-0100",
		AppointmentDate: model.Date{Year: 2024, Month: time.June, Day: 10},
		AppointmentTime: model.NewTimeOfDay(14, 30),
		DurationMinutes: 120,
		IsNewClient:     true,
		Allergies:       &allergies,
	}
	svc := &model.Service{ID: "1", Name: "Classic Lash Extensions", Price: 95, DurationMinutes: 120}
	return b, svc
}

func TestClientConfirmation(t *testing.T) {
	b, svc := fixture()

	msg, err := NewComposer(studio, time.UTC).ClientConfirmation(b, svc)
	require.NoError(t, err)

	assert.Equal(t, []string{"ana@example.com"}, msg.To)
	assert.Equal(t, "Booking Confirmation - LuxeLashes", msg.Subject)
	assert.Contains(t, msg.HTML, "Hello Ana Lima!")
	assert.Contains(t, msg.HTML, "Monday, June 10, 2024")
	assert.Contains(t, msg.HTML, "2:30 PM")
	assert.Contains(t, msg.HTML, "120 minutes")
	assert.Contains(t, msg.HTML, "$95")
	assert.Contains(t, msg.HTML, "A reminder will be sent 24 hours before your appointment")
	assert.Contains(t, msg.HTML, "latex &lt;script&gt;")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.NotContains(t, msg.HTML, "Notes:</strong>")
}

func TestSalonNotification(t *testing.T) {
	b, svc := fixture()

	msg, err := NewComposer(studio, time.UTC).SalonNotification(b, svc)
	require.NoError(t, err)

	assert.Equal(t, []string{"hello@luxelashes.com"}, msg.To)
	assert.Equal(t, "New Booking Request - Ana Lima", msg.Subject)
	assert.Contains(t, msg.HTML, "Booking ID: 6f1c2b7e-1d2a-4c1e-9a77-3f6c0b9e2d11")
	assert.Contains(t, msg.HTML, "555-0100")
	assert.Contains(t, msg.HTML, "Yes")
}

func TestReminderWithoutNotes(t *testing.T) {
	b, svc := fixture()
	b.Allergies = nil
	svc.Price = 52.5

	msg, err := NewComposer(studio, time.UTC).Reminder(b, svc)
	require.NoError(t, err)

	assert.Contains(t, msg.HTML, "See you tomorrow, Ana Lima!")
	assert.Contains(t, msg.HTML, "$52.5")
	assert.NotContains(t, msg.HTML, "Special Notes")
}

func TestLogSender(t *testing.T) {
	err := NewLogSender(logger.Nop()).Send(context.Background(), &Message{To: []string{"a@example.com"}, Subject: "hi"})
	assert.NoError(t, err)
}

func TestSMTPSenderRequiresRecipients(t *testing.T) {
	err := NewSMTPSender(SMTPConfig{Host: "localhost", Port: 2525}).Send(context.Background(), &Message{Subject: "hi"})
	assert.ErrorContains(t, err, "no recipients")
}
