package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jwalitptl/salon-booking/internal/calendar"
	"github.com/jwalitptl/salon-booking/internal/catalog"
	"github.com/jwalitptl/salon-booking/internal/email"
	"github.com/jwalitptl/salon-booking/internal/repository"
	"github.com/jwalitptl/salon-booking/pkg/logger"
	"github.com/jwalitptl/salon-booking/pkg/metrics"
)

// ReminderJob emails every client with a non-cancelled booking tomorrow.
type ReminderJob struct {
	bookings repository.BookingRepository
	catalog  *catalog.Catalog
	calendar *calendar.Calendar
	composer *email.Composer
	sender   email.Sender
	logger   *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	timeout  time.Duration
}

func NewReminderJob(
	bookings repository.BookingRepository,
	cat *catalog.Catalog,
	cal *calendar.Calendar,
	composer *email.Composer,
	sender email.Sender,
	log *logger.Logger,
	m *metrics.Metrics,
) *ReminderJob {
	return &ReminderJob{
		bookings: bookings,
		catalog:  cat,
		calendar: cal,
		composer: composer,
		sender:   sender,
		logger:   log.With("component", "reminders"),
		metrics:  m,
		now:      time.Now,
		timeout:  5 * time.Minute,
	}
}

// Schedule registers the job on c using a standard five-field cron spec.
func (j *ReminderJob) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		if _, err := j.Run(ctx); err != nil {
			j.logger.Error(err, "Reminder run failed")
		}
	})
	if err != nil {
		return 0, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return id, nil
}

// Run sends reminders for tomorrow's bookings and returns how many were sent.
// A failed email is logged and does not stop the run.
func (j *ReminderJob) Run(ctx context.Context) (int, error) {
	tomorrow := j.calendar.Today(j.now()).AddDays(1)

	bookings, err := j.bookings.ListActiveByDate(ctx, tomorrow)
	if err != nil {
		return 0, fmt.Errorf("failed to load bookings for %s: %w", tomorrow, err)
	}

	sent := 0
	for i := range bookings {
		b := &bookings[i]
		svc, ok := j.catalog.Lookup(b.ServiceID)
		if !ok {
			j.logger.Warn("Skipping reminder for unknown service", "booking_id", b.ID.String(), "service_id", b.ServiceID)
			continue
		}

		msg, err := j.composer.Reminder(b, svc)
		if err == nil {
			err = j.sender.Send(ctx, msg)
		}
		recordEmail(j.metrics, "reminder", err)
		if err != nil {
			j.logger.Error(err, "Failed to send reminder", "booking_id", b.ID.String())
			continue
		}
		sent++
	}

	j.logger.Info("Reminders sent", "date", tomorrow.String(), "sent", sent, "bookings", len(bookings))
	return sent, nil
}
