package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-booking/internal/model"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrSlotTaken is returned when the store rejects a booking because it
	// overlaps another non-cancelled booking.
	ErrSlotTaken = errors.New("time slot already booked")
)

// All repository interfaces in one file
type (
	// ServiceRepository reads the service catalog
	ServiceRepository interface {
		List(ctx context.Context) ([]model.Service, error)
	}

	// BusinessHoursRepository reads the weekly opening hours
	BusinessHoursRepository interface {
		List(ctx context.Context) ([]model.DayHours, error)
	}

	// BookingRepository stores bookings. Create must reject a booking whose
	// interval overlaps a non-cancelled booking on the same date with
	// ErrSlotTaken, atomically with the insert.
	BookingRepository interface {
		Create(ctx context.Context, booking *model.Booking) error
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		ListActiveByDate(ctx context.Context, date model.Date) ([]model.Booking, error)
	}

	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// Overlaps reports whether two bookings on the same date share any minute.
func Overlaps(a, b *model.Booking) bool {
	if a.AppointmentDate != b.AppointmentDate {
		return false
	}
	aEnd := a.AppointmentTime + model.TimeOfDay(a.DurationMinutes)
	bEnd := b.AppointmentTime + model.TimeOfDay(b.DurationMinutes)
	return a.AppointmentTime < bEnd && b.AppointmentTime < aEnd
}
