package model

import (
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a client appointment. DurationMinutes is copied from the service
// at creation so later catalog edits do not move existing bookings.
type Booking struct {
	Base
	Name            string        `db:"name" json:"name"`
	Email           string        `db:"email" json:"email"`
	Phone           string        `db:"phone" json:"phone"`
	ServiceID       string        `db:"service_id" json:"service_id"`
	AppointmentDate Date          `db:"appointment_date" json:"appointment_date"`
	AppointmentTime TimeOfDay     `db:"appointment_time" json:"appointment_time"`
	DurationMinutes int           `db:"duration_minutes" json:"duration_minutes"`
	Status          BookingStatus `db:"status" json:"status"`
	IsNewClient     bool          `db:"is_new_client" json:"is_new_client"`
	Allergies       *string       `db:"allergies" json:"allergies,omitempty"`
	Notes           *string       `db:"notes" json:"notes,omitempty"`
}

// Interval returns the booking's half-open [start, end) window in loc.
func (b *Booking) Interval(loc *time.Location) (time.Time, time.Time) {
	start := b.AppointmentDate.At(b.AppointmentTime, loc)
	return start, start.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

func (b *Booking) Active() bool {
	return b.Status != BookingStatusCancelled
}

// CreateBookingRequest carries the client submission.
type CreateBookingRequest struct {
	Name            string `json:"name" validate:"required,max=200"`
	Email           string `json:"email" validate:"required,email,max=320"`
	Phone           string `json:"phone" validate:"required,max=40"`
	ServiceID       string `json:"service_id" validate:"required"`
	AppointmentDate string `json:"appointment_date" validate:"required"`
	AppointmentTime string `json:"appointment_time" validate:"required"`
	IsNewClient     bool   `json:"is_new_client"`
	Allergies       string `json:"allergies" validate:"max=1000"`
	Notes           string `json:"notes" validate:"max=1000"`
}
