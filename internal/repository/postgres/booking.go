package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/salon-booking/internal/model"
	"github.com/jwalitptl/salon-booking/internal/repository"
)

const bookingColumns = `
	id, name, email, phone, service_id,
	appointment_date, appointment_time, duration_minutes,
	status, is_new_client, allergies, notes,
	created_at, updated_at
`

// Create re-checks overlap and inserts in one transaction at the default
// isolation level. Concurrent inserts that slip past the check are rejected
// by the bookings_no_overlap exclusion constraint.
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	start := time.Now()
	err := r.WithTx(ctx, nil, func(tx *sqlx.Tx) error {
		if booking.Active() {
			conflict, err := r.hasOverlap(ctx, tx, booking)
			if err != nil {
				return err
			}
			if conflict {
				return repository.ErrSlotTaken
			}
		}

		query := `
			INSERT INTO bookings (` + bookingColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`
		_, err := tx.ExecContext(ctx, query,
			booking.ID,
			booking.Name,
			booking.Email,
			booking.Phone,
			booking.ServiceID,
			booking.AppointmentDate,
			booking.AppointmentTime,
			booking.DurationMinutes,
			booking.Status,
			booking.IsNewClient,
			booking.Allergies,
			booking.Notes,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		return err
	})
	err = translate(err)
	r.metrics.ObserveDB("bookings.create", start, err)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) hasOverlap(ctx context.Context, tx *sqlx.Tx, booking *model.Booking) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE appointment_date = $1::date
			  AND status <> 'cancelled'
			  AND (appointment_date + appointment_time) < ($1::date + $2::time + make_interval(mins => $3))
			  AND ($1::date + $2::time) < (appointment_date + appointment_time + make_interval(mins => duration_minutes))
		)
	`
	var exists bool
	err := tx.GetContext(ctx, &exists, query,
		booking.AppointmentDate,
		booking.AppointmentTime,
		booking.DurationMinutes,
	)
	return exists, err
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	start := time.Now()
	var booking model.Booking
	err := translate(r.db.GetContext(ctx, &booking, query, id))
	r.metrics.ObserveDB("bookings.get", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) ListActiveByDate(ctx context.Context, date model.Date) ([]model.Booking, error) {
	return r.listActiveBetween(ctx, date, date)
}

func (r *bookingRepository) listActiveBetween(ctx context.Context, from, to model.Date) ([]model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE appointment_date BETWEEN $1 AND $2
		  AND status <> 'cancelled'
		ORDER BY appointment_date ASC, appointment_time ASC
	`
	start := time.Now()
	bookings := []model.Booking{}
	err := r.db.SelectContext(ctx, &bookings, query, from, to)
	r.metrics.ObserveDB("bookings.list_active", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
