package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-booking/internal/model"
	"github.com/jwalitptl/salon-booking/internal/repository"
)

var day = model.Date{Year: 2024, Month: time.June, Day: 10}

func newBooking(date model.Date, start model.TimeOfDay, minutes int) *model.Booking {
	return &model.Booking{
		Name:            "Ana",
		Email:           "ana@example.com",
		Phone:           "555",
		ServiceID:       "1",
		AppointmentDate: date,
		AppointmentTime: start,
		DurationMinutes: minutes,
		Status:          model.BookingStatusPending,
	}
}

func TestCreateAndGet(t *testing.T) {
	store := NewStore(nil, nil)
	ctx := context.Background()

	b := newBooking(day, model.NewTimeOfDay(10, 0), 60)
	require.NoError(t, store.Bookings().Create(ctx, b))
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.False(t, b.CreatedAt.IsZero())

	got, err := store.Bookings().Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, *b, *got)

	_, err = store.Bookings().Get(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreateRejectsOverlap(t *testing.T) {
	store := NewStore(nil, nil)
	ctx := context.Background()

	require.NoError(t, store.Bookings().Create(ctx, newBooking(day, model.NewTimeOfDay(10, 0), 90)))

	err := store.Bookings().Create(ctx, newBooking(day, model.NewTimeOfDay(11, 0), 60))
	assert.ErrorIs(t, err, repository.ErrSlotTaken)

	assert.NoError(t, store.Bookings().Create(ctx, newBooking(day, model.NewTimeOfDay(11, 30), 60)), "adjacent slot")
	assert.NoError(t, store.Bookings().Create(ctx, newBooking(day.AddDays(1), model.NewTimeOfDay(10, 0), 90)), "other date")
}

func TestCancelledBookingsDoNotBlock(t *testing.T) {
	store := NewStore(nil, nil)
	ctx := context.Background()

	cancelled := newBooking(day, model.NewTimeOfDay(10, 0), 90)
	cancelled.Status = model.BookingStatusCancelled
	require.NoError(t, store.Bookings().Create(ctx, cancelled))

	require.NoError(t, store.Bookings().Create(ctx, newBooking(day, model.NewTimeOfDay(10, 0), 90)))

	active, err := store.Bookings().ListActiveByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, model.BookingStatusPending, active[0].Status)
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	store := NewStore(nil, nil)
	ctx := context.Background()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Bookings().Create(ctx, newBooking(day, model.NewTimeOfDay(14, 0), 120)); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestListActiveBetweenOrdered(t *testing.T) {
	store := NewStore(nil, nil)
	ctx := context.Background()

	require.NoError(t, store.Bookings().Create(ctx, newBooking(day.AddDays(1), model.NewTimeOfDay(9, 0), 60)))
	require.NoError(t, store.Bookings().Create(ctx, newBooking(day, model.NewTimeOfDay(15, 0), 60)))
	require.NoError(t, store.Bookings().Create(ctx, newBooking(day, model.NewTimeOfDay(9, 0), 60)))
	require.NoError(t, store.Bookings().Create(ctx, newBooking(day.AddDays(3), model.NewTimeOfDay(9, 0), 60)))

	got, err := bookingRepository{store}.listActiveBetween(ctx, day, day.AddDays(1))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "09:00", got[0].AppointmentTime.String())
	assert.Equal(t, "15:00", got[1].AppointmentTime.String())
	assert.Equal(t, day.AddDays(1), got[2].AppointmentDate)
}

func TestReferenceDataOrdering(t *testing.T) {
	store := NewStore(
		[]model.Service{{ID: "b", Price: 20}, {ID: "a", Price: 10}},
		[]model.DayHours{{DayOfWeek: 3}, {DayOfWeek: 1}},
	)

	services, err := store.Services().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", services[0].ID)

	hours, err := store.BusinessHours().List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, hours[0].DayOfWeek)
}
