package availability

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-booking/internal/calendar"
	"github.com/jwalitptl/salon-booking/internal/model"
)

// 2024-06-10 is a Monday (09:00-19:00 in the default week).
var (
	monday   = model.Date{Year: 2024, Month: time.June, Day: 10}
	lastWeek = time.Date(2024, time.June, 3, 8, 0, 0, 0, time.UTC)
	tod      = model.NewTimeOfDay
	classic  = &model.Service{ID: "1", DurationMinutes: 120}
	oneHour  = &model.Service{ID: "x", DurationMinutes: 60}
	lashFill = &model.Service{ID: "4", DurationMinutes: 90}
)

func newCalendar(t *testing.T) *calendar.Calendar {
	t.Helper()
	cal, err := calendar.New(calendar.DefaultHours(), time.UTC)
	require.NoError(t, err)
	return cal
}

func booking(date model.Date, start model.TimeOfDay, minutes int, status model.BookingStatus) model.Booking {
	return model.Booking{
		AppointmentDate: date,
		AppointmentTime: start,
		DurationMinutes: minutes,
		Status:          status,
	}
}

func starts(slots []model.Slot, available bool) []string {
	var out []string
	for _, s := range slots {
		if s.Available == available {
			out = append(out, s.Start.String())
		}
	}
	return out
}

func TestComputeSlotsEmptyDay(t *testing.T) {
	slots := ComputeSlots(newCalendar(t), monday, classic, nil, lastWeek)

	require.Len(t, slots, 17)
	assert.Equal(t, model.Slot{Start: tod(9, 0), End: tod(11, 0), Available: true}, slots[0])
	assert.Equal(t, model.Slot{Start: tod(17, 0), End: tod(19, 0), Available: true}, slots[len(slots)-1])
	for _, s := range slots {
		assert.True(t, s.Available)
		assert.LessOrEqual(t, s.Start, tod(17, 0))
	}
	assert.Equal(t, model.DayStateAvailable, DayState(slots))
}

func TestComputeSlotsAroundExistingBooking(t *testing.T) {
	bookings := []model.Booking{booking(monday, tod(10, 0), 90, model.BookingStatusConfirmed)}

	slots := ComputeSlots(newCalendar(t), monday, oneHour, bookings, lastWeek)

	assert.Equal(t, []string{"09:30", "10:00", "10:30", "11:00"}, starts(slots, false))
	s, ok := FindSlot(slots, tod(9, 0))
	require.True(t, ok)
	assert.True(t, s.Available, "slot ending exactly at booking start is free")
	s, ok = FindSlot(slots, tod(11, 30))
	require.True(t, ok)
	assert.True(t, s.Available, "slot starting exactly at booking end is free")
}

func TestComputeSlotsIgnoresCancelledAndOtherDates(t *testing.T) {
	bookings := []model.Booking{
		booking(monday, tod(10, 0), 120, model.BookingStatusCancelled),
		booking(monday.AddDays(1), tod(10, 0), 120, model.BookingStatusPending),
	}

	slots := ComputeSlots(newCalendar(t), monday, oneHour, bookings, lastWeek)

	assert.Empty(t, starts(slots, false))
}

func TestComputeSlotsPendingBlocks(t *testing.T) {
	bookings := []model.Booking{booking(monday, tod(9, 0), 120, model.BookingStatusPending)}

	slots := ComputeSlots(newCalendar(t), monday, oneHour, bookings, lastWeek)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, starts(slots, false))
}

func TestComputeSlotsClosedAndPastDays(t *testing.T) {
	cal, err := calendar.New([]model.DayHours{
		{DayOfWeek: 1, OpenTime: tod(9, 0), CloseTime: tod(19, 0)},
		{DayOfWeek: 2, IsClosed: true},
	}, time.UTC)
	require.NoError(t, err)

	slots := ComputeSlots(cal, monday.AddDays(1), oneHour, nil, lastWeek)
	assert.Empty(t, slots)
	assert.NotNil(t, slots)
	assert.Equal(t, model.DayStateClosed, DayState(slots))

	assert.Empty(t, ComputeSlots(cal, monday.AddDays(2), oneHour, nil, lastWeek), "no hours configured")

	afterMonday := time.Date(2024, time.June, 18, 9, 0, 0, 0, time.UTC)
	assert.False(t, cal.IsOpenDay(monday, afterMonday))
	assert.Empty(t, ComputeSlots(cal, monday, oneHour, nil, afterMonday), "past date")
}

func TestComputeSlotsToday(t *testing.T) {
	now := time.Date(2024, time.June, 10, 12, 10, 0, 0, time.UTC)

	slots := ComputeSlots(newCalendar(t), monday, oneHour, nil, now)

	unavailable := starts(slots, false)
	require.NotEmpty(t, unavailable)
	assert.Equal(t, "09:00", unavailable[0])
	assert.Equal(t, "12:00", unavailable[len(unavailable)-1])
	assert.Equal(t, "12:30", starts(slots, true)[0])

	exact := time.Date(2024, time.June, 10, 12, 30, 0, 0, time.UTC)
	s, ok := FindSlot(ComputeSlots(newCalendar(t), monday, oneHour, nil, exact), tod(12, 30))
	require.True(t, ok)
	assert.True(t, s.Available, "a slot starting exactly now is not in the past")
}

func TestComputeSlotsFixedGranularity(t *testing.T) {
	slots := ComputeSlots(newCalendar(t), monday, lashFill, nil, lastWeek)

	for i, s := range slots {
		assert.Zero(t, s.Start.Minutes()%30)
		assert.Equal(t, s.Start.Add(90*time.Minute), s.End)
		if i > 0 {
			assert.Equal(t, slots[i-1].Start.Add(Granularity), s.Start)
		}
	}
	assert.Equal(t, "17:30", slots[len(slots)-1].Start.String())
}

func TestComputeSlotsFullyBooked(t *testing.T) {
	bookings := []model.Booking{booking(monday, tod(9, 0), 600, model.BookingStatusConfirmed)}

	slots := ComputeSlots(newCalendar(t), monday, oneHour, bookings, lastWeek)

	require.NotEmpty(t, slots)
	assert.Equal(t, model.DayStateFullyBooked, DayState(slots))
}

func TestComputeSlotsServiceLongerThanDay(t *testing.T) {
	long := &model.Service{ID: "long", DurationMinutes: 11 * 60}

	slots := ComputeSlots(newCalendar(t), monday, long, nil, lastWeek)

	assert.Empty(t, slots)
}

func TestComputeSlotsIdempotent(t *testing.T) {
	cal := newCalendar(t)
	bookings := []model.Booking{booking(monday, tod(13, 0), 150, model.BookingStatusPending)}

	first := ComputeSlots(cal, monday, classic, bookings, lastWeek)
	second := ComputeSlots(cal, monday, classic, bookings, lastWeek)

	assert.Equal(t, first, second)
}

func TestComputeSlotsNeverOffersOverlaps(t *testing.T) {
	cal := newCalendar(t)
	rng := rand.New(rand.NewSource(42))
	durations := []int{30, 60, 90, 120, 150, 180}
	_, closeTOD, _ := cal.HoursFor(monday)

	for round := 0; round < 200; round++ {
		var bookings []model.Booking
		for n := rng.Intn(5); n > 0; n-- {
			start := tod(9, 0) + model.TimeOfDay(rng.Intn(20)*15)
			bookings = append(bookings, booking(monday, start, durations[rng.Intn(len(durations))], model.BookingStatusPending))
		}
		svc := &model.Service{ID: "p", DurationMinutes: durations[rng.Intn(len(durations))]}

		for _, s := range ComputeSlots(cal, monday, svc, bookings, lastWeek) {
			assert.Equal(t, s.Start.Add(svc.Duration()), s.End)
			assert.LessOrEqual(t, s.End, closeTOD)
			if !s.Available {
				continue
			}
			for _, b := range bookings {
				bEnd := b.AppointmentTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
				overlap := s.Start < bEnd && b.AppointmentTime < s.End
				assert.False(t, overlap, "slot %s-%s overlaps booking %s", s.Start, s.End, b.AppointmentTime)
			}
		}
	}
}

func TestDayState(t *testing.T) {
	assert.Equal(t, model.DayStateClosed, DayState(nil))
	assert.Equal(t, model.DayStateFullyBooked, DayState([]model.Slot{{Available: false}}))
	assert.Equal(t, model.DayStateAvailable, DayState([]model.Slot{{Available: false}, {Available: true}}))
}
