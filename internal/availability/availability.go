package availability

import (
	"time"

	"github.com/jwalitptl/salon-booking/internal/calendar"
	"github.com/jwalitptl/salon-booking/internal/model"
)

// Granularity is the step between candidate start times. It does not depend
// on the service duration.
const Granularity = 30 * time.Minute

type interval struct {
	start, end time.Time
}

func (i interval) overlaps(start, end time.Time) bool {
	return start.Before(i.end) && i.start.Before(end)
}

// ComputeSlots lists every candidate slot for svc on date, in chronological
// order. Slots that overlap a non-cancelled booking or start before now are
// included with Available set to false. The result is empty when the day is
// closed or already past.
func ComputeSlots(cal *calendar.Calendar, date model.Date, svc *model.Service, bookings []model.Booking, now time.Time) []model.Slot {
	if !cal.IsOpenDay(date, now) {
		return []model.Slot{}
	}
	openTOD, closeTOD, _ := cal.HoursFor(date)

	loc := cal.Location()
	open := date.At(openTOD, loc)
	closeAt := date.At(closeTOD, loc)
	duration := svc.Duration()
	isToday := date == cal.Today(now)

	busy := make([]interval, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		if !b.Active() || b.AppointmentDate != date {
			continue
		}
		start, end := b.Interval(loc)
		busy = append(busy, interval{start: start, end: end})
	}

	var slots []model.Slot
	for cursor := open; !cursor.Add(duration).After(closeAt); cursor = cursor.Add(Granularity) {
		end := cursor.Add(duration)

		blocked := false
		for _, iv := range busy {
			if iv.overlaps(cursor, end) {
				blocked = true
				break
			}
		}
		past := isToday && cursor.Before(now)

		slots = append(slots, model.Slot{
			Start:     model.TimeOfDayOf(cursor),
			End:       model.TimeOfDayOf(cursor).Add(duration),
			Available: !blocked && !past,
		})
	}

	if slots == nil {
		return []model.Slot{}
	}
	return slots
}

// FindSlot returns the slot starting at start, if one was generated.
func FindSlot(slots []model.Slot, start model.TimeOfDay) (model.Slot, bool) {
	for _, s := range slots {
		if s.Start == start {
			return s, true
		}
	}
	return model.Slot{}, false
}

// DayState distinguishes a closed day from a fully booked one.
func DayState(slots []model.Slot) model.DayState {
	if len(slots) == 0 {
		return model.DayStateClosed
	}
	for _, s := range slots {
		if s.Available {
			return model.DayStateAvailable
		}
	}
	return model.DayStateFullyBooked
}
