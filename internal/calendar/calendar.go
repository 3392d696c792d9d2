package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/jwalitptl/salon-booking/internal/model"
)

// Calendar is an immutable snapshot of the weekly business hours in a single
// location.
type Calendar struct {
	days [7]*model.DayHours
	loc  *time.Location
}

func New(hours []model.DayHours, loc *time.Location) (*Calendar, error) {
	if loc == nil {
		loc = time.Local
	}
	c := &Calendar{loc: loc}

	for i := range hours {
		h := hours[i]
		if h.DayOfWeek < 0 || h.DayOfWeek > 6 {
			return nil, fmt.Errorf("day_of_week %d out of range", h.DayOfWeek)
		}
		if c.days[h.DayOfWeek] != nil {
			return nil, fmt.Errorf("duplicate hours for %s", h.Weekday())
		}
		if !h.IsClosed {
			if !h.OpenTime.Valid() || !h.CloseTime.Valid() {
				return nil, fmt.Errorf("invalid hours for %s", h.Weekday())
			}
			if h.OpenTime >= h.CloseTime {
				return nil, fmt.Errorf("%s opens at %s but closes at %s", h.Weekday(), h.OpenTime, h.CloseTime)
			}
		}
		c.days[h.DayOfWeek] = &h
	}
	return c, nil
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Today returns the calendar date of now in the calendar's location.
func (c *Calendar) Today(now time.Time) model.Date {
	return model.DateOf(now.In(c.loc))
}

// HoursFor returns the open window for the date's weekday. ok is false when
// the weekday is closed or has no configured hours.
func (c *Calendar) HoursFor(date model.Date) (open, closeAt model.TimeOfDay, ok bool) {
	h := c.days[date.Weekday()]
	if h == nil || h.IsClosed {
		return 0, 0, false
	}
	return h.OpenTime, h.CloseTime, true
}

// IsOpenDay reports whether bookings can be made on date as seen at now.
func (c *Calendar) IsOpenDay(date model.Date, now time.Time) bool {
	if date.Before(c.Today(now)) {
		return false
	}
	_, _, ok := c.HoursFor(date)
	return ok
}

// Hours returns the configured days ordered by weekday.
func (c *Calendar) Hours() []model.DayHours {
	out := make([]model.DayHours, 0, len(c.days))
	for _, h := range c.days {
		if h != nil {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out
}

// DefaultHours is the studio's standard week.
func DefaultHours() []model.DayHours {
	weekday := func(d int) model.DayHours {
		return model.DayHours{DayOfWeek: d, OpenTime: model.NewTimeOfDay(9, 0), CloseTime: model.NewTimeOfDay(19, 0)}
	}
	return []model.DayHours{
		{DayOfWeek: 0, OpenTime: model.NewTimeOfDay(10, 0), CloseTime: model.NewTimeOfDay(17, 0)},
		weekday(1),
		weekday(2),
		weekday(3),
		weekday(4),
		weekday(5),
		{DayOfWeek: 6, OpenTime: model.NewTimeOfDay(9, 0), CloseTime: model.NewTimeOfDay(18, 0)},
	}
}
