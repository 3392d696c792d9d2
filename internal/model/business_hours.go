package model

import "time"

// DayHours holds the opening window for one weekday (0 = Sunday).
type DayHours struct {
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	OpenTime  TimeOfDay `db:"open_time" json:"open_time"`
	CloseTime TimeOfDay `db:"close_time" json:"close_time"`
	IsClosed  bool      `db:"is_closed" json:"is_closed"`
}

func (h DayHours) Weekday() time.Weekday {
	return time.Weekday(h.DayOfWeek)
}
