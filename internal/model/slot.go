package model

// Slot is a derived, never persisted, candidate appointment window.
type Slot struct {
	Start     TimeOfDay `json:"time"`
	End       TimeOfDay `json:"end_time"`
	Available bool      `json:"available"`
}

// DayState summarises a slot listing for client messaging.
type DayState string

const (
	DayStateClosed      DayState = "closed"
	DayStateFullyBooked DayState = "fully_booked"
	DayStateAvailable   DayState = "available"
)
