package model

// BookingNotification is the payload handed to the notification collaborator.
type BookingNotification struct {
	Booking *Booking `json:"booking"`
	Service *Service `json:"service"`
}
