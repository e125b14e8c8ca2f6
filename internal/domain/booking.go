package domain

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Booking is a stay request. RoomType is a label snapshot, not a foreign key,
// so deleting a room never touches its bookings.
type Booking struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Email           string        `json:"email"`
	Phone           string        `json:"phone,omitempty"`
	CheckIn         string        `json:"check_in"`  // YYYY-MM-DD
	CheckOut        string        `json:"check_out"` // YYYY-MM-DD
	Guests          string        `json:"guests"`    // e.g. "2 Adults, 1 Child"
	RoomType        string        `json:"room_type"`
	SpecialRequests string        `json:"special_requests,omitempty"`
	Status          BookingStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
}

// BookingCreatedEvent is published after a booking row is inserted.
type BookingCreatedEvent struct {
	BookingID string `json:"booking_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Guests    string `json:"guests"`
	RoomType  string `json:"room_type"`
	CreatedAt string `json:"created_at"`
}
