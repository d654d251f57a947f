package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

type Venue struct {
	ID        int64
	Name      string
	Address   string
	City      string
	Capacity  int
	CreatedBy int64

	// Cached projection of the latest ACTIVE reservation.
	IsBooked         bool
	BookedBy         *int64
	BookedForEventID *int64
	BookingStartsAt  *time.Time
	BookingEndsAt    *time.Time
}

type VenueReservation struct {
	ID        int64
	VenueID   int64
	EventID   int64
	BookedBy  int64
	StartsAt  time.Time
	EndsAt    time.Time
	Status    ReservationStatus
	CreatedAt time.Time
}

// WindowsOverlap reports whether the half-open intervals [s1,e1) and
// [s2,e2) intersect. Touching boundaries do not conflict.
func WindowsOverlap(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
