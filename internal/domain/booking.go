package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed  BookingStatus = "CONFIRMED"
	BookingStatusWaitlisted BookingStatus = "WAITLISTED"
	BookingStatusCancelled  BookingStatus = "CANCELLED"
)

type BookingKind string

const (
	BookingKindSolo  BookingKind = "SOLO"
	BookingKindGroup BookingKind = "GROUP"
)

type Booking struct {
	ID         int64
	EventID    int64
	AttendeeID int64
	SeatNumber *int
	Status     BookingStatus
	Kind       BookingKind
	GroupCode  string
	TicketCode string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
