package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this event")
	ErrEventFull       = errors.New("event is full")
	ErrSeatRequired    = errors.New("seat number is required for onsite events")
	ErrInvalidSeat     = errors.New("invalid seat number")
	ErrSeatTaken       = errors.New("seat is already booked")
	ErrInvalidWindow   = errors.New("invalid booking window")
	ErrVenueConflict   = errors.New("venue is already booked for the selected dates")
	ErrUnauthorized    = errors.New("unauthorized")
)
