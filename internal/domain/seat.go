package domain

// ValidateSeat checks a requested seat against the event format, the
// capacity range [1, capacity] and the set of seats already held by
// non-cancelled bookings. Seats are caller-selected; this only validates.
// For remote and hybrid events the seat is ignored and nil is returned.
func ValidateSeat(format EventFormat, seat *int, capacity int, taken []int) error {
	if format != EventFormatOnsite {
		return nil
	}
	if seat == nil {
		return ErrSeatRequired
	}
	if *seat < 1 || *seat > capacity {
		return ErrInvalidSeat
	}
	for _, s := range taken {
		if s == *seat {
			return ErrSeatTaken
		}
	}
	return nil
}
