package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateSeat(t *testing.T) {
	seat := func(n int) *int { return &n }
	taken := []int{2, 5}

	cases := []struct {
		name    string
		format  EventFormat
		seat    *int
		wantErr error
	}{
		{"remote ignores seat", EventFormatRemote, nil, nil},
		{"hybrid ignores seat", EventFormatHybrid, seat(999), nil},
		{"onsite requires seat", EventFormatOnsite, nil, ErrSeatRequired},
		{"seat below range", EventFormatOnsite, seat(0), ErrInvalidSeat},
		{"seat above range", EventFormatOnsite, seat(11), ErrInvalidSeat},
		{"seat taken", EventFormatOnsite, seat(5), ErrSeatTaken},
		{"free seat", EventFormatOnsite, seat(3), nil},
		{"boundary seats", EventFormatOnsite, seat(10), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSeat(tc.format, tc.seat, 10, taken)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestWindowsOverlap(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2025, 6, 1, hour, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name string
		s1   time.Time
		e1   time.Time
		s2   time.Time
		e2   time.Time
		want bool
	}{
		{"disjoint", at(8), at(9), at(10), at(12), false},
		{"touching boundaries", at(8), at(10), at(10), at(12), false},
		{"partial overlap", at(9), at(11), at(10), at(12), true},
		{"contained", at(10), at(11), at(9), at(12), true},
		{"identical", at(10), at(12), at(10), at(12), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, WindowsOverlap(tc.s1, tc.e1, tc.s2, tc.e2))
			assert.Equal(t, tc.want, WindowsOverlap(tc.s2, tc.e2, tc.s1, tc.e1))
		})
	}
}

func TestEventOpen(t *testing.T) {
	assert.True(t, (&Event{Status: EventStatusPlanned}).Open())
	assert.True(t, (&Event{Status: EventStatusActive}).Open())
	assert.False(t, (&Event{Status: EventStatusCompleted}).Open())
	assert.False(t, (&Event{Status: EventStatusCancelled}).Open())
}
