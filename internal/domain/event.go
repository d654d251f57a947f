package domain

import "time"

type EventFormat string

const (
	EventFormatOnsite EventFormat = "ONSITE"
	EventFormatRemote EventFormat = "REMOTE"
	EventFormatHybrid EventFormat = "HYBRID"
)

type EventStatus string

const (
	EventStatusPlanned   EventStatus = "PLANNED"
	EventStatusActive    EventStatus = "ACTIVE"
	EventStatusCompleted EventStatus = "COMPLETED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

type Event struct {
	ID            int64
	OrganizerID   int64
	Title         string
	Description   string
	Format        EventFormat
	Status        EventStatus
	TotalCapacity int
	StartsAt      time.Time
	EndsAt        time.Time
	VenueID       *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Open reports whether the event still admits enrollments.
func (e *Event) Open() bool {
	return e.Status != EventStatusCancelled && e.Status != EventStatusCompleted
}
