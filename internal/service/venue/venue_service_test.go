package venue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/eventmate/booking-service/internal/domain"
	"github.com/eventmate/booking-service/internal/repository"
)

// memVenueRepo mirrors the Postgres repository's conflict semantics: the
// mutex plays the venue row lock, overlap is half-open against ACTIVE
// reservations only.
type memVenueRepo struct {
	mu           sync.Mutex
	nextID       int64
	venues       map[int64]*domain.Venue
	reservations map[int64]*domain.VenueReservation
}

func newMemVenueRepo(venues ...*domain.Venue) *memVenueRepo {
	r := &memVenueRepo{venues: make(map[int64]*domain.Venue), reservations: make(map[int64]*domain.VenueReservation)}
	for _, v := range venues {
		r.venues[v.ID] = v
	}
	return r
}

func (r *memVenueRepo) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	venue, ok := r.venues[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *venue
	return &out, nil
}

func (r *memVenueRepo) Reserve(ctx context.Context, res *domain.VenueReservation) (*domain.VenueReservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	venue, ok := r.venues[res.VenueID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for _, existing := range r.reservations {
		if existing.VenueID != res.VenueID || existing.Status != domain.ReservationStatusActive {
			continue
		}
		if domain.WindowsOverlap(existing.StartsAt, existing.EndsAt, res.StartsAt, res.EndsAt) {
			return nil, domain.ErrVenueConflict
		}
	}

	r.nextID++
	res.ID = r.nextID
	res.Status = domain.ReservationStatusActive
	res.CreatedAt = time.Now()
	stored := *res
	r.reservations[res.ID] = &stored

	venue.IsBooked = true
	venue.BookedBy = &res.BookedBy
	venue.BookedForEventID = &res.EventID
	venue.BookingStartsAt = &res.StartsAt
	venue.BookingEndsAt = &res.EndsAt
	return res, nil
}

func (r *memVenueRepo) Release(ctx context.Context, reservationID, requesterID int64) (*domain.VenueReservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, ok := r.reservations[reservationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if res.BookedBy != requesterID {
		return nil, domain.ErrUnauthorized
	}
	res.Status = domain.ReservationStatusCancelled

	if venue, ok := r.venues[res.VenueID]; ok {
		venue.IsBooked = false
		venue.BookedBy = nil
		venue.BookedForEventID = nil
		venue.BookingStartsAt = nil
		venue.BookingEndsAt = nil
	}
	out := *res
	return &out, nil
}

func (r *memVenueRepo) ListReservations(ctx context.Context, venueID int64) ([]domain.VenueReservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.VenueReservation, 0)
	for _, res := range r.reservations {
		if res.VenueID == venueID {
			out = append(out, *res)
		}
	}
	return out, nil
}

var _ repository.VenueRepository = (*memVenueRepo)(nil)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestService() (*VenueService, *memVenueRepo) {
	repo := newMemVenueRepo(&domain.Venue{ID: 1, Name: "Main Hall", Address: "1 Center St", City: "Springfield", Capacity: 200, CreatedBy: 7})
	service := NewVenueService(repo)
	service.now = func() time.Time { return testNow }
	return service, repo
}

func at(hour int) time.Time {
	return time.Date(2025, 6, 1, hour, 0, 0, 0, time.UTC)
}

func TestReserve(t *testing.T) {
	service, _ := newTestService()

	res, err := service.Reserve(context.Background(), ReserveInput{
		VenueID:     1,
		EventID:     10,
		RequesterID: 7,
		StartsAt:    at(10),
		EndsAt:      at(12),
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if res.ID == 0 || res.Status != domain.ReservationStatusActive {
		t.Fatalf("unexpected reservation: %+v", res)
	}

	venue, err := service.GetVenue(context.Background(), 1)
	if err != nil {
		t.Fatalf("get venue: %v", err)
	}
	if !venue.IsBooked || venue.BookedBy == nil || *venue.BookedBy != 7 {
		t.Fatalf("venue projection not updated: %+v", venue)
	}
}

func TestReserve_InvalidWindow(t *testing.T) {
	service, _ := newTestService()

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"start in the past", at(8), at(12)},
		{"start equals now", testNow, at(12)},
		{"end before start", at(12), at(10)},
		{"end equals start", at(10), at(10)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Reserve(context.Background(), ReserveInput{
				VenueID: 1, EventID: 10, RequesterID: 7, StartsAt: tc.start, EndsAt: tc.end,
			})
			if !errors.Is(err, domain.ErrInvalidWindow) {
				t.Fatalf("expected ErrInvalidWindow, got %v", err)
			}
		})
	}
}

func TestReserve_OverlapConflicts(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	if _, err := service.Reserve(ctx, ReserveInput{VenueID: 1, EventID: 10, RequesterID: 7, StartsAt: at(10), EndsAt: at(12)}); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	overlapping := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"overlaps tail", at(11), at(13)},
		{"overlaps head", at(9).Add(30 * time.Minute), at(11)},
		{"contained", at(10).Add(30 * time.Minute), at(11)},
		{"covers", at(9).Add(30 * time.Minute), at(13)},
	}
	for _, tc := range overlapping {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Reserve(ctx, ReserveInput{VenueID: 1, EventID: 11, RequesterID: 8, StartsAt: tc.start, EndsAt: tc.end})
			if !errors.Is(err, domain.ErrVenueConflict) {
				t.Fatalf("expected ErrVenueConflict, got %v", err)
			}
		})
	}

	// Half-open windows: one reservation's end is the next one's start.
	if _, err := service.Reserve(ctx, ReserveInput{VenueID: 1, EventID: 11, RequesterID: 8, StartsAt: at(12), EndsAt: at(13)}); err != nil {
		t.Fatalf("back-to-back reservation should succeed: %v", err)
	}
}

func TestRelease(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	res, err := service.Reserve(ctx, ReserveInput{VenueID: 1, EventID: 10, RequesterID: 7, StartsAt: at(10), EndsAt: at(12)})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	if err := service.Release(ctx, res.ID, 99); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign release, got %v", err)
	}

	if err := service.Release(ctx, res.ID, 7); err != nil {
		t.Fatalf("release: %v", err)
	}

	venue, _ := service.GetVenue(ctx, 1)
	if venue.IsBooked || venue.BookedBy != nil {
		t.Fatalf("venue projection not cleared: %+v", venue)
	}

	// The window is free again once the reservation is cancelled.
	if _, err := service.Reserve(ctx, ReserveInput{VenueID: 1, EventID: 11, RequesterID: 8, StartsAt: at(10), EndsAt: at(12)}); err != nil {
		t.Fatalf("re-reserve after release: %v", err)
	}
}

func TestRelease_NotFound(t *testing.T) {
	service, _ := newTestService()
	if err := service.Release(context.Background(), 404, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	res, err := service.Reserve(ctx, ReserveInput{VenueID: 1, EventID: 10, RequesterID: 7, StartsAt: at(10), EndsAt: at(12)})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := service.Release(ctx, res.ID, 7); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := service.Reserve(ctx, ReserveInput{VenueID: 1, EventID: 11, RequesterID: 8, StartsAt: at(14), EndsAt: at(16)}); err != nil {
		t.Fatalf("second reserve: %v", err)
	}

	history, err := service.History(ctx, 1)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 reservations in history, got %d", len(history))
	}
}
