package venue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/eventmate/booking-service/internal/domain"
	"github.com/eventmate/booking-service/internal/repository"
)

type VenueUseCase interface {
	Reserve(ctx context.Context, input ReserveInput) (*domain.VenueReservation, error)
	Release(ctx context.Context, reservationID, requesterID int64) error
	GetVenue(ctx context.Context, venueID int64) (*domain.Venue, error)
	History(ctx context.Context, venueID int64) ([]domain.VenueReservation, error)
}

type ReserveInput struct {
	VenueID     int64     `json:"venue_id"`
	EventID     int64     `json:"event_id"`
	RequesterID int64     `json:"-"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

type VenueService struct {
	venues repository.VenueRepository
	now    func() time.Time
}

func NewVenueService(venues repository.VenueRepository) *VenueService {
	return &VenueService{venues: venues, now: time.Now}
}

// Reserve books the venue for [StartsAt, EndsAt). The conflict check and
// the insert run atomically in the repository under the venue row lock, so
// two overlapping reservations cannot both pass.
func (s *VenueService) Reserve(ctx context.Context, input ReserveInput) (*domain.VenueReservation, error) {
	if err := s.validateWindow(input.StartsAt, input.EndsAt); err != nil {
		return nil, err
	}

	reservation, err := s.venues.Reserve(ctx, &domain.VenueReservation{
		VenueID:  input.VenueID,
		EventID:  input.EventID,
		BookedBy: input.RequesterID,
		StartsAt: input.StartsAt,
		EndsAt:   input.EndsAt,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("venue %d reserved by user %d for event %d", reservation.VenueID, reservation.BookedBy, reservation.EventID)
	return reservation, nil
}

func (s *VenueService) Release(ctx context.Context, reservationID, requesterID int64) error {
	reservation, err := s.venues.Release(ctx, reservationID, requesterID)
	if err != nil {
		return err
	}
	log.Printf("venue reservation %d released by user %d", reservation.ID, requesterID)
	return nil
}

func (s *VenueService) GetVenue(ctx context.Context, venueID int64) (*domain.Venue, error) {
	return s.venues.GetByID(ctx, venueID)
}

func (s *VenueService) History(ctx context.Context, venueID int64) ([]domain.VenueReservation, error) {
	return s.venues.ListReservations(ctx, venueID)
}

func (s *VenueService) validateWindow(start, end time.Time) error {
	now := s.now()
	if !start.After(now) {
		return fmt.Errorf("%w: start must be in the future", domain.ErrInvalidWindow)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end must be after start", domain.ErrInvalidWindow)
	}
	return nil
}

var _ VenueUseCase = (*VenueService)(nil)
