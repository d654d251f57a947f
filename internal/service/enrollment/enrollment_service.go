package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/eventmate/booking-service/internal/domain"
	"github.com/eventmate/booking-service/internal/kafka"
	"github.com/eventmate/booking-service/internal/repository"
	"github.com/google/uuid"
)

type EnrollmentUseCase interface {
	Enroll(ctx context.Context, input EnrollInput) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error)
	IsEnrolled(ctx context.Context, eventID, attendeeID int64) (bool, error)
	BookedSeats(ctx context.Context, eventID int64) ([]int, error)
	EventBookings(ctx context.Context, eventID int64) ([]domain.Booking, error)
	AttendeeBookings(ctx context.Context, attendeeID int64) ([]domain.Booking, error)
}

type Cache interface {
	AcquireSeatLock(ctx context.Context, eventID int64, seat int, ttl time.Duration) (bool, error)
	ReleaseSeatLock(ctx context.Context, eventID int64, seat int) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type EnrollInput struct {
	EventID       int64    `json:"event_id"`
	AttendeeID    int64    `json:"attendee_id"`
	SeatNumber    *int     `json:"seat_number,omitempty"`
	GroupCode     string   `json:"group_code,omitempty"`
	Kind          string   `json:"booking_kind"`
	InvitedEmails []string `json:"invited_emails,omitempty"`
}

type EnrollmentService struct {
	bookings           repository.BookingRepository
	events             repository.EventRepository
	users              repository.UserRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	seatLockTTL        time.Duration
}

type EnrollmentServiceOption func(*EnrollmentService)

func WithNotificationsTopic(topic string) EnrollmentServiceOption {
	return func(s *EnrollmentService) {
		s.notificationsTopic = topic
	}
}

func NewEnrollmentService(
	bookings repository.BookingRepository,
	events repository.EventRepository,
	users repository.UserRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	seatLockTTL time.Duration,
	opts ...EnrollmentServiceOption,
) *EnrollmentService {
	service := &EnrollmentService{
		bookings:     bookings,
		events:       events,
		users:        users,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		seatLockTTL:  seatLockTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Enroll admits an attendee into an event. The admission itself (duplicate,
// seat, capacity checks and the insert) happens inside one repository
// transaction under the event row lock; everything after the commit —
// group invite fan-out and notifications — is best effort and never fails
// the booking.
func (s *EnrollmentService) Enroll(ctx context.Context, input EnrollInput) (*domain.Booking, error) {
	if input.EventID <= 0 {
		return nil, errors.New("event id is required")
	}
	if input.AttendeeID <= 0 {
		return nil, errors.New("attendee id is required")
	}

	kind := domain.BookingKindSolo
	if strings.EqualFold(input.Kind, string(domain.BookingKindGroup)) {
		kind = domain.BookingKindGroup
	}
	groupCode := resolveGroupCode(input.GroupCode, kind)
	ticketCode := newTicketCode(input.EventID)

	locked := false
	if s.cache != nil && input.SeatNumber != nil {
		ok, err := s.cache.AcquireSeatLock(ctx, input.EventID, *input.SeatNumber, s.seatLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrSeatTaken
		}
		locked = true
	}

	booking, err := s.bookings.Enroll(ctx, repository.EnrollParams{
		EventID:    input.EventID,
		AttendeeID: input.AttendeeID,
		SeatNumber: input.SeatNumber,
		Kind:       kind,
		GroupCode:  groupCode,
		TicketCode: ticketCode,
	})
	if locked {
		// The committed booking row (or the failure) supersedes the
		// advisory lock either way.
		_ = s.cache.ReleaseSeatLock(ctx, input.EventID, *input.SeatNumber)
	}
	if err != nil {
		return nil, err
	}

	event, eventErr := s.events.GetByID(ctx, booking.EventID)
	if eventErr != nil {
		log.Printf("load event %d for notifications: %v", booking.EventID, eventErr)
	}

	if booking.Kind == domain.BookingKindGroup && len(input.InvitedEmails) > 0 {
		s.fanOutInvites(ctx, booking, event, input.InvitedEmails)
	}

	s.notifyTicketIssued(ctx, booking, event)
	return booking, nil
}

// fanOutInvites creates secondary bookings for invited users under the
// primary booking's group code. Invitees that are unknown or already
// enrolled are skipped; individual failures are logged, never propagated.
func (s *EnrollmentService) fanOutInvites(ctx context.Context, primary *domain.Booking, event *domain.Event, emails []string) {
	for _, invitedEmail := range emails {
		user, err := s.users.GetByEmail(ctx, invitedEmail)
		if err != nil {
			log.Printf("lookup invited user %s: %v", invitedEmail, err)
			continue
		}
		if user == nil {
			log.Printf("invited user %s not found, skipping", invitedEmail)
			continue
		}

		member, err := s.bookings.CreateGroupMember(ctx, repository.GroupMemberParams{
			EventID:    primary.EventID,
			AttendeeID: user.ID,
			GroupCode:  primary.GroupCode,
			TicketCode: newTicketCode(primary.EventID),
		})
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyEnrolled) {
				log.Printf("invited user %s is already enrolled in event %d", invitedEmail, primary.EventID)
			} else {
				log.Printf("create group booking for %s: %v", invitedEmail, err)
			}
			continue
		}

		s.publish(ctx, kafka.TicketEvent{
			Type:       kafka.EventTypeGroupInvite,
			TicketCode: member.TicketCode,
			EventID:    member.EventID,
			EventTitle: eventTitle(event),
			EventStart: eventStart(event),
			AttendeeID: member.AttendeeID,
			Email:      user.Email,
			GroupCode:  member.GroupCode,
			Status:     string(member.Status),
		})
	}
}

func (s *EnrollmentService) Cancel(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error) {
	booking, err := s.bookings.Cancel(ctx, bookingID, requesterID)
	if err != nil {
		return nil, err
	}
	log.Printf("booking %d cancelled by user %d", bookingID, requesterID)

	if s.cache != nil && booking.SeatNumber != nil {
		_ = s.cache.ReleaseSeatLock(ctx, booking.EventID, *booking.SeatNumber)
	}

	if s.producer == nil || s.bookingTopic == "" {
		return booking, nil
	}
	event, eventErr := s.events.GetByID(ctx, booking.EventID)
	if eventErr != nil {
		log.Printf("load event %d for notifications: %v", booking.EventID, eventErr)
	}
	s.publish(ctx, kafka.TicketEvent{
		Type:       kafka.EventTypeBookingCancelled,
		TicketCode: booking.TicketCode,
		EventID:    booking.EventID,
		EventTitle: eventTitle(event),
		EventStart: eventStart(event),
		AttendeeID: booking.AttendeeID,
		Email:      s.attendeeEmail(ctx, booking.AttendeeID),
		SeatNumber: booking.SeatNumber,
		Status:     string(booking.Status),
	})
	return booking, nil
}

func (s *EnrollmentService) IsEnrolled(ctx context.Context, eventID, attendeeID int64) (bool, error) {
	return s.bookings.IsEnrolled(ctx, eventID, attendeeID)
}

func (s *EnrollmentService) BookedSeats(ctx context.Context, eventID int64) ([]int, error) {
	return s.bookings.BookedSeats(ctx, eventID)
}

func (s *EnrollmentService) EventBookings(ctx context.Context, eventID int64) ([]domain.Booking, error) {
	return s.bookings.ListByEvent(ctx, eventID)
}

func (s *EnrollmentService) AttendeeBookings(ctx context.Context, attendeeID int64) ([]domain.Booking, error) {
	return s.bookings.ListByAttendee(ctx, attendeeID)
}

func (s *EnrollmentService) notifyTicketIssued(ctx context.Context, booking *domain.Booking, event *domain.Event) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	s.publish(ctx, kafka.TicketEvent{
		Type:       kafka.EventTypeTicketIssued,
		TicketCode: booking.TicketCode,
		EventID:    booking.EventID,
		EventTitle: eventTitle(event),
		EventStart: eventStart(event),
		Venue:      eventVenue(event),
		AttendeeID: booking.AttendeeID,
		Email:      s.attendeeEmail(ctx, booking.AttendeeID),
		SeatNumber: booking.SeatNumber,
		GroupCode:  booking.GroupCode,
		Status:     string(booking.Status),
	})
}

func (s *EnrollmentService) publish(ctx context.Context, event kafka.TicketEvent) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, event.TicketCode, event); err != nil {
		log.Printf("publish %s event for ticket %s: %v", event.Type, event.TicketCode, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.TicketCode, event); err != nil {
			log.Printf("publish %s notification for ticket %s: %v", event.Type, event.TicketCode, err)
		}
	}
}

func (s *EnrollmentService) attendeeEmail(ctx context.Context, attendeeID int64) string {
	if s.users == nil {
		return ""
	}
	user, err := s.users.GetByID(ctx, attendeeID)
	if err != nil || user == nil {
		return ""
	}
	return user.Email
}

// resolveGroupCode mints a fresh group code for group bookings without
// one. A supplied code means the attendee is joining an existing group and
// is linked as-is.
func resolveGroupCode(requested string, kind domain.BookingKind) string {
	if requested != "" {
		return requested
	}
	if kind != domain.BookingKindGroup {
		return ""
	}
	return "GRP-" + strings.ToUpper(uuid.NewString()[:8])
}

func newTicketCode(eventID int64) string {
	return fmt.Sprintf("EVT-%d-%s", eventID, strings.ToUpper(uuid.NewString()[:6]))
}

func eventTitle(event *domain.Event) string {
	if event == nil {
		return ""
	}
	return event.Title
}

func eventStart(event *domain.Event) time.Time {
	if event == nil {
		return time.Time{}
	}
	return event.StartsAt
}

func eventVenue(event *domain.Event) string {
	if event == nil {
		return ""
	}
	if event.Format == domain.EventFormatRemote {
		return "Online"
	}
	if event.VenueID != nil {
		return fmt.Sprintf("Venue #%d", *event.VenueID)
	}
	return "Venue TBD"
}

var _ EnrollmentUseCase = (*EnrollmentService)(nil)
