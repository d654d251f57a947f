package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventmate/booking-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EnrollParams struct {
	EventID    int64
	AttendeeID int64
	SeatNumber *int
	Kind       domain.BookingKind
	GroupCode  string
	TicketCode string
}

type GroupMemberParams struct {
	EventID    int64
	AttendeeID int64
	GroupCode  string
	TicketCode string
}

type BookingRepository interface {
	Enroll(ctx context.Context, p EnrollParams) (*domain.Booking, error)
	CreateGroupMember(ctx context.Context, p GroupMemberParams) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	IsEnrolled(ctx context.Context, eventID, attendeeID int64) (bool, error)
	CountConfirmed(ctx context.Context, eventID int64) (int, error)
	BookedSeats(ctx context.Context, eventID int64) ([]int, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Booking, error)
	ListByAttendee(ctx context.Context, attendeeID int64) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, event_id, attendee_id, seat_number, status, kind, group_code, ticket_code, created_at, updated_at`

// Enroll runs the whole admission as one transaction. The event row is
// locked with SELECT ... FOR UPDATE so that concurrent admissions for the
// same event serialise on the capacity and seat reads; read-committed
// isolation alone would let two transactions both observe the last free
// slot.
func (r *PGBookingRepository) Enroll(ctx context.Context, p EnrollParams) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var capacity int
	var format domain.EventFormat
	var status domain.EventStatus
	err = tx.QueryRow(ctx,
		`SELECT total_capacity, format, status FROM events WHERE id=$1 FOR UPDATE`,
		p.EventID,
	).Scan(&capacity, &format, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("event %d: %w", p.EventID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}
	if status == domain.EventStatusCancelled || status == domain.EventStatusCompleted {
		return nil, fmt.Errorf("event %d is closed: %w", p.EventID, domain.ErrNotFound)
	}

	enrolled, err := isEnrolledTx(ctx, tx, p.EventID, p.AttendeeID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, domain.ErrAlreadyEnrolled
	}

	seat := p.SeatNumber
	if format == domain.EventFormatOnsite {
		taken, err := bookedSeatsTx(ctx, tx, p.EventID)
		if err != nil {
			return nil, err
		}
		if err := domain.ValidateSeat(format, seat, capacity, taken); err != nil {
			return nil, err
		}
	} else {
		seat = nil
	}

	var confirmed int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE event_id=$1 AND status <> 'CANCELLED'`,
		p.EventID,
	).Scan(&confirmed)
	if err != nil {
		return nil, fmt.Errorf("count confirmed bookings: %w", err)
	}
	if confirmed >= capacity {
		return nil, domain.ErrEventFull
	}

	booking := &domain.Booking{
		EventID:    p.EventID,
		AttendeeID: p.AttendeeID,
		SeatNumber: seat,
		Status:     domain.BookingStatusConfirmed,
		Kind:       p.Kind,
		GroupCode:  p.GroupCode,
		TicketCode: p.TicketCode,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO bookings (event_id, attendee_id, seat_number, status, kind, group_code, ticket_code)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		booking.EventID, booking.AttendeeID, booking.SeatNumber, booking.Status, booking.Kind, booking.GroupCode, booking.TicketCode,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit enrollment: %w", err)
	}
	return booking, nil
}

// CreateGroupMember inserts a secondary booking under an existing group
// code. Only the duplicate-enrollment guard applies; invited members do
// not pass capacity or seat checks.
func (r *PGBookingRepository) CreateGroupMember(ctx context.Context, p GroupMemberParams) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	enrolled, err := isEnrolledTx(ctx, tx, p.EventID, p.AttendeeID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, domain.ErrAlreadyEnrolled
	}

	booking := &domain.Booking{
		EventID:    p.EventID,
		AttendeeID: p.AttendeeID,
		Status:     domain.BookingStatusConfirmed,
		Kind:       domain.BookingKindGroup,
		GroupCode:  p.GroupCode,
		TicketCode: p.TicketCode,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO bookings (event_id, attendee_id, status, kind, group_code, ticket_code)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		booking.EventID, booking.AttendeeID, booking.Status, booking.Kind, booking.GroupCode, booking.TicketCode,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert group member booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit group member: %w", err)
	}
	return booking, nil
}

// Cancel flips the booking to CANCELLED. The requester must be the
// attendee or the organizer of the event. The seat and the capacity slot
// free themselves: every ledger query excludes CANCELLED rows.
func (r *PGBookingRepository) Cancel(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var attendeeID, organizerID int64
	err = tx.QueryRow(ctx,
		`SELECT b.attendee_id, e.organizer_id
		 FROM bookings b JOIN events e ON e.id = b.event_id
		 WHERE b.id=$1
		 FOR UPDATE OF b`,
		bookingID,
	).Scan(&attendeeID, &organizerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking %d: %w", bookingID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lock booking row: %w", err)
	}
	if requesterID != attendeeID && requesterID != organizerID {
		return nil, domain.ErrUnauthorized
	}

	row := tx.QueryRow(ctx,
		`UPDATE bookings SET status='CANCELLED', updated_at=now() WHERE id=$1 RETURNING `+bookingColumns,
		bookingID,
	)
	booking, err := scanBooking(row)
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cancellation: %w", err)
	}
	return booking, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return booking, nil
}

func (r *PGBookingRepository) IsEnrolled(ctx context.Context, eventID, attendeeID int64) (bool, error) {
	return isEnrolledTx(ctx, r.db, eventID, attendeeID)
}

func (r *PGBookingRepository) CountConfirmed(ctx context.Context, eventID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE event_id=$1 AND status <> 'CANCELLED'`,
		eventID,
	).Scan(&n)
	return n, err
}

func (r *PGBookingRepository) BookedSeats(ctx context.Context, eventID int64) ([]int, error) {
	return bookedSeatsTx(ctx, r.db, eventID)
}

func (r *PGBookingRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE event_id=$1 ORDER BY created_at`, eventID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

func (r *PGBookingRepository) ListByAttendee(ctx context.Context, attendeeID int64) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE attendee_id=$1 ORDER BY created_at DESC`, attendeeID)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func isEnrolledTx(ctx context.Context, q querier, eventID, attendeeID int64) (bool, error) {
	var n int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookings WHERE event_id=$1 AND attendee_id=$2 AND status <> 'CANCELLED'`,
		eventID, attendeeID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return n > 0, nil
}

func bookedSeatsTx(ctx context.Context, q querier, eventID int64) ([]int, error) {
	rows, err := q.Query(ctx,
		`SELECT seat_number FROM bookings WHERE event_id=$1 AND status <> 'CANCELLED' AND seat_number IS NOT NULL ORDER BY seat_number`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list booked seats: %w", err)
	}
	defer rows.Close()

	seats := make([]int, 0)
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.EventID, &b.AttendeeID, &b.SeatNumber, &b.Status, &b.Kind, &b.GroupCode, &b.TicketCode, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	defer rows.Close()
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.EventID, &b.AttendeeID, &b.SeatNumber, &b.Status, &b.Kind, &b.GroupCode, &b.TicketCode, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
