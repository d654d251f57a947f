package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventmate/booking-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
	Reserve(ctx context.Context, res *domain.VenueReservation) (*domain.VenueReservation, error)
	Release(ctx context.Context, reservationID, requesterID int64) (*domain.VenueReservation, error)
	ListReservations(ctx context.Context, venueID int64) ([]domain.VenueReservation, error)
}

type PGVenueRepository struct {
	db *pgxpool.Pool
}

func NewVenueRepository(db *pgxpool.Pool) VenueRepository {
	return &PGVenueRepository{db: db}
}

const venueColumns = `id, name, address, city, capacity, created_by, is_booked, booked_by, booked_for_event_id, booking_starts_at, booking_ends_at`

const reservationColumns = `id, venue_id, event_id, booked_by, starts_at, ends_at, status, created_at`

func (r *PGVenueRepository) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	row := r.db.QueryRow(ctx, `SELECT `+venueColumns+` FROM venues WHERE id=$1`, id)
	var v domain.Venue
	if err := row.Scan(&v.ID, &v.Name, &v.Address, &v.City, &v.Capacity, &v.CreatedBy, &v.IsBooked, &v.BookedBy, &v.BookedForEventID, &v.BookingStartsAt, &v.BookingEndsAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("venue %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return &v, nil
}

// Reserve checks the requested window against every ACTIVE reservation of
// the venue and inserts the new reservation together with the venue's
// cached booking projection in one transaction. The venue row is locked
// with SELECT ... FOR UPDATE so two overlapping requests serialise instead
// of both passing the conflict check. Overlap is half-open: [s1,e1) and
// [s2,e2) conflict iff s1 < e2 AND s2 < e1.
func (r *PGVenueRepository) Reserve(ctx context.Context, res *domain.VenueReservation) (*domain.VenueReservation, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var venueID int64
	err = tx.QueryRow(ctx, `SELECT id FROM venues WHERE id=$1 FOR UPDATE`, res.VenueID).Scan(&venueID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("venue %d: %w", res.VenueID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lock venue row: %w", err)
	}

	var conflicts int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM venue_reservations
		 WHERE venue_id=$1 AND status='ACTIVE' AND starts_at < $3 AND ends_at > $2`,
		res.VenueID, res.StartsAt, res.EndsAt,
	).Scan(&conflicts)
	if err != nil {
		return nil, fmt.Errorf("check conflicting reservations: %w", err)
	}
	if conflicts > 0 {
		return nil, domain.ErrVenueConflict
	}

	res.Status = domain.ReservationStatusActive
	err = tx.QueryRow(ctx,
		`INSERT INTO venue_reservations (venue_id, event_id, booked_by, starts_at, ends_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		res.VenueID, res.EventID, res.BookedBy, res.StartsAt, res.EndsAt, res.Status,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE venues
		 SET is_booked=true, booked_by=$2, booked_for_event_id=$3, booking_starts_at=$4, booking_ends_at=$5
		 WHERE id=$1`,
		res.VenueID, res.BookedBy, res.EventID, res.StartsAt, res.EndsAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update venue projection: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reservation: %w", err)
	}
	return res, nil
}

// Release cancels a reservation and clears the venue's cached projection.
// Only the reserving party may release.
func (r *PGVenueRepository) Release(ctx context.Context, reservationID, requesterID int64) (*domain.VenueReservation, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM venue_reservations WHERE id=$1 FOR UPDATE`,
		reservationID,
	)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("reservation %d: %w", reservationID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lock reservation row: %w", err)
	}
	if res.BookedBy != requesterID {
		return nil, domain.ErrUnauthorized
	}

	_, err = tx.Exec(ctx, `UPDATE venue_reservations SET status='CANCELLED' WHERE id=$1`, reservationID)
	if err != nil {
		return nil, fmt.Errorf("cancel reservation: %w", err)
	}
	res.Status = domain.ReservationStatusCancelled

	_, err = tx.Exec(ctx,
		`UPDATE venues
		 SET is_booked=false, booked_by=NULL, booked_for_event_id=NULL, booking_starts_at=NULL, booking_ends_at=NULL
		 WHERE id=$1`,
		res.VenueID,
	)
	if err != nil {
		return nil, fmt.Errorf("clear venue projection: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit release: %w", err)
	}
	return res, nil
}

func (r *PGVenueRepository) ListReservations(ctx context.Context, venueID int64) ([]domain.VenueReservation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+reservationColumns+` FROM venue_reservations WHERE venue_id=$1 ORDER BY starts_at`,
		venueID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]domain.VenueReservation, 0)
	for rows.Next() {
		var res domain.VenueReservation
		if err := rows.Scan(&res.ID, &res.VenueID, &res.EventID, &res.BookedBy, &res.StartsAt, &res.EndsAt, &res.Status, &res.CreatedAt); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func scanReservation(row pgx.Row) (*domain.VenueReservation, error) {
	var res domain.VenueReservation
	if err := row.Scan(&res.ID, &res.VenueID, &res.EventID, &res.BookedBy, &res.StartsAt, &res.EndsAt, &res.Status, &res.CreatedAt); err != nil {
		return nil, err
	}
	return &res, nil
}

var _ VenueRepository = (*PGVenueRepository)(nil)
