package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rmendiola/belleza/internal/database"
	"github.com/rmendiola/belleza/internal/models"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, user_id, service_id, professional_id, starts_at, status, notes, created_at, updated_at`

func scanBookingRow(scanner rowScanner) (*models.Booking, error) {
	var b models.Booking
	err := scanner.Scan(
		&b.ID, &b.UserID, &b.ServiceID, &b.ProfessionalID,
		&b.StartsAt, &b.Status, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &b, nil
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	booking.ID = uuid.New().String()

	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if booking.Status == "" {
		booking.Status = models.BookingPending
	}

	query := `
		INSERT INTO bookings (id, user_id, service_id, professional_id, starts_at, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + bookingColumns

	return scanBookingRow(r.db.Pool.QueryRow(ctx, query,
		booking.ID, booking.UserID, booking.ServiceID, booking.ProfessionalID,
		booking.StartsAt, booking.Status, booking.Notes, booking.CreatedAt, booking.UpdatedAt,
	))
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBookingRow(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY starts_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking rows: %w", err)
	}

	return bookings, nil
}

// ListByProfessional returns a professional's upcoming and past bookings.
func (r *BookingRepository) ListByProfessional(ctx context.Context, professionalID string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE professional_id = $1 ORDER BY starts_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, professionalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*models.Booking, 0)
	for rows.Next() {
		b, err := scanBookingRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booking rows: %w", err)
	}

	return bookings, nil
}

// Cancel marks a booking cancelled; only the owner may cancel, and only
// before it is completed.
func (r *BookingRepository) Cancel(ctx context.Context, id, userID string) error {
	result, err := r.db.Pool.Exec(ctx, `
		UPDATE bookings SET status = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND status IN ($4, $5)`,
		models.BookingCancelled, id, userID, models.BookingPending, models.BookingConfirmed)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
