package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vehiql/dealership-backend/internal/models"
)

// bookingColumns is the column list shared by all booking SELECT queries.
// booking_date is rendered as text so the calendar date survives the round
// trip without timezone drift.
const bookingColumns = `id, car_id, user_id,
	   to_char(booking_date, 'YYYY-MM-DD') AS booking_date,
	   start_time, end_time, status, notes, created_at, updated_at`

// BookingRepository handles database operations for the test_drive_bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// IsUniqueViolation reports whether the error is a Postgres unique
// constraint violation
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// sqlx wraps driver errors with fmt.Errorf in places
	return err != nil && strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

// Create inserts a new booking. The partial unique index over
// (car_id, booking_date, start_time) restricted to PENDING/CONFIRMED rows is
// the authoritative slot guard; callers map unique violations to a conflict.
func (r *BookingRepository) Create(booking *models.Booking) error {
	query := `
		INSERT INTO test_drive_bookings (
			id, car_id, user_id, booking_date, start_time, end_time, status, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		RETURNING created_at, updated_at
	`

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		booking.ID, booking.CarID, booking.UserID, booking.BookingDate,
		booking.StartTime, booking.EndTime, booking.Status, booking.Notes,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	return err
}

// GetByID retrieves a booking by ID
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM test_drive_bookings WHERE id = $1", bookingColumns)

	booking := &models.Booking{}
	err := r.db.Get(booking, query, bookingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	return booking, nil
}

// FindActiveBySlot retrieves the booking occupying the (car, date, start-time)
// slot with a PENDING or CONFIRMED status, or nil if the slot is free.
// Only the start time is compared; interval overlap against end_time is
// intentionally not checked.
func (r *BookingRepository) FindActiveBySlot(carID, bookingDate, startTime string) (*models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM test_drive_bookings
		WHERE car_id = $1
		  AND booking_date = $2
		  AND start_time = $3
		  AND status IN ('PENDING', 'CONFIRMED')
		LIMIT 1
	`, bookingColumns)

	booking := &models.Booking{}
	err := r.db.Get(booking, query, carID, bookingDate, startTime)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check slot: %w", err)
	}

	return booking, nil
}

// GetByUserID retrieves all bookings for a user, most recent date first
func (r *BookingRepository) GetByUserID(userID string) ([]models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM test_drive_bookings
		WHERE user_id = $1
		ORDER BY booking_date DESC, start_time DESC
	`, bookingColumns)

	bookings := []models.Booking{}
	if err := r.db.Select(&bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}

	return bookings, nil
}

// FindLatestActiveForUserAndCar retrieves the user's most recent booking for
// a car with a PENDING, CONFIRMED or COMPLETED status, or nil if none exists
func (r *BookingRepository) FindLatestActiveForUserAndCar(userID, carID string) (*models.Booking, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM test_drive_bookings
		WHERE user_id = $1
		  AND car_id = $2
		  AND status IN ('PENDING', 'CONFIRMED', 'COMPLETED')
		ORDER BY created_at DESC
		LIMIT 1
	`, bookingColumns)

	booking := &models.Booking{}
	err := r.db.Get(booking, query, userID, carID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	return booking, nil
}

// ListAdmin retrieves bookings for the admin dashboard with optional status
// and free-text filters over the booked car's make and model
func (r *BookingRepository) ListAdmin(filter models.BookingListFilter) ([]models.Booking, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(c.make ILIKE $%d OR c.model ILIKE $%d)", n, n))
	}

	query := fmt.Sprintf(`
		SELECT b.id, b.car_id, b.user_id,
			   to_char(b.booking_date, 'YYYY-MM-DD') AS booking_date,
			   b.start_time, b.end_time, b.status, b.notes,
			   b.created_at, b.updated_at
		FROM test_drive_bookings b
		JOIN cars c ON c.id = b.car_id
		WHERE %s
		ORDER BY b.booking_date DESC, b.start_time DESC
	`, strings.Join(conditions, " AND "))

	bookings := []models.Booking{}
	if err := r.db.Select(&bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}

// UpdateStatus updates the booking status
func (r *BookingRepository) UpdateStatus(bookingID string, status models.BookingStatus) error {
	query := `
		UPDATE test_drive_bookings
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, bookingID, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// CancelIfActive transitions a booking to CANCELLED unless it is already
// cancelled. Returns false without touching updated_at when the booking was
// already cancelled.
func (r *BookingRepository) CancelIfActive(bookingID string) (bool, error) {
	query := `
		UPDATE test_drive_bookings
		SET status = 'CANCELLED', updated_at = NOW()
		WHERE id = $1
		  AND status != 'CANCELLED'
	`

	result, err := r.db.Exec(query, bookingID)
	if err != nil {
		return false, fmt.Errorf("failed to cancel booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// CountsByStatus returns booking totals broken down by status
func (r *BookingRepository) CountsByStatus() (*models.TestDriveCounts, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'PENDING') AS pending,
			COUNT(*) FILTER (WHERE status = 'CONFIRMED') AS confirmed,
			COUNT(*) FILTER (WHERE status = 'COMPLETED') AS completed,
			COUNT(*) FILTER (WHERE status = 'CANCELLED') AS cancelled,
			COUNT(*) FILTER (WHERE status = 'NO_SHOW') AS no_show
		FROM test_drive_bookings
	`

	counts := &models.TestDriveCounts{}
	err := r.db.QueryRow(query).Scan(
		&counts.Total, &counts.Pending, &counts.Confirmed,
		&counts.Completed, &counts.Cancelled, &counts.NoShow,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	return counts, nil
}

// CountSoldAfterCompletedTestDrive returns the number of sold cars that had
// a completed test drive, used for the conversion rate
func (r *BookingRepository) CountSoldAfterCompletedTestDrive() (int, error) {
	query := `
		SELECT COUNT(DISTINCT c.id)
		FROM cars c
		JOIN test_drive_bookings b ON b.car_id = c.id AND b.status = 'COMPLETED'
		WHERE c.status = 'SOLD'
	`

	var count int
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count conversions: %w", err)
	}

	return count, nil
}
