package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/vehiql/dealership-backend/internal/models"
)

// SavedCarRepository handles database operations for the saved_cars table
type SavedCarRepository struct {
	db DB
}

// NewSavedCarRepository creates a new SavedCarRepository
func NewSavedCarRepository(db DB) *SavedCarRepository {
	return &SavedCarRepository{db: db}
}

// Exists reports whether the car is wishlisted by the user
func (r *SavedCarRepository) Exists(userID, carID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM saved_cars WHERE user_id = $1 AND car_id = $2)`

	var exists bool
	if err := r.db.QueryRow(query, userID, carID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check saved car: %w", err)
	}

	return exists, nil
}

// Toggle flips the wishlisted state of a (user, car) pair and returns the
// new state. Deleting first keeps the toggle to one statement per direction;
// a race between two toggles resolves to final-write-wins at the store.
func (r *SavedCarRepository) Toggle(userID, carID string) (bool, error) {
	result, err := r.db.Exec(
		`DELETE FROM saved_cars WHERE user_id = $1 AND car_id = $2`,
		userID, carID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to toggle saved car: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if rows > 0 {
		// Row existed, so the toggle removed it
		return false, nil
	}

	_, err = r.db.Exec(
		`INSERT INTO saved_cars (user_id, car_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, car_id) DO NOTHING`,
		userID, carID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to save car: %w", err)
	}

	return true, nil
}

// SavedIDs returns which of the given car IDs are wishlisted by the user,
// in a single batched query
func (r *SavedCarRepository) SavedIDs(userID string, carIDs []string) (map[string]bool, error) {
	saved := make(map[string]bool)
	if len(carIDs) == 0 {
		return saved, nil
	}

	query := `SELECT car_id FROM saved_cars WHERE user_id = $1 AND car_id = ANY($2)`

	rows, err := r.db.Query(query, userID, pq.Array(carIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch saved cars: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var carID string
		if err := rows.Scan(&carID); err != nil {
			return nil, err
		}
		saved[carID] = true
	}

	return saved, rows.Err()
}

// ListByUser retrieves the user's saved cars, most recently saved first
func (r *SavedCarRepository) ListByUser(userID string) ([]models.Car, error) {
	query := `
		SELECT c.id, c.make, c.model, c.year, c.price, c.mileage, c.color,
			   c.fuel_type, c.transmission, c.body_type, c.seats, c.description,
			   c.status, c.featured, c.images, c.created_at, c.updated_at
		FROM saved_cars s
		JOIN cars c ON c.id = s.car_id
		WHERE s.user_id = $1
		ORDER BY s.saved_at DESC
	`

	cars := []models.Car{}
	if err := r.db.Select(&cars, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return cars, nil
		}
		return nil, fmt.Errorf("failed to fetch saved cars: %w", err)
	}

	return cars, nil
}
