package models

import "time"

// SavedCar represents a car saved to a user's wishlist. The (user, car) pair
// is the composite key; existence of the row means the car is wishlisted.
type SavedCar struct {
	UserID  string    `json:"user_id" db:"user_id"`
	CarID   string    `json:"car_id" db:"car_id"`
	SavedAt time.Time `json:"saved_at" db:"saved_at"`
}
