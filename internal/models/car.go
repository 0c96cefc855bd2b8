package models

import (
	"errors"
	"time"
)

// CarStatus represents the inventory status of a car
type CarStatus string

const (
	CarStatusAvailable   CarStatus = "AVAILABLE"
	CarStatusUnavailable CarStatus = "UNAVAILABLE"
	CarStatusSold        CarStatus = "SOLD"
)

// IsValid checks if the status is a known car status
func (s CarStatus) IsValid() bool {
	switch s {
	case CarStatusAvailable, CarStatusUnavailable, CarStatusSold:
		return true
	}
	return false
}

// Car represents a car listing in the dealership inventory
type Car struct {
	ID           string      `json:"id" db:"id"`
	Make         string      `json:"make" db:"make"`
	Model        string      `json:"model" db:"model"`
	Year         int         `json:"year" db:"year"`
	Price        float64     `json:"price" db:"price"`
	Mileage      int         `json:"mileage" db:"mileage"`
	Color        string      `json:"color" db:"color"`
	FuelType     string      `json:"fuel_type" db:"fuel_type"`
	Transmission string      `json:"transmission" db:"transmission"`
	BodyType     string      `json:"body_type" db:"body_type"`
	Seats        *int        `json:"seats,omitempty" db:"seats"`
	Description  string      `json:"description" db:"description"`
	Status       CarStatus   `json:"status" db:"status"`
	Featured     bool        `json:"featured" db:"featured"`
	Images       StringArray `json:"images" db:"images"`
	Wishlisted   bool        `json:"wishlisted" db:"-"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// CreateCarRequest represents the request to add a car to the inventory
type CreateCarRequest struct {
	Make         string   `json:"make" binding:"required"`
	Model        string   `json:"model" binding:"required"`
	Year         int      `json:"year" binding:"required"`
	Price        float64  `json:"price"`
	Mileage      int      `json:"mileage"`
	Color        string   `json:"color" binding:"required"`
	FuelType     string   `json:"fuel_type" binding:"required"`
	Transmission string   `json:"transmission" binding:"required"`
	BodyType     string   `json:"body_type" binding:"required"`
	Seats        *int     `json:"seats,omitempty"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	Featured     bool     `json:"featured"`
	Images       []string `json:"images" binding:"required"`
}

// Validate validates the create car request
func (r *CreateCarRequest) Validate() error {
	if r.Price < 0 {
		return errors.New("price must be non-negative")
	}

	if r.Mileage < 0 {
		return errors.New("mileage must be non-negative")
	}

	if len(r.Images) == 0 {
		return errors.New("at least one image is required")
	}

	if r.Status != "" && !CarStatus(r.Status).IsValid() {
		return errors.New("invalid car status")
	}

	return nil
}

// UpdateCarStatusRequest represents the request to change a car's status or featured flag
type UpdateCarStatusRequest struct {
	Status   *string `json:"status,omitempty"`
	Featured *bool   `json:"featured,omitempty"`
}

// PriceRange holds the price bounds over the available inventory
type PriceRange struct {
	Min float64 `json:"min" db:"min_price"`
	Max float64 `json:"max" db:"max_price"`
}

// CarFilterOptions holds the facet values offered by the search UI
type CarFilterOptions struct {
	Makes         []string   `json:"makes"`
	BodyTypes     []string   `json:"body_types"`
	FuelTypes     []string   `json:"fuel_types"`
	Transmissions []string   `json:"transmissions"`
	PriceRange    PriceRange `json:"price_range"`
}
