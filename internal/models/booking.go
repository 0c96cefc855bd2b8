package models

import (
	"errors"
	"time"
)

// BookingStatus represents the status of a test drive booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusNoShow    BookingStatus = "NO_SHOW"
)

// ActiveBookingStatuses are the statuses that occupy a test drive slot
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// IsValid checks if the status is a known booking status
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted,
		BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from this status
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking in this status may move to the
// target status. Lateral moves between non-terminal states are allowed;
// terminal states reject any further mutation.
func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	if !to.IsValid() {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	return true
}

// Booking represents a test drive booking for a car
type Booking struct {
	ID          string        `json:"id" db:"id"`
	CarID       string        `json:"car_id" db:"car_id"`
	UserID      string        `json:"user_id" db:"user_id"`
	BookingDate string        `json:"booking_date" db:"booking_date"`
	StartTime   string        `json:"start_time" db:"start_time"`
	EndTime     string        `json:"end_time" db:"end_time"`
	Status      BookingStatus `json:"status" db:"status"`
	Notes       *string       `json:"notes,omitempty" db:"notes"`
	Car         *Car          `json:"car,omitempty" db:"-"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// CanBeCancelled checks if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status != BookingStatusCancelled
}

// CreateBookingRequest represents the request to book a test drive
type CreateBookingRequest struct {
	CarID       string  `json:"car_id" binding:"required"`
	BookingDate string  `json:"booking_date" binding:"required"`
	StartTime   string  `json:"start_time" binding:"required"`
	EndTime     string  `json:"end_time" binding:"required"`
	Notes       *string `json:"notes,omitempty"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	if _, err := time.Parse("2006-01-02", r.BookingDate); err != nil {
		return errors.New("booking_date must be in YYYY-MM-DD format")
	}

	if _, err := time.Parse("15:04", r.StartTime); err != nil {
		return errors.New("start_time must be in HH:MM format")
	}

	if _, err := time.Parse("15:04", r.EndTime); err != nil {
		return errors.New("end_time must be in HH:MM format")
	}

	if r.EndTime <= r.StartTime {
		return errors.New("end_time must be after start_time")
	}

	return nil
}

// UpdateBookingStatusRequest represents the request to change a booking status
type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BookingListFilter holds the optional filters for admin booking listings
type BookingListFilter struct {
	Status BookingStatus
	Search string
}
