package services

import (
	"github.com/vehiql/dealership-backend/internal/database"
)

// SlotConflictChecker decides whether an active booking already occupies a
// test drive slot. A slot is the (car, date, start-time) tuple; only the
// start time is compared, not interval overlap against the end time.
type SlotConflictChecker struct {
	bookingRepo *database.BookingRepository
}

// NewSlotConflictChecker creates a new SlotConflictChecker
func NewSlotConflictChecker(bookingRepo *database.BookingRepository) *SlotConflictChecker {
	return &SlotConflictChecker{bookingRepo: bookingRepo}
}

// HasConflict reports whether a PENDING or CONFIRMED booking already holds
// the slot. This is a fast-path check; the store's unique constraint is the
// authority under concurrent writers.
func (c *SlotConflictChecker) HasConflict(carID, bookingDate, startTime string) (bool, error) {
	existing, err := c.bookingRepo.FindActiveBySlot(carID, bookingDate, startTime)
	if err != nil {
		return false, collaboratorErr(err)
	}

	return existing != nil, nil
}
