package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vehiql/dealership-backend/internal/cache"
	"github.com/vehiql/dealership-backend/internal/database"
	"github.com/vehiql/dealership-backend/internal/models"
)

// BookingService manages the test drive booking lifecycle: creation with
// slot conflict checking, status transitions and cancellation.
type BookingService struct {
	bookingRepo     *database.BookingRepository
	carRepo         *database.CarRepository
	conflictChecker *SlotConflictChecker
	invalidator     cache.Invalidator
	logger          *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *database.BookingRepository,
	carRepo *database.CarRepository,
	conflictChecker *SlotConflictChecker,
	invalidator cache.Invalidator,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:     bookingRepo,
		carRepo:         carRepo,
		conflictChecker: conflictChecker,
		invalidator:     invalidator,
		logger:          logger,
	}
}

// Create books a test drive slot. The car must be AVAILABLE and the slot
// free of PENDING/CONFIRMED bookings. The conflict check is a fast path;
// the store's unique constraint decides under concurrent creates, and its
// violation is reported as the same conflict.
func (s *BookingService) Create(ctx context.Context, userID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	car, err := s.carRepo.GetByID(req.CarID)
	if err != nil {
		return nil, collaboratorErr(err)
	}
	if car == nil || car.Status != models.CarStatusAvailable {
		return nil, fmt.Errorf("%w: car not found or not available for test drive", ErrNotFound)
	}

	conflict, err := s.conflictChecker.HasConflict(req.CarID, req.BookingDate, req.StartTime)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, fmt.Errorf("%w: test drive slot is already booked", ErrBookingConflict)
	}

	booking := &models.Booking{
		CarID:       req.CarID,
		UserID:      userID,
		BookingDate: req.BookingDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      models.BookingStatusPending,
		Notes:       req.Notes,
	}

	if err := s.bookingRepo.Create(booking); err != nil {
		if database.IsUniqueViolation(err) {
			// Lost the race to a concurrent create for the same slot
			return nil, fmt.Errorf("%w: test drive slot is already booked", ErrBookingConflict)
		}
		return nil, collaboratorErr(err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":   booking.ID,
		"car_id":       booking.CarID,
		"booking_date": booking.BookingDate,
		"start_time":   booking.StartTime,
	}).Info("Test drive booked")

	s.invalidator.Invalidate(ctx,
		cache.ViewCar(booking.CarID),
		cache.ViewUserBookings(userID),
		cache.ViewDashboard,
	)

	return booking, nil
}

// SetStatus moves a booking to a new status. Lateral moves between
// non-terminal states are allowed; terminal states reject any further
// mutation.
func (s *BookingService) SetStatus(ctx context.Context, bookingID string, newStatus string) (*models.Booking, error) {
	status := models.BookingStatus(newStatus)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, newStatus)
	}

	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, collaboratorErr(err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	if !booking.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: booking is %s and cannot change status", ErrBookingConflict, booking.Status)
	}

	if err := s.bookingRepo.UpdateStatus(bookingID, status); err != nil {
		return nil, collaboratorErr(err)
	}

	booking.Status = status

	s.invalidator.Invalidate(ctx,
		cache.ViewCar(booking.CarID),
		cache.ViewUserBookings(booking.UserID),
		cache.ViewDashboard,
	)

	return booking, nil
}

// Cancel transitions a booking to CANCELLED. Only the booking's owner or an
// admin may cancel, and an already-cancelled booking rejects the request
// without mutating the record.
func (s *BookingService) Cancel(ctx context.Context, bookingID, requesterID string, isAdmin bool) error {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return collaboratorErr(err)
	}
	if booking == nil {
		return fmt.Errorf("%w: booking %s", ErrNotFound, bookingID)
	}

	if booking.UserID != requesterID && !isAdmin {
		return fmt.Errorf("%w: only the booking owner or an admin can cancel", ErrUnauthorized)
	}

	if !booking.CanBeCancelled() {
		return fmt.Errorf("%w: test drive has already been cancelled", ErrBookingConflict)
	}

	cancelled, err := s.bookingRepo.CancelIfActive(bookingID)
	if err != nil {
		return collaboratorErr(err)
	}
	if !cancelled {
		// Another request cancelled it between the read and the update
		return fmt.Errorf("%w: test drive has already been cancelled", ErrBookingConflict)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"user_id":    booking.UserID,
	}).Info("Test drive cancelled")

	s.invalidator.Invalidate(ctx,
		cache.ViewCar(booking.CarID),
		cache.ViewUserBookings(booking.UserID),
		cache.ViewDashboard,
	)

	return nil
}

// UserBookings retrieves a user's bookings with car details attached in a
// single batched lookup
func (s *BookingService) UserBookings(userID string) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.GetByUserID(userID)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	return s.attachCars(bookings)
}

// AdminList retrieves bookings for the admin dashboard with optional filters
func (s *BookingService) AdminList(filter models.BookingListFilter) ([]models.Booking, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown booking status %q", ErrInvalidInput, filter.Status)
	}

	bookings, err := s.bookingRepo.ListAdmin(filter)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	return s.attachCars(bookings)
}

func (s *BookingService) attachCars(bookings []models.Booking) ([]models.Booking, error) {
	if len(bookings) == 0 {
		return bookings, nil
	}

	seen := make(map[string]bool)
	carIDs := make([]string, 0, len(bookings))
	for i := range bookings {
		if !seen[bookings[i].CarID] {
			seen[bookings[i].CarID] = true
			carIDs = append(carIDs, bookings[i].CarID)
		}
	}

	cars, err := s.carRepo.GetByIDs(carIDs)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	byID := make(map[string]*models.Car, len(cars))
	for i := range cars {
		byID[cars[i].ID] = &cars[i]
	}

	for i := range bookings {
		bookings[i].Car = byID[bookings[i].CarID]
	}

	return bookings, nil
}
