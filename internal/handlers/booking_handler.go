package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vehiql/dealership-backend/internal/middleware"
	"github.com/vehiql/dealership-backend/internal/models"
	"github.com/vehiql/dealership-backend/internal/services"
)

// BookingHandler handles HTTP requests for test drive bookings
type BookingHandler struct {
	bookings *services.BookingService
	logger   *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings *services.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		logger:   logger,
	}
}

// CreateBooking handles POST /api/v1/test-drives
// @Summary Book a test drive
// @Description Books a test drive slot for an available car
// @Tags TestDrives
// @Accept json
// @Produce json
// @Param booking body models.CreateBookingRequest true "Booking details"
// @Success 201 {object} models.Booking
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Failure 404 {object} map[string]interface{} "Car not found or not available"
// @Failure 409 {object} map[string]interface{} "Slot already booked"
// @Security Bearer
// @Router /api/v1/test-drives [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	uc, ok := middleware.GetUserContext(c)
	if !ok {
		respondServiceError(c, h.logger, services.ErrUnauthenticated)
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), uc.UserID.String(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GetMyBookings handles GET /api/v1/test-drives
// @Summary List the user's test drive bookings
// @Tags TestDrives
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Security Bearer
// @Router /api/v1/test-drives [get]
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	uc, ok := middleware.GetUserContext(c)
	if !ok {
		respondServiceError(c, h.logger, services.ErrUnauthenticated)
		return
	}

	bookings, err := h.bookings.UserBookings(uc.UserID.String())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// CancelBooking handles POST /api/v1/test-drives/:id/cancel
// @Summary Cancel a test drive booking
// @Description Only the booking owner or an admin can cancel
// @Tags TestDrives
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Failure 403 {object} map[string]interface{} "Not the owner"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 409 {object} map[string]interface{} "Already cancelled"
// @Security Bearer
// @Router /api/v1/test-drives/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	uc, ok := middleware.GetUserContext(c)
	if !ok {
		respondServiceError(c, h.logger, services.ErrUnauthenticated)
		return
	}

	bookingID := c.Param("id")

	if err := h.bookings.Cancel(c.Request.Context(), bookingID, uc.UserID.String(), uc.IsAdmin()); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Test drive cancelled successfully",
	})
}
