package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vehiql/dealership-backend/internal/models"
	"github.com/vehiql/dealership-backend/internal/services"
)

// AdminHandler handles HTTP requests for the admin dashboard and inventory
// management. All routes require the ADMIN role.
type AdminHandler struct {
	dashboard *services.DashboardService
	inventory *services.InventoryService
	bookings  *services.BookingService
	ai        *services.AIService
	logger    *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	dashboard *services.DashboardService,
	inventory *services.InventoryService,
	bookings *services.BookingService,
	ai *services.AIService,
	logger *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		dashboard: dashboard,
		inventory: inventory,
		bookings:  bookings,
		ai:        ai,
		logger:    logger,
	}
}

// GetDashboard handles GET /api/v1/admin/dashboard
// @Summary Get dashboard aggregates
// @Description Inventory and test drive totals with the conversion rate
// @Tags Admin
// @Produce json
// @Success 200 {object} models.DashboardData
// @Security Bearer
// @Router /api/v1/admin/dashboard [get]
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	data, err := h.dashboard.GetDashboardData()
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// ListBookings handles GET /api/v1/admin/test-drives
// @Summary List all test drive bookings
// @Description All bookings with optional status and car search filters
// @Tags Admin
// @Produce json
// @Param status query string false "Booking status filter"
// @Param search query string false "Car make or model search"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Unknown status"
// @Security Bearer
// @Router /api/v1/admin/test-drives [get]
func (h *AdminHandler) ListBookings(c *gin.Context) {
	filter := models.BookingListFilter{
		Status: models.BookingStatus(c.Query("status")),
		Search: c.Query("search"),
	}

	bookings, err := h.bookings.AdminList(filter)
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

// UpdateBookingStatus handles PATCH /api/v1/admin/test-drives/:id/status
// @Summary Update a booking's status
// @Description Terminal bookings reject any further change
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param status body models.UpdateBookingStatusRequest true "New status"
// @Success 200 {object} models.Booking
// @Failure 400 {object} map[string]interface{} "Unknown status"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Failure 409 {object} map[string]interface{} "Transition rejected"
// @Security Bearer
// @Router /api/v1/admin/test-drives/{id}/status [patch]
func (h *AdminHandler) UpdateBookingStatus(c *gin.Context) {
	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := h.bookings.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CreateCar handles POST /api/v1/admin/cars
// @Summary Add a car to the inventory
// @Tags Admin
// @Accept json
// @Produce json
// @Param car body models.CreateCarRequest true "Car details"
// @Success 201 {object} models.Car
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Security Bearer
// @Router /api/v1/admin/cars [post]
func (h *AdminHandler) CreateCar(c *gin.Context) {
	var req models.CreateCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	car, err := h.inventory.CreateCar(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, car)
}

// UpdateCarStatus handles PATCH /api/v1/admin/cars/:id/status
// @Summary Update a car's status or featured flag
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Car ID"
// @Param update body models.UpdateCarStatusRequest true "Status and/or featured"
// @Success 200 {object} models.Car
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Car not found"
// @Security Bearer
// @Router /api/v1/admin/cars/{id}/status [patch]
func (h *AdminHandler) UpdateCarStatus(c *gin.Context) {
	var req models.UpdateCarStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	car, err := h.inventory.UpdateCarStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, car)
}

// ExtractCarDetails handles POST /api/v1/admin/cars/extract
// @Summary Extract car details from an image
// @Description Runs the AI classifier over a car photo to pre-fill a listing
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Car image"
// @Success 200 {object} models.AIExtractedCarMetadata
// @Failure 400 {object} map[string]interface{} "Invalid upload"
// @Failure 422 {object} map[string]interface{} "Unusable AI response"
// @Security Bearer
// @Router /api/v1/admin/cars/extract [post]
func (h *AdminHandler) ExtractCarDetails(c *gin.Context) {
	imageData, mimeType, ok := readImageUpload(c)
	if !ok {
		return
	}

	metadata, err := h.ai.ProcessCarImage(c.Request.Context(), imageData, mimeType)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, metadata)
}
