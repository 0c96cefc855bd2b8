package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vehiql/dealership-backend/internal/middleware"
	"github.com/vehiql/dealership-backend/internal/services"
)

// SavedCarHandler handles HTTP requests for the user's wishlist
type SavedCarHandler struct {
	catalog *services.CatalogService
	logger  *logrus.Logger
}

// NewSavedCarHandler creates a new saved car handler
func NewSavedCarHandler(catalog *services.CatalogService, logger *logrus.Logger) *SavedCarHandler {
	return &SavedCarHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ToggleSavedCar handles POST /api/v1/cars/:id/save
// @Summary Toggle a car on the wishlist
// @Description Saves the car if not saved, removes it otherwise
// @Tags SavedCars
// @Produce json
// @Param id path string true "Car ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Failure 404 {object} map[string]interface{} "Car not found"
// @Security Bearer
// @Router /api/v1/cars/{id}/save [post]
func (h *SavedCarHandler) ToggleSavedCar(c *gin.Context) {
	uc, ok := middleware.GetUserContext(c)
	if !ok {
		respondServiceError(c, h.logger, services.ErrUnauthenticated)
		return
	}

	carID := c.Param("id")

	saved, err := h.catalog.ToggleSavedCar(c.Request.Context(), uc.UserID.String(), carID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	message := "Car removed from favorites"
	if saved {
		message = "Car added to favorites"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": message,
		"saved":   saved,
	})
}

// GetSavedCars handles GET /api/v1/saved-cars
// @Summary List the user's saved cars
// @Tags SavedCars
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Security Bearer
// @Router /api/v1/saved-cars [get]
func (h *SavedCarHandler) GetSavedCars(c *gin.Context) {
	uc, ok := middleware.GetUserContext(c)
	if !ok {
		respondServiceError(c, h.logger, services.ErrUnauthenticated)
		return
	}

	cars, err := h.catalog.SavedCars(uc.UserID.String())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"cars":   cars,
		"count":  len(cars),
	})
}
