package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vehiql/dealership-backend/internal/middleware"
	"github.com/vehiql/dealership-backend/internal/models"
	"github.com/vehiql/dealership-backend/internal/services"
	"github.com/vehiql/dealership-backend/internal/utils"
)

// maxImageUploadBytes caps image uploads for the AI flows
const maxImageUploadBytes = 5 << 20

// CarHandler handles HTTP requests for the public car catalog
type CarHandler struct {
	catalog *services.CatalogService
	ai      *services.AIService
	logger  *logrus.Logger
}

// NewCarHandler creates a new car handler
func NewCarHandler(catalog *services.CatalogService, ai *services.AIService, logger *logrus.Logger) *CarHandler {
	return &CarHandler{
		catalog: catalog,
		ai:      ai,
		logger:  logger,
	}
}

// SearchCars handles GET /api/v1/cars
// @Summary Search the car catalog
// @Description Faceted search over available cars with pagination
// @Tags Cars
// @Produce json
// @Param search query string false "Free text over make, model and color"
// @Param make query string false "Make facet"
// @Param body_type query string false "Body type facet"
// @Param fuel_type query string false "Fuel type facet"
// @Param transmission query string false "Transmission facet"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param sort_by query string false "newest, priceAsc or priceDesc" default(newest)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(6)
// @Success 200 {object} models.SearchResult
// @Failure 400 {object} map[string]interface{} "Invalid filter"
// @Router /api/v1/cars [get]
func (h *CarHandler) SearchCars(c *gin.Context) {
	var filter models.SearchFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}

	userID := optionalUserID(c)

	result, err := h.catalog.Search(filter, userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	// Analytics logging never blocks or fails the response
	go h.logSearch(filter, result.TotalCount, userID, c.GetHeader("User-Agent"), c.ClientIP())

	c.JSON(http.StatusOK, result)
}

func (h *CarHandler) logSearch(filter models.SearchFilter, resultsCount int, userID *string, userAgent, ipAddress string) {
	device := utils.ParseUserAgent(userAgent)
	if device.IsBot {
		return
	}

	h.catalog.LogSearch(&models.SearchLog{
		SearchTerm:   filter.Search,
		Make:         filter.Make,
		BodyType:     filter.BodyType,
		ResultsCount: resultsCount,
		UserID:       userID,
		DeviceType:   device.DeviceType,
		IPAddress:    ipAddress,
	})
}

// GetCar handles GET /api/v1/cars/:id
// @Summary Get a car by ID
// @Description Car details with the caller's wishlist flag and latest test drive
// @Tags Cars
// @Produce json
// @Param id path string true "Car ID"
// @Success 200 {object} services.CarDetail
// @Failure 404 {object} map[string]interface{} "Car not found"
// @Router /api/v1/cars/{id} [get]
func (h *CarHandler) GetCar(c *gin.Context) {
	carID := c.Param("id")

	detail, err := h.catalog.GetCarByID(carID, optionalUserID(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// GetFeaturedCars handles GET /api/v1/cars/featured
// @Summary Get featured cars
// @Tags Cars
// @Produce json
// @Param limit query int false "Maximum number of cars" default(3)
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/cars/featured [get]
func (h *CarHandler) GetFeaturedCars(c *gin.Context) {
	limit := 3
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	cars, err := h.catalog.FeaturedCars(limit)
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

// GetFilterOptions handles GET /api/v1/cars/filters
// @Summary Get search filter options
// @Description Facet values and price range over the available inventory
// @Tags Cars
// @Produce json
// @Success 200 {object} models.CarFilterOptions
// @Router /api/v1/cars/filters [get]
func (h *CarHandler) GetFilterOptions(c *gin.Context) {
	options, err := h.catalog.FilterOptions()
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, options)
}

// ImageSearch handles POST /api/v1/cars/image-search
// @Summary Search by car image
// @Description Extract search facets from an uploaded car image
// @Tags Cars
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Car image"
// @Success 200 {object} models.AIImageSearchResult
// @Failure 400 {object} map[string]interface{} "Invalid upload"
// @Failure 422 {object} map[string]interface{} "Unusable AI response"
// @Router /api/v1/cars/image-search [post]
func (h *CarHandler) ImageSearch(c *gin.Context) {
	imageData, mimeType, ok := readImageUpload(c)
	if !ok {
		return
	}

	result, err := h.ai.ProcessImageSearch(c.Request.Context(), imageData, mimeType)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// optionalUserID returns the authenticated user's ID, or nil for anonymous
// callers
func optionalUserID(c *gin.Context) *string {
	uc, ok := middleware.GetUserContext(c)
	if !ok {
		return nil
	}
	id := uc.UserID.String()
	return &id
}

// readImageUpload pulls the "image" file out of a multipart form. On failure
// it writes the error response and returns ok=false.
func readImageUpload(c *gin.Context) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "An image file is required",
		})
		return nil, "", false
	}

	if fileHeader.Size > maxImageUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Image must be smaller than 5MB",
		})
		return nil, "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Failed to read uploaded image",
		})
		return nil, "", false
	}
	defer file.Close()

	imageData, err := io.ReadAll(io.LimitReader(file, maxImageUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Failed to read uploaded image",
		})
		return nil, "", false
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(imageData)
	}

	return imageData, mimeType, true
}
