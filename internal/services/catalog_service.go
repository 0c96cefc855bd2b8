package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vehiql/dealership-backend/internal/cache"
	"github.com/vehiql/dealership-backend/internal/database"
	"github.com/vehiql/dealership-backend/internal/models"
)

// CarDetail is a car with the caller's latest active test drive attached
type CarDetail struct {
	models.Car
	UserTestDrive *models.Booking `json:"user_test_drive,omitempty"`
}

// CatalogService answers catalog search and car detail queries. All
// operations are read-only except the wishlist toggle.
type CatalogService struct {
	carRepo       *database.CarRepository
	savedCarRepo  *database.SavedCarRepository
	bookingRepo   *database.BookingRepository
	searchLogRepo *database.SearchLogRepository
	invalidator   cache.Invalidator
	logger        *logrus.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	carRepo *database.CarRepository,
	savedCarRepo *database.SavedCarRepository,
	bookingRepo *database.BookingRepository,
	searchLogRepo *database.SearchLogRepository,
	invalidator cache.Invalidator,
	logger *logrus.Logger,
) *CatalogService {
	return &CatalogService{
		carRepo:       carRepo,
		savedCarRepo:  savedCarRepo,
		bookingRepo:   bookingRepo,
		searchLogRepo: searchLogRepo,
		invalidator:   invalidator,
		logger:        logger,
	}
}

// Search answers a catalog search: compile the predicate, count matches,
// fetch the page slice, then annotate with the caller's wishlist in a
// single batched lookup. userID may be nil for anonymous callers.
func (s *CatalogService) Search(filter models.SearchFilter, userID *string) (*models.SearchResult, error) {
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	pred := filter.Compile()

	totalCount, err := s.carRepo.Count(pred)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	cars, err := s.carRepo.List(pred, filter.SortBy, filter.Limit, filter.Offset())
	if err != nil {
		return nil, collaboratorErr(err)
	}

	if userID != nil && len(cars) > 0 {
		carIDs := make([]string, len(cars))
		for i := range cars {
			carIDs[i] = cars[i].ID
		}

		saved, err := s.savedCarRepo.SavedIDs(*userID, carIDs)
		if err != nil {
			return nil, collaboratorErr(err)
		}

		for i := range cars {
			cars[i].Wishlisted = saved[cars[i].ID]
		}
	}

	totalPages := (totalCount + filter.Limit - 1) / filter.Limit

	return &models.SearchResult{
		Cars:       cars,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetCarByID retrieves a car with the caller's wishlist flag and latest
// active test drive
func (s *CatalogService) GetCarByID(carID string, userID *string) (*CarDetail, error) {
	car, err := s.carRepo.GetByID(carID)
	if err != nil {
		return nil, collaboratorErr(err)
	}
	if car == nil {
		return nil, fmt.Errorf("%w: car %s", ErrNotFound, carID)
	}

	detail := &CarDetail{Car: *car}

	if userID != nil {
		wishlisted, err := s.savedCarRepo.Exists(*userID, carID)
		if err != nil {
			return nil, collaboratorErr(err)
		}
		detail.Wishlisted = wishlisted

		testDrive, err := s.bookingRepo.FindLatestActiveForUserAndCar(*userID, carID)
		if err != nil {
			return nil, collaboratorErr(err)
		}
		detail.UserTestDrive = testDrive
	}

	return detail, nil
}

// FeaturedCars retrieves featured available cars, newest first
func (s *CatalogService) FeaturedCars(limit int) ([]models.Car, error) {
	if limit < 1 {
		limit = 3
	}

	pred := models.CarPredicate{
		Status:       models.CarStatusAvailable,
		FeaturedOnly: true,
	}

	cars, err := s.carRepo.List(pred, models.SortNewest, limit, 0)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	return cars, nil
}

// FilterOptions returns the facet values and price range for the search UI
func (s *CatalogService) FilterOptions() (*models.CarFilterOptions, error) {
	options, err := s.carRepo.FilterOptions()
	if err != nil {
		return nil, collaboratorErr(err)
	}

	return options, nil
}

// ToggleSavedCar flips the wishlisted state of a car for a user and
// returns the new state
func (s *CatalogService) ToggleSavedCar(ctx context.Context, userID, carID string) (bool, error) {
	car, err := s.carRepo.GetByID(carID)
	if err != nil {
		return false, collaboratorErr(err)
	}
	if car == nil {
		return false, fmt.Errorf("%w: car %s", ErrNotFound, carID)
	}

	saved, err := s.savedCarRepo.Toggle(userID, carID)
	if err != nil {
		return false, collaboratorErr(err)
	}

	s.invalidator.Invalidate(ctx, cache.ViewSavedCars(userID), cache.ViewCar(carID))

	return saved, nil
}

// SavedCars retrieves the user's wishlisted cars
func (s *CatalogService) SavedCars(userID string) ([]models.Car, error) {
	cars, err := s.savedCarRepo.ListByUser(userID)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	for i := range cars {
		cars[i].Wishlisted = true
	}

	return cars, nil
}

// LogSearch records a search for analytics. Best-effort: failures are
// logged, never returned.
func (s *CatalogService) LogSearch(log *models.SearchLog) {
	if err := s.searchLogRepo.Log(log); err != nil {
		s.logger.WithError(err).Warn("Failed to record search log")
	}
}
