package services

import (
	"math"

	"github.com/vehiql/dealership-backend/internal/database"
	"github.com/vehiql/dealership-backend/internal/models"
)

// DashboardService computes the admin dashboard aggregation. Everything is
// derived from the current store snapshot on each call; nothing is cached,
// so there is no invalidation protocol for this reporting path.
type DashboardService struct {
	carRepo       *database.CarRepository
	bookingRepo   *database.BookingRepository
	searchLogRepo *database.SearchLogRepository
}

// popularSearchLimit caps the popular search terms shown on the dashboard
const popularSearchLimit = 5

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	carRepo *database.CarRepository,
	bookingRepo *database.BookingRepository,
	searchLogRepo *database.SearchLogRepository,
) *DashboardService {
	return &DashboardService{
		carRepo:       carRepo,
		bookingRepo:   bookingRepo,
		searchLogRepo: searchLogRepo,
	}
}

// GetDashboardData returns inventory and test drive totals plus the test
// drive conversion rate (sold cars with a completed test drive over
// completed test drives)
func (s *DashboardService) GetDashboardData() (*models.DashboardData, error) {
	carCounts, err := s.carRepo.CountsByStatus()
	if err != nil {
		return nil, collaboratorErr(err)
	}

	testDriveCounts, err := s.bookingRepo.CountsByStatus()
	if err != nil {
		return nil, collaboratorErr(err)
	}

	if testDriveCounts.Completed > 0 {
		soldAfterTestDrive, err := s.bookingRepo.CountSoldAfterCompletedTestDrive()
		if err != nil {
			return nil, collaboratorErr(err)
		}

		rate := float64(soldAfterTestDrive) / float64(testDriveCounts.Completed) * 100
		testDriveCounts.ConversionRate = math.Round(rate*100) / 100
	}

	popularSearches, err := s.searchLogRepo.PopularSearches(popularSearchLimit)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	return &models.DashboardData{
		Cars:            *carCounts,
		TestDrives:      *testDriveCounts,
		PopularSearches: popularSearches,
	}, nil
}
