package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vehiql/dealership-backend/internal/database"
)

func newDashboardService(db database.DB) *DashboardService {
	return NewDashboardService(
		database.NewCarRepository(db),
		database.NewBookingRepository(db),
		database.NewSearchLogRepository(db),
	)
}

func TestDashboardServiceGetDashboardData(t *testing.T) {
	t.Run("Computes Conversion Rate", func(t *testing.T) {
		db, mock := newServiceDB(t)
		svc := newDashboardService(db)

		mock.ExpectQuery(`SELECT (.+) FROM cars`).
			WillReturnRows(sqlmock.NewRows([]string{"total", "available", "unavailable", "sold", "featured"}).
				AddRow(10, 6, 1, 3, 2))
		mock.ExpectQuery(`SELECT (.+) FROM test_drive_bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "confirmed", "completed", "cancelled", "no_show"}).
				AddRow(12, 4, 2, 3, 2, 1))
		mock.ExpectQuery(`SELECT COUNT\(DISTINCT c\.id\)`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(`SELECT search_term, COUNT\(\*\) AS search_count`).
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"search_term", "search_count"}).
				AddRow("corolla", 9).
				AddRow("suv", 4))

		data, err := svc.GetDashboardData()
		require.NoError(t, err)
		assert.Equal(t, 10, data.Cars.Total)
		assert.Equal(t, 3, data.Cars.Sold)
		assert.Equal(t, 12, data.TestDrives.Total)
		// 1 sale out of 3 completed test drives, rounded to two decimals
		assert.Equal(t, 33.33, data.TestDrives.ConversionRate)
		require.Len(t, data.PopularSearches, 2)
		assert.Equal(t, "corolla", data.PopularSearches[0].SearchTerm)
		assert.Equal(t, 9, data.PopularSearches[0].SearchCount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Completed Test Drives Skips Conversion", func(t *testing.T) {
		db, mock := newServiceDB(t)
		svc := newDashboardService(db)

		mock.ExpectQuery(`SELECT (.+) FROM cars`).
			WillReturnRows(sqlmock.NewRows([]string{"total", "available", "unavailable", "sold", "featured"}).
				AddRow(5, 5, 0, 0, 1))
		mock.ExpectQuery(`SELECT (.+) FROM test_drive_bookings`).
			WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "confirmed", "completed", "cancelled", "no_show"}).
				AddRow(2, 1, 1, 0, 0, 0))
		mock.ExpectQuery(`SELECT search_term, COUNT\(\*\) AS search_count`).
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"search_term", "search_count"}))

		data, err := svc.GetDashboardData()
		require.NoError(t, err)
		assert.Equal(t, 0.0, data.TestDrives.ConversionRate)
		assert.Empty(t, data.PopularSearches)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
