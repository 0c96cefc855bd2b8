package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vehiql/dealership-backend/internal/cache"
	"github.com/vehiql/dealership-backend/internal/database"
	"github.com/vehiql/dealership-backend/internal/middleware"
	"github.com/vehiql/dealership-backend/internal/models"
	"github.com/vehiql/dealership-backend/internal/services"
)

func setupBookingTestDB(t *testing.T) (database.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return &database.PostgresDB{DB: sqlx.NewDb(mockDB, "sqlmock")}, mock
}

func setupBookingTestRouter(db database.DB, user *middleware.UserContext) *gin.Engine {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	bookingRepo := database.NewBookingRepository(db)
	carRepo := database.NewCarRepository(db)
	checker := services.NewSlotConflictChecker(bookingRepo)
	bookingService := services.NewBookingService(bookingRepo, carRepo, checker, cache.NoopInvalidator{}, logger)
	handler := NewBookingHandler(bookingService, logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.UserContextKey, *user)
		}
		c.Next()
	})
	router.POST("/test-drives", handler.CreateBooking)
	router.GET("/test-drives", handler.GetMyBookings)
	router.POST("/test-drives/:id/cancel", handler.CancelBooking)
	return router
}

func testDriveCarRow(id string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "make", "model", "year", "price", "mileage", "color", "fuel_type",
		"transmission", "body_type", "seats", "description", "status", "featured",
		"images", "created_at", "updated_at",
	}).AddRow(
		id, "Toyota", "Corolla", 2022, 25000.0, 15000, "Blue", "Petrol",
		"Automatic", "Sedan", 5, "A car", "AVAILABLE", false,
		[]byte(`{"https://img/1.jpg"}`), now, now,
	)
}

func testDriveBookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "car_id", "user_id", "booking_date", "start_time", "end_time",
		"status", "notes", "created_at", "updated_at",
	})
}

func TestCreateBooking_Success(t *testing.T) {
	db, mock := setupBookingTestDB(t)
	user := &middleware.UserContext{UserID: uuid.New(), Email: "buyer@example.com", Role: "USER"}
	router := setupBookingTestRouter(db, user)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM cars WHERE id = \$1`).
		WithArgs("car-1").
		WillReturnRows(testDriveCarRow("car-1"))
	mock.ExpectQuery(`SELECT (.+) FROM test_drive_bookings WHERE car_id = \$1`).
		WithArgs("car-1", "2024-06-15", "10:00").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO test_drive_bookings`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	body, _ := json.Marshal(models.CreateBookingRequest{
		CarID:       "car-1",
		BookingDate: "2024-06-15",
		StartTime:   "10:00",
		EndTime:     "11:00",
	})
	req := httptest.NewRequest("POST", "/test-drives", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var booking models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, "car-1", booking.CarID)
	assert.Equal(t, user.UserID.String(), booking.UserID)
	assert.Equal(t, models.BookingStatusPending, booking.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_SlotConflict(t *testing.T) {
	db, mock := setupBookingTestDB(t)
	user := &middleware.UserContext{UserID: uuid.New(), Email: "buyer@example.com", Role: "USER"}
	router := setupBookingTestRouter(db, user)

	mock.ExpectQuery(`SELECT (.+) FROM cars WHERE id = \$1`).
		WithArgs("car-1").
		WillReturnRows(testDriveCarRow("car-1"))
	mock.ExpectQuery(`SELECT (.+) FROM test_drive_bookings WHERE car_id = \$1`).
		WithArgs("car-1", "2024-06-15", "10:00").
		WillReturnRows(testDriveBookingRows().AddRow(
			"booking-9", "car-1", uuid.New().String(), "2024-06-15", "10:00", "11:00",
			"CONFIRMED", nil, time.Now(), time.Now(),
		))

	body, _ := json.Marshal(models.CreateBookingRequest{
		CarID:       "car-1",
		BookingDate: "2024-06-15",
		StartTime:   "10:00",
		EndTime:     "11:00",
	})
	req := httptest.NewRequest("POST", "/test-drives", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already booked")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_Unauthenticated(t *testing.T) {
	db, _ := setupBookingTestDB(t)
	router := setupBookingTestRouter(db, nil)

	body, _ := json.Marshal(models.CreateBookingRequest{
		CarID:       "car-1",
		BookingDate: "2024-06-15",
		StartTime:   "10:00",
		EndTime:     "11:00",
	})
	req := httptest.NewRequest("POST", "/test-drives", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBooking_InvalidBody(t *testing.T) {
	db, _ := setupBookingTestDB(t)
	user := &middleware.UserContext{UserID: uuid.New(), Email: "buyer@example.com", Role: "USER"}
	router := setupBookingTestRouter(db, user)

	req := httptest.NewRequest("POST", "/test-drives", bytes.NewReader([]byte(`{"car_id": 42}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request format")
}

func TestGetMyBookings(t *testing.T) {
	db, mock := setupBookingTestDB(t)
	user := &middleware.UserContext{UserID: uuid.New(), Email: "buyer@example.com", Role: "USER"}
	router := setupBookingTestRouter(db, user)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM test_drive_bookings WHERE user_id = \$1`).
		WithArgs(user.UserID.String()).
		WillReturnRows(testDriveBookingRows().
			AddRow("booking-1", "car-1", user.UserID.String(), "2024-06-15", "10:00", "11:00", "PENDING", nil, now, now).
			AddRow("booking-2", "car-2", user.UserID.String(), "2024-06-16", "14:00", "15:00", "CANCELLED", nil, now, now))

	req := httptest.NewRequest("GET", "/test-drives", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)
	assert.Contains(t, w.Body.String(), "booking-1")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking_NotOwner(t *testing.T) {
	db, mock := setupBookingTestDB(t)
	user := &middleware.UserContext{UserID: uuid.New(), Email: "buyer@example.com", Role: "USER"}
	router := setupBookingTestRouter(db, user)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM test_drive_bookings WHERE id = \$1`).
		WithArgs("booking-1").
		WillReturnRows(testDriveBookingRows().
			AddRow("booking-1", "car-1", uuid.New().String(), "2024-06-15", "10:00", "11:00", "PENDING", nil, now, now))

	req := httptest.NewRequest("POST", "/test-drives/booking-1/cancel", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelBooking_Success(t *testing.T) {
	db, mock := setupBookingTestDB(t)
	user := &middleware.UserContext{UserID: uuid.New(), Email: "buyer@example.com", Role: "USER"}
	router := setupBookingTestRouter(db, user)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM test_drive_bookings WHERE id = \$1`).
		WithArgs("booking-1").
		WillReturnRows(testDriveBookingRows().
			AddRow("booking-1", "car-1", user.UserID.String(), "2024-06-15", "10:00", "11:00", "PENDING", nil, now, now))
	mock.ExpectExec(`UPDATE test_drive_bookings SET status = 'CANCELLED'`).
		WithArgs("booking-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest("POST", "/test-drives/booking-1/cancel", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cancelled successfully")

	assert.NoError(t, mock.ExpectationsWereMet())
}
