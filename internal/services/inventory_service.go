package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vehiql/dealership-backend/internal/cache"
	"github.com/vehiql/dealership-backend/internal/database"
	"github.com/vehiql/dealership-backend/internal/models"
)

// InventoryService handles admin-side inventory mutations: adding cars and
// changing their status or featured flag
type InventoryService struct {
	carRepo     *database.CarRepository
	invalidator cache.Invalidator
	logger      *logrus.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(carRepo *database.CarRepository, invalidator cache.Invalidator, logger *logrus.Logger) *InventoryService {
	return &InventoryService{
		carRepo:     carRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

// CreateCar adds a car to the inventory. Status defaults to AVAILABLE when
// not provided.
func (s *InventoryService) CreateCar(ctx context.Context, req *models.CreateCarRequest) (*models.Car, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	status := models.CarStatus(req.Status)
	if req.Status == "" {
		status = models.CarStatusAvailable
	}

	car := &models.Car{
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Price:        req.Price,
		Mileage:      req.Mileage,
		Color:        req.Color,
		FuelType:     req.FuelType,
		Transmission: req.Transmission,
		BodyType:     req.BodyType,
		Seats:        req.Seats,
		Description:  req.Description,
		Status:       status,
		Featured:     req.Featured,
		Images:       models.StringArray(req.Images),
	}

	if err := s.carRepo.Create(car); err != nil {
		return nil, collaboratorErr(err)
	}

	s.logger.WithFields(logrus.Fields{
		"car_id": car.ID,
		"make":   car.Make,
		"model":  car.Model,
	}).Info("Car added to inventory")

	s.invalidator.Invalidate(ctx, cache.ViewCarList, cache.ViewDashboard)

	return car, nil
}

// UpdateCarStatus changes a car's status and/or featured flag
func (s *InventoryService) UpdateCarStatus(ctx context.Context, carID string, req *models.UpdateCarStatusRequest) (*models.Car, error) {
	if req.Status == nil && req.Featured == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	var status *models.CarStatus
	if req.Status != nil {
		parsed := models.CarStatus(*req.Status)
		if !parsed.IsValid() {
			return nil, fmt.Errorf("%w: unknown car status %q", ErrInvalidInput, *req.Status)
		}
		status = &parsed
	}

	if err := s.carRepo.UpdateStatus(carID, status, req.Featured); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: car %s", ErrNotFound, carID)
		}
		return nil, collaboratorErr(err)
	}

	car, err := s.carRepo.GetByID(carID)
	if err != nil {
		return nil, collaboratorErr(err)
	}
	if car == nil {
		return nil, fmt.Errorf("%w: car %s", ErrNotFound, carID)
	}

	s.invalidator.Invalidate(ctx, cache.ViewCar(carID), cache.ViewCarList, cache.ViewDashboard)

	return car, nil
}
