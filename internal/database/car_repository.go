package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vehiql/dealership-backend/internal/models"
)

// carColumns is the column list shared by all car SELECT queries
const carColumns = `id, make, model, year, price, mileage, color, fuel_type,
	   transmission, body_type, seats, description, status, featured,
	   images, created_at, updated_at`

// CarRepository handles database operations for the cars table
type CarRepository struct {
	db DB
}

// NewCarRepository creates a new CarRepository
func NewCarRepository(db DB) *CarRepository {
	return &CarRepository{db: db}
}

// buildCarWhere compiles a normalized predicate into a WHERE clause and
// its positional arguments. Facets compose with AND; free-text search
// composes with OR across make, model and color.
func buildCarWhere(pred models.CarPredicate) (string, []interface{}) {
	conditions := []string{"status = $1"}
	args := []interface{}{pred.Status}

	next := func() int { return len(args) + 1 }

	if pred.Search != "" {
		n := next()
		conditions = append(conditions, fmt.Sprintf(
			"(make ILIKE $%d OR model ILIKE $%d OR color ILIKE $%d)", n, n, n))
		args = append(args, "%"+pred.Search+"%")
	}

	if pred.Make != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(make) = LOWER($%d)", next()))
		args = append(args, pred.Make)
	}

	if pred.BodyType != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(body_type) = LOWER($%d)", next()))
		args = append(args, pred.BodyType)
	}

	if pred.FuelType != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(fuel_type) = LOWER($%d)", next()))
		args = append(args, pred.FuelType)
	}

	if pred.Transmission != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(transmission) = LOWER($%d)", next()))
		args = append(args, pred.Transmission)
	}

	if pred.MinPrice > 0 {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", next()))
		args = append(args, pred.MinPrice)
	}

	if pred.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", next()))
		args = append(args, *pred.MaxPrice)
	}

	if pred.FeaturedOnly {
		conditions = append(conditions, "featured = true")
	}

	return strings.Join(conditions, " AND "), args
}

// orderClause resolves a sort key into a deterministic ORDER BY clause.
// The id tiebreaker keeps pagination stable when the sort key has ties.
func orderClause(sortBy models.SortKey) string {
	switch sortBy {
	case models.SortPriceAsc:
		return "price ASC, id ASC"
	case models.SortPriceDesc:
		return "price DESC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

// List retrieves one page of cars matching the predicate under the given ordering
func (r *CarRepository) List(pred models.CarPredicate, sortBy models.SortKey, limit, offset int) ([]models.Car, error) {
	where, args := buildCarWhere(pred)
	query := fmt.Sprintf(`
		SELECT %s
		FROM cars
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, carColumns, where, orderClause(sortBy), len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	cars := []models.Car{}
	if err := r.db.Select(&cars, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}

	return cars, nil
}

// Count returns the number of cars matching the predicate
func (r *CarRepository) Count(pred models.CarPredicate) (int, error) {
	where, args := buildCarWhere(pred)
	query := fmt.Sprintf("SELECT COUNT(*) FROM cars WHERE %s", where)

	var count int
	if err := r.db.Get(&count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count cars: %w", err)
	}

	return count, nil
}

// AggregatePriceRange returns the min and max price over cars matching the predicate
func (r *CarRepository) AggregatePriceRange(pred models.CarPredicate) (*models.PriceRange, error) {
	where, args := buildCarWhere(pred)
	query := fmt.Sprintf(`
		SELECT COALESCE(MIN(price), 0) AS min_price,
			   COALESCE(MAX(price), 0) AS max_price
		FROM cars
		WHERE %s
	`, where)

	priceRange := &models.PriceRange{}
	if err := r.db.Get(priceRange, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate price range: %w", err)
	}

	return priceRange, nil
}

// GetByID retrieves a car by ID
func (r *CarRepository) GetByID(carID string) (*models.Car, error) {
	query := fmt.Sprintf("SELECT %s FROM cars WHERE id = $1", carColumns)

	car := &models.Car{}
	err := r.db.Get(car, query, carID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch car: %w", err)
	}

	return car, nil
}

// GetByIDs retrieves cars by ID in a single batched query
func (r *CarRepository) GetByIDs(carIDs []string) ([]models.Car, error) {
	if len(carIDs) == 0 {
		return []models.Car{}, nil
	}

	query := fmt.Sprintf("SELECT %s FROM cars WHERE id = ANY($1)", carColumns)

	cars := []models.Car{}
	if err := r.db.Select(&cars, query, pq.Array(carIDs)); err != nil {
		return nil, fmt.Errorf("failed to fetch cars: %w", err)
	}

	return cars, nil
}

// Create inserts a new car into the inventory
func (r *CarRepository) Create(car *models.Car) error {
	query := `
		INSERT INTO cars (
			id, make, model, year, price, mileage, color, fuel_type,
			transmission, body_type, seats, description, status, featured, images
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
		RETURNING created_at, updated_at
	`

	if car.ID == "" {
		car.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		car.ID, car.Make, car.Model, car.Year, car.Price, car.Mileage,
		car.Color, car.FuelType, car.Transmission, car.BodyType, car.Seats,
		car.Description, car.Status, car.Featured, car.Images,
	).Scan(&car.CreatedAt, &car.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}

	return nil
}

// UpdateStatus updates a car's status and/or featured flag
func (r *CarRepository) UpdateStatus(carID string, status *models.CarStatus, featured *bool) error {
	query := `
		UPDATE cars
		SET status = COALESCE($2, status),
			featured = COALESCE($3, featured),
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, carID, status, featured)
	if err != nil {
		return fmt.Errorf("failed to update car status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// CountsByStatus returns inventory totals broken down by status
func (r *CarRepository) CountsByStatus() (*models.CarCounts, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'AVAILABLE') AS available,
			COUNT(*) FILTER (WHERE status = 'UNAVAILABLE') AS unavailable,
			COUNT(*) FILTER (WHERE status = 'SOLD') AS sold,
			COUNT(*) FILTER (WHERE featured = true) AS featured
		FROM cars
	`

	counts := &models.CarCounts{}
	err := r.db.QueryRow(query).Scan(
		&counts.Total, &counts.Available, &counts.Unavailable,
		&counts.Sold, &counts.Featured,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count cars: %w", err)
	}

	return counts, nil
}

// FilterOptions returns the facet values offered by the search UI,
// computed over the available inventory
func (r *CarRepository) FilterOptions() (*models.CarFilterOptions, error) {
	options := &models.CarFilterOptions{}

	facets := []struct {
		column string
		dest   *[]string
	}{
		{"make", &options.Makes},
		{"body_type", &options.BodyTypes},
		{"fuel_type", &options.FuelTypes},
		{"transmission", &options.Transmissions},
	}

	for _, facet := range facets {
		query := fmt.Sprintf(`
			SELECT DISTINCT %s FROM cars
			WHERE status = 'AVAILABLE'
			ORDER BY %s
		`, facet.column, facet.column)

		if err := r.db.Select(facet.dest, query); err != nil {
			return nil, fmt.Errorf("failed to fetch %s facet: %w", facet.column, err)
		}
	}

	priceRange, err := r.AggregatePriceRange(models.CarPredicate{Status: models.CarStatusAvailable})
	if err != nil {
		return nil, err
	}
	options.PriceRange = *priceRange

	return options, nil
}
