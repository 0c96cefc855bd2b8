package database

import (
	"fmt"

	"github.com/vehiql/dealership-backend/internal/models"
)

// SearchLogRepository handles database operations for search analytics
type SearchLogRepository struct {
	db DB
}

// NewSearchLogRepository creates a new SearchLogRepository
func NewSearchLogRepository(db DB) *SearchLogRepository {
	return &SearchLogRepository{db: db}
}

// Log records a catalog search for analytics
func (r *SearchLogRepository) Log(log *models.SearchLog) error {
	query := `
		INSERT INTO search_logs (
			search_term, make, body_type, results_count,
			user_id, device_type, ip_address
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(
		query,
		log.SearchTerm, log.Make, log.BodyType, log.ResultsCount,
		log.UserID, log.DeviceType, log.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}

	return nil
}

// PopularSearches returns the most frequent non-empty search terms over the
// last 30 days
func (r *SearchLogRepository) PopularSearches(limit int) ([]models.PopularSearch, error) {
	query := `
		SELECT search_term, COUNT(*) AS search_count
		FROM search_logs
		WHERE search_term != ''
		  AND created_at > NOW() - INTERVAL '30 days'
		GROUP BY search_term
		ORDER BY search_count DESC
		LIMIT $1
	`

	searches := []models.PopularSearch{}
	if err := r.db.Select(&searches, query, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch popular searches: %w", err)
	}

	return searches, nil
}
