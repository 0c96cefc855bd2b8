package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vehiql/dealership-backend/internal/models"
	"github.com/vehiql/dealership-backend/pkg/classifier"
)

// requiredMetadataFields are the fields the classifier must return for a
// car listing pre-fill, in the order they are reported when missing
var requiredMetadataFields = []string{
	"make", "model", "year", "color", "bodyType", "price",
	"mileage", "fuelType", "transmission", "description", "confidence",
}

// codeFencePattern strips markdown code fences the model wraps around JSON
var codeFencePattern = regexp.MustCompile("```(?:json)?\n?")

// AIService turns untrusted classifier output into validated car metadata.
// The model call itself is delegated to the classifier collaborator; this
// service enforces the structural contract on whatever comes back.
type AIService struct {
	classifier classifier.Classifier
	logger     *logrus.Logger
}

// NewAIService creates a new AIService
func NewAIService(c classifier.Classifier, logger *logrus.Logger) *AIService {
	return &AIService{classifier: c, logger: logger}
}

// ValidateCarMetadata validates a raw classifier payload against the car
// metadata contract. The payload must parse as a single JSON object and
// every required field must be present and non-empty; a missing-fields
// failure names exactly the absent ones. No semantic validation (year
// range, confidence bounds) is performed beyond presence.
func ValidateCarMetadata(rawPayload string) (*models.AIExtractedCarMetadata, error) {
	cleaned := strings.TrimSpace(codeFencePattern.ReplaceAllString(rawPayload, ""))

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	var missing []string
	for _, field := range requiredMetadataFields {
		if isEmptyValue(payload[field]) {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	return &models.AIExtractedCarMetadata{
		Make:         stringValue(payload["make"]),
		Model:        stringValue(payload["model"]),
		Year:         intValue(payload["year"]),
		Color:        stringValue(payload["color"]),
		Price:        stringValue(payload["price"]),
		Mileage:      stringValue(payload["mileage"]),
		BodyType:     stringValue(payload["bodyType"]),
		FuelType:     stringValue(payload["fuelType"]),
		Transmission: stringValue(payload["transmission"]),
		Description:  stringValue(payload["description"]),
		Confidence:   floatValue(payload["confidence"]),
	}, nil
}

// isEmptyValue reports whether a decoded JSON value counts as "not
// provided": absent, null, empty string, zero number or false
func isEmptyValue(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case float64:
		return value == 0
	case bool:
		return !value
	}
	return false
}

func stringValue(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	return ""
}

func intValue(v interface{}) int {
	switch value := v.(type) {
	case float64:
		return int(value)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(value))
		return n
	}
	return 0
}

func floatValue(v interface{}) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return f
	}
	return 0
}

// ProcessCarImage runs the classifier over a car image and validates the
// result for listing pre-fill. The metadata is shown to the admin for
// confirmation, never persisted directly.
func (s *AIService) ProcessCarImage(ctx context.Context, imageData []byte, mimeType string) (*models.AIExtractedCarMetadata, error) {
	raw, err := s.classifier.ExtractCarDetails(ctx, imageData, mimeType)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	metadata, err := ValidateCarMetadata(raw)
	if err != nil {
		s.logger.WithError(err).Warn("Classifier returned an invalid car metadata payload")
		return nil, err
	}

	return metadata, nil
}

// ProcessImageSearch runs the classifier over an image and turns the
// extracted facets into a search filter
func (s *AIService) ProcessImageSearch(ctx context.Context, imageData []byte, mimeType string) (*models.AIImageSearchResult, error) {
	raw, err := s.classifier.ExtractSearchFacets(ctx, imageData, mimeType)
	if err != nil {
		return nil, collaboratorErr(err)
	}

	cleaned := strings.TrimSpace(codeFencePattern.ReplaceAllString(raw, ""))

	result := &models.AIImageSearchResult{}
	if err := json.Unmarshal([]byte(cleaned), result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return result, nil
}
