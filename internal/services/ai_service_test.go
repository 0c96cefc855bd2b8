package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completeMetadataPayload = `{
	"make": "Toyota",
	"model": "Corolla",
	"year": 2022,
	"color": "Blue",
	"bodyType": "Sedan",
	"price": "25000",
	"mileage": "15000",
	"fuelType": "Petrol",
	"transmission": "Automatic",
	"description": "A well maintained sedan",
	"confidence": 0.92
}`

func TestValidateCarMetadata(t *testing.T) {
	t.Run("Complete Payload", func(t *testing.T) {
		metadata, err := ValidateCarMetadata(completeMetadataPayload)
		require.NoError(t, err)
		assert.Equal(t, "Toyota", metadata.Make)
		assert.Equal(t, 2022, metadata.Year)
		assert.Equal(t, "25000", metadata.Price)
		assert.Equal(t, 0.92, metadata.Confidence)
	})

	t.Run("Strips Markdown Code Fences", func(t *testing.T) {
		fenced := "```json\n" + completeMetadataPayload + "\n```"
		metadata, err := ValidateCarMetadata(fenced)
		require.NoError(t, err)
		assert.Equal(t, "Corolla", metadata.Model)
	})

	t.Run("Numeric Price Converted To String", func(t *testing.T) {
		payload := `{
			"make": "Toyota", "model": "Corolla", "year": 2022, "color": "Blue",
			"bodyType": "Sedan", "price": 25000, "mileage": 15000,
			"fuelType": "Petrol", "transmission": "Automatic",
			"description": "A car", "confidence": 0.9
		}`
		metadata, err := ValidateCarMetadata(payload)
		require.NoError(t, err)
		assert.Equal(t, "25000", metadata.Price)
		assert.Equal(t, "15000", metadata.Mileage)
	})

	t.Run("Missing Confidence Named Exactly", func(t *testing.T) {
		payload := `{
			"make": "Toyota", "model": "Corolla", "year": 2022, "color": "Blue",
			"bodyType": "Sedan", "price": "25000", "mileage": "15000",
			"fuelType": "Petrol", "transmission": "Automatic",
			"description": "A car"
		}`
		_, err := ValidateCarMetadata(payload)

		var missing *MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"confidence"}, missing.Fields)
	})

	t.Run("Empty String Counts As Missing", func(t *testing.T) {
		payload := `{
			"make": "Toyota", "model": "Corolla", "year": "", "color": "Blue",
			"bodyType": "Sedan", "price": "25000", "mileage": "15000",
			"fuelType": "Petrol", "transmission": "Automatic",
			"description": "A car", "confidence": 0.9
		}`
		_, err := ValidateCarMetadata(payload)

		var missing *MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"year"}, missing.Fields)
	})

	t.Run("Zero And Null Count As Missing", func(t *testing.T) {
		payload := `{
			"make": "Toyota", "model": null, "year": 0, "color": "Blue",
			"bodyType": "Sedan", "price": "25000", "mileage": "15000",
			"fuelType": "Petrol", "transmission": "Automatic",
			"description": "A car", "confidence": 0.9
		}`
		_, err := ValidateCarMetadata(payload)

		var missing *MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"model", "year"}, missing.Fields)
	})

	t.Run("Missing Fields Reported In Contract Order", func(t *testing.T) {
		_, err := ValidateCarMetadata(`{"model": "Corolla"}`)

		var missing *MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{
			"make", "year", "color", "bodyType", "price",
			"mileage", "fuelType", "transmission", "description", "confidence",
		}, missing.Fields)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		_, err := ValidateCarMetadata("not json at all")
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})

	t.Run("JSON Array Rejected", func(t *testing.T) {
		_, err := ValidateCarMetadata(`[1, 2, 3]`)
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})
}

// stubClassifier returns canned payloads for AI service tests
type stubClassifier struct {
	carDetails   string
	searchFacets string
	err          error
}

func (s *stubClassifier) ExtractCarDetails(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	return s.carDetails, s.err
}

func (s *stubClassifier) ExtractSearchFacets(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	return s.searchFacets, s.err
}

func TestAIServiceProcessCarImage(t *testing.T) {
	ctx := context.Background()

	t.Run("Classifier Failure Is A Collaborator Error", func(t *testing.T) {
		svc := NewAIService(&stubClassifier{err: fmt.Errorf("upstream timeout")}, testLogger())

		_, err := svc.ProcessCarImage(ctx, []byte("img"), "image/jpeg")
		assert.ErrorIs(t, err, ErrCollaborator)
	})

	t.Run("Valid Payload Passes Through", func(t *testing.T) {
		svc := NewAIService(&stubClassifier{carDetails: completeMetadataPayload}, testLogger())

		metadata, err := svc.ProcessCarImage(ctx, []byte("img"), "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "Toyota", metadata.Make)
	})

	t.Run("Incomplete Payload Surfaces Missing Fields", func(t *testing.T) {
		svc := NewAIService(&stubClassifier{carDetails: `{"make": "Toyota"}`}, testLogger())

		_, err := svc.ProcessCarImage(ctx, []byte("img"), "image/jpeg")

		var missing *MissingFieldsError
		assert.True(t, errors.As(err, &missing))
	})
}

func TestAIServiceProcessImageSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("Extracts Facets", func(t *testing.T) {
		svc := NewAIService(&stubClassifier{
			searchFacets: "```json\n" + `{"make": "Honda", "bodyType": "SUV", "color": "Red", "confidence": 0.8}` + "\n```",
		}, testLogger())

		result, err := svc.ProcessImageSearch(ctx, []byte("img"), "image/png")
		require.NoError(t, err)
		assert.Equal(t, "Honda", result.Make)
		assert.Equal(t, "SUV", result.BodyType)
	})

	t.Run("Malformed Facets", func(t *testing.T) {
		svc := NewAIService(&stubClassifier{searchFacets: "oops"}, testLogger())

		_, err := svc.ProcessImageSearch(ctx, []byte("img"), "image/png")
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})
}
