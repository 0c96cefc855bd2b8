package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Classifier extracts structured car information from an image. The output
// is free-form model text; callers must validate it before use.
type Classifier interface {
	ExtractCarDetails(ctx context.Context, imageData []byte, mimeType string) (string, error)
	ExtractSearchFacets(ctx context.Context, imageData []byte, mimeType string) (string, error)
}

const carDetailsPrompt = `
Analyze this car image and extract the following information:
1. Make (manufacturer)
2. Model
3. Year (approximately)
4. Color
5. Body type (SUV, Sedan, Hatchback, etc.)
6. Mileage
7. Fuel type (your best guess)
8. Transmission type (your best guess)
9. Price (your best guess)
10. Short Description as to be added to a car listing

Format your response as a clean JSON object with these fields:
{
	"make": "",
	"model": "",
	"year": 0000,
	"color": "",
	"price": "",
	"mileage": "",
	"bodyType": "",
	"fuelType": "",
	"transmission": "",
	"description": "",
	"confidence": 0.0
}

For confidence, provide a value between 0 and 1 representing how confident you are in your overall identification.
Only respond with the JSON object, nothing else.
`

const searchFacetsPrompt = `
Analyze this car image and extract the following information for a search query:
1. Make (manufacturer)
2. Body type (SUV, Sedan, Hatchback, etc.)
3. Color

Format your response as a clean JSON object with these fields:
{
	"make": "",
	"bodyType": "",
	"color": "",
	"confidence": 0.0
}

For confidence, provide a value between 0 and 1 representing how confident you are in your overall identification.
Only respond with the JSON object, nothing else.
`

// GeminiConfig holds configuration for the Gemini classifier
type GeminiConfig struct {
	APIURL string
	APIKey string
	Model  string
}

// GeminiClassifier implements Classifier using the Gemini generateContent API
type GeminiClassifier struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
}

// NewGeminiClassifier creates a new Gemini classifier client
func NewGeminiClassifier(config GeminiConfig) *GeminiClassifier {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = "https://generativelanguage.googleapis.com"
	}

	model := config.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	return &GeminiClassifier{
		apiURL: apiURL,
		apiKey: config.APIKey,
		model:  model,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type requestContent struct {
	Parts []contentPart `json:"parts"`
}

type generateContentRequest struct {
	Contents []requestContent `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ExtractCarDetails asks the model for full listing details for the car in
// the image and returns its raw text response
func (g *GeminiClassifier) ExtractCarDetails(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	return g.generate(ctx, carDetailsPrompt, imageData, mimeType)
}

// ExtractSearchFacets asks the model for search facets (make, body type,
// color) for the car in the image and returns its raw text response
func (g *GeminiClassifier) ExtractSearchFacets(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	return g.generate(ctx, searchFacetsPrompt, imageData, mimeType)
}

func (g *GeminiClassifier) generate(ctx context.Context, prompt string, imageData []byte, mimeType string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gemini API key is not set")
	}

	reqBody := generateContentRequest{
		Contents: []requestContent{
			{
				Parts: []contentPart{
					{
						InlineData: &inlineData{
							MimeType: mimeType,
							Data:     base64.StdEncoding.EncodeToString(imageData),
						},
					},
					{Text: prompt},
				},
			},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.apiURL, g.model, g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}

	var result generateContentResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse gemini response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("gemini API error %d: %s", result.Error.Code, result.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API returned status %d", resp.StatusCode)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}
