package models

// AIExtractedCarMetadata holds car details extracted from an image by the AI
// classifier. It is validated before use and never persisted directly; the
// admin confirms the pre-filled values before a car record is created.
type AIExtractedCarMetadata struct {
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Color        string  `json:"color"`
	Price        string  `json:"price"`
	Mileage      string  `json:"mileage"`
	BodyType     string  `json:"bodyType"`
	FuelType     string  `json:"fuelType"`
	Transmission string  `json:"transmission"`
	Description  string  `json:"description"`
	Confidence   float64 `json:"confidence"`
}

// AIImageSearchResult holds the search facets extracted from an image for
// the image search flow
type AIImageSearchResult struct {
	Make       string  `json:"make"`
	BodyType   string  `json:"bodyType"`
	Color      string  `json:"color"`
	Confidence float64 `json:"confidence"`
}
