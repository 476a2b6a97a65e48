package extractor

import "context"

// Extraction is what the vision model read off one answer-sheet photo:
// a questionNumber → answer map plus the model's own confidence (0–1).
// Confidence is advisory; scoring never acts on it.
type Extraction struct {
	Answers    map[string]string `json:"answers"`
	Confidence float64           `json:"confidence"`
}

// Extractor reads the answers off one captured page image.
// Implementations may call a vision LLM or return canned results (for tests).
type Extractor interface {
	// Extract takes the page image as a base64 data URL (or raw base64 PNG/JPEG)
	// and returns the per-question answers the model could read.
	Extract(ctx context.Context, imageData string) (*Extraction, error)
}
