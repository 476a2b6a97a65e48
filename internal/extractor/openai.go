package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIExtractor extracts answers by sending the page photo to a
// vision-capable model behind an OpenAI-compatible endpoint
// (OpenAI, Ollama, LM Studio, vLLM, etc.).
type OpenAIExtractor struct {
	client *openai.Client
	model  string
}

// Compile-time check: *OpenAIExtractor satisfies the Extractor interface.
var _ Extractor = (*OpenAIExtractor)(nil)

// ExtractError is returned when extraction fails so the caller can
// distinguish between "model returned garbage" and "model was unreachable."
type ExtractError struct {
	Reason  string
	Wrapped error
}

func (e *ExtractError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("extraction failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("extraction failed: %s", e.Reason)
}

func (e *ExtractError) Unwrap() error {
	return e.Wrapped
}

// NewOpenAIExtractor creates an extractor against the given endpoint.
// apiKey may be empty for local servers that skip auth.
func NewOpenAIExtractor(baseURL, model, apiKey string) *OpenAIExtractor {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIExtractor{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

const maxRetries = 2

const extractionPrompt = `You are reading a photographed multiple-choice answer sheet.

For every question number you can see, read the answer the student marked or wrote.

RULES:
- Use the question numbers printed on the sheet as keys (e.g. "1", "2", "14").
- Single-letter answers must be a single uppercase letter (e.g. "A").
- If a question is visibly unanswered, use an empty string.
- Skip question numbers you cannot read at all.
- confidence is your overall certainty for this page, between 0 and 1.

Respond with ONLY this JSON — no explanation, no markdown:
{"answers": {"1": "A", "2": "C", ...}, "confidence": 0.95}`

// Extract sends the page image for answer extraction.
//
// It retries once on parse failure (smaller vision models sometimes need a
// second try before they produce clean JSON).
func (e *OpenAIExtractor) Extract(ctx context.Context, imageData string) (*Extraction, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		content, err := e.callModel(ctx, imageData)
		if err != nil {
			lastErr = err
			continue
		}

		jsonStr := extractJSON(content)
		if jsonStr == "" {
			lastErr = &ExtractError{Reason: "no JSON object found in model response"}
			continue
		}

		var result Extraction
		if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
			lastErr = &ExtractError{Reason: "invalid JSON from model", Wrapped: err}
			continue
		}

		if result.Answers == nil {
			result.Answers = map[string]string{}
		}
		if result.Confidence < 0 {
			result.Confidence = 0
		}
		if result.Confidence > 1 {
			result.Confidence = 1
		}

		return &result, nil
	}

	return nil, &ExtractError{
		Reason:  fmt.Sprintf("failed after %d attempts", maxRetries),
		Wrapped: lastErr,
	}
}

// callModel sends a single vision request and returns the raw text reply.
func (e *OpenAIExtractor) callModel(ctx context.Context, imageData string) (string, error) {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: extractionPrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    asDataURL(imageData),
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("model returned empty content")
	}

	return content, nil
}

// asDataURL passes data URLs through and wraps bare base64 payloads.
// Camera captures arrive as data URLs; stored images may be bare base64.
func asDataURL(imageData string) string {
	if strings.HasPrefix(imageData, "data:") {
		return imageData
	}
	return "data:image/jpeg;base64," + imageData
}

// extractJSON finds the outermost JSON object in a string.
// It handles nested braces correctly and skips braces inside quoted strings.
func extractJSON(s string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, ch := range s {
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if ch == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if ch == '}' {
			depth--
			if depth == 0 && start != -1 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
