package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"answers": {"1": "A"}, "confidence": 0.9}`,
			want:  `{"answers": {"1": "A"}, "confidence": 0.9}`,
		},
		{
			name:  "surrounded by prose",
			input: "Here is the result:\n{\"answers\": {}}\nLet me know!",
			want:  `{"answers": {}}`,
		},
		{
			name:  "nested braces",
			input: `{"answers": {"1": "A", "2": "B"}}`,
			want:  `{"answers": {"1": "A", "2": "B"}}`,
		},
		{
			name:  "braces inside quoted strings",
			input: `{"answers": {"1": "}{"}}`,
			want:  `{"answers": {"1": "}{"}}`,
		},
		{
			name:  "escaped quotes",
			input: `{"answers": {"1": "\"{"}}`,
			want:  `{"answers": {"1": "\"{"}}`,
		},
		{
			name:  "no object",
			input: "the model rambled without JSON",
			want:  "",
		},
		{
			name:  "unclosed object",
			input: `{"answers": {`,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.input))
		})
	}
}

func TestAsDataURL(t *testing.T) {
	assert.Equal(t,
		"data:image/png;base64,abc",
		asDataURL("data:image/png;base64,abc"),
		"data URLs pass through unchanged")

	assert.Equal(t,
		"data:image/jpeg;base64,abc",
		asDataURL("abc"),
		"bare base64 gets wrapped")
}

func TestExtractError(t *testing.T) {
	inner := assert.AnError
	err := &ExtractError{Reason: "invalid JSON from model", Wrapped: inner}

	assert.Contains(t, err.Error(), "invalid JSON from model")
	assert.ErrorIs(t, err, inner)

	bare := &ExtractError{Reason: "no JSON object found in model response"}
	assert.Equal(t, "extraction failed: no JSON object found in model response", bare.Error())
}
