package store

import (
	"context"
	"errors"

	"github.com/erinskieasy/Intellimark2025/internal/domain/markscheme"
	"github.com/erinskieasy/Intellimark2025/internal/domain/sheet"
)

var (
	ErrNotFound = errors.New("not found")
)

// Test is one grading session: a name plus totals derived from its mark
// scheme. TotalQuestions and TotalPoints are recomputed on every mark-scheme
// upload — never hand-edited.
type Test struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TotalQuestions int    `json:"total_questions"`
	TotalPoints    int    `json:"total_points"`
}

// Result is the persisted scoring summary for a test, together with the
// merged student answers it was computed from. A test has at most one live
// result; saving a new one supersedes the old.
type Result struct {
	ID              string            `json:"id"`
	TestID          string            `json:"test_id"`
	StudentAnswers  map[string]string `json:"student_answers"`
	PointsEarned    int               `json:"points_earned"`
	TotalPoints     int               `json:"total_points"`
	ScorePercentage int               `json:"score_percentage"`
}

// Store is the repository the workflow runs against. The core scoring
// functions are pure; everything stateful goes through here.
type Store interface {
	// Tests
	CreateTest(ctx context.Context, name string) (*Test, error)
	GetTest(ctx context.Context, id string) (*Test, error)
	ListTests(ctx context.Context) ([]*Test, error)
	DeleteTest(ctx context.Context, id string) error

	// Mark scheme. ReplaceMarkScheme swaps the full entry set for a test in
	// one transaction and refreshes the test's derived totals — a re-upload
	// replaces, never merges. GetMarkScheme returns entries ordered by
	// question number.
	ReplaceMarkScheme(ctx context.Context, testID string, entries []markscheme.Entry) error
	GetMarkScheme(ctx context.Context, testID string) ([]markscheme.Entry, error)

	// Pages. SavePage assigns the next 1-based page number for the test.
	// ListPages returns pages in ascending page-number (capture) order.
	SavePage(ctx context.Context, testID, imageData string) (*sheet.Page, error)
	GetPage(ctx context.Context, id string) (*sheet.Page, error)
	ListPages(ctx context.Context, testID string) ([]sheet.Page, error)
	DeletePage(ctx context.Context, id string) error
	// MarkPageProcessed stores the extraction output and flips Processed.
	MarkPageProcessed(ctx context.Context, id string, answers map[string]string, confidence float64) error

	// Results. SaveResult supersedes any prior result for the same test;
	// GetCurrentResult serves "the current result for test X".
	SaveResult(ctx context.Context, result *Result) error
	GetCurrentResult(ctx context.Context, testID string) (*Result, error)
}
