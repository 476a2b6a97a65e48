// internal/service/grading.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/erinskieasy/Intellimark2025/internal/domain/markscheme"
	"github.com/erinskieasy/Intellimark2025/internal/domain/scoring"
	"github.com/erinskieasy/Intellimark2025/internal/domain/sheet"
	"github.com/erinskieasy/Intellimark2025/internal/extractor"
	"github.com/erinskieasy/Intellimark2025/internal/store"
	"github.com/erinskieasy/Intellimark2025/internal/worker"
)

// extractOutcome carries one extraction call's result through the queue.
type extractOutcome struct {
	extraction *extractor.Extraction
	err        error
}

// GradingService drives the grading workflow: mark-scheme uploads, page
// extraction, scoring, and result materialization. It owns a per-test lock
// so there is one logical writer per test at a time, and an extraction
// queue so calls to the vision model run one at a time.
type GradingService struct {
	store     store.Store
	extractor extractor.Extractor
	queue     *worker.Pool[extractOutcome]
	logger    *slog.Logger

	// Advisory only: extractions below this confidence are logged, never blocked.
	confidenceWarnBelow float64

	mu    sync.Mutex
	locks map[string]*sync.Mutex // testID → lock
}

// NewGradingService creates a GradingService. extractWorkers is the number
// of concurrent vision calls; 1 keeps extraction strictly sequential.
func NewGradingService(s store.Store, e extractor.Extractor, logger *slog.Logger, extractWorkers int, confidenceWarnBelow float64) *GradingService {
	return &GradingService{
		store:               s,
		extractor:           e,
		queue:               worker.NewPool[extractOutcome](extractWorkers, 16),
		logger:              logger,
		confidenceWarnBelow: confidenceWarnBelow,
		locks:               make(map[string]*sync.Mutex),
	}
}

// testLock returns the mutex serializing writers for one test.
func (gs *GradingService) testLock(testID string) *sync.Mutex {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	l, ok := gs.locks[testID]
	if !ok {
		l = &sync.Mutex{}
		gs.locks[testID] = l
	}
	return l
}

// ============================================================================
// Mark scheme
// ============================================================================

// UploadMarkScheme normalizes raw spreadsheet rows and replaces the test's
// mark scheme with the result. All-or-nothing: a single bad row fails the
// whole upload, and the stored scheme is left untouched. Returns the test
// with refreshed totals.
func (gs *GradingService) UploadMarkScheme(ctx context.Context, testID string, rows []map[string]any, headers []string, mapping markscheme.ColumnMapping) (*store.Test, error) {
	entries, err := markscheme.Normalize(rows, headers, mapping)
	if err != nil {
		return nil, err
	}

	lock := gs.testLock(testID)
	lock.Lock()
	defer lock.Unlock()

	if err := gs.store.ReplaceMarkScheme(ctx, testID, entries); err != nil {
		return nil, err
	}

	test, err := gs.store.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	gs.logger.Info("mark scheme uploaded",
		"test_id", testID,
		"questions", test.TotalQuestions,
		"total_points", test.TotalPoints,
	)
	return test, nil
}

// ============================================================================
// Page extraction
// ============================================================================

// ProcessPage runs extraction for one captured page and stores the answers
// the model read. An already-processed page is a no-op returning the stored
// state — processed flips exactly once.
func (gs *GradingService) ProcessPage(ctx context.Context, testID, pageID string) (*sheet.Page, error) {
	lock := gs.testLock(testID)
	lock.Lock()
	defer lock.Unlock()

	return gs.processPage(ctx, testID, pageID)
}

// ProcessPending runs extraction for every unprocessed page of a test in
// ascending page order. Strictly sequential: page N+1 is not sent until
// page N's result is applied, which the merge's last-write-wins invariant
// depends on. The first failure aborts the loop; already-applied pages stay
// applied.
func (gs *GradingService) ProcessPending(ctx context.Context, testID string) ([]sheet.Page, error) {
	lock := gs.testLock(testID)
	lock.Lock()
	defer lock.Unlock()

	pages, err := gs.store.ListPages(ctx, testID)
	if err != nil {
		return nil, err
	}

	processed := make([]sheet.Page, 0, len(pages))
	for _, p := range pages {
		if p.Processed {
			continue
		}
		page, err := gs.processPage(ctx, testID, p.ID)
		if err != nil {
			return processed, fmt.Errorf("page %d: %w", p.PageNumber, err)
		}
		processed = append(processed, *page)
	}
	return processed, nil
}

func (gs *GradingService) processPage(ctx context.Context, testID, pageID string) (*sheet.Page, error) {
	page, err := gs.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if page.TestID != testID {
		return nil, store.ErrNotFound
	}
	if page.Processed {
		return page, nil
	}

	outcome := gs.queue.Do(func() extractOutcome {
		ext, err := gs.extractor.Extract(ctx, page.ImageData)
		return extractOutcome{extraction: ext, err: err}
	})
	if outcome.err != nil {
		gs.logger.Error("extraction failed",
			"test_id", testID,
			"page_id", pageID,
			"page_number", page.PageNumber,
			"error", outcome.err,
		)
		return nil, outcome.err
	}

	ext := outcome.extraction
	if ext.Confidence < gs.confidenceWarnBelow {
		gs.logger.Warn("low extraction confidence",
			"test_id", testID,
			"page_number", page.PageNumber,
			"confidence", ext.Confidence,
		)
	}

	if err := gs.store.MarkPageProcessed(ctx, pageID, ext.Answers, ext.Confidence); err != nil {
		return nil, err
	}

	page.Processed = true
	page.ExtractedAnswers = ext.Answers
	page.Confidence = ext.Confidence

	gs.logger.Info("page processed",
		"test_id", testID,
		"page_number", page.PageNumber,
		"answers", len(ext.Answers),
		"confidence", ext.Confidence,
	)
	return page, nil
}

// ============================================================================
// Scoring and result materialization
// ============================================================================

// ScoreTest merges the test's extracted pages into one student-answer set,
// scores it against the current mark scheme, and records the summary as the
// test's current result, superseding any prior one. An empty mark scheme is
// a valid degenerate state and records a zero result.
func (gs *GradingService) ScoreTest(ctx context.Context, testID string) (*store.Result, error) {
	lock := gs.testLock(testID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := gs.store.GetTest(ctx, testID); err != nil {
		return nil, err
	}

	entries, err := gs.store.GetMarkScheme(ctx, testID)
	if err != nil {
		return nil, err
	}
	pages, err := gs.store.ListPages(ctx, testID)
	if err != nil {
		return nil, err
	}

	answers := sheet.MergeAnswers(pages)
	_, summary := scoring.Score(entries, answers, scoring.DefaultPolicy())

	result := &store.Result{
		TestID:          testID,
		StudentAnswers:  answers,
		PointsEarned:    summary.PointsEarned,
		TotalPoints:     summary.TotalPoints,
		ScorePercentage: summary.ScorePercentage,
	}
	if err := gs.store.SaveResult(ctx, result); err != nil {
		return nil, err
	}

	gs.logger.Info("test scored",
		"test_id", testID,
		"points_earned", summary.PointsEarned,
		"total_points", summary.TotalPoints,
		"percentage", summary.ScorePercentage,
	)
	return result, nil
}

// DetailedResults recomputes the per-question breakdown from the current
// mark scheme and the student answers of the most recently recorded result.
// Recomputing (instead of caching ResultItems) means a mark-scheme
// correction shows up without re-running extraction. No recorded result →
// empty list, since that is an expected state mid-workflow.
func (gs *GradingService) DetailedResults(ctx context.Context, testID string) ([]scoring.ResultItem, error) {
	result, err := gs.store.GetCurrentResult(ctx, testID)
	if errors.Is(err, store.ErrNotFound) {
		return []scoring.ResultItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	entries, err := gs.store.GetMarkScheme(ctx, testID)
	if err != nil {
		return nil, err
	}

	items, _ := scoring.Score(entries, result.StudentAnswers, scoring.DefaultPolicy())
	return items, nil
}
