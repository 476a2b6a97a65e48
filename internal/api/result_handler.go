package api

import (
	"net/http"

	"github.com/erinskieasy/Intellimark2025/internal/domain/scoring"
	"github.com/erinskieasy/Intellimark2025/internal/store"
)

// ── Response types ──────────────────────────────────────────────────────────

type ResultResponse struct {
	ID              string            `json:"id"`
	TestID          string            `json:"test_id"`
	StudentAnswers  map[string]string `json:"student_answers"`
	PointsEarned    int               `json:"points_earned"`
	TotalPoints     int               `json:"total_points"`
	ScorePercentage int               `json:"score_percentage"`
}

func toResultResponse(r *store.Result) ResultResponse {
	answers := r.StudentAnswers
	if answers == nil {
		answers = map[string]string{}
	}
	return ResultResponse{
		ID:              r.ID,
		TestID:          r.TestID,
		StudentAnswers:  answers,
		PointsEarned:    r.PointsEarned,
		TotalPoints:     r.TotalPoints,
		ScorePercentage: r.ScorePercentage,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /tests/{testID}/score
func (h *Handler) scoreTest(w http.ResponseWriter, r *http.Request) {
	result, err := h.grading.ScoreTest(r.Context(), r.PathValue("testID"))
	if h.handleStoreError(w, err, "test") {
		return
	}

	respondJSON(w, http.StatusOK, toResultResponse(result))
}

// GET /tests/{testID}/result
func (h *Handler) getResult(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	testID := r.PathValue("testID")

	if _, err := h.store.GetTest(ctx, testID); h.handleStoreError(w, err, "test") {
		return
	}

	result, err := h.store.GetCurrentResult(ctx, testID)
	if h.handleStoreError(w, err, "result") {
		return
	}

	respondJSON(w, http.StatusOK, toResultResponse(result))
}

// GET /tests/{testID}/result/details
//
// The breakdown is recomputed from the current mark scheme on every call,
// so a corrected mark scheme is reflected without re-running extraction.
// No recorded result yields an empty list, not an error.
func (h *Handler) getResultDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	testID := r.PathValue("testID")

	if _, err := h.store.GetTest(ctx, testID); h.handleStoreError(w, err, "test") {
		return
	}

	items, err := h.grading.DetailedResults(ctx, testID)
	if h.handleStoreError(w, err, "result") {
		return
	}
	if items == nil {
		items = []scoring.ResultItem{}
	}

	respondJSON(w, http.StatusOK, items)
}
