package api

import (
	"errors"
	"net/http"

	"github.com/erinskieasy/Intellimark2025/internal/domain/markscheme"
)

// ── Request / Response types ────────────────────────────────────────────────

// UploadMarkSchemeRequest carries the rows exactly as the browser parsed
// them from the spreadsheet, plus the user's explicit column mapping.
// Column-name guessing stays in the frontend; the server only ever consumes
// a resolved mapping.
type UploadMarkSchemeRequest struct {
	Headers       []string                 `json:"headers"`
	Rows          []map[string]any         `json:"rows"`
	ColumnMapping markscheme.ColumnMapping `json:"column_mapping"`
}

func (r *UploadMarkSchemeRequest) Validate() error {
	if len(r.Headers) == 0 {
		return errors.New("headers are required")
	}
	if len(r.Rows) == 0 {
		return errors.New("rows are required")
	}
	return nil
}

type UploadMarkSchemeResponse struct {
	Test    TestResponse       `json:"test"`
	Entries []markscheme.Entry `json:"entries"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /tests/{testID}/mark-scheme
//
// Replaces the test's full mark scheme. A bad row fails the whole upload
// with 422 and enough detail (row number, field, raw value) to fix the
// source spreadsheet.
func (h *Handler) uploadMarkScheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	testID := r.PathValue("testID")

	var req UploadMarkSchemeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	test, err := h.grading.UploadMarkScheme(ctx, testID, req.Rows, req.Headers, req.ColumnMapping)
	var mappingErr *markscheme.MappingError
	var rowErr *markscheme.RowError
	switch {
	case errors.As(err, &mappingErr), errors.As(err, &rowErr):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case h.handleStoreError(w, err, "test"):
		return
	}

	entries, err := h.store.GetMarkScheme(ctx, testID)
	if h.handleStoreError(w, err, "mark scheme") {
		return
	}

	respondJSON(w, http.StatusOK, UploadMarkSchemeResponse{
		Test: TestResponse{
			ID:             test.ID,
			Name:           test.Name,
			TotalQuestions: test.TotalQuestions,
			TotalPoints:    test.TotalPoints,
		},
		Entries: entries,
	})
}

// GET /tests/{testID}/mark-scheme
func (h *Handler) getMarkScheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	testID := r.PathValue("testID")

	if _, err := h.store.GetTest(ctx, testID); h.handleStoreError(w, err, "test") {
		return
	}

	entries, err := h.store.GetMarkScheme(ctx, testID)
	if h.handleStoreError(w, err, "mark scheme") {
		return
	}
	if entries == nil {
		entries = []markscheme.Entry{}
	}

	respondJSON(w, http.StatusOK, entries)
}
