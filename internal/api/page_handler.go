package api

import (
	"errors"
	"net/http"

	"github.com/erinskieasy/Intellimark2025/internal/domain/sheet"
	"github.com/erinskieasy/Intellimark2025/internal/extractor"
)

// ── Request / Response types ────────────────────────────────────────────────

type CapturePageRequest struct {
	ImageData string `json:"image_data"` // base64 data URL from the camera
}

func (r *CapturePageRequest) Validate() error {
	if r.ImageData == "" {
		return errors.New("image_data is required")
	}
	return nil
}

// PageResponse omits the image payload; clients that captured the page
// already hold it, and listing pages should stay cheap.
type PageResponse struct {
	ID               string            `json:"id"`
	TestID           string            `json:"test_id"`
	PageNumber       int               `json:"page_number"`
	Processed        bool              `json:"processed"`
	ExtractedAnswers map[string]string `json:"extracted_answers"`
	Confidence       float64           `json:"confidence"`
}

func toPageResponse(p sheet.Page) PageResponse {
	answers := p.ExtractedAnswers
	if answers == nil {
		answers = map[string]string{}
	}
	return PageResponse{
		ID:               p.ID,
		TestID:           p.TestID,
		PageNumber:       p.PageNumber,
		Processed:        p.Processed,
		ExtractedAnswers: answers,
		Confidence:       p.Confidence,
	}
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /tests/{testID}/pages
func (h *Handler) capturePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	testID := r.PathValue("testID")

	var req CapturePageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	page, err := h.store.SavePage(ctx, testID, req.ImageData)
	if h.handleStoreError(w, err, "test") {
		return
	}

	respondJSON(w, http.StatusCreated, toPageResponse(*page))
}

// GET /tests/{testID}/pages
func (h *Handler) listPages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	testID := r.PathValue("testID")

	if _, err := h.store.GetTest(ctx, testID); h.handleStoreError(w, err, "test") {
		return
	}

	pages, err := h.store.ListPages(ctx, testID)
	if h.handleStoreError(w, err, "pages") {
		return
	}

	response := make([]PageResponse, len(pages))
	for i, p := range pages {
		response[i] = toPageResponse(p)
	}

	respondJSON(w, http.StatusOK, response)
}

// DELETE /tests/{testID}/pages/{pageID}
func (h *Handler) deletePage(w http.ResponseWriter, r *http.Request) {
	if h.handleStoreError(w, h.store.DeletePage(r.Context(), r.PathValue("pageID")), "page") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /tests/{testID}/pages/{pageID}/process
//
// Runs vision extraction for one page. The capture UI calls this once per
// page, in page order — extraction of the next page does not start until
// this call returns.
func (h *Handler) processPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	testID := r.PathValue("testID")
	pageID := r.PathValue("pageID")

	page, err := h.grading.ProcessPage(ctx, testID, pageID)
	if h.handleExtractionError(w, err, "page") {
		return
	}

	respondJSON(w, http.StatusOK, toPageResponse(*page))
}

// POST /tests/{testID}/process
func (h *Handler) processPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	testID := r.PathValue("testID")

	if _, err := h.store.GetTest(ctx, testID); h.handleStoreError(w, err, "test") {
		return
	}

	pages, err := h.grading.ProcessPending(ctx, testID)
	if h.handleExtractionError(w, err, "pages") {
		return
	}

	response := make([]PageResponse, len(pages))
	for i, p := range pages {
		response[i] = toPageResponse(p)
	}

	respondJSON(w, http.StatusOK, response)
}

// handleExtractionError maps extraction failures to 502 (the upstream
// vision service misbehaved) and falls back to store-error handling.
func (h *Handler) handleExtractionError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	var extractErr *extractor.ExtractError
	if errors.As(err, &extractErr) {
		h.logger.Error("extraction error", "error", err)
		respondError(w, http.StatusBadGateway, err.Error())
		return true
	}
	return h.handleStoreError(w, err, entity)
}
