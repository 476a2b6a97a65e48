package api

import (
	"errors"
	"net/http"
)

// ── Request / Response types ────────────────────────────────────────────────

type CreateTestRequest struct {
	Name string `json:"name"`
}

func (r *CreateTestRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type TestResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TotalQuestions int    `json:"total_questions"`
	TotalPoints    int    `json:"total_points"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// POST /tests
func (h *Handler) createTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateTestRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	test, err := h.store.CreateTest(ctx, req.Name)
	if err != nil {
		h.logger.Error("failed to create test", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create test")
		return
	}

	respondJSON(w, http.StatusCreated, TestResponse{
		ID:             test.ID,
		Name:           test.Name,
		TotalQuestions: test.TotalQuestions,
		TotalPoints:    test.TotalPoints,
	})
}

// GET /tests
func (h *Handler) listTests(w http.ResponseWriter, r *http.Request) {
	tests, err := h.store.ListTests(r.Context())
	if err != nil {
		h.logger.Error("failed to list tests", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load tests")
		return
	}

	response := make([]TestResponse, len(tests))
	for i, t := range tests {
		response[i] = TestResponse{
			ID:             t.ID,
			Name:           t.Name,
			TotalQuestions: t.TotalQuestions,
			TotalPoints:    t.TotalPoints,
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// GET /tests/{testID}
func (h *Handler) getTest(w http.ResponseWriter, r *http.Request) {
	test, err := h.store.GetTest(r.Context(), r.PathValue("testID"))
	if h.handleStoreError(w, err, "test") {
		return
	}

	respondJSON(w, http.StatusOK, TestResponse{
		ID:             test.ID,
		Name:           test.Name,
		TotalQuestions: test.TotalQuestions,
		TotalPoints:    test.TotalPoints,
	})
}

// DELETE /tests/{testID}
func (h *Handler) deleteTest(w http.ResponseWriter, r *http.Request) {
	if h.handleStoreError(w, h.store.DeleteTest(r.Context(), r.PathValue("testID")), "test") {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
