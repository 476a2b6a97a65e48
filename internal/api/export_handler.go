package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/erinskieasy/Intellimark2025/internal/domain/markscheme"
	"github.com/erinskieasy/Intellimark2025/internal/domain/scoring"
	"github.com/erinskieasy/Intellimark2025/internal/store"
)

// ── Response types ──────────────────────────────────────────────────────────

type ExportData struct {
	Version    string               `json:"version"`
	ExportedAt string               `json:"exported_at"`
	Test       TestResponse         `json:"test"`
	MarkScheme []markscheme.Entry   `json:"mark_scheme"`
	Result     *ResultResponse      `json:"result,omitempty"`
	Details    []scoring.ResultItem `json:"details"`
}

// PDF layout constants (A4, portrait, millimetres).
const (
	pdfMargin         = 25
	pdfTopMargin      = 20
	summaryCellWidth  = 65
	summaryCellHeight = 7
	tableRowHeight    = 8
	spacingLarge      = 12
	spacingSmall      = 6
)

// ── Handlers ────────────────────────────────────────────────────────────────

// GET /tests/{testID}/export
//
// Full JSON snapshot of a test: mark scheme, current result, and the
// recomputed per-question breakdown. Downloadable, like the app's PDF
// export but machine-readable.
func (h *Handler) exportTest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	testID := r.PathValue("testID")

	test, err := h.store.GetTest(ctx, testID)
	if h.handleStoreError(w, err, "test") {
		return
	}

	entries, err := h.store.GetMarkScheme(ctx, testID)
	if h.handleStoreError(w, err, "mark scheme") {
		return
	}
	if entries == nil {
		entries = []markscheme.Entry{}
	}

	exportData := ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Test: TestResponse{
			ID:             test.ID,
			Name:           test.Name,
			TotalQuestions: test.TotalQuestions,
			TotalPoints:    test.TotalPoints,
		},
		MarkScheme: entries,
		Details:    []scoring.ResultItem{},
	}

	result, err := h.store.GetCurrentResult(ctx, testID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.handleStoreError(w, err, "result")
		return
	}
	if result != nil {
		resp := toResultResponse(result)
		exportData.Result = &resp

		details, err := h.grading.DetailedResults(ctx, testID)
		if h.handleStoreError(w, err, "result") {
			return
		}
		exportData.Details = details
	}

	w.Header().Set("Content-Disposition", "attachment; filename=intellimark-export.json")
	respondJSON(w, http.StatusOK, exportData)
}

// GET /tests/{testID}/export/pdf
func (h *Handler) exportTestPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	testID := r.PathValue("testID")

	test, err := h.store.GetTest(ctx, testID)
	if h.handleStoreError(w, err, "test") {
		return
	}

	result, err := h.store.GetCurrentResult(ctx, testID)
	if h.handleStoreError(w, err, "result") {
		return
	}

	details, err := h.grading.DetailedResults(ctx, testID)
	if h.handleStoreError(w, err, "result") {
		return
	}

	pdf := buildResultPDF(test, result, details)

	filename := strings.ReplaceAll(fmt.Sprintf("%s_results.pdf", test.Name), " ", "_")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := pdf.Output(w); err != nil {
		h.logger.Error("pdf generation failed", "test_id", testID, "error", err)
	}
}

func buildResultPDF(test *store.Test, result *store.Result, details []scoring.ResultItem) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfTopMargin, pdfMargin)
	pdf.AddPage()

	pdf.SetFont("Times", "B", 20)
	pdf.CellFormat(0, 10, test.Name, "", 0, "C", false, 0, "")
	pdf.Ln(spacingLarge)

	pdf.SetFont("Times", "B", 14)
	pdf.Cell(summaryCellWidth, summaryCellHeight, "Points earned:")
	pdf.Cell(summaryCellWidth, summaryCellHeight, fmt.Sprintf("%d / %d", result.PointsEarned, result.TotalPoints))
	pdf.Ln(summaryCellHeight)
	pdf.Cell(summaryCellWidth, summaryCellHeight, "Score:")
	pdf.Cell(summaryCellWidth, summaryCellHeight, fmt.Sprintf("%d%%", result.ScorePercentage))
	pdf.Ln(spacingLarge)

	header := []string{"Nr.", "Student", "Expected", "Points", "Earned", ""}
	widths := []float64{16, 45, 45, 20, 20, 14}

	pdf.SetFont("Times", "B", 12)
	pdf.SetFillColor(255, 255, 255)
	for i, str := range header {
		pdf.CellFormat(widths[i], tableRowHeight, str, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Times", "", 12)
	for _, item := range details {
		mark := "x"
		if item.Correct {
			mark = "ok"
		}
		cells := []string{
			fmt.Sprintf("%d", item.QuestionNumber),
			item.StudentAnswer,
			item.ExpectedAnswer,
			fmt.Sprintf("%d", item.Points),
			fmt.Sprintf("%d", item.EarnedPoints),
			mark,
		}
		for i, str := range cells {
			pdf.CellFormat(widths[i], tableRowHeight, str, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(spacingSmall)
	pdf.SetFont("Times", "I", 10)
	pdf.Cell(0, summaryCellHeight, fmt.Sprintf("Generated %s", time.Now().UTC().Format(time.RFC3339)))

	return pdf
}
