// internal/api/routes.go
package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Tests
	mux.HandleFunc("POST /tests", h.createTest)
	mux.HandleFunc("GET /tests", h.listTests)
	mux.HandleFunc("GET /tests/{testID}", h.getTest)
	mux.HandleFunc("DELETE /tests/{testID}", h.deleteTest)

	// Mark scheme
	mux.HandleFunc("POST /tests/{testID}/mark-scheme", h.uploadMarkScheme)
	mux.HandleFunc("GET /tests/{testID}/mark-scheme", h.getMarkScheme)

	// Pages
	mux.HandleFunc("POST /tests/{testID}/pages", h.capturePage)
	mux.HandleFunc("GET /tests/{testID}/pages", h.listPages)
	mux.HandleFunc("DELETE /tests/{testID}/pages/{pageID}", h.deletePage)
	mux.HandleFunc("POST /tests/{testID}/pages/{pageID}/process", h.processPage)
	mux.HandleFunc("POST /tests/{testID}/process", h.processPending)

	// Scoring and results
	mux.HandleFunc("POST /tests/{testID}/score", h.scoreTest)
	mux.HandleFunc("GET /tests/{testID}/result", h.getResult)
	mux.HandleFunc("GET /tests/{testID}/result/details", h.getResultDetails)

	// Export
	mux.HandleFunc("GET /tests/{testID}/export", h.exportTest)
	mux.HandleFunc("GET /tests/{testID}/export/pdf", h.exportTestPDF)
}
