// Package markscheme normalizes raw spreadsheet rows into the canonical
// answer key for a test. Rows arrive exactly as the upload collaborator
// parsed them (arbitrary headers, mixed cell types); the caller supplies an
// explicit column mapping — this package never guesses column names.
package markscheme

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Entry is one canonical mark-scheme row: the question number, the expected
// answer (possibly empty — "no correct answer recorded" is a valid state),
// and the points the question is worth.
type Entry struct {
	QuestionNumber int    `json:"question_number"`
	ExpectedAnswer string `json:"expected_answer"`
	Points         int    `json:"points"`
}

// ColumnMapping assigns spreadsheet column headers to the three mark-scheme
// fields. All three must be set and must exist in the observed headers.
type ColumnMapping struct {
	QuestionNumber string `json:"question_number"`
	ExpectedAnswer string `json:"expected_answer"`
	Points         string `json:"points"`
}

// MappingError reports an unusable column mapping: a field left unset, or a
// mapped header that does not appear in the uploaded data.
type MappingError struct {
	Field  string // mark-scheme field the mapping failed for
	Column string // mapped column name, empty when unset
}

func (e *MappingError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("column mapping: no column assigned for %s", e.Field)
	}
	return fmt.Sprintf("column mapping: column %q (mapped to %s) not found in headers", e.Column, e.Field)
}

// RowError reports a row that could not be coerced into a valid entry.
// Row is 1-based so it matches what the user sees in their spreadsheet.
type RowError struct {
	Row    int
	Field  string
	Value  any
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s (raw value: %v)", e.Row, e.Field, e.Reason, e.Value)
}

// Normalize converts raw rows into an ordered sequence of validated entries.
// Coercion is tolerant (spreadsheets contain "Q1", "10 pts", stray
// whitespace, and the literal text "undefined" from buggy upstream
// serializers); validation after coercion is strict. Any row that fails
// validation aborts the whole batch — a partially-correct mark scheme must
// never enter scoring.
func Normalize(rows []map[string]any, headers []string, mapping ColumnMapping) ([]Entry, error) {
	if err := validateMapping(headers, mapping); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 1

		qn := coerceQuestionNumber(row[mapping.QuestionNumber], rowNum)
		answer := coerceAnswer(row[mapping.ExpectedAnswer])
		points := coercePoints(row[mapping.Points])

		if qn <= 0 {
			return nil, &RowError{Row: rowNum, Field: "question number", Value: row[mapping.QuestionNumber], Reason: "must be a positive integer"}
		}
		if points < 0 {
			return nil, &RowError{Row: rowNum, Field: "points", Value: row[mapping.Points], Reason: "must be a non-negative integer"}
		}

		entries = append(entries, Entry{
			QuestionNumber: qn,
			ExpectedAnswer: answer,
			Points:         points,
		})
	}
	return entries, nil
}

// Totals derives the question and point totals for a set of entries.
// Tests store these denormalized; they are recomputed on every upload and
// never hand-edited.
func Totals(entries []Entry) (totalQuestions, totalPoints int) {
	for _, e := range entries {
		totalPoints += e.Points
	}
	return len(entries), totalPoints
}

// SortByQuestion orders entries by ascending question number, the stable
// order used for scoring, display, and export.
func SortByQuestion(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].QuestionNumber < entries[j].QuestionNumber
	})
}

func validateMapping(headers []string, mapping ColumnMapping) error {
	fields := []struct {
		name   string
		column string
	}{
		{"question number", mapping.QuestionNumber},
		{"expected answer", mapping.ExpectedAnswer},
		{"points", mapping.Points},
	}

	headerSet := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		headerSet[h] = struct{}{}
	}

	for _, f := range fields {
		if f.column == "" {
			return &MappingError{Field: f.name}
		}
		if _, ok := headerSet[f.column]; !ok {
			return &MappingError{Field: f.name, Column: f.column}
		}
	}
	return nil
}

// coerceQuestionNumber turns a raw cell into a question number, falling back
// to the 1-based row index when the cell is missing or yields no digits.
// Decorated values like "Q7" or "1." are common in real spreadsheets.
func coerceQuestionNumber(raw any, rowNum int) int {
	if raw == nil {
		return rowNum
	}
	if n, ok := numericValue(raw); ok {
		return n
	}
	if n, ok := parseDigits(fmt.Sprint(raw)); ok {
		return n
	}
	return rowNum
}

// coerceAnswer turns a raw cell into a canonical expected answer. Missing
// cells and the literal text "undefined" (a leak from an earlier buggy
// serializer) become the empty string. Single-letter answers are uppercased
// — the canonical form for multiple-choice keys; longer strings are kept
// verbatim to support free-text keys.
func coerceAnswer(raw any) string {
	if raw == nil {
		return ""
	}
	s := strings.TrimSpace(fmt.Sprint(raw))
	if strings.EqualFold(s, "undefined") {
		return ""
	}
	runes := []rune(s)
	if len(runes) == 1 && unicode.IsLetter(runes[0]) {
		return strings.ToUpper(s)
	}
	return s
}

// coercePoints turns a raw cell into a point value, defaulting to 1 when the
// cell is missing, empty, or yields no digits.
func coercePoints(raw any) int {
	if raw == nil {
		return 1
	}
	if n, ok := numericValue(raw); ok {
		return n
	}
	s := fmt.Sprint(raw)
	if strings.TrimSpace(s) == "" {
		return 1
	}
	if n, ok := parseDigits(s); ok {
		return n
	}
	return 1
}

// numericValue extracts an int from the numeric types JSON decoding and
// spreadsheet parsers produce. Fractions truncate toward zero.
func numericValue(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case float32:
		return int(v), true
	default:
		return 0, false
	}
}

// parseDigits strips every non-digit rune and parses what remains.
// Returns false when the string contains no digits.
func parseDigits(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}
