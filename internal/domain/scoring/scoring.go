// Package scoring joins a canonical mark scheme with a merged student-answer
// map and produces per-question outcomes plus summary totals. Every function
// here is a total, deterministic transform: extracted answers are untrusted
// input, and garbage in them must yield zero-valued results, never errors.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/erinskieasy/Intellimark2025/internal/domain/markscheme"
)

// ResultItem is the per-question comparison of student vs. expected answer.
// It is always derived fresh from the current mark scheme and answers —
// never persisted — so a corrected mark scheme is reflected without
// re-running extraction.
type ResultItem struct {
	QuestionNumber int    `json:"question_number"`
	StudentAnswer  string `json:"student_answer"`
	ExpectedAnswer string `json:"expected_answer"`
	Points         int    `json:"points"`
	EarnedPoints   int    `json:"earned_points"`
	Correct        bool   `json:"correct"`
}

// Summary is the scored total for one test.
type Summary struct {
	PointsEarned    int `json:"points_earned"`
	TotalPoints     int `json:"total_points"`
	ScorePercentage int `json:"score_percentage"` // 0–100, 0 when TotalPoints is 0
}

// Policy controls the comparison rule for questions with no recorded
// expected answer: when EmptyMatchesEmpty is set, an unanswered question
// against an empty expected answer scores full points.
type Policy struct {
	EmptyMatchesEmpty bool
}

// DefaultPolicy returns the policy the grading workflow runs with.
func DefaultPolicy() Policy {
	return Policy{EmptyMatchesEmpty: true}
}

// Score walks the mark scheme in ascending question-number order, compares
// each expected answer against the student's (case-insensitively), and
// returns the per-question items plus totals. An empty mark scheme is a
// valid degenerate state and yields an empty list with a zero summary.
func Score(entries []markscheme.Entry, answers map[string]string, policy Policy) ([]ResultItem, Summary) {
	ordered := make([]markscheme.Entry, len(entries))
	copy(ordered, entries)
	markscheme.SortByQuestion(ordered)

	items := make([]ResultItem, 0, len(ordered))
	var summary Summary

	for _, entry := range ordered {
		student := answers[strconv.Itoa(entry.QuestionNumber)]
		correct := matches(entry.ExpectedAnswer, student, policy)

		earned := 0
		if correct {
			earned = entry.Points
		}

		items = append(items, ResultItem{
			QuestionNumber: entry.QuestionNumber,
			StudentAnswer:  student,
			ExpectedAnswer: entry.ExpectedAnswer,
			Points:         entry.Points,
			EarnedPoints:   earned,
			Correct:        correct,
		})

		summary.TotalPoints += entry.Points
		summary.PointsEarned += earned
	}

	summary.ScorePercentage = Percentage(summary.PointsEarned, summary.TotalPoints)
	return items, summary
}

// Percentage computes round(100 * earned / total) with the zero-total
// convention of 0 — an empty mark scheme must not divide by zero.
func Percentage(earned, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(earned) / float64(total)))
}

func matches(expected, student string, policy Policy) bool {
	if expected == "" && student == "" {
		return policy.EmptyMatchesEmpty
	}
	return strings.ToUpper(expected) == strings.ToUpper(student)
}
