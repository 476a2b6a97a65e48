package scoring_test

import (
	"testing"

	"github.com/erinskieasy/Intellimark2025/internal/domain/markscheme"
	"github.com/erinskieasy/Intellimark2025/internal/domain/scoring"
)

func TestScore_CaseInsensitiveMatch(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		student  string
		correct  bool
	}{
		{"lower vs upper", "a", "A", true},
		{"upper vs lower", "B", "b", true},
		{"exact", "C", "C", true},
		{"mismatch", "A", "B", false},
		{"free text folded", "Paris", "PARIS", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := []markscheme.Entry{{QuestionNumber: 1, ExpectedAnswer: tt.expected, Points: 2}}
			answers := map[string]string{"1": tt.student}

			items, _ := scoring.Score(entries, answers, scoring.DefaultPolicy())

			if items[0].Correct != tt.correct {
				t.Errorf("expected correct=%v for %q vs %q", tt.correct, tt.expected, tt.student)
			}
		})
	}
}

func TestScore_UnansweredDefaultsToEmpty(t *testing.T) {
	entries := []markscheme.Entry{{QuestionNumber: 4, ExpectedAnswer: "D", Points: 3}}

	items, summary := scoring.Score(entries, map[string]string{}, scoring.DefaultPolicy())

	if items[0].StudentAnswer != "" {
		t.Errorf("expected empty student answer, got %q", items[0].StudentAnswer)
	}
	if items[0].Correct {
		t.Error("unanswered question with an expected answer must not score")
	}
	if summary.PointsEarned != 0 {
		t.Errorf("expected 0 points earned, got %d", summary.PointsEarned)
	}
}

func TestScore_EmptyMatchesEmptyPolicy(t *testing.T) {
	// An unanswered question against a mark-scheme row with no recorded
	// answer scores full points under the default policy.
	entries := []markscheme.Entry{{QuestionNumber: 1, ExpectedAnswer: "", Points: 5}}
	answers := map[string]string{"1": ""}

	items, summary := scoring.Score(entries, answers, scoring.DefaultPolicy())
	if !items[0].Correct {
		t.Error("default policy: empty vs empty must score as correct")
	}
	if summary.PointsEarned != 5 {
		t.Errorf("expected 5 points, got %d", summary.PointsEarned)
	}

	strict := scoring.Policy{EmptyMatchesEmpty: false}
	items, summary = scoring.Score(entries, answers, strict)
	if items[0].Correct {
		t.Error("strict policy: empty vs empty must not score")
	}
	if summary.PointsEarned != 0 {
		t.Errorf("expected 0 points, got %d", summary.PointsEarned)
	}
}

func TestScore_EmptyMarkScheme(t *testing.T) {
	items, summary := scoring.Score(nil, map[string]string{"1": "A"}, scoring.DefaultPolicy())

	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
	if summary.TotalPoints != 0 || summary.PointsEarned != 0 || summary.ScorePercentage != 0 {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestScore_Bounds(t *testing.T) {
	entries := []markscheme.Entry{
		{QuestionNumber: 1, ExpectedAnswer: "A", Points: 3},
		{QuestionNumber: 2, ExpectedAnswer: "B", Points: 7},
		{QuestionNumber: 3, ExpectedAnswer: "C", Points: 0},
	}
	answerSets := []map[string]string{
		{},
		{"1": "A"},
		{"1": "A", "2": "B", "3": "C"},
		{"1": "garbage", "2": "", "3": "zzz"},
	}

	for _, answers := range answerSets {
		_, summary := scoring.Score(entries, answers, scoring.DefaultPolicy())

		if summary.PointsEarned < 0 || summary.PointsEarned > summary.TotalPoints {
			t.Errorf("points earned %d out of bounds for total %d", summary.PointsEarned, summary.TotalPoints)
		}
		if summary.ScorePercentage < 0 || summary.ScorePercentage > 100 {
			t.Errorf("percentage %d out of bounds", summary.ScorePercentage)
		}
	}
}

func TestScore_OrderedByQuestionNumber(t *testing.T) {
	entries := []markscheme.Entry{
		{QuestionNumber: 3, ExpectedAnswer: "C", Points: 1},
		{QuestionNumber: 1, ExpectedAnswer: "A", Points: 1},
		{QuestionNumber: 2, ExpectedAnswer: "B", Points: 1},
	}

	items, _ := scoring.Score(entries, map[string]string{}, scoring.DefaultPolicy())

	for i, item := range items {
		if item.QuestionNumber != i+1 {
			t.Errorf("expected question %d at position %d, got %d", i+1, i, item.QuestionNumber)
		}
	}
}

func TestScore_EndToEndScenario(t *testing.T) {
	entries := []markscheme.Entry{
		{QuestionNumber: 1, ExpectedAnswer: "A", Points: 5},
		{QuestionNumber: 2, ExpectedAnswer: "B", Points: 5},
		{QuestionNumber: 3, ExpectedAnswer: "", Points: 5},
	}
	answers := map[string]string{"1": "a", "2": "C", "3": ""}

	items, summary := scoring.Score(entries, answers, scoring.DefaultPolicy())

	wantCorrect := []bool{true, false, true}
	wantEarned := []int{5, 0, 5}
	for i, item := range items {
		if item.Correct != wantCorrect[i] {
			t.Errorf("question %d: expected correct=%v, got %v", item.QuestionNumber, wantCorrect[i], item.Correct)
		}
		if item.EarnedPoints != wantEarned[i] {
			t.Errorf("question %d: expected %d earned, got %d", item.QuestionNumber, wantEarned[i], item.EarnedPoints)
		}
		if item.Points != 5 {
			t.Errorf("question %d: expected 5 points, got %d", item.QuestionNumber, item.Points)
		}
	}

	if summary.PointsEarned != 10 {
		t.Errorf("expected 10 points earned, got %d", summary.PointsEarned)
	}
	if summary.TotalPoints != 15 {
		t.Errorf("expected 15 total points, got %d", summary.TotalPoints)
	}
	if summary.ScorePercentage != 67 {
		t.Errorf("expected 67%%, got %d%%", summary.ScorePercentage)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		earned, total, want int
	}{
		{0, 0, 0},
		{5, 0, 0}, // zero-division convention
		{10, 15, 67},
		{1, 3, 33},
		{2, 3, 67},
		{15, 15, 100},
		{0, 15, 0},
		{1, 2, 50},
	}

	for _, tt := range tests {
		if got := scoring.Percentage(tt.earned, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.earned, tt.total, got, tt.want)
		}
	}
}
