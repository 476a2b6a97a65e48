// Package sheet holds the captured answer-sheet page record and the
// aggregation of per-page extracted answers into one student-answer set.
package sheet

import "sort"

// Page is one captured photograph of a student's answer sheet. PageNumber
// is a 1-based sequence assigned at capture time, in capture order, scoped
// to the owning test. Processed flips to true exactly once, when extraction
// succeeds; until then ExtractedAnswers is empty.
type Page struct {
	ID               string            `json:"id"`
	TestID           string            `json:"test_id"`
	PageNumber       int               `json:"page_number"`
	ImageData        string            `json:"image_data,omitempty"`
	Processed        bool              `json:"processed"`
	ExtractedAnswers map[string]string `json:"extracted_answers"`
	Confidence       float64           `json:"confidence"`
}

// MergeAnswers folds the extracted answers of all pages into a single
// questionNumber → answer map. Pages are folded in ascending PageNumber
// order regardless of input order, so when two pages report the same
// question the answer from the highest page number wins — a retake photo
// supersedes the original. Answer content passes through unvalidated;
// judging it is the scorer's job.
func MergeAnswers(pages []Page) map[string]string {
	ordered := make([]Page, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PageNumber < ordered[j].PageNumber
	})

	merged := make(map[string]string)
	for _, p := range ordered {
		for question, answer := range p.ExtractedAnswers {
			merged[question] = answer
		}
	}
	return merged
}
