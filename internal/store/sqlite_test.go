package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erinskieasy/Intellimark2025/internal/domain/markscheme"
	"github.com/erinskieasy/Intellimark2025/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetTest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateTest(ctx, "Biology Midterm")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.GetTest(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Biology Midterm", got.Name)
	assert.Equal(t, 0, got.TotalQuestions)
	assert.Equal(t, 0, got.TotalPoints)
}

func TestGetTest_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTest(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReplaceMarkScheme_ReplacesNotMerges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	test, err := s.CreateTest(ctx, "History")
	require.NoError(t, err)

	first := []markscheme.Entry{
		{QuestionNumber: 1, ExpectedAnswer: "A", Points: 2},
		{QuestionNumber: 2, ExpectedAnswer: "B", Points: 2},
	}
	require.NoError(t, s.ReplaceMarkScheme(ctx, test.ID, first))

	second := []markscheme.Entry{
		{QuestionNumber: 1, ExpectedAnswer: "C", Points: 10},
	}
	require.NoError(t, s.ReplaceMarkScheme(ctx, test.ID, second))

	entries, err := s.GetMarkScheme(ctx, test.ID)
	require.NoError(t, err)

	// Only the second upload's entries survive: no duplicates, no merge
	require.Len(t, entries, 1)
	assert.Equal(t, "C", entries[0].ExpectedAnswer)
	assert.Equal(t, 10, entries[0].Points)

	refreshed, err := s.GetTest(ctx, test.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.TotalQuestions)
	assert.Equal(t, 10, refreshed.TotalPoints)
}

func TestReplaceMarkScheme_UnknownTest(t *testing.T) {
	s := newTestStore(t)

	err := s.ReplaceMarkScheme(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetMarkScheme_OrderedByQuestionNumber(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	test, err := s.CreateTest(ctx, "Physics")
	require.NoError(t, err)

	unordered := []markscheme.Entry{
		{QuestionNumber: 3, ExpectedAnswer: "C", Points: 1},
		{QuestionNumber: 1, ExpectedAnswer: "A", Points: 1},
		{QuestionNumber: 2, ExpectedAnswer: "B", Points: 1},
	}
	require.NoError(t, s.ReplaceMarkScheme(ctx, test.ID, unordered))

	entries, err := s.GetMarkScheme(ctx, test.ID)
	require.NoError(t, err)

	for i, e := range entries {
		assert.Equal(t, i+1, e.QuestionNumber)
	}
}

func TestSavePage_AssignsSequentialPageNumbers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	test, err := s.CreateTest(ctx, "Chemistry")
	require.NoError(t, err)

	p1, err := s.SavePage(ctx, test.ID, "img-1")
	require.NoError(t, err)
	p2, err := s.SavePage(ctx, test.ID, "img-2")
	require.NoError(t, err)

	assert.Equal(t, 1, p1.PageNumber)
	assert.Equal(t, 2, p2.PageNumber)
	assert.False(t, p1.Processed)
	assert.Empty(t, p1.ExtractedAnswers)

	// Page numbers are scoped per test
	other, err := s.CreateTest(ctx, "Other")
	require.NoError(t, err)
	p, err := s.SavePage(ctx, other.ID, "img-3")
	require.NoError(t, err)
	assert.Equal(t, 1, p.PageNumber)
}

func TestMarkPageProcessed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	test, err := s.CreateTest(ctx, "Geo")
	require.NoError(t, err)
	page, err := s.SavePage(ctx, test.ID, "img")
	require.NoError(t, err)

	answers := map[string]string{"1": "A", "2": ""}
	require.NoError(t, s.MarkPageProcessed(ctx, page.ID, answers, 0.87))

	got, err := s.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.True(t, got.Processed)
	assert.Equal(t, answers, got.ExtractedAnswers)
	assert.InDelta(t, 0.87, got.Confidence, 1e-9)
}

func TestListPages_CaptureOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	test, err := s.CreateTest(ctx, "Bio")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := s.SavePage(ctx, test.ID, "img")
		require.NoError(t, err)
	}

	pages, err := s.ListPages(ctx, test.ID)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i+1, p.PageNumber)
	}
}

func TestSaveResult_SupersedesPrior(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	test, err := s.CreateTest(ctx, "Math")
	require.NoError(t, err)

	first := &store.Result{
		TestID:          test.ID,
		StudentAnswers:  map[string]string{"1": "A"},
		PointsEarned:    2,
		TotalPoints:     10,
		ScorePercentage: 20,
	}
	require.NoError(t, s.SaveResult(ctx, first))

	second := &store.Result{
		TestID:          test.ID,
		StudentAnswers:  map[string]string{"1": "B"},
		PointsEarned:    10,
		TotalPoints:     10,
		ScorePercentage: 100,
	}
	require.NoError(t, s.SaveResult(ctx, second))

	current, err := s.GetCurrentResult(ctx, test.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, 100, current.ScorePercentage)
	assert.Equal(t, map[string]string{"1": "B"}, current.StudentAnswers)
}

func TestGetCurrentResult_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	test, err := s.CreateTest(ctx, "Empty")
	require.NoError(t, err)

	_, err = s.GetCurrentResult(ctx, test.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteTest_CascadesOwnedRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	test, err := s.CreateTest(ctx, "Doomed")
	require.NoError(t, err)
	require.NoError(t, s.ReplaceMarkScheme(ctx, test.ID, []markscheme.Entry{
		{QuestionNumber: 1, ExpectedAnswer: "A", Points: 1},
	}))
	page, err := s.SavePage(ctx, test.ID, "img")
	require.NoError(t, err)
	require.NoError(t, s.SaveResult(ctx, &store.Result{TestID: test.ID, StudentAnswers: map[string]string{}}))

	require.NoError(t, s.DeleteTest(ctx, test.ID))

	_, err = s.GetTest(ctx, test.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetPage(ctx, page.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	entries, err := s.GetMarkScheme(ctx, test.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
