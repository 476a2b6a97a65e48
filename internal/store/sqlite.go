// internal/store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "modernc.org/sqlite"

	"github.com/erinskieasy/Intellimark2025/internal/domain/markscheme"
	"github.com/erinskieasy/Intellimark2025/internal/domain/sheet"
	"github.com/erinskieasy/Intellimark2025/internal/id"
)

const schema = `
CREATE TABLE IF NOT EXISTS tests (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    total_questions INTEGER NOT NULL DEFAULT 0,
    total_points INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS mark_scheme_entries (
    test_id TEXT NOT NULL,
    question_number INTEGER NOT NULL,
    expected_answer TEXT NOT NULL,
    points INTEGER NOT NULL,
    PRIMARY KEY (test_id, question_number),
    FOREIGN KEY (test_id) REFERENCES tests(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS pages (
    id TEXT PRIMARY KEY,
    test_id TEXT NOT NULL,
    page_number INTEGER NOT NULL,
    image_data TEXT NOT NULL,
    processed INTEGER NOT NULL DEFAULT 0,
    extracted_answers TEXT NOT NULL DEFAULT '{}',
    confidence REAL NOT NULL DEFAULT 0,
    FOREIGN KEY (test_id) REFERENCES tests(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS results (
    id TEXT PRIMARY KEY,
    test_id TEXT NOT NULL UNIQUE,
    student_answers TEXT NOT NULL DEFAULT '{}',
    points_earned INTEGER NOT NULL,
    total_points INTEGER NOT NULL,
    score_percentage INTEGER NOT NULL,
    FOREIGN KEY (test_id) REFERENCES tests(id) ON DELETE CASCADE
);
`

type SQLiteStore struct {
	db *sql.DB
}

// Compile-time check: *SQLiteStore satisfies the Store interface.
var _ Store = (*SQLiteStore)(nil)

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Tests
// ============================================================================

func (s *SQLiteStore) CreateTest(ctx context.Context, name string) (*Test, error) {
	t := &Test{ID: id.GenerateID(), Name: name}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tests (id, name, total_questions, total_points) VALUES (?, ?, 0, 0)",
		t.ID, t.Name,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *SQLiteStore) GetTest(ctx context.Context, testID string) (*Test, error) {
	var t Test
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, total_questions, total_points FROM tests WHERE id = ?", testID,
	).Scan(&t.ID, &t.Name, &t.TotalQuestions, &t.TotalPoints)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLiteStore) ListTests(ctx context.Context) ([]*Test, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, total_questions, total_points FROM tests")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []*Test
	for rows.Next() {
		var t Test
		if err := rows.Scan(&t.ID, &t.Name, &t.TotalQuestions, &t.TotalPoints); err != nil {
			return nil, err
		}
		tests = append(tests, &t)
	}
	return tests, rows.Err()
}

func (s *SQLiteStore) DeleteTest(ctx context.Context, testID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// A test owns its mark scheme, pages, and result
	if _, err := tx.ExecContext(ctx, "DELETE FROM mark_scheme_entries WHERE test_id = ?", testID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE test_id = ?", testID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM results WHERE test_id = ?", testID); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM tests WHERE id = ?", testID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// ============================================================================
// Mark scheme
// ============================================================================

func (s *SQLiteStore) ReplaceMarkScheme(ctx context.Context, testID string, entries []markscheme.Entry) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM tests WHERE id = ?", testID).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Re-upload replaces the full set: no merge, no duplicate detection
	if _, err := tx.ExecContext(ctx, "DELETE FROM mark_scheme_entries WHERE test_id = ?", testID); err != nil {
		return err
	}

	for _, e := range entries {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO mark_scheme_entries (test_id, question_number, expected_answer, points) VALUES (?, ?, ?, ?)",
			testID, e.QuestionNumber, e.ExpectedAnswer, e.Points,
		)
		if err != nil {
			return err
		}
	}

	totalQuestions, totalPoints := markscheme.Totals(entries)
	if _, err := tx.ExecContext(ctx,
		"UPDATE tests SET total_questions = ?, total_points = ? WHERE id = ?",
		totalQuestions, totalPoints, testID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetMarkScheme(ctx context.Context, testID string) ([]markscheme.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT question_number, expected_answer, points FROM mark_scheme_entries WHERE test_id = ? ORDER BY question_number",
		testID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []markscheme.Entry
	for rows.Next() {
		var e markscheme.Entry
		if err := rows.Scan(&e.QuestionNumber, &e.ExpectedAnswer, &e.Points); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ============================================================================
// Pages
// ============================================================================

func (s *SQLiteStore) SavePage(ctx context.Context, testID, imageData string) (*sheet.Page, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM tests WHERE id = ?", testID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Page numbers are a 1-based capture-order sequence scoped to the test
	var pageNumber int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(page_number), 0) + 1 FROM pages WHERE test_id = ?", testID,
	).Scan(&pageNumber)
	if err != nil {
		return nil, err
	}

	page := &sheet.Page{
		ID:               id.GenerateID(),
		TestID:           testID,
		PageNumber:       pageNumber,
		ImageData:        imageData,
		Processed:        false,
		ExtractedAnswers: map[string]string{},
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO pages (id, test_id, page_number, image_data) VALUES (?, ?, ?, ?)",
		page.ID, page.TestID, page.PageNumber, page.ImageData,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *SQLiteStore) GetPage(ctx context.Context, pageID string) (*sheet.Page, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, test_id, page_number, image_data, processed, extracted_answers, confidence FROM pages WHERE id = ?",
		pageID,
	)
	page, err := scanPage(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (s *SQLiteStore) ListPages(ctx context.Context, testID string) ([]sheet.Page, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, test_id, page_number, image_data, processed, extracted_answers, confidence FROM pages WHERE test_id = ? ORDER BY page_number",
		testID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []sheet.Page
	for rows.Next() {
		page, err := scanPage(rows.Scan)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *page)
	}
	return pages, rows.Err()
}

func (s *SQLiteStore) DeletePage(ctx context.Context, pageID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE id = ?", pageID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) MarkPageProcessed(ctx context.Context, pageID string, answers map[string]string, confidence float64) error {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE pages SET processed = 1, extracted_answers = ?, confidence = ? WHERE id = ?",
		string(answersJSON), confidence, pageID,
	)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPage(scan func(...any) error) (*sheet.Page, error) {
	var page sheet.Page
	var processed int
	var answersJSON string
	if err := scan(&page.ID, &page.TestID, &page.PageNumber, &page.ImageData, &processed, &answersJSON, &page.Confidence); err != nil {
		return nil, err
	}
	page.Processed = processed != 0
	page.ExtractedAnswers = map[string]string{}
	if err := json.Unmarshal([]byte(answersJSON), &page.ExtractedAnswers); err != nil {
		return nil, err
	}
	return &page, nil
}

// ============================================================================
// Results
// ============================================================================

func (s *SQLiteStore) SaveResult(ctx context.Context, result *Result) error {
	answersJSON, err := json.Marshal(result.StudentAnswers)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The latest result supersedes any prior one for the test
	if _, err := tx.ExecContext(ctx, "DELETE FROM results WHERE test_id = ?", result.TestID); err != nil {
		return err
	}

	if result.ID == "" {
		result.ID = id.GenerateID()
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO results (id, test_id, student_answers, points_earned, total_points, score_percentage) VALUES (?, ?, ?, ?, ?, ?)",
		result.ID, result.TestID, string(answersJSON), result.PointsEarned, result.TotalPoints, result.ScorePercentage,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) GetCurrentResult(ctx context.Context, testID string) (*Result, error) {
	var r Result
	var answersJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, test_id, student_answers, points_earned, total_points, score_percentage FROM results WHERE test_id = ?",
		testID,
	).Scan(&r.ID, &r.TestID, &answersJSON, &r.PointsEarned, &r.TotalPoints, &r.ScorePercentage)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	r.StudentAnswers = map[string]string{}
	if err := json.Unmarshal([]byte(answersJSON), &r.StudentAnswers); err != nil {
		return nil, err
	}
	return &r, nil
}
