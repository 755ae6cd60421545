package sqlite

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/qbank"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ qbank.QuestionService = (*QuestionService)(nil)

// QuestionService implements qbank.QuestionService using SQLite.
type QuestionService struct {
	db *DB
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(db *DB) *QuestionService {
	return &QuestionService{db: db}
}

// CreateQuestion creates a new question.
func (s *QuestionService) CreateQuestion(ctx context.Context, q *qbank.Question) error {
	if err := q.Validate(); err != nil {
		return err
	}

	q.ID = uuid.New().String()
	q.CreatedAt = time.Now().UTC().Truncate(time.Second)
	q.ContentHash = qbank.HashContent(q.ContentHTML)
	if q.Difficulty == "" {
		q.Difficulty = qbank.DifficultyBeginner
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO questions (id, category_id, number, title, content_plain, content_html,
			content_hash, difficulty, tags, published, view_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
	`, q.ID, q.CategoryID, q.Number, q.Title, q.ContentPlain, q.ContentHTML,
		q.ContentHash, string(q.Difficulty), joinTags(q.Tags), q.Published,
		q.CreatedAt.Format(time.RFC3339))

	if isUniqueConstraintErr(err) {
		return qbank.Errorf(qbank.ECONFLICT, "number %d is taken in category %q", q.Number, q.CategoryID)
	}
	return err
}

const questionColumns = `id, category_id, number, title, content_plain, content_html,
	content_hash, difficulty, tags, published, view_count, created_at, modified_at`

// scanQuestion reads one question row.
func scanQuestion(scan func(dest ...any) error) (*qbank.Question, error) {
	var q qbank.Question
	var difficulty, tags, createdAt string
	var modifiedAt sql.NullString

	if err := scan(&q.ID, &q.CategoryID, &q.Number, &q.Title, &q.ContentPlain, &q.ContentHTML,
		&q.ContentHash, &difficulty, &tags, &q.Published, &q.ViewCount, &createdAt, &modifiedAt); err != nil {
		return nil, err
	}

	q.Difficulty = qbank.Difficulty(difficulty)
	q.Tags = splitTags(tags)

	var err error
	q.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	if modifiedAt.Valid {
		t, err := parseRFC3339(modifiedAt.String, "modified_at")
		if err != nil {
			return nil, err
		}
		q.ModifiedAt = &t
	}

	return &q, nil
}

// FindQuestionByID retrieves a question by ID.
func (s *QuestionService) FindQuestionByID(ctx context.Context, id string) (*qbank.Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	q, err := scanQuestion(row.Scan)
	if err == sql.ErrNoRows {
		return nil, qbank.Errorf(qbank.ENOTFOUND, "question not found")
	}
	return q, err
}

// FindQuestionByNumber retrieves a question by its category-scoped number.
func (s *QuestionService) FindQuestionByNumber(ctx context.Context, categoryID string, number int) (*qbank.Question, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+questionColumns+` FROM questions WHERE category_id = ? AND number = ?
	`, categoryID, number)
	q, err := scanQuestion(row.Scan)
	if err == sql.ErrNoRows {
		return nil, qbank.Errorf(qbank.ENOTFOUND, "question not found")
	}
	return q, err
}

// FindQuestions retrieves questions matching the filter.
func (s *QuestionService) FindQuestions(ctx context.Context, filter qbank.QuestionFilter) ([]*qbank.Question, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + questionColumns + " FROM questions WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.CategoryID != nil {
		query.WriteString(" AND category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.Number != nil {
		query.WriteString(" AND number = ?")
		args = append(args, *filter.Number)
	}
	if filter.Published != nil {
		query.WriteString(" AND published = ?")
		args = append(args, *filter.Published)
	}

	switch filter.SortBy {
	case qbank.SortByCreatedAt:
		query.WriteString(" ORDER BY created_at DESC")
	default:
		query.WriteString(" ORDER BY category_id, number ASC")
	}

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*qbank.Question
	for rows.Next() {
		q, err := scanQuestion(rows.Scan)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

// AllocateNumber returns the number to persist for a candidate with
// the given hint and title. The hint wins when it is inside the range
// and either free or already owned by the same title; otherwise the
// lowest free number in the range is used.
func (s *QuestionService) AllocateNumber(ctx context.Context, category *qbank.Category, hint int, title string) (int, error) {
	if category.Contains(hint) {
		existing, err := s.FindQuestionByNumber(ctx, category.ID, hint)
		if qbank.ErrorCode(err) == qbank.ENOTFOUND {
			return hint, nil
		}
		if err != nil {
			return 0, err
		}
		if existing.Title == title {
			return hint, nil
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT number FROM questions WHERE category_id = ? ORDER BY number ASC
	`, category.ID)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	used := make(map[int]bool)
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
		used[n] = true
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for n := category.RangeStart; n <= category.RangeEnd; n++ {
		if !used[n] {
			return n, nil
		}
	}

	return 0, qbank.Errorf(qbank.ECAPACITY, "category %q has no free numbers in range %d-%d",
		category.Name, category.RangeStart, category.RangeEnd)
}

// UpsertQuestion idempotently writes a question keyed on
// (category, number). Identical content and metadata performs zero
// writes; any change to content, title, tags or difficulty updates in
// place, preserving created_at, published and view_count.
func (s *QuestionService) UpsertQuestion(ctx context.Context, q *qbank.Question) (qbank.UpsertOutcome, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}

	existing, err := s.FindQuestionByNumber(ctx, q.CategoryID, q.Number)
	if qbank.ErrorCode(err) == qbank.ENOTFOUND {
		if err := s.CreateQuestion(ctx, q); err != nil {
			return 0, err
		}
		return qbank.UpsertCreated, nil
	}
	if err != nil {
		return 0, err
	}

	q.ID = existing.ID
	q.CreatedAt = existing.CreatedAt
	q.Published = existing.Published
	q.ViewCount = existing.ViewCount
	q.ContentHash = qbank.HashContent(q.ContentHTML)
	if q.Difficulty == "" {
		q.Difficulty = qbank.DifficultyBeginner
	}

	if q.ContentHash == existing.ContentHash && q.Title == existing.Title &&
		q.Difficulty == existing.Difficulty && slices.Equal(q.Tags, existing.Tags) {
		q.ModifiedAt = existing.ModifiedAt
		return qbank.UpsertUnchanged, nil
	}

	now := time.Now().UTC().Truncate(time.Second)
	q.ModifiedAt = &now

	_, err = s.db.ExecContext(ctx, `
		UPDATE questions
		SET title = ?, content_plain = ?, content_html = ?, content_hash = ?,
			difficulty = ?, tags = ?, modified_at = ?
		WHERE id = ?
	`, q.Title, q.ContentPlain, q.ContentHTML, q.ContentHash,
		string(q.Difficulty), joinTags(q.Tags), now.Format(time.RFC3339), q.ID)
	if err != nil {
		return 0, err
	}

	return qbank.UpsertUpdated, nil
}

// ContentHashes returns the content hashes of all stored questions.
func (s *QuestionService) ContentHashes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT content_hash FROM questions")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}

	return hashes, rows.Err()
}

// RecordView increments the view counter and returns the question.
// The increment is a single statement, so concurrent reads never lose
// counts.
func (s *QuestionService) RecordView(ctx context.Context, id string) (*qbank.Question, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE questions SET view_count = view_count + 1 WHERE id = ? AND published = 1
	`, id)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, qbank.Errorf(qbank.ENOTFOUND, "question not found")
	}

	return s.FindQuestionByID(ctx, id)
}

// SetPublished flips the published flag.
func (s *QuestionService) SetPublished(ctx context.Context, id string, published bool) error {
	result, err := s.db.ExecContext(ctx, "UPDATE questions SET published = ? WHERE id = ?", published, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return qbank.Errorf(qbank.ENOTFOUND, "question not found")
	}

	return nil
}
