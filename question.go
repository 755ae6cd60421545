package qbank

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Difficulty classifies how hard a question is.
type Difficulty string

// Difficulty levels in ascending order.
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is a known difficulty level.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// ParseDifficulty converts a free-text marker into a Difficulty.
// Returns EINVALID for unrecognized values.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", Errorf(EINVALID, "unknown difficulty %q", s)
	}
	return d, nil
}

// Question represents a single catalog record, uniquely numbered
// within its owning category.
//
// ContentPlain is always a projection of ContentHTML, never
// authoritative on its own. ViewCount is owned by the read path and
// never touched by ingestion; Published is owned by the explicit
// publish action.
type Question struct {
	ID           string     `json:"id"`
	CategoryID   string     `json:"categoryId"`
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	ContentPlain string     `json:"contentPlain"`
	ContentHTML  string     `json:"contentHtml"`
	ContentHash  string     `json:"contentHash"`
	Difficulty   Difficulty `json:"difficulty"`
	Tags         []string   `json:"tags"`
	Published    bool       `json:"published"`
	ViewCount    int        `json:"viewCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	ModifiedAt   *time.Time `json:"modifiedAt"`
}

// Validate returns an error if the question contains invalid fields.
func (q *Question) Validate() error {
	if q.CategoryID == "" {
		return Errorf(EINVALID, "question category ID required")
	}
	if q.Title == "" {
		return Errorf(EINVALID, "question title required")
	}
	if q.Number <= 0 {
		return Errorf(EINVALID, "question number must be positive")
	}
	if q.Difficulty != "" && !q.Difficulty.Valid() {
		return Errorf(EINVALID, "unknown difficulty %q", q.Difficulty)
	}
	return nil
}

// HashContent computes the xxHash of the authoritative HTML content
// and returns it as a hex string. The hash is what makes re-ingestion
// of unchanged input a zero-write operation.
func HashContent(contentHTML string) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], xxhash.Sum64String(contentHTML))
	return hex.EncodeToString(b[:])
}

// UpsertOutcome reports what an idempotent upsert did.
type UpsertOutcome int

// Upsert outcomes.
const (
	UpsertCreated UpsertOutcome = iota
	UpsertUpdated
	UpsertUnchanged
)

// String returns the outcome name.
func (o UpsertOutcome) String() string {
	switch o {
	case UpsertCreated:
		return "created"
	case UpsertUpdated:
		return "updated"
	case UpsertUnchanged:
		return "unchanged"
	}
	return "unknown"
}

// QuestionService represents a service for managing catalog questions.
type QuestionService interface {
	// CreateQuestion creates a new question.
	// Returns ECONFLICT if the (category, number) pair is taken.
	CreateQuestion(ctx context.Context, q *Question) error

	// FindQuestionByID retrieves a question by ID.
	// Returns ENOTFOUND if question does not exist.
	FindQuestionByID(ctx context.Context, id string) (*Question, error)

	// FindQuestionByNumber retrieves a question by its category-scoped
	// number. Returns ENOTFOUND if question does not exist.
	FindQuestionByNumber(ctx context.Context, categoryID string, number int) (*Question, error)

	// FindQuestions retrieves questions matching the filter.
	FindQuestions(ctx context.Context, filter QuestionFilter) ([]*Question, error)

	// AllocateNumber returns the number to persist for a question with
	// the given hint and title. A hint inside the category range is
	// reused when free or already held by the same title; otherwise the
	// lowest free number in the range is returned.
	// Returns ECAPACITY when the range is exhausted.
	AllocateNumber(ctx context.Context, category *Category, hint int, title string) (int, error)

	// UpsertQuestion idempotently writes a question keyed on
	// (category, number). Content is compared byte-for-byte via its
	// hash; identical input performs zero writes. CreatedAt, Published
	// and ViewCount on existing rows are never touched.
	UpsertQuestion(ctx context.Context, q *Question) (UpsertOutcome, error)

	// ContentHashes returns the content hashes of all stored questions.
	ContentHashes(ctx context.Context) ([]string, error)

	// RecordView increments the view counter and returns the question.
	// Returns ENOTFOUND if the question is missing or unpublished.
	RecordView(ctx context.Context, id string) (*Question, error)

	// SetPublished flips the published flag.
	// Returns ENOTFOUND if question does not exist.
	SetPublished(ctx context.Context, id string, published bool) error
}

// QuestionSortOrder represents the sort order for question queries.
type QuestionSortOrder string

// Sort orders for QuestionFilter.
const (
	SortByNumber    QuestionSortOrder = "number"
	SortByCreatedAt QuestionSortOrder = "created_at"
)

// QuestionFilter represents a filter for FindQuestions.
type QuestionFilter struct {
	ID         *string `json:"id"`
	CategoryID *string `json:"categoryId"`
	Number     *int    `json:"number"`
	Published  *bool   `json:"published"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	SortBy QuestionSortOrder `json:"sortBy"`
}
