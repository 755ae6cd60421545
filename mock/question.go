package mock

import (
	"context"

	"github.com/fwojciec/qbank"
)

var _ qbank.QuestionService = (*QuestionService)(nil)

// QuestionService is a mock implementation of qbank.QuestionService.
type QuestionService struct {
	CreateQuestionFn       func(ctx context.Context, q *qbank.Question) error
	FindQuestionByIDFn     func(ctx context.Context, id string) (*qbank.Question, error)
	FindQuestionByNumberFn func(ctx context.Context, categoryID string, number int) (*qbank.Question, error)
	FindQuestionsFn        func(ctx context.Context, filter qbank.QuestionFilter) ([]*qbank.Question, error)
	AllocateNumberFn       func(ctx context.Context, category *qbank.Category, hint int, title string) (int, error)
	UpsertQuestionFn       func(ctx context.Context, q *qbank.Question) (qbank.UpsertOutcome, error)
	ContentHashesFn        func(ctx context.Context) ([]string, error)
	RecordViewFn           func(ctx context.Context, id string) (*qbank.Question, error)
	SetPublishedFn         func(ctx context.Context, id string, published bool) error
}

func (s *QuestionService) CreateQuestion(ctx context.Context, q *qbank.Question) error {
	return s.CreateQuestionFn(ctx, q)
}

func (s *QuestionService) FindQuestionByID(ctx context.Context, id string) (*qbank.Question, error) {
	return s.FindQuestionByIDFn(ctx, id)
}

func (s *QuestionService) FindQuestionByNumber(ctx context.Context, categoryID string, number int) (*qbank.Question, error) {
	return s.FindQuestionByNumberFn(ctx, categoryID, number)
}

func (s *QuestionService) FindQuestions(ctx context.Context, filter qbank.QuestionFilter) ([]*qbank.Question, error) {
	return s.FindQuestionsFn(ctx, filter)
}

func (s *QuestionService) AllocateNumber(ctx context.Context, category *qbank.Category, hint int, title string) (int, error) {
	return s.AllocateNumberFn(ctx, category, hint, title)
}

func (s *QuestionService) UpsertQuestion(ctx context.Context, q *qbank.Question) (qbank.UpsertOutcome, error) {
	return s.UpsertQuestionFn(ctx, q)
}

func (s *QuestionService) ContentHashes(ctx context.Context) ([]string, error) {
	return s.ContentHashesFn(ctx)
}

func (s *QuestionService) RecordView(ctx context.Context, id string) (*qbank.Question, error) {
	return s.RecordViewFn(ctx, id)
}

func (s *QuestionService) SetPublished(ctx context.Context, id string, published bool) error {
	return s.SetPublishedFn(ctx, id, published)
}
