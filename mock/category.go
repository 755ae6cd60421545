package mock

import (
	"context"

	"github.com/fwojciec/qbank"
)

var _ qbank.CategoryService = (*CategoryService)(nil)

// CategoryService is a mock implementation of qbank.CategoryService.
type CategoryService struct {
	CreateCategoryFn     func(ctx context.Context, category *qbank.Category) error
	FindCategoryByIDFn   func(ctx context.Context, id string) (*qbank.Category, error)
	FindCategoryByNameFn func(ctx context.Context, name string) (*qbank.Category, error)
	FindCategoriesFn     func(ctx context.Context, filter qbank.CategoryFilter) ([]*qbank.Category, error)
	ResolveCategoryFn    func(ctx context.Context, name string) (*qbank.Category, error)
}

func (s *CategoryService) CreateCategory(ctx context.Context, category *qbank.Category) error {
	return s.CreateCategoryFn(ctx, category)
}

func (s *CategoryService) FindCategoryByID(ctx context.Context, id string) (*qbank.Category, error) {
	return s.FindCategoryByIDFn(ctx, id)
}

func (s *CategoryService) FindCategoryByName(ctx context.Context, name string) (*qbank.Category, error) {
	return s.FindCategoryByNameFn(ctx, name)
}

func (s *CategoryService) FindCategories(ctx context.Context, filter qbank.CategoryFilter) ([]*qbank.Category, error) {
	return s.FindCategoriesFn(ctx, filter)
}

func (s *CategoryService) ResolveCategory(ctx context.Context, name string) (*qbank.Category, error) {
	return s.ResolveCategoryFn(ctx, name)
}
