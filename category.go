package qbank

import "context"

// Category represents a named grouping of questions. Every category
// owns a reserved block of question numbers; blocks never overlap
// across categories.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`
	DisplayOrder int    `json:"displayOrder"`
	RangeStart   int    `json:"rangeStart"`
	RangeEnd     int    `json:"rangeEnd"`
}

// Validate returns an error if the category contains invalid fields.
func (c *Category) Validate() error {
	if c.Name == "" {
		return Errorf(EINVALID, "category name required")
	}
	if c.RangeEnd < c.RangeStart {
		return Errorf(EINVALID, "category range end %d precedes range start %d", c.RangeEnd, c.RangeStart)
	}
	return nil
}

// Contains reports whether n falls within the category's number range.
func (c *Category) Contains(n int) bool {
	return n >= c.RangeStart && n <= c.RangeEnd
}

// CategoryService represents a service for managing categories.
type CategoryService interface {
	// CreateCategory creates a new category. When the range is unset
	// (both bounds zero) the implementation derives display order and
	// a fresh non-overlapping number range.
	// Returns ECONFLICT if the derived or given range overlaps an
	// existing category.
	CreateCategory(ctx context.Context, category *Category) error

	// FindCategoryByID retrieves a category by ID.
	// Returns ENOTFOUND if category does not exist.
	FindCategoryByID(ctx context.Context, id string) (*Category, error)

	// FindCategoryByName retrieves a category by case-insensitive
	// exact name match.
	// Returns ENOTFOUND if category does not exist.
	FindCategoryByName(ctx context.Context, name string) (*Category, error)

	// FindCategories retrieves categories matching the filter,
	// ordered by display order.
	FindCategories(ctx context.Context, filter CategoryFilter) ([]*Category, error)

	// ResolveCategory returns the category with the given name,
	// creating it with a derived range when no case-insensitive match
	// exists. Near-duplicate names (punctuation, spacing) deliberately
	// resolve to distinct categories.
	ResolveCategory(ctx context.Context, name string) (*Category, error)
}

// CategoryFilter represents a filter for FindCategories.
type CategoryFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
