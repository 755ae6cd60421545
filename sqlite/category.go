package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fwojciec/qbank"
	"github.com/google/uuid"
)

// DefaultRangeBlockSize is the span added to a derived range start,
// reserving 100 numbers per category.
const DefaultRangeBlockSize = 99

// Compile-time interface verification.
var _ qbank.CategoryService = (*CategoryService)(nil)

// CategoryService implements qbank.CategoryService using SQLite.
type CategoryService struct {
	db        *DB
	blockSize int
}

// NewCategoryService creates a new CategoryService. blockSize controls
// the span of derived number ranges; <= 0 uses DefaultRangeBlockSize.
func NewCategoryService(db *DB, blockSize int) *CategoryService {
	if blockSize <= 0 {
		blockSize = DefaultRangeBlockSize
	}
	return &CategoryService{db: db, blockSize: blockSize}
}

// CreateCategory creates a new category. An unset range (both bounds
// zero) is derived: display order follows the current maximum and the
// range starts right after the highest reserved number.
func (s *CategoryService) CreateCategory(ctx context.Context, category *qbank.Category) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if category.RangeStart == 0 && category.RangeEnd == 0 {
		err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(MAX(display_order), 0) + 1, COALESCE(MAX(range_end), 0) + 1
			FROM categories
		`).Scan(&category.DisplayOrder, &category.RangeStart)
		if err != nil {
			return err
		}
		category.RangeEnd = category.RangeStart + s.blockSize
	}

	if err := category.Validate(); err != nil {
		return err
	}

	// The derivation cannot produce an overlap, but a caller-supplied
	// range can; refuse rather than silently adjust.
	var overlaps int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM categories WHERE range_start <= ? AND range_end >= ?
	`, category.RangeEnd, category.RangeStart).Scan(&overlaps)
	if err != nil {
		return err
	}
	if overlaps > 0 {
		return qbank.Errorf(qbank.ECONFLICT, "number range %d-%d overlaps an existing category", category.RangeStart, category.RangeEnd)
	}

	category.ID = uuid.New().String()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO categories (id, name, icon, color, display_order, range_start, range_end)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, category.ID, category.Name, category.Icon, category.Color,
		category.DisplayOrder, category.RangeStart, category.RangeEnd)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return qbank.Errorf(qbank.ECONFLICT, "category %q already exists", category.Name)
		}
		return err
	}

	return tx.Commit()
}

// FindCategoryByID retrieves a category by ID.
func (s *CategoryService) FindCategoryByID(ctx context.Context, id string) (*qbank.Category, error) {
	return s.findCategory(ctx, "id = ?", id)
}

// FindCategoryByName retrieves a category by case-insensitive exact
// name match.
func (s *CategoryService) FindCategoryByName(ctx context.Context, name string) (*qbank.Category, error) {
	return s.findCategory(ctx, "name = ? COLLATE NOCASE", name)
}

func (s *CategoryService) findCategory(ctx context.Context, where string, arg any) (*qbank.Category, error) {
	var category qbank.Category

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, icon, color, display_order, range_start, range_end
		FROM categories
		WHERE `+where, arg).Scan(&category.ID, &category.Name, &category.Icon, &category.Color,
		&category.DisplayOrder, &category.RangeStart, &category.RangeEnd)

	if err == sql.ErrNoRows {
		return nil, qbank.Errorf(qbank.ENOTFOUND, "category not found")
	}
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// FindCategories retrieves categories matching the filter, ordered by
// display order.
func (s *CategoryService) FindCategories(ctx context.Context, filter qbank.CategoryFilter) ([]*qbank.Category, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, icon, color, display_order, range_start, range_end FROM categories WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ? COLLATE NOCASE")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY display_order ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*qbank.Category
	for rows.Next() {
		var category qbank.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Icon, &category.Color,
			&category.DisplayOrder, &category.RangeStart, &category.RangeEnd); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}

	return categories, rows.Err()
}

// ResolveCategory returns the named category, creating it with a
// derived range when no case-insensitive match exists.
func (s *CategoryService) ResolveCategory(ctx context.Context, name string) (*qbank.Category, error) {
	category, err := s.FindCategoryByName(ctx, name)
	if err == nil {
		return category, nil
	}
	if qbank.ErrorCode(err) != qbank.ENOTFOUND {
		return nil, err
	}

	category = &qbank.Category{Name: name}
	if err := s.CreateCategory(ctx, category); err != nil {
		// A concurrent create can win the name; fall back to the winner.
		if qbank.ErrorCode(err) == qbank.ECONFLICT {
			return s.FindCategoryByName(ctx, name)
		}
		return nil, err
	}

	return category, nil
}

// isUniqueConstraintErr reports whether err is a SQLite uniqueness
// violation.
func isUniqueConstraintErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
