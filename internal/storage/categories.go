package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

const categoryColumns = `id, user_id, name, type, parent_id, is_default, is_active, created_at`

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	return r.insertCategory(ctx, r.db, c)
}

func (r *SQLiteRepository) insertCategory(ctx context.Context, ex execer, c core.Category) error {
	var parent any
	if c.ParentID != nil {
		parent = c.ParentID.String()
	}
	_, err := ex.ExecContext(ctx,
		`INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.UserID.String(), c.Name, string(c.Type), parent,
		boolToInt(c.IsDefault), boolToInt(c.IsActive), formatTime(c.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category name already in use: %w", core.ErrConflict)
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// SeedDefaultCategories inserts the fixed default list for a new user in
// one transaction.
func (r *SQLiteRepository) SeedDefaultCategories(ctx context.Context, categories []core.Category) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		for _, c := range categories {
			if err := r.insertCategory(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, userID, id uuid.UUID) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ? AND user_id = ?`,
		id.String(), userID.String())
	return scanCategory(row.Scan)
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID uuid.UUID, includeInactive bool) ([]core.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = ?`
	if !includeInactive {
		q += ` AND is_active = 1`
	}
	q += ` ORDER BY type, name`

	rows, err := r.db.QueryContext(ctx, q, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// FirstActiveCategoryOfType returns the owner's oldest active category of
// the given type, the fallback for uncategorized import rows.
func (r *SQLiteRepository) FirstActiveCategoryOfType(ctx context.Context, userID uuid.UUID, t core.TransactionType) (core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories
		 WHERE user_id = ? AND type = ? AND is_active = 1
		 ORDER BY is_default DESC, created_at LIMIT 1`,
		userID.String(), string(t))
	c, err := scanCategory(row.Scan)
	if errors.Is(err, core.ErrNotFound) {
		return core.Category{}, core.ErrNoCategoryAvailable
	}
	return c, err
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	var parent any
	if c.ParentID != nil {
		parent = c.ParentID.String()
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ?, parent_id = ?, is_active = ?
		 WHERE id = ? AND user_id = ?`,
		c.Name, string(c.Type), parent, boolToInt(c.IsActive),
		c.ID.String(), c.UserID.String())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("category name already in use: %w", core.ErrConflict)
		}
		return fmt.Errorf("update category: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND user_id = ?`, id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeactivateCategory(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET is_active = 0 WHERE id = ? AND user_id = ?`,
		id.String(), userID.String())
	if err != nil {
		return fmt.Errorf("deactivate category: %w", err)
	}
	return requireRow(res)
}

// CountCategoryRefs counts transactions and budgets still pointing at the
// category; a referenced category is deactivated instead of deleted.
func (r *SQLiteRepository) CountCategoryRefs(ctx context.Context, userID, categoryID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM transactions WHERE category_id = ? AND user_id = ?)
		      + (SELECT COUNT(*) FROM budgets WHERE category_id = ? AND user_id = ?)`,
		categoryID.String(), userID.String(), categoryID.String(), userID.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count category refs: %w", err)
	}
	return n, nil
}

func scanCategory(scan func(dest ...any) error) (core.Category, error) {
	var (
		c                 core.Category
		id, userID, typ   string
		parent            sql.NullString
		isDefault, active int
		createdAt         string
	)
	err := scan(&id, &userID, &c.Name, &typ, &parent, &isDefault, &active, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("scan category: %w", err)
	}
	c.ID, _ = uuid.Parse(id)
	c.UserID, _ = uuid.Parse(userID)
	c.Type = core.TransactionType(typ)
	if parent.Valid {
		p, perr := uuid.Parse(parent.String)
		if perr == nil {
			c.ParentID = &p
		}
	}
	c.IsDefault = isDefault == 1
	c.IsActive = active == 1
	c.CreatedAt = parseStoredTime(createdAt)
	return c, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
