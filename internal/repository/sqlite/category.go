package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shreyash/bloghub/internal/apperror"
	"github.com/shreyash/bloghub/internal/model"
	"github.com/shreyash/bloghub/internal/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo stores categories in the shared SQLite pool.
type CategoryRepo struct {
	conn *sql.DB
}

const categoryColumns = `id, name, description, created_at, updated_at`

// Create inserts a new category. A UNIQUE violation on the name is
// translated to ErrConflict (the service checks first, this is the
// race-proof backstop).
func (r *CategoryRepo) Create(ctx context.Context, category *model.Category) error {
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO categories (name, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		category.Name,
		category.Description,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("Category with this name already exists")
		}
		return fmt.Errorf("sqlite: creating category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new category id: %w", err)
	}
	category.ID = id

	return nil
}

// GetByID retrieves a category by primary key.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	return r.getCategory(ctx, `WHERE id = ?`, id)
}

// GetByName retrieves a category by its unique name. Used by the
// uniqueness check on create/rename.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*model.Category, error) {
	return r.getCategory(ctx, `WHERE name = ?`, name)
}

func (r *CategoryRepo) getCategory(ctx context.Context, where string, arg any) (*model.Category, error) {
	var category model.Category

	err := r.conn.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories `+where,
		arg,
	).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundMsg("Category not found")
		}
		return nil, fmt.Errorf("sqlite: getting category: %w", err)
	}

	return &category, nil
}

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing categories: %w", err)
	}
	// CRITICAL: always close rows — they hold a pool connection.
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating categories: %w", err)
	}

	return categories, nil
}

// Update writes name and description. RowsAffected distinguishes "did not
// exist" from a successful write — one round-trip instead of SELECT+UPDATE.
func (r *CategoryRepo) Update(ctx context.Context, category *model.Category) error {
	category.UpdatedAt = time.Now()

	result, err := r.conn.ExecContext(ctx,
		`UPDATE categories
		 SET name = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		category.Name,
		category.Description,
		category.UpdatedAt,
		category.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("Category with this name already exists")
		}
		return fmt.Errorf("sqlite: updating category %d: %w", category.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFoundMsg("Category not found")
	}

	return nil
}

// Delete removes a category. Posts referencing it keep existing — the
// FK is declared ON DELETE SET NULL, so they are detached, not deleted.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.conn.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting category %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFoundMsg("Category not found")
	}

	return nil
}
