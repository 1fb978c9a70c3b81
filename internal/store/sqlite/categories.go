package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pixelvault/pixelvault-server/internal/domain"
	"github.com/pixelvault/pixelvault-server/internal/store"
)

// categoryColumns is the ordered list of columns selected in category queries.
// Must match the scan order in scanCategory.
const categoryColumns = `id, name, description, color, parent_id, position, icon, created_at, updated_at`

// scanCategory scans a sql.Row (or sql.Rows via its Scan method) into a domain.Category.
func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var c domain.Category

	var (
		description sql.NullString
		color       sql.NullString
		parentID    sql.NullString
		icon        sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&c.ID,
		&c.Name,
		&description,
		&color,
		&parentID,
		&c.Position,
		&icon,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Description = description.String
	c.Color = color.String
	c.ParentID = parentID.String
	c.Icon = icon.String

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// ListCategories returns all categories, built-ins included, ordered by
// position then name.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY position ASC, name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, ioErr("query categories", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, ioErr("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, ioErr("iterate categories", err)
	}

	if categories == nil {
		categories = []*domain.Category{}
	}
	return categories, nil
}

// GetCategory retrieves a category by ID.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)

	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("category %q not found", id))
	}
	if err != nil {
		return nil, ioErr("get category", err)
	}
	return c, nil
}

// CreateCategory inserts a new category. The caller supplies the id;
// timestamps are set here. Returns store.ErrAlreadyExists on a duplicate id.
func (s *Store) CreateCategory(ctx context.Context, category *domain.Category) error {
	if category.ID == "" {
		return store.ErrInvalidInput.WithMessage("category id is required")
	}
	if category.Name == "" {
		return store.ErrInvalidInput.WithMessage("category name is required")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, description, color, parent_id, position, icon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		category.ID,
		category.Name,
		nullString(category.Description),
		nullString(category.Color),
		nullString(category.ParentID),
		category.Position,
		nullString(category.Icon),
		formatTime(category.CreatedAt),
		formatTime(category.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage(fmt.Sprintf("category %q already exists", category.ID))
		}
		return ioErr("insert category", err)
	}
	return nil
}

// UpdateCategory merges the patch into the stored category and returns the
// result. Built-ins may be renamed; only deletion is protected.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) UpdateCategory(ctx context.Context, id string, patch *domain.CategoryPatch) (*domain.Category, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, ioErr("begin tx", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("category %q not found", id))
	}
	if err != nil {
		return nil, ioErr("get category", err)
	}

	patch.Apply(c)

	if c.Name == "" {
		return nil, store.ErrInvalidInput.WithMessage("category name is required")
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE categories SET name = ?, description = ?, color = ?, parent_id = ?, position = ?, icon = ?, updated_at = ?
		WHERE id = ?`,
		c.Name,
		nullString(c.Description),
		nullString(c.Color),
		nullString(c.ParentID),
		c.Position,
		nullString(c.Icon),
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return nil, ioErr("update category", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, ioErr("commit", err)
	}
	return c, nil
}

// DeleteCategory removes a category. Built-in categories are never deletable
// and fail with store.ErrProtected. Items referencing the category keep their
// now-dangling reference; reassignment is the caller's job.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if domain.IsBuiltinCategory(id) {
		return store.ErrProtected.WithMessage(fmt.Sprintf("category %q is built-in and cannot be deleted", id))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return ioErr("delete category", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return ioErr("rows affected", err)
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage(fmt.Sprintf("category %q not found", id))
	}
	return nil
}
