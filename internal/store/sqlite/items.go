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

// itemColumns is the ordered list of columns selected in item queries.
// Must match the scan order in scanItem.
const itemColumns = `id, file_name, original_path, storage_path, format, size, width, height,
	category_id, is_favorite, has_transparency, is_animated, usage_count, created_at, updated_at`

// scanItem scans a sql.Row (or sql.Rows via its Scan method) into a domain.Item.
// TagIDs are left nil; callers load them separately.
func scanItem(scanner interface{ Scan(dest ...any) error }) (*domain.Item, error) {
	var it domain.Item

	var (
		originalPath sql.NullString
		format       sql.NullString
		categoryID   sql.NullString
		isFavorite   int
		hasTransp    int
		isAnimated   int
		createdAt    string
		updatedAt    string
	)

	err := scanner.Scan(
		&it.ID,
		&it.FileName,
		&originalPath,
		&it.StoragePath,
		&format,
		&it.Size,
		&it.Width,
		&it.Height,
		&categoryID,
		&isFavorite,
		&hasTransp,
		&isAnimated,
		&it.UsageCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	it.OriginalPath = originalPath.String
	it.Format = format.String
	it.CategoryID = categoryID.String
	it.IsFavorite = isFavorite != 0
	it.HasTransparency = hasTransp != 0
	it.IsAnimated = isAnimated != 0

	it.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	it.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &it, nil
}

// CreateItem inserts a new item with its tag associations.
// The caller supplies the id; timestamps are set here. Returns
// store.ErrAlreadyExists when the id is taken and store.ErrInvalidInput when
// the id is empty.
func (s *Store) CreateItem(ctx context.Context, item *domain.Item) error {
	if item.ID == "" {
		return store.ErrInvalidInput.WithMessage("item id is required")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	item.TagIDs = domain.DedupeTagIDs(item.TagIDs)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ioErr("begin tx", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO items (
			id, file_name, original_path, storage_path, format, size, width, height,
			category_id, is_favorite, has_transparency, is_animated, usage_count,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.FileName,
		nullString(item.OriginalPath),
		item.StoragePath,
		nullString(item.Format),
		item.Size,
		item.Width,
		item.Height,
		nullString(item.CategoryID),
		boolToInt(item.IsFavorite),
		boolToInt(item.HasTransparency),
		boolToInt(item.IsAnimated),
		item.UsageCount,
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage(fmt.Sprintf("item %q already exists", item.ID))
		}
		return ioErr("insert item", err)
	}

	if err := insertItemTags(ctx, tx, item.ID, item.TagIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return ioErr("commit", err)
	}
	return nil
}

// insertItemTags writes the tag associations for an item, preserving order
// through the position column.
func insertItemTags(ctx context.Context, tx *sql.Tx, itemID string, tagIDs []string) error {
	now := formatTime(time.Now())
	for pos, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO item_tags (item_id, tag_id, position, created_at)
			VALUES (?, ?, ?, ?)`,
			itemID,
			tagID,
			pos,
			now,
		)
		if err != nil {
			return ioErr("insert item_tag", err)
		}
	}
	return nil
}

// GetItem retrieves an item by ID with its tag ids loaded.
// Returns store.ErrNotFound if the item does not exist; callers treat that as
// plain absence, not a failure.
func (s *Store) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)

	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("item %q not found", id))
	}
	if err != nil {
		return nil, ioErr("get item", err)
	}

	it.TagIDs, err = s.loadItemTags(ctx, id)
	if err != nil {
		return nil, err
	}

	return it, nil
}

// loadItemTags returns the tag ids for one item in stored order.
func (s *Store) loadItemTags(ctx context.Context, itemID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag_id FROM item_tags WHERE item_id = ? ORDER BY position ASC`, itemID)
	if err != nil {
		return nil, ioErr("query item_tags", err)
	}
	defer rows.Close()

	var tagIDs []string
	for rows.Next() {
		var tagID string
		if err := rows.Scan(&tagID); err != nil {
			return nil, ioErr("scan item_tag", err)
		}
		tagIDs = append(tagIDs, tagID)
	}
	if err := rows.Err(); err != nil {
		return nil, ioErr("iterate item_tags", err)
	}

	return tagIDs, nil
}

// UpdateItem merges the patch into the stored item and returns the result.
// The read-modify-write runs under the writer lock inside one transaction, so
// two concurrent updates with disjoint fields both apply.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) UpdateItem(ctx context.Context, id string, patch *domain.ItemPatch) (*domain.Item, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, ioErr("begin tx", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("item %q not found", id))
	}
	if err != nil {
		return nil, ioErr("get item", err)
	}

	retag := patch.TagIDs != nil
	if !retag {
		// Keep the current tag set on the returned value.
		it.TagIDs, err = s.loadItemTags(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	patch.Apply(it)

	_, err = tx.ExecContext(ctx, `
		UPDATE items SET
			file_name = ?, original_path = ?, storage_path = ?, format = ?,
			size = ?, width = ?, height = ?, category_id = ?,
			is_favorite = ?, has_transparency = ?, is_animated = ?,
			usage_count = ?, updated_at = ?
		WHERE id = ?`,
		it.FileName,
		nullString(it.OriginalPath),
		it.StoragePath,
		nullString(it.Format),
		it.Size,
		it.Width,
		it.Height,
		nullString(it.CategoryID),
		boolToInt(it.IsFavorite),
		boolToInt(it.HasTransparency),
		boolToInt(it.IsAnimated),
		it.UsageCount,
		formatTime(it.UpdatedAt),
		it.ID,
	)
	if err != nil {
		return nil, ioErr("update item", err)
	}

	if retag {
		if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id = ?`, id); err != nil {
			return nil, ioErr("delete item_tags", err)
		}
		if err := insertItemTags(ctx, tx, id, it.TagIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, ioErr("commit", err)
	}
	return it, nil
}

// DeleteItem removes an item and its tag associations.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ioErr("begin tx", err)
	}
	defer tx.Rollback()

	// Delete the join rows explicitly rather than leaning on the FK
	// cascade, so the id is fully reusable afterwards.
	if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id = ?`, id); err != nil {
		return ioErr("delete item_tags", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return ioErr("delete item", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return ioErr("rows affected", err)
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage(fmt.Sprintf("item %q not found", id))
	}

	if err := tx.Commit(); err != nil {
		return ioErr("commit", err)
	}
	return nil
}

// IncrementItemUsage bumps the usage counter by one and refreshes updated_at
// in a single statement, so concurrent increments never lose a count.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) IncrementItemUsage(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE items SET usage_count = usage_count + 1, updated_at = ? WHERE id = ?`,
		formatTime(time.Now()), id)
	if err != nil {
		return ioErr("increment usage", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return ioErr("rows affected", err)
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage(fmt.Sprintf("item %q not found", id))
	}
	return nil
}

// CountItems returns the total number of items in the catalog.
func (s *Store) CountItems(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0, ioErr("count items", err)
	}
	return count, nil
}
