package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixelvault/pixelvault-server/internal/domain"
	"github.com/pixelvault/pixelvault-server/internal/store"
)

// sortColumns maps filter sort fields to item columns. The name sort is
// case-insensitive so "Beach.png" and "alps.png" order the way a file
// listing would.
var sortColumns = map[store.SortField]string{
	store.SortByUpdatedAt:  "updated_at",
	store.SortByCreatedAt:  "created_at",
	store.SortByUsageCount: "usage_count",
	store.SortByName:       "file_name COLLATE NOCASE",
	store.SortBySize:       "size",
}

// SearchItems executes a filtered, sorted, paginated query over the catalog.
// All filters are ANDed; see store.SearchFilters for per-filter semantics.
// Results read through the same connection pool the mutators write to, so a
// search after a committed mutation always observes it.
func (s *Store) SearchItems(ctx context.Context, filters store.SearchFilters) ([]*domain.Item, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	var (
		conds []string
		args  []any
	)

	if filters.Keyword != "" {
		pattern := "%" + escapeLike(filters.Keyword) + "%"
		conds = append(conds, `(items.file_name LIKE ? ESCAPE '\' OR EXISTS (
			SELECT 1 FROM item_tags it JOIN tags t ON t.id = it.tag_id
			WHERE it.item_id = items.id AND t.name LIKE ? ESCAPE '\'))`)
		args = append(args, pattern, pattern)
	}

	if filters.CategoryID != "" {
		conds = append(conds, "items.category_id = ?")
		args = append(args, filters.CategoryID)
	}

	if len(filters.TagIDs) > 0 {
		conds = append(conds, `EXISTS (SELECT 1 FROM item_tags WHERE item_id = items.id AND tag_id IN (`+
			placeholders(len(filters.TagIDs))+`))`)
		for _, id := range filters.TagIDs {
			args = append(args, id)
		}
	}

	if len(filters.ExcludeTagIDs) > 0 {
		conds = append(conds, `NOT EXISTS (SELECT 1 FROM item_tags WHERE item_id = items.id AND tag_id IN (`+
			placeholders(len(filters.ExcludeTagIDs))+`))`)
		for _, id := range filters.ExcludeTagIDs {
			args = append(args, id)
		}
	}

	if filters.Format != "" {
		conds = append(conds, "items.format = ?")
		args = append(args, filters.Format)
	}

	if filters.MinSize != nil {
		conds = append(conds, "items.size >= ?")
		args = append(args, *filters.MinSize)
	}
	if filters.MaxSize != nil {
		conds = append(conds, "items.size <= ?")
		args = append(args, *filters.MaxSize)
	}
	if filters.MinWidth != nil {
		conds = append(conds, "items.width >= ?")
		args = append(args, *filters.MinWidth)
	}
	if filters.MaxWidth != nil {
		conds = append(conds, "items.width <= ?")
		args = append(args, *filters.MaxWidth)
	}
	if filters.MinHeight != nil {
		conds = append(conds, "items.height >= ?")
		args = append(args, *filters.MinHeight)
	}
	if filters.MaxHeight != nil {
		conds = append(conds, "items.height <= ?")
		args = append(args, *filters.MaxHeight)
	}

	if filters.CreatedAfter != nil {
		conds = append(conds, "items.created_at >= ?")
		args = append(args, formatTime(*filters.CreatedAfter))
	}
	if filters.CreatedBefore != nil {
		conds = append(conds, "items.created_at <= ?")
		args = append(args, formatTime(*filters.CreatedBefore))
	}

	if filters.IsFavorite != nil {
		conds = append(conds, "items.is_favorite = ?")
		args = append(args, boolToInt(*filters.IsFavorite))
	}
	if filters.HasTransparency != nil {
		conds = append(conds, "items.has_transparency = ?")
		args = append(args, boolToInt(*filters.HasTransparency))
	}
	if filters.IsAnimated != nil {
		conds = append(conds, "items.is_animated = ?")
		args = append(args, boolToInt(*filters.IsAnimated))
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + orderClause(filters.SortBy, filters.SortOrder)

	if filters.Limit > 0 || filters.Offset > 0 {
		limit := filters.Limit
		if limit == 0 {
			limit = -1 // SQLite: no limit, offset still applies
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, filters.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ioErr("search items", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, ioErr("scan item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, ioErr("iterate items", err)
	}

	if err := s.loadTagsForItems(ctx, items); err != nil {
		return nil, err
	}

	if items == nil {
		items = []*domain.Item{}
	}
	return items, nil
}

// orderClause builds the ORDER BY expression with the id tie-break that keeps
// result order deterministic.
func orderClause(field store.SortField, order store.SortOrder) string {
	col, ok := sortColumns[field]
	if !ok {
		col = sortColumns[store.SortByUpdatedAt]
	}
	dir := "DESC"
	if order == store.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s, id ASC", col, dir)
}

// loadTagsForItems fills TagIDs for a result set in one query.
func (s *Store) loadTagsForItems(ctx context.Context, items []*domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Item, len(items))
	args := make([]any, 0, len(items))
	for _, it := range items {
		byID[it.ID] = it
		args = append(args, it.ID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, tag_id FROM item_tags WHERE item_id IN (`+placeholders(len(items))+`) ORDER BY position ASC`,
		args...)
	if err != nil {
		return ioErr("query item_tags", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID, tagID string
		if err := rows.Scan(&itemID, &tagID); err != nil {
			return ioErr("scan item_tag", err)
		}
		if it, ok := byID[itemID]; ok {
			it.TagIDs = append(it.TagIDs, tagID)
		}
	}
	if err := rows.Err(); err != nil {
		return ioErr("iterate item_tags", err)
	}

	return nil
}

// placeholders returns n comma-separated SQL placeholders.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// escapeLike escapes the LIKE wildcards in a user-supplied keyword.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
