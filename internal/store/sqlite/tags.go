package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pixelvault/pixelvault-server/internal/domain"
	"github.com/pixelvault/pixelvault-server/internal/id"
	"github.com/pixelvault/pixelvault-server/internal/normalize"
	"github.com/pixelvault/pixelvault-server/internal/store"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, key, name, color, description, created_at, updated_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		color       sql.NullString
		description sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&t.ID,
		&t.Key,
		&t.Name,
		&color,
		&description,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Color = color.String
	t.Description = description.String

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// GetTag retrieves a tag by its ID.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, tagID)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("tag %q not found", tagID))
	}
	if err != nil {
		return nil, ioErr("get tag", err)
	}
	return t, nil
}

// getTagByKey retrieves a tag by its normalized key.
func (s *Store) getTagByKey(ctx context.Context, key string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE key = ?`, key)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("tag with key %q not found", key))
	}
	if err != nil {
		return nil, ioErr("get tag by key", err)
	}
	return t, nil
}

// ListTags returns all tags ordered by name. The secondary order keeps UI
// listings stable across calls.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags ORDER BY name COLLATE NOCASE ASC, id ASC`)
	if err != nil {
		return nil, ioErr("query tags", err)
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, ioErr("scan tag", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, ioErr("iterate tags", err)
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}
	return tags, nil
}

// FindOrCreateTag finds an existing tag by the normalized form of name or
// creates a new one with a fresh id. On a hit the existing tag is returned
// unchanged and the supplied color is ignored. Returns (tag, created, error)
// where created is true if a new tag was made.
//
// The UNIQUE constraint on the key column makes creation exactly-once: when a
// concurrent caller wins the race, the insert fails and the winner's tag is
// fetched instead.
func (s *Store) FindOrCreateTag(ctx context.Context, name, color string) (*domain.Tag, bool, error) {
	key := normalize.TagKey(name)
	if key == "" {
		return nil, false, store.ErrInvalidInput.WithMessage("tag name is empty")
	}

	existing, err := s.getTagByKey(ctx, key)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, false, ioErr("generate tag id", err)
	}

	now := time.Now()
	t := &domain.Tag{
		ID:        tagID,
		Key:       key,
		Name:      strings.TrimSpace(normalize.SanitizeString(name)),
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.writeMu.Lock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tags (id, key, name, color, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.Key,
		t.Name,
		nullString(t.Color),
		nullString(t.Description),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	s.writeMu.Unlock()

	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race: another caller created the tag first.
			existing, err := s.getTagByKey(ctx, key)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, ioErr("insert tag", err)
	}

	return t, true, nil
}

// UpdateTag merges the patch into the stored tag and returns the result.
// A rename re-normalizes the key; colliding with a different existing tag
// fails with store.ErrAlreadyExists. Returns store.ErrNotFound if the tag
// does not exist.
func (s *Store) UpdateTag(ctx context.Context, tagID string, patch *domain.TagPatch) (*domain.Tag, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, ioErr("begin tx", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, tagID)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage(fmt.Sprintf("tag %q not found", tagID))
	}
	if err != nil {
		return nil, ioErr("get tag", err)
	}

	patch.Apply(t)

	if patch.Name != nil {
		key := normalize.TagKey(*patch.Name)
		if key == "" {
			return nil, store.ErrInvalidInput.WithMessage("tag name is empty")
		}
		t.Name = strings.TrimSpace(normalize.SanitizeString(*patch.Name))
		t.Key = key
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE tags SET key = ?, name = ?, color = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		t.Key,
		t.Name,
		nullString(t.Color),
		nullString(t.Description),
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrAlreadyExists.WithMessage(fmt.Sprintf("a tag named %q already exists", t.Key))
		}
		return nil, ioErr("update tag", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, ioErr("commit", err)
	}
	return t, nil
}

// DeleteTag removes a tag. Items keep their now-dangling tag ids; readers
// tolerate them. Returns store.ErrNotFound if the tag does not exist.
func (s *Store) DeleteTag(ctx context.Context, tagID string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, tagID)
	if err != nil {
		return ioErr("delete tag", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return ioErr("rows affected", err)
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage(fmt.Sprintf("tag %q not found", tagID))
	}
	return nil
}
