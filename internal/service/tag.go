package service

import (
	"context"
	"log/slog"

	"github.com/pixelvault/pixelvault-server/internal/color"
	"github.com/pixelvault/pixelvault-server/internal/domain"
	"github.com/pixelvault/pixelvault-server/internal/normalize"
	"github.com/pixelvault/pixelvault-server/internal/store"
)

// TagService orchestrates tag operations.
// Tags are catalog-wide; items reference them by id.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// ListTags returns all tags ordered by display name.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// GetTag returns a tag by id.
func (s *TagService) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	return s.store.GetTag(ctx, id)
}

// FindOrCreateTag resolves a raw tag name to a tag, creating it on
// first use. Names that normalize to the same key share one tag.
// New tags without an explicit color get a deterministic swatch
// derived from the key, so the same tag looks the same everywhere.
func (s *TagService) FindOrCreateTag(ctx context.Context, rawName, tagColor string) (*domain.Tag, bool, error) {
	if tagColor == "" {
		tagColor = color.ForKey(normalize.TagKey(rawName))
	}

	tag, created, err := s.store.FindOrCreateTag(ctx, rawName, tagColor)
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info("tag created", "tag_id", tag.ID, "tag_name", tag.Name)
	}

	return tag, created, nil
}

// UpdateTag applies a partial update to a tag. Renames re-normalize the
// dedupe key and fail with a conflict when another tag already owns it.
func (s *TagService) UpdateTag(ctx context.Context, id string, patch *domain.TagPatch) (*domain.Tag, error) {
	tag, err := s.store.UpdateTag(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tag updated", "tag_id", id)
	return tag, nil
}

// DeleteTag removes a tag. Items keep their reference to the deleted
// id; reads tolerate the dangling reference.
func (s *TagService) DeleteTag(ctx context.Context, id string) error {
	if err := s.store.DeleteTag(ctx, id); err != nil {
		return err
	}

	s.logger.Info("tag deleted", "tag_id", id)
	return nil
}
