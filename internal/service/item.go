// Package service orchestrates catalog operations on top of the store layer.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pixelvault/pixelvault-server/internal/color"
	"github.com/pixelvault/pixelvault-server/internal/domain"
	"github.com/pixelvault/pixelvault-server/internal/normalize"
	"github.com/pixelvault/pixelvault-server/internal/store"
)

// ItemService orchestrates catalog item operations.
type ItemService struct {
	store  store.Store
	logger *slog.Logger
}

// NewItemService creates a new item service.
func NewItemService(store store.Store, logger *slog.Logger) *ItemService {
	return &ItemService{
		store:  store,
		logger: logger,
	}
}

// CreateItem adds an item to the catalog.
// Assigns an id when the caller did not supply one, sanitizes the file
// name, and places the item in the default category when none is given.
func (s *ItemService) CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, store.ErrInvalidInput.WithMessage("item is required")
	}

	item.FileName = normalize.SanitizeString(item.FileName)
	if item.FileName == "" {
		return nil, store.ErrInvalidInput.WithMessage("item file name is required")
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CategoryID == "" {
		item.CategoryID = domain.CategoryDefault
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("item created",
		"item_id", item.ID,
		"file_name", item.FileName,
		"category_id", item.CategoryID,
	)

	return item, nil
}

// GetItem returns an item by id.
// Absence is reported through the bool, not an error.
func (s *ItemService) GetItem(ctx context.Context, id string) (*domain.Item, bool, error) {
	item, err := s.store.GetItem(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return item, true, nil
}

// UpdateItem applies a partial update to an item.
func (s *ItemService) UpdateItem(ctx context.Context, id string, patch *domain.ItemPatch) (*domain.Item, error) {
	item, err := s.store.UpdateItem(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("item updated", "item_id", id)
	return item, nil
}

// DeleteItem removes an item from the catalog.
func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return err
	}

	s.logger.Info("item deleted", "item_id", id)
	return nil
}

// RecordUsage bumps an item's usage counter and returns the updated item.
func (s *ItemService) RecordUsage(ctx context.Context, id string) (*domain.Item, error) {
	if err := s.store.IncrementItemUsage(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetItem(ctx, id)
}

// TagItem attaches a tag to an item by raw name, creating the tag on
// first use. Idempotent when the item already carries the tag.
func (s *ItemService) TagItem(ctx context.Context, itemID, rawName string) (*domain.Tag, bool, error) {
	// Resolve the item first so tagging a missing item does not leave a
	// freshly created tag behind.
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, false, err
	}

	tag, created, err := s.store.FindOrCreateTag(ctx, rawName, color.ForKey(normalize.TagKey(rawName)))
	if err != nil {
		return nil, false, err
	}

	for _, tagID := range item.TagIDs {
		if tagID == tag.ID {
			return tag, created, nil
		}
	}

	tagIDs := append(append([]string{}, item.TagIDs...), tag.ID)
	if _, err := s.store.UpdateItem(ctx, itemID, &domain.ItemPatch{TagIDs: &tagIDs}); err != nil {
		return nil, false, err
	}

	s.logger.Info("item tagged",
		"item_id", itemID,
		"tag_id", tag.ID,
		"created", created,
	)

	return tag, created, nil
}

// UntagItem detaches a tag from an item. Idempotent when the item does
// not carry the tag.
func (s *ItemService) UntagItem(ctx context.Context, itemID, tagID string) error {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	tagIDs := make([]string, 0, len(item.TagIDs))
	for _, id := range item.TagIDs {
		if id != tagID {
			tagIDs = append(tagIDs, id)
		}
	}
	if len(tagIDs) == len(item.TagIDs) {
		return nil
	}

	if _, err := s.store.UpdateItem(ctx, itemID, &domain.ItemPatch{TagIDs: &tagIDs}); err != nil {
		return err
	}

	s.logger.Info("item untagged", "item_id", itemID, "tag_id", tagID)
	return nil
}

// SearchItems runs a filtered catalog query.
func (s *ItemService) SearchItems(ctx context.Context, filters store.SearchFilters) ([]*domain.Item, error) {
	return s.store.SearchItems(ctx, filters)
}

// CountItems returns the total number of items in the catalog.
func (s *ItemService) CountItems(ctx context.Context) (int, error) {
	return s.store.CountItems(ctx)
}
