package service

import (
	"context"
	"log/slog"

	"github.com/pixelvault/pixelvault-server/internal/domain"
	"github.com/pixelvault/pixelvault-server/internal/id"
	"github.com/pixelvault/pixelvault-server/internal/normalize"
	"github.com/pixelvault/pixelvault-server/internal/store"
)

// CategoryService orchestrates category operations.
type CategoryService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(store store.Store, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:  store,
		logger: logger,
	}
}

// ListCategories returns all categories, built-ins included, ordered by
// position then name.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.store.ListCategories(ctx)
}

// GetCategory returns a category by id.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.store.GetCategory(ctx, id)
}

// CreateCategory adds a user category. Assigns an id when the caller
// did not supply one.
func (s *CategoryService) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if category == nil {
		return nil, store.ErrInvalidInput.WithMessage("category is required")
	}

	category.Name = normalize.SanitizeString(category.Name)
	if category.Name == "" {
		return nil, store.ErrInvalidInput.WithMessage("category name is required")
	}

	if category.ID == "" {
		generated, err := id.Generate("cat")
		if err != nil {
			return nil, err
		}
		category.ID = generated
	}

	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}

// UpdateCategory applies a partial update to a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, patch *domain.CategoryPatch) (*domain.Category, error) {
	category, err := s.store.UpdateCategory(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("category updated", "category_id", id)
	return category, nil
}

// DeleteCategory removes a user category. Built-in categories are
// protected. Items keep their reference to the deleted id.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}

	s.logger.Info("category deleted", "category_id", id)
	return nil
}
