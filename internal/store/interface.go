// Package store defines the persistence interface for the PixelVault catalog.
package store

import (
	"context"
	"encoding/json"

	"github.com/pixelvault/pixelvault-server/internal/domain"
)

// Store defines the interface for all persistence operations.
//
// Every mutation is atomic with respect to other mutations and to concurrent
// reads: no caller observes a partially applied update. Exactly one process
// may own the storage medium at a time; cross-process sharing is undefined.
type Store interface {
	// Lifecycle
	Close() error

	// Items
	CreateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	UpdateItem(ctx context.Context, id string, patch *domain.ItemPatch) (*domain.Item, error)
	DeleteItem(ctx context.Context, id string) error
	IncrementItemUsage(ctx context.Context, id string) error
	SearchItems(ctx context.Context, filters SearchFilters) ([]*domain.Item, error)
	CountItems(ctx context.Context) (int, error)

	// Categories
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, id string, patch *domain.CategoryPatch) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// Tags
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	FindOrCreateTag(ctx context.Context, name, color string) (*domain.Tag, bool, error)
	UpdateTag(ctx context.Context, id string, patch *domain.TagPatch) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error

	// Settings
	GetSetting(ctx context.Context, key string) (*domain.Setting, error)
	SetSetting(ctx context.Context, key string, value json.RawMessage) error
	DeleteSetting(ctx context.Context, key string) error
}
