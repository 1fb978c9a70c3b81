package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pixelvault/pixelvault-server/internal/domain"
	"github.com/pixelvault/pixelvault-server/internal/store"
)

// makeTestItem creates a domain.Item with sensible defaults for testing.
func makeTestItem(id, fileName string) *domain.Item {
	return &domain.Item{
		ID:          id,
		FileName:    fileName,
		StoragePath: "/data/store/" + fileName,
		Format:      "png",
		Size:        2048,
		Width:       640,
		Height:      480,
		CategoryID:  domain.CategoryDefault,
	}
}

func TestCreateAndGetItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := makeTestItem("itm-1", "sunset.png")
	item.TagIDs = []string{"tag-a", "tag-b", "tag-a"}

	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	got, err := s.GetItem(ctx, "itm-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}

	if got.FileName != "sunset.png" {
		t.Errorf("FileName: got %q, want %q", got.FileName, "sunset.png")
	}
	if got.StoragePath != item.StoragePath {
		t.Errorf("StoragePath: got %q, want %q", got.StoragePath, item.StoragePath)
	}
	if got.CategoryID != domain.CategoryDefault {
		t.Errorf("CategoryID: got %q, want %q", got.CategoryID, domain.CategoryDefault)
	}

	// Tag set is deduped at write time.
	if len(got.TagIDs) != 2 || got.TagIDs[0] != "tag-a" || got.TagIDs[1] != "tag-b" {
		t.Errorf("TagIDs: got %v, want [tag-a tag-b]", got.TagIDs)
	}

	// Timestamps populated by the store.
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not populated")
	}
}

func TestCreateItem_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateItem(ctx, makeTestItem("itm-dup", "a.png")); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	err := s.CreateItem(ctx, makeTestItem("itm-dup", "b.png"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateItem_MissingID(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateItem(context.Background(), makeTestItem("", "a.png"))
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetItem(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateItem_MergeSemantics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := makeTestItem("itm-1", "sunset.png")
	item.TagIDs = []string{"tag-a"}
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	created := item.CreatedAt

	fav := true
	got, err := s.UpdateItem(ctx, "itm-1", &domain.ItemPatch{IsFavorite: &fav})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	if !got.IsFavorite {
		t.Error("IsFavorite not applied")
	}
	// Unsupplied fields survive, including the tag set.
	if got.FileName != "sunset.png" || got.Format != "png" || got.Size != 2048 {
		t.Errorf("unsupplied fields changed: %+v", got)
	}
	if len(got.TagIDs) != 1 || got.TagIDs[0] != "tag-a" {
		t.Errorf("TagIDs changed by unrelated patch: %v", got.TagIDs)
	}
	// createdAt is set once and never modified; updatedAt is refreshed.
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed: got %v, want %v", got.CreatedAt, created)
	}
	if !got.UpdatedAt.After(created) {
		t.Error("UpdatedAt not refreshed")
	}

	// Verify the merge persisted.
	reread, err := s.GetItem(ctx, "itm-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if !reread.IsFavorite || reread.FileName != "sunset.png" {
		t.Errorf("persisted state wrong: %+v", reread)
	}
}

func TestUpdateItem_ReplaceTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := makeTestItem("itm-1", "a.png")
	item.TagIDs = []string{"tag-a", "tag-b"}
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	tags := []string{"tag-c"}
	got, err := s.UpdateItem(ctx, "itm-1", &domain.ItemPatch{TagIDs: &tags})
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if len(got.TagIDs) != 1 || got.TagIDs[0] != "tag-c" {
		t.Errorf("TagIDs: got %v, want [tag-c]", got.TagIDs)
	}

	reread, err := s.GetItem(ctx, "itm-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if len(reread.TagIDs) != 1 || reread.TagIDs[0] != "tag-c" {
		t.Errorf("persisted TagIDs: got %v, want [tag-c]", reread.TagIDs)
	}
}

func TestUpdateItem_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.UpdateItem(context.Background(), "nonexistent", &domain.ItemPatch{})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := makeTestItem("itm-1", "a.png")
	item.TagIDs = []string{"tag-a"}
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if err := s.DeleteItem(ctx, "itm-1"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	if _, err := s.GetItem(ctx, "itm-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Associations are gone too.
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM item_tags WHERE item_id = 'itm-1'`).Scan(&n); err != nil {
		t.Fatalf("count item_tags: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 item_tags rows after delete, got %d", n)
	}

	if err := s.DeleteItem(ctx, "itm-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteItem_IDReusable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Cycle the same id enough times to touch every pooled connection.
	for i := 0; i < 20; i++ {
		item := makeTestItem("itm-1", "a.png")
		item.TagIDs = []string{"tag-a", "tag-b"}
		if err := s.CreateItem(ctx, item); err != nil {
			t.Fatalf("CreateItem cycle %d: %v", i, err)
		}
		if err := s.DeleteItem(ctx, "itm-1"); err != nil {
			t.Fatalf("DeleteItem cycle %d: %v", i, err)
		}
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM item_tags WHERE item_id = 'itm-1'`).Scan(&n); err != nil {
		t.Fatalf("count item_tags: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 item_tags rows after delete cycles, got %d", n)
	}

	// A fresh item under the old id starts with its own tag set, not a
	// revived one.
	item := makeTestItem("itm-1", "b.png")
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem after delete: %v", err)
	}

	got, err := s.GetItem(ctx, "itm-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.FileName != "b.png" {
		t.Errorf("FileName: got %q, want %q", got.FileName, "b.png")
	}
	if len(got.TagIDs) != 0 {
		t.Errorf("TagIDs: got %v, want none", got.TagIDs)
	}
}

func TestIncrementItemUsage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateItem(ctx, makeTestItem("itm-1", "a.png")); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := s.IncrementItemUsage(ctx, "itm-1"); err != nil {
			t.Fatalf("IncrementItemUsage: %v", err)
		}
	}

	got, err := s.GetItem(ctx, "itm-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.UsageCount != 3 {
		t.Errorf("UsageCount: got %d, want 3", got.UsageCount)
	}

	if err := s.IncrementItemUsage(ctx, "nonexistent"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDanglingCategoryReferenceTolerated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat := &domain.Category{ID: "cat-trips", Name: "Trips"}
	if err := s.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	item := makeTestItem("itm-1", "a.png")
	item.CategoryID = "cat-trips"
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if err := s.DeleteCategory(ctx, "cat-trips"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	// The item survives with its dangling reference intact.
	got, err := s.GetItem(ctx, "itm-1")
	if err != nil {
		t.Fatalf("GetItem after category delete: %v", err)
	}
	if got.CategoryID != "cat-trips" {
		t.Errorf("CategoryID: got %q, want dangling %q", got.CategoryID, "cat-trips")
	}
}

func TestConcurrentUpdates_DisjointFieldsBothApply(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateItem(ctx, makeTestItem("itm-1", "a.png")); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	fav := true
	name := "renamed.png"

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = s.UpdateItem(ctx, "itm-1", &domain.ItemPatch{IsFavorite: &fav})
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = s.UpdateItem(ctx, "itm-1", &domain.ItemPatch{FileName: &name})
	}()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}

	got, err := s.GetItem(ctx, "itm-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if !got.IsFavorite || got.FileName != "renamed.png" {
		t.Errorf("lost update: favorite=%v name=%q", got.IsFavorite, got.FileName)
	}
}

func TestConcurrentIncrements_NoneLost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateItem(ctx, makeTestItem("itm-1", "a.png")); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	const workers = 10
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if err := s.IncrementItemUsage(ctx, "itm-1"); err != nil {
				t.Errorf("IncrementItemUsage: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.GetItem(ctx, "itm-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.UsageCount != workers {
		t.Errorf("UsageCount: got %d, want %d", got.UsageCount, workers)
	}
}
