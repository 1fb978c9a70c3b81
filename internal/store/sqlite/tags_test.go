package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pixelvault/pixelvault-server/internal/domain"
	"github.com/pixelvault/pixelvault-server/internal/store"
)

func TestFindOrCreateTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag, created, err := s.FindOrCreateTag(ctx, "Sunset", "#ff8800")
	if err != nil {
		t.Fatalf("FindOrCreateTag: %v", err)
	}
	if !created {
		t.Error("expected created=true for first call")
	}
	if tag.Key != "sunset" {
		t.Errorf("Key: got %q, want %q", tag.Key, "sunset")
	}
	if tag.Name != "Sunset" {
		t.Errorf("Name: got %q, want %q (display casing preserved)", tag.Name, "Sunset")
	}
	if tag.Color != "#ff8800" {
		t.Errorf("Color: got %q", tag.Color)
	}
	if tag.ID == "" {
		t.Error("store-assigned id missing")
	}
}

func TestFindOrCreateTag_NormalizedDedupe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, created, err := s.FindOrCreateTag(ctx, "Foo", "")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}

	// Same normalized name: returns the existing tag unchanged, supplied
	// color ignored.
	second, created, err := s.FindOrCreateTag(ctx, "  foo ", "#123456")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if created {
		t.Error("expected created=false on hit")
	}
	if second.ID != first.ID {
		t.Errorf("ids differ: %q vs %q", second.ID, first.ID)
	}
	if second.Name != "Foo" {
		t.Errorf("Name: got %q, want first writer's %q", second.Name, "Foo")
	}
	if second.Color != "" {
		t.Errorf("Color: got %q, want unchanged empty", second.Color)
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 1 {
		t.Errorf("expected exactly one tag, got %d", len(tags))
	}
}

func TestFindOrCreateTag_EmptyName(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, _, err := s.FindOrCreateTag(context.Background(), name, "")
		if !errors.Is(err, store.ErrInvalidInput) {
			t.Errorf("FindOrCreateTag(%q): expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestFindOrCreateTag_Concurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const workers = 8
	ids := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			tag, _, err := s.FindOrCreateTag(ctx, "Shared", "")
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = tag.ID
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", i, err)
		}
	}
	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("worker %d got id %q, want %q", i, ids[i], ids[0])
		}
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 1 {
		t.Errorf("expected exactly one tag, got %d", len(tags))
	}
}

func TestListTags_OrderedByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zebra", "Apple", "mango"} {
		if _, _, err := s.FindOrCreateTag(ctx, name, ""); err != nil {
			t.Fatalf("FindOrCreateTag(%q): %v", name, err)
		}
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(tags))
	}
	want := []string{"Apple", "mango", "zebra"}
	for i, w := range want {
		if tags[i].Name != w {
			t.Errorf("position %d: got %q, want %q", i, tags[i].Name, w)
		}
	}
}

func TestUpdateTag_Rename(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag, _, err := s.FindOrCreateTag(ctx, "Sunset", "")
	if err != nil {
		t.Fatalf("FindOrCreateTag: %v", err)
	}

	name := "Golden Hour"
	got, err := s.UpdateTag(ctx, tag.ID, &domain.TagPatch{Name: &name})
	if err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}
	if got.Name != "Golden Hour" {
		t.Errorf("Name: got %q", got.Name)
	}
	if got.Key != "golden hour" {
		t.Errorf("Key: got %q, want re-normalized %q", got.Key, "golden hour")
	}
}

func TestUpdateTag_RenameCollision(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, _, err := s.FindOrCreateTag(ctx, "sunset", ""); err != nil {
		t.Fatalf("FindOrCreateTag: %v", err)
	}
	other, _, err := s.FindOrCreateTag(ctx, "beach", "")
	if err != nil {
		t.Fatalf("FindOrCreateTag: %v", err)
	}

	// Renaming "beach" to a name that normalizes to "sunset" collides.
	name := " SUNSET "
	_, err = s.UpdateTag(ctx, other.ID, &domain.TagPatch{Name: &name})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateTag_ColorOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag, _, err := s.FindOrCreateTag(ctx, "Sunset", "")
	if err != nil {
		t.Fatalf("FindOrCreateTag: %v", err)
	}

	color := "#ffcc00"
	got, err := s.UpdateTag(ctx, tag.ID, &domain.TagPatch{Color: &color})
	if err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}
	if got.Color != "#ffcc00" {
		t.Errorf("Color: got %q", got.Color)
	}
	if got.Name != "Sunset" || got.Key != "sunset" {
		t.Errorf("name/key changed by color patch: %q/%q", got.Name, got.Key)
	}
}

func TestUpdateTag_NotFound(t *testing.T) {
	s := newTestStore(t)

	color := "#fff"
	_, err := s.UpdateTag(context.Background(), "nonexistent", &domain.TagPatch{Color: &color})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTag_ItemsKeepDanglingIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag, _, err := s.FindOrCreateTag(ctx, "temp", "")
	if err != nil {
		t.Fatalf("FindOrCreateTag: %v", err)
	}

	item := makeTestItem("itm-1", "a.png")
	item.TagIDs = []string{tag.ID}
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if err := s.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	got, err := s.GetItem(ctx, "itm-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if len(got.TagIDs) != 1 || got.TagIDs[0] != tag.ID {
		t.Errorf("TagIDs: got %v, want dangling [%s]", got.TagIDs, tag.ID)
	}

	if err := s.DeleteTag(ctx, tag.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
