// Package domain contains the core business entities and domain logic for the PixelVault catalog.
package domain

import "time"

// Item represents a cataloged image asset's metadata record.
// The asset bytes live on disk and belong to the import/export pipeline;
// the store only keeps the paths that locate them.
//
// CategoryID and TagIDs are soft references: deleting the referenced category
// or tag leaves the ids in place, and readers must tolerate dangling values.
// The presentation layer treats an unresolved reference as "uncategorized".
type Item struct {
	ID              string    `json:"id"`
	FileName        string    `json:"file_name"`
	OriginalPath    string    `json:"original_path,omitempty"`
	StoragePath     string    `json:"storage_path"`
	Format          string    `json:"format,omitempty"` // e.g., "png", "gif"
	Size            int64     `json:"size"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	TagIDs          []string  `json:"tag_ids,omitempty"`
	CategoryID      string    `json:"category_id,omitempty"`
	IsFavorite      bool      `json:"is_favorite"`
	HasTransparency bool      `json:"has_transparency"`
	IsAnimated      bool      `json:"is_animated"`
	UsageCount      int64     `json:"usage_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (i *Item) Touch() {
	i.UpdatedAt = time.Now()
}

// DedupeTagIDs returns ids with duplicates and empty strings removed,
// preserving first-occurrence order.
func DedupeTagIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ItemPatch is a partial update to an Item. Only non-nil fields are applied,
// so a caller can change one attribute without reading the rest.
type ItemPatch struct {
	FileName        *string   `json:"file_name,omitempty"`
	OriginalPath    *string   `json:"original_path,omitempty"`
	StoragePath     *string   `json:"storage_path,omitempty"`
	Format          *string   `json:"format,omitempty"`
	Size            *int64    `json:"size,omitempty"`
	Width           *int      `json:"width,omitempty"`
	Height          *int      `json:"height,omitempty"`
	TagIDs          *[]string `json:"tag_ids,omitempty"`
	CategoryID      *string   `json:"category_id,omitempty"` // empty string clears the reference
	IsFavorite      *bool     `json:"is_favorite,omitempty"`
	HasTransparency *bool     `json:"has_transparency,omitempty"`
	IsAnimated      *bool     `json:"is_animated,omitempty"`
	UsageCount      *int64    `json:"usage_count,omitempty"`
}

// Apply merges the patch into item and refreshes UpdatedAt.
func (p *ItemPatch) Apply(item *Item) {
	if p.FileName != nil {
		item.FileName = *p.FileName
	}
	if p.OriginalPath != nil {
		item.OriginalPath = *p.OriginalPath
	}
	if p.StoragePath != nil {
		item.StoragePath = *p.StoragePath
	}
	if p.Format != nil {
		item.Format = *p.Format
	}
	if p.Size != nil {
		item.Size = *p.Size
	}
	if p.Width != nil {
		item.Width = *p.Width
	}
	if p.Height != nil {
		item.Height = *p.Height
	}
	if p.TagIDs != nil {
		item.TagIDs = DedupeTagIDs(*p.TagIDs)
	}
	if p.CategoryID != nil {
		item.CategoryID = *p.CategoryID
	}
	if p.IsFavorite != nil {
		item.IsFavorite = *p.IsFavorite
	}
	if p.HasTransparency != nil {
		item.HasTransparency = *p.HasTransparency
	}
	if p.IsAnimated != nil {
		item.IsAnimated = *p.IsAnimated
	}
	if p.UsageCount != nil {
		item.UsageCount = *p.UsageCount
	}
	item.Touch()
}
