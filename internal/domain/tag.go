package domain

import "time"

// Tag represents a short label attached to items.
// Key is the canonical identity (lowercased, trimmed) and is the source of
// truth for deduplication; Name preserves the casing the user first typed.
type Tag struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now()
}

// TagPatch is a partial update to a Tag. Only non-nil fields are applied.
// Renaming re-derives Key in the store, which enforces uniqueness.
type TagPatch struct {
	Name        *string `json:"name,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply merges the non-name fields of the patch into t and refreshes
// UpdatedAt. Name changes are handled by the store so the normalized Key
// stays consistent.
func (p *TagPatch) Apply(t *Tag) {
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	t.Touch()
}
