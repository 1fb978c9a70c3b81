package domain

import "time"

// Built-in category IDs. These exist from first initialization and can never
// be deleted, regardless of caller privilege.
const (
	CategoryDefault   = "default"
	CategoryFavorites = "favorites"
	CategoryRecent    = "recent"
)

// Category represents a user-visible grouping of items. ParentID allows
// hierarchical grouping; it is a soft reference like Item.CategoryID.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	ParentID    string    `json:"parent_id,omitempty"`
	Position    int       `json:"position,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (c *Category) Touch() {
	c.UpdatedAt = time.Now()
}

// IsBuiltin reports whether the category is one of the protected built-ins.
func (c *Category) IsBuiltin() bool {
	return IsBuiltinCategory(c.ID)
}

// IsBuiltinCategory reports whether id names a protected built-in category.
func IsBuiltinCategory(id string) bool {
	switch id {
	case CategoryDefault, CategoryFavorites, CategoryRecent:
		return true
	}
	return false
}

// BuiltinCategories returns the seed set created at first initialization.
// Positions keep the UI ordering stable across installs.
func BuiltinCategories() []*Category {
	now := time.Now()
	return []*Category{
		{ID: CategoryDefault, Name: "Default", Icon: "folder", Position: 0, CreatedAt: now, UpdatedAt: now},
		{ID: CategoryFavorites, Name: "Favorites", Icon: "star", Position: 1, CreatedAt: now, UpdatedAt: now},
		{ID: CategoryRecent, Name: "Recent", Icon: "clock", Position: 2, CreatedAt: now, UpdatedAt: now},
	}
}

// CategoryPatch is a partial update to a Category. Only non-nil fields are applied.
type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	ParentID    *string `json:"parent_id,omitempty"` // empty string clears the parent
	Position    *int    `json:"position,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// Apply merges the patch into c and refreshes UpdatedAt.
func (p *CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.ParentID != nil {
		c.ParentID = *p.ParentID
	}
	if p.Position != nil {
		c.Position = *p.Position
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	c.Touch()
}
