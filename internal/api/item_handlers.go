package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pixelvault/pixelvault-server/internal/domain"
)

func (s *Server) registerItemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/items",
		Summary:     "Create item",
		Description: "Adds an item to the catalog",
		Tags:        []string{"Items"},
	}, s.handleCreateItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "getItem",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{id}",
		Summary:     "Get item",
		Description: "Returns an item by ID",
		Tags:        []string{"Items"},
	}, s.handleGetItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateItem",
		Method:      http.MethodPatch,
		Path:        "/api/v1/items/{id}",
		Summary:     "Update item",
		Description: "Applies a partial update to an item",
		Tags:        []string{"Items"},
	}, s.handleUpdateItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/items/{id}",
		Summary:     "Delete item",
		Description: "Removes an item from the catalog",
		Tags:        []string{"Items"},
	}, s.handleDeleteItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "recordItemUsage",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/usage",
		Summary:     "Record item usage",
		Description: "Increments an item's usage counter",
		Tags:        []string{"Items"},
	}, s.handleRecordItemUsage)

	huma.Register(s.api, huma.Operation{
		OperationID: "tagItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/tags",
		Summary:     "Tag item",
		Description: "Attaches a tag by name, creating it on first use",
		Tags:        []string{"Items"},
	}, s.handleTagItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "untagItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/items/{id}/tags/{tagID}",
		Summary:     "Untag item",
		Description: "Detaches a tag from an item",
		Tags:        []string{"Items"},
	}, s.handleUntagItem)
}

// === DTOs ===

// ItemResponse contains item data in API responses.
type ItemResponse struct {
	ID              string    `json:"id" doc:"Item ID"`
	FileName        string    `json:"file_name" doc:"Display file name"`
	OriginalPath    string    `json:"original_path,omitempty" doc:"Path the asset was imported from"`
	StoragePath     string    `json:"storage_path" doc:"Path of the managed asset copy"`
	Format          string    `json:"format,omitempty" doc:"Image format, e.g. png"`
	Size            int64     `json:"size" doc:"Asset size in bytes"`
	Width           int       `json:"width" doc:"Pixel width"`
	Height          int       `json:"height" doc:"Pixel height"`
	TagIDs          []string  `json:"tag_ids,omitempty" doc:"Attached tag IDs"`
	CategoryID      string    `json:"category_id,omitempty" doc:"Owning category ID"`
	IsFavorite      bool      `json:"is_favorite" doc:"Favorite flag"`
	HasTransparency bool      `json:"has_transparency" doc:"Alpha channel flag"`
	IsAnimated      bool      `json:"is_animated" doc:"Animation flag"`
	UsageCount      int64     `json:"usage_count" doc:"Times the item was used"`
	CreatedAt       time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time `json:"updated_at" doc:"Last update time"`
}

func itemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:              item.ID,
		FileName:        item.FileName,
		OriginalPath:    item.OriginalPath,
		StoragePath:     item.StoragePath,
		Format:          item.Format,
		Size:            item.Size,
		Width:           item.Width,
		Height:          item.Height,
		TagIDs:          item.TagIDs,
		CategoryID:      item.CategoryID,
		IsFavorite:      item.IsFavorite,
		HasTransparency: item.HasTransparency,
		IsAnimated:      item.IsAnimated,
		UsageCount:      item.UsageCount,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

// ItemOutput wraps the item response for Huma.
type ItemOutput struct {
	Body ItemResponse
}

// CreateItemRequest is the request body for creating an item.
type CreateItemRequest struct {
	ID              string   `json:"id,omitempty" validate:"omitempty,max=64" doc:"Item ID; assigned by the server when omitted"`
	FileName        string   `json:"file_name" validate:"required,min=1,max=255" doc:"Display file name"`
	OriginalPath    string   `json:"original_path,omitempty" validate:"omitempty,max=1024" doc:"Path the asset was imported from"`
	StoragePath     string   `json:"storage_path" validate:"required,max=1024" doc:"Path of the managed asset copy"`
	Format          string   `json:"format,omitempty" validate:"omitempty,max=20" doc:"Image format, e.g. png"`
	Size            int64    `json:"size,omitempty" validate:"omitempty,gte=0" doc:"Asset size in bytes"`
	Width           int      `json:"width,omitempty" validate:"omitempty,gte=0" doc:"Pixel width"`
	Height          int      `json:"height,omitempty" validate:"omitempty,gte=0" doc:"Pixel height"`
	TagIDs          []string `json:"tag_ids,omitempty" doc:"Tag IDs to attach"`
	CategoryID      string   `json:"category_id,omitempty" validate:"omitempty,max=64" doc:"Owning category ID"`
	IsFavorite      bool     `json:"is_favorite,omitempty" doc:"Favorite flag"`
	HasTransparency bool     `json:"has_transparency,omitempty" doc:"Alpha channel flag"`
	IsAnimated      bool     `json:"is_animated,omitempty" doc:"Animation flag"`
}

// CreateItemInput wraps the create item request for Huma.
type CreateItemInput struct {
	Body CreateItemRequest
}

// GetItemInput contains parameters for getting an item.
type GetItemInput struct {
	ID string `path:"id" doc:"Item ID"`
}

// UpdateItemRequest is the request body for updating an item.
// Only provided fields are applied.
type UpdateItemRequest struct {
	FileName        *string   `json:"file_name,omitempty" validate:"omitempty,min=1,max=255" doc:"Display file name"`
	OriginalPath    *string   `json:"original_path,omitempty" validate:"omitempty,max=1024" doc:"Path the asset was imported from"`
	StoragePath     *string   `json:"storage_path,omitempty" validate:"omitempty,min=1,max=1024" doc:"Path of the managed asset copy"`
	Format          *string   `json:"format,omitempty" validate:"omitempty,max=20" doc:"Image format"`
	Size            *int64    `json:"size,omitempty" validate:"omitempty,gte=0" doc:"Asset size in bytes"`
	Width           *int      `json:"width,omitempty" validate:"omitempty,gte=0" doc:"Pixel width"`
	Height          *int      `json:"height,omitempty" validate:"omitempty,gte=0" doc:"Pixel height"`
	TagIDs          *[]string `json:"tag_ids,omitempty" doc:"Replacement tag ID set"`
	CategoryID      *string   `json:"category_id,omitempty" validate:"omitempty,max=64" doc:"Owning category ID; empty clears it"`
	IsFavorite      *bool     `json:"is_favorite,omitempty" doc:"Favorite flag"`
	HasTransparency *bool     `json:"has_transparency,omitempty" doc:"Alpha channel flag"`
	IsAnimated      *bool     `json:"is_animated,omitempty" doc:"Animation flag"`
}

// UpdateItemInput wraps the update item request for Huma.
type UpdateItemInput struct {
	ID   string `path:"id" doc:"Item ID"`
	Body UpdateItemRequest
}

// DeleteItemInput contains parameters for deleting an item.
type DeleteItemInput struct {
	ID string `path:"id" doc:"Item ID"`
}

// TagItemRequest is the request body for tagging an item.
type TagItemRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50" doc:"Tag name; normalized for deduplication"`
}

// TagItemInput wraps the tag item request for Huma.
type TagItemInput struct {
	ID   string `path:"id" doc:"Item ID"`
	Body TagItemRequest
}

// UntagItemInput contains parameters for untagging an item.
type UntagItemInput struct {
	ID    string `path:"id" doc:"Item ID"`
	TagID string `path:"tagID" doc:"Tag ID"`
}

// === Handlers ===

func (s *Server) handleCreateItem(ctx context.Context, input *CreateItemInput) (*ItemOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	item, err := s.services.Item.CreateItem(ctx, &domain.Item{
		ID:              input.Body.ID,
		FileName:        input.Body.FileName,
		OriginalPath:    input.Body.OriginalPath,
		StoragePath:     input.Body.StoragePath,
		Format:          input.Body.Format,
		Size:            input.Body.Size,
		Width:           input.Body.Width,
		Height:          input.Body.Height,
		TagIDs:          input.Body.TagIDs,
		CategoryID:      input.Body.CategoryID,
		IsFavorite:      input.Body.IsFavorite,
		HasTransparency: input.Body.HasTransparency,
		IsAnimated:      input.Body.IsAnimated,
	})
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: itemResponse(item)}, nil
}

func (s *Server) handleGetItem(ctx context.Context, input *GetItemInput) (*ItemOutput, error) {
	item, found, err := s.services.Item.GetItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, huma.Error404NotFound("Item not found")
	}

	return &ItemOutput{Body: itemResponse(item)}, nil
}

func (s *Server) handleUpdateItem(ctx context.Context, input *UpdateItemInput) (*ItemOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	item, err := s.services.Item.UpdateItem(ctx, input.ID, &domain.ItemPatch{
		FileName:        input.Body.FileName,
		OriginalPath:    input.Body.OriginalPath,
		StoragePath:     input.Body.StoragePath,
		Format:          input.Body.Format,
		Size:            input.Body.Size,
		Width:           input.Body.Width,
		Height:          input.Body.Height,
		TagIDs:          input.Body.TagIDs,
		CategoryID:      input.Body.CategoryID,
		IsFavorite:      input.Body.IsFavorite,
		HasTransparency: input.Body.HasTransparency,
		IsAnimated:      input.Body.IsAnimated,
	})
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: itemResponse(item)}, nil
}

func (s *Server) handleDeleteItem(ctx context.Context, input *DeleteItemInput) (*MessageOutput, error) {
	if err := s.services.Item.DeleteItem(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Item deleted"}}, nil
}

func (s *Server) handleRecordItemUsage(ctx context.Context, input *GetItemInput) (*ItemOutput, error) {
	item, err := s.services.Item.RecordUsage(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: itemResponse(item)}, nil
}

func (s *Server) handleTagItem(ctx context.Context, input *TagItemInput) (*TagOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	tag, _, err := s.services.Item.TagItem(ctx, input.ID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: tagResponse(tag)}, nil
}

func (s *Server) handleUntagItem(ctx context.Context, input *UntagItemInput) (*MessageOutput, error) {
	if err := s.services.Item.UntagItem(ctx, input.ID, input.TagID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Tag removed from item"}}, nil
}
