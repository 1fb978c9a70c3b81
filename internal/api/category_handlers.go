package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pixelvault/pixelvault-server/internal/domain"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns all categories, built-ins included",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCategory",
		Method:      http.MethodPost,
		Path:        "/api/v1/categories",
		Summary:     "Create category",
		Description: "Creates a user category",
		Tags:        []string{"Categories"},
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Get category",
		Description: "Returns a category by ID",
		Tags:        []string{"Categories"},
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCategory",
		Method:      http.MethodPatch,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Update category",
		Description: "Updates a category",
		Tags:        []string{"Categories"},
	}, s.handleUpdateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCategory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Delete category",
		Description: "Deletes a user category; built-ins are protected",
		Tags:        []string{"Categories"},
	}, s.handleDeleteCategory)
}

// === DTOs ===

// CategoryResponse contains category data in API responses.
type CategoryResponse struct {
	ID          string    `json:"id" doc:"Category ID"`
	Name        string    `json:"name" doc:"Display name"`
	Description string    `json:"description,omitempty" doc:"Category description"`
	Color       string    `json:"color,omitempty" doc:"Display color"`
	ParentID    string    `json:"parent_id,omitempty" doc:"Parent category ID"`
	Position    int       `json:"position,omitempty" doc:"Sort position"`
	Icon        string    `json:"icon,omitempty" doc:"Display icon"`
	Builtin     bool      `json:"builtin" doc:"Whether the category is a protected built-in"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

func categoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		ParentID:    c.ParentID,
		Position:    c.Position,
		Icon:        c.Icon,
		Builtin:     c.IsBuiltin(),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ListCategoriesResponse contains a list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories" doc:"List of categories"`
}

// ListCategoriesOutput wraps the list categories response for Huma.
type ListCategoriesOutput struct {
	Body ListCategoriesResponse
}

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	ID          string `json:"id,omitempty" validate:"omitempty,max=64" doc:"Category ID; assigned by the server when omitted"`
	Name        string `json:"name" validate:"required,min=1,max=100" doc:"Display name"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500" doc:"Category description"`
	Color       string `json:"color,omitempty" validate:"omitempty,max=20" doc:"Display color"`
	ParentID    string `json:"parent_id,omitempty" validate:"omitempty,max=64" doc:"Parent category ID"`
	Position    int    `json:"position,omitempty" validate:"omitempty,gte=0" doc:"Sort position"`
	Icon        string `json:"icon,omitempty" validate:"omitempty,max=50" doc:"Display icon"`
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	Body CreateCategoryRequest
}

// CategoryOutput wraps the category response for Huma.
type CategoryOutput struct {
	Body CategoryResponse
}

// GetCategoryInput contains parameters for getting a category.
type GetCategoryInput struct {
	ID string `path:"id" doc:"Category ID"`
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100" doc:"Display name"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500" doc:"Category description"`
	Color       *string `json:"color,omitempty" validate:"omitempty,max=20" doc:"Display color"`
	ParentID    *string `json:"parent_id,omitempty" validate:"omitempty,max=64" doc:"Parent category ID; empty clears it"`
	Position    *int    `json:"position,omitempty" validate:"omitempty,gte=0" doc:"Sort position"`
	Icon        *string `json:"icon,omitempty" validate:"omitempty,max=50" doc:"Display icon"`
}

// UpdateCategoryInput wraps the update category request for Huma.
type UpdateCategoryInput struct {
	ID   string `path:"id" doc:"Category ID"`
	Body UpdateCategoryRequest
}

// DeleteCategoryInput contains parameters for deleting a category.
type DeleteCategoryInput struct {
	ID string `path:"id" doc:"Category ID"`
}

// === Handlers ===

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	categories, err := s.services.Category.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = categoryResponse(c)
	}

	return &ListCategoriesOutput{Body: ListCategoriesResponse{Categories: resp}}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	c, err := s.services.Category.CreateCategory(ctx, &domain.Category{
		ID:          input.Body.ID,
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Color:       input.Body.Color,
		ParentID:    input.Body.ParentID,
		Position:    input.Body.Position,
		Icon:        input.Body.Icon,
	})
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: categoryResponse(c)}, nil
}

func (s *Server) handleGetCategory(ctx context.Context, input *GetCategoryInput) (*CategoryOutput, error) {
	c, err := s.services.Category.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: categoryResponse(c)}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	c, err := s.services.Category.UpdateCategory(ctx, input.ID, &domain.CategoryPatch{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Color:       input.Body.Color,
		ParentID:    input.Body.ParentID,
		Position:    input.Body.Position,
		Icon:        input.Body.Icon,
	})
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: categoryResponse(c)}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *DeleteCategoryInput) (*MessageOutput, error) {
	if err := s.services.Category.DeleteCategory(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Category deleted"}}, nil
}
