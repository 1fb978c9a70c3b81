package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pixelvault/pixelvault-server/internal/store"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/items",
		Summary:     "Search items",
		Description: "Returns catalog items matching the given filters. All filters combine conjunctively; no filters returns everything.",
		Tags:        []string{"Items"},
	}, s.handleSearchItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "countItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/count",
		Summary:     "Count items",
		Description: "Returns the total number of items in the catalog",
		Tags:        []string{"Items"},
	}, s.handleCountItems)
}

// === DTOs ===

// SearchItemsInput contains the filter parameters for a catalog query.
// Optional numeric, boolean, and date filters are strings so that an
// absent parameter is distinguishable from a zero value.
type SearchItemsInput struct {
	Keyword         string `query:"keyword" validate:"omitempty,max=200" doc:"Substring match on file name or tag name, case-insensitive"`
	CategoryID      string `query:"category_id" validate:"omitempty,max=64" doc:"Filter by owning category"`
	TagIDs          string `query:"tag_ids" validate:"omitempty,max=2048" doc:"Comma-separated tag IDs; matches items carrying any of them"`
	ExcludeTagIDs   string `query:"exclude_tag_ids" validate:"omitempty,max=2048" doc:"Comma-separated tag IDs; matches items carrying none of them"`
	Format          string `query:"format" validate:"omitempty,max=20" doc:"Exact format match, e.g. png"`
	MinSize         string `query:"min_size" doc:"Minimum size in bytes, inclusive"`
	MaxSize         string `query:"max_size" doc:"Maximum size in bytes, inclusive"`
	MinWidth        string `query:"min_width" doc:"Minimum pixel width, inclusive"`
	MaxWidth        string `query:"max_width" doc:"Maximum pixel width, inclusive"`
	MinHeight       string `query:"min_height" doc:"Minimum pixel height, inclusive"`
	MaxHeight       string `query:"max_height" doc:"Maximum pixel height, inclusive"`
	CreatedAfter    string `query:"created_after" doc:"RFC 3339 lower bound on creation time, inclusive"`
	CreatedBefore   string `query:"created_before" doc:"RFC 3339 upper bound on creation time, inclusive"`
	IsFavorite      string `query:"is_favorite" doc:"Filter by favorite flag: true or false"`
	HasTransparency string `query:"has_transparency" doc:"Filter by alpha channel flag: true or false"`
	IsAnimated      string `query:"is_animated" doc:"Filter by animation flag: true or false"`
	SortBy          string `query:"sort_by" validate:"omitempty,oneof=updatedAt createdAt usageCount name size" doc:"Sort field (default updatedAt)"`
	SortOrder       string `query:"sort_order" validate:"omitempty,oneof=ASC DESC" doc:"Sort direction (default DESC)"`
	Limit           int    `query:"limit" validate:"omitempty,gte=0,lte=1000" doc:"Max results; 0 means unlimited"`
	Offset          int    `query:"offset" validate:"omitempty,gte=0" doc:"Results to skip"`
}

// SearchItemsResponse contains matching items.
type SearchItemsResponse struct {
	Items []ItemResponse `json:"items" doc:"Matching items in sort order"`
}

// SearchItemsOutput wraps the search response for Huma.
type SearchItemsOutput struct {
	Body SearchItemsResponse
}

// CountItemsResponse contains the catalog item count.
type CountItemsResponse struct {
	Count int `json:"count" doc:"Total number of items"`
}

// CountItemsOutput wraps the count response for Huma.
type CountItemsOutput struct {
	Body CountItemsResponse
}

// === Handlers ===

func (s *Server) handleSearchItems(ctx context.Context, input *SearchItemsInput) (*SearchItemsOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	filters, err := buildSearchFilters(input)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Item.SearchItems(ctx, filters)
	if err != nil {
		return nil, err
	}

	resp := make([]ItemResponse, len(items))
	for i, item := range items {
		resp[i] = itemResponse(item)
	}

	return &SearchItemsOutput{Body: SearchItemsResponse{Items: resp}}, nil
}

func (s *Server) handleCountItems(ctx context.Context, _ *struct{}) (*CountItemsOutput, error) {
	count, err := s.services.Item.CountItems(ctx)
	if err != nil {
		return nil, err
	}

	return &CountItemsOutput{Body: CountItemsResponse{Count: count}}, nil
}

// buildSearchFilters converts flat query parameters into store filters.
func buildSearchFilters(input *SearchItemsInput) (store.SearchFilters, error) {
	filters := store.SearchFilters{
		Keyword:       input.Keyword,
		CategoryID:    input.CategoryID,
		TagIDs:        splitIDs(input.TagIDs),
		ExcludeTagIDs: splitIDs(input.ExcludeTagIDs),
		Format:        input.Format,
		SortBy:        store.SortField(input.SortBy),
		SortOrder:     store.SortOrder(input.SortOrder),
		Limit:         input.Limit,
		Offset:        input.Offset,
	}

	var err error
	if filters.MinSize, err = parseInt64Param("min_size", input.MinSize); err != nil {
		return filters, err
	}
	if filters.MaxSize, err = parseInt64Param("max_size", input.MaxSize); err != nil {
		return filters, err
	}
	if filters.MinWidth, err = parseIntParam("min_width", input.MinWidth); err != nil {
		return filters, err
	}
	if filters.MaxWidth, err = parseIntParam("max_width", input.MaxWidth); err != nil {
		return filters, err
	}
	if filters.MinHeight, err = parseIntParam("min_height", input.MinHeight); err != nil {
		return filters, err
	}
	if filters.MaxHeight, err = parseIntParam("max_height", input.MaxHeight); err != nil {
		return filters, err
	}
	if filters.CreatedAfter, err = parseTimeParam("created_after", input.CreatedAfter); err != nil {
		return filters, err
	}
	if filters.CreatedBefore, err = parseTimeParam("created_before", input.CreatedBefore); err != nil {
		return filters, err
	}
	if filters.IsFavorite, err = parseBoolParam("is_favorite", input.IsFavorite); err != nil {
		return filters, err
	}
	if filters.HasTransparency, err = parseBoolParam("has_transparency", input.HasTransparency); err != nil {
		return filters, err
	}
	if filters.IsAnimated, err = parseBoolParam("is_animated", input.IsAnimated); err != nil {
		return filters, err
	}

	return filters, nil
}

// splitIDs parses a comma-separated id list, dropping empty entries.
func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseInt64Param(name, raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, store.ErrInvalidInput.WithMessage(name + " must be an integer")
	}
	return &v, nil
}

func parseIntParam(name, raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, store.ErrInvalidInput.WithMessage(name + " must be an integer")
	}
	return &v, nil
}

func parseBoolParam(name, raw string) (*bool, error) {
	switch raw {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	}
	return nil, store.ErrInvalidInput.WithMessage(name + " must be true or false")
}

func parseTimeParam(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, store.ErrInvalidInput.WithMessage(name + " must be an RFC 3339 timestamp")
	}
	return &v, nil
}
