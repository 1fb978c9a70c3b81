package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFilters_Validate_ZeroValue(t *testing.T) {
	var f SearchFilters
	require.NoError(t, f.Validate())
}

func TestSearchFilters_Validate_SortFields(t *testing.T) {
	for _, field := range []SortField{SortByUpdatedAt, SortByCreatedAt, SortByUsageCount, SortByName, SortBySize} {
		f := SearchFilters{SortBy: field, SortOrder: SortDesc}
		assert.NoError(t, f.Validate(), "field %q", field)
	}

	f := SearchFilters{SortBy: "rating"}
	err := f.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	f = SearchFilters{SortOrder: "sideways"}
	assert.ErrorIs(t, f.Validate(), ErrInvalidInput)
}

func TestSearchFilters_Validate_Ranges(t *testing.T) {
	lo, hi := int64(10), int64(100)

	f := SearchFilters{MinSize: &hi, MaxSize: &lo}
	assert.ErrorIs(t, f.Validate(), ErrInvalidInput)

	f = SearchFilters{MinSize: &lo, MaxSize: &hi}
	assert.NoError(t, f.Validate())

	// One-sided bounds are always fine.
	f = SearchFilters{MaxSize: &lo}
	assert.NoError(t, f.Validate())

	w1, w2 := 100, 10
	f = SearchFilters{MinWidth: &w1, MaxWidth: &w2}
	assert.ErrorIs(t, f.Validate(), ErrInvalidInput)

	now := time.Now()
	earlier := now.Add(-time.Hour)
	f = SearchFilters{CreatedAfter: &now, CreatedBefore: &earlier}
	assert.ErrorIs(t, f.Validate(), ErrInvalidInput)
}

func TestSearchFilters_Validate_Pagination(t *testing.T) {
	f := SearchFilters{Limit: -1}
	assert.ErrorIs(t, f.Validate(), ErrInvalidInput)

	f = SearchFilters{Offset: -5}
	assert.ErrorIs(t, f.Validate(), ErrInvalidInput)

	f = SearchFilters{Limit: 50, Offset: 100}
	assert.NoError(t, f.Validate())
}

func TestError_Is(t *testing.T) {
	err := ErrNotFound.WithMessage("item not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrAlreadyExists)

	wrapped := ErrStorageIO.WithCause(assert.AnError)
	assert.ErrorIs(t, wrapped, ErrStorageIO)
	assert.ErrorIs(t, wrapped, assert.AnError)
}
