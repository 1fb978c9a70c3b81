package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTag_NormalizesName(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tags", map[string]any{
		"name":  "  Slow Burn ",
		"color": "#ff8800",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Create failed: %s", resp.Body.String())

	var envelope testEnvelope[TagResponse]
	decodeEnvelope(t, resp.Body.Bytes(), &envelope)

	assert.NotEmpty(t, envelope.Data.ID)
	assert.Equal(t, "slow burn", envelope.Data.Key)
	assert.Equal(t, "Slow Burn", envelope.Data.Name)
	assert.Equal(t, "#ff8800", envelope.Data.Color)
}

func TestCreateTag_Dedupes(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": "Nature"})
	require.Equal(t, http.StatusOK, resp.Code)

	var first testEnvelope[TagResponse]
	decodeEnvelope(t, resp.Body.Bytes(), &first)

	// Same key after normalization resolves to the existing tag.
	resp = ts.api.Post("/api/v1/tags", map[string]any{"name": "NATURE"})
	require.Equal(t, http.StatusOK, resp.Code)

	var second testEnvelope[TagResponse]
	decodeEnvelope(t, resp.Body.Bytes(), &second)

	assert.Equal(t, first.Data.ID, second.Data.ID)
	assert.Equal(t, "Nature", second.Data.Name)
}

func TestCreateTag_MissingName(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tags", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetTag_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/tags/no-such-tag")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListTags_SortedByKey(t *testing.T) {
	ts := setupTestServer(t)

	for _, name := range []string{"Zebra", "Alpha", "Mango"} {
		resp := ts.api.Post("/api/v1/tags", map[string]any{"name": name})
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListTagsResponse]
	decodeEnvelope(t, resp.Body.Bytes(), &envelope)

	keys := make([]string, 0, len(envelope.Data.Tags))
	for _, tag := range envelope.Data.Tags {
		keys = append(keys, tag.Key)
	}
	assert.Equal(t, []string{"alpha", "mango", "zebra"}, keys)
}

func TestUpdateTag_RenameCollision(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": "Nature"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/tags", map[string]any{"name": "Urban"})
	require.Equal(t, http.StatusOK, resp.Code)

	var urban testEnvelope[TagResponse]
	decodeEnvelope(t, resp.Body.Bytes(), &urban)

	resp = ts.api.Patch("/api/v1/tags/"+urban.Data.ID, map[string]any{
		"name": "NATURE",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestUpdateTag_ColorOnly(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": "Nature"})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[TagResponse]
	decodeEnvelope(t, resp.Body.Bytes(), &envelope)

	resp = ts.api.Patch("/api/v1/tags/"+envelope.Data.ID, map[string]any{
		"color": "#00ff00",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	decodeEnvelope(t, resp.Body.Bytes(), &envelope)
	assert.Equal(t, "Nature", envelope.Data.Name)
	assert.Equal(t, "#00ff00", envelope.Data.Color)
}

func TestDeleteTag(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/tags", map[string]any{"name": "Nature"})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[TagResponse]
	decodeEnvelope(t, resp.Body.Bytes(), &envelope)

	resp = ts.api.Delete("/api/v1/tags/" + envelope.Data.ID)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/tags/" + envelope.Data.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/tags/" + envelope.Data.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
