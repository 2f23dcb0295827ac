package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addHighlightViaAPI(t *testing.T, ts *testServer, paperID string) HighlightResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/papers/"+paperID+"/highlights", map[string]any{
		"text":  "the key lemma",
		"page":  1,
		"color": "green",
		"rects": []map[string]any{{"left": 40.0, "top": 80.0, "width": 200.0, "height": 16.0}},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var body HighlightResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestAddHighlight(t *testing.T) {
	ts := setupTestServer(t)
	paperID := ts.activePaperID()

	h := addHighlightViaAPI(t, ts, paperID)

	assert.NotEmpty(t, h.ID)
	assert.Equal(t, "the key lemma", h.Text)
	assert.Equal(t, "green", h.Color)
	// Captured at the paper's current zoom.
	assert.InDelta(t, 1.0, h.Scale, 0.001)
	require.Len(t, h.Rects, 1)
}

func TestAddHighlight_UnknownColor(t *testing.T) {
	ts := setupTestServer(t)
	paperID := ts.activePaperID()

	resp := ts.api.Post("/api/v1/papers/"+paperID+"/highlights", map[string]any{
		"text":  "x",
		"page":  1,
		"color": "mauve",
		"rects": []map[string]any{{"left": 0.0, "top": 0.0, "width": 10.0, "height": 10.0}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAddHighlight_NoiseRectsRejected(t *testing.T) {
	ts := setupTestServer(t)
	paperID := ts.activePaperID()

	resp := ts.api.Post("/api/v1/papers/"+paperID+"/highlights", map[string]any{
		"text":  "x",
		"page":  1,
		"rects": []map[string]any{{"left": 0.0, "top": 0.0, "width": 0.5, "height": 0.5}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestDeleteHighlight_Idempotent(t *testing.T) {
	ts := setupTestServer(t)
	paperID := ts.activePaperID()
	h := addHighlightViaAPI(t, ts, paperID)

	resp := ts.api.Delete("/api/v1/papers/" + paperID + "/highlights/" + h.ID)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	// Deleting again is not an error.
	resp = ts.api.Delete("/api/v1/papers/" + paperID + "/highlights/" + h.ID)
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestPageHighlights_ProjectsToRequestedScale(t *testing.T) {
	ts := setupTestServer(t)
	paperID := ts.activePaperID()
	addHighlightViaAPI(t, ts, paperID)

	resp := ts.api.Get("/api/v1/papers/" + paperID + "/pages/1/highlights?scale=2.0")
	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Highlights []HighlightResponse `json:"highlights"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Highlights, 1)

	h := body.Highlights[0]
	require.Len(t, h.ProjectedRects, 1)
	// Stored at scale 1.0, requested at 2.0: geometry doubles.
	assert.InDelta(t, 80.0, h.ProjectedRects[0].Left, 0.001)
	assert.InDelta(t, 400.0, h.ProjectedRects[0].Width, 0.001)
	// Stored rects are untouched.
	assert.InDelta(t, 40.0, h.Rects[0].Left, 0.001)
}

func TestListHighlights_PanelView(t *testing.T) {
	ts := setupTestServer(t)
	paperID := ts.activePaperID()
	addHighlightViaAPI(t, ts, paperID)

	resp := ts.api.Get("/api/v1/papers/" + paperID + "/highlights")
	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Highlights []HighlightResponse `json:"highlights"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Highlights, 1)
	assert.Equal(t, "the key lemma", body.Highlights[0].Text)
}

func TestHighlightPalette(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/highlights/palette")
	assert.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Colors  []string `json:"colors"`
		Default string   `json:"default"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.Colors)
	assert.Equal(t, body.Colors[0], body.Default)
	assert.Equal(t, "yellow", body.Default)
}
