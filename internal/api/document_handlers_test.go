package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadDocument posts a multipart form to the chi upload route.
func uploadDocument(t *testing.T, ts *testServer, paperID, fileName string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/papers/"+paperID+"/document", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)
	return w
}

func TestUploadDocument(t *testing.T) {
	ts := setupTestServer(t)
	paperID := ts.activePaperID()

	w := uploadDocument(t, ts, paperID, "sorting.pdf", []byte("%PDF-1.7 test"))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Success bool          `json:"success"`
		Data    PaperResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.True(t, envelope.Data.HasPDF)
	assert.Equal(t, "sorting.pdf", envelope.Data.PDFName)
	// Upload resets the viewport.
	assert.Equal(t, 1, envelope.Data.LastPage)
}

func TestUploadDocument_MissingFileField(t *testing.T) {
	ts := setupTestServer(t)
	paperID := ts.activePaperID()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/papers/"+paperID+"/document", bytes.NewBufferString("not a form"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadDocument_UnknownPaper(t *testing.T) {
	ts := setupTestServer(t)

	w := uploadDocument(t, ts, "tab-missing", "x.pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDocumentInfo(t *testing.T) {
	ts := setupTestServer(t)
	paperID := ts.activePaperID()

	uploadDocument(t, ts, paperID, "sorting.pdf", []byte("%PDF-1.7 test"))

	resp := ts.api.Get("/api/v1/papers/" + paperID + "/document")
	assert.Equal(t, http.StatusOK, resp.Code)

	var body DocumentInfoResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "sorting.pdf", body.FileName)
	assert.Equal(t, 2, body.PageCount)
}

func TestGetDocumentInfo_NoDocument(t *testing.T) {
	ts := setupTestServer(t)
	paperID := ts.activePaperID()

	resp := ts.api.Get("/api/v1/papers/" + paperID + "/document")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRenderPage_PNG(t *testing.T) {
	ts := setupTestServer(t)
	paperID := ts.activePaperID()
	uploadDocument(t, ts, paperID, "sorting.pdf", []byte("%PDF-1.7 test"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/papers/"+paperID+"/pages/1/image?scale=2.0", nil)
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	// Fake pages are US Letter at 1.0; scale 2.0 doubles the raster.
	assert.Equal(t, 1224, img.Bounds().Dx())
}

func TestRenderPage_BadPageParam(t *testing.T) {
	ts := setupTestServer(t)
	paperID := ts.activePaperID()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/papers/"+paperID+"/pages/abc/image", nil)
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRenderPage_NoDocument(t *testing.T) {
	ts := setupTestServer(t)
	paperID := ts.activePaperID()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/papers/"+paperID+"/pages/1/image", nil)
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
