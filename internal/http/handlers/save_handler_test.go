package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/portfolio-backend/internal/apperr"
	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/models"
)

type stubBackend struct {
	saved map[string][]byte
	err   error
}

func newStubBackend() *stubBackend {
	return &stubBackend{saved: make(map[string][]byte)}
}

func (b *stubBackend) PutFile(_ context.Context, filename string, data []byte) error {
	if b.err != nil {
		return b.err
	}
	b.saved[filename] = data
	return nil
}

func newSaveRouter(backend *stubBackend) (*gin.Engine, *content.Store) {
	gin.SetMode(gin.TestMode)
	store := content.NewStore()
	handler := NewSaveHandler(store, backend)
	r := gin.New()
	r.POST("/api/save-data", handler.SaveData)
	r.POST("/api/save-all-data", handler.SaveAllData)
	return r, store
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req, _ := http.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSaveHandler_SaveData(t *testing.T) {
	backend := newStubBackend()
	r, store := newSaveRouter(backend)

	w := postJSON(t, r, "/api/save-data", gin.H{
		"filename": "services.json",
		"data":     json.RawMessage(`[{"id":1,"title":"Аудит","description":"Смарт-контракты","icon":"shield"}]`),
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, store.Has(models.DocServices))
	assert.Contains(t, backend.saved, "services.json")
	// формат хранения: два пробела отступа
	assert.Contains(t, string(backend.saved["services.json"]), "  \"title\": \"Аудит\"")
}

func TestSaveHandler_SaveData_DisallowedFilename(t *testing.T) {
	backend := newStubBackend()
	r, _ := newSaveRouter(backend)

	for _, name := range []string{"../secrets.json", "random.json", "personal.json.bak"} {
		w := postJSON(t, r, "/api/save-data", gin.H{
			"filename": name,
			"data":     json.RawMessage(`{}`),
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
	assert.Empty(t, backend.saved)
}

func TestSaveHandler_SaveData_InvalidDocument(t *testing.T) {
	backend := newStubBackend()
	r, store := newSaveRouter(backend)

	w := postJSON(t, r, "/api/save-data", gin.H{
		"filename": "services.json",
		"data":     json.RawMessage(`{"не": "массив"}`),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, store.Has(models.DocServices))
	assert.Empty(t, backend.saved)
}

func TestSaveHandler_SaveData_UpstreamErrorForwarded(t *testing.T) {
	backend := newStubBackend()
	backend.err = apperr.Upstream(http.StatusConflict, "sha mismatch")
	r, _ := newSaveRouter(backend)

	w := postJSON(t, r, "/api/save-data", gin.H{
		"filename": "services.json",
		"data":     json.RawMessage(`[]`),
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "sha mismatch")
}

func TestSaveHandler_SaveAllData(t *testing.T) {
	backend := newStubBackend()
	r, _ := newSaveRouter(backend)

	w := postJSON(t, r, "/api/save-all-data", gin.H{
		"data": gin.H{
			"services": json.RawMessage(`[]`),
			"awards":   json.RawMessage(`[]`),
		},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool     `json:"success"`
		Files   []string `json:"files"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.ElementsMatch(t, []string{"services.json", "awards.json"}, resp.Files)
}

func TestSaveHandler_SaveAllData_UnknownKeyRejectedBeforeWrite(t *testing.T) {
	backend := newStubBackend()
	r, _ := newSaveRouter(backend)

	w := postJSON(t, r, "/api/save-all-data", gin.H{
		"data": gin.H{
			"services": json.RawMessage(`[]`),
			"secrets":  json.RawMessage(`{}`),
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, backend.saved)
}
