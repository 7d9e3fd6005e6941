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

	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/service"
)

func newCMSRouter(backend *stubBackend) (*gin.Engine, *service.CMSService) {
	gin.SetMode(gin.TestMode)
	store := content.NewStore()
	cms := service.NewCMSService(store, backend)
	cms.Load()

	handler := NewCMSHandler(cms)
	r := gin.New()
	r.GET("/api/cms/data", handler.GetData)
	r.POST("/api/cms/save", handler.Save)
	r.POST("/api/cms/skills/:list", handler.AddSkill)
	r.PATCH("/api/cms/skills/:list/:index", handler.UpdateSkill)
	r.DELETE("/api/cms/skills/:list/:index", handler.RemoveSkill)
	r.POST("/api/cms/:collection", handler.AddItem)
	r.PATCH("/api/cms/:collection/:index", handler.UpdateItem)
	r.DELETE("/api/cms/:collection/:index", handler.RemoveItem)
	return r, cms
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCMSHandler_ProjectLifecycle(t *testing.T) {
	backend := newStubBackend()
	r, cms := newCMSRouter(backend)

	w := doJSON(t, r, "POST", "/api/cms/projects", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "PATCH", "/api/cms/projects/0", gin.H{"field": "category", "value": "web3"})
	assert.Equal(t, http.StatusOK, w.Code)

	snap := cms.Snapshot()
	assert.Len(t, snap.Projects, 1)
	assert.Equal(t, models.CategoryWeb3, snap.Projects[0].Category)
	assert.NotZero(t, snap.Projects[0].ID)

	w = doJSON(t, r, "DELETE", "/api/cms/projects/0", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cms.Snapshot().Projects)
}

func TestCMSHandler_UnknownCollectionRejected(t *testing.T) {
	backend := newStubBackend()
	r, _ := newCMSRouter(backend)

	w := doJSON(t, r, "POST", "/api/cms/secrets", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCMSHandler_BadIndexRejected(t *testing.T) {
	backend := newStubBackend()
	r, _ := newCMSRouter(backend)

	w := doJSON(t, r, "PATCH", "/api/cms/projects/abc", gin.H{"field": "title", "value": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCMSHandler_SkillsListValidated(t *testing.T) {
	backend := newStubBackend()
	r, cms := newCMSRouter(backend)

	w := doJSON(t, r, "POST", "/api/cms/skills/about", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, cms.Snapshot().Skills.AboutSkills, 1)

	w = doJSON(t, r, "POST", "/api/cms/skills/backend", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCMSHandler_SaveReportsOutcome(t *testing.T) {
	backend := newStubBackend()
	r, _ := newCMSRouter(backend)

	w := doJSON(t, r, "POST", "/api/cms/save", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Report  struct {
			Saved int `json:"saved"`
			Total int `json:"total"`
		} `json:"report"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, resp.Report.Total, resp.Report.Saved)
	assert.Len(t, backend.saved, len(models.DocumentKeys))
}

func TestCMSHandler_SaveFailureReturnsError(t *testing.T) {
	backend := newStubBackend()
	backend.err = context.DeadlineExceeded
	r, _ := newCMSRouter(backend)

	w := doJSON(t, r, "POST", "/api/cms/save", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
