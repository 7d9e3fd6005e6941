package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/render"
	"github.com/ignatzorin/portfolio-backend/internal/skeleton"
)

func newPageRouter(store *content.Store, skeletons *skeleton.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPageHandler(store, render.New(skeletons), skeletons)
	r.GET("/", h.Index)
	return r
}

func TestPageHandler_RendersLoadedSections(t *testing.T) {
	store := content.NewStore()
	require.NoError(t, store.SetDocument(models.DocPersonal,
		[]byte(`{"name":"Иван Петров","title":"Backend Developer","email":"ivan@example.com","bio":[],"socialLinks":[]}`)))
	require.NoError(t, store.SetDocument(models.DocServices,
		[]byte(`[{"id":1,"title":"API","description":"REST сервисы","icon":""}]`)))

	skeletons := skeleton.NewManager(skeleton.StaticProvider{}, skeleton.SinkFunc(func(skeleton.Event) {}))
	r := newPageRouter(store, skeletons)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<title>Иван Петров</title>")
	assert.Contains(t, body, "Backend Developer")
	assert.Contains(t, body, "REST сервисы")
	assert.NotContains(t, body, "load-failure")
}

func TestPageHandler_AllSectionsFailedShowsFallback(t *testing.T) {
	store := content.NewStore()
	skeletons := skeleton.NewManager(skeleton.StaticProvider{}, skeleton.SinkFunc(func(skeleton.Event) {}))
	for _, section := range models.SectionNames {
		skeletons.ShowErrorSkeleton(section, "network")
	}
	r := newPageRouter(store, skeletons)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `role="alert"`)
	assert.Contains(t, body, "Не удалось загрузить портфолио")
	assert.NotContains(t, body, "data-section")
}

func TestPageHandler_PendingSectionGetsSkeleton(t *testing.T) {
	store := content.NewStore()
	skeletons := skeleton.NewManager(skeleton.StaticProvider{}, skeleton.SinkFunc(func(skeleton.Event) {}))
	skeletons.ShowSkeleton(models.SectionProjects)
	r := newPageRouter(store, skeletons)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	r.ServeHTTP(w, req)

	body := w.Body.String()
	assert.Contains(t, body, `aria-busy="true"`)
	assert.NotContains(t, body, "load-failure")
}

func TestPageHandler_ClientHintsReflectedOnBody(t *testing.T) {
	store := content.NewStore()
	skeletons := skeleton.NewManager(skeleton.StaticProvider{}, skeleton.SinkFunc(func(skeleton.Event) {}))
	r := newPageRouter(store, skeletons)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Save-Data", "on")
	req.Header.Set("Sec-CH-Prefers-Reduced-Motion", "reduce")
	r.ServeHTTP(w, req)

	body := w.Body.String()
	assert.Contains(t, body, `data-reduced-motion="true"`)
	assert.Contains(t, body, `data-save-data="true"`)
}
