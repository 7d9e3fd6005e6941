package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/apperr"
	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/loader"
	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/render"
	"github.com/ignatzorin/portfolio-backend/internal/skeleton"
)

// Страховочный таймаут на повторную попытку: если секция висит дольше,
// её скелетон сам переходит в состояние ошибки.
const retryWatchdog = 10 * time.Second

// LoaderHandler перезагружает отдельные секции по запросу клиента
// (кнопка "повторить" на упавшей секции).
type LoaderHandler struct {
	loader    *loader.Loader
	store     *content.Store
	renderer  *render.Renderer
	skeletons *skeleton.Manager
}

// NewLoaderHandler создаёт хэндлер.
func NewLoaderHandler(l *loader.Loader, store *content.Store, renderer *render.Renderer, skeletons *skeleton.Manager) *LoaderHandler {
	return &LoaderHandler{loader: l, store: store, renderer: renderer, skeletons: skeletons}
}

// RetrySection обрабатывает POST /api/loader/retry/:section.
func (h *LoaderHandler) RetrySection(c *gin.Context) {
	section := c.Param("section")
	if _, ok := models.SectionFiles(section); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "неизвестная секция: " + section})
		return
	}

	h.skeletons.HideErrorSkeleton(section)
	h.skeletons.ShowSkeletonWithTimeout(section, retryWatchdog)

	if err := h.loader.RetrySection(c.Request.Context(), section); err != nil {
		kind := loader.Classify(err)
		h.skeletons.ShowErrorSkeleton(section, string(kind))

		status := http.StatusBadGateway
		switch {
		case kind == loader.KindTimeout:
			status = http.StatusGatewayTimeout
		case apperr.IsValidation(err):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"success": false,
			"kind":    kind,
			"error":   err.Error(),
		})
		return
	}

	// Наполнение скрывает скелетон, когда все документы секции на месте.
	html := h.renderer.Populate(section, h.store.Snapshot())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"section": section,
		"html":    html,
	})
}
