package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// ContentHandler отдаёт документы контента фронтенду.
type ContentHandler struct {
	store *content.Store
}

// NewContentHandler создаёт хэндлер.
func NewContentHandler(store *content.Store) *ContentHandler {
	return &ContentHandler{store: store}
}

// GetAll обрабатывает GET /api/content — полный срез из девяти документов.
func (h *ContentHandler) GetAll(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.JSON(http.StatusOK, h.store.Snapshot())
}

// GetFile обрабатывает GET /api/content/:file — один документ в формате
// хранения. Имя уже проверено middleware по списку допустимых файлов.
func (h *ContentHandler) GetFile(c *gin.Context) {
	key := models.KeyFromFilename(c.Param("file"))
	if !h.store.Has(key) {
		c.JSON(http.StatusNotFound, gin.H{"error": "документ не загружен"})
		return
	}

	data, err := h.store.MarshalDocument(key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось сериализовать документ"})
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
