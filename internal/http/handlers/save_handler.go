package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/apperr"
	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/logger"
	"github.com/ignatzorin/portfolio-backend/internal/models"
	"github.com/ignatzorin/portfolio-backend/internal/persist"
)

// SaveHandler принимает документы от панели CMS и проталкивает их
// в настроенный бэкенд сохранения.
type SaveHandler struct {
	store   *content.Store
	backend persist.Backend
}

// NewSaveHandler создаёт хэндлер.
func NewSaveHandler(store *content.Store, backend persist.Backend) *SaveHandler {
	return &SaveHandler{store: store, backend: backend}
}

// SaveData обрабатывает POST /api/save-data — сохранение одного документа.
func (h *SaveHandler) SaveData(c *gin.Context) {
	var req struct {
		Filename string          `json:"filename" binding:"required"`
		Data     json.RawMessage `json:"data" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "поля filename и data обязательны"})
		return
	}

	if err := persist.CheckFilename(req.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := models.KeyFromFilename(req.Filename)
	if err := content.ValidateDocument(key, req.Data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.SetDocument(key, req.Data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := h.store.MarshalDocument(key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось сериализовать документ"})
		return
	}

	if err := h.backend.PutFile(c.Request.Context(), req.Filename, payload); err != nil {
		h.writeSaveError(c, req.Filename, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "файл " + req.Filename + " сохранён",
	})
}

// SaveAllData обрабатывает POST /api/save-all-data — сохранение полного среза.
// Тело запроса содержит карту документ → содержимое; неизвестные ключи
// отклоняются целиком, до первой записи.
func (h *SaveHandler) SaveAllData(c *gin.Context) {
	var req struct {
		Data map[string]json.RawMessage `json:"data" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "поле data обязательно"})
		return
	}

	for key := range req.Data {
		if !models.KnownKey(key) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "неизвестный документ: " + key})
			return
		}
	}

	log := logger.Component("save")
	saved := make([]string, 0, len(req.Data))
	for _, key := range models.DocumentKeys {
		raw, ok := req.Data[key]
		if !ok {
			continue
		}

		if err := content.ValidateDocument(key, raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := h.store.SetDocument(key, raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		payload, err := h.store.MarshalDocument(key)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось сериализовать документ"})
			return
		}
		if err := h.backend.PutFile(c.Request.Context(), models.Filename(key), payload); err != nil {
			log.WithField("file", models.Filename(key)).WithError(err).Error("Не удалось сохранить документ")
			h.writeSaveError(c, models.Filename(key), err)
			return
		}
		saved = append(saved, models.Filename(key))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"files":   saved,
	})
}

// writeSaveError переводит ошибку бэкенда в HTTP ответ.
func (h *SaveHandler) writeSaveError(c *gin.Context, filename string, err error) {
	var uErr *apperr.UpstreamError
	if errors.As(err, &uErr) {
		c.JSON(uErr.Status, gin.H{"error": uErr.Message})
		return
	}
	if apperr.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось сохранить " + filename})
}
