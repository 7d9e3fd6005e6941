package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// HealthHandler предоставляет endpoint для проверки здоровья сервиса.
type HealthHandler struct {
	store *content.Store
}

// NewHealthHandler создаёт новый health handler.
func NewHealthHandler(store *content.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthResponse представляет ответ health check.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Health обрабатывает GET /health. Сервис считается деградировавшим,
// если часть документов не загружена, и нездоровым без personal.json.
func (h *HealthHandler) Health(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	loaded := 0
	for _, key := range models.DocumentKeys {
		if h.store.Has(key) {
			loaded++
		} else if models.CriticalKey(key) {
			checks["critical_content"] = "unhealthy: " + models.Filename(key) + " не загружен"
			status = "unhealthy"
		}
	}

	checks["content"] = fmt.Sprintf("%d/%d документов загружено", loaded, len(models.DocumentKeys))
	if status == "healthy" && loaded < len(models.DocumentKeys) {
		status = "degraded"
	}

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
	})
}
