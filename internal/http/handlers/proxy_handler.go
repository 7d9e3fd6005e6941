package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/apperr"
	"github.com/ignatzorin/portfolio-backend/internal/config"
	"github.com/ignatzorin/portfolio-backend/internal/logger"
	"github.com/ignatzorin/portfolio-backend/internal/persist"
)

// ProxyHandler — ретранслятор записи в GitHub для статического фронтенда:
// браузер не может ходить в GitHub API напрямую из-за CORS, поэтому
// панель CMS шлёт файл сюда вместе с учётными данными репозитория.
type ProxyHandler struct{}

// NewProxyHandler создаёт хэндлер.
func NewProxyHandler() *ProxyHandler {
	return &ProxyHandler{}
}

// UpdateFile обслуживает /api/update-file: OPTIONS отвечает на preflight,
// POST ретранслирует запись, остальные методы отклоняются.
func (h *ProxyHandler) UpdateFile(c *gin.Context) {
	// Ретранслятор доступен с любого origin: учётные данные приходят
	// в теле запроса, а не в cookie.
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")

	switch c.Request.Method {
	case http.MethodOptions:
		c.Status(http.StatusOK)
		return
	case http.MethodPost:
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "метод не поддерживается"})
		return
	}

	var req struct {
		Filename string          `json:"filename" binding:"required"`
		Content  json.RawMessage `json:"content" binding:"required"`
		Token    string          `json:"token" binding:"required"`
		Repo     string          `json:"repo" binding:"required"`
		Owner    string          `json:"owner" binding:"required"`
		Branch   string          `json:"branch"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "обязательны поля filename, content, token, repo, owner"})
		return
	}
	if req.Branch == "" {
		req.Branch = "main"
	}

	if err := persist.CheckFilename(req.Filename); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Контент приводится к формату хранения до коммита: два пробела
	// отступа и завершающий перевод строки, как пишут остальные бэкенды.
	pretty, err := prettyDocument(req.Content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "поле content должно быть валидным JSON"})
		return
	}

	backend := persist.NewGitHubBackend(config.GitHub{
		Owner:  req.Owner,
		Repo:   req.Repo,
		Branch: req.Branch,
		Token:  req.Token,
	})

	commit, err := backend.Commit(c.Request.Context(), req.Filename, pretty)
	if err != nil {
		logger.Component("proxy").WithField("file", req.Filename).WithError(err).Error("Запись через ретранслятор не удалась")
		var uErr *apperr.UpstreamError
		if errors.As(err, &uErr) {
			c.JSON(uErr.Status, gin.H{"error": uErr.Message})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "GitHub API недоступен"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "файл " + req.Filename + " обновлён",
		"commit":  commit,
	})
}

// prettyDocument переформатирует произвольный JSON в формат хранения:
// отступ в два пробела и завершающий перевод строки.
func prettyDocument(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
