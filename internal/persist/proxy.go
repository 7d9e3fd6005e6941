package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ignatzorin/portfolio-backend/internal/apperr"
	"github.com/ignatzorin/portfolio-backend/internal/config"
)

// ProxyBackend пересылает сохранение через serverless-прокси:
// чтение sha и коммит выполняются на его стороне.
type ProxyBackend struct {
	endpoint   string
	github     config.GitHub
	httpClient *http.Client
}

// NewProxyBackend создаёт бэкенд поверх прокси-эндпоинта.
func NewProxyBackend(endpoint string, gh config.GitHub) *ProxyBackend {
	return &ProxyBackend{
		endpoint:   endpoint,
		github:     gh,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// PutFile отправляет документ на прокси-эндпоинт.
func (b *ProxyBackend) PutFile(ctx context.Context, filename string, content []byte) error {
	if err := CheckFilename(filename); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]interface{}{
		"filename": filename,
		"content":  json.RawMessage(content),
		"token":    b.github.Token,
		"repo":     b.github.Repo,
		"owner":    b.github.Owner,
		"branch":   b.github.Branch,
	})
	if err != nil {
		return fmt.Errorf("persist: не удалось сериализовать запрос прокси: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("persist: не удалось построить запрос прокси: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&result)

	if resp.StatusCode == http.StatusOK && result.Success {
		return nil
	}
	message := result.Error
	if message == "" {
		message = "прокси отклонил сохранение"
	}
	return apperr.Upstream(resp.StatusCode, message)
}
