package persist

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ignatzorin/portfolio-backend/internal/apperr"
	"github.com/ignatzorin/portfolio-backend/internal/config"
	"github.com/ignatzorin/portfolio-backend/internal/logger"
)

const githubAPIBase = "https://api.github.com"

// GitHubBackend сохраняет документы напрямую через GitHub Contents API
// по схеме read-sha/write-with-sha.
type GitHubBackend struct {
	owner      string
	repo       string
	branch     string
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewGitHubBackend создаёт бэкенд для репозитория из конфигурации.
func NewGitHubBackend(gh config.GitHub) *GitHubBackend {
	return &GitHubBackend{
		owner:      gh.Owner,
		repo:       gh.Repo,
		branch:     gh.Branch,
		token:      gh.Token,
		baseURL:    githubAPIBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (b *GitHubBackend) contentsURL(filename string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/data/%s", b.baseURL, b.owner, b.repo, filename)
}

func (b *GitHubBackend) authorize(req *http.Request) {
	req.Header.Set("Authorization", "token "+b.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
}

// fileSHA возвращает текущий sha файла в ветке.
// 404 означает "файла ещё нет" и не является ошибкой: пустой sha
// сигнализирует API о создании нового файла.
func (b *GitHubBackend) fileSHA(ctx context.Context, filename string) (string, error) {
	url := fmt.Sprintf("%s?ref=%s", b.contentsURL(filename), b.branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("persist: не удалось построить запрос sha: %w", err)
	}
	b.authorize(req)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Любой не-200 трактуем как отсутствие sha; настоящая проблема
		// (протухший токен, опечатка в репозитории) всплывёт на PUT.
		return "", nil
	}

	var payload struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("persist: не удалось разобрать ответ contents: %w", err)
	}
	return payload.SHA, nil
}

// PutFile коммитит документ в репозиторий. sha включается в запрос только
// когда файл уже существует: его отсутствие означает создание нового файла.
func (b *GitHubBackend) PutFile(ctx context.Context, filename string, content []byte) error {
	_, err := b.Commit(ctx, filename, content)
	return err
}

// Commit выполняет ту же запись, что и PutFile, и возвращает sha
// созданного коммита (нужен прокси-ретранслятору для ответа клиенту).
func (b *GitHubBackend) Commit(ctx context.Context, filename string, content []byte) (string, error) {
	if err := CheckFilename(filename); err != nil {
		return "", err
	}

	sha, err := b.fileSHA(ctx, filename)
	if err != nil {
		return "", err
	}

	payload := map[string]interface{}{
		"message": fmt.Sprintf("Update %s via CMS", filename),
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  b.branch,
	}
	if sha != "" {
		payload["sha"] = sha
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("persist: не удалось сериализовать payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, b.contentsURL(filename), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("persist: не удалось построить запрос: %w", err)
	}
	b.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		logger.Component("persist").WithField("file", filename).Info("Файл закоммичен через GitHub API")
		var result struct {
			Commit struct {
				SHA string `json:"sha"`
			} `json:"commit"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&result)
		return result.Commit.SHA, nil
	}

	// 409 здесь означает гонку двух редакторов: файл изменился между
	// чтением sha и записью. Политика — last-write-wins без слепого
	// повтора; редактор перезагружает данные и сохраняет заново.
	return "", apperr.Upstream(resp.StatusCode, upstreamMessage(resp.Body))
}

// TestConnection проверяет доступность репозитория с текущим токеном.
func (b *GitHubBackend) TestConnection(ctx context.Context) error {
	url := fmt.Sprintf("%s/repos/%s/%s", b.baseURL, b.owner, b.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("persist: не удалось построить запрос: %w", err)
	}
	b.authorize(req)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperr.Upstream(resp.StatusCode, upstreamMessage(resp.Body))
	}
	return nil
}

// upstreamMessage достаёт message из тела ошибки GitHub API.
func upstreamMessage(r io.Reader) string {
	var payload struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return string(raw)
}
