package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ignatzorin/portfolio-backend/internal/apperr"
	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// Fetcher достаёт сырой JSON одного документа контента.
type Fetcher interface {
	FetchDocument(ctx context.Context, key string) (json.RawMessage, error)
}

// HTTPFetcher читает документы с удалённого origin (например, raw-хостинг репозитория).
type HTTPFetcher struct {
	origin     string
	httpClient *http.Client
}

// NewHTTPFetcher создаёт fetcher для удалённого источника контента.
func NewHTTPFetcher(origin string) *HTTPFetcher {
	return &HTTPFetcher{
		origin: origin,
		// Таймаут на запрос задаётся контекстом вызывающего.
		httpClient: &http.Client{},
	}
}

// FetchDocument выполняет GET {origin}/data/{key}.json.
// Query-параметр с меткой времени и заголовок no-cache отсекают устаревшие копии.
func (f *HTTPFetcher) FetchDocument(ctx context.Context, key string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/data/%s?v=%d", f.origin, models.Filename(key), time.Now().UnixNano())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("loader: не удалось построить запрос %s: %w", key, err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, apperr.Upstream(resp.StatusCode, fmt.Sprintf("%s: %s", models.Filename(key), string(body)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("loader: ошибка чтения ответа %s: %w", key, err)
	}
	return raw, nil
}

// DiskFetcher читает документы из локального каталога data.
type DiskFetcher struct {
	dir string
}

// NewDiskFetcher создаёт fetcher для локального каталога.
func NewDiskFetcher(dir string) *DiskFetcher {
	return &DiskFetcher{dir: dir}
}

// FetchDocument читает файл документа с диска.
func (f *DiskFetcher) FetchDocument(ctx context.Context, key string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(filepath.Join(f.dir, models.Filename(key)))
	if err != nil {
		return nil, fmt.Errorf("loader: не удалось прочитать %s: %w", models.Filename(key), err)
	}
	return raw, nil
}
