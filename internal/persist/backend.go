package persist

import (
	"context"

	"github.com/ignatzorin/portfolio-backend/internal/apperr"
	"github.com/ignatzorin/portfolio-backend/internal/config"
	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// Backend — единый контракт трёх способов сохранения документа:
// GitHub Contents API напрямую, relay через прокси и локальный диск.
type Backend interface {
	PutFile(ctx context.Context, filename string, content []byte) error
}

// CheckFilename отвергает имя вне белого списка до любого сетевого
// или дискового вызова. Защита от подстановки пути в репозиторий хранения.
func CheckFilename(filename string) error {
	if !models.AllowedFile(filename) {
		return apperr.Validationf("недопустимое имя файла %q", filename)
	}
	return nil
}

// New выбирает бэкенд по конфигурации: прокси, если задан endpoint;
// иначе GitHub при наличии токена; иначе локальный каталог данных.
func New(cfg *config.Config) Backend {
	if cfg.ProxyEndpoint != "" {
		return NewProxyBackend(cfg.ProxyEndpoint, cfg.GitHub)
	}
	if cfg.GitHub.Token != "" && cfg.GitHub.Owner != "" && cfg.GitHub.Repo != "" {
		return NewGitHubBackend(cfg.GitHub)
	}
	return NewLocalBackend(cfg.DataDir)
}
