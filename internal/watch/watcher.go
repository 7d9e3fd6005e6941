package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/logger"
	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// EventContentUpdated рассылается клиентам после горячей перезагрузки.
const EventContentUpdated = "content_updated"

const defaultDebounce = 200 * time.Millisecond

// Broadcaster уведомляет подключённых клиентов об обновлении контента.
type Broadcaster interface {
	Broadcast(event string, data any) error
}

// Watcher следит за каталогом данных и горячо перезагружает документы,
// изменённые на диске (ручная правка, git pull, сохранение CMS в
// локальный бэкенд). Редакторы пишут файлы сериями событий, поэтому
// перезагрузка откладывается до паузы в потоке изменений.
type Watcher struct {
	dir      string
	store    *content.Store
	hub      Broadcaster
	debounce time.Duration
}

// NewWatcher создаёт наблюдатель каталога данных.
func NewWatcher(dir string, store *content.Store, hub Broadcaster) *Watcher {
	return &Watcher{
		dir:      dir,
		store:    store,
		hub:      hub,
		debounce: defaultDebounce,
	}
}

// Run блокируется до отмены контекста.
func (w *Watcher) Run(ctx context.Context) error {
	log := logger.Component("watch")

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return err
	}
	log.WithField("dir", w.dir).Info("Наблюдение за каталогом данных запущено")

	var timer *time.Timer
	var timerC <-chan time.Time
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if !models.AllowedFile(name) {
				continue
			}
			pending[models.KeyFromFilename(name)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			keys := make([]string, 0, len(pending))
			for key := range pending {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			pending = make(map[string]struct{})
			timer = nil
			timerC = nil

			w.reload(keys)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("Ошибка наблюдателя файловой системы")
		}
	}
}

// reload перечитывает изменённые документы и рассылает уведомление.
// Битый или невалидный файл не трогает текущий слот хранилища.
func (w *Watcher) reload(keys []string) {
	log := logger.Component("watch")

	reloaded := make([]string, 0, len(keys))
	for _, key := range keys {
		raw, err := os.ReadFile(filepath.Join(w.dir, models.Filename(key)))
		if err != nil {
			log.WithField("file", models.Filename(key)).WithError(err).Warn("Не удалось прочитать документ")
			continue
		}
		if err := content.ValidateDocument(key, raw); err != nil {
			log.WithField("file", models.Filename(key)).WithError(err).Warn("Документ не прошёл валидацию, оставлен прежний")
			continue
		}
		if err := w.store.SetDocument(key, raw); err != nil {
			log.WithField("file", models.Filename(key)).WithError(err).Warn("Не удалось разобрать документ")
			continue
		}
		reloaded = append(reloaded, key)
	}

	if len(reloaded) == 0 {
		return
	}

	log.WithField("files", reloaded).Info("Контент перезагружен")
	if w.hub != nil {
		if err := w.hub.Broadcast(EventContentUpdated, map[string]any{"files": reloaded}); err != nil {
			log.WithError(err).Warn("Не удалось разослать уведомление об обновлении")
		}
	}
}
