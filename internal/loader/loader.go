package loader

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/ignatzorin/portfolio-backend/internal/apperr"
	"github.com/ignatzorin/portfolio-backend/internal/config"
	"github.com/ignatzorin/portfolio-backend/internal/content"
	"github.com/ignatzorin/portfolio-backend/internal/logger"
	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// Status — итог загрузки всего батча.
type Status string

const (
	// StatusSuccess — все девять документов загружены.
	StatusSuccess Status = "success"
	// StatusDegraded — часть некритичных документов не загрузилась,
	// но страницу есть чем наполнить.
	StatusDegraded Status = "degraded"
	// StatusCritical — либо упал personal, либо отказало больше половины файлов.
	StatusCritical Status = "critical"
)

// Outcome описывает результат LoadAll.
type Outcome struct {
	Status      Status   `json:"status"`
	Reason      string   `json:"reason,omitempty"`
	FailedFiles []string `json:"failed_files,omitempty"`
	// FailedKinds — вид отказа по каждому непогруженному документу.
	FailedKinds map[string]Kind `json:"failed_kinds,omitempty"`
}

// FailedSections сопоставляет упавшие документы с их секциями.
// Для секции из нескольких файлов берётся вид отказа первого
// упавшего файла в каноническом порядке.
func (o *Outcome) FailedSections() map[string]Kind {
	if len(o.FailedKinds) == 0 {
		return nil
	}
	sections := make(map[string]Kind)
	for _, key := range models.DocumentKeys {
		kind, bad := o.FailedKinds[key]
		if !bad {
			continue
		}
		section := models.SectionOfKey(key)
		if _, seen := sections[section]; !seen {
			sections[section] = kind
		}
	}
	return sections
}

// Причины критического отказа.
const (
	ReasonCriticalFile = "critical-file"
	ReasonNetwork      = "network"
)

// ErrCriticalLoad пробрасывается инициализатору страницы при критическом отказе.
var ErrCriticalLoad = errors.New("критический сбой загрузки контента")

// Kind — классификация ошибки загрузки одной секции.
type Kind string

const (
	KindTimeout Kind = "timeout"
	KindNetwork Kind = "network"
	KindGeneric Kind = "generic"
)

// Loader наполняет хранилище контента, собирая частичные отказы.
type Loader struct {
	fetcher  Fetcher
	store    *content.Store
	timeouts config.Loader
	onWarn   func(pending []string)
	// Параллелизм фан-аута; 0 — без ограничения.
	concurrency int
}

// New создаёт загрузчик.
func New(fetcher Fetcher, store *content.Store, timeouts config.Loader) *Loader {
	return &Loader{
		fetcher:     fetcher,
		store:       store,
		timeouts:    timeouts,
		concurrency: len(models.DocumentKeys),
	}
}

// OnWarn регистрирует побочный канал предупреждения: вызывается один раз,
// если батч всё ещё висит по истечении порога WarnAfter.
func (l *Loader) OnWarn(fn func(pending []string)) {
	l.onWarn = fn
}

// fetchInto достаёт документ, валидирует его по схеме и кладёт в хранилище.
// При любой ошибке слот остаётся пустым.
func (l *Loader) fetchInto(ctx context.Context, key string) error {
	raw, err := l.fetcher.FetchDocument(ctx, key)
	if err != nil {
		return err
	}
	if err := content.ValidateDocument(key, raw); err != nil {
		return err
	}
	return l.store.SetDocument(key, raw)
}

// LoadAll загружает все девять документов параллельно и классифицирует итог.
// Отказ одного файла не прерывает остальные; при критическом итоге
// возвращается ненулевая ошибка.
func (l *Loader) LoadAll(ctx context.Context) (*Outcome, error) {
	log := logger.Component("loader")

	warn := time.AfterFunc(l.timeouts.WarnAfter, func() {
		pending := l.pendingKeys()
		log.WithField("pending", pending).Warn("Загрузка контента затянулась")
		if l.onWarn != nil {
			l.onWarn(pending)
		}
	})
	defer warn.Stop()

	tasks := make(map[string]func(context.Context) error, len(models.DocumentKeys))
	for _, key := range models.DocumentKeys {
		key := key
		tasks[key] = func(taskCtx context.Context) error {
			return l.fetchInto(taskCtx, key)
		}
	}

	failed := joinAll(ctx, l.timeouts.FileTimeout, l.timeouts.BatchTimeout, l.concurrency, tasks)

	outcome := classify(failed, len(models.DocumentKeys))
	for key, err := range failed {
		log.WithField("file", models.Filename(key)).WithError(err).Warn("Документ не загрузился")
	}

	switch outcome.Status {
	case StatusCritical:
		return outcome, fmt.Errorf("%w: %s", ErrCriticalLoad, outcome.Reason)
	default:
		return outcome, nil
	}
}

// RetrySection перезагружает только документы одной секции с собственным
// таймаутом, не трогая состояние других секций.
func (l *Loader) RetrySection(ctx context.Context, section string) error {
	files, ok := models.SectionFiles(section)
	if !ok {
		return apperr.Validationf("неизвестная секция %q", section)
	}

	tasks := make(map[string]func(context.Context) error, len(files))
	for _, key := range files {
		key := key
		tasks[key] = func(taskCtx context.Context) error {
			return l.fetchInto(taskCtx, key)
		}
	}

	failed := joinAll(ctx, l.timeouts.FileTimeout, 0, len(files), tasks)
	if len(failed) == 0 {
		return nil
	}

	// Возвращаем первую ошибку в устойчивом порядке файлов секции,
	// чтобы классификация вида отказа была воспроизводимой.
	for _, key := range files {
		if err, bad := failed[key]; bad {
			return fmt.Errorf("секция %s: %s: %w", section, models.Filename(key), err)
		}
	}
	return nil
}

// pendingKeys возвращает документы, чьи слоты всё ещё пусты.
func (l *Loader) pendingKeys() []string {
	var pending []string
	for _, key := range models.DocumentKeys {
		if !l.store.Has(key) {
			pending = append(pending, key)
		}
	}
	return pending
}

// classify выводит итог батча из карты отказов.
func classify(failed map[string]error, total int) *Outcome {
	if len(failed) == 0 {
		return &Outcome{Status: StatusSuccess}
	}

	kinds := make(map[string]Kind, len(failed))
	for key, err := range failed {
		kinds[key] = Classify(err)
	}

	if _, bad := failed[models.DocPersonal]; bad {
		return &Outcome{Status: StatusCritical, Reason: ReasonCriticalFile, FailedFiles: sortedKeys(failed), FailedKinds: kinds}
	}

	// Больше половины файлов — считаем сбой системным.
	if len(failed)*2 > total {
		return &Outcome{Status: StatusCritical, Reason: ReasonNetwork, FailedFiles: sortedKeys(failed), FailedKinds: kinds}
	}

	return &Outcome{Status: StatusDegraded, FailedFiles: sortedKeys(failed), FailedKinds: kinds}
}

func sortedKeys(failed map[string]error) []string {
	keys := make([]string, 0, len(failed))
	for key := range failed {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Classify определяет вид ошибки загрузки: таймаут, сеть или прочее.
func Classify(err error) Kind {
	if err == nil {
		return KindGeneric
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, apperr.ErrTimeout) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}

	if errors.Is(err, apperr.ErrNetwork) {
		return KindNetwork
	}

	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return KindTimeout
	}
	return KindGeneric
}
