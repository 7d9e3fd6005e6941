package skeleton

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ignatzorin/portfolio-backend/internal/logger"
	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// Состояния секции. Failed возвращается в Loading только через повторную попытку.
type state int

const (
	stateIdle state = iota
	stateLoading
	stateFailed
)

// Подсказки анимации по умолчанию и для reduced motion.
const (
	transitionDelayMs        = 300
	transitionDelayReducedMs = 100
	staggerStepMs            = 100
)

type sectionState struct {
	state    state
	kind     string
	watchdog *time.Timer
}

// Manager ведёт жизненный цикл скелетонов по секциям: показ, скрытие,
// error-скелетоны, сторожевые таймеры и объявления для скринридера.
type Manager struct {
	mu        sync.Mutex
	sections  map[string]*sectionState
	caps      Provider
	sink      EventSink
	announcer *Announcer
	// Загруженные секции считаются множеством: повторный цикл
	// показать-скрыть для одной секции не раздувает прогресс.
	loaded map[string]struct{}
	total  int
}

// NewManager создаёт менеджер поверх приёмника событий.
func NewManager(caps Provider, sink EventSink) *Manager {
	if caps == nil {
		caps = StaticProvider{}
	}
	return &Manager{
		sections:  make(map[string]*sectionState),
		caps:      caps,
		sink:      sink,
		announcer: NewAnnouncer(sink),
		loaded:    make(map[string]struct{}),
		total:     len(models.SectionNames),
	}
}

// Announcer возвращает канал объявлений менеджера.
func (m *Manager) Announcer() *Announcer {
	return m.announcer
}

// ShowSkeleton показывает скелетон секции. Идемпотентен: повторный вызов
// для уже показанного скелетона ничего не делает.
func (m *Manager) ShowSkeleton(section string) {
	m.mu.Lock()
	st := m.sections[section]
	if st != nil && st.state == stateLoading {
		m.mu.Unlock()
		return
	}
	if st == nil {
		st = &sectionState{}
		m.sections[section] = st
	}
	st.stopWatchdog()
	st.state = stateLoading
	st.kind = ""
	delete(m.loaded, section)
	m.mu.Unlock()

	m.sink.Publish(Event{
		Type:      EventShowSkeleton,
		Section:   section,
		Timestamp: time.Now(),
	})
	m.announcer.Announce(PriorityPolite, fmt.Sprintf("Загружается секция %s", section))
}

// ShowSkeletonWithTimeout показывает скелетон и взводит сторожевой таймер:
// если секция всё ещё грузится к его срабатыванию, скелетон сам
// превращается в error-скелетон вида timeout.
func (m *Manager) ShowSkeletonWithTimeout(section string, timeout time.Duration) {
	m.ShowSkeleton(section)

	m.mu.Lock()
	st := m.sections[section]
	st.stopWatchdog()
	st.watchdog = time.AfterFunc(timeout, func() {
		m.mu.Lock()
		cur := m.sections[section]
		stillLoading := cur != nil && cur.state == stateLoading
		m.mu.Unlock()
		if stillLoading {
			logger.Component("skeleton").WithField("section", section).Warn("Секция не загрузилась в срок")
			m.ShowErrorSkeleton(section, "timeout")
		}
	})
	m.mu.Unlock()
}

// HideSkeleton скрывает скелетон после успешной загрузки секции и публикует
// подсказки перехода: при reduced motion задержка короче и stagger не применяется.
func (m *Manager) HideSkeleton(section string) {
	m.mu.Lock()
	st := m.sections[section]
	if st == nil || st.state == stateIdle {
		m.mu.Unlock()
		return
	}
	st.stopWatchdog()
	st.state = stateIdle
	st.kind = ""
	m.loaded[section] = struct{}{}
	loaded, total := len(m.loaded), m.total
	allDone := !m.anyActiveLocked()
	m.mu.Unlock()

	delay := transitionDelayMs
	stagger := staggerStepMs
	if m.caps.ReducedMotion() {
		delay = transitionDelayReducedMs
		stagger = 0
	}

	m.sink.Publish(Event{
		Type:              EventHideSkeleton,
		Section:           section,
		TransitionDelayMs: delay,
		StaggerStepMs:     stagger,
		Timestamp:         time.Now(),
	})

	if allDone {
		m.announcer.Announce(PriorityPolite, "Весь контент загружен")
		return
	}
	percent := 0
	if total > 0 {
		percent = loaded * 100 / total
	}
	if percent > 100 {
		percent = 100
	}
	m.announcer.Announce(PriorityPolite,
		fmt.Sprintf("Секция %s загружена, готово %d%%", section, percent))
}

// ShowErrorSkeleton заменяет скелетон секции на error-скелетон указанного вида.
func (m *Manager) ShowErrorSkeleton(section, kind string) {
	m.mu.Lock()
	st := m.sections[section]
	if st == nil {
		st = &sectionState{}
		m.sections[section] = st
	}
	st.stopWatchdog()
	st.state = stateFailed
	st.kind = kind
	delete(m.loaded, section)
	m.mu.Unlock()

	m.sink.Publish(Event{
		Type:      EventShowErrorSkeleton,
		Section:   section,
		Kind:      kind,
		Timestamp: time.Now(),
	})
	m.announcer.Announce(PriorityAssertive,
		fmt.Sprintf("Не удалось загрузить секцию %s (%s), можно повторить попытку", section, kind))
}

// HideErrorSkeleton убирает error-скелетон (пользователь увидел ошибку).
func (m *Manager) HideErrorSkeleton(section string) {
	m.mu.Lock()
	st := m.sections[section]
	if st == nil || st.state != stateFailed {
		m.mu.Unlock()
		return
	}
	st.state = stateIdle
	st.kind = ""
	m.mu.Unlock()

	m.sink.Publish(Event{
		Type:      EventHideErrorSkeleton,
		Section:   section,
		Timestamp: time.Now(),
	})
}

// IsActive сообщает, занята ли секция: скелетон показан или висит error-скелетон.
func (m *Manager) IsActive(section string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.sections[section]
	return st != nil && st.state != stateIdle
}

// FailureKind возвращает вид отказа секции или пустую строку.
func (m *Manager) FailureKind(section string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st := m.sections[section]; st != nil && st.state == stateFailed {
		return st.kind
	}
	return ""
}

// ActiveSections возвращает имена занятых секций в алфавитном порядке.
func (m *Manager) ActiveSections() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var active []string
	for name, st := range m.sections {
		if st.state != stateIdle {
			active = append(active, name)
		}
	}
	sort.Strings(active)
	return active
}

// HideAll аварийно скрывает все активные скелетоны (например, по дедлайну батча).
func (m *Manager) HideAll() {
	for _, section := range m.ActiveSections() {
		m.mu.Lock()
		failed := m.sections[section] != nil && m.sections[section].state == stateFailed
		m.mu.Unlock()
		if failed {
			m.HideErrorSkeleton(section)
		} else {
			m.HideSkeleton(section)
		}
	}
}

// anyActiveLocked проверяет занятость секций. Вызывается под мьютексом.
func (m *Manager) anyActiveLocked() bool {
	for _, st := range m.sections {
		if st.state != stateIdle {
			return true
		}
	}
	return false
}

func (s *sectionState) stopWatchdog() {
	if s.watchdog != nil {
		s.watchdog.Stop()
		s.watchdog = nil
	}
}
