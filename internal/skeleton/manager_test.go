package skeleton

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// recorder собирает опубликованные события.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) count(eventType, section string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == eventType && (section == "" || e.Section == section) {
			n++
		}
	}
	return n
}

func (r *recorder) lastOf(eventType string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == eventType {
			return r.events[i], true
		}
	}
	return Event{}, false
}

func TestShowSkeleton_Idempotent(t *testing.T) {
	rec := &recorder{}
	m := NewManager(StaticProvider{}, rec)

	m.ShowSkeleton(models.SectionProjects)
	m.ShowSkeleton(models.SectionProjects)

	if got := rec.count(EventShowSkeleton, models.SectionProjects); got != 1 {
		t.Fatalf("ожидали одно событие показа, получили %d", got)
	}
	if !m.IsActive(models.SectionProjects) {
		t.Error("секция должна быть активна")
	}
}

func TestHideSkeleton_TransitionHints(t *testing.T) {
	rec := &recorder{}
	m := NewManager(StaticProvider{}, rec)

	m.ShowSkeleton(models.SectionBlog)
	m.HideSkeleton(models.SectionBlog)

	event, ok := rec.lastOf(EventHideSkeleton)
	if !ok {
		t.Fatal("нет события скрытия")
	}
	if event.TransitionDelayMs != transitionDelayMs || event.StaggerStepMs != staggerStepMs {
		t.Fatalf("ожидали задержку %d и stagger %d, получили %d/%d",
			transitionDelayMs, staggerStepMs, event.TransitionDelayMs, event.StaggerStepMs)
	}
	if m.IsActive(models.SectionBlog) {
		t.Error("секция должна быть свободна после скрытия")
	}
}

func TestHideSkeleton_ReducedMotionDropsStagger(t *testing.T) {
	rec := &recorder{}
	m := NewManager(StaticProvider{Reduced: true}, rec)

	m.ShowSkeleton(models.SectionBlog)
	m.HideSkeleton(models.SectionBlog)

	event, _ := rec.lastOf(EventHideSkeleton)
	if event.StaggerStepMs != 0 {
		t.Fatalf("при reduced motion stagger не применяется, получили %d", event.StaggerStepMs)
	}
	if event.TransitionDelayMs != transitionDelayReducedMs {
		t.Fatalf("ожидали укороченную задержку %d, получили %d", transitionDelayReducedMs, event.TransitionDelayMs)
	}
}

func TestWatchdog_EscalatesToTimeoutError(t *testing.T) {
	rec := &recorder{}
	m := NewManager(StaticProvider{}, rec)

	m.ShowSkeletonWithTimeout(models.SectionAwards, 30*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	if got := m.FailureKind(models.SectionAwards); got != "timeout" {
		t.Fatalf("ожидали error-скелетон timeout, получили %q", got)
	}
	if rec.count(EventShowErrorSkeleton, models.SectionAwards) != 1 {
		t.Fatal("ожидали одно событие error-скелетона")
	}
}

func TestWatchdog_CancelledByHide(t *testing.T) {
	rec := &recorder{}
	m := NewManager(StaticProvider{}, rec)

	m.ShowSkeletonWithTimeout(models.SectionAwards, 50*time.Millisecond)
	m.HideSkeleton(models.SectionAwards)
	time.Sleep(120 * time.Millisecond)

	if got := rec.count(EventShowErrorSkeleton, models.SectionAwards); got != 0 {
		t.Fatalf("сторожевой таймер не должен сработать после скрытия, событий: %d", got)
	}
}

func TestErrorSkeleton_IndependentSections(t *testing.T) {
	rec := &recorder{}
	m := NewManager(StaticProvider{}, rec)

	m.ShowSkeleton(models.SectionTimeline)
	m.ShowSkeleton(models.SectionProjects)
	m.ShowErrorSkeleton(models.SectionTimeline, "network")

	if got := m.FailureKind(models.SectionTimeline); got != "network" {
		t.Fatalf("ожидали network, получили %q", got)
	}
	if m.FailureKind(models.SectionProjects) != "" {
		t.Error("соседняя секция не должна перейти в ошибку")
	}
	if !m.IsActive(models.SectionProjects) {
		t.Error("соседняя секция должна остаться в загрузке")
	}

	// Повторная попытка возвращает секцию в загрузку.
	m.ShowSkeleton(models.SectionTimeline)
	if m.FailureKind(models.SectionTimeline) != "" {
		t.Error("после повтора вид отказа должен сброситься")
	}

	m.HideErrorSkeleton(models.SectionTimeline)
	if rec.count(EventHideErrorSkeleton, models.SectionTimeline) != 0 {
		t.Error("скрытие error-скелетона для грузящейся секции — no-op")
	}
}

func TestActiveSections_EmptyWhenAllHidden(t *testing.T) {
	rec := &recorder{}
	m := NewManager(StaticProvider{}, rec)

	m.ShowSkeleton(models.SectionAbout)
	m.ShowSkeleton(models.SectionSkills)
	m.ShowErrorSkeleton(models.SectionBlog, "generic")

	if got := len(m.ActiveSections()); got != 3 {
		t.Fatalf("ожидали 3 активные секции, получили %d", got)
	}

	m.HideSkeleton(models.SectionAbout)
	m.HideSkeleton(models.SectionSkills)
	m.HideErrorSkeleton(models.SectionBlog)

	if got := m.ActiveSections(); len(got) != 0 {
		t.Fatalf("ожидали пустой набор, получили %v", got)
	}
}

func TestHideAll(t *testing.T) {
	rec := &recorder{}
	m := NewManager(StaticProvider{}, rec)

	m.ShowSkeleton(models.SectionAbout)
	m.ShowErrorSkeleton(models.SectionBlog, "timeout")
	m.HideAll()

	if got := m.ActiveSections(); len(got) != 0 {
		t.Fatalf("после HideAll не должно остаться активных секций: %v", got)
	}
}

func TestAnnouncer_DuplicateSuppression(t *testing.T) {
	rec := &recorder{}
	a := NewAnnouncer(rec)

	if !a.Announce(PriorityPolite, "Loading projects content") {
		t.Fatal("первое объявление не должно подавляться")
	}
	if a.Announce(PriorityPolite, "Loading projects content") {
		t.Fatal("дубликат внутри окна должен подавляться")
	}
	// Тот же текст с другим приоритетом — отдельный канал.
	if !a.Announce(PriorityAssertive, "Loading projects content") {
		t.Fatal("каналы приоритетов независимы")
	}

	if got := rec.count(EventAnnouncement, ""); got != 2 {
		t.Fatalf("ожидали 2 объявления, получили %d", got)
	}
}

func TestAnnouncer_WindowExpiry(t *testing.T) {
	rec := &recorder{}
	a := NewAnnouncer(rec)

	base := time.Now()
	a.now = func() time.Time { return base }
	a.Announce(PriorityPolite, "msg")

	a.now = func() time.Time { return base.Add(dedupeWindow + time.Millisecond) }
	if !a.Announce(PriorityPolite, "msg") {
		t.Fatal("после окна повтор разрешён")
	}
}

func TestHideSkeleton_RetryAfterLoadKeepsPercentUnder100(t *testing.T) {
	rec := &recorder{}
	m := NewManager(StaticProvider{}, rec)

	// Половина секций загружена, одна из них уходит на повторную загрузку.
	for _, section := range models.SectionNames[:4] {
		m.ShowSkeleton(section)
		m.HideSkeleton(section)
	}
	m.ShowSkeleton(models.SectionAbout)
	m.ShowSkeleton(models.SectionBlog)
	m.HideSkeleton(models.SectionAbout)

	event, ok := rec.lastOf(EventAnnouncement)
	if !ok {
		t.Fatal("нет объявления о прогрессе")
	}
	if !strings.Contains(event.Message, "50%") {
		t.Errorf("about уже считался загруженным, прогресс должен остаться 50%%: %q", event.Message)
	}
}

func TestAnnouncer_WarnGoesAssertive(t *testing.T) {
	rec := &recorder{}
	a := NewAnnouncer(rec)

	if !a.Warn("Загрузка контента занимает больше времени, чем обычно") {
		t.Fatal("предупреждение должно публиковаться")
	}
	event, ok := rec.lastOf(EventAnnouncement)
	if !ok {
		t.Fatal("нет события объявления")
	}
	if event.Priority != PriorityAssertive {
		t.Errorf("приоритет = %q, предупреждения идут по настойчивому каналу", event.Priority)
	}
}
