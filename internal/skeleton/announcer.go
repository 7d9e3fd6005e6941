package skeleton

import (
	"sync"
	"time"
)

// Приоритеты объявлений для живой области скринридера.
const (
	PriorityPolite    = "polite"
	PriorityAssertive = "assertive"
)

// dedupeWindow — окно подавления повторных объявлений.
const dedupeWindow = 2 * time.Second

// Announcer доставляет объявления в живую область с разделением по приоритету.
// Повтор того же текста внутри окна подавляется: живая область и так
// очищается перед записью, дублировать её бессмысленно.
type Announcer struct {
	mu   sync.Mutex
	sink EventSink
	now  func() time.Time

	last map[string]announced
}

type announced struct {
	message string
	at      time.Time
}

// NewAnnouncer создаёт announcer поверх приёмника событий.
func NewAnnouncer(sink EventSink) *Announcer {
	return &Announcer{
		sink: sink,
		now:  time.Now,
		last: make(map[string]announced),
	}
}

// Announce публикует объявление с указанным приоритетом.
// Возвращает false, если объявление подавлено как дубликат.
func (a *Announcer) Announce(priority, message string) bool {
	if message == "" {
		return false
	}

	a.mu.Lock()
	now := a.now()
	if prev, ok := a.last[priority]; ok && prev.message == message && now.Sub(prev.at) < dedupeWindow {
		a.mu.Unlock()
		return false
	}
	a.last[priority] = announced{message: message, at: now}
	a.mu.Unlock()

	a.sink.Publish(Event{
		Type:      EventAnnouncement,
		Priority:  priority,
		Message:   message,
		Timestamp: now,
	})
	return true
}

// Warn объявляет предупреждение. Предупреждения и ошибки всегда идут
// по настойчивому каналу, рутинный прогресс — по вежливому.
func (a *Announcer) Warn(message string) bool {
	return a.Announce(PriorityAssertive, message)
}
