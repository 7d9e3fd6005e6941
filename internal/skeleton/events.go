package skeleton

import "time"

// Типы событий, которые менеджер публикует для страницы.
const (
	EventShowSkeleton      = "skeleton_show"
	EventHideSkeleton      = "skeleton_hide"
	EventShowErrorSkeleton = "skeleton_error"
	EventHideErrorSkeleton = "skeleton_error_hide"
	EventAnnouncement      = "announcement"
)

// Event — одно изменение состояния загрузки или объявление для скринридера.
// Подсказки анимации (задержка перехода, шаг stagger) вычисляются из
// предпочтений окружения и применяются только на стороне отображения.
type Event struct {
	Type    string `json:"type"`
	Section string `json:"section,omitempty"`
	// Вид отказа для error-скелетона: timeout, network, generic.
	Kind     string `json:"kind,omitempty"`
	Priority string `json:"priority,omitempty"`
	Message  string `json:"message,omitempty"`

	TransitionDelayMs int `json:"transition_delay_ms,omitempty"`
	StaggerStepMs     int `json:"stagger_step_ms,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// EventSink принимает события менеджера. В бою это WebSocket-хаб,
// в тестах — рекордер.
type EventSink interface {
	Publish(event Event)
}

// SinkFunc адаптирует функцию к интерфейсу EventSink.
type SinkFunc func(Event)

func (f SinkFunc) Publish(event Event) { f(event) }
