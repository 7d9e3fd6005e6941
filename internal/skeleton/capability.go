package skeleton

import (
	"net/http"
	"strconv"
)

// Provider сообщает презентационные предпочтения окружения клиента.
// Сигналы влияют только на подсказки анимации в событиях,
// машина состояний секций на них не ветвится.
type Provider interface {
	// ReducedMotion — пользователь просит меньше анимации.
	ReducedMotion() bool
	// SaveData — клиент на медленной сети или в режиме экономии трафика.
	SaveData() bool
	// LowEndDevice — эвристика слабого устройства (мало памяти, мало ядер,
	// низкий заряд батареи).
	LowEndDevice() bool
}

// StaticProvider — неизменяемый набор предпочтений. Используется как дефолт
// и в тестах.
type StaticProvider struct {
	Reduced bool
	Save    bool
	LowEnd  bool
}

func (p StaticProvider) ReducedMotion() bool { return p.Reduced }
func (p StaticProvider) SaveData() bool      { return p.Save }
func (p StaticProvider) LowEndDevice() bool  { return p.LowEnd }

// FromHeader собирает предпочтения из client hints запроса:
// Save-Data, Sec-CH-Prefers-Reduced-Motion и Device-Memory.
func FromHeader(h http.Header) StaticProvider {
	p := StaticProvider{
		Save:    h.Get("Save-Data") == "on",
		Reduced: h.Get("Sec-CH-Prefers-Reduced-Motion") == "reduce",
	}
	if mem := h.Get("Device-Memory"); mem != "" {
		if gb, err := strconv.ParseFloat(mem, 64); err == nil && gb > 0 && gb <= 2 {
			p.LowEnd = true
		}
	}
	return p
}
