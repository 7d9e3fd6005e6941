package ws

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/ignatzorin/portfolio-backend/internal/skeleton"
)

// Hub управляет всеми WebSocket клиентами. Адресной доставки нет:
// каждое событие (скелетоны, объявления, перезагрузка контента)
// рассылается всем подключённым вкладкам.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 32),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case payload := <-h.broadcast:
			h.send(payload)
		}
	}
}

// Register добавляет клиента.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет клиента.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast отправляет событие всем клиентам. Поле "type" содержит
// имя события, "data" — полезную нагрузку.
func (h *Hub) Broadcast(event string, data any) error {
	payload := map[string]any{
		"type": event,
		"data": data,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ws: не удалось сериализовать сообщение: %w", err)
	}

	h.broadcast <- raw
	return nil
}

// Publish доставляет событие менеджера скелетонов всем клиентам.
func (h *Hub) Publish(event skeleton.Event) {
	if err := h.Broadcast(event.Type, event); err != nil {
		fmt.Printf("ws: не удалось разослать событие %s: %v\n", event.Type, err)
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) send(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Закрываем отставшего клиента асинхронно с panic recovery
			go func(c *Client) {
				defer func() {
					if r := recover(); r != nil {
						fmt.Printf("WebSocket client close panic recovered: %v\nStack trace:\n%s\n", r, debug.Stack())
					}
				}()
				c.Close()
			}(client)
		}
	}
}
