package sse

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Hub раздаёт сообщения подписчикам по runID
type Hub struct {
	mu    sync.Mutex
	conns map[string][]chan string
}

func NewHub() *Hub {
	return &Hub{conns: map[string][]chan string{}}
}

// Subscribe подписывает клиента на id, возвращает канал и функцию-unsubscribe
func (h *Hub) Subscribe(id string) (<-chan string, func()) {
	ch := make(chan string, 16)

	h.mu.Lock()
	h.conns[id] = append(h.conns[id], ch)
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		list := h.conns[id]
		for i, c := range list {
			if c == ch {
				h.conns[id] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(h.conns[id]) == 0 {
			delete(h.conns, id)
		}
	}

	return ch, cancel
}

// Publish отсылает сообщение всем подписчикам runID
func (h *Hub) Publish(id, msg string) {
	h.mu.Lock()
	list := append([]chan string(nil), h.conns[id]...)
	h.mu.Unlock()

	for _, ch := range list {
		select {
		case ch <- msg:
		default:
			// игнорируем, если канал забит
		}
	}
}

// PublishJSON кодирует v и публикует его
func (h *Hub) PublishJSON(id string, v any) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("sse: encode event: %w", err)
	}
	h.Publish(id, string(msg))
	return nil
}

// Subscribers число активных подписчиков id
func (h *Hub) Subscribers(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[id])
}

// WriteEvent пишет одно сообщение в формате text/event-stream
func WriteEvent(w io.Writer, event, data string) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
