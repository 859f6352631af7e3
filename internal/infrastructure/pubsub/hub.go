package pubsub

import (
	"context"
	"sync"

	"gallery/internal/domain/model"
	"gallery/pkg/logger"
)

const defaultBufferSize = 16

// Hub fans notifications out to in-process subscribers. Publish never blocks:
// a subscriber whose buffer is full misses the notification.
type Hub struct {
	mu          sync.Mutex
	subscribers map[uint64]chan model.Notification
	next        uint64
	bufferSize  int
	closed      bool
	onDrop      func(model.Notification)
}

func NewHub(bufferSize int, onDrop func(model.Notification)) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	return &Hub{
		subscribers: map[uint64]chan model.Notification{},
		bufferSize:  bufferSize,
		onDrop:      onDrop,
	}
}

func (h *Hub) Subscribe() (<-chan model.Notification, func()) {
	ch := make(chan model.Notification, h.bufferSize)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)

		return ch, func() {}
	}

	id := h.next
	h.next++
	h.subscribers[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if sub, ok := h.subscribers[id]; ok {
				delete(h.subscribers, id)
				close(sub)
			}
		})
	}

	return ch, cancel
}

func (h *Hub) Publish(_ context.Context, n model.Notification) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subscribers {
		select {
		case ch <- n:
		default:
			logger.Warn("dropping notification for slow subscriber",
				"subscriber", id, "object_id", n.ObjectID, "status", string(n.Status))

			if h.onDrop != nil {
				h.onDrop(n)
			}
		}
	}

	return nil
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subscribers)
}

// Close ends every open subscription. Later Subscribe calls get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.closed = true
	for id, ch := range h.subscribers {
		delete(h.subscribers, id)
		close(ch)
	}
}
