package usecase

import (
	"sync"

	"gallery/internal/domain/model"
	"gallery/internal/domain/repository/notifier"
	"gallery/internal/infrastructure/metrics"
)

type Streamer struct {
	subscriber notifier.Subscriber
}

func NewStreamer(subscriber notifier.Subscriber) *Streamer {
	return &Streamer{subscriber: subscriber}
}

// Subscribe registers a live listener; only events published after this call
// are delivered.
func (s *Streamer) Subscribe() (<-chan model.Notification, func()) {
	ch, cancel := s.subscriber.Subscribe()
	metrics.Subscribers.Inc()

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			metrics.Subscribers.Dec()
			cancel()
		})
	}
}
