package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"gallery/internal/application/usecase/abstraction"
)

const defaultHeartbeat = 30 * time.Second

type connectionEvent struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// StreamHandler adapts notification subscriptions to server-sent events.
type StreamHandler struct {
	streamer  abstraction.Streamer
	heartbeat time.Duration
}

func NewStreamHandler(streamer abstraction.Streamer, heartbeat time.Duration) *StreamHandler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	return &StreamHandler{
		streamer:  streamer,
		heartbeat: heartbeat,
	}
}

// HandleStream handles GET /notifications/stream. The subscription lives until
// the client disconnects.
func (h *StreamHandler) HandleStream(c echo.Context) error {
	events, unsubscribe := h.streamer.Subscribe()
	defer unsubscribe()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	err := writeEvent(res, connectionEvent{
		Type:      "connection",
		Message:   "Connected to notification stream",
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	ctx := c.Request().Context()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-events:
			if !ok {
				return nil
			}

			if err := writeEvent(res, n); err != nil {
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": heartbeat\n\n"); err != nil {
				return nil
			}

			res.Flush()
		}
	}
}

func writeEvent(res *echo.Response, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
		return err
	}

	res.Flush()

	return nil
}
