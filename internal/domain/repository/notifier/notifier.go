package notifier

import (
	"context"

	"gallery/internal/domain/model"
)

type Publisher interface {
	Publish(ctx context.Context, notification model.Notification) error
}

// Subscriber registers a live listener. The returned func releases it and
// closes the channel.
type Subscriber interface {
	Subscribe() (<-chan model.Notification, func())
}
