package usecase

import (
	"context"

	"gallery/internal/domain/model"
	"gallery/internal/domain/repository/notifier"
	"gallery/internal/infrastructure/metrics"
	"gallery/pkg/logger"
)

// notify is fire-and-forget: a failed publish never fails the caller.
func notify(ctx context.Context, publisher notifier.Publisher, n model.Notification) {
	if publisher == nil {
		return
	}

	if err := publisher.Publish(ctx, n); err != nil {
		logger.Warn("failed to publish notification", "object_id", n.ObjectID, "status", string(n.Status), "err", err)

		return
	}

	metrics.NotificationsPublished.WithLabelValues(string(n.Status)).Inc()
}
