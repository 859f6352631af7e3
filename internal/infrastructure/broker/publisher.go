package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gallery/internal/domain/model"
)

type Publisher struct {
	client  *Client
	timeout time.Duration
}

func NewPublisher(client *Client, cfg PublisherConfig) *Publisher {
	return &Publisher{
		client:  client,
		timeout: time.Duration(cfg.Timeout) * time.Millisecond,
	}
}

func (p *Publisher) Publish(ctx context.Context, objectID string) error {
	if p.client == nil || p.client.redis == nil {
		return fmt.Errorf("%w: redis not initialized", model.ErrQueueUnavailable)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	err := p.client.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.client.stream,
		Values: map[string]any{fieldBody: objectID, fieldAttempt: 0},
	}).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrQueueUnavailable, err)
	}

	return nil
}
