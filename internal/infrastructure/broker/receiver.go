package broker

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"gallery/internal/domain/repository/broker"
	"gallery/pkg/logger"
)

type Receiver struct {
	client *Client
}

func NewReceiver(client *Client) *Receiver {
	return &Receiver{client: client}
}

func (r *Receiver) Messages(ctx context.Context, consumerName string) (<-chan broker.Message, error) {
	if r.client == nil || r.client.redis == nil {
		logger.Error("redis client is nil in receiver")

		return nil, errors.New("redis not initialized")
	}

	out := make(chan broker.Message)
	go r.consumeLoop(ctx, out, consumerName)

	return out, nil
}

func (r *Receiver) consumeLoop(ctx context.Context, out chan broker.Message, consumerName string) {
	defer close(out)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 0

	for {
		select {
		case <-ctx.Done():
			logger.Info("message receiving context cancelled", "consumer", consumerName)

			return
		default:
		}

		if err := r.readAndEmit(ctx, out, consumerName); err != nil {
			if ctx.Err() != nil {
				return
			}

			wait := bo.NextBackOff()
			logger.Error("failed to read from redis stream group", "err", err, "retry_in", wait.String())

			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}

			continue
		}

		bo.Reset()
	}
}

func (r *Receiver) readAndEmit(ctx context.Context, out chan broker.Message, consumerName string) error {
	entries, err := r.client.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    r.client.group,
		Consumer: consumerName,
		Streams:  []string{r.client.stream, ">"},
		Count:    1,
		Block:    r.client.blockTime,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	for _, stream := range entries {
		for _, msg := range stream.Messages {
			m, ok := r.client.toMessage(msg, consumerName)
			if !ok {
				logger.Error("invalid body type in redis message", "id", msg.ID)
				if err := r.client.discard(ctx, msg.ID); err != nil {
					logger.Error("failed to drop invalid redis message", "id", msg.ID, "err", err)
				}

				continue
			}

			select {
			case out <- m:
			case <-ctx.Done():
				return nil
			}
		}
	}

	return nil
}

func (c *Client) toMessage(msg redis.XMessage, consumer string) (*RedisMessage, bool) {
	body, ok := msg.Values[fieldBody].(string)
	if !ok {
		return nil, false
	}

	return &RedisMessage{
		client:   c,
		consumer: consumer,
		id:       msg.ID,
		body:     body,
		attempt:  parseAttempt(msg.Values[fieldAttempt]),
	}, true
}

func parseAttempt(v any) int {
	s, ok := v.(string)
	if !ok {
		return 0
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}

	return n
}
