package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gallery/internal/domain/model"
	"gallery/pkg/logger"
)

type Client struct {
	redis   *redis.Client
	channel string
	timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URI)
	if err != nil {
		return nil, err
	}

	channel := cfg.Channel
	if channel == "" {
		channel = DefaultChannel
	}

	return &Client{
		redis:   redis.NewClient(opt),
		channel: channel,
		timeout: time.Duration(cfg.Timeout) * time.Millisecond,
	}, nil
}

func (c *Client) Close() error {
	return c.redis.Close()
}

// RedisPublisher broadcasts notifications to every instance listening on the channel.
type RedisPublisher struct {
	client *Client
}

func NewRedisPublisher(client *Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, n model.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	if p.client.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.client.timeout)
		defer cancel()
	}

	if err := p.client.redis.Publish(ctx, p.client.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	return nil
}

// Relay feeds notifications received on the redis channel into a local hub.
type Relay struct {
	client *Client
	hub    *Hub
}

func NewRelay(client *Client, hub *Hub) *Relay {
	return &Relay{client: client, hub: hub}
}

func (r *Relay) Run(ctx context.Context) error {
	sub := r.client.redis.Subscribe(ctx, r.client.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.client.channel, err)
	}

	logger.Info("relaying notifications", "channel", r.client.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var n model.Notification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				logger.Error("invalid notification payload", "err", err)

				continue
			}

			_ = r.hub.Publish(ctx, n)
		}
	}
}
