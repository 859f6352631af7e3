package broker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"gallery/internal/domain/model"
	"gallery/internal/domain/retry"
)

const (
	fieldBody    = "body"
	fieldAttempt = "attempt"
	fieldError   = "error"
)

type Client struct {
	redis      *redis.Client
	stream     string
	group      string
	delayed    string
	deadLetter string
	blockTime  time.Duration
	policy     retry.Policy
}

func NewClient(cfg Config) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URI)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)
	ctx := context.Background()

	err = rdb.XGroupCreateMkStream(ctx, cfg.StreamName, cfg.GroupName, "$").Err()
	if err != nil && !isBusyGroup(err) {
		_ = rdb.Close()

		return nil, fmt.Errorf("%w: %v", model.ErrQueueUnavailable, err)
	}

	delayed := cfg.DelayedSetName
	if delayed == "" {
		delayed = cfg.StreamName + ":delayed"
	}

	deadLetter := cfg.DeadLetterStream
	if deadLetter == "" {
		deadLetter = cfg.StreamName + ":dead"
	}

	blockTime := 5 * time.Second
	if cfg.BlockTime > 0 {
		blockTime = time.Duration(cfg.BlockTime) * time.Millisecond
	}

	return &Client{
		redis:      rdb,
		stream:     cfg.StreamName,
		group:      cfg.GroupName,
		delayed:    delayed,
		deadLetter: deadLetter,
		blockTime:  blockTime,
		policy:     cfg.Policy(),
	}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

// Stats reports how many jobs wait in the stream, wait for a retry slot and
// have been dead-lettered.
type Stats struct {
	Waiting    int64
	Delayed    int64
	DeadLetter int64
}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	pipe := c.redis.Pipeline()
	waiting := pipe.XLen(ctx, c.stream)
	delayed := pipe.ZCard(ctx, c.delayed)
	dead := pipe.XLen(ctx, c.deadLetter)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return Stats{}, err
	}

	return Stats{
		Waiting:    waiting.Val(),
		Delayed:    delayed.Val(),
		DeadLetter: dead.Val(),
	}, nil
}

func (c *Client) Close() error {
	return c.redis.Close()
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}
