package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"gallery/pkg/logger"
)

const settleTimeout = 5 * time.Second

type RedisMessage struct {
	client   *Client
	consumer string
	id       string
	body     string
	attempt  int
}

func (m *RedisMessage) Body() string {
	return m.body
}

func (m *RedisMessage) Attempt() int {
	return m.attempt
}

func (m *RedisMessage) Ack() error {
	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()

	_, err := m.client.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAck(ctx, m.client.stream, m.client.group, m.id)
		pipe.XDel(ctx, m.client.stream, m.id)

		return nil
	})

	return err
}

// Nack parks the job in the delayed set until its backoff elapses. Once the
// attempt budget is spent the job goes to the dead-letter stream instead.
func (m *RedisMessage) Nack(reason error) error {
	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()

	policy := m.client.policy
	reasonText := ""
	if reason != nil {
		reasonText = reason.Error()
	}

	if !policy.ShouldRetry(m.attempt) {
		logger.Warn("job exhausted its attempts", "object_id", m.body, "attempt", m.attempt, "reason", reasonText)

		return m.client.bury(ctx, m.id, m.body, m.attempt, reasonText)
	}

	job := delayedJob{ObjectID: m.body, Attempt: m.attempt + 1, Origin: m.id}
	member, err := json.Marshal(job)
	if err != nil {
		return err
	}

	due := time.Now().Add(policy.Delay(m.attempt))

	return parkScript.Run(ctx, m.client.redis, []string{m.client.stream, m.client.delayed},
		m.client.group, m.id, due.UnixMilli(), string(member)).Err()
}

type delayedJob struct {
	ObjectID string `json:"objectId"`
	Attempt  int    `json:"attempt"`
	Origin   string `json:"origin"`
}
