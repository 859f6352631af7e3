package broker

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"gallery/pkg/logger"
)

const reclaimConsumer = "reclaimer"

var errAbandoned = errors.New("consumer stopped before settling the job")

// Scheduler moves due retries from the delayed set back onto the stream and
// re-publishes deliveries whose consumer stopped without settling them.
type Scheduler struct {
	client    *Client
	interval  time.Duration
	claimIdle time.Duration
	batch     int64
}

func NewScheduler(client *Client, cfg SchedulerConfig) *Scheduler {
	s := &Scheduler{
		client:    client,
		interval:  time.Second,
		claimIdle: 5 * time.Minute,
		batch:     100,
	}

	if cfg.PromoteInterval > 0 {
		s.interval = time.Duration(cfg.PromoteInterval) * time.Millisecond
	}

	if cfg.ClaimIdle > 0 {
		s.claimIdle = time.Duration(cfg.ClaimIdle) * time.Millisecond
	}

	if cfg.BatchSize > 0 {
		s.batch = cfg.BatchSize
	}

	return s
}

func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.Promote(ctx, time.Now()); err != nil && ctx.Err() == nil {
				logger.Error("failed to promote delayed jobs", "err", err)
			}

			if _, err := s.Reclaim(ctx); err != nil && ctx.Err() == nil {
				logger.Error("failed to reclaim stale jobs", "err", err)
			}
		}
	}
}

// Promote re-publishes every delayed job due at or before now. The member is
// removed only once it is back on the stream, and only by the scheduler that
// still finds it in the set, so a job is promoted once and never lost.
func (s *Scheduler) Promote(ctx context.Context, now time.Time) (int, error) {
	members, err := s.client.redis.ZRangeByScore(ctx, s.client.delayed, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: s.batch,
	}).Result()
	if err != nil {
		return 0, err
	}

	promoted := 0

	for _, member := range members {
		var job delayedJob
		if err := json.Unmarshal([]byte(member), &job); err != nil {
			logger.Error("dropping malformed delayed job", "member", member, "err", err)
			_ = s.client.redis.ZRem(ctx, s.client.delayed, member).Err()

			continue
		}

		moved, err := promoteScript.Run(ctx, s.client.redis, []string{s.client.delayed, s.client.stream},
			member, fieldBody, job.ObjectID, fieldAttempt, strconv.Itoa(job.Attempt)).Int()
		if err != nil {
			return promoted, err
		}

		promoted += moved
	}

	return promoted, nil
}

// Reclaim takes over deliveries idle longer than the claim threshold. A
// delivery whose consumer died counts as a used attempt: the job goes back on
// the stream with the next attempt, or to the dead-letter stream once the
// budget is spent.
func (s *Scheduler) Reclaim(ctx context.Context) (int, error) {
	msgs, _, err := s.client.redis.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   s.client.stream,
		Group:    s.client.group,
		Consumer: reclaimConsumer,
		MinIdle:  s.claimIdle,
		Start:    "0-0",
		Count:    s.batch,
	}).Result()
	if err != nil {
		return 0, err
	}

	reclaimed := 0

	for _, msg := range msgs {
		m, ok := s.client.toMessage(msg, reclaimConsumer)
		if !ok {
			if err := s.client.discard(ctx, msg.ID); err != nil {
				return reclaimed, err
			}

			continue
		}

		if !s.client.policy.ShouldRetry(m.attempt) {
			logger.Warn("stale job exhausted its attempts", "object_id", m.body, "attempt", m.attempt)

			if err := s.client.bury(ctx, msg.ID, m.body, m.attempt, errAbandoned.Error()); err != nil {
				return reclaimed, err
			}

			reclaimed++

			continue
		}

		logger.Warn("reclaiming stale job", "object_id", m.body, "id", msg.ID, "attempt", m.attempt)

		if err := s.client.move(ctx, msg.ID, s.client.stream, m.body, m.attempt+1); err != nil {
			return reclaimed, err
		}

		reclaimed++
	}

	return reclaimed, nil
}
