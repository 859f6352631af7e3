package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"gallery/internal/application/usecase/abstraction"
	"gallery/internal/domain/repository/broker"
	"gallery/internal/infrastructure/metrics"
	"gallery/pkg/logger"
)

// PoolConfig contains worker pool configuration.
type PoolConfig struct {
	Concurrency int
	TaskTimeout time.Duration
	MaxAttempts int
	Consumer    string
}

// Pool runs Concurrency consumers against the job queue. Each consumer
// processes one job at a time and settles it with Ack or Nack.
type Pool struct {
	receiver  broker.Receiver
	processor abstraction.Processor
	cfg       PoolConfig
	wg        sync.WaitGroup
}

func NewPool(receiver broker.Receiver, processor abstraction.Processor, cfg PoolConfig) *Pool {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}

	if cfg.Consumer == "" {
		cfg.Consumer = "worker-" + uuid.NewString()[:8]
	}

	return &Pool{
		receiver:  receiver,
		processor: processor,
		cfg:       cfg,
	}
}

// Run blocks until ctx is cancelled and every in-flight job has been settled.
func (p *Pool) Run(ctx context.Context) error {
	logger.Info("starting worker pool", "concurrency", p.cfg.Concurrency, "consumer", p.cfg.Consumer)

	for i := 0; i < p.cfg.Concurrency; i++ {
		name := fmt.Sprintf("%s-%d", p.cfg.Consumer, i+1)

		messages, err := p.receiver.Messages(ctx, name)
		if err != nil {
			p.wg.Wait()

			return fmt.Errorf("start consumer %s: %w", name, err)
		}

		p.wg.Add(1)
		go func() {
			defer p.wg.Done()

			for msg := range messages {
				p.handle(ctx, msg)
			}

			logger.Info("worker stopped", "consumer", name)
		}()
	}

	p.wg.Wait()
	logger.Info("worker pool stopped")

	return nil
}

func (p *Pool) handle(ctx context.Context, msg broker.Message) {
	// In-flight jobs finish even when shutdown starts.
	taskCtx := context.WithoutCancel(ctx)
	if p.cfg.TaskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, p.cfg.TaskTimeout)
		defer cancel()
	}

	id := msg.Body()

	err := p.processor.Process(taskCtx, id)
	if err == nil {
		if ackErr := msg.Ack(); ackErr != nil {
			logger.Error("failed to ack job", "object_id", id, "err", ackErr)
		}

		return
	}

	if p.cfg.MaxAttempts > 0 && msg.Attempt()+1 >= p.cfg.MaxAttempts {
		metrics.DeadLetters.Inc()
	} else {
		metrics.JobRetries.Inc()
	}

	logger.Warn("job failed, handing back to queue", "object_id", id, "attempt", msg.Attempt(), "err", err)

	if nackErr := msg.Nack(err); nackErr != nil {
		logger.Error("failed to nack job", "object_id", id, "err", nackErr)
	}
}
