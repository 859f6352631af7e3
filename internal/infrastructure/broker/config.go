package broker

import (
	"time"

	"gallery/internal/domain/retry"
)

type Config struct {
	URI              string
	StreamName       string `yaml:"stream_name"`
	GroupName        string `yaml:"group_name"`
	DelayedSetName   string `yaml:"delayed_set_name"`
	DeadLetterStream string `yaml:"dead_letter_stream"`
	MaxAttempts      int    `yaml:"max_attempts"`
	BackoffBase      int64  `yaml:"backoff_base_in_ms"`
	BackoffMax       int64  `yaml:"backoff_max_in_ms"`
	BlockTime        int64  `yaml:"block_time_in_ms"`
}

func (c Config) Policy() retry.Policy {
	p := retry.DefaultPolicy()
	if c.MaxAttempts > 0 {
		p.MaxAttempts = c.MaxAttempts
	}

	if c.BackoffBase > 0 {
		p.BaseDelay = time.Duration(c.BackoffBase) * time.Millisecond
	}

	if c.BackoffMax > 0 {
		p.MaxDelay = time.Duration(c.BackoffMax) * time.Millisecond
	}

	return p
}

type PublisherConfig struct {
	Timeout int `yaml:"timeout_in_ms"`
}

type SchedulerConfig struct {
	PromoteInterval int64 `yaml:"promote_interval_in_ms"`
	ClaimIdle       int64 `yaml:"claim_idle_in_ms"`
	BatchSize       int64 `yaml:"batch_size"`
}
