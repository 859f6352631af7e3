package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gallery/internal/infrastructure/cache"
	"gallery/internal/infrastructure/pubsub"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("DATABASE_URI", "mongodb://localhost:27017")
	t.Setenv("REDIS_URI", "redis://localhost:6379/0")
	t.Setenv("MINIO_ROOT_USER", "minioadmin")
	t.Setenv("MINIO_ROOT_PASSWORD", "minioadmin")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoadfromFile(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("./config.yml")
	require.NoError(t, err, "error must be nil.")

	assert.Equal(t, "gallery", cfg.Blob.Bucket)
	assert.Equal(t, ProviderMinIO, cfg.Blob.Provider)
	assert.Equal(t, "minioadmin", cfg.MinIOClient.AccessKey)
	assert.Equal(t, 3, cfg.Queue.MaxAttempts)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Queue.URI)
	assert.Equal(t, cfg.Queue.URI, cfg.Cache.URI)
	assert.Equal(t, cfg.Queue.URI, cfg.Notifications.URI)
	assert.Equal(t, 1280, cfg.Processor.MaxDimension)
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(writeConfig(t, "environment: prod\nblob:\n  bucket: media\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, ProviderMinIO, cfg.Blob.Provider)
	assert.Equal(t, "image-processing", cfg.Queue.StreamName)
	assert.Equal(t, 3, cfg.Queue.MaxAttempts)
	assert.Equal(t, int64(1000), cfg.Queue.BackoffBase)
	assert.Equal(t, cache.BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, pubsub.TransportLocal, cfg.Notifications.Transport)
	assert.Equal(t, pubsub.DefaultChannel, cfg.Notifications.Channel)
	assert.Equal(t, "gallery", cfg.DBConfig.DBName)
	assert.Equal(t, int64(300000), cfg.Scheduler.ClaimIdle)
}

func TestLoadDerivesClaimIdleFromTaskTimeout(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(writeConfig(t, "environment: prod\nblob:\n  bucket: media\nworker:\n  task_timeout_in_ms: 600000\n"))
	require.NoError(t, err)

	assert.Equal(t, int64(1200000), cfg.Scheduler.ClaimIdle)
	assert.Greater(t, cfg.Scheduler.ClaimIdle, cfg.Worker.TaskTimeout)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		unset  string
		reason string
	}{
		{
			name:   "missing bucket",
			body:   "environment: prod\n",
			reason: "bucket",
		},
		{
			name:   "unknown provider",
			body:   "environment: prod\nblob:\n  bucket: media\n  provider: ftp\n",
			reason: "ftp",
		},
		{
			name:   "s3 without region",
			body:   "environment: prod\nblob:\n  bucket: media\n  provider: s3\n",
			reason: "region",
		},
		{
			name:   "unknown cache backend",
			body:   "environment: prod\nblob:\n  bucket: media\ncache:\n  backend: memcached\n",
			reason: "memcached",
		},
		{
			name:   "claim idle below task timeout",
			body:   "environment: prod\nblob:\n  bucket: media\nworker:\n  task_timeout_in_ms: 60000\nscheduler:\n  claim_idle_in_ms: 30000\n",
			reason: "claim_idle_in_ms",
		},
		{
			name:   "missing redis",
			body:   "environment: prod\nblob:\n  bucket: media\n",
			unset:  "REDIS_URI",
			reason: "REDIS_URI",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			if tc.unset != "" {
				t.Setenv(tc.unset, "")
			}

			_, err := Load(writeConfig(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.reason)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))

	var cfgErr Error
	require.ErrorAs(t, err, &cfgErr)
}
