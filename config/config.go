package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"gallery/internal/infrastructure/broker"
	"gallery/internal/infrastructure/cache"
	"gallery/internal/infrastructure/database"
	"gallery/internal/infrastructure/minio"
	"gallery/internal/infrastructure/pubsub"
	"gallery/internal/infrastructure/s3"
	"gallery/internal/infrastructure/transform"
	"gallery/pkg/logger"
)

const (
	ProviderMinIO = "minio"
	ProviderS3    = "s3"

	defaultClaimIdle = int64(5 * 60 * 1000)
)

type HTTPConfig struct {
	Address   string `yaml:"address"`
	BodyLimit string `yaml:"body_limit"`
	RateLimit int    `yaml:"rate_limit"`
	Heartbeat int64  `yaml:"heartbeat_in_ms"`
}

type BlobConfig struct {
	Provider     string `yaml:"provider"`
	Bucket       string `yaml:"bucket"`
	FetchTimeout int64  `yaml:"fetch_timeout_in_ms"`
	PresignTTL   int64  `yaml:"presign_ttl_in_second"`
}

type RedisConfig struct {
	URI string
}

type WorkerConfig struct {
	Concurrency int    `yaml:"concurrency"`
	TaskTimeout int64  `yaml:"task_timeout_in_ms"`
	Consumer    string `yaml:"consumer"`
	// StatsInterval controls how often queue depth gauges are refreshed.
	StatsInterval int64 `yaml:"stats_interval_in_ms"`
}

// Config represents the configs used by services on system.
type Config struct {
	Environment   string                 `yaml:"environment"`
	HTTP          HTTPConfig             `yaml:"http"`
	Blob          BlobConfig             `yaml:"blob"`
	MinIOClient   minio.ClientConfig     `yaml:"minio_client"`
	MinIOStore    minio.StoreConfig      `yaml:"minio_store"`
	S3            s3.Config              `yaml:"s3"`
	DBConfig      database.Config        `yaml:"db_config"`
	Redis         RedisConfig            `yaml:"-"`
	Queue         broker.Config          `yaml:"queue"`
	Publisher     broker.PublisherConfig `yaml:"publisher"`
	Scheduler     broker.SchedulerConfig `yaml:"scheduler"`
	Worker        WorkerConfig           `yaml:"worker"`
	Cache         cache.Config           `yaml:"cache"`
	Notifications pubsub.Config          `yaml:"notifications"`
	Processor     transform.Config       `yaml:"processor"`
	Logger        logger.Config          `yaml:"logger"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Error{
			reason: err.Error(),
		}
	}
	defer file.Close()

	config := &Config{}

	decoder := yaml.NewDecoder(file)

	if err := decoder.Decode(config); err != nil {
		return nil, Error{
			reason: err.Error(),
		}
	}

	if config.Environment != "prod" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, Error{
				reason: err.Error(),
			}
		}
	}

	config.MinIOClient.AccessKey = os.Getenv("MINIO_ROOT_USER")
	config.MinIOClient.SecretKey = os.Getenv("MINIO_ROOT_PASSWORD")
	config.S3.AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	config.S3.SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")
	config.DBConfig.URI = os.Getenv("DATABASE_URI")
	config.Redis.URI = os.Getenv("REDIS_URI")

	config.Queue.URI = config.Redis.URI
	config.Cache.URI = config.Redis.URI
	config.Notifications.URI = config.Redis.URI

	if err = config.basicCheck(); err != nil {
		return nil, Error{
			reason: err.Error(),
		}
	}

	return config, nil
}

// basicCheck validates the basic stuff in config and fills zero values.
func (c *Config) basicCheck() error {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}

	if c.HTTP.BodyLimit == "" {
		c.HTTP.BodyLimit = "50M"
	}

	if c.HTTP.RateLimit <= 0 {
		c.HTTP.RateLimit = 20
	}

	c.Blob.Provider = strings.ToLower(c.Blob.Provider)
	switch c.Blob.Provider {
	case "":
		c.Blob.Provider = ProviderMinIO
	case ProviderMinIO, ProviderS3:
	default:
		return fmt.Errorf("unknown blob provider %q", c.Blob.Provider)
	}

	if c.Blob.Bucket == "" {
		return errors.New("blob bucket is required")
	}

	if c.Blob.Provider == ProviderS3 && c.S3.Region == "" {
		return errors.New("s3 region is required")
	}

	if c.DBConfig.URI == "" {
		return errors.New("DATABASE_URI is required")
	}

	if c.DBConfig.DBName == "" {
		c.DBConfig.DBName = "gallery"
	}

	if c.Redis.URI == "" {
		return errors.New("REDIS_URI is required")
	}

	if c.Queue.StreamName == "" {
		c.Queue.StreamName = "image-processing"
	}

	if c.Queue.GroupName == "" {
		c.Queue.GroupName = "processors"
	}

	if c.Queue.MaxAttempts <= 0 {
		c.Queue.MaxAttempts = 3
	}

	if c.Queue.BackoffBase <= 0 {
		c.Queue.BackoffBase = 1000
	}

	if c.Worker.Concurrency <= 0 {
		c.Worker.Concurrency = 2
	}

	if c.Worker.TaskTimeout <= 0 {
		c.Worker.TaskTimeout = 60000
	}

	// a delivery idle for claim_idle is taken over, so a running job must finish first.
	if c.Scheduler.ClaimIdle <= 0 {
		c.Scheduler.ClaimIdle = max(defaultClaimIdle, 2*c.Worker.TaskTimeout)
	}

	if c.Scheduler.ClaimIdle <= c.Worker.TaskTimeout {
		return fmt.Errorf("scheduler claim_idle_in_ms (%d) must be greater than worker task_timeout_in_ms (%d)",
			c.Scheduler.ClaimIdle, c.Worker.TaskTimeout)
	}

	if c.Worker.StatsInterval <= 0 {
		c.Worker.StatsInterval = 5000
	}

	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = cache.BackendRedis
	case cache.BackendRedis, cache.BackendMemory, cache.BackendNone:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	switch c.Notifications.Transport {
	case "":
		c.Notifications.Transport = pubsub.TransportLocal
	case pubsub.TransportLocal, pubsub.TransportRedis:
	default:
		return fmt.Errorf("unknown notification transport %q", c.Notifications.Transport)
	}

	if c.Notifications.Channel == "" {
		c.Notifications.Channel = pubsub.DefaultChannel
	}

	return nil
}

func (c *Config) TaskTimeout() time.Duration {
	return time.Duration(c.Worker.TaskTimeout) * time.Millisecond
}

func (c *Config) Heartbeat() time.Duration {
	return time.Duration(c.HTTP.Heartbeat) * time.Millisecond
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Blob.FetchTimeout) * time.Millisecond
}

func (c *Config) PresignTTL() time.Duration {
	return time.Duration(c.Blob.PresignTTL) * time.Second
}
