package commands

import (
	"context"
	"errors"
	"time"

	"gallery/config"
	"gallery/internal/application/usecase"
	"gallery/internal/domain/model"
	"gallery/internal/domain/repository/blobstore"
	"gallery/internal/domain/repository/notifier"
	"gallery/internal/infrastructure/broker"
	"gallery/internal/infrastructure/cache"
	"gallery/internal/infrastructure/database"
	"gallery/internal/infrastructure/metrics"
	"gallery/internal/infrastructure/minio"
	"gallery/internal/infrastructure/pubsub"
	"gallery/internal/infrastructure/s3"
	"gallery/internal/infrastructure/transform"
	"gallery/internal/presentation/handler"
	"gallery/pkg/logger"
)

// services holds every adapter shared by the api and worker processes.
type services struct {
	cfg *config.Config

	db           *database.Database
	blobs        blobstore.Store
	brokerClient *broker.Client
	publisher    *broker.Publisher
	scheduler    *broker.Scheduler
	cacheBackend cache.Cache
	objectCache  *usecase.ObjectCache
	hub          *pubsub.Hub
	notifier     notifier.Publisher
	relay        *pubsub.Relay

	checks  map[string]handler.Check
	closers []func() error
}

func bootstrap(ctx context.Context, cfg *config.Config) (*services, error) {
	s := &services{
		cfg:    cfg,
		checks: map[string]handler.Check{},
	}

	db, err := database.Connect(cfg.DBConfig)
	if err != nil {
		return nil, err
	}

	s.db = db
	s.closers = append(s.closers, db.Stop)
	s.checks["database"] = db.Ping

	if err := s.connectBlobStore(ctx); err != nil {
		s.close()

		return nil, err
	}

	brokerClient, err := broker.NewClient(cfg.Queue)
	if err != nil {
		s.close()

		return nil, err
	}

	s.brokerClient = brokerClient
	s.closers = append(s.closers, brokerClient.Close)
	s.checks["queue"] = brokerClient.Ping
	s.publisher = broker.NewPublisher(brokerClient, cfg.Publisher)
	s.scheduler = broker.NewScheduler(brokerClient, cfg.Scheduler)

	if err := s.connectCache(); err != nil {
		s.close()

		return nil, err
	}

	s.objectCache = usecase.NewObjectCache(s.cacheBackend,
		time.Duration(cfg.Cache.ListTTL)*time.Millisecond,
		time.Duration(cfg.Cache.ItemTTL)*time.Millisecond)

	if err := s.connectNotifications(); err != nil {
		s.close()

		return nil, err
	}

	return s, nil
}

func (s *services) connectBlobStore(ctx context.Context) error {
	switch s.cfg.Blob.Provider {
	case config.ProviderS3:
		store, err := s3.New(ctx, s.cfg.S3)
		if err != nil {
			return err
		}

		if err := store.EnsureBucket(ctx, s.cfg.Blob.Bucket); err != nil {
			return err
		}

		s.blobs = store
	default:
		client, err := minio.New(s.cfg.MinIOClient)
		if err != nil {
			return err
		}

		if err := client.EnsureBucket(ctx, s.cfg.Blob.Bucket); err != nil {
			return err
		}

		s.blobs = minio.NewStore(client, s.cfg.MinIOStore)
	}

	logger.Info("blob store ready", "provider", s.cfg.Blob.Provider, "bucket", s.cfg.Blob.Bucket)

	return nil
}

func (s *services) connectCache() error {
	switch s.cfg.Cache.Backend {
	case cache.BackendNone:
		logger.Warn("cache disabled, every read goes to the database")
	case cache.BackendMemory:
		mem, err := cache.NewMemoryCache(s.cfg.Cache.MemorySize)
		if err != nil {
			return err
		}

		s.cacheBackend = mem
	default:
		rc, err := cache.NewRedisCache(s.cfg.Cache)
		if err != nil {
			return err
		}

		s.cacheBackend = rc
		s.closers = append(s.closers, rc.Close)
		s.checks["cache"] = rc.HealthCheck
	}

	return nil
}

func (s *services) connectNotifications() error {
	s.hub = pubsub.NewHub(s.cfg.Notifications.BufferSize, func(n model.Notification) {
		metrics.NotificationsDropped.Inc()
		logger.Debug("dropped notification for slow subscriber", "object_id", n.ObjectID)
	})
	s.closers = append(s.closers, func() error {
		s.hub.Close()

		return nil
	})

	if s.cfg.Notifications.Transport != pubsub.TransportRedis {
		s.notifier = s.hub

		return nil
	}

	client, err := pubsub.NewClient(s.cfg.Notifications)
	if err != nil {
		return err
	}

	s.closers = append(s.closers, client.Close)
	s.notifier = pubsub.NewRedisPublisher(client)
	s.relay = pubsub.NewRelay(client, s.hub)

	return nil
}

func (s *services) newPool() *usecase.Pool {
	processor := usecase.NewProcessor(
		database.NewObjectRetriever(s.db),
		database.NewObjectUpdater(s.db),
		s.blobs,
		transform.NewImageTransformer(s.cfg.Processor),
		s.notifier,
		s.objectCache,
		s.cfg.Blob.Bucket,
		s.cfg.FetchTimeout(),
	)

	return usecase.NewPool(broker.NewReceiver(s.brokerClient), processor, usecase.PoolConfig{
		Concurrency: s.cfg.Worker.Concurrency,
		TaskTimeout: s.cfg.TaskTimeout(),
		MaxAttempts: s.cfg.Queue.MaxAttempts,
		Consumer:    s.cfg.Worker.Consumer,
	})
}

// watchQueue refreshes the queue depth gauges until ctx is done.
func (s *services) watchQueue(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(s.cfg.Worker.StatsInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			stats, err := s.brokerClient.Stats(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Warn("failed to read queue depth", "err", err)
				}

				continue
			}

			metrics.RecordQueueDepth(stats.Waiting, stats.Delayed, stats.DeadLetter)
		}
	}
}

func (s *services) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logger.Warn("failed to close resource", "err", err)
		}
	}
}
