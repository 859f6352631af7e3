package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"gallery"
	"gallery/internal/infrastructure/pubsub"
	"gallery/pkg/logger"
)

// HandleWorker runs job processing without the HTTP API.
func HandleWorker(args []string) {
	cfg := loadConfig(args)

	logger.Info("running gallery worker", "version", gallery.StringVersion())

	if cfg.Notifications.Transport == pubsub.TransportLocal {
		logger.Warn("worker uses local notifications, api subscribers will not see processing events")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := bootstrap(ctx, cfg)
	if err != nil {
		ExitOnError(err)
	}
	defer svc.close()

	// a worker only publishes, so the relay would only feed a hub nobody reads.
	svc.relay = nil

	g, gCtx := errgroup.WithContext(ctx)
	startWorkers(gCtx, g, svc)

	if err := g.Wait(); err != nil {
		ExitOnError(err)
	}

	logger.Info("gallery worker stopped")
}
