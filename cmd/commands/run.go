package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"gallery"
	"gallery/config"
	"gallery/internal/application/usecase"
	"gallery/internal/infrastructure/database"
	"gallery/internal/presentation/handler"
	"gallery/internal/presentation/middleware"
	"gallery/pkg/logger"
)

func HandleRun(args []string) {
	cfg := loadConfig(args)

	logger.Info("running gallery", "version", gallery.StringVersion())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := bootstrap(ctx, cfg)
	if err != nil {
		ExitOnError(err)
	}
	defer svc.close()

	e := newServer(svc)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(cfg.HTTP.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("shutting down server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		// open notification streams end once the hub closes their channels.
		svc.hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return e.Shutdown(shutdownCtx)
	})

	startWorkers(gCtx, g, svc)

	if err := g.Wait(); err != nil {
		ExitOnError(err)
	}

	logger.Info("gallery stopped")
}

func loadConfig(args []string) *config.Config {
	if len(args) < 3 {
		ExitOnError(errors.New("at least 1 arguments expected\nuse help command for more information"))
	}

	cfg, err := config.Load(args[2])
	if err != nil {
		ExitOnError(err)
	}

	logger.InitGlobalLogger(&cfg.Logger)

	return cfg
}

// startWorkers runs the worker pool, the retry scheduler, the queue gauges and,
// when notifications travel over redis, the relay into the local hub.
func startWorkers(ctx context.Context, g *errgroup.Group, svc *services) {
	pool := svc.newPool()

	g.Go(func() error { return pool.Run(ctx) })
	g.Go(func() error { return svc.scheduler.Run(ctx) })
	g.Go(func() error { return svc.watchQueue(ctx) })

	if svc.relay != nil {
		g.Go(func() error { return svc.relay.Run(ctx) })
	}
}

func newServer(svc *services) *echo.Echo {
	cfg := svc.cfg

	objects := svc.objectCache
	dbRemover := database.NewObjectRemover(svc.db)
	dbRetriever := database.NewObjectRetriever(svc.db)

	creator := usecase.NewCreator(database.NewObjectWriter(svc.db), dbRemover, svc.blobs, svc.blobs,
		svc.publisher, svc.notifier, objects, cfg.Blob.Bucket)
	downloader := usecase.NewDownloader(dbRetriever, svc.blobs, cfg.Blob.Bucket, cfg.PresignTTL(), cfg.FetchTimeout())

	routes := handler.Routes{
		Upload:   handler.NewUploadHandler(creator),
		List:     handler.NewListHandler(usecase.NewLister(database.NewObjectLister(svc.db), objects)),
		Get:      handler.NewGetHandler(usecase.NewGetter(dbRetriever, objects)),
		Update:   handler.NewUpdateHandler(usecase.NewUpdater(database.NewObjectUpdater(svc.db), objects)),
		Delete:   handler.NewDeleteHandler(usecase.NewDeleter(dbRemover, svc.blobs, svc.notifier, objects)),
		Download: handler.NewDownloadHandler(downloader),
		Stream:   handler.NewStreamHandler(usecase.NewStreamer(svc.hub), cfg.Heartbeat()),
		Health:   handler.NewHealthHandler(svc.checks, 2*time.Second),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderContentLength},
		AllowMethods: []string{http.MethodGet, http.MethodPatch, http.MethodPost,
			http.MethodDelete, http.MethodHead, http.MethodOptions},
		ExposeHeaders: []string{"X-Reason"},
		MaxAge:        86400,
	}))
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.Secure())
	e.Use(echoMiddleware.BodyLimit(cfg.HTTP.BodyLimit))
	e.Use(echoMiddleware.RateLimiter(echoMiddleware.NewRateLimiterMemoryStore(float64(cfg.HTTP.RateLimit))))
	e.Use(middleware.Metrics())

	routes.Register(e)

	return e
}
