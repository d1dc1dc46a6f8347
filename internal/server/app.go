// Package server wires the photoshare process together: shared object
// store client, database pool, ingestion pipeline, HTTP surface, and the
// optional queue consumer, with signal-driven graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/photoshare/internal/logging"
	"github.com/dmitrijs2005/photoshare/internal/server/codec"
	"github.com/dmitrijs2005/photoshare/internal/server/config"
	"github.com/dmitrijs2005/photoshare/internal/server/httpapi"
	"github.com/dmitrijs2005/photoshare/internal/server/pipeline"
	"github.com/dmitrijs2005/photoshare/internal/server/shared/db"
	"github.com/dmitrijs2005/photoshare/internal/server/storage"
	"github.com/dmitrijs2005/photoshare/internal/server/trigger"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	repos      db.RepositoryManager
	httpServer *httpapi.Server
	consumer   *trigger.Consumer
}

// NewApp builds every long-lived resource once. The S3 client, the
// database pool, and the pipeline are shared by all invocations for the
// lifetime of the process.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewJSON()

	repos, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	awsCfg, err := storage.NewAWSConfig(ctx, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Region)
	if err != nil {
		return nil, fmt.Errorf("aws init error: %w", err)
	}

	store := storage.NewS3Store(awsCfg, cfg.S3BaseEndpoint)

	p := pipeline.New(store, codec.New(), repos.Photos(), logger, pipeline.Options{
		ThumbnailBucket: cfg.ThumbnailBucket,
		StoreDomain:     cfg.StoreDomain,
		MaxSize:         cfg.ThumbnailMaxSize,
	})

	dispatcher := trigger.NewDispatcher(p, logger)

	handler := httpapi.NewHandler(store, dispatcher, cfg, logger)
	httpServer := httpapi.New(cfg.EndpointAddrHTTP, handler, logger)

	var consumer *trigger.Consumer
	if cfg.SQSQueueURL != "" {
		consumer = trigger.NewConsumer(awsCfg, cfg.SQSQueueURL, dispatcher, logger)
	}

	return &App{
		config:     cfg,
		logger:     logger,
		repos:      repos,
		httpServer: httpServer,
		consumer:   consumer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until an OS signal arrives or a component fails, then waits
// for every component to finish before releasing shared resources.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	if app.consumer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.consumer.Run(ctx); err != nil {
				app.logger.Error(ctx, err.Error())
				cancelFunc()
			}
		}()
	}

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	app.logger.Info(ctx, "App stopped")
}
