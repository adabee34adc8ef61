package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/cache"
	"github.com/unixchange/unixchange-sync-service/internal/clients"
	"github.com/unixchange/unixchange-sync-service/internal/config"
	"github.com/unixchange/unixchange-sync-service/internal/engagement"
	"github.com/unixchange/unixchange-sync-service/internal/events"
	"github.com/unixchange/unixchange-sync-service/internal/feed"
	"github.com/unixchange/unixchange-sync-service/internal/handlers"
	"github.com/unixchange/unixchange-sync-service/internal/metrics"
	"github.com/unixchange/unixchange-sync-service/internal/outbox"
	"github.com/unixchange/unixchange-sync-service/internal/seller"
	"github.com/unixchange/unixchange-sync-service/internal/server"
	"github.com/unixchange/unixchange-sync-service/internal/store"
	syncsvc "github.com/unixchange/unixchange-sync-service/internal/sync"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting unixchange-sync-service", zap.Int("port", cfg.Server.Port))

	reg := metrics.NewRegistry()
	st := store.New(logger)
	remote := clients.NewHTTPRemoteStore(cfg.Upstream, logger).
		WithLatencyObserver(reg.UpstreamLatency)

	var snapshot *cache.SnapshotCache
	if cfg.Features.EnableSnapshotCache {
		snapshot = cache.NewSnapshotCache(cfg.Redis, logger)
		defer snapshot.Close()
	}

	var queue *outbox.Outbox
	if cfg.Features.EnableCommentOutbox {
		queue, err = outbox.Open(cfg.Outbox.Dir)
		if err != nil {
			logger.Fatal("comment outbox open failed", zap.Error(err))
		}
		defer queue.Close()
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Features.EnableEngagementEvents {
		publisher = events.NewKafkaPublisher(cfg.Kafka, logger)
	}
	defer publisher.Close()

	directory := seller.NewDirectory()
	linker := seller.NewPayoutLinker(directory, logger)

	reconciler := syncsvc.NewReconciler(st, remote, linker, publisher, reg, logger)
	controller := engagement.NewController(st, remote, queue, publisher, reg, logger)
	scheduler := feed.NewScheduler(cfg.Feed.ActiveThreshold, st, remote, publisher, reg, logger)
	poller := syncsvc.NewPoller(st, remote, snapshot, reg, cfg.Feed.RefreshInterval, logger)

	h := handlers.NewHandlers(st, reconciler, controller, scheduler, directory, cfg, logger)
	srv := server.New(h, reg, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller.WarmStart(ctx)
	go poller.Run(ctx)

	if queue != nil {
		replayer := engagement.NewReplayer(controller, cfg.Outbox.ReplayEvery, logger)
		go replayer.Run(ctx)
	}

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	reconciler.Flush()
	controller.Flush()
	scheduler.Flush()

	logger.Info("server exited")
}
