package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/cache"
	"github.com/unixchange/unixchange-sync-service/internal/clients"
	"github.com/unixchange/unixchange-sync-service/internal/metrics"
	"github.com/unixchange/unixchange-sync-service/internal/store"
)

// Poller refetches the canonical lists on a fixed interval and merges them
// into the local view. The merge preserves optimistic entries staged since
// the last successful fetch instead of replacing the list wholesale.
type Poller struct {
	store    *store.Store
	remote   clients.RemoteStore
	snapshot *cache.SnapshotCache
	metrics  *metrics.Registry
	interval time.Duration
	logger   *zap.Logger
}

func NewPoller(
	st *store.Store,
	remote clients.RemoteStore,
	snapshot *cache.SnapshotCache,
	reg *metrics.Registry,
	interval time.Duration,
	logger *zap.Logger,
) *Poller {
	return &Poller{
		store:    st,
		remote:   remote,
		snapshot: snapshot,
		metrics:  reg,
		interval: interval,
		logger:   logger.Named("poller"),
	}
}

// WarmStart seeds the local view, preferring the cached snapshot so a
// restart serves a populated feed before the first upstream round trip.
func (p *Poller) WarmStart(ctx context.Context) {
	if p.snapshot != nil {
		if posts, err := p.snapshot.GetPosts(ctx); err == nil && posts != nil {
			p.store.ReplacePosts(posts, time.Now())
			p.logger.Info("feed warm-started from snapshot cache", zap.Int("posts", len(posts)))
		}
		if products, err := p.snapshot.GetProducts(ctx); err == nil && products != nil {
			p.store.ReplaceProducts(products, time.Now())
		}
		if orders, err := p.snapshot.GetOrders(ctx); err == nil && orders != nil {
			p.store.ReplaceOrders(orders, time.Now())
		}
	}
	p.RefreshAll(ctx)
}

// Run refetches posts on the configured interval until ctx is cancelled.
// Products and orders refresh on the same tick; the feed is what the
// interval exists for.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopped")
			return
		case <-ticker.C:
			p.RefreshAll(ctx)
		}
	}
}

// RefreshAll fetches every domain list once. Each domain fails
// independently; a dead upstream leaves the local view as it was.
func (p *Poller) RefreshAll(ctx context.Context) {
	p.refreshPosts(ctx)
	p.refreshProducts(ctx)
	p.refreshOrders(ctx)
}

func (p *Poller) refreshPosts(ctx context.Context) {
	posts, err := p.remote.FetchPosts(ctx)
	if err != nil {
		p.logger.Warn("post refresh failed", zap.Error(err))
		return
	}
	p.store.ReplacePosts(posts, time.Now())
	p.metrics.RefreshTotal.Inc()

	if p.snapshot != nil {
		if err := p.snapshot.SetPosts(ctx, posts); err != nil {
			p.logger.Debug("post snapshot not cached", zap.Error(err))
		}
	}
}

func (p *Poller) refreshProducts(ctx context.Context) {
	products, err := p.remote.FetchProducts(ctx)
	if err != nil {
		p.logger.Warn("product refresh failed", zap.Error(err))
		return
	}
	p.store.ReplaceProducts(products, time.Now())

	if p.snapshot != nil {
		if err := p.snapshot.SetProducts(ctx, products); err != nil {
			p.logger.Debug("product snapshot not cached", zap.Error(err))
		}
	}
}

func (p *Poller) refreshOrders(ctx context.Context) {
	orders, err := p.remote.FetchOrders(ctx)
	if err != nil {
		p.logger.Warn("order refresh failed", zap.Error(err))
		return
	}
	p.store.ReplaceOrders(orders, time.Now())

	if p.snapshot != nil {
		if err := p.snapshot.SetOrders(ctx, orders); err != nil {
			p.logger.Debug("order snapshot not cached", zap.Error(err))
		}
	}
}
