// Package engagement owns the per-post interaction flows: the idempotent
// like toggle and the dual-path comment append.
package engagement

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/clients"
	"github.com/unixchange/unixchange-sync-service/internal/events"
	"github.com/unixchange/unixchange-sync-service/internal/metrics"
	"github.com/unixchange/unixchange-sync-service/internal/models"
	"github.com/unixchange/unixchange-sync-service/internal/outbox"
	"github.com/unixchange/unixchange-sync-service/internal/store"
)

// Controller applies engagement mutations optimistically and reconciles
// them against the canonical post returned by the upstream store.
type Controller struct {
	store     *store.Store
	remote    clients.RemoteStore
	queue     *outbox.Outbox
	publisher events.Publisher
	metrics   *metrics.Registry
	logger    *zap.Logger

	inflight sync.WaitGroup
}

func NewController(
	st *store.Store,
	remote clients.RemoteStore,
	queue *outbox.Outbox,
	publisher events.Publisher,
	reg *metrics.Registry,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		store:     st,
		remote:    remote,
		queue:     queue,
		publisher: publisher,
		metrics:   reg,
		logger:    logger.Named("engagement"),
	}
}

// Flush blocks until in-flight reconciliations complete. For shutdown and
// tests.
func (c *Controller) Flush() {
	c.inflight.Wait()
}

// ToggleLike flips the viewer's membership in the post's like set, applies
// the flip locally at once, and replaces the local copy with the canonical
// post when the upstream responds. Server wins over the optimistic guess;
// a response superseded by a newer local toggle is dropped. Toggling is an
// involution: an even number of calls restores the original membership.
func (c *Controller) ToggleLike(ctx context.Context, postID, viewerID string) (store.PostView, error) {
	if viewerID == "" {
		return store.PostView{}, errViewerRequired
	}

	view, ticket, err := c.store.MutatePost(postID, func(p *models.Post) {
		p.Likes = p.Likes.Toggle(viewerID)
	})
	if err != nil {
		return store.PostView{}, err
	}
	c.metrics.LikesToggled.Inc()

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		canonical, err := c.remote.ToggleLike(context.Background(), postID, viewerID)
		if err != nil {
			// Keep the optimistic flip; the next refetch reconciles.
			c.logger.Warn("like toggle failed upstream, keeping optimistic state",
				zap.String("post_id", postID), zap.Error(err))
			return
		}
		if err := c.store.PutCanonicalPost(ticket, canonical); err != nil {
			if err == store.ErrStale {
				c.metrics.ReconcileStale.Inc()
			}
			c.logger.Debug("like reconciliation dropped",
				zap.String("post_id", postID), zap.Error(err))
			return
		}
		c.metrics.ReconcileApplied.Inc()
		if err := c.publisher.PublishEngagement(context.Background(), events.EventTypeLikeToggled, postID, viewerID); err != nil {
			c.logger.Debug("like event not published", zap.Error(err))
		}
	}()

	return view, nil
}
