package engagement

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/apperrors"
)

const replayBatchSize = 32

// Replayer drains the comment outbox against the upstream store.
type Replayer struct {
	controller *Controller
	interval   time.Duration
	logger     *zap.Logger
}

func NewReplayer(controller *Controller, interval time.Duration, logger *zap.Logger) *Replayer {
	return &Replayer{
		controller: controller,
		interval:   interval,
		logger:     logger.Named("comment-replayer"),
	}
}

// Run replays queued comments on the configured interval until ctx is
// cancelled.
func (r *Replayer) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("replayer stopped")
			return
		case <-ticker.C:
			r.ReplayOnce(ctx)
		}
	}
}

// ReplayOnce attempts one delivery pass over the queue. Delivered entries
// are acked and the canonical post replaces local state; entries whose post
// no longer exists are dropped; everything else stays queued.
func (r *Replayer) ReplayOnce(ctx context.Context) {
	c := r.controller
	if c.queue == nil {
		return
	}

	pending, err := c.queue.Pending(replayBatchSize)
	if err != nil {
		r.logger.Error("outbox read failed", zap.Error(err))
		return
	}

	for _, qc := range pending {
		canonical, err := c.remote.AddComment(ctx, qc.PostID, qc.Author, qc.Text)
		if err == apperrors.ErrNotFound {
			// Post is gone; the comment has nowhere to land.
			r.logger.Info("dropping queued comment for deleted post",
				zap.String("post_id", qc.PostID))
			if aerr := c.queue.Ack(qc.Key); aerr != nil {
				r.logger.Error("outbox ack failed", zap.Error(aerr))
			}
			continue
		}
		if err != nil {
			if nerr := c.queue.Nack(qc); nerr != nil {
				r.logger.Error("outbox nack failed", zap.Error(nerr))
			}
			// Still unreachable; try the rest next pass.
			return
		}

		if aerr := c.queue.Ack(qc.Key); aerr != nil {
			r.logger.Error("outbox ack failed", zap.Error(aerr))
		}
		c.metrics.CommentsReplayed.Inc()
		if perr := c.store.ForceCanonicalPost(canonical); perr != nil {
			r.logger.Debug("replayed comment not reflected locally", zap.Error(perr))
		}
	}
}
