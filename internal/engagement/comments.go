package engagement

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/apperrors"
	"github.com/unixchange/unixchange-sync-service/internal/events"
	"github.com/unixchange/unixchange-sync-service/internal/models"
	"github.com/unixchange/unixchange-sync-service/internal/outbox"
	"github.com/unixchange/unixchange-sync-service/internal/store"
)

var errViewerRequired = apperrors.NewValidationError("viewerId", "viewer id is required")

// AppendComment tries the remote append first. On success the canonical
// post, with the new comment at the head, replaces local state. On failure the
// comment is applied locally at the head, marked unsynced, and queued in
// the durable outbox for replay; a refetch before replay drops it from the
// visible list, but never from the queue.
func (c *Controller) AppendComment(ctx context.Context, postID, author, text string) (store.PostView, error) {
	if text == "" {
		return store.PostView{}, apperrors.NewValidationError("text", "comment text is required")
	}
	if author == "" {
		author = "Anonymous"
	}

	canonical, err := c.remote.AddComment(ctx, postID, author, text)
	if err == nil {
		if perr := c.store.ForceCanonicalPost(canonical); perr != nil {
			return store.PostView{}, perr
		}
		c.metrics.CommentsApplied.Inc()
		if perr := c.publisher.PublishEngagement(ctx, events.EventTypeCommentAdded, postID, author); perr != nil {
			c.logger.Debug("comment event not published", zap.Error(perr))
		}
		view, _ := c.store.GetPost(postID)
		return view, nil
	}
	if err == apperrors.ErrNotFound {
		return store.PostView{}, err
	}

	// Fallback path: perceived responsiveness over durability, with the
	// outbox carrying the durability debt.
	c.logger.Warn("comment append failed upstream, applying local fallback",
		zap.String("post_id", postID), zap.Error(err))

	now := time.Now()
	view, _, merr := c.store.MutatePost(postID, func(p *models.Post) {
		p.Comments = append([]models.Comment{{
			User:      author,
			Text:      text,
			CreatedAt: now,
			Unsynced:  true,
		}}, p.Comments...)
	})
	if merr != nil {
		return store.PostView{}, merr
	}

	if c.queue != nil {
		if _, qerr := c.queue.Enqueue(outbox.PendingComment{
			PostID:    postID,
			Author:    author,
			Text:      text,
			CreatedAt: now,
		}); qerr != nil {
			c.logger.Error("comment not queued for replay", zap.Error(qerr))
		} else {
			c.metrics.CommentsQueued.Inc()
		}
	}
	return view, nil
}
