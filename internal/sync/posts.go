package sync

import (
	"context"

	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/apperrors"
	"github.com/unixchange/unixchange-sync-service/internal/clients"
	"github.com/unixchange/unixchange-sync-service/internal/models"
	"github.com/unixchange/unixchange-sync-service/internal/seller"
	"github.com/unixchange/unixchange-sync-service/internal/store"
)

// UploadPost creates a post through the single synchronous multipart
// request. There is no optimistic phase: the response is already durable,
// so the post is inserted directly at the head of the feed.
func (r *Reconciler) UploadPost(ctx context.Context, upload clients.PostUpload) (store.PostView, error) {
	if upload.Caption == "" {
		return store.PostView{}, apperrors.NewValidationError("caption", "caption is required")
	}
	if upload.Media == nil {
		return store.PostView{}, apperrors.NewValidationError("video", "video file is required")
	}

	saved, err := r.remote.UploadPost(ctx, upload)
	if err != nil {
		return store.PostView{}, err
	}
	return r.store.InsertPost(saved), nil
}

// DeletePost removes a post. The ownership check runs against the local
// copy before anything is touched: an owner mismatch blocks the delete and
// leaves both local and canonical state unchanged. A post with no recorded
// owner is deletable by any requester.
func (r *Reconciler) DeletePost(ctx context.Context, id, requesterID string) error {
	view, ok := r.store.GetPost(id)
	if !ok {
		return apperrors.ErrNotFound
	}
	if !seller.OwnsPost(&view.Post, requesterID) {
		return apperrors.ErrUnauthorized
	}

	r.store.RemovePost(id)

	if models.IsDurableID(id) {
		r.inflight.Add(1)
		go func() {
			defer r.inflight.Done()
			if err := r.remote.DeletePost(context.Background(), id, requesterID); err != nil {
				r.logger.Warn("post delete failed upstream",
					zap.String("id", id), zap.Error(err))
			}
		}()
	}
	return nil
}
