package engagement

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/apperrors"
	"github.com/unixchange/unixchange-sync-service/internal/clients"
	"github.com/unixchange/unixchange-sync-service/internal/events"
	"github.com/unixchange/unixchange-sync-service/internal/metrics"
	"github.com/unixchange/unixchange-sync-service/internal/models"
	"github.com/unixchange/unixchange-sync-service/internal/outbox"
	"github.com/unixchange/unixchange-sync-service/internal/store"
)

// engagementRemote simulates the upstream engagement endpoints against a
// single canonical post.
type engagementRemote struct {
	mu sync.Mutex

	post       models.Post
	toggleErr  error
	commentErr error
}

var _ clients.RemoteStore = (*engagementRemote)(nil)

func (f *engagementRemote) FetchProducts(context.Context) ([]models.Product, error) {
	return nil, nil
}
func (f *engagementRemote) FetchOrders(context.Context) ([]models.Order, error) { return nil, nil }
func (f *engagementRemote) FetchPosts(context.Context) ([]models.Post, error)   { return nil, nil }
func (f *engagementRemote) CreateProduct(_ context.Context, p models.Product) (models.Product, error) {
	return p, nil
}
func (f *engagementRemote) DeleteProduct(context.Context, string) error { return nil }
func (f *engagementRemote) CreateOrder(_ context.Context, o models.Order) (models.Order, error) {
	return o, nil
}
func (f *engagementRemote) UploadPost(context.Context, clients.PostUpload) (models.Post, error) {
	return models.Post{}, nil
}
func (f *engagementRemote) DeletePost(context.Context, string, string) error { return nil }

func (f *engagementRemote) ToggleLike(_ context.Context, postID, viewerID string) (models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.toggleErr != nil {
		return models.Post{}, f.toggleErr
	}
	f.post.Likes = f.post.Likes.Toggle(viewerID)
	return *f.post.Clone(), nil
}

func (f *engagementRemote) AddComment(_ context.Context, postID, author, text string) (models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.commentErr != nil {
		return models.Post{}, f.commentErr
	}
	f.post.Comments = append([]models.Comment{{User: author, Text: text}}, f.post.Comments...)
	return *f.post.Clone(), nil
}

func (f *engagementRemote) RecordView(context.Context, string) (models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.post.Views++
	return *f.post.Clone(), nil
}

func (f *engagementRemote) setCommentErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commentErr = err
}

func newTestController(t *testing.T, remote clients.RemoteStore, withQueue bool) (*Controller, *store.Store, *outbox.Outbox) {
	t.Helper()
	logger := zap.NewNop()
	st := store.New(logger)

	var queue *outbox.Outbox
	if withQueue {
		var err error
		queue, err = outbox.Open(t.TempDir())
		require.NoError(t, err)
		t.Cleanup(func() { queue.Close() })
	}

	c := NewController(st, remote, queue, events.NoopPublisher{}, metrics.NewRegistry(), logger)
	return c, st, queue
}

func TestToggleLike_OptimisticThenCanonical(t *testing.T) {
	remote := &engagementRemote{post: models.Post{ID: "post_1", Likes: models.LikeList{}}}
	c, st, _ := newTestController(t, remote, false)
	st.InsertPost(models.Post{ID: "post_1", Likes: models.LikeList{}})

	view, err := c.ToggleLike(context.Background(), "post_1", "viewer_1")
	require.NoError(t, err)
	assert.True(t, view.Likes.Contains("viewer_1"), "optimistic flip must be visible at once")

	c.Flush()
	got, _ := st.GetPost("post_1")
	assert.True(t, got.Likes.Contains("viewer_1"))
	assert.Equal(t, store.StateConfirmed, got.Sync)
}

func TestToggleLike_EvenCallsRestoreMembership(t *testing.T) {
	remote := &engagementRemote{post: models.Post{ID: "post_1", Likes: models.LikeList{}}}
	c, st, _ := newTestController(t, remote, false)
	st.InsertPost(models.Post{ID: "post_1", Likes: models.LikeList{}})

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_, err := c.ToggleLike(ctx, "post_1", "viewer_1")
		require.NoError(t, err)
		c.Flush()
	}

	got, _ := st.GetPost("post_1")
	assert.False(t, got.Likes.Contains("viewer_1"), "even toggles must end unliked")

	_, err := c.ToggleLike(ctx, "post_1", "viewer_1")
	require.NoError(t, err)
	c.Flush()

	got, _ = st.GetPost("post_1")
	assert.True(t, got.Likes.Contains("viewer_1"), "odd toggles must end liked")
}

func TestToggleLike_RemoteFailureKeepsOptimisticFlip(t *testing.T) {
	remote := &engagementRemote{
		post:      models.Post{ID: "post_1"},
		toggleErr: &apperrors.RemoteError{Message: "connection refused"},
	}
	c, st, _ := newTestController(t, remote, false)
	st.InsertPost(models.Post{ID: "post_1"})

	view, err := c.ToggleLike(context.Background(), "post_1", "viewer_1")
	require.NoError(t, err)
	assert.True(t, view.Likes.Contains("viewer_1"))

	c.Flush()
	got, _ := st.GetPost("post_1")
	assert.True(t, got.Likes.Contains("viewer_1"), "failed reconcile keeps the local flip")
}

func TestToggleLike_ViewerRequired(t *testing.T) {
	c, st, _ := newTestController(t, &engagementRemote{}, false)
	st.InsertPost(models.Post{ID: "post_1"})

	_, err := c.ToggleLike(context.Background(), "post_1", "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestToggleLike_UnknownPost(t *testing.T) {
	c, _, _ := newTestController(t, &engagementRemote{}, false)

	_, err := c.ToggleLike(context.Background(), "missing", "viewer_1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAppendComment_SuccessLandsAtHead(t *testing.T) {
	remote := &engagementRemote{post: models.Post{
		ID:       "post_1",
		Comments: []models.Comment{{User: "earlier", Text: "old"}},
	}}
	c, st, _ := newTestController(t, remote, false)
	st.InsertPost(models.Post{ID: "post_1", Comments: []models.Comment{{User: "earlier", Text: "old"}}})

	view, err := c.AppendComment(context.Background(), "post_1", "asha", "is this available?")
	require.NoError(t, err)

	require.NotEmpty(t, view.Comments)
	assert.Equal(t, "is this available?", view.Comments[0].Text)
	assert.False(t, view.Comments[0].Unsynced)

	got, _ := st.GetPost("post_1")
	assert.Equal(t, store.StateConfirmed, got.Sync)
	assert.Len(t, got.Comments, 2)
}

func TestAppendComment_FallbackMarksUnsyncedAndQueues(t *testing.T) {
	remote := &engagementRemote{
		post:       models.Post{ID: "post_1"},
		commentErr: &apperrors.RemoteError{Message: "timeout"},
	}
	c, st, queue := newTestController(t, remote, true)
	st.InsertPost(models.Post{ID: "post_1"})

	view, err := c.AppendComment(context.Background(), "post_1", "ravi", "still selling?")
	require.NoError(t, err)

	require.NotEmpty(t, view.Comments)
	assert.Equal(t, "still selling?", view.Comments[0].Text)
	assert.True(t, view.Comments[0].Unsynced)

	pending, err := queue.Pending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "post_1", pending[0].PostID)
	assert.Equal(t, "still selling?", pending[0].Text)
}

func TestAppendComment_AnonymousDefault(t *testing.T) {
	remote := &engagementRemote{post: models.Post{ID: "post_1"}}
	c, st, _ := newTestController(t, remote, false)
	st.InsertPost(models.Post{ID: "post_1"})

	view, err := c.AppendComment(context.Background(), "post_1", "", "hello")
	require.NoError(t, err)
	require.NotEmpty(t, view.Comments)
	assert.Equal(t, "Anonymous", view.Comments[0].User)
}

func TestAppendComment_EmptyTextRejected(t *testing.T) {
	c, _, _ := newTestController(t, &engagementRemote{}, false)

	_, err := c.AppendComment(context.Background(), "post_1", "asha", "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestAppendComment_MissingPostPassthrough(t *testing.T) {
	remote := &engagementRemote{commentErr: apperrors.ErrNotFound}
	c, _, _ := newTestController(t, remote, true)

	_, err := c.AppendComment(context.Background(), "gone", "asha", "hi")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReplayer_DeliversQueuedComment(t *testing.T) {
	remote := &engagementRemote{
		post:       models.Post{ID: "post_1"},
		commentErr: &apperrors.RemoteError{Message: "down"},
	}
	c, st, queue := newTestController(t, remote, true)
	st.InsertPost(models.Post{ID: "post_1"})

	_, err := c.AppendComment(context.Background(), "post_1", "ravi", "ping")
	require.NoError(t, err)

	// Upstream recovers.
	remote.setCommentErr(nil)

	r := NewReplayer(c, 0, zap.NewNop())
	r.ReplayOnce(context.Background())

	pending, err := queue.Pending(10)
	require.NoError(t, err)
	assert.Empty(t, pending, "delivered entries must be acked")

	got, _ := st.GetPost("post_1")
	require.NotEmpty(t, got.Comments)
	assert.Equal(t, "ping", got.Comments[0].Text)
	assert.False(t, got.Comments[0].Unsynced)
	assert.Equal(t, store.StateConfirmed, got.Sync)
}

func TestReplayer_DropsEntryForDeletedPost(t *testing.T) {
	remote := &engagementRemote{
		post:       models.Post{ID: "post_1"},
		commentErr: &apperrors.RemoteError{Message: "down"},
	}
	c, st, queue := newTestController(t, remote, true)
	st.InsertPost(models.Post{ID: "post_1"})

	_, err := c.AppendComment(context.Background(), "post_1", "ravi", "ping")
	require.NoError(t, err)

	remote.setCommentErr(apperrors.ErrNotFound)

	r := NewReplayer(c, 0, zap.NewNop())
	r.ReplayOnce(context.Background())

	pending, err := queue.Pending(10)
	require.NoError(t, err)
	assert.Empty(t, pending, "entries for deleted posts are dropped")
}

func TestReplayer_KeepsEntryWhileUnreachable(t *testing.T) {
	remote := &engagementRemote{
		post:       models.Post{ID: "post_1"},
		commentErr: &apperrors.RemoteError{Message: "down"},
	}
	c, st, queue := newTestController(t, remote, true)
	st.InsertPost(models.Post{ID: "post_1"})

	_, err := c.AppendComment(context.Background(), "post_1", "ravi", "ping")
	require.NoError(t, err)

	r := NewReplayer(c, 0, zap.NewNop())
	r.ReplayOnce(context.Background())

	pending, err := queue.Pending(10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 1, pending[0].Attempts)
}
