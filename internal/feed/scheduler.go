// Package feed turns viewport-visibility reports for the vertically paged
// post list into playback commands and exactly-once view increments.
package feed

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/clients"
	"github.com/unixchange/unixchange-sync-service/internal/events"
	"github.com/unixchange/unixchange-sync-service/internal/metrics"
	"github.com/unixchange/unixchange-sync-service/internal/models"
	"github.com/unixchange/unixchange-sync-service/internal/store"
)

// Action is a playback command for one rendered post.
type Action string

const (
	ActionPlay  Action = "play"
	ActionPause Action = "pause"
)

// Command tells the renderer what to do with one post's player.
type Command struct {
	PostID string `json:"postId"`
	Action Action `json:"action"`
}

// mount tracks one mounted instance of the feed. The viewed latch is
// scoped here: re-crossing the threshold inside a mount never recounts,
// while a fresh mount starts clean and may count the same viewer again.
type mount struct {
	active map[string]bool
	viewed map[string]bool
	// playing is the single post allowed to play right now.
	playing string
}

// Scheduler converts visibility ratios into active/inactive transitions.
// A post is active iff its ratio is at or above the threshold.
type Scheduler struct {
	mu     sync.Mutex
	mounts map[string]*mount

	threshold float64

	store     *store.Store
	remote    clients.RemoteStore
	publisher events.Publisher
	metrics   *metrics.Registry
	logger    *zap.Logger

	inflight sync.WaitGroup
}

func NewScheduler(
	threshold float64,
	st *store.Store,
	remote clients.RemoteStore,
	publisher events.Publisher,
	reg *metrics.Registry,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		mounts:    make(map[string]*mount),
		threshold: threshold,
		store:     st,
		remote:    remote,
		publisher: publisher,
		metrics:   reg,
		logger:    logger.Named("feed"),
	}
}

// Mount registers a new feed instance and returns its id.
func (s *Scheduler) Mount() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.mounts[id] = &mount{
		active: make(map[string]bool),
		viewed: make(map[string]bool),
	}
	return id
}

// Unmount discards a feed instance and its view latches.
func (s *Scheduler) Unmount(mountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mounts, mountID)
}

// Flush blocks until in-flight view reconciliations complete.
func (s *Scheduler) Flush() {
	s.inflight.Wait()
}

// Report feeds one visibility ratio for one post and returns the playback
// commands the transition produced. Activating a post pauses whichever
// post was playing; at most one plays at a time.
func (s *Scheduler) Report(ctx context.Context, mountID, postID string, ratio float64) ([]Command, error) {
	s.mu.Lock()
	m, ok := s.mounts[mountID]
	if !ok {
		s.mu.Unlock()
		return nil, errUnknownMount
	}

	active := ratio >= s.threshold
	wasActive := m.active[postID]
	m.active[postID] = active

	var cmds []Command
	var countView bool

	switch {
	case active && !wasActive:
		if m.playing != "" && m.playing != postID {
			cmds = append(cmds, Command{PostID: m.playing, Action: ActionPause})
			m.active[m.playing] = false
		}
		m.playing = postID
		cmds = append(cmds, Command{PostID: postID, Action: ActionPlay})

		if !m.viewed[postID] {
			m.viewed[postID] = true
			countView = true
		}
	case !active && wasActive:
		if m.playing == postID {
			m.playing = ""
		}
		cmds = append(cmds, Command{PostID: postID, Action: ActionPause})
	}
	s.mu.Unlock()

	if countView {
		s.recordView(ctx, postID)
	}
	return cmds, nil
}

// recordView bumps the counter optimistically and reconciles against the
// canonical post. The increment is at-most-once per mount per post; a
// failed remote call is not retried.
func (s *Scheduler) recordView(ctx context.Context, postID string) {
	_, ticket, err := s.store.MutatePost(postID, func(p *models.Post) {
		p.Views++
	})
	if err != nil {
		s.logger.Debug("view not recorded, post unknown locally", zap.String("post_id", postID))
		return
	}
	s.metrics.ViewsRecorded.Inc()

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		canonical, err := s.remote.RecordView(context.Background(), postID)
		if err != nil {
			s.logger.Warn("view increment failed upstream",
				zap.String("post_id", postID), zap.Error(err))
			return
		}
		if err := s.store.PutCanonicalPost(ticket, canonical); err != nil {
			if err == store.ErrStale {
				s.metrics.ReconcileStale.Inc()
			}
			return
		}
		s.metrics.ReconcileApplied.Inc()
		if err := s.publisher.PublishEngagement(context.Background(), events.EventTypeViewRecorded, postID, ""); err != nil {
			s.logger.Debug("view event not published", zap.Error(err))
		}
	}()
}
