package store

import (
	"time"

	"github.com/unixchange/unixchange-sync-service/internal/apperrors"
	"github.com/unixchange/unixchange-sync-service/internal/models"
)

// Posts returns a newest-first snapshot of the feed. Posts carry slices,
// so snapshots are deep copies; callers never alias store state.
func (s *Store) Posts() []PostView {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PostView, 0, len(s.posts.entries))
	for _, e := range s.posts.entries {
		out = append(out, PostView{Post: *e.post.Clone(), Sync: e.state})
	}
	return out
}

// GetPost returns one post by durable identity.
func (s *Store) GetPost(id string) (PostView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findPost(id)
	if e == nil {
		return PostView{}, false
	}
	return PostView{Post: *e.post.Clone(), Sync: e.state}, true
}

// InsertPost adds a freshly uploaded post at the head of the feed. Upload
// is a single synchronous multipart request, so the post arrives already
// durable.
func (s *Store) InsertPost(p models.Post) PostView {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &postEntry{entryMeta: newMeta(p.ID, StateConfirmed), post: p}
	s.posts.entries = append([]*postEntry{e}, s.posts.entries...)
	return PostView{Post: *e.post.Clone(), Sync: e.state}
}

// RemovePost drops the post from the local feed.
func (s *Store) RemovePost(id string) (models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.posts.entries {
		if e.post.ID == id {
			removed := e.post
			s.posts.entries = append(s.posts.entries[:i], s.posts.entries[i+1:]...)
			return removed, true
		}
	}
	return models.Post{}, false
}

// MutatePost applies an optimistic in-place mutation (like flip, comment
// insert, view bump) and returns the ticket the matching remote response
// must present to reconcile.
func (s *Store) MutatePost(id string, apply func(*models.Post)) (PostView, Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findPost(id)
	if e == nil {
		return PostView{}, Ticket{}, apperrors.ErrNotFound
	}
	apply(&e.post)
	e.seq++
	return PostView{Post: *e.post.Clone(), Sync: e.state}, e.ticket(), nil
}

// PutCanonicalPost replaces the local copy wholesale with the canonical
// state confirmed by the upstream store. Server wins over the optimistic
// guess, unless a newer local mutation was accepted while this response
// was in flight, in which case the response is stale and dropped.
func (s *Store) PutCanonicalPost(t Ticket, canonical models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findPost(t.Handle)
	if e == nil {
		return ErrNoEntry
	}
	if e.seq != t.Seq {
		return ErrStale
	}
	e.post = canonical
	e.state = StateConfirmed
	e.seq++
	return nil
}

// ForceCanonicalPost replaces the local copy with canonical state
// unconditionally. Used when no optimistic mutation preceded the remote
// call, so there is no ticket to guard with.
func (s *Store) ForceCanonicalPost(canonical models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findPost(canonical.ID)
	if e == nil {
		return ErrNoEntry
	}
	e.post = canonical
	e.state = StateConfirmed
	e.seq++
	return nil
}

// ReplacePosts merges a fetched canonical feed. Optimistic entries staged
// after the previous fetch are preserved; everything else, including
// unsynced comments riding on confirmed posts, is superseded by the
// canonical list.
func (s *Store) ReplacePosts(fetched []models.Post, fetchedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]*postEntry, 0, len(s.posts.entries))
	for _, e := range s.posts.entries {
		if e.state != StateConfirmed && e.stagedAt.After(s.posts.lastFetch) {
			kept = append(kept, e)
		}
	}

	next := kept
	for _, p := range fetched {
		next = append(next, &postEntry{
			entryMeta: entryMeta{handle: p.ID, seq: 1, state: StateConfirmed, stagedAt: fetchedAt},
			post:      p,
		})
	}
	s.posts.entries = next
	s.posts.lastFetch = fetchedAt
}

func (s *Store) findPost(id string) *postEntry {
	for _, e := range s.posts.entries {
		if e.post.ID == id || e.handle == id {
			return e
		}
	}
	return nil
}
