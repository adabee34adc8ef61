package store

import (
	"time"

	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/models"
)

// Products returns a newest-first snapshot of the product list.
func (s *Store) Products() []ProductView {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ProductView, 0, len(s.products.entries))
	for _, e := range s.products.entries {
		out = append(out, ProductView{Product: e.product, Sync: e.state})
	}
	return out
}

// StageProduct inserts an optimistic product at the head of the list under
// an ephemeral identity and returns the ticket a later reconciliation must
// present.
func (s *Store) StageProduct(p models.Product) (ProductView, Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = NewLocalID()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	e := &productEntry{entryMeta: newMeta(p.ID, StatePending), product: p}
	s.products.entries = append([]*productEntry{e}, s.products.entries...)

	s.logger.Debug("product staged", zap.String("local_id", p.ID))
	return ProductView{Product: p, Sync: StatePending}, e.ticket()
}

// ConfirmProduct replaces the staged entry addressed by the ticket's handle
// with the server-confirmed product. The ephemeral identity is replaced,
// never merged: after this command exactly one identity representation
// remains. Stale tickets are dropped.
func (s *Store) ConfirmProduct(t Ticket, confirmed models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findProductByHandle(t.Handle)
	if e == nil {
		return ErrNoEntry
	}
	if e.seq != t.Seq {
		s.logger.Warn("dropping stale product confirmation",
			zap.String("handle", t.Handle),
			zap.Uint64("ticket_seq", t.Seq),
			zap.Uint64("entry_seq", e.seq))
		return ErrStale
	}

	e.product = confirmed
	e.state = StateConfirmed
	e.seq++
	return nil
}

// FailProduct marks the staged entry Failed. The optimistic entry stays in
// place; there is no rollback.
func (s *Store) FailProduct(t Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findProductByHandle(t.Handle)
	if e == nil {
		return ErrNoEntry
	}
	if e.seq != t.Seq {
		return ErrStale
	}
	e.state = StateFailed
	e.seq++
	return nil
}

// RemoveProduct drops the entry matching id (durable or ephemeral) from the
// local list and returns the removed product.
func (s *Store) RemoveProduct(id string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.products.entries {
		if e.product.ID == id {
			removed := e.product
			s.products.entries = append(s.products.entries[:i], s.products.entries[i+1:]...)
			return removed, true
		}
	}
	return models.Product{}, false
}

// UpdateProduct applies a stock/price edit to the local entry.
func (s *Store) UpdateProduct(id string, apply func(*models.Product)) (ProductView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.products.entries {
		if e.product.ID == id {
			apply(&e.product)
			e.seq++
			return ProductView{Product: e.product, Sync: e.state}, true
		}
	}
	return ProductView{}, false
}

// ReplaceProducts merges a freshly fetched canonical list into the local
// view. Confirmed entries are superseded wholesale; optimistic entries
// (Pending or Failed) staged after the previous successful fetch are
// preserved at the head so a refetch cannot transiently discard them.
func (s *Store) ReplaceProducts(fetched []models.Product, fetchedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]*productEntry, 0, len(s.products.entries))
	for _, e := range s.products.entries {
		if e.state != StateConfirmed && e.stagedAt.After(s.products.lastFetch) {
			kept = append(kept, e)
		}
	}

	next := kept
	for _, p := range fetched {
		next = append(next, &productEntry{
			entryMeta: entryMeta{handle: p.ID, seq: 1, state: StateConfirmed, stagedAt: fetchedAt},
			product:   p,
		})
	}
	s.products.entries = next
	s.products.lastFetch = fetchedAt
}

func (s *Store) findProductByHandle(handle string) *productEntry {
	for _, e := range s.products.entries {
		if e.handle == handle {
			return e
		}
	}
	return nil
}
