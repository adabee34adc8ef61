package store

import (
	"time"

	"github.com/unixchange/unixchange-sync-service/internal/apperrors"
	"github.com/unixchange/unixchange-sync-service/internal/models"
)

// Orders returns a newest-first snapshot of the order list.
func (s *Store) Orders() []OrderView {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]OrderView, 0, len(s.orders.entries))
	for _, e := range s.orders.entries {
		out = append(out, OrderView{Order: e.order, Sync: e.state})
	}
	return out
}

// StageOrder inserts an optimistic order at the head of the list.
func (s *Store) StageOrder(o models.Order) (OrderView, Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = NewLocalID()
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	if o.Date.IsZero() {
		o.Date = time.Now()
	}
	e := &orderEntry{entryMeta: newMeta(o.ID, StatePending), order: o}
	s.orders.entries = append([]*orderEntry{e}, s.orders.entries...)
	return OrderView{Order: o, Sync: StatePending}, e.ticket()
}

// ConfirmOrder replaces the staged entry with the server-confirmed order.
func (s *Store) ConfirmOrder(t Ticket, confirmed models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findOrderByHandle(t.Handle)
	if e == nil {
		return ErrNoEntry
	}
	if e.seq != t.Seq {
		return ErrStale
	}
	e.order = confirmed
	e.state = StateConfirmed
	e.seq++
	return nil
}

// FailOrder marks the staged entry Failed, leaving the optimistic order in
// place.
func (s *Store) FailOrder(t Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.findOrderByHandle(t.Handle)
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

// SetOrderStatus transitions an order's lifecycle status. Orders never
// mutate after their payout snapshot is set except through this command.
func (s *Store) SetOrderStatus(id string, status models.OrderStatus) (OrderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.orders.entries {
		if e.order.ID == id {
			e.order.Status = status
			e.seq++
			return OrderView{Order: e.order, Sync: e.state}, nil
		}
	}
	return OrderView{}, apperrors.ErrNotFound
}

// ReplaceOrders merges a fetched canonical list, preserving optimistic
// entries staged after the previous successful fetch.
func (s *Store) ReplaceOrders(fetched []models.Order, fetchedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]*orderEntry, 0, len(s.orders.entries))
	for _, e := range s.orders.entries {
		if e.state != StateConfirmed && e.stagedAt.After(s.orders.lastFetch) {
			kept = append(kept, e)
		}
	}

	next := kept
	for _, o := range fetched {
		next = append(next, &orderEntry{
			entryMeta: entryMeta{handle: o.ID, seq: 1, state: StateConfirmed, stagedAt: fetchedAt},
			order:     o,
		})
	}
	s.orders.entries = next
	s.orders.lastFetch = fetchedAt
}

func (s *Store) findOrderByHandle(handle string) *orderEntry {
	for _, e := range s.orders.entries {
		if e.handle == handle {
			return e
		}
	}
	return nil
}
