package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/apperrors"
	"github.com/unixchange/unixchange-sync-service/internal/models"
)

// SyncState tracks where an entry stands relative to the upstream store.
type SyncState string

const (
	// StatePending marks an optimistic entry not yet acknowledged upstream.
	StatePending SyncState = "pending"
	// StateConfirmed marks an entry whose identity is durable.
	StateConfirmed SyncState = "confirmed"
	// StateFailed marks an optimistic entry whose remote call failed. The
	// entry is kept (no rollback); the state surfaces the durability gap.
	StateFailed SyncState = "failed"
)

// Store holds the local view of products, orders and posts. All mutation
// goes through commands serialized by a single mutex; remote responses
// re-enter via Confirm/Fail/Replace commands and are dropped when stale.
type Store struct {
	mu sync.Mutex

	products productList
	orders   orderList
	posts    postList

	logger *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{logger: logger.Named("store")}
}

// NewLocalID assigns an ephemeral identity for an entity that has not yet
// been acknowledged by the upstream store.
func NewLocalID() string {
	return models.LocalIDPrefix + uuid.NewString()
}

type entryMeta struct {
	handle   string
	seq      uint64
	state    SyncState
	stagedAt time.Time
}

type productEntry struct {
	entryMeta
	product models.Product
}

type orderEntry struct {
	entryMeta
	order models.Order
}

type postEntry struct {
	entryMeta
	post models.Post
}

type productList struct {
	entries   []*productEntry
	lastFetch time.Time
}

type orderList struct {
	entries   []*orderEntry
	lastFetch time.Time
}

type postList struct {
	entries   []*postEntry
	lastFetch time.Time
}

// ProductView is a read-model snapshot carrying the entry's sync state.
type ProductView struct {
	models.Product
	Sync SyncState `json:"syncState"`
}

// OrderView is a read-model snapshot carrying the entry's sync state.
type OrderView struct {
	models.Order
	Sync SyncState `json:"syncState"`
}

// PostView is a read-model snapshot carrying the entry's sync state.
type PostView struct {
	models.Post
	Sync SyncState `json:"syncState"`
}

// Ticket identifies one accepted mutation of one entry. A remote response
// reconciles only while its ticket is still current; anything older is
// stale and dropped.
type Ticket struct {
	Handle string
	Seq    uint64
}

func (m *entryMeta) ticket() Ticket {
	return Ticket{Handle: m.handle, Seq: m.seq}
}

func newMeta(handle string, state SyncState) entryMeta {
	return entryMeta{handle: handle, seq: 1, state: state, stagedAt: time.Now()}
}

// ErrStale marks a reconciliation dropped because a newer mutation of the
// same entry was accepted after the request was issued.
var ErrStale = errors.New("stale reconciliation dropped")

// ErrNoEntry marks a reconciliation whose target entry is gone, e.g. it was
// deleted locally while the request was in flight.
var ErrNoEntry = apperrors.ErrNotFound
