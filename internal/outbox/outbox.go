// Package outbox persists comment appends that failed against the upstream
// store, so the fallback path is durable rather than silently local-only.
package outbox

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"
)

// PendingComment is one queued append.
type PendingComment struct {
	PostID    string    `json:"post_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Attempts  int       `json:"attempts"`
}

// QueuedComment pairs a pending comment with its queue key.
type QueuedComment struct {
	Key string
	PendingComment
}

// Outbox is a pebble-backed FIFO of pending comments. Keys embed the
// enqueue timestamp, so iteration order is enqueue order.
type Outbox struct {
	db *pebble.DB
}

func Open(dir string) (*Outbox, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("outbox open: %w", err)
	}
	return &Outbox{db: db}, nil
}

func (o *Outbox) Close() error { return o.db.Close() }

// Enqueue appends a pending comment. The write is synced; a crash after
// Enqueue returns must not lose the entry.
func (o *Outbox) Enqueue(pc PendingComment) (string, error) {
	key := fmt.Sprintf("comment:%020d:%s", pc.CreatedAt.UnixNano(), uuid.NewString())
	val, err := json.Marshal(pc)
	if err != nil {
		return "", err
	}
	if err := o.db.Set([]byte(key), val, pebble.Sync); err != nil {
		return "", fmt.Errorf("outbox enqueue: %w", err)
	}
	return key, nil
}

// Pending returns up to limit queued comments in enqueue order.
func (o *Outbox) Pending(limit int) ([]QueuedComment, error) {
	it, err := o.db.NewIter(nil)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []QueuedComment
	for it.First(); it.Valid() && len(out) < limit; it.Next() {
		var pc PendingComment
		if err := json.Unmarshal(it.Value(), &pc); err != nil {
			return nil, err
		}
		out = append(out, QueuedComment{Key: string(it.Key()), PendingComment: pc})
	}
	return out, nil
}

// Ack removes a delivered (or permanently undeliverable) entry.
func (o *Outbox) Ack(key string) error {
	return o.db.Delete([]byte(key), pebble.Sync)
}

// Nack records a failed delivery attempt, keeping the entry queued.
func (o *Outbox) Nack(qc QueuedComment) error {
	qc.Attempts++
	val, err := json.Marshal(qc.PendingComment)
	if err != nil {
		return err
	}
	return o.db.Set([]byte(qc.Key), val, pebble.NoSync)
}
