package seller

import (
	"sync"

	"github.com/unixchange/unixchange-sync-service/internal/models"
)

// Directory stores seller profiles consulted at order-creation time. The
// account system itself is external; this is the sync layer's view of it,
// fed through profile upserts.
type Directory struct {
	mu       sync.RWMutex
	byUserID map[string]models.SellerProfile
	byEmail  map[string]models.SellerProfile
}

func NewDirectory() *Directory {
	return &Directory{
		byUserID: make(map[string]models.SellerProfile),
		byEmail:  make(map[string]models.SellerProfile),
	}
}

// Upsert stores or replaces a profile. Orders that already carry a banking
// snapshot are unaffected; snapshots never track profile edits.
func (d *Directory) Upsert(p models.SellerProfile) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p.UserID != "" {
		d.byUserID[p.UserID] = p
	}
	if p.Email != "" {
		d.byEmail[p.Email] = p
	}
}

// Resolve looks a profile up by account id first, then by email, matching
// the upstream order-creation lookup order.
func (d *Directory) Resolve(userID, email string) (models.SellerProfile, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if userID != "" {
		if p, ok := d.byUserID[userID]; ok {
			return p, true
		}
	}
	if email != "" {
		if p, ok := d.byEmail[email]; ok {
			return p, true
		}
	}
	return models.SellerProfile{}, false
}
