// Package seller resolves the denormalized seller linkage stored on orders
// and posts against account identities, and freezes banking snapshots onto
// orders at creation time.
package seller

import (
	"github.com/unixchange/unixchange-sync-service/internal/models"
)

// Matches reports whether the record identified by keys belongs to the
// candidate identity. Resolution priority:
//
//  1. the record carries a seller email: exact email equality only;
//  2. no email: the candidate's display name or store name must equal the
//     record's seller identifier;
//  3. no linkage at all: the record is unclaimed and matches nobody, so it
//     is excluded from every seller-scoped view.
func Matches(keys models.SellerKeys, candidate models.SellerIdentity) bool {
	if keys.Unclaimed() {
		return false
	}
	if keys.SellerEmail != "" {
		return candidate.Email != "" && keys.SellerEmail == candidate.Email
	}
	if candidate.Name != "" && keys.SellerID == candidate.Name {
		return true
	}
	return candidate.StoreName != "" && keys.SellerID == candidate.StoreName
}

// OwnsPost reports whether requesterID may delete the post. A post whose
// owner identity was never recorded is deletable by anyone; the gap is
// deliberate and mirrors the upstream store's check.
func OwnsPost(post *models.Post, requesterID string) bool {
	if post.User.UserID == "" {
		return true
	}
	return post.User.UserID == requesterID
}

// FilterOrders returns the orders belonging to the candidate, newest order
// first, preserving input order.
func FilterOrders(orders []models.Order, candidate models.SellerIdentity) []models.Order {
	out := make([]models.Order, 0)
	for _, o := range orders {
		if Matches(o.SellerKeys(), candidate) {
			out = append(out, o)
		}
	}
	return out
}
