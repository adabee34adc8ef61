package models

import (
	"strings"
	"time"
)

// LocalIDPrefix marks ephemeral identities assigned before the upstream
// store has acknowledged an entity.
const LocalIDPrefix = "local_"

// Product is a marketplace listing. Price is kept in the upstream wire
// format: a decimal string that may carry a currency symbol prefix ("₹120").
type Product struct {
	ID            string    `json:"_id,omitempty"`
	Title         string    `json:"title"`
	Price         string    `json:"price"`
	OriginalPrice string    `json:"originalPrice,omitempty"`
	Rating        float64   `json:"rating"`
	Reviews       int       `json:"reviews"`
	Category      string    `json:"category"`
	Image         string    `json:"image,omitempty"`
	Seller        string    `json:"seller"`
	Status        string    `json:"status"`
	Stock         int       `json:"stock"`
	UserID        string    `json:"userId,omitempty"`
	SellerID      string    `json:"sellerId,omitempty"`
	SellerEmail   string    `json:"sellerEmail,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// IsDurableID reports whether id plausibly came from the upstream store
// rather than from the local ephemeral assigner. The length check mirrors
// the shape of upstream document ids; short legacy ids and anything carrying
// the local prefix never left the optimistic state.
func IsDurableID(id string) bool {
	if strings.HasPrefix(id, LocalIDPrefix) {
		return false
	}
	return len(id) > 10
}
