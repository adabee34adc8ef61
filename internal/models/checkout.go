package models

// CheckoutItem is one cart line item. Price is the listing's wire-format
// price string; the amount charged is price × quantity.
type CheckoutItem struct {
	Title        string `json:"title"`
	Price        string `json:"price"`
	Quantity     int    `json:"quantity"`
	SellerID     string `json:"sellerId,omitempty"`
	SellerEmail  string `json:"sellerEmail,omitempty"`
	SourcePostID string `json:"sourceReelId,omitempty"`
}

// CheckoutRequest creates one order per line item.
type CheckoutRequest struct {
	Items         []CheckoutItem `json:"items"`
	Buyer         string         `json:"buyer"`
	Address       string         `json:"address"`
	CustomerName  string         `json:"customerName,omitempty"`
	CustomerPhone string         `json:"customerPhone,omitempty"`
	PaymentMethod PaymentMethod  `json:"paymentMethod"`
	PaymentID     string         `json:"paymentId,omitempty"`
}
