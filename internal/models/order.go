package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The upstream store serializes amounts as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "COD"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "Pending"
	PayoutStatusProcessed PayoutStatus = "Processed"
	PayoutStatusFailed    PayoutStatus = "Failed"
)

// BankDetails is the banking profile snapshotted onto orders at creation
// time. Snapshot semantics: later profile edits never touch a copy already
// attached to an order.
type BankDetails struct {
	AccountName   string `json:"accountName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IFSCCode      string `json:"ifscCode,omitempty"`
	BankName      string `json:"bankName,omitempty"`
	UPIID         string `json:"upiId,omitempty"`
}

// Clone returns a deep copy of the bank details.
func (b *BankDetails) Clone() *BankDetails {
	if b == nil {
		return nil
	}
	cp := *b
	return &cp
}

// IsZero reports whether no banking field is set.
func (b *BankDetails) IsZero() bool {
	return b == nil || *b == BankDetails{}
}

// Order is a single checkout line item. Product is a denormalized label,
// not a foreign key; SourcePostID back-references the video post a purchase
// originated from, when any.
type Order struct {
	ID                string          `json:"_id,omitempty"`
	Product           string          `json:"product"`
	Amount            decimal.Decimal `json:"amount"`
	Buyer             string          `json:"buyer"`
	Status            OrderStatus     `json:"status"`
	SourcePostID      string          `json:"sourceReelId,omitempty"`
	SellerID          string          `json:"sellerId,omitempty"`
	SellerEmail       string          `json:"sellerEmail,omitempty"`
	Address           string          `json:"address"`
	CustomerName      string          `json:"customerName,omitempty"`
	CustomerPhone     string          `json:"customerPhone,omitempty"`
	PaymentMethod     PaymentMethod   `json:"paymentMethod"`
	PaymentID         string          `json:"paymentId,omitempty"`
	Date              time.Time       `json:"date,omitempty"`
	SellerBankDetails *BankDetails    `json:"sellerBankDetails,omitempty"`
	PayoutStatus      PayoutStatus    `json:"payoutStatus,omitempty"`
}

// SellerKeys returns the denormalized seller linkage stored on the order.
func (o *Order) SellerKeys() SellerKeys {
	return SellerKeys{SellerID: o.SellerID, SellerEmail: o.SellerEmail}
}
