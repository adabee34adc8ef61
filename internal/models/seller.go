package models

// SellerIdentity is the externally-supplied account identity of a viewer
// acting as a seller. Session mechanics are out of scope; the bundle
// arrives fully formed.
type SellerIdentity struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	StoreName string `json:"storeName,omitempty"`
}

// SellerKeys is the denormalized seller linkage stored on orders and
// products: an email when the writer knew it, otherwise a display-name or
// store-name identifier in SellerID.
type SellerKeys struct {
	SellerID    string
	SellerEmail string
}

// Unclaimed reports whether the record carries no seller linkage at all.
// Such records belong to nobody and are excluded from every seller-scoped
// view.
func (k SellerKeys) Unclaimed() bool {
	return k.SellerID == "" && k.SellerEmail == ""
}

// SellerProfile is the stored account record consulted when freezing
// banking details onto an order.
type SellerProfile struct {
	UserID      string       `json:"userId"`
	Email       string       `json:"email"`
	Name        string       `json:"name,omitempty"`
	StoreName   string       `json:"storeName,omitempty"`
	BankDetails *BankDetails `json:"bankDetails,omitempty"`
}
