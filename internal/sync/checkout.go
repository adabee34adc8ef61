package sync

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/unixchange/unixchange-sync-service/internal/apperrors"
	"github.com/unixchange/unixchange-sync-service/internal/models"
	"github.com/unixchange/unixchange-sync-service/internal/store"
)

// Checkout creates one order per cart line item. Each order's amount is
// the parsed listing price times the quantity; seller keys ride along so
// the payout snapshot and later seller-scoped views can resolve it.
func (r *Reconciler) Checkout(ctx context.Context, req models.CheckoutRequest) ([]store.OrderView, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.NewValidationError("items", "at least one item is required")
	}
	if req.Address == "" {
		return nil, apperrors.NewValidationError("address", "delivery address is required")
	}
	if req.PaymentMethod != models.PaymentMethodCOD && req.PaymentMethod != models.PaymentMethodOnline {
		return nil, apperrors.NewValidationError("paymentMethod", "must be COD or ONLINE")
	}

	orders := make([]models.Order, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Title == "" {
			return nil, apperrors.NewValidationError("items", "product label is required")
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		price, err := models.ParsePrice(item.Price)
		if err != nil {
			return nil, err
		}
		amount := price.Mul(decimal.NewFromInt(int64(qty)))
		if !amount.IsPositive() {
			return nil, apperrors.NewValidationError("amount", "amount must be positive")
		}

		buyer := req.Buyer
		if buyer == "" {
			buyer = "Guest"
		}
		orders = append(orders, models.Order{
			Product:       item.Title,
			Amount:        amount,
			Buyer:         buyer,
			SourcePostID:  item.SourcePostID,
			SellerID:      item.SellerID,
			SellerEmail:   item.SellerEmail,
			Address:       req.Address,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			PaymentMethod: req.PaymentMethod,
			PaymentID:     req.PaymentID,
		})
	}

	// Validation of the whole cart precedes any staging, so a rejected
	// request leaves the local view untouched.
	views := make([]store.OrderView, 0, len(orders))
	for _, o := range orders {
		view, err := r.CreateOrder(ctx, o)
		if err != nil {
			return views, err
		}
		views = append(views, view)
	}
	return views, nil
}
