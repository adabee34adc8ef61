package sync

import (
	"github.com/unixchange/unixchange-sync-service/internal/apperrors"
	"github.com/unixchange/unixchange-sync-service/internal/models"
)

func validateProduct(p *models.Product) error {
	if p.Title == "" {
		return apperrors.NewValidationError("title", "title is required")
	}
	if p.Price == "" {
		return apperrors.NewValidationError("price", "price is required")
	}
	if _, err := models.ParsePrice(p.Price); err != nil {
		return err
	}
	if p.Category == "" {
		return apperrors.NewValidationError("category", "category is required")
	}
	if p.Stock < 0 {
		return apperrors.NewValidationError("stock", "stock cannot be negative")
	}
	return nil
}

func validateOrder(o *models.Order) error {
	if o.Product == "" {
		return apperrors.NewValidationError("product", "product label is required")
	}
	if !o.Amount.IsPositive() {
		return apperrors.NewValidationError("amount", "amount must be positive")
	}
	if o.Address == "" {
		return apperrors.NewValidationError("address", "delivery address is required")
	}
	switch o.PaymentMethod {
	case models.PaymentMethodCOD, models.PaymentMethodOnline:
	default:
		return apperrors.NewValidationError("paymentMethod", "must be COD or ONLINE")
	}
	return nil
}
