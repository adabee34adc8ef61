package seller

import (
	"go.uber.org/zap"

	"github.com/unixchange/unixchange-sync-service/internal/models"
)

// PayoutLinker freezes a seller's current banking profile into orders at
// creation time. Snapshot semantics: the copy is immutable regardless of
// later edits to the profile.
type PayoutLinker struct {
	directory *Directory
	logger    *zap.Logger
}

func NewPayoutLinker(directory *Directory, logger *zap.Logger) *PayoutLinker {
	return &PayoutLinker{
		directory: directory,
		logger:    logger.Named("payout-linker"),
	}
}

// Attach resolves the order's seller and, when a banking profile exists,
// deep-copies it into the order and marks the payout Pending. Without a
// resolvable profile the order is left untouched: no snapshot fields and
// the payout status stays at its zero default.
func (l *PayoutLinker) Attach(order *models.Order) {
	profile, ok := l.directory.Resolve(order.SellerID, order.SellerEmail)
	if !ok {
		return
	}
	if profile.BankDetails.IsZero() {
		return
	}

	order.SellerBankDetails = profile.BankDetails.Clone()
	order.PayoutStatus = models.PayoutStatusPending

	l.logger.Debug("banking snapshot attached",
		zap.String("seller_id", order.SellerID),
		zap.String("seller_email", order.SellerEmail))
}
