package models

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/unixchange/unixchange-sync-service/internal/apperrors"
)

// ParsePrice converts an upstream price string into a decimal amount.
// Prices arrive either bare ("120") or with a currency symbol prefix and
// separators ("₹1,200.50"); everything except digits, dot and minus is
// stripped before parsing.
func ParsePrice(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero, apperrors.NewValidationError("price", "no numeric value in "+strconv.Quote(raw))
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, apperrors.NewValidationError("price", "malformed amount "+strconv.Quote(raw))
	}
	return d, nil
}
