package service

import (
	"github.com/smallbiznis/facturo/internal/invoice/domain"
	"github.com/smallbiznis/facturo/pkg/money"
)

// reconstructTotals recomputes the subtotal from stored line amounts and the
// taxable base from the stored discount amount. For any invoice written by
// Create, the result matches the figures computed at creation time; display
// and document rendering use these instead of re-deriving anything from the
// catalog.
func reconstructTotals(lines []domain.InvoiceLine, discountAmount int64) (subtotal, base int64) {
	for _, line := range lines {
		subtotal += line.Amount
	}
	base = subtotal - discountAmount
	if base < 0 {
		base = 0
	}
	return subtotal, base
}

// lineUnitPrice derives the display unit price from a stored line. A
// quantity of zero cannot occur for lines written by Create, but a violated
// invariant renders as 0.00 rather than crashing.
func lineUnitPrice(line domain.InvoiceLine) int64 {
	if line.Quantity <= 0 {
		return 0
	}
	return money.Round(float64(line.Amount) / float64(line.Quantity))
}
