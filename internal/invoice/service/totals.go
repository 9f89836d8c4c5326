package service

import (
	"github.com/smallbiznis/facturo/internal/invoice/domain"
	"github.com/smallbiznis/facturo/pkg/money"
)

// Totals holds the five derived monetary figures of an invoice, in cents.
type Totals struct {
	Subtotal       int64
	DiscountAmount int64
	Base           int64
	TaxAmount      int64
	Total          int64
}

// computeTotals derives the invoice figures from normalized lines, a
// discount percentage, and the tax rate. The order is fixed: the discount
// applies to the subtotal, and tax is computed on the discounted base, so a
// discount always reduces the taxable amount.
//
// Every figure is rounded to whole cents as soon as it is computed
// (half away from zero), not only at the end.
func computeTotals(lines []lineDraft, discountPct float64, taxRate float64) (Totals, error) {
	// Written as a negated conjunction so NaN fails the check too: both
	// NaN < 0 and NaN > 100 are false, which a pair of disjoint
	// comparisons would happily wave through.
	if !(discountPct >= 0 && discountPct <= 100) {
		return Totals{}, domain.ErrInvalidDiscountPercent
	}

	var subtotal int64
	for _, line := range lines {
		subtotal += line.Amount
	}

	discount := money.Percent(max(subtotal, 0), discountPct)

	base := subtotal - discount
	if base < 0 {
		base = 0
	}

	tax := money.ApplyRate(base, taxRate)
	total := base + tax

	// base is floored at zero, so this only trips on a rounding pathology.
	if total < 0 {
		return Totals{}, domain.ErrNegativeTotal
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		Base:           base,
		TaxAmount:      tax,
		Total:          total,
	}, nil
}
