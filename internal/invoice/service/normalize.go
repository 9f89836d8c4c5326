package service

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/smallbiznis/facturo/internal/invoice/domain"
)

// lineDraft is a normalized, priced line item awaiting persistence.
type lineDraft struct {
	ProductCode string
	Quantity    int64
	Amount      int64 // unit price * quantity, cents
}

// normalizeLines turns parallel (product code, quantity string) inputs into
// priced line drafts, in input order. Line-item validation is deliberately
// permissive: an unparsable or non-positive quantity, or a product code that
// does not resolve, drops that pair and processing continues. Only an empty
// result is an error. Arrays of unequal length are zipped to the shorter one.
func normalizeLines(ctx context.Context, prices domain.PriceLookup, codes, quantities []string) ([]lineDraft, error) {
	n := len(codes)
	if len(quantities) < n {
		n = len(quantities)
	}

	drafts := make([]lineDraft, 0, n)
	for i := 0; i < n; i++ {
		qty, err := strconv.ParseInt(strings.TrimSpace(quantities[i]), 10, 64)
		if err != nil || qty <= 0 {
			continue
		}

		code := strings.TrimSpace(codes[i])
		price, ok, err := prices.UnitPriceByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		// A quantity that would overflow the line amount is as invalid
		// as a non-numeric one, and gets the same treatment.
		if price > 0 && qty > math.MaxInt64/price {
			continue
		}

		drafts = append(drafts, lineDraft{
			ProductCode: code,
			Quantity:    qty,
			Amount:      price * qty,
		})
	}

	if len(drafts) == 0 {
		return nil, domain.ErrNoValidLineItems
	}
	return drafts, nil
}
