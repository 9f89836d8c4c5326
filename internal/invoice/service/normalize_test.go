package service

import (
	"context"
	"testing"

	"github.com/smallbiznis/facturo/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPrices map[string]int64

func (s stubPrices) UnitPriceByCode(_ context.Context, code string) (int64, bool, error) {
	price, ok := s[code]
	return price, ok, nil
}

func TestNormalizeLines_PricesAndOrders(t *testing.T) {
	prices := stubPrices{"P00001": 450, "P00002": 380}

	drafts, err := normalizeLines(context.Background(), prices,
		[]string{"P00002", "P00001"},
		[]string{"1", "2"},
	)
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	// Output order follows input order, not catalog order.
	assert.Equal(t, "P00002", drafts[0].ProductCode)
	assert.Equal(t, int64(380), drafts[0].Amount)
	assert.Equal(t, "P00001", drafts[1].ProductCode)
	assert.Equal(t, int64(2), drafts[1].Quantity)
	assert.Equal(t, int64(900), drafts[1].Amount)
}

func TestNormalizeLines_SkipsBadQuantities(t *testing.T) {
	prices := stubPrices{"P00007": 250}

	drafts, err := normalizeLines(context.Background(), prices,
		[]string{"P00007", "P00007", "P00007", "P00007"},
		[]string{"-3", "0", "abc", "5"},
	)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	assert.Equal(t, int64(5), drafts[0].Quantity)
	assert.Equal(t, int64(1250), drafts[0].Amount)
}

func TestNormalizeLines_SkipsOverflowingQuantities(t *testing.T) {
	prices := stubPrices{"P00007": 250}

	// 9e18 x 250 wraps int64 into a negative amount; such a quantity
	// must fall out the same way a non-numeric one does.
	drafts, err := normalizeLines(context.Background(), prices,
		[]string{"P00007", "P00007"},
		[]string{"9000000000000000000", "2"},
	)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, int64(2), drafts[0].Quantity)
	assert.Equal(t, int64(500), drafts[0].Amount)

	_, err = normalizeLines(context.Background(), prices,
		[]string{"P00007"},
		[]string{"9000000000000000000"},
	)
	assert.ErrorIs(t, err, domain.ErrNoValidLineItems)
}

func TestNormalizeLines_SkipsUnknownProducts(t *testing.T) {
	prices := stubPrices{"P00001": 450}

	drafts, err := normalizeLines(context.Background(), prices,
		[]string{"MISSING", "P00001"},
		[]string{"2", "2"},
	)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "P00001", drafts[0].ProductCode)
}

func TestNormalizeLines_ZipsToShorterInput(t *testing.T) {
	prices := stubPrices{"P00001": 450, "P00002": 380}

	drafts, err := normalizeLines(context.Background(), prices,
		[]string{"P00001", "P00002"},
		[]string{"1"},
	)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "P00001", drafts[0].ProductCode)
}

func TestNormalizeLines_EmptyResultFails(t *testing.T) {
	prices := stubPrices{"P00001": 450}

	_, err := normalizeLines(context.Background(), prices,
		[]string{"P00001", "MISSING"},
		[]string{"0", "3"},
	)
	assert.ErrorIs(t, err, domain.ErrNoValidLineItems)

	_, err = normalizeLines(context.Background(), prices, nil, nil)
	assert.ErrorIs(t, err, domain.ErrNoValidLineItems)
}
