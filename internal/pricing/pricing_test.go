package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeOrderTotals_Basic(t *testing.T) {
	lines := []Line{
		{Quantity: 2, UnitPrice: d("100000")},
	}

	totals, err := ComputeOrderTotals(lines, d("0.1"), d("20000"))
	require.NoError(t, err)

	require.True(t, totals.Subtotal.Equal(d("200000")), "subtotal = %s", totals.Subtotal)
	require.True(t, totals.VATAmount.Equal(d("20000")), "vat = %s", totals.VATAmount)
	require.True(t, totals.Total.Equal(d("240000")), "total = %s", totals.Total)
}

func TestComputeOrderTotals_MultipleLines(t *testing.T) {
	lines := []Line{
		{Quantity: 3, UnitPrice: d("15000")},
		{Quantity: 1, UnitPrice: d("99000")},
		{Quantity: 10, UnitPrice: d("2500")},
	}

	totals, err := ComputeOrderTotals(lines, d("0.08"), d("0"))
	require.NoError(t, err)

	require.Len(t, totals.LineTotals, 3)
	require.True(t, totals.LineTotals[0].Equal(d("45000")))
	require.True(t, totals.LineTotals[1].Equal(d("99000")))
	require.True(t, totals.LineTotals[2].Equal(d("25000")))

	// subtotal must equal the sum of recomputed line totals
	sum := decimal.Zero
	for _, lt := range totals.LineTotals {
		sum = sum.Add(lt)
	}
	require.True(t, totals.Subtotal.Equal(sum))

	// 169000 * 0.08 = 13520
	require.True(t, totals.VATAmount.Equal(d("13520")))
	require.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.VATAmount)))
}

func TestComputeOrderTotals_VATRounding(t *testing.T) {
	// 3 * 333 = 999; 999 * 0.1 = 99.9 -> rounds to 100
	lines := []Line{{Quantity: 3, UnitPrice: d("333")}}

	totals, err := ComputeOrderTotals(lines, d("0.1"), d("0"))
	require.NoError(t, err)
	require.True(t, totals.VATAmount.Equal(d("100")), "vat = %s", totals.VATAmount)
	require.True(t, totals.Total.Equal(d("1099")))
}

func TestComputeOrderTotals_TotalInvariant(t *testing.T) {
	lines := []Line{
		{Quantity: 7, UnitPrice: d("12345")},
		{Quantity: 2, UnitPrice: d("678.50")},
	}

	totals, err := ComputeOrderTotals(lines, d("0.05"), d("30000"))
	require.NoError(t, err)
	require.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.VATAmount).Add(d("30000"))))
}

func TestComputeOrderTotals_Rejections(t *testing.T) {
	valid := []Line{{Quantity: 1, UnitPrice: d("1000")}}

	cases := []struct {
		name        string
		lines       []Line
		vatRate     decimal.Decimal
		shippingFee decimal.Decimal
	}{
		{"empty items", nil, d("0.1"), d("0")},
		{"zero quantity", []Line{{Quantity: 0, UnitPrice: d("1000")}}, d("0.1"), d("0")},
		{"negative quantity", []Line{{Quantity: -2, UnitPrice: d("1000")}}, d("0.1"), d("0")},
		{"negative price", []Line{{Quantity: 1, UnitPrice: d("-5")}}, d("0.1"), d("0")},
		{"negative vat rate", valid, d("-0.1"), d("0")},
		{"vat rate above one", valid, d("1.5"), d("0")},
		{"negative shipping fee", valid, d("0.1"), d("-1")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeOrderTotals(tc.lines, tc.vatRate, tc.shippingFee)
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestComputeOrderTotals_ZeroPriceLineAllowed(t *testing.T) {
	// A free line (gift item) is valid; only negative prices are rejected
	lines := []Line{
		{Quantity: 1, UnitPrice: d("50000")},
		{Quantity: 1, UnitPrice: d("0")},
	}

	totals, err := ComputeOrderTotals(lines, d("0"), d("0"))
	require.NoError(t, err)
	require.True(t, totals.Subtotal.Equal(d("50000")))
	require.True(t, totals.VATAmount.IsZero())
}
