// Package pricing computes order totals. The computation is pure and
// side-effect-free so persisted totals can be re-derived from stored line
// items for auditing.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError marks input that must be rejected before any persistence
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Line is one (product, quantity, unit price) entry of an order
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals is the result of a full order computation
type Totals struct {
	LineTotals []decimal.Decimal
	Subtotal   decimal.Decimal
	VATAmount  decimal.Decimal
	Total      decimal.Decimal
}

// ComputeOrderTotals derives subtotal, VAT and total from line items.
// vatRate is a fraction (0.1 = 10%). The VAT amount is rounded to the nearest
// whole currency unit; that rounding policy is shared system-wide.
func ComputeOrderTotals(lines []Line, vatRate, shippingFee decimal.Decimal) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, &ValidationError{Field: "items", Reason: "order must contain at least one line item"}
	}
	if vatRate.IsNegative() || vatRate.GreaterThan(decimal.NewFromInt(1)) {
		return Totals{}, &ValidationError{Field: "vat_rate", Reason: "must be a fraction between 0 and 1"}
	}
	if shippingFee.IsNegative() {
		return Totals{}, &ValidationError{Field: "shipping_fee", Reason: "must not be negative"}
	}

	subtotal := decimal.Zero
	lineTotals := make([]decimal.Decimal, 0, len(lines))
	for i, line := range lines {
		if line.Quantity <= 0 {
			return Totals{}, &ValidationError{Field: "quantity", Reason: fmt.Sprintf("line %d: must be positive", i+1)}
		}
		if line.UnitPrice.IsNegative() {
			return Totals{}, &ValidationError{Field: "unit_price", Reason: fmt.Sprintf("line %d: must not be negative", i+1)}
		}
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		lineTotals = append(lineTotals, lineTotal)
		subtotal = subtotal.Add(lineTotal)
	}

	vatAmount := subtotal.Mul(vatRate).Round(0)

	return Totals{
		LineTotals: lineTotals,
		Subtotal:   subtotal,
		VATAmount:  vatAmount,
		Total:      subtotal.Add(vatAmount).Add(shippingFee),
	}, nil
}
