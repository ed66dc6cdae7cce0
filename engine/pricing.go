/*
pricing.go - Discounted line-item pricing

PURPOSE:
  Computes the final price of a single billable line from its list price,
  quantity, and one or two stacked discount percentages. The same rule is
  used verbatim for office spaces, parking spaces, and add-on services;
  parking and service lines simply never carry a special discount.

THE RULE:
  price = round(listPrice * quantity * (1 - (discount + special)/100))

  - Discounts are SUMMED, not compounded, then applied once. This is
    intentional business policy, not an approximation.
  - The combined discount is clamped at 100%, so a price is never negative
    no matter what the two fields add up to.
  - Quantity zero or negative is treated as 1. A blank quantity on a draft
    line must never silently zero the line out.
  - Rounding is half away from zero to a whole currency unit.

SEE ALSO:
  - credits.go: Uses these prices for phase fees and deposits
  - derive.go: Applies pricing across a whole draft
*/
package engine

import "github.com/shopspring/decimal"

var (
	decimalOne     = decimal.NewFromInt(1)
	decimalHundred = decimal.NewFromInt(100)
)

// Price computes the discounted price of one line.
func Price(listPrice Money, quantity int, discountPct, specialDiscountPct float64) Money {
	if quantity < 1 {
		quantity = 1
	}

	totalDiscount := discountPct + specialDiscountPct
	if totalDiscount > 100 {
		totalDiscount = 100
	}

	multiplier := decimalOne.Sub(decimal.NewFromFloat(totalDiscount).Div(decimalHundred))
	price := decimal.NewFromInt(int64(listPrice)).
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(multiplier).
		Round(0)

	return Money(price.IntPart())
}

// Price computes the line's discounted price with both discounts applied.
func (l PricedLine) Price() Money {
	return Price(l.ListPrice, l.Quantity, l.DiscountPct, l.SpecialDiscountPct)
}

// ListTotal is the line's undiscounted price (list price times quantity).
// The continuous term is always billed at list price, so deposits and the
// "D" summary figure use this instead of Price.
func (l PricedLine) ListTotal() Money {
	qty := l.Quantity
	if qty < 1 {
		qty = 1
	}
	return l.ListPrice * Money(qty)
}

// SumPrices totals the discounted prices of a set of lines.
func SumPrices(lines []PricedLine) Money {
	var total Money
	for _, l := range lines {
		total += l.Price()
	}
	return total
}

// SumOfficePrices totals the discounted prices of office lines.
func SumOfficePrices(lines []OfficeLine) Money {
	var total Money
	for _, l := range lines {
		total += l.Price()
	}
	return total
}

// SumOfficeListPrices totals the undiscounted list prices of office lines.
func SumOfficeListPrices(lines []OfficeLine) Money {
	var total Money
	for _, l := range lines {
		total += l.ListTotal()
	}
	return total
}
