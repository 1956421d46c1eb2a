package promotion

import "time"

// AcceptablePrice reports whether a submitted unit price is valid for a
// product: either the base price, or the price of a promotion current at
// now. The currently-active requirement applies on every order path; the
// store does not enforce promotion exclusivity, so the first match wins.
func AcceptablePrice(basePriceCents int64, promos []Promotion, priceCents int64, now time.Time) bool {
	if priceCents == basePriceCents {
		return true
	}
	for i := range promos {
		if promos[i].CurrentAt(now) && promos[i].PriceCents == priceCents {
			return true
		}
	}
	return false
}

// FilterCurrent returns the promotions current at now, preserving order.
func FilterCurrent(promos []Promotion, now time.Time) []Promotion {
	var current []Promotion
	for i := range promos {
		if promos[i].CurrentAt(now) {
			current = append(current, promos[i])
		}
	}
	return current
}
