// Package cost prices a court booking from a venue's hourly rates.
package cost

import (
	"strconv"

	"github.com/mauv0809/tennis-ledger/internal/tennis"
)

// Compute returns (base + lights + heating) * durationHours, rounded to two
// decimals and never negative. The base is the guest rate when isGuest is
// set and the venue has one, otherwise the member rate.
//
// ok is false when there is no venue or it has no member rate; the caller
// then keeps its own default.
func Compute(venue *tennis.Venue, durationHours float64, useLights, useHeating, isGuest bool) (amount float64, ok bool) {
	if venue == nil || venue.PriceMember <= 0 {
		return 0, false
	}

	hourly := venue.PriceMember
	if isGuest && venue.PriceGuest > 0 {
		hourly = venue.PriceGuest
	}
	if useLights {
		hourly += venue.PriceLight
	}
	if useHeating {
		hourly += venue.PriceHeating
	}

	return max(tennis.RoundMoney(hourly*durationHours), 0), true
}

// Format renders an amount with two decimals.
func Format(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
