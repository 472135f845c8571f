package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// NearExpiryWindowDays is how many days before expiry an item is discounted.
	NearExpiryWindowDays = 3

	day = 24 * time.Hour
)

// DiscountRate is the price multiplier applied to near-expiry items.
var DiscountRate = decimal.RequireFromString("0.7")

// DaysUntilExpiry returns ceil((expiry - now) / 24h).
func DaysUntilExpiry(item InventoryItem, now time.Time) int {
	remaining := item.ExpiryDate.Sub(now)
	days := remaining / day
	if remaining%day > 0 {
		days++
	}
	return int(days)
}

// IsNearExpiryCandidate reports whether the sweep should discount item at now.
func IsNearExpiryCandidate(item InventoryItem, now time.Time) bool {
	if item.Status != StatusAvailable {
		return false
	}
	days := DaysUntilExpiry(item, now)
	return days >= 0 && days <= NearExpiryWindowDays
}

// DiscountedPrice applies DiscountRate and rounds to cents.
func DiscountedPrice(price decimal.Decimal) decimal.Decimal {
	return price.Mul(DiscountRate).Round(2)
}

// Evaluate returns the item as the sweep would leave it at now, and whether
// anything changed. The input is never modified. It is the reference for the
// repository's bulk MarkNearExpiry update, which must leave every row it
// touches equal to Evaluate's result.
func Evaluate(item InventoryItem, now time.Time) (InventoryItem, bool) {
	if !IsNearExpiryCandidate(item, now) {
		return item, false
	}

	next := item
	next.Status = StatusNearExpiry
	next.DiscountedPrice = decimal.NewNullDecimal(DiscountedPrice(item.Price))
	return next, true
}

// CandidateWindow returns the expiry range matched by IsNearExpiryCandidate
// for available items: 0 <= ceil(days) <= 3 holds exactly when
// now-24h < expiry <= now+72h.
func CandidateWindow(now time.Time) ExpiryWindow {
	return ExpiryWindow{
		After: now.Add(-day),
		Until: now.Add(NearExpiryWindowDays * day),
	}
}

// Contains reports whether t falls inside the window.
func (w ExpiryWindow) Contains(t time.Time) bool {
	return t.After(w.After) && !t.After(w.Until)
}
