// Package revshare holds the referral revenue-share accounting helpers.
// It shares the clamp-to-supported-range contract used across the engine's
// bounded scores.
package revshare

import "math"

// Revenue share bounds, in basis points.
const (
	DefaultRevShareBps = 1200
	MinRevShareBps     = 300
	MaxRevShareBps     = 3000

	bpsDenominator = 10000
)

// ClampRevShareBps rounds and clamps a basis-point value to the supported
// range. NaN falls back to the default.
func ClampRevShareBps(bps float64) int {
	if math.IsNaN(bps) {
		return DefaultRevShareBps
	}
	v := int(math.Round(bps))
	if v < MinRevShareBps {
		return MinRevShareBps
	}
	if v > MaxRevShareBps {
		return MaxRevShareBps
	}
	return v
}

// ComputeReferralRevenueShareCents returns the referrer's cut of a payment.
// Negative amounts are treated as zero.
func ComputeReferralRevenueShareCents(amountCents int, revShareBps float64) int {
	amount := amountCents
	if amount < 0 {
		amount = 0
	}
	bps := ClampRevShareBps(revShareBps)
	return int(math.Round(float64(amount) * float64(bps) / bpsDenominator))
}

// ShouldCountReferralConversion reports whether a billing webhook event
// counts as a referral conversion.
func ShouldCountReferralConversion(eventType string) bool {
	switch eventType {
	case "checkout.session.completed", "invoice.paid", "payment_intent.succeeded":
		return true
	default:
		return false
	}
}
