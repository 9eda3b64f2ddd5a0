// Package rights computes rights-safety assessments and gates promotion
// pools on them.
package rights

import (
	"math"
	"strconv"
	"time"
)

// Status is the state of a rights declaration.
type Status string

// Declaration statuses.
const (
	StatusVerified Status = "verified"
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
)

// Mode is how the creator claims usage rights.
type Mode string

// Declaration modes.
const (
	ModeOwned      Mode = "owned"
	ModePrecleared Mode = "precleared"
	ModeLicensed   Mode = "licensed"
)

// Route is the promotion decision for an assessed item.
type Route string

// Assessment routes.
const (
	RouteAllow  Route = "allow"
	RouteReview Route = "review"
	RouteBlock  Route = "block"
)

// Scoring weights and thresholds.
const (
	weightVerified      = 54
	weightPending       = 26
	weightRejected      = 0
	weightOwned         = 20
	weightPrecleared    = 15
	weightLicensed      = 10
	fingerprintWeight   = 18
	activeLicenseBonus  = 12
	lapsedLicensePenalty = 24
	rejectedScoreCap    = 24
	blockThreshold      = 42
	allowThreshold      = 76
)

// Profile carries the raw rights inputs for one item. Zero values for
// Status/Mode and a non-positive FingerprintConfidence fall back to a
// deterministic profile derived from the item id, so unknown items still
// assess consistently across calls. A true zero confidence cannot be
// declared: 0 reads as undeclared, the same convention the catalog uses
// for a missing BPM.
type Profile struct {
	ItemID                string
	Status                Status
	Mode                  Mode
	FingerprintConfidence float64
	HasActiveLicense      *bool
	LicenseEndsAt         *time.Time
}

// Assessment is the derived rights-safety verdict.
type Assessment struct {
	ItemID                string
	Status                Status
	Mode                  Mode
	FingerprintConfidence float64
	HasActiveLicense      bool
	Score                 float64
	Route                 Route
	Reasons               []string
}

// Safe reports whether the item cleared for wider promotion.
func (a Assessment) Safe() bool {
	return a.Route == RouteAllow
}

// Assess computes the assessment for one profile at the given time.
func Assess(p Profile, now time.Time) Assessment {
	fb := fallbackProfile(p.ItemID)

	status := p.Status
	if status == "" {
		status = fb.Status
	}
	mode := p.Mode
	if mode == "" {
		mode = fb.Mode
	}
	confidence := p.FingerprintConfidence
	if confidence <= 0 {
		confidence = fb.FingerprintConfidence
	}
	confidence = clamp(confidence, 0, 1)

	active := false
	switch {
	case p.HasActiveLicense != nil:
		active = *p.HasActiveLicense
	case p.LicenseEndsAt != nil:
		active = p.LicenseEndsAt.After(now)
	default:
		active = mode != ModeLicensed
	}

	score := float64(statusWeight(status) + modeWeight(mode)) + math.Round(confidence*fingerprintWeight)
	if active {
		score += activeLicenseBonus
	}
	if mode == ModeLicensed && !active {
		score -= lapsedLicensePenalty
	}
	if status == StatusRejected {
		score = math.Min(score, rejectedScoreCap)
	}
	score = clamp(score, 0, 100)

	route := RouteReview
	switch {
	case status == StatusRejected || score < blockThreshold:
		route = RouteBlock
	case score >= allowThreshold:
		route = RouteAllow
	}

	return Assessment{
		ItemID:                p.ItemID,
		Status:                status,
		Mode:                  mode,
		FingerprintConfidence: confidence,
		HasActiveLicense:      active,
		Score:                 score,
		Route:                 route,
		Reasons:               reasons(status, mode, confidence, active),
	}
}

func statusWeight(s Status) int {
	switch s {
	case StatusVerified:
		return weightVerified
	case StatusRejected:
		return weightRejected
	default:
		return weightPending
	}
}

func modeWeight(m Mode) int {
	switch m {
	case ModeOwned:
		return weightOwned
	case ModePrecleared:
		return weightPrecleared
	default:
		return weightLicensed
	}
}

// fallbackProfile derives a stable profile from the item id's byte sum so
// items without stored rights data assess identically on every call.
func fallbackProfile(id string) Profile {
	seed := 0
	for _, r := range id {
		seed += int(r)
	}

	status := StatusPending
	if seed%3 == 0 {
		status = StatusVerified
	}

	mode := ModeLicensed
	switch {
	case seed%2 == 0:
		mode = ModePrecleared
	case seed%5 == 0:
		mode = ModeOwned
	}

	confidence := clamp(0.55+float64(seed%30)/100, 0.4, 0.92)
	active := mode != ModeLicensed || seed%4 != 0

	return Profile{
		ItemID:                id,
		Status:                status,
		Mode:                  mode,
		FingerprintConfidence: confidence,
		HasActiveLicense:      &active,
	}
}

func reasons(status Status, mode Mode, confidence float64, active bool) []string {
	out := make([]string, 0, 3)
	switch status {
	case StatusVerified:
		out = append(out, "rights declaration is verified")
	case StatusRejected:
		out = append(out, "rights declaration is rejected")
	default:
		out = append(out, "rights declaration is pending review")
	}
	out = append(out, "fingerprint confidence "+percent(confidence))
	switch mode {
	case ModeOwned:
		out = append(out, "creator claims full ownership")
	case ModePrecleared:
		out = append(out, "usage is precleared by rights workflow")
	default:
		if active {
			out = append(out, "active license window detected")
		} else {
			out = append(out, "no active license window")
		}
	}
	return out
}

func percent(v float64) string {
	return strconv.Itoa(int(math.Round(v*100))) + "%"
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
