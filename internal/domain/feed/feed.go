// Package feed assembles the momentum feed: momentum-scored catalog items
// adjusted by recent engagement signal and enriched with publish quality.
package feed

import (
	"sort"

	"github.com/mixtide/pulse/internal/domain/momentum"
	"github.com/mixtide/pulse/internal/domain/quality"
)

// Feed boundary constants.
const (
	// EventBoost scales the windowed engagement signal into momentum units.
	EventBoost = 12
	// SponsorThreshold is the viral readiness floor for sponsored slots.
	SponsorThreshold = 65
	// DefaultLimit applies when the caller does not request a size.
	DefaultLimit = 8
	// MinLimit and MaxLimit bound the requested feed size.
	MinLimit = 1
	MaxLimit = 40
)

// Item is one ranked feed entry.
type Item struct {
	momentum.ScoredItem
	AdjustedScore     float64
	RecentEventScore  float64
	QualityScore      float64
	SponsoredEligible bool
}

// Health summarizes the assembled feed for the presentation layer.
type Health struct {
	RisingCount            int `json:"risingCount"`
	SponsoredEligibleCount int `json:"sponsoredEligibleCount"`
	QualityThreshold       int `json:"qualityThreshold"`
}

// Result is the assembled feed.
type Result struct {
	Items  []Item
	Health Health
}

// ClampLimit bounds a requested feed size to [MinLimit, MaxLimit].
// Non-positive values fall back to DefaultLimit.
func ClampLimit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	if n < MinLimit {
		return MinLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Assemble ranks momentum-scored items by their event-adjusted score,
// truncates to limit and computes feed health over the returned page.
// Items with no recent events keep their plain momentum score.
func Assemble(scored []momentum.ScoredItem, eventScores map[string]float64, limit int) Result {
	limit = ClampLimit(limit)

	items := make([]Item, len(scored))
	for i, s := range scored {
		recent := eventScores[s.ID]
		q := quality.Evaluate(quality.Input{
			BPM:              s.BPM,
			TitleLength:      len(s.Title),
			DescLength:       len(s.Description),
			SourceTrackCount: s.SourceTrackCount,
			HasCover:         s.HasCover,
		})
		items[i] = Item{
			ScoredItem:        s,
			AdjustedScore:     s.Score + recent*EventBoost,
			RecentEventScore:  recent,
			QualityScore:      q.ViralReadiness,
			SponsoredEligible: q.ViralReadiness >= SponsorThreshold,
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].AdjustedScore > items[j].AdjustedScore
	})
	if len(items) > limit {
		items = items[:limit]
	}

	sponsored := 0
	for _, it := range items {
		if it.SponsoredEligible {
			sponsored++
		}
	}

	return Result{
		Items: items,
		Health: Health{
			RisingCount:            len(items),
			SponsoredEligibleCount: sponsored,
			QualityThreshold:       SponsorThreshold,
		},
	}
}
