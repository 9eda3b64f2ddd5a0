// Package momentum scores catalog items by engagement per day of age,
// surfacing rising content ahead of legacy popularity.
package momentum

import (
	"math"
	"sort"
	"time"

	"github.com/mixtide/pulse/internal/domain/model"
)

// Engagement weighting constants. Comments signal harder than likes; the
// same 2x/4x split is reused by the feed and quality formulas.
const (
	likeWeight    = 2
	commentWeight = 4
	minAgeDays    = 1.0
	hoursPerDay   = 24
)

// ScoredItem pairs a catalog item with its momentum score.
type ScoredItem struct {
	model.CatalogItem
	Score float64
}

// Compute scores every item and returns the result sorted descending by
// score. Age is measured in fractional days floored at one so same-day
// items cannot blow up the division.
func Compute(items []model.CatalogItem, now time.Time) []ScoredItem {
	out := make([]ScoredItem, len(items))
	for i, it := range items {
		out[i] = ScoredItem{CatalogItem: it, Score: Score(it, now)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Score computes the momentum score for a single item.
func Score(it model.CatalogItem, now time.Time) float64 {
	ageDays := math.Max(minAgeDays, now.Sub(it.CreatedAt).Hours()/hoursPerDay)
	engagement := float64(it.LikeCount*likeWeight + it.CommentCount*commentWeight)
	return (float64(it.PlayCount) + engagement) / ageDays
}
