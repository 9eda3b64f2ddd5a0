// Package foryou ranks the catalog for a single viewer from that viewer's
// event history. A strong positive signal on one item propagates to unseen
// items sharing genre tokens; raw play count acts as a floor for cold items.
package foryou

import (
	"sort"
	"strings"

	"github.com/mixtide/pulse/internal/domain/model"
	"github.com/mixtide/pulse/internal/domain/signal"
)

// Blend weights.
const (
	directWeight = 3
	genreWeight  = 0.8
	trendDivisor = 100000
)

// RankedItem is one catalog item with its personalization breakdown.
type RankedItem struct {
	model.CatalogItem
	Total        float64
	DirectSignal float64
	GenreScore   float64
	TrendScore   float64
}

// Rank scores every catalog item for the viewer whose events are given and
// returns the catalog sorted descending by total score.
func Rank(items []model.CatalogItem, events []model.EngagementEvent) []RankedItem {
	direct := signal.NewViewerAggregator().Aggregate(events)

	affinity := make(map[string]float64)
	for _, it := range items {
		d := direct[it.ID]
		if d <= 0 {
			continue
		}
		for _, token := range tokenizeGenre(it.Genre) {
			affinity[token] += d
		}
	}

	out := make([]RankedItem, len(items))
	for i, it := range items {
		d := direct[it.ID]
		genre := 0.0
		for _, token := range tokenizeGenre(it.Genre) {
			genre += affinity[token]
		}
		trend := float64(it.PlayCount) / trendDivisor
		out[i] = RankedItem{
			CatalogItem:  it,
			DirectSignal: d,
			GenreScore:   genre,
			TrendScore:   trend,
			Total:        d*directWeight + genre*genreWeight + trend,
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	return out
}

// tokenizeGenre lowercases a free-text genre and splits it on every
// non-alphanumeric rune, dropping empties.
func tokenizeGenre(genre string) []string {
	lower := strings.ToLower(genre)
	return strings.FieldsFunc(lower, func(r rune) bool {
		isDigit := r >= '0' && r <= '9'
		isAlpha := r >= 'a' && r <= 'z'
		return !isDigit && !isAlpha
	})
}
