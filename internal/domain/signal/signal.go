// Package signal aggregates raw engagement events into per-item weighted
// signals. The aggregation is a pure fold: no state survives a call.
package signal

import (
	"time"

	"github.com/mixtide/pulse/internal/domain/model"
)

// Aggregator sums signed per-event weights by item id.
type Aggregator struct {
	weights       map[model.EventType]float64
	defaultWeight float64
	hasDefault    bool
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithWeights replaces the event weight table. The map is copied so later
// mutation by the caller cannot change aggregation results.
func WithWeights(weights map[model.EventType]float64) Option {
	return func(a *Aggregator) {
		a.weights = make(map[model.EventType]float64, len(weights))
		for t, w := range weights {
			a.weights[t] = w
		}
	}
}

// WithDefaultWeight sets a weight for known event types missing from the
// table. Without it, unweighted events are ignored.
func WithDefaultWeight(w float64) Option {
	return func(a *Aggregator) {
		a.defaultWeight = w
		a.hasDefault = true
	}
}

// NewFeedAggregator returns an aggregator with the momentum-feed weight
// table. Unweighted event types are ignored.
func NewFeedAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		weights: map[model.EventType]float64{
			model.EventImpression: 1,
			model.EventPlay:       3,
			model.EventOpen:       2,
			model.EventLike:       5,
			model.EventShare:      8,
			model.EventSkip:       -3,
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewViewerAggregator returns an aggregator with the personalization weight
// table: any known event type outside the table contributes 0.5.
func NewViewerAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		weights: map[model.EventType]float64{
			model.EventPlay:  2,
			model.EventOpen:  2,
			model.EventLike:  3,
			model.EventShare: 3,
			model.EventSkip:  -2,
		},
		defaultWeight: 0.5,
		hasDefault:    true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate sums weights per item id. Events without an item id are
// ignored; so are events whose type has no weight when no default is set.
// An empty input yields an empty, non-nil map.
func (a *Aggregator) Aggregate(events []model.EngagementEvent) map[string]float64 {
	out := make(map[string]float64)
	for _, e := range events {
		if e.ItemID == "" {
			continue
		}
		w, ok := a.weights[e.Type]
		if !ok {
			if !a.hasDefault {
				continue
			}
			w = a.defaultWeight
		}
		out[e.ItemID] += w
	}
	return out
}

// Window returns the subset of events at or after since. A zero since
// passes everything through.
func Window(events []model.EngagementEvent, since time.Time) []model.EngagementEvent {
	if since.IsZero() {
		return events
	}
	out := make([]model.EngagementEvent, 0, len(events))
	for _, e := range events {
		if !e.TS.Before(since) {
			out = append(out, e)
		}
	}
	return out
}
