// Package datastore defines the catalog, event log and rights-profile
// stores backing the ranking surfaces, with a deterministic in-memory
// fixture variant and a SQLite-backed live variant.
package datastore

import (
	"context"
	"time"

	"github.com/mixtide/pulse/internal/domain/model"
	"github.com/mixtide/pulse/internal/domain/rights"
)

// Catalog provides read access to the mashup catalog.
type Catalog interface {
	// Items returns every catalog item.
	Items(ctx context.Context) ([]model.CatalogItem, error)
	// Item returns a single catalog item.
	// Returns ErrNotFound if the id is unknown.
	Item(ctx context.Context, id string) (model.CatalogItem, error)
	// Creators returns every known creator.
	Creators(ctx context.Context) ([]model.Creator, error)
}

// EventLog is the append-only engagement event record.
type EventLog interface {
	// Append records one engagement event. Appending an event id that is
	// already present is a no-op, not an error.
	Append(ctx context.Context, ev model.EngagementEvent) error
	// EventsSince returns all events with a timestamp at or after since.
	EventsSince(ctx context.Context, since time.Time) ([]model.EngagementEvent, error)
	// EventsForViewer returns all events emitted by one viewer.
	EventsForViewer(ctx context.Context, viewerID string) ([]model.EngagementEvent, error)
	// EventCount returns the total number of stored events.
	EventCount(ctx context.Context) (int64, error)
}

// RightsProfiles provides declared rights profiles by item id.
type RightsProfiles interface {
	// Profile returns the declared rights profile for an item.
	// Returns ErrNotFound when no declaration exists; callers fall back to
	// the deterministic assessment profile.
	Profile(ctx context.Context, itemID string) (rights.Profile, error)
}

// Store bundles the three stores behind a single handle.
type Store interface {
	Catalog
	EventLog
	RightsProfiles

	Close() error
}
