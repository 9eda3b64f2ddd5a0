// Package model contains domain models passed between layers.
package model

import "time"

// EventType enumerates the engagement event kinds accepted by the engine.
type EventType string

// Engagement event kinds.
const (
	EventImpression EventType = "impression"
	EventPlay       EventType = "play"
	EventSkip       EventType = "skip"
	EventLike       EventType = "like"
	EventShare      EventType = "share"
	EventOpen       EventType = "open"
)

// KnownEventType reports whether t is one of the accepted event kinds.
func KnownEventType(t EventType) bool {
	switch t {
	case EventImpression, EventPlay, EventSkip, EventLike, EventShare, EventOpen:
		return true
	default:
		return false
	}
}

// CatalogItem is a published mashup as read from the catalog store.
// Read-only to this engine. BPM is 0 when the creator did not declare one.
type CatalogItem struct {
	ID               string
	Title            string
	Description      string
	CreatorID        string
	CreatorName      string
	Genre            string
	BPM              int
	CreatedAt        time.Time
	PlayCount        int
	LikeCount        int
	CommentCount     int
	SourceTrackCount int
	HasCover         bool
	AudioURL         string
}

// Creator is a catalog author with lifetime totals.
type Creator struct {
	ID          string
	DisplayName string
	TotalPlays  int
}

// EngagementEvent is one append-only row from the event log.
// ItemID may be empty for anonymous/contextual events; ViewerID may be
// empty for events not attributed to a signed-in viewer.
type EngagementEvent struct {
	EventID  string // unique id for idempotency
	ItemID   string
	ViewerID string
	Type     EventType
	TS       time.Time
}
