package datastore

import (
	"context"
	"sync"
	"time"

	"github.com/mixtide/pulse/internal/domain/model"
	"github.com/mixtide/pulse/internal/domain/rights"
)

// FixtureStore is the deterministic in-memory store used for demos and
// tests. The catalog and rights profiles are fixed; the event log accepts
// appends like the live store does.
type FixtureStore struct {
	mu      sync.RWMutex
	items   []model.CatalogItem
	byID    map[string]model.CatalogItem
	authors []model.Creator
	rights  map[string]rights.Profile
	events  []model.EngagementEvent
	seenEvt map[string]struct{}
}

// NewFixtureStore creates a store preloaded with the demo catalog.
func NewFixtureStore() *FixtureStore {
	items := fixtureItems()
	byID := make(map[string]model.CatalogItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return &FixtureStore{
		items:   items,
		byID:    byID,
		authors: fixtureCreators(),
		rights:  fixtureRightsProfiles(),
		seenEvt: make(map[string]struct{}),
	}
}

func (f *FixtureStore) Items(_ context.Context) ([]model.CatalogItem, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.CatalogItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *FixtureStore) Item(_ context.Context, id string) (model.CatalogItem, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	it, ok := f.byID[id]
	if !ok {
		return model.CatalogItem{}, ErrNotFound
	}
	return it, nil
}

func (f *FixtureStore) Creators(_ context.Context) ([]model.Creator, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.Creator, len(f.authors))
	copy(out, f.authors)
	return out, nil
}

func (f *FixtureStore) Append(_ context.Context, ev model.EngagementEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ev.EventID != "" {
		if _, ok := f.seenEvt[ev.EventID]; ok {
			return nil
		}
		f.seenEvt[ev.EventID] = struct{}{}
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *FixtureStore) EventsSince(_ context.Context, since time.Time) ([]model.EngagementEvent, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []model.EngagementEvent
	for _, ev := range f.events {
		if !ev.TS.Before(since) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *FixtureStore) EventsForViewer(_ context.Context, viewerID string) ([]model.EngagementEvent, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []model.EngagementEvent
	for _, ev := range f.events {
		if ev.ViewerID == viewerID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *FixtureStore) EventCount(_ context.Context) (int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return int64(len(f.events)), nil
}

func (f *FixtureStore) Profile(_ context.Context, itemID string) (rights.Profile, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.rights[itemID]
	if !ok {
		return rights.Profile{}, ErrNotFound
	}
	return p, nil
}

func (f *FixtureStore) Close() error { return nil }

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

func utc(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

// fixtureItems is the demo catalog. Play and like counts are deliberately
// spread across several orders of magnitude so every ranking surface has
// visible contrast.
func fixtureItems() []model.CatalogItem {
	return []model.CatalogItem{
		{
			ID:          "mash-001",
			Title:       "Midnight Groove x Electric Dreams",
			Description: "A late-night fusion blending silky R&B vocals with pulsing synthwave instrumentals. Best enjoyed with headphones after dark.",
			CreatorID:   "beatalchemy", CreatorName: "Beat Alchemy",
			Genre: "Synthwave", BPM: 118,
			CreatedAt: utc(2025, time.December, 15, 20, 30),
			PlayCount: 124500, LikeCount: 8920, CommentCount: 342,
			SourceTrackCount: 2, HasCover: true,
			AudioURL: "/audio/beat1.mp3",
		},
		{
			ID:          "mash-002",
			Title:       "Neon Beats Remix",
			Description: "High-energy dance floor banger that layers aggressive trap drums over a classic house anthem. Pure euphoria.",
			CreatorID:   "djfusion", CreatorName: "DJ Fusion",
			Genre: "Trap / House", BPM: 140,
			CreatedAt: utc(2026, time.January, 3, 14, 0),
			PlayCount: 489200, LikeCount: 31400, CommentCount: 1205,
			SourceTrackCount: 2, HasCover: true,
			AudioURL: "/audio/beat2.mp3",
		},
		{
			ID:          "mash-003",
			Title:       "Golden Hour Chill",
			Description: "Lo-fi hip-hop meets bossa nova guitar in this sunset-colored mashup. Perfect study companion or afternoon wind-down.",
			CreatorID:   "loopqueen", CreatorName: "Loop Queen",
			Genre: "Lo-fi / Bossa Nova", BPM: 85,
			CreatedAt: utc(2025, time.November, 22, 9, 15),
			PlayCount: 67800, LikeCount: 5100, CommentCount: 187,
			SourceTrackCount: 2, HasCover: true,
			AudioURL: "/audio/beat3.mp3",
		},
		{
			ID:          "mash-004",
			Title:       "Bass Cathedral",
			Description: "Dubstep meets orchestral in this cinematic collision. Wobble bass lines intertwined with sweeping string arrangements.",
			CreatorID:   "waveform_kid", CreatorName: "Waveform Kid",
			Genre: "Dubstep / Orchestral", BPM: 150,
			CreatedAt: utc(2026, time.January, 18, 17, 45),
			PlayCount: 203400, LikeCount: 14200, CommentCount: 623,
			SourceTrackCount: 2, HasCover: true,
			AudioURL: "/audio/beat4.mp3",
		},
		{
			ID:          "mash-005",
			Title:       "Funk Supernova",
			Description: "70s disco grooves collide with modern electronic production. Slap bass, talk box, and laser synths in perfect harmony.",
			CreatorID:   "beatalchemy", CreatorName: "Beat Alchemy",
			Genre: "Disco / Electronic", BPM: 122,
			CreatedAt: utc(2025, time.October, 30, 12, 0),
			PlayCount: 156700, LikeCount: 11800, CommentCount: 445,
			SourceTrackCount: 2, HasCover: true,
		},
		{
			ID:          "mash-006",
			Title:       "Tokyo Drift Phonk",
			Description: "Aggressive phonk cowbells layered over Japanese city pop melodies. The underground sound of neon-lit streets.",
			CreatorID:   "samplesurgeon", CreatorName: "Sample Surgeon",
			Genre: "Phonk / City Pop", BPM: 130,
			CreatedAt: utc(2026, time.February, 1, 22, 0),
			PlayCount: 312900, LikeCount: 22600, CommentCount: 891,
			SourceTrackCount: 2, HasCover: true,
		},
		{
			ID:          "mash-007",
			Title:       "Rainy Day Vocals",
			Description: "Intimate acoustic guitar paired with ambient rain textures and ethereal vocal chops. Pure introspection.",
			CreatorID:   "loopqueen", CreatorName: "Loop Queen",
			Genre: "Ambient / Acoustic", BPM: 72,
			CreatedAt: utc(2025, time.December, 28, 6, 30),
			PlayCount: 42100, LikeCount: 3800, CommentCount: 156,
			SourceTrackCount: 2, HasCover: true,
		},
		{
			ID:          "mash-008",
			Title:       "Pixel Party Anthem",
			Description: "Chiptune meets modern EDM in this retro-futuristic mashup. 8-bit arpeggios power a festival-ready drop.",
			CreatorID:   "glitchmob", CreatorName: "Glitch Mob",
			Genre: "Chiptune / EDM", BPM: 128,
			CreatedAt: utc(2026, time.January, 25, 15, 20),
			PlayCount: 95600, LikeCount: 7200, CommentCount: 298,
			SourceTrackCount: 2, HasCover: true,
		},
		{
			ID:          "mash-009",
			Title:       "NO BATIDÃO Phonk Remix",
			Description: "Brazilian phonk meets trap funk. Heavy 808s, cowbell rhythms, and that signature phonk atmosphere. Perfect for late-night drives and workout sessions.",
			CreatorID:   "funkphonk", CreatorName: "Funk Phonk",
			Genre: "Phonk / Funk", BPM: 140,
			CreatedAt: utc(2026, time.February, 10, 22, 0),
			PlayCount: 892000, LikeCount: 45600, CommentCount: 2103,
			SourceTrackCount: 2, HasCover: true,
			AudioURL: "/audio/no-batidao.mp3",
		},
	}
}

func fixtureCreators() []model.Creator {
	return []model.Creator{
		{ID: "beatalchemy", DisplayName: "Beat Alchemy", TotalPlays: 1820000},
		{ID: "djfusion", DisplayName: "DJ Fusion", TotalPlays: 4250000},
		{ID: "loopqueen", DisplayName: "Loop Queen", TotalPlays: 890000},
		{ID: "waveform_kid", DisplayName: "Waveform Kid", TotalPlays: 2100000},
		{ID: "funkphonk", DisplayName: "Funk Phonk", TotalPlays: 4100000},
		{ID: "samplesurgeon", DisplayName: "Sample Surgeon", TotalPlays: 3400000},
		{ID: "glitchmob", DisplayName: "Glitch Mob", TotalPlays: 720000},
	}
}

// fixtureRightsProfiles carries declared rights for mash-001 through
// mash-008. mash-009 has no declaration on purpose, exercising the
// deterministic fallback path.
func fixtureRightsProfiles() map[string]rights.Profile {
	return map[string]rights.Profile{
		"mash-001": {
			ItemID: "mash-001", Status: rights.StatusVerified, Mode: rights.ModeOwned,
			FingerprintConfidence: 0.96, HasActiveLicense: boolPtr(true),
		},
		"mash-002": {
			ItemID: "mash-002", Status: rights.StatusVerified, Mode: rights.ModePrecleared,
			FingerprintConfidence: 0.9, HasActiveLicense: boolPtr(true),
		},
		"mash-003": {
			ItemID: "mash-003", Status: rights.StatusPending, Mode: rights.ModeLicensed,
			FingerprintConfidence: 0.71, HasActiveLicense: boolPtr(true),
			LicenseEndsAt: timePtr(time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC)),
		},
		"mash-004": {
			ItemID: "mash-004", Status: rights.StatusPending, Mode: rights.ModeLicensed,
			FingerprintConfidence: 0.62, HasActiveLicense: boolPtr(false),
			LicenseEndsAt: timePtr(time.Date(2026, time.January, 31, 23, 59, 59, 0, time.UTC)),
		},
		"mash-005": {
			ItemID: "mash-005", Status: rights.StatusVerified, Mode: rights.ModeOwned,
			FingerprintConfidence: 0.84, HasActiveLicense: boolPtr(true),
		},
		"mash-006": {
			ItemID: "mash-006", Status: rights.StatusPending, Mode: rights.ModePrecleared,
			FingerprintConfidence: 0.58, HasActiveLicense: boolPtr(true),
		},
		"mash-007": {
			ItemID: "mash-007", Status: rights.StatusVerified, Mode: rights.ModeLicensed,
			FingerprintConfidence: 0.81, HasActiveLicense: boolPtr(true),
			LicenseEndsAt: timePtr(time.Date(2026, time.August, 1, 23, 59, 59, 0, time.UTC)),
		},
		"mash-008": {
			ItemID: "mash-008", Status: rights.StatusRejected, Mode: rights.ModeLicensed,
			FingerprintConfidence: 0.44, HasActiveLicense: boolPtr(false),
		},
	}
}
