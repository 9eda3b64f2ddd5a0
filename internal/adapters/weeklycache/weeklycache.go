// Package weeklycache persists weekly scoreboard rows and viral pack
// clips so repeated reads within a week serve the stored result instead
// of recomputing it. Writes are idempotent upserts keyed by week.
package weeklycache

import (
	"context"
	"time"

	"github.com/mixtide/pulse/internal/domain/scoreboard"
	"github.com/mixtide/pulse/internal/domain/viralpack"
)

// ScoreboardCache stores one leaderboard per week.
type ScoreboardCache interface {
	// Scoreboard returns the cached rows for the week starting at
	// weekStart. Returns ErrMiss when the week has not been stored.
	Scoreboard(ctx context.Context, weekStart time.Time) ([]scoreboard.Row, error)
	// PutScoreboard stores rows for the week. Re-storing the same week
	// replaces existing rows per creator.
	PutScoreboard(ctx context.Context, weekStart time.Time, rows []scoreboard.Row) error
}

// ViralPackCache stores one clip pack per week, keyed by pack id.
type ViralPackCache interface {
	// ViralPack returns the cached pack. Returns ErrMiss when absent.
	ViralPack(ctx context.Context, packID string) (viralpack.Pack, error)
	// PutViralPack stores a pack. Re-storing the same pack id replaces
	// existing clips per slot.
	PutViralPack(ctx context.Context, pack viralpack.Pack) error
}

// Cache bundles both weekly caches behind one handle.
type Cache interface {
	ScoreboardCache
	ViralPackCache

	Close() error
}

// Noop is the cache used when weekly caching is disabled. Every read
// misses and every write is discarded.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) Scoreboard(context.Context, time.Time) ([]scoreboard.Row, error) {
	return nil, ErrMiss
}

func (Noop) PutScoreboard(context.Context, time.Time, []scoreboard.Row) error { return nil }

func (Noop) ViralPack(context.Context, string) (viralpack.Pack, error) {
	return viralpack.Pack{}, ErrMiss
}

func (Noop) PutViralPack(context.Context, viralpack.Pack) error { return nil }

func (Noop) Close() error { return nil }
