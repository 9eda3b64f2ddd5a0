package weeklycache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mixtide/pulse/internal/domain/scoreboard"
	"github.com/mixtide/pulse/internal/domain/viralpack"
	_ "modernc.org/sqlite"
)

// SQLiteCache stores weekly results in SQLite. Weeks are keyed by the
// week-start date string so the same week always hits the same rows
// regardless of the caller's time zone.
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) a weekly cache at path.
func OpenSQLite(path string) (*SQLiteCache, error) {
	connStr := path
	if path == ":memory:" {
		connStr = "file:weeklycache?mode=memory&cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache database: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	c := &SQLiteCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache tables: %w", err)
	}
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS weekly_scoreboard (
		week_start TEXT NOT NULL,
		creator_id TEXT NOT NULL,
		rank INTEGER NOT NULL,
		display_name TEXT NOT NULL,
		weekly_growth_rate REAL NOT NULL,
		momentum_lift REAL NOT NULL,
		weekly_posts INTEGER NOT NULL,
		weekly_plays INTEGER NOT NULL,
		score REAL NOT NULL,
		PRIMARY KEY (week_start, creator_id)
	);

	CREATE TABLE IF NOT EXISTS viral_packs (
		pack_id TEXT PRIMARY KEY,
		published_at DATETIME NOT NULL,
		publish_week TEXT NOT NULL,
		day TEXT NOT NULL,
		clip_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS viral_pack_clips (
		pack_id TEXT NOT NULL,
		clip_index INTEGER NOT NULL,
		clip_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		title TEXT NOT NULL,
		creator_name TEXT NOT NULL,
		structure TEXT NOT NULL,
		clip_start_sec INTEGER NOT NULL,
		clip_length_sec INTEGER NOT NULL,
		confidence REAL NOT NULL,
		rights_safe INTEGER NOT NULL,
		rights_score REAL NOT NULL,
		PRIMARY KEY (pack_id, clip_index)
	);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

func (c *SQLiteCache) Close() error { return c.db.Close() }

func weekKey(weekStart time.Time) string {
	return weekStart.UTC().Format("2006-01-02")
}

func (c *SQLiteCache) Scoreboard(ctx context.Context, weekStart time.Time) ([]scoreboard.Row, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT rank, creator_id, display_name, weekly_growth_rate, momentum_lift,
			weekly_posts, weekly_plays, score
		FROM weekly_scoreboard WHERE week_start = ? ORDER BY rank, creator_id`,
		weekKey(weekStart))
	if err != nil {
		return nil, fmt.Errorf("query scoreboard: %w", err)
	}
	defer rows.Close()

	var out []scoreboard.Row
	for rows.Next() {
		var r scoreboard.Row
		if err := rows.Scan(&r.Rank, &r.CreatorID, &r.DisplayName, &r.WeeklyGrowthRate,
			&r.MomentumLift, &r.WeeklyPosts, &r.WeeklyPlays, &r.Score); err != nil {
			return nil, fmt.Errorf("scan scoreboard row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrMiss
	}
	return out, nil
}

func (c *SQLiteCache) PutScoreboard(ctx context.Context, weekStart time.Time, rows []scoreboard.Row) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO weekly_scoreboard (week_start, creator_id, rank, display_name,
			weekly_growth_rate, momentum_lift, weekly_posts, weekly_plays, score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(week_start, creator_id) DO UPDATE SET
			rank = excluded.rank,
			display_name = excluded.display_name,
			weekly_growth_rate = excluded.weekly_growth_rate,
			momentum_lift = excluded.momentum_lift,
			weekly_posts = excluded.weekly_posts,
			weekly_plays = excluded.weekly_plays,
			score = excluded.score`)
	if err != nil {
		return fmt.Errorf("prepare scoreboard upsert: %w", err)
	}
	defer stmt.Close()

	key := weekKey(weekStart)
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, key, r.CreatorID, r.Rank, r.DisplayName,
			r.WeeklyGrowthRate, r.MomentumLift, r.WeeklyPosts, r.WeeklyPlays, r.Score); err != nil {
			return fmt.Errorf("upsert scoreboard row %s: %w", r.CreatorID, err)
		}
	}
	return tx.Commit()
}

func (c *SQLiteCache) ViralPack(ctx context.Context, packID string) (viralpack.Pack, error) {
	var pack viralpack.Pack
	err := c.db.QueryRowContext(ctx, `
		SELECT pack_id, published_at, publish_week, day, clip_count
		FROM viral_packs WHERE pack_id = ?`, packID).
		Scan(&pack.ID, &pack.PublishedAt, &pack.PublishWeek, &pack.Day, &pack.ClipCount)
	if errors.Is(err, sql.ErrNoRows) {
		return viralpack.Pack{}, ErrMiss
	}
	if err != nil {
		return viralpack.Pack{}, fmt.Errorf("query viral pack: %w", err)
	}
	pack.PublishedAt = pack.PublishedAt.UTC()

	rows, err := c.db.QueryContext(ctx, `
		SELECT clip_id, item_id, title, creator_name, structure, clip_start_sec,
			clip_length_sec, confidence, rights_safe, rights_score
		FROM viral_pack_clips WHERE pack_id = ? ORDER BY clip_index`, packID)
	if err != nil {
		return viralpack.Pack{}, fmt.Errorf("query pack clips: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			clip      viralpack.Clip
			structure string
			safe      int
		)
		if err := rows.Scan(&clip.ID, &clip.ItemID, &clip.Title, &clip.CreatorName,
			&structure, &clip.ClipStartSec, &clip.ClipLengthSec, &clip.Confidence,
			&safe, &clip.RightsScore); err != nil {
			return viralpack.Pack{}, fmt.Errorf("scan pack clip: %w", err)
		}
		clip.Structure = viralpack.HookStructure(structure)
		clip.RightsSafe = safe != 0
		pack.Clips = append(pack.Clips, clip)
	}
	if err := rows.Err(); err != nil {
		return viralpack.Pack{}, err
	}
	return pack, nil
}

func (c *SQLiteCache) PutViralPack(ctx context.Context, pack viralpack.Pack) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO viral_packs (pack_id, published_at, publish_week, day, clip_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(pack_id) DO UPDATE SET
			published_at = excluded.published_at,
			publish_week = excluded.publish_week,
			day = excluded.day,
			clip_count = excluded.clip_count`,
		pack.ID, pack.PublishedAt.UTC(), pack.PublishWeek, pack.Day, pack.ClipCount,
	); err != nil {
		return fmt.Errorf("upsert viral pack %s: %w", pack.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO viral_pack_clips (pack_id, clip_index, clip_id, item_id, title,
			creator_name, structure, clip_start_sec, clip_length_sec, confidence,
			rights_safe, rights_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(pack_id, clip_index) DO UPDATE SET
			clip_id = excluded.clip_id,
			item_id = excluded.item_id,
			title = excluded.title,
			creator_name = excluded.creator_name,
			structure = excluded.structure,
			clip_start_sec = excluded.clip_start_sec,
			clip_length_sec = excluded.clip_length_sec,
			confidence = excluded.confidence,
			rights_safe = excluded.rights_safe,
			rights_score = excluded.rights_score`)
	if err != nil {
		return fmt.Errorf("prepare clip upsert: %w", err)
	}
	defer stmt.Close()

	for i, clip := range pack.Clips {
		safe := 0
		if clip.RightsSafe {
			safe = 1
		}
		if _, err := stmt.ExecContext(ctx, pack.ID, i, clip.ID, clip.ItemID, clip.Title,
			clip.CreatorName, string(clip.Structure), clip.ClipStartSec, clip.ClipLengthSec,
			clip.Confidence, safe, clip.RightsScore); err != nil {
			return fmt.Errorf("upsert clip %d of %s: %w", i, pack.ID, err)
		}
	}

	// Drop stale clip slots left behind by a smaller re-publish.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM viral_pack_clips WHERE pack_id = ? AND clip_index >= ?",
		pack.ID, len(pack.Clips)); err != nil {
		return fmt.Errorf("trim clips of %s: %w", pack.ID, err)
	}

	return tx.Commit()
}
