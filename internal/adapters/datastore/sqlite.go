package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mixtide/pulse/internal/domain/model"
	"github.com/mixtide/pulse/internal/domain/rights"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the live store. WAL mode is enabled for file-based
// databases; :memory: runs on a single shared-cache connection so every
// query sees the same database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) a SQLite-backed store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	connStr := path
	if path == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS catalog_items (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		creator_id TEXT NOT NULL,
		creator_name TEXT NOT NULL,
		genre TEXT,
		bpm INTEGER DEFAULT 0,
		created_at DATETIME NOT NULL,
		play_count INTEGER DEFAULT 0,
		like_count INTEGER DEFAULT 0,
		comment_count INTEGER DEFAULT 0,
		source_track_count INTEGER DEFAULT 0,
		has_cover INTEGER DEFAULT 0,
		audio_url TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_items_creator ON catalog_items(creator_id);
	CREATE INDEX IF NOT EXISTS idx_items_created ON catalog_items(created_at DESC);

	CREATE TABLE IF NOT EXISTS creators (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		total_plays INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS engagement_events (
		event_id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL,
		viewer_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		ts DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_ts ON engagement_events(ts DESC);
	CREATE INDEX IF NOT EXISTS idx_events_viewer ON engagement_events(viewer_id);

	CREATE TABLE IF NOT EXISTS rights_profiles (
		item_id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		mode TEXT NOT NULL,
		fingerprint_confidence REAL DEFAULT 0,
		has_active_license INTEGER,
		license_ends_at DATETIME
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

const itemColumns = `id, title, description, creator_id, creator_name, genre, bpm,
	created_at, play_count, like_count, comment_count, source_track_count, has_cover, audio_url`

func (s *SQLiteStore) Items(ctx context.Context) ([]model.CatalogItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM catalog_items ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []model.CatalogItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) Item(ctx context.Context, id string) (model.CatalogItem, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM catalog_items WHERE id = ?", id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CatalogItem{}, ErrNotFound
	}
	if err != nil {
		return model.CatalogItem{}, fmt.Errorf("query item: %w", err)
	}
	return it, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(r rowScanner) (model.CatalogItem, error) {
	var it model.CatalogItem
	var hasCover int
	err := r.Scan(
		&it.ID, &it.Title, &it.Description, &it.CreatorID, &it.CreatorName,
		&it.Genre, &it.BPM, &it.CreatedAt, &it.PlayCount, &it.LikeCount,
		&it.CommentCount, &it.SourceTrackCount, &hasCover, &it.AudioURL,
	)
	it.HasCover = hasCover != 0
	return it, err
}

func (s *SQLiteStore) Creators(ctx context.Context) ([]model.Creator, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, display_name, total_plays FROM creators ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query creators: %w", err)
	}
	defer rows.Close()

	var creators []model.Creator
	for rows.Next() {
		var c model.Creator
		if err := rows.Scan(&c.ID, &c.DisplayName, &c.TotalPlays); err != nil {
			return nil, fmt.Errorf("scan creator: %w", err)
		}
		creators = append(creators, c)
	}
	return creators, rows.Err()
}

func (s *SQLiteStore) Append(ctx context.Context, ev model.EngagementEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO engagement_events (event_id, item_id, viewer_id, event_type, ts)
		VALUES (?, ?, ?, ?, ?)`,
		ev.EventID, ev.ItemID, ev.ViewerID, string(ev.Type), ev.TS.UTC())
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (s *SQLiteStore) EventsSince(ctx context.Context, since time.Time) ([]model.EngagementEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, item_id, viewer_id, event_type, ts
		FROM engagement_events WHERE ts >= ? ORDER BY ts`,
		since.UTC())
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (s *SQLiteStore) EventsForViewer(ctx context.Context, viewerID string) ([]model.EngagementEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, item_id, viewer_id, event_type, ts
		FROM engagement_events WHERE viewer_id = ? ORDER BY ts`,
		viewerID)
	if err != nil {
		return nil, fmt.Errorf("query viewer events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]model.EngagementEvent, error) {
	var events []model.EngagementEvent
	for rows.Next() {
		var ev model.EngagementEvent
		var evType string
		if err := rows.Scan(&ev.EventID, &ev.ItemID, &ev.ViewerID, &evType, &ev.TS); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Type = model.EventType(evType)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *SQLiteStore) EventCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM engagement_events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) Profile(ctx context.Context, itemID string) (rights.Profile, error) {
	var (
		p       rights.Profile
		status  string
		mode    string
		license sql.NullBool
		endsAt  sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT item_id, status, mode, fingerprint_confidence, has_active_license, license_ends_at
		FROM rights_profiles WHERE item_id = ?`, itemID).
		Scan(&p.ItemID, &status, &mode, &p.FingerprintConfidence, &license, &endsAt)
	if errors.Is(err, sql.ErrNoRows) {
		return rights.Profile{}, ErrNotFound
	}
	if err != nil {
		return rights.Profile{}, fmt.Errorf("query rights profile: %w", err)
	}
	p.Status = rights.Status(status)
	p.Mode = rights.Mode(mode)
	if license.Valid {
		p.HasActiveLicense = &license.Bool
	}
	if endsAt.Valid {
		p.LicenseEndsAt = &endsAt.Time
	}
	return p, nil
}

// UpsertItems writes catalog items, replacing counters and metadata for
// ids already present.
func (s *SQLiteStore) UpsertItems(ctx context.Context, items []model.CatalogItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			genre = excluded.genre,
			bpm = excluded.bpm,
			play_count = excluded.play_count,
			like_count = excluded.like_count,
			comment_count = excluded.comment_count,
			source_track_count = excluded.source_track_count,
			has_cover = excluded.has_cover,
			audio_url = excluded.audio_url`)
	if err != nil {
		return fmt.Errorf("prepare item upsert: %w", err)
	}
	defer stmt.Close()

	for _, it := range items {
		hasCover := 0
		if it.HasCover {
			hasCover = 1
		}
		if _, err := stmt.ExecContext(ctx,
			it.ID, it.Title, it.Description, it.CreatorID, it.CreatorName,
			it.Genre, it.BPM, it.CreatedAt.UTC(), it.PlayCount, it.LikeCount,
			it.CommentCount, it.SourceTrackCount, hasCover, it.AudioURL,
		); err != nil {
			return fmt.Errorf("upsert item %s: %w", it.ID, err)
		}
	}
	return tx.Commit()
}

// UpsertCreators writes creators, replacing display name and play totals
// for ids already present.
func (s *SQLiteStore) UpsertCreators(ctx context.Context, creators []model.Creator) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, c := range creators {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO creators (id, display_name, total_plays)
			VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				display_name = excluded.display_name,
				total_plays = excluded.total_plays`,
			c.ID, c.DisplayName, c.TotalPlays,
		); err != nil {
			return fmt.Errorf("upsert creator %s: %w", c.ID, err)
		}
	}
	return tx.Commit()
}

// UpsertRightsProfiles writes declared rights profiles.
func (s *SQLiteStore) UpsertRightsProfiles(ctx context.Context, profiles []rights.Profile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, p := range profiles {
		var license sql.NullBool
		if p.HasActiveLicense != nil {
			license = sql.NullBool{Bool: *p.HasActiveLicense, Valid: true}
		}
		var endsAt sql.NullTime
		if p.LicenseEndsAt != nil {
			endsAt = sql.NullTime{Time: p.LicenseEndsAt.UTC(), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rights_profiles (item_id, status, mode, fingerprint_confidence, has_active_license, license_ends_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(item_id) DO UPDATE SET
				status = excluded.status,
				mode = excluded.mode,
				fingerprint_confidence = excluded.fingerprint_confidence,
				has_active_license = excluded.has_active_license,
				license_ends_at = excluded.license_ends_at`,
			p.ItemID, string(p.Status), string(p.Mode), p.FingerprintConfidence, license, endsAt,
		); err != nil {
			return fmt.Errorf("upsert rights profile %s: %w", p.ItemID, err)
		}
	}
	return tx.Commit()
}

// SeedFixture loads the demo catalog, creators and rights profiles into
// the live store. Used by first-run setup and tests.
func (s *SQLiteStore) SeedFixture(ctx context.Context) error {
	if err := s.UpsertItems(ctx, fixtureItems()); err != nil {
		return err
	}
	if err := s.UpsertCreators(ctx, fixtureCreators()); err != nil {
		return err
	}
	profiles := fixtureRightsProfiles()
	ordered := make([]rights.Profile, 0, len(profiles))
	for _, id := range []string{"mash-001", "mash-002", "mash-003", "mash-004", "mash-005", "mash-006", "mash-007", "mash-008"} {
		ordered = append(ordered, profiles[id])
	}
	return s.UpsertRightsProfiles(ctx, ordered)
}
