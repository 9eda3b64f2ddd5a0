// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/mixtide/pulse/internal/adapters/datastore"
	eventqueue "github.com/mixtide/pulse/internal/adapters/mq/queue"
	workerpool "github.com/mixtide/pulse/internal/adapters/mq/worker"
	"github.com/mixtide/pulse/internal/adapters/weeklycache"
	"github.com/mixtide/pulse/internal/domain/dedupe"
	"github.com/mixtide/pulse/internal/domain/feed"
	"github.com/mixtide/pulse/internal/domain/foryou"
	"github.com/mixtide/pulse/internal/domain/model"
	"github.com/mixtide/pulse/internal/domain/momentum"
	"github.com/mixtide/pulse/internal/domain/rights"
	"github.com/mixtide/pulse/internal/domain/scoreboard"
	"github.com/mixtide/pulse/internal/domain/signal"
	"github.com/mixtide/pulse/internal/domain/viralpack"
	"github.com/mixtide/pulse/pkg/logger"
	"github.com/mixtide/pulse/pkg/metrics"
)

// Ranking surface names used in logs and metrics.
const (
	surfaceFeed       = "feed"
	surfaceScoreboard = "scoreboard"
	surfacePack       = "viralpack"
	surfaceForYou     = "foryou"
)

// Service wires the stores, the ingest pipeline and the ranking surfaces.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      datastore.Store
	fallback   datastore.Store
	cache      weeklycache.Cache
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	workerCount  int
	queueSize    int
	dedupeSize   int
	eventWindow  time.Duration
	rightsPolicy rights.EmptyPoolPolicy
	clock        func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the primary datastore.
func WithStore(store datastore.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithFallbackStore sets the store used when the primary one fails a read.
func WithFallbackStore(store datastore.Store) Option {
	return func(s *Service) {
		s.fallback = store
	}
}

// WithWeeklyCache sets the weekly scoreboard/pack cache.
func WithWeeklyCache(cache weeklycache.Cache) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithWorkerCount sets the number of append workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithEventWindow bounds how far back the momentum feed reads events.
func WithEventWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.eventWindow = window
		}
	}
}

// WithRightsPolicy sets the empty-pool policy for rights gating.
func WithRightsPolicy(policy rights.EmptyPoolPolicy) Option {
	return func(s *Service) {
		s.rightsPolicy = policy
	}
}

// WithClock overrides the service clock. Used by tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cache:        weeklycache.NewNoop(),
		workerCount:  runtime.NumCPU() * 2,
		queueSize:    100000,
		dedupeSize:   50000,
		eventWindow:  14 * 24 * time.Hour,
		rightsPolicy: rights.FailOpen,
		clock:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting ranking service...")

	if s.store == nil {
		s.store = datastore.NewFixtureStore()
		s.logger.Info(ctx, "using fixture store")
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
		eventqueue.WithBufferSize(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s.store)
	s.workerPool.Start(ctx)

	if items, err := s.store.Items(ctx); err == nil {
		metrics.UpdateCatalogSize(len(items))
	}

	s.started = true
	s.logger.Info(ctx, "ranking service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping ranking service...")

	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.cache != nil {
		_ = s.cache.Close()
	}

	s.started = false
	s.logger.Info(ctx, "ranking service stopped")
}

// IngestEvent deduplicates and enqueues one engagement event. It reports
// whether the event was accepted (false means the queue rejected it) and
// whether it was recognized as a duplicate.
func (s *Service) IngestEvent(ctx context.Context, ev model.EngagementEvent) (accepted, duplicate bool) {
	metrics.RecordEventIngested()

	if ev.TS.IsZero() {
		ev.TS = s.clock()
	}

	if s.deduper.SeenAndRecord(ctx, ev.EventID) {
		metrics.RecordEventDuplicate()
		s.logger.Debug(ctx, "duplicate event skipped",
			logger.String("eventID", ev.EventID),
		)
		return true, true
	}

	if !s.eventQueue.Enqueue(ctx, ev) {
		// Enqueue failed; allow a retry of the same event id.
		s.deduper.Unrecord(ctx, ev.EventID)
		metrics.RecordEventDropped()
		s.logger.Warn(ctx, "event dropped, queue full",
			logger.String("eventID", ev.EventID),
		)
		return false, false
	}
	return true, false
}

// MomentumFeed assembles the ranked discovery feed.
func (s *Service) MomentumFeed(ctx context.Context, limit int) (feed.Result, error) {
	now := s.clock()
	start := time.Now()

	items, err := s.catalogItems(ctx, surfaceFeed)
	if err != nil {
		return feed.Result{}, err
	}

	since := now.Add(-s.eventWindow)
	events, err := s.store.EventsSince(ctx, since)
	if err != nil {
		s.logger.Warn(ctx, "event window read failed, ranking without signal",
			logger.Error(err),
		)
		events = nil
	}

	scores := signal.NewFeedAggregator().Aggregate(signal.Window(events, since))
	scored := momentum.Compute(items, now)
	result := feed.Assemble(scored, scores, limit)

	metrics.UpdateFeedHealth(result.Health.RisingCount, result.Health.SponsoredEligibleCount)
	metrics.RecordRankingLatency(surfaceFeed, float64(time.Since(start).Milliseconds()))
	return result, nil
}

// WeeklyScoreboard returns the creator leaderboard for the week containing
// now, serving the cached copy when one exists. The returned time is the
// week start the rows were computed for, so callers label rows and week
// consistently even under an overridden clock.
func (s *Service) WeeklyScoreboard(ctx context.Context) ([]scoreboard.Row, time.Time, error) {
	now := s.clock()
	start := time.Now()
	weekStart := model.WeekStart(now)

	if rows, err := s.cache.Scoreboard(ctx, weekStart); err == nil {
		metrics.RecordCacheHit("scoreboard")
		return rows, weekStart, nil
	} else if !errors.Is(err, weeklycache.ErrMiss) {
		s.logger.Warn(ctx, "scoreboard cache read failed", logger.Error(err))
	} else {
		metrics.RecordCacheMiss("scoreboard")
	}

	items, err := s.catalogItems(ctx, surfaceScoreboard)
	if err != nil {
		return nil, weekStart, err
	}
	creators, err := s.store.Creators(ctx)
	if err != nil {
		if s.fallback == nil {
			return nil, weekStart, err
		}
		creators, err = s.fallback.Creators(ctx)
		if err != nil {
			return nil, weekStart, err
		}
	}

	rows := scoreboard.Build(creators, momentum.Compute(items, now), now)

	if err := s.cache.PutScoreboard(ctx, weekStart, rows); err != nil {
		metrics.RecordCacheUpsertError("scoreboard")
		s.logger.Warn(ctx, "scoreboard cache write failed", logger.Error(err))
	}

	metrics.RecordRankingLatency(surfaceScoreboard, float64(time.Since(start).Milliseconds()))
	return rows, weekStart, nil
}

// WeeklyViralPack returns the promotable clip pack for the week containing
// now, serving the cached copy when one exists.
func (s *Service) WeeklyViralPack(ctx context.Context) (viralpack.Pack, error) {
	now := s.clock()
	start := time.Now()
	packID := "viral-pack-" + model.WeekLabel(now)

	if pack, err := s.cache.ViralPack(ctx, packID); err == nil {
		metrics.RecordCacheHit("viralpack")
		return pack, nil
	} else if !errors.Is(err, weeklycache.ErrMiss) {
		s.logger.Warn(ctx, "viral pack cache read failed", logger.Error(err))
	} else {
		metrics.RecordCacheMiss("viralpack")
	}

	items, err := s.catalogItems(ctx, surfacePack)
	if err != nil {
		return viralpack.Pack{}, err
	}

	pool := make([]rights.Candidate, 0, len(items))
	for _, it := range items {
		pool = append(pool, rights.Candidate{
			Item:       it,
			Assessment: s.assessRights(ctx, it.ID, now),
		})
	}

	pack := viralpack.Build(rights.Gate(pool, s.rightsPolicy), now)

	if err := s.cache.PutViralPack(ctx, pack); err != nil {
		metrics.RecordCacheUpsertError("viralpack")
		s.logger.Warn(ctx, "viral pack cache write failed", logger.Error(err))
	}

	metrics.RecordRankingLatency(surfacePack, float64(time.Since(start).Milliseconds()))
	return pack, nil
}

// ForYou ranks the catalog for one viewer from that viewer's event history.
func (s *Service) ForYou(ctx context.Context, viewerID string) ([]foryou.RankedItem, error) {
	start := time.Now()

	items, err := s.catalogItems(ctx, surfaceForYou)
	if err != nil {
		return nil, err
	}

	events, err := s.store.EventsForViewer(ctx, viewerID)
	if err != nil {
		s.logger.Warn(ctx, "viewer history read failed, ranking without signal",
			logger.String("viewerID", viewerID),
			logger.Error(err),
		)
		events = nil
	}

	ranked := foryou.Rank(items, events)
	metrics.RecordRankingLatency(surfaceForYou, float64(time.Since(start).Milliseconds()))
	return ranked, nil
}

// RightsAssessment returns the rights-risk assessment for one catalog item.
func (s *Service) RightsAssessment(ctx context.Context, itemID string) (rights.Assessment, error) {
	if _, err := s.store.Item(ctx, itemID); err != nil {
		return rights.Assessment{}, err
	}
	return s.assessRights(ctx, itemID, s.clock()), nil
}

// assessRights resolves the declared profile for an item, falling back to
// the deterministic profile when no declaration exists.
func (s *Service) assessRights(ctx context.Context, itemID string, now time.Time) rights.Assessment {
	profile, err := s.store.Profile(ctx, itemID)
	if err != nil {
		if !errors.Is(err, datastore.ErrNotFound) {
			s.logger.Warn(ctx, "rights profile read failed",
				logger.String("itemID", itemID),
				logger.Error(err),
			)
		}
		profile = rights.Profile{ItemID: itemID}
	}
	return rights.Assess(profile, now)
}

// catalogItems reads the catalog, degrading to the fallback store when the
// primary read fails.
func (s *Service) catalogItems(ctx context.Context, surface string) ([]model.CatalogItem, error) {
	items, err := s.store.Items(ctx)
	if err == nil {
		metrics.UpdateCatalogSize(len(items))
		return items, nil
	}
	if s.fallback == nil {
		return nil, err
	}

	metrics.RecordFixtureFallback(surface)
	s.logger.Warn(ctx, "catalog read failed, serving fallback data",
		logger.String("surface", surface),
		logger.Error(err),
	)
	items, ferr := s.fallback.Items(ctx)
	if ferr != nil {
		return nil, err
	}
	return items, nil
}

// Stats is a point-in-time snapshot of the ingest pipeline and catalog,
// served on /stats and read by the metrics updater. QueueLength,
// DedupeEntries, EventCount and CatalogSize stay zero until Start.
type Stats struct {
	Started       bool  `json:"started"`
	WorkerCount   int   `json:"workerCount"`
	QueueSize     int   `json:"queueSize"`
	DedupeSize    int   `json:"dedupeSize"`
	QueueLength   int   `json:"queueLength"`
	DedupeEntries int64 `json:"dedupeEntries"`
	EventCount    int64 `json:"eventCount"`
	CatalogSize   int   `json:"catalogSize"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := Stats{
		Started:     s.started,
		WorkerCount: s.workerCount,
		QueueSize:   s.queueSize,
		DedupeSize:  s.dedupeSize,
	}

	if s.started {
		stats.QueueLength = s.eventQueue.Len(ctx)
		stats.DedupeEntries = s.deduper.Size()

		if count, err := s.store.EventCount(ctx); err == nil {
			stats.EventCount = count
		}
		if items, err := s.store.Items(ctx); err == nil {
			stats.CatalogSize = len(items)
			metrics.UpdateCatalogSize(len(items))
		}
	}

	return stats
}
