package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pulsenet/feedserve/internal/cache"
	"github.com/pulsenet/feedserve/pkg/config"
	"github.com/pulsenet/feedserve/pkg/logging"
	"github.com/pulsenet/feedserve/pkg/telemetry"
)

// CategoryCount is one entry in the top-categories ranking.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// WindowCounts are engagement figures over the trailing stats window.
type WindowCounts struct {
	Posts       int64
	Likes       int64
	Comments    int64
	ActiveUsers int64
}

// ViewerStats are per-viewer figures, computed fresh on every call.
type ViewerStats struct {
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
	PostCount      int64 `json:"post_count"`
}

// Snapshot is an atomically replaced aggregate result with bounded
// staleness. Global figures are viewer-independent; Viewer is filled
// per request and never cached.
type Snapshot struct {
	TotalPosts     int64           `json:"total_posts"`
	TotalUsers     int64           `json:"total_users"`
	PostsLast24h   int64           `json:"posts_last_24h"`
	ActiveUsers    int64           `json:"active_users"`
	EngagementRate float64         `json:"engagement_rate"`
	TopCategories  []CategoryCount `json:"top_categories"`
	GeneratedAt    time.Time       `json:"generated_at"`
	Viewer         *ViewerStats    `json:"viewer,omitempty"`
}

// Source answers the aggregate queries the snapshot is built from.
// Implemented by internal/db with indexed aggregate queries, never
// by iterating the post corpus in memory.
type Source interface {
	Totals(ctx context.Context) (posts, users int64, err error)
	WindowCounts(ctx context.Context, since time.Time) (WindowCounts, error)
	TopCategories(ctx context.Context, since time.Time, n int) ([]CategoryCount, error)
	ProfileCounters(ctx context.Context, viewerID int64) (*ViewerStats, error)
}

const snapshotCacheKey = "stats:snapshot"

// Aggregator maintains the cached stats snapshot. The snapshot is the
// only mutable shared state in the feed core: one writer at a time,
// readers may see the previous value.
type Aggregator struct {
	source Source
	cache  *cache.Cache
	logger *zap.Logger
	cfg    config.StatsConfig

	now func() time.Time

	mu         sync.Mutex
	snapshot   *Snapshot
	expires    time.Time
	refreshing bool
}

// NewAggregator creates a new stats aggregator
func NewAggregator(source Source, redisCache *cache.Cache, cfg config.StatsConfig) *Aggregator {
	return &Aggregator{
		source: source,
		cache:  redisCache,
		logger: logging.GetLogger().With(zap.String("component", "stats-aggregator")),
		cfg:    cfg,
		now:    time.Now,
	}
}

// Stats returns the current snapshot, refreshing it when the max age
// has passed. A refresh already in flight is not duplicated; the
// caller observes the prior snapshot. Refresh failures keep the
// previous snapshot in place and are logged, never surfaced — unless
// no snapshot has ever been built.
func (a *Aggregator) Stats(ctx context.Context, viewerID int64) (*Snapshot, error) {
	ctx, span := telemetry.StartSpan(ctx, "stats.get")
	defer span.End()

	snap := a.current(ctx)
	if snap == nil {
		return nil, fmt.Errorf("stats snapshot unavailable")
	}

	if viewerID != 0 {
		// Cheap single-row lookup; never cached across viewers.
		viewer, err := a.source.ProfileCounters(ctx, viewerID)
		if err != nil {
			a.logger.Warn("viewer stats lookup failed",
				zap.Int64("viewer_id", viewerID), zap.Error(err))
		} else {
			snap.Viewer = viewer
		}
	}

	return snap, nil
}

// current returns a copy of a fresh snapshot, triggering at most one
// recompute when the cached one has expired.
func (a *Aggregator) current(ctx context.Context) *Snapshot {
	a.mu.Lock()
	if a.snapshot != nil && a.now().Before(a.expires) {
		snap := *a.snapshot
		a.mu.Unlock()
		return &snap
	}
	if a.refreshing {
		// Recompute in progress elsewhere; serve what we have.
		var snap *Snapshot
		if a.snapshot != nil {
			cp := *a.snapshot
			snap = &cp
		}
		a.mu.Unlock()
		return snap
	}
	a.refreshing = true
	a.mu.Unlock()

	fresh, err := a.recompute(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.refreshing = false
	if err != nil {
		a.logger.Warn("stats recompute failed, serving previous snapshot", zap.Error(err))
	} else {
		a.snapshot = fresh
		a.expires = a.now().Add(a.cfg.SnapshotTTL)
	}
	if a.snapshot == nil {
		return nil
	}
	snap := *a.snapshot
	return &snap
}

// recompute builds a fresh snapshot under its own time budget: a slow
// refresh is abandoned rather than allowed to block readers.
func (a *Aggregator) recompute(ctx context.Context) (*Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.RefreshBudget)
	defer cancel()

	ctx, span := telemetry.StartSpan(ctx, "stats.recompute")
	defer span.End()

	// Another instance may have refreshed recently; adopt its
	// snapshot from the shared cache before querying the store.
	if a.cache != nil {
		var cached Snapshot
		if err := a.cache.GetJSON(snapshotCacheKey, &cached); err == nil {
			if a.now().Sub(cached.GeneratedAt) < a.cfg.SnapshotTTL {
				return &cached, nil
			}
		}
	}

	since := a.now().Add(-a.cfg.Window)

	totalPosts, totalUsers, err := a.source.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("totals query failed: %w", err)
	}

	window, err := a.source.WindowCounts(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("window counts query failed: %w", err)
	}

	top, err := a.source.TopCategories(ctx, since, a.cfg.TopCategories)
	if err != nil {
		return nil, fmt.Errorf("top categories query failed: %w", err)
	}

	snap := &Snapshot{
		TotalPosts:     totalPosts,
		TotalUsers:     totalUsers,
		PostsLast24h:   window.Posts,
		ActiveUsers:    window.ActiveUsers,
		EngagementRate: engagementRate(window),
		TopCategories:  top,
		GeneratedAt:    a.now(),
	}

	if a.cache != nil {
		if err := a.cache.SetJSON(snapshotCacheKey, snap, a.cfg.SnapshotTTL); err != nil && err != cache.ErrCacheDisabled {
			a.logger.Warn("failed to share stats snapshot", zap.Error(err))
		}
	}

	return snap, nil
}

// engagementRate is (likes + comments) / posts over the window. The
// divisor is floored at one so an empty window yields zero, not NaN.
func engagementRate(w WindowCounts) float64 {
	posts := w.Posts
	if posts < 1 {
		posts = 1
	}
	return float64(w.Likes+w.Comments) / float64(posts)
}
