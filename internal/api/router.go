package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulsenet/feedserve/internal/cache"
	"github.com/pulsenet/feedserve/internal/db"
	"github.com/pulsenet/feedserve/internal/feed"
	"github.com/pulsenet/feedserve/internal/stats"
	"github.com/pulsenet/feedserve/pkg/config"
	"github.com/pulsenet/feedserve/pkg/logging"
	"github.com/pulsenet/feedserve/pkg/telemetry"
)

// Router sets up API routes
type Router struct {
	composer   *feed.Composer
	aggregator *stats.Aggregator
	db         *db.DB
	cache      *cache.Cache
	feedCfg    config.FeedConfig
	logger     *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, cfg *config.Config) *Router {
	repo := db.NewRepository(database.DB)

	composer := feed.NewComposer(
		db.NewFollowRepository(repo),
		db.NewPostRepository(repo),
		db.NewLikeRepository(repo),
		db.NewBlockRepository(repo),
		cfg.Feed,
	)
	aggregator := stats.NewAggregator(db.NewStatsRepository(repo), redisCache, cfg.Stats)

	return &Router{
		composer:   composer,
		aggregator: aggregator,
		db:         database,
		cache:      redisCache,
		feedCfg:    cfg.Feed,
		logger:     logging.GetLogger().With(zap.String("component", "api-router")),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	v1 := engine.Group("/v1")
	v1.GET("/feed", r.feedHandler)
	v1.GET("/feed/stats", r.statsHandler)
}

// feedHandler handles GET /v1/feed
func (r *Router) feedHandler(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "api.feed")
	defer span.End()

	// Every store access downstream inherits this deadline; an
	// abandoned request cancels in-flight store calls with it.
	ctx, cancel := context.WithTimeout(ctx, r.feedCfg.StoreTimeout)
	defer cancel()

	req := parseFeedRequest(c, r.feedCfg)

	page, err := r.composer.ComposeFeed(ctx, req.ViewerID, feed.Request{
		Page:   req.Page,
		Limit:  req.Limit,
		Cursor: req.Cursor,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// statsHandler handles GET /v1/feed/stats
func (r *Router) statsHandler(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "api.feed_stats")
	defer span.End()

	snapshot, err := r.aggregator.Stats(ctx, resolveViewer(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	status := "OK"
	checks := gin.H{}

	if err := r.db.Health(c.Request.Context()); err != nil {
		status = "DEGRADED"
		checks["database"] = err.Error()
	} else {
		checks["database"] = "up"
	}

	if r.cache != nil {
		if err := r.cache.Health(c.Request.Context()); err != nil {
			checks["cache"] = err.Error()
		} else {
			checks["cache"] = "up"
		}
	}

	code := http.StatusOK
	if status != "OK" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": "feedserve-api",
		"checks":  checks,
	})
}
