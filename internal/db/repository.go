package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pulsenet/feedserve/internal/feed"
	"github.com/pulsenet/feedserve/internal/models"
	"github.com/pulsenet/feedserve/internal/stats"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// storeErr tags a transient store failure for the fetcher-boundary
// retry; not-found is never an error at this layer.
func storeErr(message string, err error) error {
	return feed.NewError(feed.KindStoreUnavailable, message, err)
}

// FollowRepository reads the follow graph. Implements feed.FollowSource.
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// FollowedAuthorIDs returns the authors the viewer follows.
func (r *FollowRepository) FollowedAuthorIDs(ctx context.Context, viewerID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", viewerID).
		Pluck("followee_id", &ids).Error; err != nil {
		return nil, storeErr("followed authors query failed", err)
	}
	return ids, nil
}

// BlockRepository reads block edges. Implements feed.BlockSource.
type BlockRepository struct {
	*Repository
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(repo *Repository) *BlockRepository {
	return &BlockRepository{Repository: repo}
}

// BlockedAuthorIDs returns the authors the viewer has blocked.
func (r *BlockRepository) BlockedAuthorIDs(ctx context.Context, viewerID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("blocker_id = ?", viewerID).
		Pluck("blocked_id", &ids).Error; err != nil {
		return nil, storeErr("blocked authors query failed", err)
	}
	return ids, nil
}

// PostRepository serves keyset post pages. Implements feed.PostSource.
// Both queries lean on the (author_id, created_at) and (created_at)
// indexes; the row-value comparison keeps the seek a range scan.
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// PageByAuthors returns the followed pool: most recent non-deleted
// posts by the given authors, strictly after the keyset position.
func (r *PostRepository) PageByAuthors(ctx context.Context, authorIDs []int64, after *feed.Key, limit int) ([]models.Post, error) {
	query := r.db.WithContext(ctx).
		Where("author_id IN ?", authorIDs).
		Where("is_deleted = ?", false)

	if after != nil {
		query = query.Where("(created_at, id) < (?, ?)", after.CreatedAt, after.ID)
	}

	var posts []models.Post
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, storeErr("followed pool query failed", err)
	}
	return posts, nil
}

// PublicPage returns the public pool: platform-wide non-deleted posts
// by public-visibility authors (or the viewer's own), minus excluded
// authors and posts, strictly after the keyset position.
func (r *PostRepository) PublicPage(ctx context.Context, after *feed.Key, limit int, excludeAuthorIDs, excludePostIDs []int64, viewerID int64) ([]models.Post, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Joins("JOIN profiles ON profiles.id = posts.author_id").
		Where("posts.is_deleted = ?", false).
		Where("(profiles.visibility = ? OR posts.author_id = ?)", models.VisibilityPublic, viewerID)

	if len(excludeAuthorIDs) > 0 {
		query = query.Where("posts.author_id NOT IN ?", excludeAuthorIDs)
	}
	if len(excludePostIDs) > 0 {
		query = query.Where("posts.id NOT IN ?", excludePostIDs)
	}
	if after != nil {
		query = query.Where("(posts.created_at, posts.id) < (?, ?)", after.CreatedAt, after.ID)
	}

	var posts []models.Post
	if err := query.
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, storeErr("public pool query failed", err)
	}
	return posts, nil
}

// LikeRepository answers like-membership checks. Implements feed.LikeSource.
type LikeRepository struct {
	*Repository
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(repo *Repository) *LikeRepository {
	return &LikeRepository{Repository: repo}
}

// Membership returns the subset of postIDs the viewer has liked, in
// one bulk query for the whole page.
func (r *LikeRepository) Membership(ctx context.Context, viewerID int64, postIDs []int64) (map[int64]struct{}, error) {
	liked := make(map[int64]struct{}, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", viewerID, postIDs).
		Pluck("post_id", &ids).Error; err != nil {
		return nil, storeErr("like membership query failed", err)
	}

	for _, id := range ids {
		liked[id] = struct{}{}
	}
	return liked, nil
}

// StatsRepository serves the aggregate queries behind the stats
// snapshot. Implements stats.Source.
type StatsRepository struct {
	*Repository
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(repo *Repository) *StatsRepository {
	return &StatsRepository{Repository: repo}
}

// Totals returns platform-wide post and user counts.
func (r *StatsRepository) Totals(ctx context.Context) (int64, int64, error) {
	var posts, users int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("is_deleted = ?", false).
		Count(&posts).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Count(&users).Error; err != nil {
		return 0, 0, err
	}
	return posts, users, nil
}

// WindowCounts returns engagement counts over the trailing window.
func (r *StatsRepository) WindowCounts(ctx context.Context, since time.Time) (stats.WindowCounts, error) {
	var w stats.WindowCounts

	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("is_deleted = ? AND created_at >= ?", false, since).
		Count(&w.Posts).Error; err != nil {
		return stats.WindowCounts{}, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("created_at >= ?", since).
		Count(&w.Likes).Error; err != nil {
		return stats.WindowCounts{}, err
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("created_at >= ?", since).
		Count(&w.Comments).Error; err != nil {
		return stats.WindowCounts{}, err
	}

	var active struct {
		Count int64 `gorm:"column:count"`
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("COUNT(DISTINCT author_id) AS count").
		Where("is_deleted = ? AND created_at >= ?", false, since).
		Scan(&active).Error; err != nil {
		return stats.WindowCounts{}, err
	}
	w.ActiveUsers = active.Count

	return w, nil
}

// TopCategories returns the n most-posted categories in the window.
func (r *StatsRepository) TopCategories(ctx context.Context, since time.Time, n int) ([]stats.CategoryCount, error) {
	var rows []stats.CategoryCount
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("category, COUNT(*) AS count").
		Where("is_deleted = ? AND created_at >= ? AND category <> ''", false, since).
		Group("category").
		Order("count DESC, category ASC").
		Limit(n).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ProfileCounters returns the viewer's denormalized counters; a
// single-row lookup, computed fresh per call.
func (r *StatsRepository) ProfileCounters(ctx context.Context, viewerID int64) (*stats.ViewerStats, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, viewerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stats.ViewerStats{
		FollowerCount:  profile.FollowerCount,
		FollowingCount: profile.FollowingCount,
		PostCount:      profile.PostCount,
	}, nil
}
