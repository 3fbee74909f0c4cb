package feed

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pulsenet/feedserve/internal/models"
	"github.com/pulsenet/feedserve/pkg/config"
	"github.com/pulsenet/feedserve/pkg/logging"
	"github.com/pulsenet/feedserve/pkg/telemetry"
)

// Composer assembles personalized feed pages: followed pool first,
// public-pool backfill for the remainder, engagement annotation last.
type Composer struct {
	follows   FollowSource
	posts     PostSource
	blocks    BlockSource
	annotator *Annotator
	logger    *zap.Logger
	cfg       config.FeedConfig
}

// NewComposer creates a new feed composer
func NewComposer(follows FollowSource, posts PostSource, likes LikeSource, blocks BlockSource, cfg config.FeedConfig) *Composer {
	return &Composer{
		follows:   follows,
		posts:     posts,
		blocks:    blocks,
		annotator: NewAnnotator(likes),
		logger:    logging.GetLogger().With(zap.String("component", "feed-composer")),
		cfg:       cfg,
	}
}

// ComposeFeed produces one feed page for the viewer. Composition is
// all-or-nothing: on error no partial page is returned.
func (c *Composer) ComposeFeed(ctx context.Context, viewerID int64, req Request) (*Page, error) {
	ctx, span := telemetry.StartSpan(ctx, "feed.compose")
	defer span.End()

	limit := req.Limit
	if limit <= 0 {
		limit = c.cfg.DefaultLimit
	}
	if limit > c.cfg.MaxLimit {
		limit = c.cfg.MaxLimit
	}

	cur, err := DecodeCursor(req.Cursor)
	if err != nil {
		return nil, err
	}

	authorIDs, blocked := c.resolveViewerGraph(ctx, viewerID)

	// Page-number requests are a compatibility shim: walk the keyset
	// forward to the equivalent cursor. Cursor clients skip this.
	if cur == nil && req.Page > 1 {
		for i := 1; i < req.Page; i++ {
			res, err := c.composeOnce(ctx, viewerID, authorIDs, blocked, cur, limit)
			if err != nil {
				return nil, err
			}
			cur = res.next
			if !res.hasMore {
				break
			}
		}
	}

	res, err := c.composeOnce(ctx, viewerID, authorIDs, blocked, cur, limit)
	if err != nil {
		return nil, err
	}

	items, err := c.annotator.Annotate(ctx, viewerID, res.posts)
	if err != nil {
		if KindOf(err) == 0 || KindOf(err) == KindStoreUnavailable {
			err = NewError(KindFeedUnavailable, "engagement annotation failed", err)
		}
		return nil, err
	}

	page := &Page{
		Items:   items,
		HasMore: res.hasMore,
	}
	if res.hasMore {
		page.NextCursor = res.next.Encode()
	}
	return page, nil
}

// composeResult is one un-annotated page plus its resume position.
type composeResult struct {
	posts   []models.Post
	next    *Cursor
	hasMore bool
}

// composeOnce assembles a single page from both pools starting at cur.
func (c *Composer) composeOnce(ctx context.Context, viewerID int64, authorIDs, blocked []int64, cur *Cursor, limit int) (composeResult, error) {
	var fKey, pKey *Key
	if cur != nil {
		fKey, pKey = cur.Followed, cur.Public
	}

	// Each pool's position is carried forward even when that pool
	// contributes nothing to this page.
	next := &Cursor{Followed: fKey, Public: pKey}

	followed := &followedFetcher{src: c.posts, authorIDs: authorIDs}
	fRes, err := fetchWithRetry(ctx, followed, fKey, limit, c.cfg.RetryBackoff)
	if err != nil {
		return composeResult{}, err
	}
	if fRes.Next != nil {
		next.Followed = fRes.Next
	}

	posts := fRes.Posts
	seen := make(map[int64]struct{}, len(posts))
	excludePosts := make([]int64, 0, len(posts))
	for _, p := range posts {
		seen[p.ID] = struct{}{}
		excludePosts = append(excludePosts, p.ID)
	}

	// The public pool excludes followed authors wholesale so that a
	// later page can never re-surface a post already served from the
	// followed pool.
	excludeAuthors := make([]int64, 0, len(authorIDs)+len(blocked))
	excludeAuthors = append(excludeAuthors, authorIDs...)
	excludeAuthors = append(excludeAuthors, blocked...)

	public := &publicFetcher{
		src:            c.posts,
		viewerID:       viewerID,
		excludeAuthors: excludeAuthors,
		excludePosts:   excludePosts,
	}

	remaining := limit - len(posts)
	hasMore := fRes.HasMore

	if remaining > 0 {
		pRes, err := fetchWithRetry(ctx, public, pKey, remaining, c.cfg.RetryBackoff)
		if err != nil {
			return composeResult{}, err
		}
		for _, p := range pRes.Posts {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			posts = append(posts, p)
		}
		if pRes.Next != nil {
			next.Public = pRes.Next
		}
		hasMore = fRes.HasMore || pRes.HasMore
	} else if !hasMore {
		// The followed pool ended exactly on the page boundary. Probe
		// the public pool so has_more stays truthful, without
		// advancing its position.
		probe, err := fetchWithRetry(ctx, public, pKey, 1, c.cfg.RetryBackoff)
		if err != nil {
			return composeResult{}, err
		}
		hasMore = len(probe.Posts) > 0
	}

	return composeResult{posts: posts, next: next, hasMore: hasMore}, nil
}

// resolveViewerGraph loads the viewer's followed and blocked author
// sets concurrently. Both are best-effort: a follow-graph failure
// downgrades the request to public-only content rather than failing
// a personalized feed outright.
func (c *Composer) resolveViewerGraph(ctx context.Context, viewerID int64) (authorIDs, blocked []int64) {
	if viewerID == AnonymousViewer {
		return nil, nil
	}

	var wg sync.WaitGroup
	var followErr, blockErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		authorIDs, followErr = c.follows.FollowedAuthorIDs(ctx, viewerID)
	}()
	go func() {
		defer wg.Done()
		blocked, blockErr = c.blocks.BlockedAuthorIDs(ctx, viewerID)
	}()
	wg.Wait()

	if followErr != nil {
		c.logger.Warn("follow graph unavailable, serving public-only feed",
			zap.Int64("viewer_id", viewerID),
			zap.Error(NewError(KindFollowGraphUnavailable, "follow lookup failed", followErr)))
		authorIDs = nil
	}
	if blockErr != nil {
		c.logger.Warn("block list unavailable, skipping block filter",
			zap.Int64("viewer_id", viewerID),
			zap.Error(blockErr))
		blocked = nil
	}
	return authorIDs, blocked
}
