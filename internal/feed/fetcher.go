package feed

import (
	"context"
	"time"

	"github.com/pulsenet/feedserve/internal/models"
)

// pageResult is one pool's contribution to a feed page.
type pageResult struct {
	Posts   []models.Post
	HasMore bool
	Next    *Key
}

// fetcher is the shared page-fetch contract of both pools.
type fetcher interface {
	fetchPage(ctx context.Context, after *Key, limit int) (pageResult, error)
}

// followedFetcher serves the followed pool: most recent posts by a
// fixed author set.
type followedFetcher struct {
	src       PostSource
	authorIDs []int64
}

func (f *followedFetcher) fetchPage(ctx context.Context, after *Key, limit int) (pageResult, error) {
	// An empty author set never reaches the store; it would be a
	// degenerate IN () query.
	if len(f.authorIDs) == 0 {
		return pageResult{}, nil
	}

	// Fetch one extra row to learn whether more remain.
	posts, err := f.src.PageByAuthors(ctx, f.authorIDs, after, limit+1)
	if err != nil {
		return pageResult{}, err
	}
	return trimPage(posts, limit), nil
}

// publicFetcher serves the public pool: platform-wide posts minus
// excluded authors (followed, blocked) and private-visibility authors
// other than the viewer.
type publicFetcher struct {
	src            PostSource
	viewerID       int64
	excludeAuthors []int64
	excludePosts   []int64
}

func (f *publicFetcher) fetchPage(ctx context.Context, after *Key, limit int) (pageResult, error) {
	posts, err := f.src.PublicPage(ctx, after, limit+1, f.excludeAuthors, f.excludePosts, f.viewerID)
	if err != nil {
		return pageResult{}, err
	}
	return trimPage(posts, limit), nil
}

// trimPage converts a limit+1 fetch into a page with a has-more flag
// and the keyset position of the last returned item.
func trimPage(posts []models.Post, limit int) pageResult {
	res := pageResult{Posts: posts}
	if len(posts) > limit {
		res.Posts = posts[:limit]
		res.HasMore = true
	}
	if n := len(res.Posts); n > 0 {
		last := res.Posts[n-1]
		res.Next = &Key{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return res
}

// fetchWithRetry runs one fetch, retrying a transient store failure
// once after a short backoff. A second failure is fatal for the
// request and surfaces as KindFeedUnavailable.
func fetchWithRetry(ctx context.Context, f fetcher, after *Key, limit int, backoff time.Duration) (pageResult, error) {
	res, err := f.fetchPage(ctx, after, limit)
	if err == nil {
		return res, nil
	}
	if KindOf(err) != KindStoreUnavailable {
		return pageResult{}, err
	}

	select {
	case <-time.After(backoff):
	case <-ctx.Done():
		return pageResult{}, ctx.Err()
	}

	res, err = f.fetchPage(ctx, after, limit)
	if err != nil {
		return pageResult{}, NewError(KindFeedUnavailable, "post fetch failed after retry", err)
	}
	return res, nil
}
