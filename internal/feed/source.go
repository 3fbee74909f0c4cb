package feed

import (
	"context"
	"time"

	"github.com/pulsenet/feedserve/internal/models"
)

// Store collaborator interfaces. The feed core never talks to the
// database directly; internal/store implements these with indexed
// keyset queries, and tests substitute in-memory fakes.

// FollowSource resolves the set of author IDs a viewer follows.
type FollowSource interface {
	// FollowedAuthorIDs returns the authors viewerID follows. An
	// empty result is valid and common (new accounts).
	FollowedAuthorIDs(ctx context.Context, viewerID int64) ([]int64, error)
}

// PostSource fetches pages of posts in (created_at DESC, id DESC)
// order, resuming strictly after the given key. Both methods exclude
// soft-deleted posts unconditionally.
type PostSource interface {
	// PageByAuthors returns posts authored by authorIDs.
	PageByAuthors(ctx context.Context, authorIDs []int64, after *Key, limit int) ([]models.Post, error)

	// PublicPage returns platform-wide posts, excluding the given
	// authors and post IDs, and excluding private-visibility authors
	// other than the viewer.
	PublicPage(ctx context.Context, after *Key, limit int, excludeAuthorIDs, excludePostIDs []int64, viewerID int64) ([]models.Post, error)
}

// LikeSource answers bulk like-membership checks.
type LikeSource interface {
	// Membership returns the subset of postIDs liked by viewerID.
	Membership(ctx context.Context, viewerID int64, postIDs []int64) (map[int64]struct{}, error)
}

// BlockSource resolves the authors a viewer has blocked. The feed
// core consumes this as a pass-through exclusion filter.
type BlockSource interface {
	BlockedAuthorIDs(ctx context.Context, viewerID int64) ([]int64, error)
}

// AnonymousViewer marks an unauthenticated request.
const AnonymousViewer int64 = 0

// Item is a post as it appears in a composed feed page.
type Item struct {
	ID              int64     `json:"id"`
	AuthorID        int64     `json:"author_id"`
	Content         string    `json:"content"`
	Category        string    `json:"category,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	LikeCount       int64     `json:"like_count"`
	CommentCount    int64     `json:"comment_count"`
	IsLikedByViewer bool      `json:"is_liked_by_viewer"`
}

// Page is a composed feed page. Constructed fresh per request;
// never persisted.
type Page struct {
	Items      []Item `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// Request carries the validated feed parameters. Page-number requests
// are a compatibility shim translated into a keyset walk; clients
// presenting a cursor bypass the walk.
type Request struct {
	Page   int
	Limit  int
	Cursor string
}
