package feed

import (
	"context"

	"github.com/pulsenet/feedserve/internal/models"
)

// Annotator attaches per-viewer engagement flags to a page of posts.
type Annotator struct {
	likes LikeSource
}

// NewAnnotator creates a new annotator
func NewAnnotator(likes LikeSource) *Annotator {
	return &Annotator{likes: likes}
}

// Annotate converts posts into feed items with the viewer's
// is_liked_by_viewer flags set. For an anonymous viewer every flag is
// false and no lookup is performed. One bulk membership check covers
// the whole page; never one lookup per post.
func (a *Annotator) Annotate(ctx context.Context, viewerID int64, posts []models.Post) ([]Item, error) {
	items := make([]Item, len(posts))
	for i, p := range posts {
		items[i] = Item{
			ID:           p.ID,
			AuthorID:     p.AuthorID,
			Content:      p.Content,
			Category:     p.Category,
			CreatedAt:    p.CreatedAt,
			LikeCount:    p.LikeCount,
			CommentCount: p.CommentCount,
		}
	}

	if viewerID == AnonymousViewer || len(posts) == 0 {
		return items, nil
	}

	postIDs := make([]int64, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	liked, err := a.likes.Membership(ctx, viewerID, postIDs)
	if err != nil {
		return nil, err
	}

	for i := range items {
		_, ok := liked[items[i].ID]
		items[i].IsLikedByViewer = ok
	}

	return items, nil
}
