package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pulsenet/feedserve/internal/feed"
	"github.com/pulsenet/feedserve/pkg/config"
)

// viewerHeader carries the resolved viewer identity from the session
// collaborator upstream. Absence is a normal outcome, not an error.
const viewerHeader = "X-Viewer-ID"

// feedRequest enumerates the recognized feed parameters with defaults
// and bounds applied before the composer is invoked.
type feedRequest struct {
	ViewerID int64
	Page     int
	Limit    int
	Cursor   string
}

// parseFeedRequest validates query parameters. Out-of-range values
// are clamped to their bounds rather than rejected; only the cursor
// can fail a request, and that is decided by the composer.
func parseFeedRequest(c *gin.Context, cfg config.FeedConfig) feedRequest {
	req := feedRequest{
		ViewerID: resolveViewer(c),
		Page:     1,
		Limit:    cfg.DefaultLimit,
		Cursor:   c.Query("cursor"),
	}

	if p, err := strconv.Atoi(c.Query("page")); err == nil && p >= 1 {
		req.Page = p
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l >= 1 {
		req.Limit = l
	}
	if req.Limit > cfg.MaxLimit {
		req.Limit = cfg.MaxLimit
	}

	return req
}

// resolveViewer reads the viewer identity resolved upstream. A
// missing or malformed header is an anonymous viewer.
func resolveViewer(c *gin.Context) int64 {
	raw := c.GetHeader(viewerHeader)
	if raw == "" {
		return feed.AnonymousViewer
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return feed.AnonymousViewer
	}
	return id
}
