package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulsenet/feedserve/internal/feed"
	"github.com/pulsenet/feedserve/pkg/logging"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// abortWithError is the single error-translation boundary: feed error
// kinds map to transport status codes here and nowhere else.
func abortWithError(c *gin.Context, err error) {
	var status int
	var code string

	switch feed.KindOf(err) {
	case feed.KindInvalidCursor:
		status = http.StatusBadRequest
		code = "invalid_cursor"
	case feed.KindFeedUnavailable, feed.KindStoreUnavailable:
		// Caller should retry, not render stale content.
		status = http.StatusServiceUnavailable
		code = "feed_unavailable"
	default:
		status = http.StatusInternalServerError
		code = "internal_error"
	}

	if status >= http.StatusInternalServerError {
		logging.WithComponent("api").Error("request failed", zap.Error(err))
	}

	c.AbortWithStatusJSON(status, errorResponse{
		Error:   code,
		Message: err.Error(),
	})
}
