package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pulsenet/feedserve/internal/feed"
)

func TestAbortWithError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid cursor is a client error",
			err:        feed.NewError(feed.KindInvalidCursor, "malformed cursor token", nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_cursor",
		},
		{
			name:       "feed unavailable",
			err:        feed.NewError(feed.KindFeedUnavailable, "fetch failed", nil),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "feed_unavailable",
		},
		{
			name:       "store unavailable",
			err:        feed.NewError(feed.KindStoreUnavailable, "timeout", nil),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "feed_unavailable",
		},
		{
			name:       "untagged error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest("GET", "/v1/feed", nil)

			abortWithError(c, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if body.Error != tt.wantCode {
				t.Errorf("error code = %q, want %q", body.Error, tt.wantCode)
			}
		})
	}
}
