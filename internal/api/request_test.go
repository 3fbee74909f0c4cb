package api

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pulsenet/feedserve/pkg/config"
)

func testFeedConfig() config.FeedConfig {
	return config.FeedConfig{DefaultLimit: 20, MaxLimit: 50}
}

func newTestContext(target string, viewer string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	if viewer != "" {
		c.Request.Header.Set(viewerHeader, viewer)
	}
	return c
}

func TestParseFeedRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
		viewer string
		want   feedRequest
	}{
		{
			name:   "defaults",
			target: "/v1/feed",
			want:   feedRequest{ViewerID: 0, Page: 1, Limit: 20},
		},
		{
			name:   "explicit page and limit",
			target: "/v1/feed?page=3&limit=10",
			viewer: "42",
			want:   feedRequest{ViewerID: 42, Page: 3, Limit: 10},
		},
		{
			name:   "limit clamped to max",
			target: "/v1/feed?limit=500",
			want:   feedRequest{ViewerID: 0, Page: 1, Limit: 50},
		},
		{
			name:   "zero page falls back to first",
			target: "/v1/feed?page=0",
			want:   feedRequest{ViewerID: 0, Page: 1, Limit: 20},
		},
		{
			name:   "negative limit falls back to default",
			target: "/v1/feed?limit=-1",
			want:   feedRequest{ViewerID: 0, Page: 1, Limit: 20},
		},
		{
			name:   "non-numeric ignored",
			target: "/v1/feed?page=abc&limit=xyz",
			want:   feedRequest{ViewerID: 0, Page: 1, Limit: 20},
		},
		{
			name:   "cursor passed through",
			target: "/v1/feed?cursor=eyJmIjp7fX0",
			want:   feedRequest{ViewerID: 0, Page: 1, Limit: 20, Cursor: "eyJmIjp7fX0"},
		},
		{
			name:   "malformed viewer header is anonymous",
			target: "/v1/feed",
			viewer: "not-a-number",
			want:   feedRequest{ViewerID: 0, Page: 1, Limit: 20},
		},
		{
			name:   "non-positive viewer is anonymous",
			target: "/v1/feed",
			viewer: "-3",
			want:   feedRequest{ViewerID: 0, Page: 1, Limit: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(tt.target, tt.viewer)
			got := parseFeedRequest(c, testFeedConfig())
			if got != tt.want {
				t.Errorf("parseFeedRequest() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
