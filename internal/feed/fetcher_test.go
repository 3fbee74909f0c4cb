package feed

import (
	"context"
	"testing"
	"time"

	"github.com/pulsenet/feedserve/internal/models"
)

func TestTrimPage(t *testing.T) {
	posts := []models.Post{
		mkPost(3, 1, 1*time.Minute),
		mkPost(2, 1, 2*time.Minute),
		mkPost(1, 1, 3*time.Minute),
	}

	tests := []struct {
		name     string
		posts    []models.Post
		limit    int
		wantLen  int
		wantMore bool
		wantNext *Key
	}{
		{
			name:     "under limit",
			posts:    posts[:2],
			limit:    3,
			wantLen:  2,
			wantMore: false,
			wantNext: &Key{CreatedAt: posts[1].CreatedAt, ID: 2},
		},
		{
			name:     "over limit trims and flags more",
			posts:    posts,
			limit:    2,
			wantLen:  2,
			wantMore: true,
			wantNext: &Key{CreatedAt: posts[1].CreatedAt, ID: 2},
		},
		{
			name:     "empty",
			posts:    nil,
			limit:    2,
			wantLen:  0,
			wantMore: false,
			wantNext: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := trimPage(tt.posts, tt.limit)
			if len(res.Posts) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(res.Posts), tt.wantLen)
			}
			if res.HasMore != tt.wantMore {
				t.Errorf("HasMore = %v, want %v", res.HasMore, tt.wantMore)
			}
			if (res.Next == nil) != (tt.wantNext == nil) {
				t.Fatalf("Next = %v, want %v", res.Next, tt.wantNext)
			}
			if res.Next != nil && (res.Next.ID != tt.wantNext.ID || !res.Next.CreatedAt.Equal(tt.wantNext.CreatedAt)) {
				t.Errorf("Next = %v, want %v", res.Next, tt.wantNext)
			}
		})
	}
}

func TestFollowedFetcherEmptyAuthorSet(t *testing.T) {
	store := &fakeStore{posts: []models.Post{mkPost(1, 2, time.Minute)}}
	f := &followedFetcher{src: store, authorIDs: nil}

	res, err := f.fetchPage(context.Background(), nil, 10)
	if err != nil {
		t.Fatalf("fetchPage() failed: %v", err)
	}
	if len(res.Posts) != 0 || res.HasMore {
		t.Errorf("empty author set should yield an empty page, got %+v", res)
	}
	if store.authorCalls != 0 {
		t.Errorf("store queried %d times with empty author set", store.authorCalls)
	}
}

func TestFetchWithRetryNonTransientNotRetried(t *testing.T) {
	store := &fakeStore{
		authorErrs: []error{NewError(KindInvalidCursor, "bad", nil)},
		posts:      []models.Post{mkPost(1, 2, time.Minute)},
	}
	f := &followedFetcher{src: store, authorIDs: []int64{2}}

	_, err := fetchWithRetry(context.Background(), f, nil, 10, time.Millisecond)
	if err == nil {
		t.Fatal("expected error")
	}
	if store.authorCalls != 1 {
		t.Errorf("non-transient error retried: %d calls", store.authorCalls)
	}
}

func TestFetchWithRetryHonorsCancellation(t *testing.T) {
	store := &fakeStore{
		authorErrs: []error{NewError(KindStoreUnavailable, "timeout", nil)},
		posts:      []models.Post{mkPost(1, 2, time.Minute)},
	}
	f := &followedFetcher{src: store, authorIDs: []int64{2}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetchWithRetry(ctx, f, nil, 10, time.Hour)
	if err == nil {
		t.Fatal("expected error")
	}
	if store.authorCalls != 1 {
		t.Errorf("retry attempted after cancellation: %d calls", store.authorCalls)
	}
}
