package feed

import (
	"context"
	"testing"
	"time"

	"github.com/pulsenet/feedserve/internal/models"
)

func TestAnnotate(t *testing.T) {
	posts := []models.Post{
		mkPost(10, 2, 1*time.Minute),
		mkPost(11, 2, 2*time.Minute),
		mkPost(12, 3, 3*time.Minute),
	}

	store := &fakeStore{
		likes: map[int64]map[int64]bool{7: {11: true, 12: true}},
	}
	annotator := NewAnnotator(store)

	items, err := annotator.Annotate(context.Background(), 7, posts)
	if err != nil {
		t.Fatalf("Annotate() failed: %v", err)
	}
	if store.likeCalls != 1 {
		t.Errorf("expected one bulk membership query, got %d", store.likeCalls)
	}

	want := map[int64]bool{10: false, 11: true, 12: true}
	for _, it := range items {
		if it.IsLikedByViewer != want[it.ID] {
			t.Errorf("post %d: flag = %v, want %v", it.ID, it.IsLikedByViewer, want[it.ID])
		}
	}
}

func TestAnnotateAnonymous(t *testing.T) {
	store := &fakeStore{
		likes: map[int64]map[int64]bool{7: {10: true}},
	}
	annotator := NewAnnotator(store)

	items, err := annotator.Annotate(context.Background(), AnonymousViewer, []models.Post{
		mkPost(10, 2, time.Minute),
	})
	if err != nil {
		t.Fatalf("Annotate() failed: %v", err)
	}
	if store.likeCalls != 0 {
		t.Errorf("membership queried for anonymous viewer: %d calls", store.likeCalls)
	}
	if items[0].IsLikedByViewer {
		t.Error("anonymous viewer got a liked flag")
	}
}

func TestAnnotateEmptyPage(t *testing.T) {
	store := &fakeStore{}
	annotator := NewAnnotator(store)

	items, err := annotator.Annotate(context.Background(), 7, nil)
	if err != nil {
		t.Fatalf("Annotate() failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
	if store.likeCalls != 0 {
		t.Errorf("membership queried for empty page: %d calls", store.likeCalls)
	}
}

func TestAnnotateCarriesPostFields(t *testing.T) {
	post := mkPost(10, 2, time.Minute)
	post.Category = "music"
	post.LikeCount = 3
	post.CommentCount = 4

	annotator := NewAnnotator(&fakeStore{})
	items, err := annotator.Annotate(context.Background(), AnonymousViewer, []models.Post{post})
	if err != nil {
		t.Fatalf("Annotate() failed: %v", err)
	}

	it := items[0]
	if it.ID != 10 || it.AuthorID != 2 || it.Category != "music" || it.LikeCount != 3 || it.CommentCount != 4 {
		t.Errorf("item fields not carried over: %+v", it)
	}
	if !it.CreatedAt.Equal(post.CreatedAt) {
		t.Errorf("created_at mismatch: %v vs %v", it.CreatedAt, post.CreatedAt)
	}
}
