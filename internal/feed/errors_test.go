package feed

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "direct feed error",
			err:  NewError(KindInvalidCursor, "bad token", nil),
			want: KindInvalidCursor,
		},
		{
			name: "wrapped feed error",
			err:  fmt.Errorf("compose: %w", NewError(KindFeedUnavailable, "fetch failed", base)),
			want: KindFeedUnavailable,
		},
		{
			name: "plain error",
			err:  base,
			want: 0,
		},
		{
			name: "nil",
			err:  nil,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	base := errors.New("dial tcp: timeout")
	err := NewError(KindStoreUnavailable, "followed pool query failed", base)

	if !errors.Is(err, base) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestErrorString(t *testing.T) {
	err := NewError(KindFeedUnavailable, "fetch failed", errors.New("boom"))
	want := "feed_unavailable: fetch failed: boom"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	bare := NewError(KindInvalidCursor, "empty cursor", nil)
	want = "invalid_cursor: empty cursor"
	if bare.Error() != want {
		t.Errorf("Error() = %q, want %q", bare.Error(), want)
	}
}
