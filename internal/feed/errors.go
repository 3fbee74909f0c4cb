package feed

import (
	"errors"
	"fmt"
)

// Kind classifies feed errors for the boundary layer. Transport
// status mapping happens once, in internal/api.
type Kind int

const (
	// KindStoreUnavailable is a transient store failure; retried once
	// at the fetcher boundary before escalating.
	KindStoreUnavailable Kind = iota + 1
	// KindFollowGraphUnavailable is never surfaced to callers; the
	// composer downgrades to public-only content.
	KindFollowGraphUnavailable
	// KindInvalidCursor marks a malformed or forged pagination token.
	KindInvalidCursor
	// KindFeedUnavailable is fatal for the request.
	KindFeedUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindStoreUnavailable:
		return "store_unavailable"
	case KindFollowGraphUnavailable:
		return "follow_graph_unavailable"
	case KindInvalidCursor:
		return "invalid_cursor"
	case KindFeedUnavailable:
		return "feed_unavailable"
	default:
		return "unknown"
	}
}

// Error is a feed error carrying its kind end-to-end.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new feed error
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or 0 if err is not a feed error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
