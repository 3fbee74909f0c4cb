package feed

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"time"
)

// Key is a keyset position in the (created_at DESC, id DESC) ordering.
// A fetch resumes strictly after the key, so pages never skip or
// duplicate items when new posts land between requests.
type Key struct {
	CreatedAt time.Time `json:"c"`
	ID        int64     `json:"i"`
}

// After reports whether k sorts strictly after other in the
// (created_at DESC, id DESC) ordering, i.e. k is the older item.
func (k Key) After(other Key) bool {
	if k.CreatedAt.Equal(other.CreatedAt) {
		return k.ID < other.ID
	}
	return k.CreatedAt.Before(other.CreatedAt)
}

// Cursor is the composite pagination token returned to clients. It
// carries one keyset position per pool consulted so the next page
// resumes correctly from both pools independently.
type Cursor struct {
	Followed *Key `json:"f,omitempty"`
	Public   *Key `json:"p,omitempty"`
}

// Encode serializes the cursor to an opaque token.
func (c *Cursor) Encode() string {
	if c == nil || (c.Followed == nil && c.Public == nil) {
		return ""
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses an opaque token produced by Encode. An empty
// token yields a nil cursor (start from the top). Anything malformed
// or forged fails with KindInvalidCursor; a broken cursor must not
// silently restart from page one.
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, NewError(KindInvalidCursor, "malformed cursor token", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var c Cursor
	if err := dec.Decode(&c); err != nil {
		return nil, NewError(KindInvalidCursor, "malformed cursor payload", err)
	}
	if dec.More() {
		return nil, NewError(KindInvalidCursor, "trailing data in cursor", nil)
	}
	if c.Followed == nil && c.Public == nil {
		return nil, NewError(KindInvalidCursor, "empty cursor", nil)
	}
	for _, k := range []*Key{c.Followed, c.Public} {
		if k == nil {
			continue
		}
		if k.ID <= 0 || k.CreatedAt.IsZero() {
			return nil, NewError(KindInvalidCursor, "invalid cursor key", nil)
		}
	}

	return &c, nil
}
