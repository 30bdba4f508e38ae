package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultLimit is the page size used when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds cursor pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor identifies the last row of the previous page. Listing orders by
// (created_at DESC, id DESC), so both keys are needed to resume a page.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// cursors travel in query strings, so the encoding must be URL-safe
var cursorEncoding = base64.RawURLEncoding

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer returns the normalized limit plus one to detect the next page.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor builds an opaque cursor from the row's sort keys.
func EncodeCursor(cursor Cursor) string {
	payload := cursor.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + cursor.ID.String()
	return cursorEncoding.EncodeToString([]byte(payload))
}

// ParseCursor decodes a cursor string back into its sort keys. An empty
// string means "first page" and returns a nil cursor without error.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	decoded, err := cursorEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}
	tsPart, idPart, found := strings.Cut(string(decoded), "|")
	if !found {
		return nil, fmt.Errorf("invalid cursor format")
	}

	ts, err := time.Parse(time.RFC3339Nano, tsPart)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &Cursor{CreatedAt: ts, ID: id}, nil
}

// TrimPage cuts an over-fetched result set down to the requested limit and
// reports whether there is a following page.
func TrimPage[T any](rows []T, limit int) ([]T, bool) {
	n := NormalizeLimit(limit)
	if len(rows) > n {
		return rows[:n], true
	}
	return rows, false
}
