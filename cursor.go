package relaypager

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// _cursorPrefix is the array-connection prefix used by Relay libraries.
const _cursorPrefix = "arrayconnection:"

var _encoder = base64.StdEncoding

// OffsetCursor is an opaque token pointing at a position within an ordered
// collection. It maps onto LIMIT/OFFSET pagination.
type OffsetCursor struct {
	offset int
}

// NewOffsetCursor returns a cursor pointing at offset.
func NewOffsetCursor(offset int) *OffsetCursor {
	return &OffsetCursor{
		offset: offset,
	}
}

// DecodeOffsetCursor attempts to parse a base64-encoded token into *OffsetCursor.
// An empty token decodes into a nil cursor.
func DecodeOffsetCursor(b64String string) (*OffsetCursor, error) {
	if len(b64String) == 0 {
		return nil, nil
	}

	raw, err := _encoder.DecodeString(b64String)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 encoded cursor: %w", err)
	}

	offsetString, ok := strings.CutPrefix(string(raw), _cursorPrefix)
	if !ok {
		return nil, fmt.Errorf("cursor has no '%s' prefix", _cursorPrefix)
	}

	offset, err := strconv.Atoi(offsetString)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cursor offset value: %w", err)
	}

	return &OffsetCursor{
		offset: offset,
	}, nil
}

// String - implements fmt.Stringer.
func (c *OffsetCursor) String() string {
	return _encoder.EncodeToString([]byte(_cursorPrefix + strconv.Itoa(c.GetOffset())))
}

// IsEmpty returns true for a nil cursor.
func (c *OffsetCursor) IsEmpty() bool {
	return c == nil
}

// Apply applies the offset to a gorm query.
func (c *OffsetCursor) Apply(db *gorm.DB) *gorm.DB {
	return db.Offset(c.GetOffset())
}

// GetOffset returns the numeric offset value.
func (c *OffsetCursor) GetOffset() int {
	if c != nil {
		return c.offset
	}

	return 0
}

var _ fmt.Stringer = (*OffsetCursor)(nil)

// OffsetToCursor encodes an offset into a cursor token.
func OffsetToCursor(offset int) string {
	return NewOffsetCursor(offset).String()
}

// CursorToOffset decodes a cursor token into an offset.
func CursorToOffset(cursor string) (int, error) {
	c, err := DecodeOffsetCursor(cursor)
	if err != nil {
		return 0, err
	}
	if c.IsEmpty() {
		return 0, fmt.Errorf("empty cursor")
	}

	return c.GetOffset(), nil
}

// offsetWithDefault returns the offset encoded in cursor, or def when the
// cursor is absent or malformed.
func offsetWithDefault(cursor *string, def int) (int, error) {
	if cursor == nil {
		return def, nil
	}

	offset, err := CursorToOffset(*cursor)
	if err != nil {
		return def, err
	}

	return offset, nil
}
