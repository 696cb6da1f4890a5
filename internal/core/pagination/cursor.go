package pagination

import "strings"

// Pair is one component of a cursor: a named ordering-key field and its value.
type Pair struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Cursor is the wire form of a page boundary.
// It stays an ordered key/value list on the wire so an adapter can change its
// key composition without breaking clients; adapters decode it into a typed
// Predicate as soon as it arrives.
type Cursor struct {
	Data []Pair `json:"data"`
}

// Side tells which end of a page a cursor was taken from.
type Side int

const (
	// SideNone means no boundary: the traversal starts at its first item
	SideNone Side = iota
	// SideAfter resumes strictly after the boundary (the "next" cursor)
	SideAfter
	// SideBefore resumes strictly before the boundary (the "previous" cursor)
	SideBefore
)

func (s Side) String() string {
	switch s {
	case SideAfter:
		return "after"
	case SideBefore:
		return "before"
	default:
		return "none"
	}
}

// prefix is prepended to every field name so a decoded cursor knows its side
// without any session state.
func (s Side) prefix() string {
	if s == SideNone {
		return ""
	}
	return s.String() + "."
}

// IsEmpty reports whether the cursor is the "no boundary" sentinel.
// A cursor with no pairs, or whose values are all empty, is empty.
func (c Cursor) IsEmpty() bool {
	for _, pair := range c.Data {
		if pair.Value != "" {
			return false
		}
	}
	return true
}

// Get returns the value stored under field, if present and non-empty.
func (c Cursor) Get(field string) (string, bool) {
	for _, pair := range c.Data {
		if pair.Field == field {
			value := strings.TrimSpace(pair.Value)
			return value, value != ""
		}
	}
	return "", false
}
