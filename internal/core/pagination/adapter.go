package pagination

import (
	"fmt"
	"strings"
	"time"
)

// idField is the tiebreak component shared by every date ordering
const idField = "id"

// Ordering names the key a collection is sorted on.
// Field is the cursor field name, Column the storage column it maps to.
type Ordering struct {
	Field  string
	Column string
}

var (
	// CreationDate orders by creation timestamp, then id
	CreationDate = Ordering{Field: "date_created", Column: "created_at"}
	// PublicationDate orders by publication timestamp, then id.
	// Unpublished items have no key and never appear.
	PublicationDate = Ordering{Field: "date_published", Column: "published_at"}
)

// Key is the ordering-key value of one item.
// Keys compare on Date first and ID second, which gives a total order.
type Key struct {
	Date time.Time
	ID   string
}

// Compare returns -1, 0 or 1 as k sorts before, equal to or after other.
func (k Key) Compare(other Key) int {
	switch {
	case k.Date.Before(other.Date):
		return -1
	case k.Date.After(other.Date):
		return 1
	}
	return strings.Compare(k.ID, other.ID)
}

// Predicate is a decoded cursor: "strictly after (or before) Key in the
// traversal order of Ordering". Side is SideNone when there is no boundary.
type Predicate struct {
	Ordering Ordering
	Side     Side
	Key      Key
}

// HasBoundary reports whether the predicate restricts the traversal
func (p Predicate) HasBoundary() bool {
	return p.Side != SideNone
}

// Adapter describes how one collection is ordered and how cursors map onto
// comparison predicates over that order.
type Adapter[T any] interface {
	// Ordering reports the key this adapter sorts on
	Ordering() Ordering

	// Key extracts the ordering key of item.
	// ok is false when the item lacks the ordering field; such items are
	// excluded by the adapter's base filter.
	Key(item T) (key Key, ok bool)

	// Encode builds the cursor for item on the given side of a page
	Encode(item T, side Side) Cursor

	// Decode turns a wire cursor back into a predicate.
	// Unknown or missing fields decode to a predicate with no boundary.
	Decode(cursor Cursor) (Predicate, error)
}

// KeyFunc returns the ordering date and the unique id of an item.
// A zero date means the item has no value for the ordering field.
type KeyFunc[T any] func(item T) (time.Time, string)

type dateAdapter[T any] struct {
	ordering Ordering
	key      KeyFunc[T]
}

// NewCreationDateAdapter orders items by creation date, then id
func NewCreationDateAdapter[T any](key KeyFunc[T]) Adapter[T] {
	return &dateAdapter[T]{ordering: CreationDate, key: key}
}

// NewPublicationDateAdapter orders items by publication date, then id
func NewPublicationDateAdapter[T any](key KeyFunc[T]) Adapter[T] {
	return &dateAdapter[T]{ordering: PublicationDate, key: key}
}

func (a *dateAdapter[T]) Ordering() Ordering {
	return a.ordering
}

func (a *dateAdapter[T]) Key(item T) (Key, bool) {
	date, id := a.key(item)
	if date.IsZero() || id == "" {
		return Key{}, false
	}
	return Key{Date: date, ID: id}, true
}

func (a *dateAdapter[T]) Encode(item T, side Side) Cursor {
	key, ok := a.Key(item)
	if !ok || side == SideNone {
		return Cursor{}
	}

	prefix := side.prefix()
	return Cursor{Data: []Pair{
		{Field: prefix + a.ordering.Field, Value: key.Date.UTC().Format(time.RFC3339Nano)},
		{Field: prefix + idField, Value: key.ID},
	}}
}

func (a *dateAdapter[T]) Decode(cursor Cursor) (Predicate, error) {
	predicate := Predicate{Ordering: a.ordering}
	if cursor.IsEmpty() {
		return predicate, nil
	}

	for _, side := range []Side{SideAfter, SideBefore} {
		prefix := side.prefix()
		dateValue, hasDate := cursor.Get(prefix + a.ordering.Field)
		id, hasID := cursor.Get(prefix + idField)
		if !hasDate || !hasID {
			continue
		}

		date, err := time.Parse(time.RFC3339Nano, dateValue)
		if err != nil {
			return Predicate{}, fmt.Errorf("%w: %s", NewInvalidArgument(ReasonInvalidCursor), err)
		}

		predicate.Side = side
		predicate.Key = Key{Date: date, ID: id}
		return predicate, nil
	}

	return predicate, nil
}
