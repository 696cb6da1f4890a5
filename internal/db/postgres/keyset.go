package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"Folio/internal/core/pagination"
)

// orderColumns maps cursor orderings to the columns they sort on.
// Only whitelisted columns are ever interpolated into SQL.
var orderColumns = map[string]string{
	pagination.CreationDate.Field:    "created_at",
	pagination.PublicationDate.Field: "published_at",
}

// keyset is the SQL fragment of one keyset-paginated window
type keyset struct {
	// filter starts with AND and restricts rows to the window
	filter string
	// orderBy holds the ORDER BY expression without the keyword
	orderBy string
	// limit is the LIMIT clause
	limit string
	args  []interface{}
}

// buildKeyset translates a pagination query into SQL over the given table alias.
// paramOffset is the number of the first placeholder the keyset may use.
//
// Rows lacking the ordering column are always excluded. With a boundary the
// window holds rows strictly beyond it: (col, id) < boundary when descending,
// (col, id) > boundary otherwise.
func buildKeyset(alias string, q pagination.Query, paramOffset int) (keyset, error) {
	column, ok := orderColumns[q.Ordering.Field]
	if !ok {
		return keyset{}, fmt.Errorf("unsupported ordering %q", q.Ordering.Field)
	}
	col := alias + "." + column
	id := alias + ".id"

	direction, cmp := "ASC", ">"
	if q.Descending {
		direction, cmp = "DESC", "<"
	}

	ks := keyset{
		filter:  fmt.Sprintf("AND %s IS NOT NULL", col),
		orderBy: fmt.Sprintf("%s %s, %s %s", col, direction, id, direction),
	}

	n := paramOffset
	if q.Boundary != nil {
		boundaryID, err := uuid.Parse(q.Boundary.ID)
		if err != nil {
			return keyset{}, fmt.Errorf("%w: boundary id %q", pagination.NewInvalidArgument(pagination.ReasonInvalidCursor), q.Boundary.ID)
		}

		ks.filter += fmt.Sprintf(" AND (%s, %s) %s ($%d::timestamptz, $%d::uuid)", col, id, cmp, n, n+1)
		ks.args = append(ks.args, q.Boundary.Date.UTC().Format(time.RFC3339Nano), boundaryID.String())
		n += 2
	}

	if q.Limit > 0 {
		ks.limit = fmt.Sprintf("LIMIT $%d", n)
		ks.args = append(ks.args, q.Limit)
	}

	return ks, nil
}
