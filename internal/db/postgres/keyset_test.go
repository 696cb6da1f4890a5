package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Folio/internal/core/pagination"
)

func TestBuildKeyset(t *testing.T) {
	boundary := &pagination.Key{
		Date: time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC),
		ID:   "0b9c3c06-94a4-4bd0-9a2c-4e3f0a1c2d3e",
	}

	tests := []struct {
		name        string
		query       pagination.Query
		offset      int
		wantFilter  string
		wantOrderBy string
		wantLimit   string
		wantArgs    []interface{}
	}{
		{
			name:        "first page newest first",
			query:       pagination.Query{Ordering: pagination.PublicationDate, Descending: true, Limit: 11},
			offset:      2,
			wantFilter:  "AND p.published_at IS NOT NULL",
			wantOrderBy: "p.published_at DESC, p.id DESC",
			wantLimit:   "LIMIT $2",
			wantArgs:    []interface{}{11},
		},
		{
			name:        "after boundary descending",
			query:       pagination.Query{Ordering: pagination.CreationDate, Descending: true, Boundary: boundary, Limit: 3},
			offset:      2,
			wantFilter:  "AND c.created_at IS NOT NULL AND (c.created_at, c.id) < ($2::timestamptz, $3::uuid)",
			wantOrderBy: "c.created_at DESC, c.id DESC",
			wantLimit:   "LIMIT $4",
			wantArgs:    []interface{}{"2024-06-01T10:30:00Z", boundary.ID, 3},
		},
		{
			name:        "ascending existence check",
			query:       pagination.Query{Ordering: pagination.CreationDate, Boundary: boundary, Limit: 1},
			offset:      1,
			wantFilter:  "AND c.created_at IS NOT NULL AND (c.created_at, c.id) > ($1::timestamptz, $2::uuid)",
			wantOrderBy: "c.created_at ASC, c.id ASC",
			wantLimit:   "LIMIT $3",
			wantArgs:    []interface{}{"2024-06-01T10:30:00Z", boundary.ID, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alias := "c"
			if tt.query.Ordering == pagination.PublicationDate {
				alias = "p"
			}
			ks, err := buildKeyset(alias, tt.query, tt.offset)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFilter, ks.filter)
			assert.Equal(t, tt.wantOrderBy, ks.orderBy)
			assert.Equal(t, tt.wantLimit, ks.limit)
			assert.Equal(t, tt.wantArgs, ks.args)
		})
	}
}

func TestBuildKeyset_Rejects(t *testing.T) {
	_, err := buildKeyset("p", pagination.Query{Ordering: pagination.Ordering{Field: "score; DROP TABLE posts"}}, 1)
	assert.Error(t, err)

	_, err = buildKeyset("p", pagination.Query{
		Ordering: pagination.CreationDate,
		Boundary: &pagination.Key{Date: time.Now(), ID: "not-a-uuid"},
	}, 1)
	assert.Equal(t, pagination.ReasonInvalidCursor, pagination.ReasonOf(err))
}
