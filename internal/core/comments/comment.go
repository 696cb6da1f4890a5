package comments

import (
	"time"

	"Folio/internal/core/pagination"
)

// Comment is a reply to a published post
type Comment struct {
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
	ID        string     `json:"id" db:"id"`
	PostID    string     `json:"postId" db:"post_id"`
	AuthorID  string     `json:"authorId" db:"author_id"`
	Text      string     `json:"text" db:"text"`
}

// CommentView is the wire form of a comment
type CommentView struct {
	DateCreated time.Time `json:"date_created"`
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	AuthorID    string    `json:"author_id"`
	Text        string    `json:"text"`
}

// NewCommentView converts a comment to its wire form
func NewCommentView(c *Comment) *CommentView {
	return &CommentView{
		ID:          c.ID,
		PostID:      c.PostID,
		AuthorID:    c.AuthorID,
		Text:        c.Text,
		DateCreated: c.CreatedAt,
	}
}

// Adapter orders comments by creation date
var Adapter = pagination.NewCreationDateAdapter(func(c *Comment) (time.Time, string) {
	return c.CreatedAt, c.ID
})

// newest returns the most recently created comment of a non-empty slice
func newest(items []*Comment) *Comment {
	latest := items[0]
	for _, c := range items[1:] {
		ck, _ := Adapter.Key(c)
		lk, _ := Adapter.Key(latest)
		if ck.Compare(lk) > 0 {
			latest = c
		}
	}
	return latest
}
