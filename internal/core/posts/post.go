package posts

import (
	"time"

	"Folio/internal/core/pagination"
)

// Post is a unit of content. A post without PublishedAt is a draft.
type Post struct {
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" db:"published_at"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
	ID          string     `json:"id" db:"id"`
	AuthorID    string     `json:"authorId" db:"author_id"`
	Title       string     `json:"title" db:"title"`
	Preview     string     `json:"preview" db:"preview"`
	IsAnonymous bool       `json:"isAnonymous" db:"is_anonymous"`
	Score       int        `json:"score" db:"score"`
}

// IsPublished reports whether the post has left draft state
func (p *Post) IsPublished() bool {
	return p.PublishedAt != nil && !p.PublishedAt.IsZero()
}

// IsDeleted reports whether the post was soft-deleted
func (p *Post) IsDeleted() bool {
	return p.DeletedAt != nil
}

// PostView is the wire form of a post
type PostView struct {
	DateCreated   time.Time  `json:"date_created"`
	DatePublished *time.Time `json:"date_published,omitempty"`
	AuthorID      *string    `json:"author_id"`
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Preview       string     `json:"preview"`
	Score         int        `json:"score"`
	IsAnonymous   bool       `json:"is_anonymous"`
	IsPreview     bool       `json:"is_preview"`
}

// NewPostView builds the view of post for viewerID.
// The author of an anonymous post is only shown to the author.
func NewPostView(post *Post, viewerID string, preview bool) *PostView {
	view := &PostView{
		ID:            post.ID,
		Title:         post.Title,
		Preview:       post.Preview,
		Score:         post.Score,
		IsAnonymous:   post.IsAnonymous,
		IsPreview:     preview,
		DateCreated:   post.CreatedAt,
		DatePublished: post.PublishedAt,
	}
	if !post.IsAnonymous || post.AuthorID == viewerID {
		author := post.AuthorID
		view.AuthorID = &author
	}
	return view
}

// CreationAdapter orders posts by creation date
var CreationAdapter = pagination.NewCreationDateAdapter(func(p *Post) (time.Time, string) {
	return p.CreatedAt, p.ID
})

// PublicationAdapter orders posts by publication date; drafts have no key
var PublicationAdapter = pagination.NewPublicationDateAdapter(func(p *Post) (time.Time, string) {
	if p.PublishedAt == nil {
		return time.Time{}, p.ID
	}
	return *p.PublishedAt, p.ID
})

// Scope selects which posts a listing covers for its caller
type Scope int

const (
	// ScopeArchive lists published posts the caller subscribed to
	ScopeArchive Scope = iota
	// ScopeOwnPosts lists the caller's published posts
	ScopeOwnPosts
	// ScopeDrafts lists the caller's unpublished posts
	ScopeDrafts
)

func (s Scope) String() string {
	switch s {
	case ScopeArchive:
		return "archive"
	case ScopeOwnPosts:
		return "own_posts"
	case ScopeDrafts:
		return "drafts"
	default:
		return "unknown"
	}
}

// Adapter returns the ordering a scope is listed in
func (s Scope) Adapter() pagination.Adapter[*Post] {
	if s == ScopeDrafts {
		return CreationAdapter
	}
	return PublicationAdapter
}
