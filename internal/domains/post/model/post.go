package model

import (
	"time"

	usermodel "blog-backend/internal/domains/user/model"
)

// Post is the persisted post entity. Author is populated on reads so
// the wire form can embed the full author representation; it is not a
// column. As with User, the JSON tags are the cache form only.
type Post struct {
	ID        int64           `json:"id" db:"id"`
	Title     string          `json:"title" db:"title"`
	Content   string          `json:"content" db:"content"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	AuthorID  int64           `json:"author_id" db:"author_id"`
	Author    *usermodel.User `json:"author,omitempty"`
}

// PostPatch lists the mutable fields for an update. Nil means "leave
// unchanged". ID and CreatedAt are server-assigned and immutable.
type PostPatch struct {
	Title    *string
	Content  *string
	AuthorID *int64
}

// IsEmpty reports whether the patch would change nothing.
func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.AuthorID == nil
}
