package post

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/user"
)

// CreatePostRequest is the wire form for POST /posts. author_id is
// write-only; responses embed the full author object instead.
type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	AuthorID int64  `json:"author_id"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
		),
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
		),
		validation.Field(&r.AuthorID,
			validation.Required.Error("author_id is required"),
			validation.Min(int64(1)).Error("author_id must be positive"),
		),
	)
}

// UpdatePostRequest is the wire form for PUT /posts/:id. Pointer
// fields support partial updates.
type UpdatePostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	AuthorID *int64  `json:"author_id"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.When(r.Title != nil,
				validation.Required.Error("title cannot be empty"),
			),
		),
		validation.Field(&r.Content,
			validation.When(r.Content != nil,
				validation.Required.Error("content cannot be empty"),
			),
		),
		validation.Field(&r.AuthorID,
			validation.When(r.AuthorID != nil,
				validation.Min(int64(1)).Error("author_id must be positive"),
			),
		),
	)
}

func (r UpdatePostRequest) ToPatch() model.PostPatch {
	return model.PostPatch{
		Title:    r.Title,
		Content:  r.Content,
		AuthorID: r.AuthorID,
	}
}

// PostDTO is the public post representation with the author embedded.
type PostDTO struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"created_at"`
	Author    user.UserDTO `json:"author"`
}

func NewPostDTO(p *model.Post) PostDTO {
	dto := PostDTO{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
	if p.Author != nil {
		dto.Author = user.NewUserDTO(p.Author)
	}
	return dto
}

func NewPostDTOs(posts []model.Post) []PostDTO {
	dtos := make([]PostDTO, 0, len(posts))
	for i := range posts {
		dtos = append(dtos, NewPostDTO(&posts[i]))
	}
	return dtos
}

// ListPostsRequest carries pagination query params.
type ListPostsRequest struct {
	Page    int `form:"page"`
	PerPage int `form:"per_page"`
}
