package post

import (
	"context"

	"blog-backend/internal/shared/pagination"
)

// Service is the post business logic contract consumed by the HTTP
// handlers.
type Service interface {
	Get(ctx context.Context, id int64) (PostDTO, error)
	List(ctx context.Context, page, perPage int) ([]PostDTO, pagination.Params, error)
	Create(ctx context.Context, req CreatePostRequest) (PostDTO, error)
	Update(ctx context.Context, id int64, req UpdatePostRequest) (PostDTO, error)
	Delete(ctx context.Context, id int64) error
}
