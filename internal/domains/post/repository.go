package post

import (
	"context"

	"github.com/jackc/pgx/v5"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/pagination"
)

// Repository is the post data access contract. Reads populate the
// Author field; absent rows come back as ErrPostNotFound.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	List(ctx context.Context, p pagination.Params) ([]model.Post, error)

	// Create resolves the author before writing and returns
	// ErrAuthorNotFound, with no row written, when it does not resolve.
	Create(ctx context.Context, p *model.Post) (*model.Post, error)

	// Update re-validates author_id against live users when the patch
	// carries one.
	Update(ctx context.Context, id int64, patch model.PostPatch) (*model.Post, error)
	Delete(ctx context.Context, id int64) error

	// WithTx returns a repository bound to the given transaction; see
	// user.Repository.WithTx.
	WithTx(tx pgx.Tx) Repository
}
