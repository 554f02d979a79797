package user

import (
	"context"

	"github.com/jackc/pgx/v5"

	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/shared/pagination"
)

// Repository is the user data access contract. Absent rows come back
// as ErrUserNotFound, never as a nil entity with nil error.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, p pagination.Params) ([]model.User, error)
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Update(ctx context.Context, id int64, patch model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, id int64) error

	// WithTx returns a repository bound to the given transaction so
	// several calls can share one session. The bound repository skips
	// the cache (reads must observe uncommitted state) and leaves
	// commit/rollback to the transaction owner.
	WithTx(tx pgx.Tx) Repository
}
