package user

import (
	"context"

	"blog-backend/internal/shared/pagination"
)

// Service is the user business logic contract consumed by the HTTP
// handlers.
type Service interface {
	Get(ctx context.Context, id int64) (UserDTO, error)
	List(ctx context.Context, page, perPage int) ([]UserDTO, pagination.Params, error)
	Create(ctx context.Context, req CreateUserRequest) (UserDTO, error)
	Update(ctx context.Context, id int64, req UpdateUserRequest) (UserDTO, error)
	Delete(ctx context.Context, id int64) error

	// Token issues an access/refresh pair for valid credentials.
	Token(ctx context.Context, req TokenRequest) (TokenResponse, error)
	// Refresh exchanges a valid refresh token for a new pair.
	Refresh(ctx context.Context, refreshToken string) (TokenResponse, error)
}
