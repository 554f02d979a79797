package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/shared/pagination"
	"blog-backend/pkg/jwt"
)

type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
}

// NewUserService wires the user business logic to its repository and
// the token manager.
func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
	}
}

func (s *userService) Get(ctx context.Context, id int64) (user.UserDTO, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return user.UserDTO{}, err
	}
	return user.NewUserDTO(u), nil
}

func (s *userService) List(ctx context.Context, page, perPage int) ([]user.UserDTO, pagination.Params, error) {
	p := pagination.Normalize(page, perPage)

	users, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, p, err
	}

	return user.NewUserDTOs(users), p, nil
}

func (s *userService) Create(ctx context.Context, req user.CreateUserRequest) (user.UserDTO, error) {
	u := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return user.UserDTO{}, err
	}

	return user.NewUserDTO(created), nil
}

func (s *userService) Update(ctx context.Context, id int64, req user.UpdateUserRequest) (user.UserDTO, error) {
	patch := req.ToPatch()
	if patch.IsEmpty() {
		return user.UserDTO{}, user.ErrEmptyUpdate
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return user.UserDTO{}, err
	}

	return user.NewUserDTO(updated), nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *userService) Token(ctx context.Context, req user.TokenRequest) (user.TokenResponse, error) {
	u, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.TokenResponse{}, user.ErrInvalidCredentials
		}
		return user.TokenResponse{}, err
	}

	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(req.Password)) != 1 {
		return user.TokenResponse{}, user.ErrInvalidCredentials
	}

	return s.issueTokens(u.ID, u.Username)
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (user.TokenResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return user.TokenResponse{}, user.ErrInvalidCredentials
	}

	// Re-check the user still exists before minting fresh tokens.
	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.TokenResponse{}, user.ErrInvalidCredentials
		}
		return user.TokenResponse{}, err
	}

	return s.issueTokens(u.ID, u.Username)
}

func (s *userService) issueTokens(id int64, username string) (user.TokenResponse, error) {
	access, err := s.jwtManager.GenerateAccessToken(id, username)
	if err != nil {
		return user.TokenResponse{}, err
	}

	refresh, err := s.jwtManager.GenerateRefreshToken(id, username)
	if err != nil {
		return user.TokenResponse{}, err
	}

	return user.TokenResponse{Access: access, Refresh: refresh}, nil
}
