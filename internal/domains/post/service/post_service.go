package service

import (
	"context"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/shared/pagination"
)

type postService struct {
	repo post.Repository
}

func NewPostService(repo post.Repository) post.Service {
	return &postService{repo: repo}
}

func (s *postService) Get(ctx context.Context, id int64) (post.PostDTO, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return post.PostDTO{}, err
	}
	return post.NewPostDTO(p), nil
}

func (s *postService) List(ctx context.Context, page, perPage int) ([]post.PostDTO, pagination.Params, error) {
	p := pagination.Normalize(page, perPage)

	posts, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, p, err
	}

	return post.NewPostDTOs(posts), p, nil
}

func (s *postService) Create(ctx context.Context, req post.CreatePostRequest) (post.PostDTO, error) {
	p := &model.Post{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: req.AuthorID,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return post.PostDTO{}, err
	}

	return post.NewPostDTO(created), nil
}

func (s *postService) Update(ctx context.Context, id int64, req post.UpdatePostRequest) (post.PostDTO, error) {
	patch := req.ToPatch()
	if patch.IsEmpty() {
		return post.PostDTO{}, post.ErrEmptyUpdate
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return post.PostDTO{}, err
	}

	return post.NewPostDTO(updated), nil
}

func (s *postService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
