package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/post"
	"blog-backend/internal/domains/post/model"
	usermodel "blog-backend/internal/domains/user/model"
	"blog-backend/internal/shared/pagination"
)

// fakePostRepo is an in-memory post.Repository for service tests. It
// resolves authors against a fixed user set, like the real repository
// does against the users table.
type fakePostRepo struct {
	posts   map[int64]model.Post
	authors map[int64]usermodel.User
	nextID  int64
}

func newFakePostRepo(authors ...usermodel.User) *fakePostRepo {
	f := &fakePostRepo{
		posts:   map[int64]model.Post{},
		authors: map[int64]usermodel.User{},
		nextID:  1,
	}
	for _, a := range authors {
		f.authors[a.ID] = a
	}
	return f
}

func (f *fakePostRepo) attachAuthor(p model.Post) model.Post {
	if a, ok := f.authors[p.AuthorID]; ok {
		p.Author = &a
	}
	return p
}

func (f *fakePostRepo) GetByID(_ context.Context, id int64) (*model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	p = f.attachAuthor(p)
	return &p, nil
}

func (f *fakePostRepo) List(_ context.Context, params pagination.Params) ([]model.Post, error) {
	out := make([]model.Post, 0, len(f.posts))
	for id := int64(1); id < f.nextID; id++ {
		if p, ok := f.posts[id]; ok {
			out = append(out, f.attachAuthor(p))
		}
	}
	start := params.Offset()
	if start > len(out) {
		return []model.Post{}, nil
	}
	end := start + params.Limit()
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (f *fakePostRepo) Create(_ context.Context, p *model.Post) (*model.Post, error) {
	if _, ok := f.authors[p.AuthorID]; !ok {
		return nil, post.ErrAuthorNotFound
	}
	created := *p
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	f.posts[created.ID] = created
	f.nextID++
	created = f.attachAuthor(created)
	return &created, nil
}

func (f *fakePostRepo) Update(_ context.Context, id int64, patch model.PostPatch) (*model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	if patch.AuthorID != nil {
		if _, ok := f.authors[*patch.AuthorID]; !ok {
			return nil, post.ErrAuthorNotFound
		}
		p.AuthorID = *patch.AuthorID
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	f.posts[id] = p
	p = f.attachAuthor(p)
	return &p, nil
}

func (f *fakePostRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.posts[id]; !ok {
		return post.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) WithTx(_ pgx.Tx) post.Repository { return f }

var testAuthor = usermodel.User{
	ID:       1,
	Username: "alice",
	Email:    "alice@example.com",
	Password: "secret",
}

func seedPost(t *testing.T, svc post.Service, title string) post.PostDTO {
	t.Helper()
	dto, err := svc.Create(context.Background(), post.CreatePostRequest{
		Title:    title,
		Content:  "content of " + title,
		AuthorID: testAuthor.ID,
	})
	require.NoError(t, err)
	return dto
}

func TestPostServiceCreateAndGet(t *testing.T) {
	svc := NewPostService(newFakePostRepo(testAuthor))

	created := seedPost(t, svc, "hello")
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "alice", created.Author.Username)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestPostServiceCreateUnknownAuthor(t *testing.T) {
	svc := NewPostService(newFakePostRepo(testAuthor))

	_, err := svc.Create(context.Background(), post.CreatePostRequest{
		Title:    "hello",
		Content:  "world",
		AuthorID: 99,
	})
	assert.ErrorIs(t, err, post.ErrAuthorNotFound)
}

func TestPostServiceGetNotFound(t *testing.T) {
	svc := NewPostService(newFakePostRepo(testAuthor))

	_, err := svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, post.ErrPostNotFound)
}

func TestPostServiceListPagination(t *testing.T) {
	svc := NewPostService(newFakePostRepo(testAuthor))

	for i := 0; i < 15; i++ {
		seedPost(t, svc, "post "+string(rune('a'+i)))
	}

	dtos, p, err := svc.List(context.Background(), 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, p.Page)
	assert.Len(t, dtos, 5)
	assert.Equal(t, int64(11), dtos[0].ID)
	assert.Equal(t, "alice", dtos[0].Author.Username)
}

func TestPostServiceUpdate(t *testing.T) {
	svc := NewPostService(newFakePostRepo(testAuthor))
	created := seedPost(t, svc, "hello")

	title := "updated"
	updated, err := svc.Update(context.Background(), created.ID, post.UpdatePostRequest{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "updated", updated.Title)
	assert.Equal(t, created.Content, updated.Content)
	assert.Equal(t, created.ID, updated.ID)
}

func TestPostServiceUpdateEmptyPatch(t *testing.T) {
	svc := NewPostService(newFakePostRepo(testAuthor))
	created := seedPost(t, svc, "hello")

	_, err := svc.Update(context.Background(), created.ID, post.UpdatePostRequest{})
	assert.ErrorIs(t, err, post.ErrEmptyUpdate)
}

func TestPostServiceUpdateUnknownAuthor(t *testing.T) {
	svc := NewPostService(newFakePostRepo(testAuthor))
	created := seedPost(t, svc, "hello")

	badAuthor := int64(99)
	_, err := svc.Update(context.Background(), created.ID, post.UpdatePostRequest{AuthorID: &badAuthor})
	assert.ErrorIs(t, err, post.ErrAuthorNotFound)
}

func TestPostServiceDelete(t *testing.T) {
	svc := NewPostService(newFakePostRepo(testAuthor))
	created := seedPost(t, svc, "hello")

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	_, err := svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, post.ErrPostNotFound)

	err = svc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, post.ErrPostNotFound)
}
